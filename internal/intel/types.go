// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

package intel

import (
	"context"
	"errors"
	"time"
)

// Caller-input errors. Organically sparse or empty data is never an error;
// these are the only conditions surfaced to the caller.
var (
	// ErrNegativeMaxResults indicates the caller requested a negative result count.
	ErrNegativeMaxResults = errors.New("max results must not be negative")

	// ErrNegativeAvailableMinutes indicates a negative available-time budget.
	ErrNegativeAvailableMinutes = errors.New("available minutes must not be negative")
)

// InteractionRecord is one watch-history entry linking the user to a content
// item with engagement metadata. Records are created by the interaction
// store and consumed read-only here.
type InteractionRecord struct {
	// VideoID is the unique content identifier.
	VideoID string `json:"video_id"`

	// Title is the content title at watch time.
	Title string `json:"title"`

	// ChannelID identifies the publishing channel.
	ChannelID string `json:"channel_id"`

	// ChannelTitle is the channel's display name.
	ChannelTitle string `json:"channel_title"`

	// DurationText is the raw duration string ("12:34" or ISO-8601 "PT12M34S").
	DurationText string `json:"duration_text"`

	// WatchProgress is the fraction of the item watched, in [0, 1].
	WatchProgress float64 `json:"watch_progress"`

	// WatchDurationMS is the total watch time in milliseconds.
	WatchDurationMS int64 `json:"watch_duration_ms"`

	// WatchedAtMS is the watch timestamp in epoch milliseconds.
	WatchedAtMS int64 `json:"watched_at_ms"`

	// Completed marks the item as watched to the end.
	Completed bool `json:"completed"`
}

// FavoriteRecord is one favorites entry.
type FavoriteRecord struct {
	// VideoID is the unique content identifier.
	VideoID string `json:"video_id"`

	// Category is the item's category. May be empty when unknown.
	Category string `json:"category,omitempty"`

	// AddedAtMS is the favoriting timestamp in epoch milliseconds.
	AddedAtMS int64 `json:"added_at_ms"`
}

// CandidateItem is a content item from the candidate pool.
type CandidateItem struct {
	// VideoID is the unique content identifier.
	VideoID string `json:"video_id"`

	// Title is the content title.
	Title string `json:"title"`

	// ChannelID identifies the publishing channel.
	ChannelID string `json:"channel_id"`

	// ChannelTitle is the channel's display name.
	ChannelTitle string `json:"channel_title"`

	// DurationText is the raw duration string.
	DurationText string `json:"duration_text"`

	// PublishedAtMS is the publish timestamp in epoch milliseconds.
	// Zero means the publish time is unknown.
	PublishedAtMS int64 `json:"published_at_ms,omitempty"`
}

// DurationPreference holds per-bucket duration preferences in [0, 1].
// Buckets: short (< 5 min), medium (5-20 min), long (> 20 min).
type DurationPreference struct {
	Short  float64 `json:"short"`
	Medium float64 `json:"medium"`
	Long   float64 `json:"long"`
}

// EngagementPattern summarizes how the user engages with content.
type EngagementPattern struct {
	// AvgProgress is the mean watch progress across interactions.
	AvgProgress float64 `json:"avg_progress"`

	// CompletionRate is the fraction of interactions watched to the end.
	CompletionRate float64 `json:"completion_rate"`

	// SkipRate is the fraction of interactions with progress below 0.1.
	SkipRate float64 `json:"skip_rate"`
}

// UserProfile is the preference profile aggregated from interaction history.
// It is recomputed fresh on each request and never mutated in place; all
// affinity values lie in [0, 1].
type UserProfile struct {
	// CategoryAffinity maps inferred categories to affinity in [0, 1].
	CategoryAffinity map[string]float64 `json:"category_affinity"`

	// ChannelAffinity maps channel IDs to affinity in [0, 1].
	ChannelAffinity map[string]float64 `json:"channel_affinity"`

	// DurationPreference holds per-bucket duration preferences.
	DurationPreference DurationPreference `json:"duration_preference"`

	// HourlyActivity is the normalized watch activity per hour of day.
	HourlyActivity [24]float64 `json:"hourly_activity"`

	// EngagementPattern summarizes watch behavior.
	EngagementPattern EngagementPattern `json:"engagement_pattern"`

	// DiversityBaseline measures how varied the history is, in [0, 1].
	// Forced to 1.0 for sparse histories to avoid overfitting.
	DiversityBaseline float64 `json:"diversity_baseline"`

	// Neutral marks the fixed default profile returned for empty input.
	Neutral bool `json:"neutral,omitempty"`
}

// CategoryScore returns the affinity for a category. The neutral profile
// scores every category 0.5; otherwise unseen categories score 0.
func (p *UserProfile) CategoryScore(category string) float64 {
	if p.Neutral {
		return 0.5
	}
	return p.CategoryAffinity[category]
}

// ChannelScore returns the affinity for a channel. The neutral profile
// scores every channel 0.5; otherwise unseen channels score 0.
func (p *UserProfile) ChannelScore(channelID string) float64 {
	if p.Neutral {
		return 0.5
	}
	return p.ChannelAffinity[channelID]
}

// DistinctCategories returns the number of categories with positive affinity.
func (p *UserProfile) DistinctCategories() int {
	n := 0
	for _, v := range p.CategoryAffinity {
		if v > 0 {
			n++
		}
	}
	return n
}

// FeatureVector is the fixed-length numeric encoding of a content item.
// All vectors produced by one extractor share dimensionality and field
// order, so Euclidean comparisons remain valid across calls.
type FeatureVector struct {
	// VideoID is the encoded item's identifier.
	VideoID string `json:"video_id"`

	// Values holds exactly Dimensions() features in the documented order.
	Values []float64 `json:"values"`
}

// ContentCluster is one similarity cluster produced by the clusterer.
type ContentCluster struct {
	// ID is the cluster index within a clustering run.
	ID int `json:"id"`

	// Name is the dominant inferred category among members.
	Name string `json:"name"`

	// MemberVideoIDs lists the member items. Every input vector belongs to
	// exactly one cluster.
	MemberVideoIDs []string `json:"member_video_ids"`

	// Centroid is the per-dimension mean of member vectors. Empty clusters
	// keep a zero centroid rather than being dropped.
	Centroid []float64 `json:"centroid"`

	// Confidence is the cluster cohesion estimate in [0, 1].
	Confidence float64 `json:"confidence"`
}

// Situation is the coarse behavioral context inferred from time of day and
// the available time budget.
type Situation int

const (
	// SituationUnknown is the fallback when no rule matches.
	SituationUnknown Situation = iota
	// SituationCommute is a short morning viewing window.
	SituationCommute
	// SituationWorkBreak is a very short mid-day window.
	SituationWorkBreak
	// SituationBedtime is a late-night wind-down window.
	SituationBedtime
	// SituationLeisure is an open-ended viewing session.
	SituationLeisure
)

// String returns a human-readable situation name.
func (s Situation) String() string {
	switch s {
	case SituationCommute:
		return "commute"
	case SituationWorkBreak:
		return "work_break"
	case SituationBedtime:
		return "bedtime"
	case SituationLeisure:
		return "leisure"
	default:
		return "unknown"
	}
}

// Mood is the inferred viewing mood.
type Mood int

const (
	// MoodNeutral is the fallback mood.
	MoodNeutral Mood = iota
	// MoodEnergetic suits mornings and active sessions.
	MoodEnergetic
	// MoodFocused suits commutes and daytime viewing.
	MoodFocused
	// MoodRelaxed suits breaks and leisure sessions.
	MoodRelaxed
	// MoodSleepy suits late-night viewing.
	MoodSleepy
)

// String returns a human-readable mood name.
func (m Mood) String() string {
	switch m {
	case MoodEnergetic:
		return "energetic"
	case MoodFocused:
		return "focused"
	case MoodRelaxed:
		return "relaxed"
	case MoodSleepy:
		return "sleepy"
	default:
		return "neutral"
	}
}

// RecommendationContext carries the situational inputs and the derived
// situation and mood through the scoring pipeline.
type RecommendationContext struct {
	// HourOfDay is the local hour in [0, 23].
	HourOfDay int `json:"hour_of_day"`

	// AvailableMinutes is the caller's viewing time budget. Never negative.
	AvailableMinutes int `json:"available_minutes"`

	// RecentCategories lists recently consumed categories, most recent first.
	RecentCategories []string `json:"recent_categories,omitempty"`

	// Mood is derived from the situation and time of day.
	Mood Mood `json:"mood"`

	// Situation is derived from the time of day and available minutes.
	Situation Situation `json:"situation"`
}

// Factor names used in ScoredCandidate.FactorScores.
const (
	FactorCategory  = "category"
	FactorChannel   = "channel"
	FactorDuration  = "duration"
	FactorTime      = "time"
	FactorFreshness = "freshness"
	FactorDiversity = "diversity"
)

// FactorOrder is the canonical iteration order for factors. Keeping a fixed
// order makes reason lists and factor summaries deterministic.
var FactorOrder = []string{
	FactorCategory,
	FactorChannel,
	FactorDuration,
	FactorTime,
	FactorFreshness,
	FactorDiversity,
}

// ScoredCandidate is a candidate item with its per-factor breakdown and
// aggregate scores, all in [0, 1].
type ScoredCandidate struct {
	// VideoID is the scored item's identifier.
	VideoID string `json:"video_id"`

	// Title is carried for presentation layers.
	Title string `json:"title"`

	// Category is the inferred category, used for diversity capping.
	Category string `json:"category"`

	// ChannelID is the publishing channel, used for diversity capping.
	ChannelID string `json:"channel_id"`

	// FactorScores is the per-factor breakdown keyed by factor name.
	FactorScores map[string]float64 `json:"factor_scores"`

	// EngagementScore is the predicted engagement likelihood.
	EngagementScore float64 `json:"engagement_score"`

	// ConfidenceScore is the reliability estimate for the engagement score.
	ConfidenceScore float64 `json:"confidence_score"`

	// DiversityScore measures distance from recently consumed categories.
	DiversityScore float64 `json:"diversity_score"`

	// Reasons lists the factors that exceeded their reason thresholds, in
	// canonical factor order.
	Reasons []string `json:"reasons,omitempty"`
}

// CombinedScore blends the aggregate scores with the given weights. The
// ranker orders by engagement (source behavior), but the combined score is
// exposed for presentation layers.
func (s *ScoredCandidate) CombinedScore(engagementW, diversityW, confidenceW float64) float64 {
	return engagementW*s.EngagementScore + diversityW*s.DiversityScore + confidenceW*s.ConfidenceScore
}

// Request is a recommendation request.
type Request struct {
	// MaxResults is the number of recommendations to return.
	// Zero selects the configured default; negative is an error.
	MaxResults int `json:"max_results,omitempty"`

	// HourOfDay is the local hour in [0, 23]. Any value outside that range
	// selects the engine clock's current hour.
	HourOfDay int `json:"hour_of_day"`

	// AvailableMinutes is the viewing time budget. Negative is an error.
	AvailableMinutes int `json:"available_minutes"`

	// RecentCategories lists recently consumed categories.
	RecentCategories []string `json:"recent_categories,omitempty"`

	// Candidates optionally supplies the candidate pool inline. When empty
	// the engine reads the catalog provider.
	Candidates []CandidateItem `json:"candidates,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Response is a recommendation response.
type Response struct {
	// Ranked is the final ordered recommendation list.
	Ranked []ScoredCandidate `json:"ranked"`

	// Context is the derived situational context applied to this request.
	Context RecommendationContext `json:"context"`

	// TotalCandidates is the number of candidates considered before
	// filtering and confidence dropping.
	TotalCandidates int `json:"total_candidates"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ClusterRequest asks for similarity clusters over a candidate pool.
type ClusterRequest struct {
	// K is the requested cluster count bound. Zero selects the maximum
	// admissible count for the pool size.
	K int `json:"k,omitempty"`

	// Candidates optionally supplies the pool inline. When empty the engine
	// reads the catalog provider.
	Candidates []CandidateItem `json:"candidates,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// ClusterResponse carries the clustering result.
type ClusterResponse struct {
	// Clusters partitions the input pool.
	Clusters []ContentCluster `json:"clusters"`

	// TotalItems is the number of items clustered.
	TotalItems int `json:"total_items"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// Situation is the derived situation name.
	Situation string `json:"situation,omitempty"`

	// Mood is the derived mood name.
	Mood string `json:"mood,omitempty"`

	// FilteredOut is the number of candidates removed by the situation
	// preset filter.
	FilteredOut int `json:"filtered_out"`

	// DroppedLowConfidence is the number of candidates dropped for
	// confidence below the configured threshold.
	DroppedLowConfidence int `json:"dropped_low_confidence"`

	// LatencyMS is the total pipeline latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// Classifier infers a category from a content title. Implementations must
// be safe for concurrent use. The interface isolates keyword-substring
// inference so it can be swapped for a better model without touching
// scoring or clustering.
type Classifier interface {
	// Classify returns the inferred category for a title.
	Classify(title string) string
}

// ProfileBuilder aggregates raw interaction records into a UserProfile.
// Build is a pure function: identical input yields identical output.
type ProfileBuilder interface {
	Build(interactions []InteractionRecord, favorites []FavoriteRecord) UserProfile
}

// FeatureExtractor maps content metadata into fixed-dimension vectors.
type FeatureExtractor interface {
	// Extract encodes one item. The returned vector has Dimensions() values.
	Extract(item CandidateItem) FeatureVector

	// Dimensions returns the fixed vector length D.
	Dimensions() int
}

// Clusterer partitions feature vectors into similarity clusters.
// vectors[i] encodes items[i]; the two slices are index-aligned.
type Clusterer interface {
	Cluster(items []CandidateItem, vectors []FeatureVector, k int) []ContentCluster
}

// Scorer computes the per-factor and aggregate scores for one candidate.
type Scorer interface {
	Score(item CandidateItem, p *UserProfile, rctx *RecommendationContext) ScoredCandidate
}

// ContextDeriver infers the situational context and applies the
// situation-specific candidate filter.
type ContextDeriver interface {
	// Derive builds the full context from caller inputs.
	Derive(hourOfDay, availableMinutes int, recentCategories []string) RecommendationContext

	// Filter applies the situation preset's allow-list and duration cap.
	Filter(rctx *RecommendationContext, items []CandidateItem) []CandidateItem
}

// Ranker performs diversity-constrained ranking of scored candidates.
type Ranker interface {
	Rank(items []ScoredCandidate, maxResults int) []ScoredCandidate
}

// HistoryProvider supplies the interaction history snapshot. Implemented by
// the store layer; the pipeline only reads.
type HistoryProvider interface {
	GetInteractions(ctx context.Context) ([]InteractionRecord, error)
	GetFavorites(ctx context.Context) ([]FavoriteRecord, error)
}

// CatalogProvider supplies the candidate pool when a request carries none.
type CatalogProvider interface {
	GetCatalog(ctx context.Context) ([]CandidateItem, error)
}
