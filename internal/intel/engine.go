// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

package intel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Components bundles the pipeline stages the engine orchestrates. All
// fields are required. Stages are stateless service objects constructed
// with their dependencies; the engine never reaches for globals.
type Components struct {
	Profiles ProfileBuilder
	Features FeatureExtractor
	Clusters Clusterer
	Scores   Scorer
	Context  ContextDeriver
	Rank     Ranker
}

// validate checks that every stage is present.
func (c *Components) validate() error {
	switch {
	case c.Profiles == nil:
		return fmt.Errorf("profile builder is required")
	case c.Features == nil:
		return fmt.Errorf("feature extractor is required")
	case c.Clusters == nil:
		return fmt.Errorf("clusterer is required")
	case c.Scores == nil:
		return fmt.Errorf("scorer is required")
	case c.Context == nil:
		return fmt.Errorf("context deriver is required")
	case c.Rank == nil:
		return fmt.Errorf("ranker is required")
	}
	return nil
}

// Engine coordinates the pipeline stages into the two request/response
// operations: Recommend and Clusters. It holds no per-request state and is
// safe for concurrent use; the only mutable field is the configuration,
// which is guarded for runtime updates.
type Engine struct {
	mu     sync.RWMutex
	config *Config

	components Components
	logger     zerolog.Logger

	history HistoryProvider
	catalog CatalogProvider

	// now supplies the clock for hour-of-day defaults. Injectable for tests.
	now func() time.Time
}

// NewEngine creates an engine from config, logger and pipeline stages.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger, components Components) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := components.validate(); err != nil {
		return nil, fmt.Errorf("invalid components: %w", err)
	}

	return &Engine{
		config:     cfg,
		components: components,
		logger:     logger.With().Str("component", "intel").Logger(),
		now:        time.Now,
	}, nil
}

// SetHistoryProvider sets the interaction-history collaborator.
func (e *Engine) SetHistoryProvider(p HistoryProvider) {
	e.history = p
}

// SetCatalogProvider sets the candidate-pool collaborator.
func (e *Engine) SetCatalogProvider(p CatalogProvider) {
	e.catalog = p
}

// WithClock overrides the engine clock. Returns the engine for chaining.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config.Clone()
}

// UpdateConfig replaces the engine configuration after validation.
func (e *Engine) UpdateConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	e.mu.Lock()
	e.config = cfg.Clone()
	e.mu.Unlock()

	e.logger.Info().Msg("configuration updated")
	return nil
}

// Recommend runs the full pipeline: profile, context, situation filter,
// scoring, confidence dropping and diversity ranking.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := e.now()
	cfg := e.GetConfig()

	req, err := e.prepareRequest(req, cfg)
	if err != nil {
		return nil, err
	}

	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Int("hour", req.HourOfDay).
		Int("available_minutes", req.AvailableMinutes).
		Logger()
	logger.Debug().Msg("processing recommendation request")

	interactions, favorites, err := e.loadHistory(ctx)
	if err != nil {
		return nil, err
	}
	userProfile := e.components.Profiles.Build(interactions, favorites)

	candidates, err := e.loadCandidates(ctx, req.Candidates)
	if err != nil {
		return nil, err
	}
	candidates = excludeWatched(candidates, interactions)
	total := len(candidates)

	rctx := e.components.Context.Derive(req.HourOfDay, req.AvailableMinutes, req.RecentCategories)
	filtered := e.components.Context.Filter(&rctx, candidates)
	filteredOut := total - len(filtered)

	scored := make([]ScoredCandidate, 0, len(filtered))
	dropped := 0
	for _, item := range filtered {
		sc := e.components.Scores.Score(item, &userProfile, &rctx)

		// Cold-start bypass: the neutral profile always scores zero
		// confidence, and dropping everything would blank out new users.
		if !userProfile.Neutral && sc.ConfidenceScore < cfg.Scoring.MinConfidence {
			dropped++
			continue
		}
		scored = append(scored, sc)
	}

	ranked := e.components.Rank.Rank(scored, req.MaxResults)

	resp := &Response{
		Ranked:          ranked,
		Context:         rctx,
		TotalCandidates: total,
		Metadata: ResponseMetadata{
			RequestID:            req.RequestID,
			Situation:            rctx.Situation.String(),
			Mood:                 rctx.Mood.String(),
			FilteredOut:          filteredOut,
			DroppedLowConfidence: dropped,
			LatencyMS:            e.now().Sub(start).Milliseconds(),
			Timestamp:            e.now(),
		},
	}

	logger.Debug().
		Int("candidates", total).
		Int("filtered_out", filteredOut).
		Int("dropped_low_confidence", dropped).
		Int("returned", len(ranked)).
		Str("situation", resp.Metadata.Situation).
		Msg("recommendation complete")

	return resp, nil
}

// Clusters runs feature extraction and k-means over the candidate pool.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Clusters(ctx context.Context, req ClusterRequest) (*ClusterResponse, error) {
	start := e.now()

	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	items, err := e.loadCandidates(ctx, req.Candidates)
	if err != nil {
		return nil, err
	}

	vectors := make([]FeatureVector, len(items))
	for i, item := range items {
		vectors[i] = e.components.Features.Extract(item)
	}

	clusters := e.components.Clusters.Cluster(items, vectors, req.K)

	e.logger.Debug().
		Str("request_id", req.RequestID).
		Int("items", len(items)).
		Int("clusters", len(clusters)).
		Msg("clustering complete")

	return &ClusterResponse{
		Clusters:   clusters,
		TotalItems: len(items),
		Metadata: ResponseMetadata{
			RequestID: req.RequestID,
			LatencyMS: e.now().Sub(start).Milliseconds(),
			Timestamp: e.now(),
		},
	}, nil
}

// Profile computes the preference profile for the stored history.
func (e *Engine) Profile(ctx context.Context) (*UserProfile, error) {
	interactions, favorites, err := e.loadHistory(ctx)
	if err != nil {
		return nil, err
	}
	p := e.components.Profiles.Build(interactions, favorites)
	return &p, nil
}

// prepareRequest validates caller input and applies defaults. Negative
// bounds are the only caller errors; everything else is normalized.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request, cfg *Config) (Request, error) {
	if req.MaxResults < 0 {
		return req, ErrNegativeMaxResults
	}
	if req.AvailableMinutes < 0 {
		return req, ErrNegativeAvailableMinutes
	}

	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.MaxResults == 0 {
		req.MaxResults = cfg.Ranking.DefaultMaxResults
	}
	if req.MaxResults > cfg.Ranking.MaxMaxResults {
		req.MaxResults = cfg.Ranking.MaxMaxResults
	}
	if req.HourOfDay < 0 || req.HourOfDay > 23 {
		req.HourOfDay = e.now().Hour()
	}

	return req, nil
}

// loadHistory reads the interaction snapshot. A missing provider is treated
// as an empty history, not an error: the pipeline degrades to the neutral
// profile.
func (e *Engine) loadHistory(ctx context.Context) ([]InteractionRecord, []FavoriteRecord, error) {
	if e.history == nil {
		return nil, nil, nil
	}

	interactions, err := e.history.GetInteractions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("get interactions: %w", err)
	}
	favorites, err := e.history.GetFavorites(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("get favorites: %w", err)
	}
	return interactions, favorites, nil
}

// loadCandidates prefers inline candidates and falls back to the catalog.
func (e *Engine) loadCandidates(ctx context.Context, inline []CandidateItem) ([]CandidateItem, error) {
	if len(inline) > 0 {
		return inline, nil
	}
	if e.catalog == nil {
		return []CandidateItem{}, nil
	}

	items, err := e.catalog.GetCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("get catalog: %w", err)
	}
	return items, nil
}

// excludeWatched removes candidates already present in the history.
//
//nolint:gocritic // rangeValCopy: records passed by value in range, acceptable for clarity
func excludeWatched(candidates []CandidateItem, interactions []InteractionRecord) []CandidateItem {
	if len(interactions) == 0 {
		return candidates
	}

	watched := make(map[string]struct{}, len(interactions))
	for _, rec := range interactions {
		watched[rec.VideoID] = struct{}{}
	}

	out := make([]CandidateItem, 0, len(candidates))
	for _, item := range candidates {
		if _, ok := watched[item.VideoID]; ok {
			continue
		}
		out = append(out, item)
	}
	return out
}
