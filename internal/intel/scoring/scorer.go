// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

// Package scoring computes the multi-factor predictive score for candidate
// items: per-factor scores, an engagement score, a confidence score and a
// diversity score, all in [0, 1]. Scoring is a pure function of the
// candidate, the profile and the situational context; accumulators never
// leak between calls.
package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/reelsense/reelsense/internal/intel"
	"github.com/reelsense/reelsense/internal/intel/feature"
)

// Diversity factor levels by how often the candidate's category appeared
// recently.
const (
	diversityFresh    = 1.0 // category absent from recent history
	diversityLight    = 0.7 // category seen at most twice
	diversityRepeated = 0.3 // category seen more than twice
)

// profileRichnessTarget is the distinct-category count at which the profile
// is considered rich enough for full confidence.
const profileRichnessTarget = 5.0

// reasonTexts renders each factor into an interpretable reason.
var reasonTexts = map[string]string{
	intel.FactorCategory:  "matches your favorite categories",
	intel.FactorChannel:   "from a channel you watch often",
	intel.FactorDuration:  "fits your available time",
	intel.FactorTime:      "you usually watch at this hour",
	intel.FactorFreshness: "recently published",
	intel.FactorDiversity: "something different from your recent watching",
}

// Scorer computes ScoredCandidates. Safe for concurrent use.
type Scorer struct {
	weights    intel.WeightsConfig
	cfg        intel.ScoringConfig
	classifier intel.Classifier

	// now supplies the reference time for freshness decay. Injectable for
	// deterministic tests.
	now func() time.Time
}

// NewScorer creates a scorer with the given tunables and classifier.
func NewScorer(weights intel.WeightsConfig, cfg intel.ScoringConfig, classifier intel.Classifier) *Scorer {
	return &Scorer{
		weights:    weights,
		cfg:        cfg,
		classifier: classifier,
		now:        time.Now,
	}
}

// WithClock overrides the scorer's clock. Returns the scorer for chaining.
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// Score computes the full breakdown for one candidate.
//
//nolint:gocritic // hugeParam: item passed by value for immutability
func (s *Scorer) Score(item intel.CandidateItem, p *intel.UserProfile, rctx *intel.RecommendationContext) intel.ScoredCandidate {
	category := s.classifier.Classify(item.Title)

	factors := map[string]float64{
		intel.FactorCategory:  clamp01(p.CategoryScore(category)),
		intel.FactorChannel:   clamp01(p.ChannelScore(item.ChannelID)),
		intel.FactorDuration:  s.durationFactor(item.DurationText, p, rctx.AvailableMinutes),
		intel.FactorTime:      clamp01(p.HourlyActivity[rctx.HourOfDay]),
		intel.FactorFreshness: s.freshnessFactor(item.PublishedAtMS),
		intel.FactorDiversity: diversityFactor(category, rctx.RecentCategories),
	}

	engagement := clamp01(mean(factors) + s.weights.EngagementBoost*p.EngagementPattern.AvgProgress)

	// Confidence scales with signal consistency and profile richness. The
	// neutral profile has zero distinct categories, so cold-start scores
	// always read as zero confidence; the engine skips the confidence drop
	// in that case rather than returning nothing to a new user.
	richness := math.Min(1, float64(p.DistinctCategories())/profileRichnessTarget)
	confidence := clamp01((1 - variance(factors)) * richness)

	return intel.ScoredCandidate{
		VideoID:         item.VideoID,
		Title:           item.Title,
		Category:        category,
		ChannelID:       item.ChannelID,
		FactorScores:    factors,
		EngagementScore: engagement,
		ConfidenceScore: confidence,
		DiversityScore:  factors[intel.FactorDiversity],
		Reasons:         s.reasons(factors),
	}
}

// durationFactor blends fitting the time budget with the profile's bucket
// preference.
func (s *Scorer) durationFactor(durationText string, p *intel.UserProfile, availableMinutes int) float64 {
	minutes := feature.ParseDurationMinutes(durationText)

	fit := 0.5
	if minutes <= float64(availableMinutes) {
		fit = 1.0
	}

	var pref float64
	switch feature.BucketFor(minutes) {
	case feature.BucketShort:
		pref = p.DurationPreference.Short
	case feature.BucketLong:
		pref = p.DurationPreference.Long
	default:
		pref = p.DurationPreference.Medium
	}

	return clamp01(s.weights.DurationFit*fit + s.weights.DurationPreference*pref)
}

// freshnessFactor decays exponentially with the item's age:
// 0.5^(age / halfLife). Unknown publish times fall back to the configured
// default, the constant the legacy scorer applied unconditionally.
func (s *Scorer) freshnessFactor(publishedAtMS int64) float64 {
	if publishedAtMS <= 0 {
		return s.cfg.DefaultFreshness
	}

	age := s.now().Sub(time.UnixMilli(publishedAtMS))
	if age <= 0 {
		return 1.0
	}

	halfLife := time.Duration(s.cfg.FreshnessHalfLifeDays * 24 * float64(time.Hour))
	return clamp01(math.Pow(0.5, float64(age)/float64(halfLife)))
}

// diversityFactor rewards categories absent from recent history.
func diversityFactor(category string, recentCategories []string) float64 {
	seen := 0
	for _, c := range recentCategories {
		if c == category {
			seen++
		}
	}
	switch {
	case seen == 0:
		return diversityFresh
	case seen <= 2:
		return diversityLight
	default:
		return diversityRepeated
	}
}

// reasons collects the factors above their thresholds, in canonical order.
func (s *Scorer) reasons(factors map[string]float64) []string {
	var out []string
	for _, name := range intel.FactorOrder {
		threshold, ok := s.cfg.ReasonThresholds[name]
		if !ok {
			continue
		}
		if factors[name] > threshold {
			out = append(out, fmt.Sprintf("%s: %s", name, reasonTexts[name]))
		}
	}
	return out
}

// mean averages the factor scores.
func mean(factors map[string]float64) float64 {
	if len(factors) == 0 {
		return 0
	}
	var sum float64
	for _, v := range factors {
		sum += v
	}
	return sum / float64(len(factors))
}

// variance is the population variance of the factor scores. Empty and
// singleton sets read as 1.0, meaning maximal uncertainty, so degenerate
// inputs can never produce NaN or inflated confidence.
func variance(factors map[string]float64) float64 {
	if len(factors) < 2 {
		return 1.0
	}
	m := mean(factors)
	var sum float64
	for _, v := range factors {
		diff := v - m
		sum += diff * diff
	}
	return sum / float64(len(factors))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Ensure Scorer implements the interface.
var _ intel.Scorer = (*Scorer)(nil)
