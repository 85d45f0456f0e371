// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

package intel

import "fmt"

// Config contains all tunables for the content-intelligence pipeline.
// None of the weighting constants are derived from data, so every one of
// them is externally settable rather than hard-coded.
type Config struct {
	// Weights defines the blend of aggregate scores and the duration factor.
	Weights WeightsConfig `json:"weights" koanf:"weights"`

	// Scoring contains predictive-scorer parameters.
	Scoring ScoringConfig `json:"scoring" koanf:"scoring"`

	// Clustering contains k-means parameters.
	Clustering ClusteringConfig `json:"clustering" koanf:"clustering"`

	// Ranking contains diversity-ranking parameters.
	Ranking RankingConfig `json:"ranking" koanf:"ranking"`
}

// WeightsConfig defines the score-blending weights.
type WeightsConfig struct {
	// Engagement is the combined-score weight for the engagement score.
	// Default: 0.5.
	Engagement float64 `json:"engagement" koanf:"engagement"`

	// Diversity is the combined-score weight for the diversity score.
	// Default: 0.3.
	Diversity float64 `json:"diversity" koanf:"diversity"`

	// Confidence is the combined-score weight for the confidence score.
	// Default: 0.2.
	Confidence float64 `json:"confidence" koanf:"confidence"`

	// DurationFit is the duration factor's weight on fitting the available
	// time budget. Default: 0.6.
	DurationFit float64 `json:"duration_fit" koanf:"duration_fit"`

	// DurationPreference is the duration factor's weight on the profile's
	// bucket preference. Default: 0.4.
	DurationPreference float64 `json:"duration_preference" koanf:"duration_preference"`

	// EngagementBoost scales the profile's average progress added to the
	// factor mean. Default: 0.3.
	EngagementBoost float64 `json:"engagement_boost" koanf:"engagement_boost"`
}

// ScoringConfig contains predictive-scorer parameters.
type ScoringConfig struct {
	// MinConfidence drops candidates scoring below this confidence before
	// ranking. Default: 0.3.
	MinConfidence float64 `json:"min_confidence" koanf:"min_confidence"`

	// FreshnessHalfLifeDays is the half-life of the freshness decay curve.
	// Default: 30.
	FreshnessHalfLifeDays float64 `json:"freshness_half_life_days" koanf:"freshness_half_life_days"`

	// DefaultFreshness is used when the publish time is unknown. This is
	// the constant the legacy scorer applied unconditionally. Default: 0.7.
	DefaultFreshness float64 `json:"default_freshness" koanf:"default_freshness"`

	// ReasonThresholds gives the per-factor score above which a reason is
	// emitted. Factors absent from the map never produce reasons.
	ReasonThresholds map[string]float64 `json:"reason_thresholds" koanf:"reason_thresholds"`
}

// ClusteringConfig contains k-means parameters.
type ClusteringConfig struct {
	// MaxClusters bounds the cluster count. Default: 8.
	MaxClusters int `json:"max_clusters" koanf:"max_clusters"`

	// MinClusterSize is the smallest pool worth partitioning; smaller pools
	// fall back to a single cluster with confidence 1.0. Default: 3.
	MinClusterSize int `json:"min_cluster_size" koanf:"min_cluster_size"`

	// MaxIterations bounds the assign/update loop, giving a deterministic
	// worst-case latency. Default: 50.
	MaxIterations int `json:"max_iterations" koanf:"max_iterations"`

	// ConvergenceThreshold stops iteration early once every centroid moves
	// less than this distance. Default: 0.01.
	ConvergenceThreshold float64 `json:"convergence_threshold" koanf:"convergence_threshold"`

	// Seed feeds the centroid initializer for reproducible runs.
	// Default: 42.
	Seed int64 `json:"seed" koanf:"seed"`

	// Init selects the initializer: "kmeans++" (deterministic under a fixed
	// seed, the default) or "uniform" (legacy per-dimension uniform
	// sampling; explicitly opt-in because runs are not reproducible without
	// a fixed seed). Default: "kmeans++".
	Init string `json:"init" koanf:"init"`
}

// RankingConfig contains diversity-ranking parameters.
type RankingConfig struct {
	// MaxPerCategory caps how often one category may appear in the final
	// list. Default: 3.
	MaxPerCategory int `json:"max_per_category" koanf:"max_per_category"`

	// MaxPerChannel caps how often one channel may appear in the final
	// list. Default: 2.
	MaxPerChannel int `json:"max_per_channel" koanf:"max_per_channel"`

	// DefaultMaxResults is used when a request leaves MaxResults zero.
	// Default: 20.
	DefaultMaxResults int `json:"default_max_results" koanf:"default_max_results"`

	// MaxMaxResults is the ceiling on MaxResults. Default: 100.
	MaxMaxResults int `json:"max_max_results" koanf:"max_max_results"`
}

// Initializer names for ClusteringConfig.Init.
const (
	InitKMeansPlusPlus = "kmeans++"
	InitUniform        = "uniform"
)

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: WeightsConfig{
			Engagement:         0.5,
			Diversity:          0.3,
			Confidence:         0.2,
			DurationFit:        0.6,
			DurationPreference: 0.4,
			EngagementBoost:    0.3,
		},
		Scoring: ScoringConfig{
			MinConfidence:         0.3,
			FreshnessHalfLifeDays: 30,
			DefaultFreshness:      0.7,
			ReasonThresholds: map[string]float64{
				FactorCategory:  0.7,
				FactorChannel:   0.7,
				FactorDuration:  0.8,
				FactorTime:      0.6,
				FactorFreshness: 0.8,
				FactorDiversity: 0.7,
			},
		},
		Clustering: ClusteringConfig{
			MaxClusters:          8,
			MinClusterSize:       3,
			MaxIterations:        50,
			ConvergenceThreshold: 0.01,
			Seed:                 42,
			Init:                 InitKMeansPlusPlus,
		},
		Ranking: RankingConfig{
			MaxPerCategory:    3,
			MaxPerChannel:     2,
			DefaultMaxResults: 20,
			MaxMaxResults:     100,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if c.Weights.Engagement < 0 || c.Weights.Engagement > 1 {
		return fmt.Errorf("weights.engagement must be in [0, 1], got %f", c.Weights.Engagement)
	}
	if c.Weights.Diversity < 0 || c.Weights.Diversity > 1 {
		return fmt.Errorf("weights.diversity must be in [0, 1], got %f", c.Weights.Diversity)
	}
	if c.Weights.Confidence < 0 || c.Weights.Confidence > 1 {
		return fmt.Errorf("weights.confidence must be in [0, 1], got %f", c.Weights.Confidence)
	}
	if c.Weights.DurationFit < 0 || c.Weights.DurationPreference < 0 {
		return fmt.Errorf("duration weights must be non-negative, got %f/%f",
			c.Weights.DurationFit, c.Weights.DurationPreference)
	}
	if c.Weights.EngagementBoost < 0 || c.Weights.EngagementBoost > 1 {
		return fmt.Errorf("weights.engagement_boost must be in [0, 1], got %f", c.Weights.EngagementBoost)
	}

	if c.Scoring.MinConfidence < 0 || c.Scoring.MinConfidence > 1 {
		return fmt.Errorf("scoring.min_confidence must be in [0, 1], got %f", c.Scoring.MinConfidence)
	}
	if c.Scoring.FreshnessHalfLifeDays <= 0 {
		return fmt.Errorf("scoring.freshness_half_life_days must be positive, got %f", c.Scoring.FreshnessHalfLifeDays)
	}
	if c.Scoring.DefaultFreshness < 0 || c.Scoring.DefaultFreshness > 1 {
		return fmt.Errorf("scoring.default_freshness must be in [0, 1], got %f", c.Scoring.DefaultFreshness)
	}

	if c.Clustering.MaxClusters < 2 {
		return fmt.Errorf("clustering.max_clusters must be at least 2, got %d", c.Clustering.MaxClusters)
	}
	if c.Clustering.MinClusterSize < 1 {
		return fmt.Errorf("clustering.min_cluster_size must be positive, got %d", c.Clustering.MinClusterSize)
	}
	if c.Clustering.MaxIterations < 1 {
		return fmt.Errorf("clustering.max_iterations must be positive, got %d", c.Clustering.MaxIterations)
	}
	if c.Clustering.ConvergenceThreshold <= 0 {
		return fmt.Errorf("clustering.convergence_threshold must be positive, got %f", c.Clustering.ConvergenceThreshold)
	}
	if c.Clustering.Init != InitKMeansPlusPlus && c.Clustering.Init != InitUniform {
		return fmt.Errorf("clustering.init must be %q or %q, got %q", InitKMeansPlusPlus, InitUniform, c.Clustering.Init)
	}

	if c.Ranking.MaxPerCategory < 1 {
		return fmt.Errorf("ranking.max_per_category must be positive, got %d", c.Ranking.MaxPerCategory)
	}
	if c.Ranking.MaxPerChannel < 1 {
		return fmt.Errorf("ranking.max_per_channel must be positive, got %d", c.Ranking.MaxPerChannel)
	}
	if c.Ranking.DefaultMaxResults < 1 {
		return fmt.Errorf("ranking.default_max_results must be positive, got %d", c.Ranking.DefaultMaxResults)
	}
	if c.Ranking.MaxMaxResults < c.Ranking.DefaultMaxResults {
		return fmt.Errorf("ranking.max_max_results must be >= ranking.default_max_results, got %d < %d",
			c.Ranking.MaxMaxResults, c.Ranking.DefaultMaxResults)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := &Config{
		Weights:    c.Weights,
		Scoring:    c.Scoring,
		Clustering: c.Clustering,
		Ranking:    c.Ranking,
	}
	if c.Scoring.ReasonThresholds != nil {
		out.Scoring.ReasonThresholds = make(map[string]float64, len(c.Scoring.ReasonThresholds))
		for k, v := range c.Scoring.ReasonThresholds {
			out.Scoring.ReasonThresholds[k] = v
		}
	}
	return out
}
