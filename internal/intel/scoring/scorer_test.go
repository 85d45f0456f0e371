// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

package scoring

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/reelsense/reelsense/internal/intel"
	"github.com/reelsense/reelsense/internal/intel/feature"
	"github.com/reelsense/reelsense/internal/intel/profile"
)

func newTestScorer() *Scorer {
	cfg := intel.DefaultConfig()
	return NewScorer(cfg.Weights, cfg.Scoring, feature.NewKeywordClassifier())
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func richProfile() intel.UserProfile {
	p := profile.NeutralProfile()
	p.Neutral = false
	p.CategoryAffinity = map[string]float64{
		feature.CategoryTutorial:      0.9,
		feature.CategoryMusic:         0.6,
		feature.CategoryNews:          0.4,
		feature.CategoryComedy:        0.3,
		feature.CategoryEntertainment: 0.2,
	}
	p.ChannelAffinity = map[string]float64{"ch1": 0.8}
	p.EngagementPattern.AvgProgress = 0.7
	return p
}

func TestScoreFactorBreakdown(t *testing.T) {
	s := newTestScorer()
	p := richProfile()
	rctx := intel.RecommendationContext{HourOfDay: 9, AvailableMinutes: 30}

	sc := s.Score(intel.CandidateItem{
		VideoID:      "v1",
		Title:        "Go tutorial deep dive",
		ChannelID:    "ch1",
		DurationText: "10:00",
	}, &p, &rctx)

	if sc.Category != feature.CategoryTutorial {
		t.Errorf("Category = %q, want Tutorial", sc.Category)
	}
	if len(sc.FactorScores) != len(intel.FactorOrder) {
		t.Fatalf("factor count = %d, want %d", len(sc.FactorScores), len(intel.FactorOrder))
	}
	if !almostEqual(sc.FactorScores[intel.FactorCategory], 0.9) {
		t.Errorf("category factor = %v, want 0.9", sc.FactorScores[intel.FactorCategory])
	}
	if !almostEqual(sc.FactorScores[intel.FactorChannel], 0.8) {
		t.Errorf("channel factor = %v, want 0.8", sc.FactorScores[intel.FactorChannel])
	}
	// No recent categories: diversity reads fresh.
	if !almostEqual(sc.FactorScores[intel.FactorDiversity], diversityFresh) {
		t.Errorf("diversity factor = %v, want %v", sc.FactorScores[intel.FactorDiversity], diversityFresh)
	}
	if !almostEqual(sc.DiversityScore, sc.FactorScores[intel.FactorDiversity]) {
		t.Error("DiversityScore must mirror the diversity factor")
	}
}

func TestScoreBounds(t *testing.T) {
	s := newTestScorer()
	p := richProfile()
	rctx := intel.RecommendationContext{HourOfDay: 12, AvailableMinutes: 5}

	items := []intel.CandidateItem{
		{VideoID: "a", Title: "Go tutorial", ChannelID: "ch1", DurationText: "2:00"},
		{VideoID: "b", Title: "Unknown show", ChannelID: "nope", DurationText: "3:00:00"},
		{VideoID: "c", Title: "", DurationText: ""},
	}
	for _, item := range items {
		sc := s.Score(item, &p, &rctx)
		for name, v := range sc.FactorScores {
			if v < 0 || v > 1 {
				t.Errorf("item %s factor %s = %v out of [0,1]", item.VideoID, name, v)
			}
		}
		if sc.EngagementScore < 0 || sc.EngagementScore > 1 {
			t.Errorf("item %s engagement %v out of [0,1]", item.VideoID, sc.EngagementScore)
		}
		if sc.ConfidenceScore < 0 || sc.ConfidenceScore > 1 {
			t.Errorf("item %s confidence %v out of [0,1]", item.VideoID, sc.ConfidenceScore)
		}
	}
}

func TestScoreNeutralProfileHasZeroConfidence(t *testing.T) {
	s := newTestScorer()
	p := profile.NeutralProfile()
	rctx := intel.RecommendationContext{HourOfDay: 9, AvailableMinutes: 30}

	sc := s.Score(intel.CandidateItem{VideoID: "v", Title: "Anything", DurationText: "5:00"}, &p, &rctx)
	if sc.ConfidenceScore != 0 {
		t.Errorf("neutral profile confidence = %v, want 0", sc.ConfidenceScore)
	}
	if sc.EngagementScore <= 0 {
		t.Error("neutral profile engagement must stay positive")
	}
}

func TestDiversityFactor(t *testing.T) {
	tests := []struct {
		name   string
		recent []string
		want   float64
	}{
		{"absent category is fresh", []string{"Music", "News"}, diversityFresh},
		{"seen once is light", []string{"Tutorial"}, diversityLight},
		{"seen twice is light", []string{"Tutorial", "Tutorial"}, diversityLight},
		{"seen three times is repeated", []string{"Tutorial", "Tutorial", "Tutorial"}, diversityRepeated},
		{"empty history is fresh", nil, diversityFresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := diversityFactor("Tutorial", tt.recent); !almostEqual(got, tt.want) {
				t.Errorf("diversityFactor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFreshnessFactor(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	s := newTestScorer().WithClock(fixedClock(now))

	tests := []struct {
		name        string
		publishedAt int64
		want        float64
	}{
		{"unknown publish time uses default", 0, 0.7},
		{"published now is fully fresh", now.UnixMilli(), 1.0},
		{"future publish clamps to fresh", now.Add(time.Hour).UnixMilli(), 1.0},
		{"one half-life decays to half", now.AddDate(0, 0, -30).UnixMilli(), 0.5},
		{"two half-lives decay to a quarter", now.AddDate(0, 0, -60).UnixMilli(), 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.freshnessFactor(tt.publishedAt)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("freshnessFactor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDurationFactor(t *testing.T) {
	s := newTestScorer()
	p := richProfile()
	p.DurationPreference = intel.DurationPreference{Short: 1.0, Medium: 0.5, Long: 0.0}

	tests := []struct {
		name      string
		duration  string
		available int
		want      float64
	}{
		// fit 1.0, short pref 1.0 -> 0.6*1 + 0.4*1
		{"short video fits budget", "2:00", 30, 1.0},
		// fit 0.5, long pref 0.0 -> 0.6*0.5
		{"long video exceeds budget", "45:00", 30, 0.3},
		// fit 1.0, medium pref 0.5 -> 0.6 + 0.2
		{"medium video fits budget", "10:00", 30, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.durationFactor(tt.duration, &p, tt.available)
			if !almostEqual(got, tt.want) {
				t.Errorf("durationFactor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReasonsFollowCanonicalOrder(t *testing.T) {
	s := newTestScorer()
	p := richProfile()
	rctx := intel.RecommendationContext{HourOfDay: 9, AvailableMinutes: 60}

	sc := s.Score(intel.CandidateItem{
		VideoID:      "v",
		Title:        "Go tutorial",
		ChannelID:    "ch1",
		DurationText: "2:00",
	}, &p, &rctx)

	if len(sc.Reasons) == 0 {
		t.Fatal("expected at least one reason for a strong match")
	}

	// Each reason is "factor: text" and appears in canonical factor order.
	lastIdx := -1
	for _, reason := range sc.Reasons {
		name, _, ok := strings.Cut(reason, ": ")
		if !ok {
			t.Fatalf("malformed reason %q", reason)
		}
		idx := -1
		for i, f := range intel.FactorOrder {
			if f == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			t.Fatalf("reason references unknown factor %q", name)
		}
		if idx <= lastIdx {
			t.Errorf("reasons out of canonical order: %v", sc.Reasons)
		}
		lastIdx = idx
	}
}

func TestVarianceDegenerateInputs(t *testing.T) {
	if got := variance(nil); got != 1.0 {
		t.Errorf("variance(nil) = %v, want 1.0", got)
	}
	if got := variance(map[string]float64{"only": 0.9}); got != 1.0 {
		t.Errorf("variance(singleton) = %v, want 1.0", got)
	}
	uniform := map[string]float64{"a": 0.5, "b": 0.5, "c": 0.5}
	if got := variance(uniform); !almostEqual(got, 0) {
		t.Errorf("variance(uniform) = %v, want 0", got)
	}
}
