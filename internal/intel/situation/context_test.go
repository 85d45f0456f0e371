// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

package situation

import (
	"testing"

	"github.com/reelsense/reelsense/internal/intel"
	"github.com/reelsense/reelsense/internal/intel/feature"
)

func newTestEngine() *Engine {
	return NewEngine(feature.NewKeywordClassifier())
}

func TestDeriveSituation(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name      string
		hour      int
		available int
		want      intel.Situation
	}{
		{"morning short window is commute", 8, 15, intel.SituationCommute},
		{"morning at boundary is commute", 5, 10, intel.SituationCommute},
		{"morning long window is leisure", 9, 90, intel.SituationLeisure},
		{"afternoon tiny window is work break", 14, 10, intel.SituationWorkBreak},
		{"evening tiny window is work break", 18, 5, intel.SituationWorkBreak},
		{"night short window is bedtime", 23, 20, intel.SituationBedtime},
		{"early hours are night", 2, 30, intel.SituationBedtime},
		{"long window is leisure", 15, 120, intel.SituationLeisure},
		{"afternoon medium window is unknown", 14, 30, intel.SituationUnknown},
		{"exactly sixty minutes is leisure", 14, 60, intel.SituationLeisure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := e.Derive(tt.hour, tt.available, nil)
			if rctx.Situation != tt.want {
				t.Errorf("Derive(%d, %d).Situation = %v, want %v", tt.hour, tt.available, rctx.Situation, tt.want)
			}
		})
	}
}

func TestDeriveMood(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name      string
		hour      int
		available int
		want      intel.Mood
	}{
		{"commute is focused", 8, 10, intel.MoodFocused},
		{"work break is relaxed", 14, 5, intel.MoodRelaxed},
		{"bedtime is sleepy", 23, 15, intel.MoodSleepy},
		{"leisure is relaxed", 10, 120, intel.MoodRelaxed},
		{"unknown morning is energetic", 7, 45, intel.MoodEnergetic},
		{"unknown afternoon is focused", 14, 30, intel.MoodFocused},
		{"unknown evening is relaxed", 19, 30, intel.MoodRelaxed},
		{"unknown night is sleepy", 23, 45, intel.MoodSleepy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := e.Derive(tt.hour, tt.available, nil)
			if rctx.Mood != tt.want {
				t.Errorf("Derive(%d, %d).Mood = %v, want %v", tt.hour, tt.available, rctx.Mood, tt.want)
			}
		})
	}
}

func TestDeriveCarriesInputs(t *testing.T) {
	e := newTestEngine()
	recent := []string{"Music", "News"}

	rctx := e.Derive(9, 15, recent)
	if rctx.HourOfDay != 9 || rctx.AvailableMinutes != 15 {
		t.Errorf("inputs not carried: %+v", rctx)
	}
	if len(rctx.RecentCategories) != 2 {
		t.Errorf("RecentCategories = %v, want %v", rctx.RecentCategories, recent)
	}
}

func TestFilterCommutePreset(t *testing.T) {
	e := newTestEngine()
	rctx := e.Derive(8, 15, nil) // commute

	items := []intel.CandidateItem{
		{VideoID: "news-short", Title: "Morning news roundup", DurationText: "5:00"},
		{VideoID: "news-long", Title: "Breaking news special", DurationText: "25:00"},
		{VideoID: "comedy", Title: "Funny sketch", DurationText: "4:00"},
		{VideoID: "music", Title: "Song (Official Video)", DurationText: "3:30"},
		{VideoID: "tutorial", Title: "Go tutorial", DurationText: "5:00"},
	}
	got := e.Filter(&rctx, items)

	wantIDs := map[string]bool{"news-short": true, "comedy": true, "music": true}
	if len(got) != len(wantIDs) {
		t.Fatalf("Filter returned %d items, want %d: %+v", len(got), len(wantIDs), got)
	}
	for _, item := range got {
		if !wantIDs[item.VideoID] {
			t.Errorf("unexpected item %s in commute results", item.VideoID)
		}
	}
}

func TestFilterWorkBreakDurationCap(t *testing.T) {
	e := newTestEngine()
	rctx := e.Derive(14, 8, nil) // work_break, cap 10 minutes

	items := []intel.CandidateItem{
		{VideoID: "fits", Title: "Quick news update", DurationText: "9:00"},
		{VideoID: "too-long", Title: "News documentary", DurationText: "11:00"},
	}
	got := e.Filter(&rctx, items)

	if len(got) != 1 || got[0].VideoID != "fits" {
		t.Errorf("Filter = %+v, want only 'fits'", got)
	}
}

func TestFilterBedtimePreset(t *testing.T) {
	e := newTestEngine()
	rctx := e.Derive(23, 25, nil) // bedtime

	items := []intel.CandidateItem{
		{VideoID: "music", Title: "Calm piano music", DurationText: "20:00"},
		{VideoID: "gaming", Title: "Speedrun gameplay", DurationText: "15:00"},
		{VideoID: "plain", Title: "Evening vlog", DurationText: "12:00"}, // Entertainment
	}
	got := e.Filter(&rctx, items)

	wantIDs := map[string]bool{"music": true, "plain": true}
	if len(got) != len(wantIDs) {
		t.Fatalf("Filter returned %d items, want %d", len(got), len(wantIDs))
	}
	for _, item := range got {
		if !wantIDs[item.VideoID] {
			t.Errorf("unexpected item %s in bedtime results", item.VideoID)
		}
	}
}

func TestFilterUnfilteredSituations(t *testing.T) {
	e := newTestEngine()

	items := []intel.CandidateItem{
		{VideoID: "a", Title: "Go tutorial", DurationText: "90:00"},
		{VideoID: "b", Title: "Speedrun gameplay", DurationText: "3:00:00"},
	}

	for _, tc := range []struct {
		name      string
		hour      int
		available int
	}{
		{"leisure passes everything", 15, 120},
		{"unknown passes everything", 14, 30},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rctx := e.Derive(tc.hour, tc.available, nil)
			got := e.Filter(&rctx, items)
			if len(got) != len(items) {
				t.Errorf("Filter dropped items in %v: got %d, want %d", rctx.Situation, len(got), len(items))
			}
		})
	}
}
