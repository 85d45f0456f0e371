// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

package reranking

import (
	"fmt"
	"testing"

	"github.com/reelsense/reelsense/internal/intel"
)

func candidate(id, category, channel string, engagement float64) intel.ScoredCandidate {
	return intel.ScoredCandidate{
		VideoID:         id,
		Category:        category,
		ChannelID:       channel,
		EngagementScore: engagement,
	}
}

func TestRankOrdersByEngagement(t *testing.T) {
	r := NewDiversityRanker(3, 2)

	items := []intel.ScoredCandidate{
		candidate("low", "A", "ch1", 0.2),
		candidate("high", "B", "ch2", 0.9),
		candidate("mid", "C", "ch3", 0.5),
	}
	got := r.Rank(items, 10)

	wantOrder := []string{"high", "mid", "low"}
	if len(got) != len(wantOrder) {
		t.Fatalf("Rank returned %d items, want %d", len(got), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got[i].VideoID != id {
			t.Errorf("position %d = %s, want %s", i, got[i].VideoID, id)
		}
	}
}

func TestRankTiesBreakByVideoID(t *testing.T) {
	r := NewDiversityRanker(5, 5)

	items := []intel.ScoredCandidate{
		candidate("zz", "A", "", 0.5),
		candidate("aa", "B", "", 0.5),
		candidate("mm", "C", "", 0.5),
	}
	got := r.Rank(items, 10)

	wantOrder := []string{"aa", "mm", "zz"}
	for i, id := range wantOrder {
		if got[i].VideoID != id {
			t.Errorf("position %d = %s, want %s", i, got[i].VideoID, id)
		}
	}
}

func TestRankCategoryCap(t *testing.T) {
	r := NewDiversityRanker(3, 10)

	var items []intel.ScoredCandidate
	for i := 0; i < 6; i++ {
		items = append(items, candidate(fmt.Sprintf("tut-%d", i), "Tutorial", fmt.Sprintf("ch%d", i), 0.9-float64(i)*0.01))
	}
	items = append(items, candidate("music", "Music", "chx", 0.1))

	got := r.Rank(items, 10)
	tutorials := 0
	for _, item := range got {
		if item.Category == "Tutorial" {
			tutorials++
		}
	}
	if tutorials != 3 {
		t.Errorf("tutorial count = %d, want cap of 3", tutorials)
	}
	// The weaker music item still makes the list once tutorials hit the cap.
	found := false
	for _, item := range got {
		if item.VideoID == "music" {
			found = true
		}
	}
	if !found {
		t.Error("expected capped list to include the music item")
	}
}

func TestRankChannelCap(t *testing.T) {
	r := NewDiversityRanker(10, 2)

	items := []intel.ScoredCandidate{
		candidate("a", "A", "ch1", 0.9),
		candidate("b", "B", "ch1", 0.8),
		candidate("c", "C", "ch1", 0.7),
		candidate("d", "D", "ch2", 0.1),
	}
	got := r.Rank(items, 10)

	fromCh1 := 0
	for _, item := range got {
		if item.ChannelID == "ch1" {
			fromCh1++
		}
	}
	if fromCh1 != 2 {
		t.Errorf("ch1 count = %d, want cap of 2", fromCh1)
	}
	if len(got) != 3 {
		t.Errorf("result length = %d, want 3", len(got))
	}
}

func TestRankEmptyChannelExemptFromChannelCap(t *testing.T) {
	r := NewDiversityRanker(10, 1)

	items := []intel.ScoredCandidate{
		candidate("a", "A", "", 0.9),
		candidate("b", "B", "", 0.8),
		candidate("c", "C", "", 0.7),
	}
	got := r.Rank(items, 10)
	if len(got) != 3 {
		t.Errorf("result length = %d, want 3 (no channel id, no channel cap)", len(got))
	}
}

func TestRankTruncatesToMaxResults(t *testing.T) {
	r := NewDiversityRanker(10, 10)

	var items []intel.ScoredCandidate
	for i := 0; i < 8; i++ {
		items = append(items, candidate(fmt.Sprintf("v%d", i), fmt.Sprintf("cat%d", i), fmt.Sprintf("ch%d", i), float64(i)/10))
	}

	got := r.Rank(items, 3)
	if len(got) != 3 {
		t.Fatalf("result length = %d, want 3", len(got))
	}
	// Top three by engagement: v7, v6, v5.
	want := []string{"v7", "v6", "v5"}
	for i, id := range want {
		if got[i].VideoID != id {
			t.Errorf("position %d = %s, want %s", i, got[i].VideoID, id)
		}
	}
}

func TestRankEdgeCases(t *testing.T) {
	r := NewDiversityRanker(3, 2)

	if got := r.Rank(nil, 10); len(got) != 0 {
		t.Errorf("Rank(nil) = %v, want empty", got)
	}
	if got := r.Rank([]intel.ScoredCandidate{candidate("a", "A", "ch", 0.5)}, 0); len(got) != 0 {
		t.Errorf("Rank(maxResults=0) = %v, want empty", got)
	}
}

// Rank must not mutate its input slice.
func TestRankDoesNotMutateInput(t *testing.T) {
	r := NewDiversityRanker(3, 2)

	items := []intel.ScoredCandidate{
		candidate("low", "A", "ch1", 0.1),
		candidate("high", "B", "ch2", 0.9),
	}
	_ = r.Rank(items, 10)

	if items[0].VideoID != "low" || items[1].VideoID != "high" {
		t.Error("input slice order changed")
	}
}

func TestNewDiversityRankerDefaults(t *testing.T) {
	r := NewDiversityRanker(0, -1)
	if r.maxPerCategory != 3 || r.maxPerChannel != 2 {
		t.Errorf("defaults = (%d, %d), want (3, 2)", r.maxPerCategory, r.maxPerChannel)
	}
}
