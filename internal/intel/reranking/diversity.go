// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

// Package reranking implements diversity-constrained ranking of scored
// candidates: relevance-ordered greedy selection under per-category and
// per-channel caps.
package reranking

import (
	"sort"

	"github.com/reelsense/reelsense/internal/intel"
)

// DiversityRanker orders candidates by engagement and greedily admits them
// while their category and channel stay under the configured caps. When
// enough alternatives exist, no category or channel can dominate the final
// list.
type DiversityRanker struct {
	maxPerCategory int
	maxPerChannel  int
}

// NewDiversityRanker creates a ranker with the given caps. Non-positive
// caps fall back to the documented defaults (3 per category, 2 per channel).
func NewDiversityRanker(maxPerCategory, maxPerChannel int) *DiversityRanker {
	if maxPerCategory <= 0 {
		maxPerCategory = 3
	}
	if maxPerChannel <= 0 {
		maxPerChannel = 2
	}
	return &DiversityRanker{
		maxPerCategory: maxPerCategory,
		maxPerChannel:  maxPerChannel,
	}
}

// Rank sorts by engagement score descending and applies the caps. Sorting
// is by engagement, not the combined score: that preserves the behavior
// the rest of the system was tuned against. Ties break by video ID so runs
// are deterministic.
func (r *DiversityRanker) Rank(items []intel.ScoredCandidate, maxResults int) []intel.ScoredCandidate {
	if maxResults <= 0 || len(items) == 0 {
		return []intel.ScoredCandidate{}
	}

	ordered := make([]intel.ScoredCandidate, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].EngagementScore != ordered[j].EngagementScore {
			return ordered[i].EngagementScore > ordered[j].EngagementScore
		}
		return ordered[i].VideoID < ordered[j].VideoID
	})

	selected := make([]intel.ScoredCandidate, 0, maxResults)
	categoryCounts := make(map[string]int)
	channelCounts := make(map[string]int)

	for _, item := range ordered {
		if len(selected) >= maxResults {
			break
		}
		if categoryCounts[item.Category] >= r.maxPerCategory {
			continue
		}
		if item.ChannelID != "" && channelCounts[item.ChannelID] >= r.maxPerChannel {
			continue
		}

		selected = append(selected, item)
		categoryCounts[item.Category]++
		if item.ChannelID != "" {
			channelCounts[item.ChannelID]++
		}
	}

	return selected
}

// Ensure DiversityRanker implements the interface.
var _ intel.Ranker = (*DiversityRanker)(nil)
