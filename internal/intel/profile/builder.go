// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

// Package profile aggregates raw interaction history into a preference
// profile. Build is a pure fold over its inputs: no clock, no randomness,
// no state carried between calls.
package profile

import (
	"time"

	"github.com/reelsense/reelsense/internal/intel"
	"github.com/reelsense/reelsense/internal/intel/feature"
)

// favoriteBoost is the fixed affinity sum added per favorite.
const favoriteBoost = 1.5

// skipThreshold is the watch progress under which an interaction counts as
// a skip.
const skipThreshold = 0.1

// sparseHistorySize is the interaction count under which the diversity
// baseline is forced to 1.0 to avoid overfitting.
const sparseHistorySize = 5

// Builder aggregates interactions and favorites into a UserProfile.
type Builder struct {
	classifier intel.Classifier
}

// NewBuilder creates a profile builder using the given category classifier.
func NewBuilder(classifier intel.Classifier) *Builder {
	return &Builder{classifier: classifier}
}

// Build computes the profile for the given history. Empty input yields the
// neutral default profile (every affinity 0.5, diversity baseline 1.0).
//
//nolint:gocritic // rangeValCopy: records passed by value in range, acceptable for clarity
func (b *Builder) Build(interactions []intel.InteractionRecord, favorites []intel.FavoriteRecord) intel.UserProfile {
	if len(interactions) == 0 && len(favorites) == 0 {
		return NeutralProfile()
	}

	categorySums := make(map[string]float64)
	channelSums := make(map[string]float64)
	var hourCounts [24]float64

	type bucketAcc struct {
		sum float64
		n   int
	}
	var short, medium, long bucketAcc

	var progressSum float64
	completed := 0
	skipped := 0
	channels := make(map[string]struct{})

	for _, rec := range interactions {
		category := b.classifier.Classify(rec.Title)
		categorySums[category] += rec.WatchProgress
		if rec.ChannelID != "" {
			channelSums[rec.ChannelID] += rec.WatchProgress
			channels[rec.ChannelID] = struct{}{}
		}

		minutes := feature.ParseDurationMinutes(rec.DurationText)
		switch feature.BucketFor(minutes) {
		case feature.BucketShort:
			short.sum += rec.WatchProgress
			short.n++
		case feature.BucketLong:
			long.sum += rec.WatchProgress
			long.n++
		default:
			medium.sum += rec.WatchProgress
			medium.n++
		}

		hour := time.UnixMilli(rec.WatchedAtMS).Hour()
		hourCounts[hour]++

		progressSum += rec.WatchProgress
		if rec.Completed {
			completed++
		}
		if rec.WatchProgress < skipThreshold {
			skipped++
		}
	}

	for _, fav := range favorites {
		if fav.Category != "" {
			categorySums[fav.Category] += favoriteBoost
		}
	}

	p := intel.UserProfile{
		CategoryAffinity: normalizeByMax(categorySums),
		ChannelAffinity:  normalizeByMax(channelSums),
		DurationPreference: intel.DurationPreference{
			Short:  bucketMean(short.sum, short.n),
			Medium: bucketMean(medium.sum, medium.n),
			Long:   bucketMean(long.sum, long.n),
		},
		HourlyActivity: normalizeHours(hourCounts),
	}

	if n := len(interactions); n > 0 {
		p.EngagementPattern = intel.EngagementPattern{
			AvgProgress:    clamp01(progressSum / float64(n)),
			CompletionRate: float64(completed) / float64(n),
			SkipRate:       float64(skipped) / float64(n),
		}
		p.DiversityBaseline = diversityBaseline(len(categorySums), len(channels), n)
	} else {
		// Favorites only: engagement is unknown, variety is assumed.
		p.EngagementPattern = intel.EngagementPattern{}
		p.DiversityBaseline = 1.0
	}

	return p
}

// NeutralProfile returns the fixed default profile for empty histories.
// Every affinity reads as 0.5 and the diversity baseline is 1.0, so a new
// user sees broad, unbiased recommendations.
func NeutralProfile() intel.UserProfile {
	var hours [24]float64
	for i := range hours {
		hours[i] = 0.5
	}
	return intel.UserProfile{
		CategoryAffinity:   map[string]float64{},
		ChannelAffinity:    map[string]float64{},
		DurationPreference: intel.DurationPreference{Short: 0.5, Medium: 0.5, Long: 0.5},
		HourlyActivity:     hours,
		EngagementPattern: intel.EngagementPattern{
			AvgProgress:    0.5,
			CompletionRate: 0.5,
			SkipRate:       0,
		},
		DiversityBaseline: 1.0,
		Neutral:           true,
	}
}

// normalizeByMax scales sums by the maximum observed sum, clamped to [0, 1].
func normalizeByMax(sums map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(sums))
	var maxSum float64
	for _, v := range sums {
		if v > maxSum {
			maxSum = v
		}
	}
	if maxSum <= 0 {
		return out
	}
	for k, v := range sums {
		out[k] = clamp01(v / maxSum)
	}
	return out
}

// normalizeHours scales the hour histogram by its maximum bucket.
func normalizeHours(counts [24]float64) [24]float64 {
	var maxCount float64
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		return counts
	}
	var out [24]float64
	for i, c := range counts {
		out[i] = c / maxCount
	}
	return out
}

// bucketMean is the mean progress of a bucket, or 0 for an empty bucket.
func bucketMean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return clamp01(sum / float64(n))
}

// diversityBaseline is (distinct categories + distinct channels) divided by
// twice the interaction count, clamped to [0, 1]. Sparse histories are
// forced to 1.0.
func diversityBaseline(categories, channels, interactions int) float64 {
	if interactions < sparseHistorySize {
		return 1.0
	}
	return clamp01(float64(categories+channels) / float64(2*interactions))
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

// Ensure Builder implements the interface.
var _ intel.ProfileBuilder = (*Builder)(nil)
