// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

// Package feature maps content metadata to fixed-dimension numeric vectors
// and hosts the keyword category classifier and duration parsing shared by
// the profiling, scoring and clustering stages.
package feature

import (
	"strings"

	"github.com/reelsense/reelsense/internal/intel"
)

// Feature vector layout. All vectors share this order and length so
// Euclidean distances stay comparable across calls; changing it invalidates
// every stored centroid.
const (
	idxTitleTokens = iota
	idxKwTutorial
	idxKwReview
	idxKwMusic
	idxKwGaming
	idxKwNews
	idxKwComedy
	idxDurationMinutes
	idxIsShort
	idxIsLong
	idxChannelNameLength
	idxKwOfficial

	// Dimensions is the fixed vector length D.
	Dimensions = 12
)

// Binary flag boundaries for the short/long duration features. These are
// coarser than the preference buckets on purpose: they flag extremes.
const (
	flagShortMaxMinutes = 5.0
	flagLongMinMinutes  = 30.0
)

// officialKeywords flag channels that look like first-party publishers.
var officialKeywords = []string{"official", "vevo", "tv", "studios"}

// Extractor encodes content metadata as feature vectors. The zero value is
// ready to use; extraction is a pure function of the item.
type Extractor struct{}

// NewExtractor creates a feature extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Dimensions returns the fixed vector length D.
func (e *Extractor) Dimensions() int {
	return Dimensions
}

// Extract encodes one item into a Dimensions-length vector.
func (e *Extractor) Extract(item intel.CandidateItem) intel.FeatureVector {
	title := strings.ToLower(item.Title)
	minutes := ParseDurationMinutes(item.DurationText)

	v := make([]float64, Dimensions)
	v[idxTitleTokens] = float64(len(strings.Fields(item.Title)))
	v[idxKwTutorial] = keywordFlag(title, CategoryTutorial)
	v[idxKwReview] = keywordFlag(title, CategoryReview)
	v[idxKwMusic] = keywordFlag(title, CategoryMusic)
	v[idxKwGaming] = keywordFlag(title, CategoryGaming)
	v[idxKwNews] = keywordFlag(title, CategoryNews)
	v[idxKwComedy] = keywordFlag(title, CategoryComedy)
	v[idxDurationMinutes] = minutes
	if minutes < flagShortMaxMinutes {
		v[idxIsShort] = 1
	}
	if minutes > flagLongMinMinutes {
		v[idxIsLong] = 1
	}
	v[idxChannelNameLength] = float64(len(item.ChannelTitle))
	v[idxKwOfficial] = officialFlag(strings.ToLower(item.ChannelTitle))

	return intel.FeatureVector{VideoID: item.VideoID, Values: v}
}

// keywordFlag returns 1 when any keyword of the category matches the
// lowercased title.
func keywordFlag(lowerTitle, category string) float64 {
	for _, set := range keywordSets {
		if set.category != category {
			continue
		}
		for _, kw := range set.keywords {
			if strings.Contains(lowerTitle, kw) {
				return 1
			}
		}
	}
	return 0
}

// officialFlag returns 1 when the channel name looks first-party.
func officialFlag(lowerChannel string) float64 {
	for _, kw := range officialKeywords {
		if strings.Contains(lowerChannel, kw) {
			return 1
		}
	}
	return 0
}

// Ensure Extractor implements the interface.
var _ intel.FeatureExtractor = (*Extractor)(nil)
