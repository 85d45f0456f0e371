// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

package feature

import (
	"strings"

	"github.com/reelsense/reelsense/internal/intel"
)

// Category names produced by the keyword classifier.
const (
	CategoryTutorial      = "Tutorial"
	CategoryReview        = "Review"
	CategoryMusic         = "Music"
	CategoryGaming        = "Gaming"
	CategoryNews          = "News"
	CategoryComedy        = "Comedy"
	CategoryEntertainment = "Entertainment"
)

// keywordSets maps each category to its title substrings. Order matters:
// the first matching category wins, so more specific sets come first.
var keywordSets = []struct {
	category string
	keywords []string
}{
	{CategoryTutorial, []string{"tutorial", "how to", "guide", "learn", "course", "explained"}},
	{CategoryReview, []string{"review", "unboxing", "comparison", " vs ", "hands-on", "first look"}},
	{CategoryMusic, []string{"music", "song", "official video", "lyric", "cover", "remix", "live performance", "mv"}},
	{CategoryGaming, []string{"gameplay", "gaming", "playthrough", "walkthrough", "speedrun", "let's play"}},
	{CategoryNews, []string{"news", "breaking", "report", "headline", "press conference", "announcement"}},
	{CategoryComedy, []string{"comedy", "funny", "prank", "sketch", "stand-up", "parody", "meme"}},
}

// KeywordClassifier infers a category from title substrings. It is the
// default Classifier; swap it behind intel.Classifier for anything smarter.
// The zero value is ready to use and safe for concurrent use.
type KeywordClassifier struct{}

// NewKeywordClassifier creates a keyword classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Classify returns the first category whose keyword set matches the title,
// or Entertainment when nothing matches.
func (c *KeywordClassifier) Classify(title string) string {
	lower := strings.ToLower(title)
	for _, set := range keywordSets {
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				return set.category
			}
		}
	}
	return CategoryEntertainment
}

// Ensure KeywordClassifier implements the interface.
var _ intel.Classifier = (*KeywordClassifier)(nil)
