// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

package feature

import "testing"

func TestKeywordClassifier(t *testing.T) {
	c := NewKeywordClassifier()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"tutorial keyword", "Go Tutorial for Beginners", CategoryTutorial},
		{"how to phrase", "How to fix a bike chain", CategoryTutorial},
		{"review keyword", "iPhone 17 Review", CategoryReview},
		{"unboxing", "Unboxing the new console", CategoryReview},
		{"music official video", "Artist - Song (Official Video)", CategoryMusic},
		{"gaming playthrough", "Elden Ring playthrough part 3", CategoryGaming},
		{"news breaking", "Breaking: markets tumble", CategoryNews},
		{"comedy sketch", "Funny cat compilation", CategoryComedy},
		{"no match falls back", "A quiet afternoon vlog", CategoryEntertainment},
		{"empty title falls back", "", CategoryEntertainment},
		{"case insensitive", "GO TUTORIAL FOR EXPERTS", CategoryTutorial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.title); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

// A title matching several categories resolves to the first set in order.
func TestKeywordClassifierPrecedence(t *testing.T) {
	c := NewKeywordClassifier()

	// "tutorial" (Tutorial) beats "review" (Review) because Tutorial is
	// checked first.
	if got := c.Classify("Tutorial review: editing software"); got != CategoryTutorial {
		t.Errorf("Classify = %q, want %q", got, CategoryTutorial)
	}
}
