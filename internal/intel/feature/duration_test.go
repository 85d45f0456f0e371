// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

package feature

import (
	"math"
	"testing"
)

func TestParseDurationMinutes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"minutes seconds", "3:00", 3.0},
		{"minutes seconds fractional", "4:30", 4.5},
		{"hours minutes seconds", "1:02:30", 62.5},
		{"bare seconds", "90", 1.5},
		{"iso minutes seconds", "PT4M13S", 4.0 + 13.0/60},
		{"iso hours minutes", "PT1H2M", 62.0},
		{"iso seconds only", "PT45S", 0.75},
		{"iso lowercase", "pt2m", 2.0},
		{"empty falls back", "", DefaultDurationMinutes},
		{"garbage falls back", "soon", DefaultDurationMinutes},
		{"negative component falls back", "-3:00", DefaultDurationMinutes},
		{"too many segments falls back", "1:2:3:4", DefaultDurationMinutes},
		{"iso trailing digits fall back", "PT4M13", DefaultDurationMinutes},
		{"whitespace trimmed", "  10:00  ", 10.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDurationMinutes(tt.text)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseDurationMinutes(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		name    string
		minutes float64
		want    DurationBucket
	}{
		{"under five is short", 4.9, BucketShort},
		{"exactly five is medium", 5.0, BucketMedium},
		{"mid range is medium", 12.0, BucketMedium},
		{"exactly twenty is medium", 20.0, BucketMedium},
		{"over twenty is long", 20.1, BucketLong},
		{"zero is short", 0, BucketShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BucketFor(tt.minutes); got != tt.want {
				t.Errorf("BucketFor(%v) = %v, want %v", tt.minutes, got, tt.want)
			}
		})
	}
}
