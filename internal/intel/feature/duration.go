// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

package feature

import (
	"strconv"
	"strings"
)

// DefaultDurationMinutes is assumed when a duration string cannot be
// parsed. Malformed metadata falls back to this rather than erroring.
const DefaultDurationMinutes = 5.0

// Duration bucket boundaries in minutes.
const (
	ShortMaxMinutes = 5.0
	LongMinMinutes  = 20.0
)

// DurationBucket names a duration preference bucket.
type DurationBucket int

const (
	// BucketShort is under 5 minutes.
	BucketShort DurationBucket = iota
	// BucketMedium is 5 to 20 minutes.
	BucketMedium
	// BucketLong is over 20 minutes.
	BucketLong
)

// ParseDurationMinutes parses a duration string into minutes. It accepts
// colon notation ("3:00", "1:02:30") and ISO-8601 video durations
// ("PT4M13S", "PT1H2M"). Malformed input yields DefaultDurationMinutes.
func ParseDurationMinutes(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return DefaultDurationMinutes
	}

	if strings.HasPrefix(text, "PT") || strings.HasPrefix(text, "pt") {
		if m, ok := parseISODuration(text[2:]); ok {
			return m
		}
		return DefaultDurationMinutes
	}

	if m, ok := parseColonDuration(text); ok {
		return m
	}
	return DefaultDurationMinutes
}

// BucketFor assigns minutes to a preference bucket.
func BucketFor(minutes float64) DurationBucket {
	switch {
	case minutes < ShortMaxMinutes:
		return BucketShort
	case minutes > LongMinMinutes:
		return BucketLong
	default:
		return BucketMedium
	}
}

// parseColonDuration parses "SS", "MM:SS" or "HH:MM:SS".
func parseColonDuration(text string) (float64, bool) {
	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return 0, false
	}

	var seconds float64
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, false
		}
		seconds = seconds*60 + float64(n)
	}
	return seconds / 60, true
}

// parseISODuration parses the tail of an ISO-8601 duration after "PT".
func parseISODuration(text string) (float64, bool) {
	var minutes float64
	num := ""
	matched := false

	for _, r := range strings.ToUpper(text) {
		switch {
		case r >= '0' && r <= '9':
			num += string(r)
		case r == 'H' || r == 'M' || r == 'S':
			if num == "" {
				return 0, false
			}
			n, err := strconv.Atoi(num)
			if err != nil {
				return 0, false
			}
			switch r {
			case 'H':
				minutes += float64(n) * 60
			case 'M':
				minutes += float64(n)
			case 'S':
				minutes += float64(n) / 60
			}
			num = ""
			matched = true
		default:
			return 0, false
		}
	}

	if !matched || num != "" {
		return 0, false
	}
	return minutes, true
}
