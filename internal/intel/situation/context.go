// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

// Package situation infers the viewing situation and mood from the time of
// day and available time budget, and applies situation-specific candidate
// presets. Both inferences are fixed decision tables, evaluated top to
// bottom.
package situation

import (
	"github.com/reelsense/reelsense/internal/intel"
	"github.com/reelsense/reelsense/internal/intel/feature"
)

// Time-of-day bucket boundaries (local hour, inclusive start).
const (
	morningStart   = 5
	afternoonStart = 12
	eveningStart   = 17
	nightStart     = 22
)

// timeOfDay is the coarse day segment used by both decision tables.
type timeOfDay int

const (
	morning timeOfDay = iota
	afternoon
	evening
	night
)

// preset is a situation-specific candidate filter: an allow-list of
// categories plus a duration cap.
type preset struct {
	categories map[string]struct{}
	maxMinutes float64
}

// presets maps situations to their filters. Situations absent from the map
// (leisure, unknown) pass candidates through unfiltered.
var presets = map[intel.Situation]preset{
	intel.SituationCommute: {
		categories: allow(feature.CategoryNews, feature.CategoryComedy, feature.CategoryMusic),
		maxMinutes: 15,
	},
	intel.SituationWorkBreak: {
		categories: allow(feature.CategoryNews, feature.CategoryComedy, feature.CategoryEntertainment),
		maxMinutes: 10,
	},
	intel.SituationBedtime: {
		categories: allow(feature.CategoryMusic, feature.CategoryComedy, feature.CategoryEntertainment),
		maxMinutes: 30,
	},
}

// Engine derives situational context. The zero value with a classifier is
// ready to use; Derive and Filter are pure functions.
type Engine struct {
	classifier intel.Classifier
}

// NewEngine creates a context engine using the given classifier for
// preset filtering.
func NewEngine(classifier intel.Classifier) *Engine {
	return &Engine{classifier: classifier}
}

// Derive builds the full recommendation context from caller inputs.
func (e *Engine) Derive(hourOfDay, availableMinutes int, recentCategories []string) intel.RecommendationContext {
	tod := bucketHour(hourOfDay)
	sit := deriveSituation(tod, availableMinutes)

	return intel.RecommendationContext{
		HourOfDay:        hourOfDay,
		AvailableMinutes: availableMinutes,
		RecentCategories: recentCategories,
		Situation:        sit,
		Mood:             deriveMood(sit, tod),
	}
}

// Filter applies the situation preset's category allow-list and duration
// cap. Situations without a preset pass everything through.
func (e *Engine) Filter(rctx *intel.RecommendationContext, items []intel.CandidateItem) []intel.CandidateItem {
	p, ok := presets[rctx.Situation]
	if !ok {
		return items
	}

	out := make([]intel.CandidateItem, 0, len(items))
	for _, item := range items {
		if _, allowed := p.categories[e.classifier.Classify(item.Title)]; !allowed {
			continue
		}
		if feature.ParseDurationMinutes(item.DurationText) > p.maxMinutes {
			continue
		}
		out = append(out, item)
	}
	return out
}

// deriveSituation is the situation decision table. Rules are checked in
// order; the first match wins.
func deriveSituation(tod timeOfDay, availableMinutes int) intel.Situation {
	switch {
	case tod == morning && availableMinutes <= 15:
		return intel.SituationCommute
	case (tod == afternoon || tod == evening) && availableMinutes <= 10:
		return intel.SituationWorkBreak
	case tod == night && availableMinutes <= 30:
		return intel.SituationBedtime
	case availableMinutes >= 60:
		return intel.SituationLeisure
	default:
		return intel.SituationUnknown
	}
}

// deriveMood is the mood decision table over (situation, time of day).
func deriveMood(sit intel.Situation, tod timeOfDay) intel.Mood {
	switch sit {
	case intel.SituationCommute:
		return intel.MoodFocused
	case intel.SituationWorkBreak:
		return intel.MoodRelaxed
	case intel.SituationBedtime:
		return intel.MoodSleepy
	case intel.SituationLeisure:
		return intel.MoodRelaxed
	}

	switch tod {
	case morning:
		return intel.MoodEnergetic
	case afternoon:
		return intel.MoodFocused
	case evening:
		return intel.MoodRelaxed
	default:
		return intel.MoodSleepy
	}
}

// bucketHour assigns a local hour to its day segment. Hours before
// morningStart belong to night.
func bucketHour(hour int) timeOfDay {
	switch {
	case hour >= morningStart && hour < afternoonStart:
		return morning
	case hour >= afternoonStart && hour < eveningStart:
		return afternoon
	case hour >= eveningStart && hour < nightStart:
		return evening
	default:
		return night
	}
}

func allow(categories ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		out[c] = struct{}{}
	}
	return out
}

// Ensure Engine implements the interface.
var _ intel.ContextDeriver = (*Engine)(nil)
