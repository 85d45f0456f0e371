// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

// Package models defines the HTTP API request and response envelopes shared
// by all endpoints.
package models

import (
	"time"

	"github.com/reelsense/reelsense/internal/intel"
)

// APIResponse is the standardized response wrapper used by all endpoints.
//
// Status field values:
//   - "success": request completed, see Data
//   - "error": request failed, see Error
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "VALIDATION_ERROR", "message": "max_results must not be negative"},
//	  "metadata": {"timestamp": "2026-08-25T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	// Timestamp is the server time when the response was generated.
	Timestamp time.Time `json:"timestamp"`

	// RequestID correlates the response with server logs.
	RequestID string `json:"request_id,omitempty"`

	// QueryTimeMS is the handler execution time in milliseconds.
	QueryTimeMS int64 `json:"query_time_ms,omitempty"`
}

// APIError carries structured error details.
//
// Common codes: VALIDATION_ERROR, NOT_FOUND, STORE_ERROR, INTERNAL_ERROR,
// RATE_LIMIT_EXCEEDED.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// AddInteractionsRequest appends watch-history records.
type AddInteractionsRequest struct {
	Interactions []InteractionPayload `json:"interactions" validate:"required,min=1,dive"`
}

// InteractionPayload is one incoming watch-history record.
type InteractionPayload struct {
	VideoID         string  `json:"video_id" validate:"required"`
	Title           string  `json:"title" validate:"required"`
	ChannelID       string  `json:"channel_id"`
	ChannelTitle    string  `json:"channel_title"`
	DurationText    string  `json:"duration_text"`
	WatchProgress   float64 `json:"watch_progress" validate:"gte=0,lte=1"`
	WatchDurationMS int64   `json:"watch_duration_ms" validate:"gte=0"`
	WatchedAtMS     int64   `json:"watched_at_ms" validate:"gte=0"`
	Completed       bool    `json:"completed"`
}

// ToRecord converts the payload to the pipeline's record type.
func (p *InteractionPayload) ToRecord() intel.InteractionRecord {
	return intel.InteractionRecord{
		VideoID:         p.VideoID,
		Title:           p.Title,
		ChannelID:       p.ChannelID,
		ChannelTitle:    p.ChannelTitle,
		DurationText:    p.DurationText,
		WatchProgress:   p.WatchProgress,
		WatchDurationMS: p.WatchDurationMS,
		WatchedAtMS:     p.WatchedAtMS,
		Completed:       p.Completed,
	}
}

// AddFavoritesRequest appends favorites records.
type AddFavoritesRequest struct {
	Favorites []FavoritePayload `json:"favorites" validate:"required,min=1,dive"`
}

// FavoritePayload is one incoming favorites record.
type FavoritePayload struct {
	VideoID   string `json:"video_id" validate:"required"`
	Category  string `json:"category"`
	AddedAtMS int64  `json:"added_at_ms" validate:"gte=0"`
}

// ToRecord converts the payload to the pipeline's record type.
func (p *FavoritePayload) ToRecord() intel.FavoriteRecord {
	return intel.FavoriteRecord{
		VideoID:   p.VideoID,
		Category:  p.Category,
		AddedAtMS: p.AddedAtMS,
	}
}

// ReplaceCatalogRequest replaces the stored candidate pool.
type ReplaceCatalogRequest struct {
	Items []CatalogItemPayload `json:"items" validate:"required,dive"`
}

// CatalogItemPayload is one incoming candidate item.
type CatalogItemPayload struct {
	VideoID       string `json:"video_id" validate:"required"`
	Title         string `json:"title" validate:"required"`
	ChannelID     string `json:"channel_id"`
	ChannelTitle  string `json:"channel_title"`
	DurationText  string `json:"duration_text"`
	PublishedAtMS int64  `json:"published_at_ms" validate:"gte=0"`
}

// ToItem converts the payload to the pipeline's candidate type.
func (p *CatalogItemPayload) ToItem() intel.CandidateItem {
	return intel.CandidateItem{
		VideoID:       p.VideoID,
		Title:         p.Title,
		ChannelID:     p.ChannelID,
		ChannelTitle:  p.ChannelTitle,
		DurationText:  p.DurationText,
		PublishedAtMS: p.PublishedAtMS,
	}
}

// IngestResponse reports how many records an ingestion endpoint accepted.
type IngestResponse struct {
	Accepted int `json:"accepted"`
}

// HistoryResponse returns the stored history snapshot.
type HistoryResponse struct {
	Interactions []intel.InteractionRecord `json:"interactions"`
	Favorites    []intel.FavoriteRecord    `json:"favorites"`
}
