// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/reelsense/reelsense/internal/intel"
	"github.com/reelsense/reelsense/internal/metrics"
	"github.com/reelsense/reelsense/internal/models"
)

// Storage is the persistence surface the handlers need. Satisfied by the
// Badger store; tests substitute an in-memory fake.
type Storage interface {
	intel.HistoryProvider
	intel.CatalogProvider
	AddInteractions(ctx context.Context, records []intel.InteractionRecord) error
	AddFavorites(ctx context.Context, records []intel.FavoriteRecord) error
	ReplaceCatalog(ctx context.Context, items []intel.CandidateItem) error
}

// Handler implements the HTTP API endpoints.
type Handler struct {
	engine       *intel.Engine
	storage      Storage
	validate     *validator.Validate
	maxBodyBytes int64
	version      string
}

// NewHandler creates the endpoint handler.
func NewHandler(engine *intel.Engine, storage Storage, maxBodyBytes int64, version string) *Handler {
	return &Handler{
		engine:       engine,
		storage:      storage,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		maxBodyBytes: maxBodyBytes,
		version:      version,
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	}, time.Now())
}

// AddInteractions appends watch-history records.
func (h *Handler) AddInteractions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.AddInteractionsRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if apiErr := validateRequest(h.validate, &req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	records := make([]intel.InteractionRecord, len(req.Interactions))
	for i := range req.Interactions {
		records[i] = req.Interactions[i].ToRecord()
	}

	if err := h.storage.AddInteractions(r.Context(), records); err != nil {
		respondError(w, r, http.StatusInternalServerError, "STORE_ERROR", "failed to store interactions", err)
		return
	}
	respondSuccess(w, r, http.StatusCreated, models.IngestResponse{Accepted: len(records)}, start)
}

// AddFavorites upserts favorites records.
func (h *Handler) AddFavorites(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.AddFavoritesRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if apiErr := validateRequest(h.validate, &req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	records := make([]intel.FavoriteRecord, len(req.Favorites))
	for i := range req.Favorites {
		records[i] = req.Favorites[i].ToRecord()
	}

	if err := h.storage.AddFavorites(r.Context(), records); err != nil {
		respondError(w, r, http.StatusInternalServerError, "STORE_ERROR", "failed to store favorites", err)
		return
	}
	respondSuccess(w, r, http.StatusCreated, models.IngestResponse{Accepted: len(records)}, start)
}

// GetHistory returns the stored interaction and favorites snapshot.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	interactions, err := h.storage.GetInteractions(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "STORE_ERROR", "failed to read interactions", err)
		return
	}
	favorites, err := h.storage.GetFavorites(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "STORE_ERROR", "failed to read favorites", err)
		return
	}

	respondSuccess(w, r, http.StatusOK, models.HistoryResponse{
		Interactions: interactions,
		Favorites:    favorites,
	}, start)
}

// ReplaceCatalog replaces the stored candidate pool.
func (h *Handler) ReplaceCatalog(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.ReplaceCatalogRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if apiErr := validateRequest(h.validate, &req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	items := make([]intel.CandidateItem, len(req.Items))
	for i := range req.Items {
		items[i] = req.Items[i].ToItem()
	}

	if err := h.storage.ReplaceCatalog(r.Context(), items); err != nil {
		respondError(w, r, http.StatusInternalServerError, "STORE_ERROR", "failed to replace catalog", err)
		return
	}
	respondSuccess(w, r, http.StatusOK, models.IngestResponse{Accepted: len(items)}, start)
}

// GetProfile computes and returns the preference profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	profile, err := h.engine.Profile(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to build profile", err)
		return
	}
	respondSuccess(w, r, http.StatusOK, profile, start)
}

// recommendPayload mirrors intel.Request with an optional hour. A missing
// hour_of_day means "use the server clock", which the pipeline expresses as
// an out-of-range value.
type recommendPayload struct {
	MaxResults       int                   `json:"max_results"`
	HourOfDay        *int                  `json:"hour_of_day"`
	AvailableMinutes int                   `json:"available_minutes"`
	RecentCategories []string              `json:"recent_categories"`
	Candidates       []intel.CandidateItem `json:"candidates"`
}

// Recommendations runs the full recommendation pipeline.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var payload recommendPayload
	if err := decodeJSON(w, r, h.maxBodyBytes, &payload); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	req := intel.Request{
		MaxResults:       payload.MaxResults,
		HourOfDay:        -1,
		AvailableMinutes: payload.AvailableMinutes,
		RecentCategories: payload.RecentCategories,
		Candidates:       payload.Candidates,
		RequestID:        requestIDFrom(r),
	}
	if payload.HourOfDay != nil {
		req.HourOfDay = *payload.HourOfDay
	}

	resp, err := h.engine.Recommend(r.Context(), req)
	metrics.RecordRecommendation(time.Since(start), respScored(resp), respFiltered(resp), respDropped(resp), err)
	if err != nil {
		if errors.Is(err, intel.ErrNegativeMaxResults) || errors.Is(err, intel.ErrNegativeAvailableMinutes) {
			respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "recommendation failed", err)
		return
	}

	respondSuccess(w, r, http.StatusOK, resp, start)
}

// Clusters runs similarity clustering over the candidate pool.
func (h *Handler) Clusters(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req intel.ClusterRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	req.RequestID = requestIDFrom(r)

	resp, err := h.engine.Clusters(r.Context(), req)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "clustering failed", err)
		return
	}
	metrics.ClusteringRuns.Inc()

	respondSuccess(w, r, http.StatusOK, resp, start)
}

// GetIntelConfig returns the pipeline configuration.
func (h *Handler) GetIntelConfig(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, h.engine.GetConfig(), time.Now())
}

// UpdateIntelConfig replaces the pipeline configuration.
func (h *Handler) UpdateIntelConfig(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var cfg intel.Config
	if err := decodeJSON(w, r, h.maxBodyBytes, &cfg); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	if err := h.engine.UpdateConfig(&cfg); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	respondSuccess(w, r, http.StatusOK, h.engine.GetConfig(), start)
}

// respondValidationError sends a 400 with the structured validation details.
func respondValidationError(w http.ResponseWriter, r *http.Request, apiErr *models.APIError) {
	respondJSON(w, http.StatusBadRequest, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			RequestID: requestIDFrom(r),
		},
		Error: apiErr,
	})
}

func respScored(resp *intel.Response) int {
	if resp == nil {
		return 0
	}
	return resp.TotalCandidates - resp.Metadata.FilteredOut
}

func respFiltered(resp *intel.Response) int {
	if resp == nil {
		return 0
	}
	return resp.Metadata.FilteredOut
}

func respDropped(resp *intel.Response) int {
	if resp == nil {
		return 0
	}
	return resp.Metadata.DroppedLowConfidence
}
