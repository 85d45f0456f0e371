// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/reelsense/reelsense/internal/logging"
	"github.com/reelsense/reelsense/internal/metrics"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// requestIDHeader is the inbound and outbound correlation header.
const requestIDHeader = "X-Request-ID"

// RequestID attaches a correlation ID to the request context and response.
// An inbound X-Request-ID is honored; otherwise one is generated.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestIDFrom extracts the correlation ID from the request context.
func requestIDFrom(r *http.Request) string {
	if id, ok := r.Context().Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// RequestLogging logs one structured event per request and records the
// Prometheus request metrics. The endpoint label uses the chi route
// pattern, not the raw path, to keep label cardinality bounded.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		endpoint := chi.RouteContext(r.Context()).RoutePattern()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		duration := time.Since(start)

		metrics.RecordAPIRequest(r.Method, endpoint, rec.status, duration)
		logging.Debug().
			Str("request_id", requestIDFrom(r)).
			Str("method", r.Method).
			Str("endpoint", endpoint).
			Int("status", rec.status).
			Dur("duration", duration).
			Msg("request")
	})
}
