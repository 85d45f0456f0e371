// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

// Package api provides the HTTP surface for the content-intelligence
// pipeline: ingestion of history and catalog data, the recommendation and
// clustering operations, profile inspection and runtime configuration.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions configure the HTTP router.
type RouterOptions struct {
	// RateLimitReqs is the allowed requests per window per client IP.
	RateLimitReqs int

	// RateLimitWindow is the rate-limit window size.
	RateLimitWindow time.Duration

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string
}

// NewRouter builds the chi router with the full middleware stack and all
// routes.
func NewRouter(handler *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		MaxAge:         300,
	}))
	r.Use(RequestLogging)

	r.Get("/health", handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(opts.RateLimitReqs, opts.RateLimitWindow))

		r.Post("/history", handler.AddInteractions)
		r.Get("/history", handler.GetHistory)
		r.Post("/favorites", handler.AddFavorites)
		r.Put("/catalog", handler.ReplaceCatalog)
		r.Get("/profile", handler.GetProfile)
		r.Post("/recommendations", handler.Recommendations)
		r.Post("/clusters", handler.Clusters)

		r.Route("/intel/config", func(r chi.Router) {
			r.Get("/", handler.GetIntelConfig)
			r.Put("/", handler.UpdateIntelConfig)
		})
	})

	return r
}
