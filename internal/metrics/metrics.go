// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

// Package metrics declares the Prometheus instrumentation for Reelsense:
// API latency and throughput, pipeline stage counters and the store's
// operation counters. Metrics register on the default registry via
// promauto; the API exposes them at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelsense_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelsense_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	// Pipeline metrics.
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelsense_recommendation_requests_total",
			Help: "Total recommendation requests by outcome",
		},
		[]string{"outcome"}, // "ok", "error"
	)

	RecommendationLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelsense_recommendation_duration_seconds",
			Help:    "End-to-end recommendation pipeline duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	CandidatesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelsense_candidates_scored_total",
			Help: "Total candidates scored by the predictive scorer",
		},
	)

	CandidatesFiltered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelsense_candidates_filtered_total",
			Help: "Total candidates removed by situation preset filters",
		},
	)

	LowConfidenceDrops = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelsense_low_confidence_drops_total",
			Help: "Total candidates dropped for confidence below the threshold",
		},
	)

	ClusteringRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelsense_clustering_runs_total",
			Help: "Total k-means clustering runs",
		},
	)

	// Store metrics.
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelsense_store_operations_total",
			Help: "Total store operations",
		},
		[]string{"operation", "status"}, // operation: "put", "get", "list"; status: "ok", "error"
	)

	StoreGCRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelsense_store_gc_runs_total",
			Help: "Total Badger value-log garbage collection runs",
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRecommendation records one pipeline run.
func RecordRecommendation(duration time.Duration, scored, filtered, dropped int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	RecommendationRequests.WithLabelValues(outcome).Inc()
	if err != nil {
		return
	}
	RecommendationLatency.Observe(duration.Seconds())
	CandidatesScored.Add(float64(scored))
	CandidatesFiltered.Add(float64(filtered))
	LowConfidenceDrops.Add(float64(dropped))
}

// RecordStoreOperation records one store operation.
func RecordStoreOperation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StoreOperations.WithLabelValues(operation, status).Inc()
}
