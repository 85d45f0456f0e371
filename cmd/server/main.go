// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

// Package main is the entry point for the Reelsense server.
//
// Reelsense is an on-device content-intelligence engine for video
// libraries. It aggregates local watch history into a preference profile,
// scores candidate items against the profile and the current viewing
// situation, and serves diversity-ranked recommendations plus k-means
// similarity clusters over a local HTTP API.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered Koanf v2 loading (defaults, YAML file, env)
//  2. Logging: zerolog global logger from the logging config section
//  3. Store: Badger database for history, favorites and the catalog
//  4. Pipeline: profile builder, feature extractor, clusterer, scorer,
//     context engine and diversity ranker, wired into the intel engine
//  5. HTTP server: chi router with the API endpoints and /metrics
//  6. Supervision: suture tree running the server and store maintenance
//
// # Configuration
//
// Settings load via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables with the REELSENSE_ prefix, double underscore
//     as the nesting separator (REELSENSE_SERVER__PORT=9000)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the server stops accepting
// connections, in-flight requests drain within the shutdown timeout, and
// the store closes last.
//
// # Example Usage
//
// Development, console logs, in-memory store:
//
//	export REELSENSE_LOGGING__FORMAT=console
//	export REELSENSE_STORE__IN_MEMORY=true
//	./reelsense
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/reelsense/reelsense/internal/api"
	"github.com/reelsense/reelsense/internal/config"
	"github.com/reelsense/reelsense/internal/intel"
	"github.com/reelsense/reelsense/internal/intel/cluster"
	"github.com/reelsense/reelsense/internal/intel/feature"
	"github.com/reelsense/reelsense/internal/intel/profile"
	"github.com/reelsense/reelsense/internal/intel/reranking"
	"github.com/reelsense/reelsense/internal/intel/scoring"
	"github.com/reelsense/reelsense/internal/intel/situation"
	"github.com/reelsense/reelsense/internal/logging"
	"github.com/reelsense/reelsense/internal/store"
	"github.com/reelsense/reelsense/internal/supervisor"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(cfg.Logging)
	logger := logging.Logger()
	logger.Info().Str("version", version).Msg("starting reelsense")

	db, err := store.Open(store.Options{
		Path:       cfg.Store.Path,
		InMemory:   cfg.Store.InMemory,
		GCInterval: cfg.Store.GCInterval,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error().Err(cerr).Msg("store close failed")
		}
	}()

	engine, err := buildEngine(&cfg.Intel, logger)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	engine.SetHistoryProvider(db)
	engine.SetCatalogProvider(db)

	handler := api.NewHandler(engine, db, cfg.API.MaxBodyBytes, version)
	router := api.NewRouter(handler, api.RouterOptions{
		RateLimitReqs:   cfg.API.RateLimitReqs,
		RateLimitWindow: cfg.API.RateLimitWindow,
		CORSOrigins:     cfg.API.CORSOrigins,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)
	tree.AddDataService(supervisor.NewMaintenanceService("store-gc", db.RunGC))
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor: %w", err)
	}

	logger.Info().Msg("shutdown complete")
	return nil
}

// buildEngine wires the pipeline stages into the intel engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func buildEngine(cfg *intel.Config, logger zerolog.Logger) (*intel.Engine, error) {
	classifier := feature.NewKeywordClassifier()

	return intel.NewEngine(cfg, logger, intel.Components{
		Profiles: profile.NewBuilder(classifier),
		Features: feature.NewExtractor(),
		Clusters: cluster.NewKMeans(cfg.Clustering, classifier),
		Scores:   scoring.NewScorer(cfg.Weights, cfg.Scoring, classifier),
		Context:  situation.NewEngine(classifier),
		Rank:     reranking.NewDiversityRanker(cfg.Ranking.MaxPerCategory, cfg.Ranking.MaxPerChannel),
	})
}
