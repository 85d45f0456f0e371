// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// HTTPServerService runs an *http.Server under supervision. ListenAndServe
// blocks until failure or until the supervisor cancels the context, at
// which point the server shuts down gracefully.
type HTTPServerService struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          zerolog.Logger
}

// NewHTTPServerService wraps the server for the supervision tree.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHTTPServerService(server *http.Server, shutdownTimeout time.Duration, logger zerolog.Logger) *HTTPServerService {
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		logger:          logger.With().Str("component", "http").Logger(),
	}
}

// Serve implements suture.Service.
func (s *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.server.Addr).Msg("http server listening")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return suture.ErrDoNotRestart
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn().Err(err).Msg("graceful shutdown failed")
			return err
		}
		s.logger.Info().Msg("http server stopped")
		return ctx.Err()
	}
}

func (s *HTTPServerService) String() string { return "http-server" }

// MaintenanceService runs a long-lived maintenance function, such as the
// store's garbage collection loop, under supervision.
type MaintenanceService struct {
	name string
	run  func(ctx context.Context) error
}

// NewMaintenanceService wraps a blocking run function for the tree.
func NewMaintenanceService(name string, run func(ctx context.Context) error) *MaintenanceService {
	return &MaintenanceService{name: name, run: run}
}

// Serve implements suture.Service.
func (s *MaintenanceService) Serve(ctx context.Context) error {
	return s.run(ctx)
}

func (s *MaintenanceService) String() string { return s.name }

// Ensure services implement the interface.
var (
	_ suture.Service = (*HTTPServerService)(nil)
	_ suture.Service = (*MaintenanceService)(nil)
)
