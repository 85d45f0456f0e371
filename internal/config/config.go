// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

// Package config defines the application configuration and its layered
// loader. Sources are merged in precedence order: built-in defaults, then
// an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/reelsense/reelsense/internal/intel"
	"github.com/reelsense/reelsense/internal/logging"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig   `koanf:"server" json:"server"`
	Logging logging.Config `koanf:"logging" json:"logging"`
	Store   StoreConfig    `koanf:"store" json:"store"`
	API     APIConfig      `koanf:"api" json:"api"`
	Intel   intel.Config   `koanf:"intel" json:"intel"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address. Default binds loopback only; the engine
	// is meant to sit next to its client, not on a network edge.
	Host string `koanf:"host" json:"host"`

	// Port is the listen port.
	Port int `koanf:"port" json:"port"`

	// ReadTimeout bounds request reads, including the body.
	ReadTimeout time.Duration `koanf:"read_timeout" json:"read_timeout"`

	// WriteTimeout bounds response writes.
	WriteTimeout time.Duration `koanf:"write_timeout" json:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout"`
}

// StoreConfig holds the on-device persistence settings.
type StoreConfig struct {
	// Path is the Badger database directory.
	Path string `koanf:"path" json:"path"`

	// InMemory runs the store without touching disk. Used in tests and
	// ephemeral deployments.
	InMemory bool `koanf:"in_memory" json:"in_memory"`

	// GCInterval is how often value-log garbage collection runs.
	GCInterval time.Duration `koanf:"gc_interval" json:"gc_interval"`
}

// APIConfig holds HTTP API behavior settings.
type APIConfig struct {
	// RateLimitReqs is the allowed requests per window per client IP.
	RateLimitReqs int `koanf:"rate_limit_reqs" json:"rate_limit_reqs"`

	// RateLimitWindow is the rate-limit window size.
	RateLimitWindow time.Duration `koanf:"rate_limit_window" json:"rate_limit_window"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins" json:"cors_origins"`

	// MaxBodyBytes bounds request body size.
	MaxBodyBytes int64 `koanf:"max_body_bytes" json:"max_body_bytes"`
}

// Default returns the built-in defaults, applied before file and
// environment layers.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8931,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: logging.DefaultConfig(),
		Store: StoreConfig{
			Path:       "/data/reelsense",
			InMemory:   false,
			GCInterval: 10 * time.Minute,
		},
		API: APIConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
			MaxBodyBytes:    4 << 20,
		},
		Intel: *intel.DefaultConfig(),
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required when store.in_memory is false")
	}
	if c.Store.GCInterval <= 0 {
		return fmt.Errorf("store.gc_interval must be positive")
	}
	if c.API.RateLimitReqs < 1 {
		return fmt.Errorf("api.rate_limit_reqs must be at least 1")
	}
	if c.API.RateLimitWindow <= 0 {
		return fmt.Errorf("api.rate_limit_window must be positive")
	}
	if c.API.MaxBodyBytes < 1024 {
		return fmt.Errorf("api.max_body_bytes must be at least 1024")
	}
	if err := c.Intel.Validate(); err != nil {
		return fmt.Errorf("intel: %w", err)
	}
	return nil
}
