// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want loopback default", cfg.Server.Host)
	}
	if cfg.Server.Port != 8931 {
		t.Errorf("Server.Port = %d, want 8931", cfg.Server.Port)
	}
	if cfg.Store.GCInterval != 10*time.Minute {
		t.Errorf("Store.GCInterval = %v, want 10m", cfg.Store.GCInterval)
	}
	if cfg.API.MaxBodyBytes != 4<<20 {
		t.Errorf("API.MaxBodyBytes = %d, want 4MiB", cfg.API.MaxBodyBytes)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }},
		{"negative write timeout", func(c *Config) { c.Server.WriteTimeout = -time.Second }},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }},
		{"empty disk store path", func(c *Config) { c.Store.Path = ""; c.Store.InMemory = false }},
		{"zero gc interval", func(c *Config) { c.Store.GCInterval = 0 }},
		{"zero rate limit", func(c *Config) { c.API.RateLimitReqs = 0 }},
		{"zero rate window", func(c *Config) { c.API.RateLimitWindow = 0 }},
		{"tiny body limit", func(c *Config) { c.API.MaxBodyBytes = 512 }},
		{"invalid intel section", func(c *Config) { c.Intel.Clustering.MaxClusters = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidateInMemoryStoreNeedsNoPath(t *testing.T) {
	cfg := Default()
	cfg.Store.Path = ""
	cfg.Store.InMemory = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("in-memory store without path: %v", err)
	}
}

func TestLoadDefaultsOnly(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "/nonexistent/config.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8931 {
		t.Errorf("Server.Port = %d, want default 8931", cfg.Server.Port)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server:\n  port: 9001\nstore:\n  in_memory: true\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("Server.Port = %d, want 9001 from file", cfg.Server.Port)
	}
	if !cfg.Store.InMemory {
		t.Error("Store.InMemory not read from file")
	}
	// Untouched keys keep their defaults.
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want default", cfg.Server.Host)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9001\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("REELSENSE_SERVER__PORT", "9002")
	t.Setenv("REELSENSE_LOGGING__LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9002 {
		t.Errorf("Server.Port = %d, want env override 9002", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "/nonexistent/config.yaml")
	t.Setenv("REELSENSE_SERVER__PORT", "0")

	if _, err := Load(); err == nil {
		t.Error("expected validation failure for port 0")
	}
}
