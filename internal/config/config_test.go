// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() does not validate: %v", err)
	}
	if got := cfg.Server.Addr(); got != "0.0.0.0:8787" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8787", got)
	}
	if cfg.Adapter.Timeout != 30*time.Second {
		t.Errorf("adapter timeout = %v, want 30s", cfg.Adapter.Timeout)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"oversized port", func(c *Config) { c.Server.Port = 70000 }},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }},
		{"zero adapter timeout", func(c *Config) { c.Adapter.Timeout = 0 }},
		{"negative min notes", func(c *Config) { c.Adapter.MinNotes = -1 }},
		{"broken scoring config", func(c *Config) { c.Scoring.StandardMinRatings = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() accepted an invalid config")
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"VERACITE_LOGGING_LEVEL", "logging.level"},
		{"VERACITE_SERVER_PORT", "server.port"},
		{"VERACITE_SERVER_SHUTDOWN_TIMEOUT", "server.shutdown_timeout"},
		{"VERACITE_DATABASE_MAX_MEMORY", "database.max_memory"},
		{"VERACITE_CACHE_PATH", "cache.path"},
		{"VERACITE_ADAPTER_RUN_INTERVAL", "adapter.run_interval"},
		{"VERACITE_SCORING_STANDARD_MIN_RATINGS", "scoring.standard_min_ratings"},
		{"VERACITE_SCORING_BAYESIAN_PRIOR_MEAN", "scoring.bayesian.prior_mean"},
		{"VERACITE_SCORING_RANKER_DEFAULT_BATCH_SIZE", "scoring.ranker.default_batch_size"},
		{"VERACITE_UNKNOWN_THING", "unknown_thing"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := envTransform(tt.in); got != tt.want {
				t.Errorf("envTransform(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte("server:\n  port: 9100\nlogging:\n  level: debug\n")
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("VERACITE_LOGGING_LEVEL", "warn")
	t.Setenv("VERACITE_SCORING_BAYESIAN_PRIOR_STRENGTH", "4.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// File overrides the default.
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want the file's 9100", cfg.Server.Port)
	}
	// Environment overrides the file.
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q, want the env's warn", cfg.Logging.Level)
	}
	if cfg.Scoring.Bayesian.PriorStrength != 4.5 {
		t.Errorf("prior strength = %v, want the env's 4.5", cfg.Scoring.Bayesian.PriorStrength)
	}
	// Untouched settings keep their defaults.
	if cfg.Cache.Path != "data/runcache" {
		t.Errorf("cache path = %q, want default", cfg.Cache.Path)
	}
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	t.Setenv("VERACITE_SERVER_PORT", "0")
	if _, err := Load(); err == nil {
		t.Error("Load should reject a zero port")
	}
}
