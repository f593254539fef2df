// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

// Package config loads and validates the application configuration from
// layered sources: built-in defaults, an optional YAML file, and
// environment variables, in increasing precedence.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/veracite/veracite/internal/logging"
	"github.com/veracite/veracite/internal/scoring"
	"github.com/veracite/veracite/internal/storage"
)

// Config is the root application configuration.
type Config struct {
	// Server configures the ops-only HTTP listener (metrics + health).
	Server ServerConfig `json:"server" koanf:"server"`

	// Database configures the DuckDB note store.
	Database storage.Config `json:"database" koanf:"database"`

	// Cache configures the BadgerDB run cache.
	Cache CacheConfig `json:"cache" koanf:"cache"`

	// Logging configures zerolog.
	Logging logging.Config `json:"logging" koanf:"logging"`

	// Scoring configures the scoring core.
	Scoring scoring.Config `json:"scoring" koanf:"scoring"`

	// Adapter configures the external scoring runtime boundary and the
	// periodic run service.
	Adapter AdapterConfig `json:"adapter" koanf:"adapter"`
}

// ServerConfig holds the ops listener settings.
type ServerConfig struct {
	// Host is the bind address.
	Host string `json:"host" koanf:"host"`

	// Port is the listen port.
	Port int `json:"port" koanf:"port" validate:"gt=0,lte=65535"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" koanf:"shutdown_timeout" validate:"gt=0"`
}

// Addr returns the host:port bind address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds the run cache settings.
type CacheConfig struct {
	// Path is the BadgerDB directory; empty runs the cache in memory.
	Path string `json:"path" koanf:"path"`
}

// AdapterConfig holds the scoring-runtime boundary settings.
type AdapterConfig struct {
	// Timeout is the hard per-run timeout.
	Timeout time.Duration `json:"timeout" koanf:"timeout" validate:"gt=0"`

	// RunInterval is how often the run service executes a bulk run.
	RunInterval time.Duration `json:"run_interval" koanf:"run_interval" validate:"gt=0"`

	// RunOnStartup triggers a bulk run at service start.
	RunOnStartup bool `json:"run_on_startup" koanf:"run_on_startup"`

	// MinNotes is the snapshot size below which runs are skipped.
	MinNotes int `json:"min_notes" koanf:"min_notes" validate:"gte=0"`
}

// Default returns the built-in defaults, applied before file and
// environment layers.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8787,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: storage.DefaultConfig(),
		Cache: CacheConfig{
			Path: "data/runcache",
		},
		Logging: logging.DefaultConfig(),
		Scoring: *scoring.DefaultConfig(),
		Adapter: AdapterConfig{
			Timeout:      30 * time.Second,
			RunInterval:  time.Hour,
			RunOnStartup: true,
			MinNotes:     0,
		},
	}
}

// Validate checks the whole configuration. Violations are startup
// errors; nothing here is recoverable per-request.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if err := c.Scoring.Validate(); err != nil {
		return err
	}
	return nil
}
