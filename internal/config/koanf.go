// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in priority
// order. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/veracite/config.yaml",
	"/etc/veracite/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "VERACITE_CONFIG_PATH"

// envPrefix namespaces every environment override.
const envPrefix = "VERACITE_"

// sections are the top-level config keys an environment variable's first
// segment can address. Needed because section and field names both use
// underscores: VERACITE_DATABASE_MAX_MEMORY splits on the known section
// "database", not on every underscore.
var sections = []string{
	"server", "database", "cache", "logging", "scoring", "adapter",
}

// Load builds the configuration from defaults, an optional YAML file,
// and VERACITE_-prefixed environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file path, or empty.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps an environment variable name to a koanf path:
//
//	VERACITE_LOGGING_LEVEL        -> logging.level
//	VERACITE_DATABASE_MAX_MEMORY  -> database.max_memory
//	VERACITE_SCORING_BAYESIAN_PRIOR_MEAN -> scoring.bayesian.prior_mean
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	for _, section := range sections {
		if !strings.HasPrefix(key, section+"_") {
			continue
		}
		rest := strings.TrimPrefix(key, section+"_")
		if section == "scoring" {
			// Scoring has nested sections of its own.
			for _, sub := range []string{"bayesian", "ensemble", "ranker"} {
				if strings.HasPrefix(rest, sub+"_") {
					return section + "." + sub + "." + strings.TrimPrefix(rest, sub+"_")
				}
			}
		}
		return section + "." + rest
	}
	// Unknown section: leave flat, koanf ignores unmatched keys.
	return key
}
