// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package scoring

import (
	"fmt"

	"github.com/veracite/veracite/internal/scoring/scorers"
)

// Config carries every tunable the scoring core reads. It is constructed
// once at process start, validated, and passed by reference into the tier
// policy, classifier, scorers, and ranker; nothing in this package reads
// ambient global state.
type Config struct {
	// Bayesian parameterizes the bootstrap-phase Bayesian average scorer.
	Bayesian BayesianConfig `json:"bayesian" koanf:"bayesian"`

	// StandardMinRatings is the live-rating count at which a note's
	// confidence becomes "standard". Shared with the platform's minimum
	// ratings gate for CRH/CRNH status, so operators tune one knob.
	StandardMinRatings int `json:"standard_min_ratings" koanf:"standard_min_ratings" validate:"gt=0"`

	// Ensemble weighs the scorers of multi-scorer tiers by name.
	// Weights are normalized at blend time and need not sum to 1.
	Ensemble map[string]float64 `json:"ensemble" koanf:"ensemble"`

	// Ranker parameterizes the top-notes batch scan.
	Ranker RankerConfig `json:"ranker" koanf:"ranker"`
}

// BayesianConfig holds the Bayesian average scorer's prior.
type BayesianConfig struct {
	// PriorStrength is the confidence parameter C: how many ratings'
	// worth of weight the prior mean carries.
	PriorStrength float64 `json:"prior_strength" koanf:"prior_strength" validate:"gte=0"`

	// PriorMean is the prior mean m in [0, 1]; the score of a note with
	// zero ratings is exactly this value.
	PriorMean float64 `json:"prior_mean" koanf:"prior_mean" validate:"gte=0,lte=1"`
}

// RankerConfig bounds the top-notes scan's working set.
//
// The accumulator compacts when it exceeds CompactTriggerFactor*limit,
// keeping the best CompactKeepFactor*limit. The trigger/keep hysteresis
// band avoids re-sorting on every batch while keeping memory bounded;
// the keep band must stay wider than the final cut so no true top-limit
// candidate is ever evicted.
type RankerConfig struct {
	// CompactTriggerFactor is the accumulator-size multiple of limit
	// that triggers a compaction.
	CompactTriggerFactor int `json:"compact_trigger_factor" koanf:"compact_trigger_factor" validate:"gt=1"`

	// CompactKeepFactor is the multiple of limit kept after compaction.
	CompactKeepFactor int `json:"compact_keep_factor" koanf:"compact_keep_factor" validate:"gt=0"`

	// DefaultBatchSize is the page size used when a caller passes zero.
	DefaultBatchSize int `json:"default_batch_size" koanf:"default_batch_size" validate:"gt=0"`
}

// DefaultConfig returns the production defaults.
//
// The Bayesian prior (C=2.0, m=0.5) and the 5x/3x compaction band match the
// platform's historical constants; they are exposed as config rather than
// hardcoded because no tuning notes survive to justify them as load-bearing.
func DefaultConfig() *Config {
	return &Config{
		Bayesian: BayesianConfig{
			PriorStrength: 2.0,
			PriorMean:     0.5,
		},
		StandardMinRatings: 5,
		Ensemble: map[string]float64{
			scorers.NameBayesianAverage:     0.3,
			scorers.NameMatrixFactorization: 0.7,
		},
		Ranker: RankerConfig{
			CompactTriggerFactor: 5,
			CompactKeepFactor:    3,
			DefaultBatchSize:     100,
		},
	}
}

// Validate checks the configuration for internal consistency.
// Violations are configuration errors and fail startup.
func (c *Config) Validate() error {
	if c.Bayesian.PriorStrength < 0 {
		return fmt.Errorf("bayesian prior_strength must be >= 0, got %f", c.Bayesian.PriorStrength)
	}
	if c.Bayesian.PriorMean < 0 || c.Bayesian.PriorMean > 1 {
		return fmt.Errorf("bayesian prior_mean must be in [0, 1], got %f", c.Bayesian.PriorMean)
	}
	if c.StandardMinRatings <= 0 {
		return fmt.Errorf("standard_min_ratings must be > 0, got %d", c.StandardMinRatings)
	}
	if c.Ranker.CompactTriggerFactor <= c.Ranker.CompactKeepFactor {
		return fmt.Errorf("ranker compact_trigger_factor (%d) must exceed compact_keep_factor (%d)",
			c.Ranker.CompactTriggerFactor, c.Ranker.CompactKeepFactor)
	}
	if c.Ranker.CompactKeepFactor < 1 {
		return fmt.Errorf("ranker compact_keep_factor must be >= 1, got %d", c.Ranker.CompactKeepFactor)
	}
	if c.Ranker.DefaultBatchSize <= 0 {
		return fmt.Errorf("ranker default_batch_size must be > 0, got %d", c.Ranker.DefaultBatchSize)
	}
	for name, weight := range c.Ensemble {
		if weight < 0 {
			return fmt.Errorf("ensemble weight for %q must be >= 0, got %f", name, weight)
		}
	}
	return nil
}
