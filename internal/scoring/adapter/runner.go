// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package adapter

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// SnapshotSource supplies the full input set for a bulk scoring run.
// The storage layer implements it.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*RunRequest, error)
}

// RunnerConfig holds configuration for the periodic run service.
type RunnerConfig struct {
	// RunOnStartup triggers a scoring run when the service starts.
	RunOnStartup bool

	// RunInterval is how often to execute a bulk scoring run.
	RunInterval time.Duration

	// MinNotes is the minimum snapshot size before a run is attempted.
	MinNotes int
}

// Runner executes bulk scoring runs on a schedule and publishes each
// result to the run cache. It implements suture.Service; a failed run
// keeps the previous cache contents so single-note scoring degrades to
// stale data rather than no data.
type Runner struct {
	source SnapshotSource
	client *Client
	cache  *RunCache
	config RunnerConfig
	logger zerolog.Logger
	name   string
}

// NewRunner creates the periodic run service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRunner(source SnapshotSource, client *Client, cache *RunCache, cfg RunnerConfig, logger zerolog.Logger) *Runner {
	return &Runner{
		source: source,
		client: client,
		cache:  cache,
		config: cfg,
		logger: logger.With().Str("service", "scoring-run").Logger(),
		name:   "scoring-run-service",
	}
}

// Serve implements the suture.Service interface.
func (r *Runner) Serve(ctx context.Context) error {
	r.logger.Info().
		Bool("run_on_startup", r.config.RunOnStartup).
		Dur("run_interval", r.config.RunInterval).
		Msg("scoring run service starting")

	if r.config.RunOnStartup {
		if err := r.RunOnce(ctx); err != nil {
			r.logger.Warn().Err(err).Msg("initial scoring run failed (will retry on schedule)")
		}
	}

	if r.config.RunInterval <= 0 {
		r.config.RunInterval = time.Hour
	}

	ticker := time.NewTicker(r.config.RunInterval)
	defer ticker.Stop()

	r.logger.Info().Msg("scoring run service running")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("scoring run service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := r.RunOnce(ctx); err != nil {
				r.logger.Warn().Err(err).Msg("scheduled scoring run failed")
			}
		}
	}
}

// RunOnce performs a single snapshot-score-publish cycle.
func (r *Runner) RunOnce(ctx context.Context) error {
	start := time.Now()

	req, err := r.source.Snapshot(ctx)
	if err != nil {
		return err
	}
	if len(req.Notes) < r.config.MinNotes {
		r.logger.Debug().
			Int("notes", len(req.Notes)).
			Int("min_notes", r.config.MinNotes).
			Msg("skipping scoring run, not enough notes")
		return nil
	}

	r.logger.Info().Int("notes", len(req.Notes)).Msg("starting scoring run")

	result, err := r.client.ScoreNotes(ctx, req)
	if err != nil {
		return err
	}
	if err := r.cache.Put(result); err != nil {
		return err
	}

	r.logger.Info().
		Str("run_id", result.RunID).
		Int("scored_notes", len(result.ScoredNotes)).
		Dur("duration", time.Since(start)).
		Msg("scoring run complete")

	return nil
}

// String returns the service name for logging.
func (r *Runner) String() string {
	return r.name
}
