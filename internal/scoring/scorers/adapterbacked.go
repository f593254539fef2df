// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package scorers

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/veracite/veracite/internal/metrics"
	"github.com/veracite/veracite/internal/models"
)

// RunLookup reads per-note output of the most recent bulk scoring run.
// Implemented by the adapter package's run cache.
type RunLookup interface {
	// ScoreFor returns the note's score and rating count from the latest
	// run. The bool is false when the run has no entry for the note
	// (excluded, not yet scored, or the run never completed).
	ScoreFor(ctx context.Context, noteID string) (score float64, ratingCount int, ok bool, err error)
}

// AdapterBacked serves scores computed by the external matrix-factorization
// runs. The adapter scores in batches, not per note, so a single-note score
// is a lookup into the latest run's output. Notes absent from the run
// degrade to the Bayesian scorer's computation rather than ever returning a
// missing score.
type AdapterBacked struct {
	runs     RunLookup
	fallback *BayesianAverage
	logger   zerolog.Logger
}

// NewAdapterBacked creates the scorer. The Bayesian fallback is required;
// a nil run lookup (no bulk runs in this deploy) always falls back.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAdapterBacked(runs RunLookup, fallback *BayesianAverage, logger zerolog.Logger) *AdapterBacked {
	return &AdapterBacked{
		runs:     runs,
		fallback: fallback,
		logger:   logger.With().Str("scorer", NameMatrixFactorization).Logger(),
	}
}

// Name returns the scorer identity.
func (a *AdapterBacked) Name() string {
	return NameMatrixFactorization
}

// Score implements Scorer. A cache miss or lookup failure falls back to the
// Bayesian computation for this single note; the degradation is counted and
// logged, never silently absorbed.
func (a *AdapterBacked) Score(ctx context.Context, note *models.NoteRecord, totalNoteCount int) (float64, int, error) {
	if a.runs == nil {
		metrics.ScorerFallbacks.WithLabelValues("run_miss").Inc()
		return a.fallback.Score(ctx, note, totalNoteCount)
	}
	score, _, ok, err := a.runs.ScoreFor(ctx, note.ID)
	if err != nil {
		metrics.ScorerFallbacks.WithLabelValues("run_lookup_error").Inc()
		a.logger.Warn().Err(err).Str("note_id", note.ID).Msg("run lookup failed, using bayesian fallback")
		return a.fallback.Score(ctx, note, totalNoteCount)
	}
	if !ok {
		metrics.ScorerFallbacks.WithLabelValues("run_miss").Inc()
		a.logger.Debug().Str("note_id", note.ID).Msg("note absent from latest run, using bayesian fallback")
		return a.fallback.Score(ctx, note, totalNoteCount)
	}
	// The run computed rating counts at run time; the live count may have
	// moved since. Report the live count so confidence stays truthful.
	return clampUnit(score), note.RatingCount(), nil
}
