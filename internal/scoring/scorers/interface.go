// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

// Package scorers implements the scoring strategy variants.
//
// Each scorer implements the Scorer interface and is selected per tier by
// the scoring factory. Scorers are stateless (or read-only after
// construction) and safe for concurrent use.
package scorers

import (
	"context"

	"github.com/veracite/veracite/internal/models"
)

// Canonical scorer names as they appear in tier configs and ScoreResult.
const (
	// NameBayesianAverage identifies the bootstrap-phase Bayesian scorer.
	NameBayesianAverage = "bayesian_average"

	// NameMatrixFactorization identifies the adapter-backed scorer that
	// reads the external matrix-factorization run output.
	NameMatrixFactorization = "matrix_factorization"

	// NameWeightedEnsemble identifies the blend of multiple scorers.
	NameWeightedEnsemble = "weighted_ensemble"
)

// Scorer is the capability shared by all scoring strategies.
type Scorer interface {
	// Name returns the scorer's stable identity, used as the algorithm
	// name on score results.
	Name() string

	// Score computes the note's raw score and live rating count.
	// The raw score is already clamped to [0, 1]; the rating count equals
	// the note's non-retracted ratings at call time. totalNoteCount is
	// the system-wide note-count snapshot for this request.
	Score(ctx context.Context, note *models.NoteRecord, totalNoteCount int) (float64, int, error)
}

// clampUnit clamps a score into [0, 1]. Scorers apply it before returning
// so the score-bounds invariant holds regardless of arithmetic noise.
func clampUnit(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
