// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package scorers

import (
	"context"
	"fmt"

	"github.com/veracite/veracite/internal/models"
)

// WeightedEnsemble blends the scores of multiple component scorers.
// Tiers that name more than one scorer are composed through it. Weights are
// normalized over the components that actually produced a score, so a
// degraded component shifts weight to the healthy ones instead of dragging
// the blend toward zero.
type WeightedEnsemble struct {
	components []Scorer
	weights    []float64
}

// NewWeightedEnsemble creates the ensemble. Each component needs a positive
// weight under its name in weights; a missing or non-positive weight is a
// configuration error.
func NewWeightedEnsemble(components []Scorer, weights map[string]float64) (*WeightedEnsemble, error) {
	if len(components) < 2 {
		return nil, fmt.Errorf("ensemble needs at least 2 components, got %d", len(components))
	}

	resolved := make([]float64, len(components))
	for i, c := range components {
		w, found := weights[c.Name()]
		if !found || w <= 0 {
			return nil, fmt.Errorf("ensemble component %q has no positive weight", c.Name())
		}
		resolved[i] = w
	}

	return &WeightedEnsemble{
		components: components,
		weights:    resolved,
	}, nil
}

// Name returns the scorer identity.
func (e *WeightedEnsemble) Name() string {
	return NameWeightedEnsemble
}

// Score implements Scorer. The rating count is taken from the first
// successful component; every variant derives it from the same live
// ratings, so the counts agree. All components failing is an error.
func (e *WeightedEnsemble) Score(ctx context.Context, note *models.NoteRecord, totalNoteCount int) (float64, int, error) {
	var (
		weightedSum float64
		weightTotal float64
		ratingCount = -1
		lastErr     error
	)

	for i, c := range e.components {
		score, count, err := c.Score(ctx, note, totalNoteCount)
		if err != nil {
			lastErr = err
			continue
		}
		weightedSum += score * e.weights[i]
		weightTotal += e.weights[i]
		if ratingCount < 0 {
			ratingCount = count
		}
	}

	if weightTotal == 0 {
		return 0, 0, fmt.Errorf("all ensemble components failed: %w", lastErr)
	}

	return clampUnit(weightedSum / weightTotal), ratingCount, nil
}
