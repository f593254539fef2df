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

// BayesianAverage scores a note by shrinking its observed helpfulness
// toward a configured prior:
//
//	score = (C*m + sum(weight_i)) / (C + ratingCount)
//
// where C is the prior strength, m the prior mean, and weight_i the
// helpfulness weight of each live rating. With zero ratings the score is
// exactly m; as ratings accumulate the score converges to the observed
// average. This is the bootstrap scorer for tiers where the system-wide
// note count is too low for matrix factorization.
type BayesianAverage struct {
	priorStrength float64
	priorMean     float64
}

// NewBayesianAverage creates the scorer. Invalid priors are configuration
// errors and fail construction.
func NewBayesianAverage(priorStrength, priorMean float64) (*BayesianAverage, error) {
	if priorStrength < 0 {
		return nil, fmt.Errorf("prior strength must be >= 0, got %f", priorStrength)
	}
	if priorMean < 0 || priorMean > 1 {
		return nil, fmt.Errorf("prior mean must be in [0, 1], got %f", priorMean)
	}
	return &BayesianAverage{
		priorStrength: priorStrength,
		priorMean:     priorMean,
	}, nil
}

// Name returns the scorer identity.
func (b *BayesianAverage) Name() string {
	return NameBayesianAverage
}

// Score implements Scorer. totalNoteCount does not enter the computation;
// it is part of the shared contract so every variant scores under the same
// snapshot.
func (b *BayesianAverage) Score(_ context.Context, note *models.NoteRecord, _ int) (float64, int, error) {
	var weightSum float64
	ratingCount := 0
	for i := range note.Ratings {
		r := &note.Ratings[i]
		if r.Retracted || !r.Label.Valid() {
			continue
		}
		weightSum += r.Label.Weight()
		ratingCount++
	}

	if ratingCount == 0 {
		// Pure prior, exact by construction.
		return b.priorMean, 0, nil
	}

	score := (b.priorStrength*b.priorMean + weightSum) / (b.priorStrength + float64(ratingCount))
	return clampUnit(score), ratingCount, nil
}
