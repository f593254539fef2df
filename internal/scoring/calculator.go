// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/veracite/veracite/internal/metrics"
	"github.com/veracite/veracite/internal/models"
	"github.com/veracite/veracite/internal/scoring/scorers"
)

// NoteScoreCalculator assembles per-note score results. It is a pure
// orchestrator over the tier policy, the classifier, and a scorer; it
// never mutates the note and persists nothing.
type NoteScoreCalculator struct {
	policy     *TierPolicy
	classifier *ConfidenceClassifier
}

// NewNoteScoreCalculator builds a calculator over the given policy and
// classifier.
func NewNoteScoreCalculator(policy *TierPolicy, classifier *ConfidenceClassifier) *NoteScoreCalculator {
	return &NoteScoreCalculator{policy: policy, classifier: classifier}
}

// Calculate scores one note with the given scorer and tags the result
// with tier and confidence. totalNoteCount is the caller's snapshot of
// the system-wide count; it is read once per pass, never re-read here.
//
// A score outside [0, 1] or a negative rating count from the scorer is a
// programming error in the scorer and is returned as an error rather
// than coerced.
func (c *NoteScoreCalculator) Calculate(ctx context.Context, note *models.NoteRecord, totalNoteCount int, scorer scorers.Scorer) (*ScoreResult, error) {
	if note == nil {
		return nil, fmt.Errorf("calculate: nil note")
	}

	score, ratingCount, err := scorer.Score(ctx, note, totalNoteCount)
	if err != nil {
		metrics.ScoringErrors.WithLabelValues(scorer.Name()).Inc()
		return nil, fmt.Errorf("score note %s: %w", note.ID, err)
	}
	if score < 0 || score > 1 {
		metrics.ScoringErrors.WithLabelValues(scorer.Name()).Inc()
		return nil, fmt.Errorf("scorer %s produced out-of-range score %f for note %s",
			scorer.Name(), score, note.ID)
	}
	if ratingCount < 0 {
		metrics.ScoringErrors.WithLabelValues(scorer.Name()).Inc()
		return nil, fmt.Errorf("scorer %s produced negative rating count %d for note %s",
			scorer.Name(), ratingCount, note.ID)
	}

	tier := c.policy.ResolveTier(ctx, note.CommunityID, totalNoteCount)
	confidence := c.classifier.ConfidenceFor(tier, ratingCount)

	metrics.ScoringRequests.WithLabelValues(scorer.Name(), tier.String()).Inc()

	return &ScoreResult{
		Score:          score,
		Confidence:     confidence,
		ConfidenceName: confidence.String(),
		Algorithm:      scorer.Name(),
		RatingCount:    ratingCount,
		Tier:           tier.Level(),
		TierName:       tier.String(),
		CalculatedAt:   time.Now().UTC(),
		Content:        note.Content,
	}, nil
}
