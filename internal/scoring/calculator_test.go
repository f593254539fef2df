// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/veracite/veracite/internal/models"
	"github.com/veracite/veracite/internal/scoring/scorers"
)

// stubScorer returns fixed outputs for orchestration tests.
type stubScorer struct {
	name  string
	score float64
	count int
	err   error
}

func (s *stubScorer) Name() string { return s.name }

func (s *stubScorer) Score(context.Context, *models.NoteRecord, int) (float64, int, error) {
	if s.err != nil {
		return 0, 0, s.err
	}
	return s.score, s.count, nil
}

// helpfulNote builds a note with n live HELPFUL ratings.
func helpfulNote(id string, n int) *models.NoteRecord {
	note := &models.NoteRecord{ID: id, CreatedAt: time.Now()}
	for i := 0; i < n; i++ {
		note.Ratings = append(note.Ratings, models.Rating{
			NoteID:  id,
			RaterID: string(rune('a' + i)),
			Label:   models.RatingHelpful,
		})
	}
	return note
}

func newTestCalculator(overrides OverrideSource) *NoteScoreCalculator {
	policy := NewTierPolicy(overrides)
	return NewNoteScoreCalculator(policy, NewConfidenceClassifier(5))
}

func TestCalculateAssemblesResult(t *testing.T) {
	calc := newTestCalculator(nil)
	scorer := &stubScorer{name: scorers.NameBayesianAverage, score: 0.8, count: 3}

	note := helpfulNote("n1", 3)
	note.Content = "archived text"

	before := time.Now()
	result, err := calc.Calculate(context.Background(), note, 50, scorer)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if result.Score != 0.8 {
		t.Errorf("Score = %v, want 0.8", result.Score)
	}
	if result.Confidence != ConfidenceProvisional || result.ConfidenceName != "provisional" {
		t.Errorf("Confidence = %v/%q, want provisional", result.Confidence, result.ConfidenceName)
	}
	if result.Algorithm != scorers.NameBayesianAverage {
		t.Errorf("Algorithm = %q, want %q", result.Algorithm, scorers.NameBayesianAverage)
	}
	if result.RatingCount != 3 {
		t.Errorf("RatingCount = %d, want 3", result.RatingCount)
	}
	if result.Tier != TierMinimal.Level() || result.TierName != "minimal" {
		t.Errorf("Tier = %d/%q, want minimal at count 50", result.Tier, result.TierName)
	}
	if result.CalculatedAt.Before(before.Add(-time.Second)) {
		t.Errorf("CalculatedAt = %v, want fresh timestamp", result.CalculatedAt)
	}
	if result.Content != "archived text" {
		t.Errorf("Content = %q, want passthrough", result.Content)
	}
}

// Recomputation with identical inputs must be identical apart from the
// timestamp.
func TestCalculateIdempotent(t *testing.T) {
	calc := newTestCalculator(nil)
	scorer := &stubScorer{name: "s", score: 0.42, count: 2}
	note := helpfulNote("n1", 2)

	first, err := calc.Calculate(context.Background(), note, 700, scorer)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	second, err := calc.Calculate(context.Background(), note, 700, scorer)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	first.CalculatedAt = second.CalculatedAt
	if *first != *second {
		t.Errorf("recomputation differed:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestCalculateUsesCommunityOverride(t *testing.T) {
	calc := newTestCalculator(&fakeOverrides{values: map[string]string{"c1": "full"}})
	scorer := &stubScorer{name: "s", score: 0.5, count: 0}

	note := helpfulNote("n1", 0)
	note.CommunityID = "c1"

	result, err := calc.Calculate(context.Background(), note, 10, scorer)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if result.TierName != "full" {
		t.Errorf("TierName = %q, want full via community override", result.TierName)
	}
}

func TestCalculateRejectsInvariantViolations(t *testing.T) {
	calc := newTestCalculator(nil)

	tests := []struct {
		name   string
		scorer scorers.Scorer
	}{
		{"scorer error propagates", &stubScorer{name: "s", err: errors.New("boom")}},
		{"score above one", &stubScorer{name: "s", score: 1.2, count: 1}},
		{"score below zero", &stubScorer{name: "s", score: -0.1, count: 1}},
		{"negative rating count", &stubScorer{name: "s", score: 0.5, count: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := calc.Calculate(context.Background(), helpfulNote("n1", 1), 50, tt.scorer); err == nil {
				t.Error("Calculate() should fail")
			}
		})
	}
}

func TestCalculateNilNote(t *testing.T) {
	calc := newTestCalculator(nil)
	if _, err := calc.Calculate(context.Background(), nil, 50, &stubScorer{name: "s"}); err == nil {
		t.Error("Calculate(nil note) should fail")
	}
}
