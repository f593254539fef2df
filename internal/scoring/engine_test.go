// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package scoring

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/veracite/veracite/internal/models"
	"github.com/veracite/veracite/internal/scoring/scorers"
)

// fakeCounter is a fixed note-count oracle.
type fakeCounter struct {
	count int
	err   error
}

func (f *fakeCounter) CountNotes(context.Context) (int, error) {
	return f.count, f.err
}

// fakeRuns is an in-memory run lookup plus run info.
type fakeRuns struct {
	scores map[string]float64
	runID  string
}

func (f *fakeRuns) ScoreFor(_ context.Context, noteID string) (float64, int, bool, error) {
	score, ok := f.scores[noteID]
	return score, 0, ok, nil
}

func (f *fakeRuns) CurrentRun() (string, time.Time, int, bool) {
	if f.runID == "" {
		return "", time.Time{}, 0, false
	}
	return f.runID, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), len(f.scores), true
}

func newTestEngine(t *testing.T, count int, overrides OverrideSource, runs *fakeRuns) *Engine {
	t.Helper()
	var runInfo RunInfo
	var lookup scorers.RunLookup
	if runs != nil {
		runInfo = runs
		lookup = runs
	}
	engine, err := NewEngine(DefaultConfig(), &fakeCounter{count: count}, overrides, runInfo, lookup)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

// Scenario: empty system. Tier is minimal; a fresh unrated note scores
// the pure prior with no_data confidence.
func TestEngineEmptySystem(t *testing.T) {
	engine := newTestEngine(t, 0, nil, nil)

	if got := engine.Policy().TierForCount(0); got != TierMinimal {
		t.Errorf("TierForCount(0) = %v, want minimal", got)
	}

	result, err := engine.ScoreNote(context.Background(), &models.NoteRecord{ID: "fresh"})
	if err != nil {
		t.Fatalf("ScoreNote: %v", err)
	}
	if result.Score != 0.5 {
		t.Errorf("Score = %v, want prior 0.5", result.Score)
	}
	if result.Confidence != ConfidenceNoData {
		t.Errorf("Confidence = %v, want no_data", result.Confidence)
	}
	if result.TierName != "minimal" {
		t.Errorf("TierName = %q, want minimal", result.TierName)
	}
}

// Scenario: 50 notes, 3 unanimous helpful ratings. Bayesian 0.8,
// provisional confidence.
func TestEngineProvisionalNote(t *testing.T) {
	engine := newTestEngine(t, 50, nil, nil)

	result, err := engine.ScoreNote(context.Background(), helpfulNote("n", 3))
	if err != nil {
		t.Fatalf("ScoreNote: %v", err)
	}
	if math.Abs(result.Score-0.8) > 1e-9 {
		t.Errorf("Score = %v, want 0.8", result.Score)
	}
	if result.Confidence != ConfidenceProvisional {
		t.Errorf("Confidence = %v, want provisional", result.Confidence)
	}
	if result.Algorithm != scorers.NameBayesianAverage {
		t.Errorf("Algorithm = %q, want bayesian_average", result.Algorithm)
	}
}

// Scenario: same note at 5 ratings, 4 helpful 1 not. Score 5/7,
// standard confidence.
func TestEngineStandardNote(t *testing.T) {
	engine := newTestEngine(t, 50, nil, nil)

	note := helpfulNote("n", 4)
	note.Ratings = append(note.Ratings, models.Rating{
		NoteID: "n", RaterID: "z", Label: models.RatingNotHelpful,
	})

	result, err := engine.ScoreNote(context.Background(), note)
	if err != nil {
		t.Fatalf("ScoreNote: %v", err)
	}
	if math.Abs(result.Score-5.0/7.0) > 1e-9 {
		t.Errorf("Score = %v, want %v", result.Score, 5.0/7.0)
	}
	if result.Confidence != ConfidenceStandard {
		t.Errorf("Confidence = %v, want standard", result.Confidence)
	}
	if result.RatingCount != 5 {
		t.Errorf("RatingCount = %d, want 5", result.RatingCount)
	}
}

// Scenario: a community pinned to full while the global count is 10.
// Its notes use the full-tier scorer set.
func TestEngineCommunityOverride(t *testing.T) {
	overrides := &fakeOverrides{values: map[string]string{"pinned": "full"}}
	runs := &fakeRuns{scores: map[string]float64{"n": 0.91}, runID: "run-1"}
	engine := newTestEngine(t, 10, overrides, runs)

	note := helpfulNote("n", 2)
	note.CommunityID = "pinned"

	result, err := engine.ScoreNote(context.Background(), note)
	if err != nil {
		t.Fatalf("ScoreNote: %v", err)
	}
	if result.TierName != "full" {
		t.Errorf("TierName = %q, want full", result.TierName)
	}
	if result.Algorithm != scorers.NameMatrixFactorization {
		t.Errorf("Algorithm = %q, want matrix_factorization", result.Algorithm)
	}
	if result.Score != 0.91 {
		t.Errorf("Score = %v, want the run's 0.91", result.Score)
	}

	// A sibling community at the same count stays on the bootstrap tier.
	plain := helpfulNote("m", 2)
	result, err = engine.ScoreNote(context.Background(), plain)
	if err != nil {
		t.Fatalf("ScoreNote: %v", err)
	}
	if result.TierName != "minimal" {
		t.Errorf("unpinned TierName = %q, want minimal", result.TierName)
	}
}

// A note missing from the latest run degrades to the Bayesian fallback
// inside the matrix-factorization scorer, never to a missing score.
func TestEngineRunMissFallsBack(t *testing.T) {
	runs := &fakeRuns{scores: map[string]float64{}, runID: "run-2"}
	engine := newTestEngine(t, 60000, nil, runs)

	result, err := engine.ScoreNote(context.Background(), helpfulNote("absent", 3))
	if err != nil {
		t.Fatalf("ScoreNote: %v", err)
	}
	if math.Abs(result.Score-0.8) > 1e-9 {
		t.Errorf("Score = %v, want bayesian fallback 0.8", result.Score)
	}
	if result.TierName != "full" {
		t.Errorf("TierName = %q, want full", result.TierName)
	}
}

func TestEngineCounterFailure(t *testing.T) {
	engine, err := NewEngine(DefaultConfig(), &fakeCounter{err: context.DeadlineExceeded}, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if _, err := engine.ScoreNote(context.Background(), helpfulNote("n", 1)); err == nil {
		t.Error("ScoreNote should surface a counter failure")
	}
}

func TestEngineRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StandardMinRatings = 0
	if _, err := NewEngine(cfg, &fakeCounter{}, nil, nil, nil); err == nil {
		t.Error("NewEngine should reject an invalid config")
	}
}

func TestEngineTopNotes(t *testing.T) {
	engine := newTestEngine(t, 50, nil, nil)

	notes := []*models.NoteRecord{
		helpfulNote("note-a", 6),
		helpfulNote("note-b", 0),
		helpfulNote("note-c", 2),
	}
	result, err := engine.TopNotes(context.Background(), &sliceSource{notes: notes}, RankRequest{
		TotalNoteCount: 50,
		Limit:          2,
	})
	if err != nil {
		t.Fatalf("TopNotes: %v", err)
	}
	if len(result.Notes) != 2 {
		t.Fatalf("returned %d notes, want 2", len(result.Notes))
	}
	if result.Notes[0].Note.ID != "note-a" {
		t.Errorf("top note = %s, want note-a", result.Notes[0].Note.ID)
	}
}

func TestEngineHealth(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		runs       *fakeRuns
		wantTier   string
		wantConf   string
		wantNext   string
		wantToNext int
		wantRunID  string
	}{
		{
			"cold start", 0, nil,
			"minimal", "provisional", "limited", 100, "",
		},
		{
			"intermediate with run", 2500, &fakeRuns{scores: map[string]float64{"a": 0.5}, runID: "run-9"},
			"intermediate", "standard", "advanced", 7500, "run-9",
		},
		{
			"full tier has no next", 80000, nil,
			"full", "standard", "", 0, "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(t, tt.count, nil, tt.runs)
			report, err := engine.Health(context.Background())
			if err != nil {
				t.Fatalf("Health: %v", err)
			}
			if report.TotalNotes != tt.count {
				t.Errorf("TotalNotes = %d, want %d", report.TotalNotes, tt.count)
			}
			if report.TierName != tt.wantTier {
				t.Errorf("TierName = %q, want %q", report.TierName, tt.wantTier)
			}
			if report.DataConfidence != tt.wantConf {
				t.Errorf("DataConfidence = %q, want %q", report.DataConfidence, tt.wantConf)
			}
			if report.NextTierName != tt.wantNext {
				t.Errorf("NextTierName = %q, want %q", report.NextTierName, tt.wantNext)
			}
			if report.NotesToNext != tt.wantToNext {
				t.Errorf("NotesToNext = %d, want %d", report.NotesToNext, tt.wantToNext)
			}
			if report.RunID != tt.wantRunID {
				t.Errorf("RunID = %q, want %q", report.RunID, tt.wantRunID)
			}
		})
	}
}
