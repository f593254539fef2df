// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/veracite/veracite/internal/logging"
	"github.com/veracite/veracite/internal/metrics"
	"github.com/veracite/veracite/internal/models"
	"github.com/veracite/veracite/internal/scoring/scorers"
)

// NoteCounter is the system-wide note-count oracle, owned by the storage
// layer. Each engine operation reads the count once and treats it as a
// snapshot for the whole pass.
type NoteCounter interface {
	CountNotes(ctx context.Context) (int, error)
}

// RunInfo reports the bulk scoring run currently backing adapter lookups.
// The run cache implements it; nil means no bulk runs in this deploy.
type RunInfo interface {
	CurrentRun() (runID string, completedAt time.Time, noteCount int, ok bool)
}

// Engine is the scoring core's facade: single-note scoring with tier
// degradation, top-notes ranking, and the health report. Safe for
// concurrent use.
type Engine struct {
	counter    NoteCounter
	policy     *TierPolicy
	classifier *ConfidenceClassifier
	factory    *ScorerFactory
	calculator *NoteScoreCalculator
	ranker     *TopNotesRanker
	runs       RunInfo
}

// NewEngine assembles the scoring core from validated configuration.
// overrides and runs may be nil.
func NewEngine(cfg *Config, counter NoteCounter, overrides OverrideSource, runs RunInfo, lookup scorers.RunLookup) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}

	policy := NewTierPolicy(overrides)
	classifier := NewConfidenceClassifier(cfg.StandardMinRatings)
	factory, err := NewScorerFactory(policy, cfg, lookup)
	if err != nil {
		return nil, err
	}
	calculator := NewNoteScoreCalculator(policy, classifier)
	ranker := NewTopNotesRanker(calculator, factory, cfg.Ranker)

	return &Engine{
		counter:    counter,
		policy:     policy,
		classifier: classifier,
		factory:    factory,
		calculator: calculator,
		ranker:     ranker,
		runs:       runs,
	}, nil
}

// Policy exposes tier resolution for status endpoints.
func (e *Engine) Policy() *TierPolicy { return e.policy }

// Classifier exposes confidence classification for status endpoints.
func (e *Engine) Classifier() *ConfidenceClassifier { return e.classifier }

// Factory exposes scorer resolution.
func (e *Engine) Factory() *ScorerFactory { return e.factory }

// Calculator exposes single-note calculation for callers that manage
// their own scorer and count snapshot.
func (e *Engine) Calculator() *NoteScoreCalculator { return e.calculator }

// ScoreNote scores one note against the current note count. On scorer
// failure it degrades one tier at a time toward TierMinimal rather than
// failing the request; only scoring at the bottom tier surfaces an error.
func (e *Engine) ScoreNote(ctx context.Context, note *models.NoteRecord) (*ScoreResult, error) {
	count, err := e.counter.CountNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("count notes: %w", err)
	}
	return e.ScoreNoteAt(ctx, note, count)
}

// ScoreNoteAt scores one note against a caller-held count snapshot.
func (e *Engine) ScoreNoteAt(ctx context.Context, note *models.NoteRecord, totalNoteCount int) (*ScoreResult, error) {
	if note == nil {
		return nil, fmt.Errorf("score note: nil note")
	}

	tier := e.policy.ResolveTier(ctx, note.CommunityID, totalNoteCount)
	for {
		result, err := e.calculator.Calculate(ctx, note, totalNoteCount, e.factory.ScorerForTier(tier))
		if err == nil {
			return result, nil
		}

		lower, ok := e.policy.PrevTier(tier)
		if !ok {
			return nil, err
		}
		metrics.ScorerFallbacks.WithLabelValues("tier_degradation").Inc()
		logging.Warn().Err(err).
			Str("note_id", note.ID).
			Str("from_tier", tier.String()).
			Str("to_tier", lower.String()).
			Msg("scorer failed, degrading one tier")
		tier = lower
	}
}

// TopNotes runs a ranking scan over the source against the current note
// count.
func (e *Engine) TopNotes(ctx context.Context, source CandidateSource, req RankRequest) (*RankResult, error) {
	if req.TotalNoteCount == 0 {
		count, err := e.counter.CountNotes(ctx)
		if err != nil {
			return nil, fmt.Errorf("count notes: %w", err)
		}
		req.TotalNoteCount = count
	}
	return e.ranker.Rank(ctx, source, req)
}

// HealthReport summarizes the scoring system's current state for the
// operations surface.
type HealthReport struct {
	TotalNotes     int       `json:"total_notes"`
	Tier           int       `json:"tier"`
	TierName       string    `json:"tier_name"`
	ScorerNames    []string  `json:"scorer_names"`
	DataConfidence string    `json:"data_confidence"`
	NextTierName   string    `json:"next_tier_name,omitempty"`
	NotesToNext    int       `json:"notes_to_next_tier,omitempty"`
	RunID          string    `json:"run_id,omitempty"`
	RunCompletedAt time.Time `json:"run_completed_at"`
	RunNoteCount   int       `json:"run_note_count,omitempty"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// Health reports the active tier, its scorer set, the tier-level data
// confidence, progress toward the next tier, and the latest bulk run.
func (e *Engine) Health(ctx context.Context) (*HealthReport, error) {
	count, err := e.counter.CountNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("count notes: %w", err)
	}
	metrics.NoteCount.Set(float64(count))

	tier := e.policy.TierForCount(count)
	cfg := e.policy.ConfigFor(tier)

	report := &HealthReport{
		TotalNotes:     count,
		Tier:           tier.Level(),
		TierName:       tier.String(),
		ScorerNames:    cfg.ScorerNames,
		DataConfidence: e.classifier.DataConfidenceForTier(tier).String(),
		GeneratedAt:    time.Now().UTC(),
	}
	if next, ok := e.policy.NextTier(tier); ok {
		report.NextTierName = next.String()
		report.NotesToNext = e.policy.ConfigFor(next).MinNotes - count
	}
	if e.runs != nil {
		if runID, completedAt, runNotes, ok := e.runs.CurrentRun(); ok {
			report.RunID = runID
			report.RunCompletedAt = completedAt
			report.RunNoteCount = runNotes
		}
	}
	return report, nil
}
