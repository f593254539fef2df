// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package scoring

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/veracite/veracite/internal/logging"
	"github.com/veracite/veracite/internal/metrics"
	"github.com/veracite/veracite/internal/models"
	"github.com/veracite/veracite/internal/scoring/scorers"
)

// CandidateSource pages through ranking candidates. Implementations must
// keep a stable ordering across calls within one scan; the ranker advances
// the offset monotonically and never re-reads a page.
type CandidateSource interface {
	FetchNotes(ctx context.Context, offset, limit int) ([]*models.NoteRecord, error)
}

// RankRequest parameterizes one top-notes scan.
type RankRequest struct {
	// TotalNoteCount is the system-wide count snapshot for the whole scan.
	TotalNoteCount int

	// Limit is the maximum number of results returned.
	Limit int

	// MinConfidence drops notes below this confidence when set.
	MinConfidence *Confidence

	// TierFilter keeps only notes scored under this 0-based tier level
	// when set.
	TierFilter *int

	// BatchSize is the page size; zero uses the configured default.
	BatchSize int
}

// RankedNote pairs a candidate with its score result.
type RankedNote struct {
	Note   *models.NoteRecord `json:"note"`
	Result *ScoreResult       `json:"result"`
}

// RankResult is a completed scan's output. Skipped counts notes whose
// scoring failed mid-scan; a nonzero value marks a degraded-but-complete
// result, not a failure.
type RankResult struct {
	Notes   []RankedNote `json:"notes"`
	Scanned int          `json:"scanned"`
	Skipped int          `json:"skipped"`
}

// NoteCalculator scores one note with a resolved scorer. Implemented by
// NoteScoreCalculator.
type NoteCalculator interface {
	Calculate(ctx context.Context, note *models.NoteRecord, totalNoteCount int, scorer scorers.Scorer) (*ScoreResult, error)
}

// ScorerResolver resolves a community's active scorer. Implemented by
// ScorerFactory.
type ScorerResolver interface {
	GetScorer(ctx context.Context, communityID string, totalNoteCount int) scorers.Scorer
}

// TopNotesRanker streams candidates in fixed-size batches, scores each,
// and keeps a bounded working set. The accumulator compacts (sort
// descending, truncate) when it grows past the trigger band, keeping a
// band wider than the final cut so the true top-limit set is never
// evicted early.
type TopNotesRanker struct {
	calculator NoteCalculator
	factory    ScorerResolver
	cfg        RankerConfig
}

// NewTopNotesRanker builds a ranker over the calculator and factory.
func NewTopNotesRanker(calculator NoteCalculator, factory ScorerResolver, cfg RankerConfig) *TopNotesRanker {
	return &TopNotesRanker{calculator: calculator, factory: factory, cfg: cfg}
}

// Rank scans the source and returns at most req.Limit notes in descending
// score order. Per-note scoring failures are skipped and counted; a
// source fetch failure aborts the scan.
func (r *TopNotesRanker) Rank(ctx context.Context, source CandidateSource, req RankRequest) (*RankResult, error) {
	if req.Limit <= 0 {
		return nil, fmt.Errorf("rank: limit must be > 0, got %d", req.Limit)
	}
	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = r.cfg.DefaultBatchSize
	}

	metrics.RankerScans.Inc()
	scanID := uuid.NewString()
	start := time.Now()
	logger := logging.With().Str("scan_id", scanID).Logger()

	compactTrigger := r.cfg.CompactTriggerFactor * req.Limit
	compactKeep := r.cfg.CompactKeepFactor * req.Limit

	result := &RankResult{}
	acc := make([]RankedNote, 0, batchSize)

	for offset := 0; ; offset += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		notes, err := source.FetchNotes(ctx, offset, batchSize)
		if err != nil {
			return nil, fmt.Errorf("rank: fetch batch at offset %d: %w", offset, err)
		}
		if len(notes) == 0 {
			break
		}
		metrics.RankerBatches.Inc()

		for _, note := range notes {
			result.Scanned++

			scorer := r.factory.GetScorer(ctx, note.CommunityID, req.TotalNoteCount)
			sr, err := r.calculator.Calculate(ctx, note, req.TotalNoteCount, scorer)
			if err != nil {
				result.Skipped++
				metrics.RankerSkippedNotes.Inc()
				logger.Warn().Err(err).Str("note_id", note.ID).Msg("skipping note during ranking scan")
				continue
			}
			if req.MinConfidence != nil && !sr.Confidence.AtLeast(*req.MinConfidence) {
				continue
			}
			if req.TierFilter != nil && sr.Tier != *req.TierFilter {
				continue
			}
			acc = append(acc, RankedNote{Note: note, Result: sr})
		}

		if len(acc) > compactTrigger {
			sortRanked(acc)
			acc = acc[:compactKeep]
			metrics.RankerCompactions.Inc()
		}
	}

	sortRanked(acc)
	if len(acc) > req.Limit {
		acc = acc[:req.Limit]
	}
	result.Notes = acc

	logger.Info().
		Int("scanned", result.Scanned).
		Int("skipped", result.Skipped).
		Int("returned", len(result.Notes)).
		Dur("duration", time.Since(start)).
		Msg("ranking scan complete")

	return result, nil
}

// sortRanked orders by score descending with note ID as a deterministic
// tie-break.
func sortRanked(notes []RankedNote) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Result.Score != notes[j].Result.Score {
			return notes[i].Result.Score > notes[j].Result.Score
		}
		return notes[i].Note.ID < notes[j].Note.ID
	})
}
