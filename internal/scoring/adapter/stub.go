// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stub is a deterministic in-process Adapter for environments without the
// external matrix-factorization runtime (development, CI, small deploys).
//
// It scores each note as its shrunk helpfulness ratio:
//
//	score = (shrink*0.5 + sum(weight_i)) / (shrink + ratingCount)
//
// which keeps the output shape and [0, 1] range of the real runtime without
// reproducing its numerics. Rater helpful-score aggregates are the mean
// weight of each rater's live ratings.
type Stub struct {
	// Shrink dampens small-sample notes toward 0.5. Zero means raw ratio.
	Shrink float64

	// Delay artificially slows each run. Used in tests to exercise the
	// client's timeout path.
	Delay time.Duration
}

// NewStub returns a Stub with the default shrink of one rating's weight.
func NewStub() *Stub {
	return &Stub{Shrink: 1.0}
}

// ScoreNotes implements Adapter.
func (s *Stub) ScoreNotes(ctx context.Context, req *RunRequest) (*RunResult, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrInvalidInput)
	}

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	scored := make([]NoteScore, 0, len(req.Notes))
	raterSums := make(map[string]float64)
	raterCounts := make(map[string]int)

	for i := range req.Notes {
		note := &req.Notes[i]
		if note.ID == "" {
			return nil, fmt.Errorf("%w: note at index %d has empty id", ErrInvalidInput, i)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var weightSum float64
		ratingCount := 0
		for j := range note.Ratings {
			r := &note.Ratings[j]
			if r.Retracted {
				continue
			}
			if !r.Label.Valid() {
				return nil, fmt.Errorf("%w: note %s has unknown rating label %q", ErrInvalidInput, note.ID, r.Label)
			}
			w := r.Label.Weight()
			weightSum += w
			ratingCount++
			raterSums[r.RaterID] += w
			raterCounts[r.RaterID]++
		}

		score := 0.5
		if s.Shrink+float64(ratingCount) > 0 {
			score = (s.Shrink*0.5 + weightSum) / (s.Shrink + float64(ratingCount))
		}

		scored = append(scored, NoteScore{
			NoteID:      note.ID,
			Score:       score,
			RatingCount: ratingCount,
		})
	}

	helpful := make(map[string]float64, len(raterSums))
	for raterID, sum := range raterSums {
		helpful[raterID] = sum / float64(raterCounts[raterID])
	}

	return &RunResult{
		RunID:         uuid.NewString(),
		ScoredNotes:   scored,
		HelpfulScores: helpful,
		Auxiliary: map[string]string{
			"runtime":    "stub",
			"note_count": fmt.Sprintf("%d", len(req.Notes)),
		},
		CompletedAt: time.Now().UTC(),
	}, nil
}
