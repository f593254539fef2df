// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

// Package adapter is the boundary to the external bulk scoring runtime.
//
// The matrix-factorization scorer runs as a self-contained batch job over
// the full notes/ratings/enrollment dataset. This package treats it as an
// opaque, swappable dependency: the Adapter interface is the whole
// contract, satisfied both by the real external runner and by the in-process
// Stub for environments without the heavy scoring runtime.
//
// Calls through Client are time-boxed and wrapped in a circuit breaker;
// a timeout is an expected outcome on the path to tier fallback, not an
// exceptional condition.
package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/veracite/veracite/internal/models"
)

// Sentinel errors classifying adapter failures.
var (
	// ErrInvalidInput marks malformed request data. It indicates a client
	// fault, not an infrastructure fault, and is surfaced to the caller
	// rather than triggering tier fallback.
	ErrInvalidInput = errors.New("adapter: invalid input")

	// ErrTimeout marks a run that exceeded the configured hard timeout.
	// Callers degrade to a simpler tier's scorer.
	ErrTimeout = errors.New("adapter: run timed out")

	// ErrUnavailable marks a run rejected because the circuit breaker is
	// open or saturated. Handled like a timeout: degrade, don't fail.
	ErrUnavailable = errors.New("adapter: scoring runtime unavailable")
)

// RunRequest is the bulk input for one scoring run.
type RunRequest struct {
	// Notes is the full note snapshot, ratings included.
	Notes []models.NoteRecord `json:"notes"`

	// Enrollment is the rater enrollment snapshot.
	Enrollment []models.EnrollmentRecord `json:"enrollment"`

	// StatusHistory optionally carries prior note-status transitions.
	// The runtime uses it for score stabilization; it may be nil.
	StatusHistory []NoteStatus `json:"status_history,omitempty"`
}

// NoteStatus is one historical status observation for a note.
type NoteStatus struct {
	NoteID     string    `json:"note_id"`
	Status     string    `json:"status"`
	ObservedAt time.Time `json:"observed_at"`
}

// NoteScore is one note's output from a scoring run.
type NoteScore struct {
	// NoteID identifies the scored note.
	NoteID string `json:"note_id"`

	// Score is the run's normalized score in [0, 1].
	Score float64 `json:"score"`

	// RatingCount is the live rating count the run observed.
	RatingCount int `json:"rating_count"`
}

// RunResult is the bulk output of one scoring run.
type RunResult struct {
	// RunID uniquely identifies the run for tracing.
	RunID string `json:"run_id"`

	// ScoredNotes holds the per-note scores.
	ScoredNotes []NoteScore `json:"scored_notes"`

	// HelpfulScores aggregates per-rater helpfulness, keyed by rater ID.
	HelpfulScores map[string]float64 `json:"helpful_scores,omitempty"`

	// Auxiliary carries diagnostic info the core does not interpret.
	Auxiliary map[string]string `json:"auxiliary,omitempty"`

	// CompletedAt is when the run finished.
	CompletedAt time.Time `json:"completed_at"`
}

// Adapter is the call contract for a bulk scoring run. Implementations
// must respect ctx cancellation and return ErrInvalidInput (wrapped or
// bare) for malformed request data.
type Adapter interface {
	ScoreNotes(ctx context.Context, req *RunRequest) (*RunResult, error)
}
