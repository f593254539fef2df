// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package adapter

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestCache(t *testing.T) *RunCache {
	t.Helper()
	cache, err := NewRunCache("")
	if err != nil {
		t.Fatalf("NewRunCache: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func testRun(runID string, scores map[string]float64) *RunResult {
	result := &RunResult{
		RunID:       runID,
		CompletedAt: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	for noteID, score := range scores {
		result.ScoredNotes = append(result.ScoredNotes, NoteScore{
			NoteID:      noteID,
			Score:       score,
			RatingCount: 7,
		})
	}
	return result
}

func TestRunCacheEmpty(t *testing.T) {
	cache := newTestCache(t)

	if _, _, _, ok := cache.CurrentRun(); ok {
		t.Error("fresh cache should report no current run")
	}
	_, _, ok, err := cache.ScoreFor(context.Background(), "anything")
	if err != nil {
		t.Fatalf("ScoreFor: %v", err)
	}
	if ok {
		t.Error("fresh cache should miss every lookup")
	}
}

func TestRunCachePutAndLookup(t *testing.T) {
	cache := newTestCache(t)

	if err := cache.Put(testRun("run-a", map[string]float64{"n1": 0.82, "n2": 0.14})); err != nil {
		t.Fatalf("Put: %v", err)
	}

	score, count, ok, err := cache.ScoreFor(context.Background(), "n1")
	if err != nil {
		t.Fatalf("ScoreFor: %v", err)
	}
	if !ok {
		t.Fatal("n1 should be present")
	}
	if score != 0.82 || count != 7 {
		t.Errorf("ScoreFor(n1) = (%v, %d), want (0.82, 7)", score, count)
	}

	if _, _, ok, _ := cache.ScoreFor(context.Background(), "absent"); ok {
		t.Error("unknown note should miss")
	}

	runID, completedAt, noteCount, ok := cache.CurrentRun()
	if !ok {
		t.Fatal("CurrentRun should report the stored run")
	}
	if runID != "run-a" || noteCount != 2 {
		t.Errorf("CurrentRun = (%q, %d), want (run-a, 2)", runID, noteCount)
	}
	if completedAt.IsZero() {
		t.Error("CurrentRun lost the completion time")
	}
}

func TestRunCacheReplaceRun(t *testing.T) {
	cache := newTestCache(t)

	if err := cache.Put(testRun("run-a", map[string]float64{"n1": 0.8})); err != nil {
		t.Fatalf("Put run-a: %v", err)
	}
	if err := cache.Put(testRun("run-b", map[string]float64{"n2": 0.3})); err != nil {
		t.Fatalf("Put run-b: %v", err)
	}

	if runID, _, _, _ := cache.CurrentRun(); runID != "run-b" {
		t.Errorf("CurrentRun = %q, want run-b", runID)
	}
	if _, _, ok, _ := cache.ScoreFor(context.Background(), "n1"); ok {
		t.Error("superseded run's note should no longer resolve")
	}
	score, _, ok, err := cache.ScoreFor(context.Background(), "n2")
	if err != nil || !ok || score != 0.3 {
		t.Errorf("ScoreFor(n2) = (%v, %v, %v), want (0.3, true, nil)", score, ok, err)
	}
}

func TestRunCacheRejectsInvalidRuns(t *testing.T) {
	cache := newTestCache(t)

	if err := cache.Put(nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Put(nil) err = %v, want ErrInvalidInput", err)
	}
	if err := cache.Put(&RunResult{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Put(no run id) err = %v, want ErrInvalidInput", err)
	}
	if _, _, _, ok := cache.CurrentRun(); ok {
		t.Error("rejected puts must not install a current run")
	}
}
