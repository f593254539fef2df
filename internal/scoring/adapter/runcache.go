// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package adapter

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/veracite/veracite/internal/logging"
)

// Key layout in BadgerDB.
const (
	runCurrentKey = "run:current"
	runKeyPrefix  = "run:"
	noteKeyInfix  = ":note:"
)

// runMeta describes the run the cache currently serves.
type runMeta struct {
	RunID       string    `json:"run_id"`
	CompletedAt time.Time `json:"completed_at"`
	NoteCount   int       `json:"note_count"`
}

// RunCache stores the most recent bulk scoring run's per-note output in
// BadgerDB, keyed by note ID under the run's ID. It backs the
// matrix-factorization scorer's single-note lookups and survives restarts.
//
// One writer (the run service) and many concurrent readers. Replacing a run
// writes the new run's entries first and flips the current-run pointer
// last, so readers never observe a half-written run.
type RunCache struct {
	db      *badger.DB
	current atomic.Pointer[runMeta]
}

// NewRunCache opens (or creates) the cache at the given path. An empty
// path opens an in-memory cache, used in tests and cache-less deploys.
func NewRunCache(path string) (*RunCache, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	// Badger's own logger is noisy at INFO; route through zerolog at
	// warning level only.
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open run cache: %w", err)
	}

	c := &RunCache{db: db}
	if err := c.loadCurrent(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// loadCurrent restores the current-run pointer from disk.
func (c *RunCache) loadCurrent() error {
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(runCurrentKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var meta runMeta
			if err := json.Unmarshal(val, &meta); err != nil {
				return fmt.Errorf("unmarshal run meta: %w", err)
			}
			c.current.Store(&meta)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil // fresh cache, no run yet
	}
	return err
}

// Put replaces the cache contents with the given run's output.
func (c *RunCache) Put(result *RunResult) error {
	if result == nil || result.RunID == "" {
		return fmt.Errorf("%w: run result missing run id", ErrInvalidInput)
	}

	prev := c.current.Load()

	wb := c.db.NewWriteBatch()
	defer wb.Cancel()

	for i := range result.ScoredNotes {
		ns := &result.ScoredNotes[i]
		data, err := json.Marshal(ns)
		if err != nil {
			return fmt.Errorf("marshal note score %s: %w", ns.NoteID, err)
		}
		key := []byte(runKeyPrefix + result.RunID + noteKeyInfix + ns.NoteID)
		if err := wb.Set(key, data); err != nil {
			return fmt.Errorf("stage note score %s: %w", ns.NoteID, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("write run %s: %w", result.RunID, err)
	}

	meta := &runMeta{
		RunID:       result.RunID,
		CompletedAt: result.CompletedAt,
		NoteCount:   len(result.ScoredNotes),
	}
	metaData, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal run meta: %w", err)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(runCurrentKey), metaData)
	})
	if err != nil {
		return fmt.Errorf("set current run: %w", err)
	}
	c.current.Store(meta)

	// Reclaim the superseded run's entries. Non-fatal; Badger GC would
	// get them eventually.
	if prev != nil && prev.RunID != meta.RunID {
		if err := c.db.DropPrefix([]byte(runKeyPrefix + prev.RunID + noteKeyInfix)); err != nil {
			logging.Warn().Err(err).Str("run_id", prev.RunID).Msg("failed to drop superseded run entries")
		}
	}

	return nil
}

// ScoreFor returns a note's score from the current run. Implements the
// scorers.RunLookup contract: ok is false when no run has been stored or
// the run has no entry for the note.
func (c *RunCache) ScoreFor(_ context.Context, noteID string) (float64, int, bool, error) {
	meta := c.current.Load()
	if meta == nil {
		return 0, 0, false, nil
	}

	var ns NoteScore
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(runKeyPrefix + meta.RunID + noteKeyInfix + noteID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ns)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, fmt.Errorf("run cache lookup %s: %w", noteID, err)
	}
	return ns.Score, ns.RatingCount, true, nil
}

// CurrentRun returns the served run's ID, completion time, and note count.
// ok is false when no run has completed yet.
func (c *RunCache) CurrentRun() (runID string, completedAt time.Time, noteCount int, ok bool) {
	meta := c.current.Load()
	if meta == nil {
		return "", time.Time{}, 0, false
	}
	return meta.RunID, meta.CompletedAt, meta.NoteCount, true
}

// Close releases the underlying BadgerDB.
func (c *RunCache) Close() error {
	return c.db.Close()
}
