// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

// Package storage owns persistence for notes, ratings, enrollment, and
// per-community scoring settings, backed by DuckDB. The scoring core
// consumes it through narrow interfaces (note counting, paged fetch,
// tier overrides, run snapshots) and never writes through it.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/veracite/veracite/internal/logging"
)

// Config tunes the DuckDB connection.
type Config struct {
	// Path is the database file; empty opens an in-memory database.
	Path string `json:"path" koanf:"path"`

	// MaxMemory caps DuckDB's memory use, e.g. "512MB".
	MaxMemory string `json:"max_memory" koanf:"max_memory" validate:"required"`

	// Threads is the DuckDB worker thread count; 0 uses all CPUs.
	Threads int `json:"threads" koanf:"threads" validate:"gte=0"`
}

// DefaultConfig returns sensible single-node defaults.
func DefaultConfig() Config {
	return Config{
		Path:      "data/veracite.db",
		MaxMemory: "512MB",
		Threads:   0,
	}
}

// Store wraps the DuckDB connection and provides data access methods.
type Store struct {
	conn *sql.DB

	stmtCache   map[string]*sql.Stmt
	stmtCacheMu sync.RWMutex
}

// New opens (or creates) the database and initializes the schema.
func New(cfg Config) (*Store, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	connStr := ""
	if cfg.Path != "" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("create database directory %s: %w", dbDir, err)
			}
		}
		connStr = fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
			cfg.Path, threads, cfg.MaxMemory)
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{
		conn:      conn,
		stmtCache: make(map[string]*sql.Stmt),
	}
	if err := s.createSchema(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logging.Info().Str("path", cfg.Path).Msg("database opened")
	return s, nil
}

// prepared returns a cached prepared statement for the query, preparing
// it on first use.
func (s *Store) prepared(ctx context.Context, query string) (*sql.Stmt, error) {
	s.stmtCacheMu.RLock()
	stmt, ok := s.stmtCache[query]
	s.stmtCacheMu.RUnlock()
	if ok {
		return stmt, nil
	}

	s.stmtCacheMu.Lock()
	defer s.stmtCacheMu.Unlock()
	if stmt, ok := s.stmtCache[query]; ok {
		return stmt, nil
	}
	stmt, err := s.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("prepare statement: %w", err)
	}
	s.stmtCache[query] = stmt
	return stmt, nil
}

// Close releases prepared statements and the connection.
func (s *Store) Close() error {
	s.stmtCacheMu.Lock()
	for _, stmt := range s.stmtCache {
		if err := stmt.Close(); err != nil {
			logging.Warn().Err(err).Msg("failed to close prepared statement")
		}
	}
	s.stmtCache = make(map[string]*sql.Stmt)
	s.stmtCacheMu.Unlock()

	return s.conn.Close()
}

// schemaContext bounds schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}
