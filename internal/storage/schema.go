// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package storage

import "fmt"

// createSchema creates the core tables and indexes. All columns are
// defined up front; there are no migrations yet.
func (s *Store) createSchema() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			community_id TEXT NOT NULL DEFAULT '',
			author_id TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			note_id TEXT NOT NULL,
			rater_id TEXT NOT NULL,
			label TEXT NOT NULL,
			retracted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (note_id, rater_id)
		)`,
		`CREATE TABLE IF NOT EXISTS enrollment (
			user_id TEXT NOT NULL,
			community_id TEXT NOT NULL DEFAULT '',
			enrolled_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, community_id)
		)`,
		`CREATE TABLE IF NOT EXISTS community_settings (
			community_id TEXT PRIMARY KEY,
			tier_override TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMP NOT NULL
		)`,

		// Paged scans order by (created_at, id); ranking depends on this
		// ordering being stable across batches.
		`CREATE INDEX IF NOT EXISTS idx_notes_created ON notes (created_at, id)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_community ON notes (community_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_note ON ratings (note_id)`,
	}

	for _, query := range queries {
		if _, err := s.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("create schema: %s: %w", query, err)
		}
	}
	return nil
}
