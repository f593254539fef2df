// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veracite/veracite/internal/metrics"
	"github.com/veracite/veracite/internal/models"
	"github.com/veracite/veracite/internal/scoring/adapter"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// CountNotes returns the system-wide note count. The scoring core reads
// this once per pass as its tier-resolution snapshot.
func (s *Store) CountNotes(ctx context.Context) (int, error) {
	start := time.Now()
	var count int
	err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&count)
	metrics.ObserveStoreQuery("count_notes", start, err)
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return count, nil
}

// InsertNote stores a note. A missing ID is generated; a missing
// creation time defaults to now.
func (s *Store) InsertNote(ctx context.Context, note *models.NoteRecord) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}

	start := time.Now()
	stmt, err := s.prepared(ctx, `INSERT INTO notes (id, community_id, author_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, note.ID, note.CommunityID, note.AuthorID, note.Content, note.CreatedAt)
	metrics.ObserveStoreQuery("insert_note", start, err)
	if err != nil {
		return fmt.Errorf("insert note %s: %w", note.ID, err)
	}
	return nil
}

// UpsertRating stores one rater's rating of a note, replacing any prior
// rating by the same rater. A re-rating un-retracts.
func (s *Store) UpsertRating(ctx context.Context, rating *models.Rating) error {
	if !rating.Label.Valid() {
		return fmt.Errorf("invalid rating label %q", rating.Label)
	}
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now().UTC()
	}

	start := time.Now()
	stmt, err := s.prepared(ctx, `INSERT INTO ratings (note_id, rater_id, label, retracted, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (note_id, rater_id) DO UPDATE SET
			label = excluded.label,
			retracted = excluded.retracted,
			created_at = excluded.created_at`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, rating.NoteID, rating.RaterID, string(rating.Label), rating.Retracted, rating.CreatedAt)
	metrics.ObserveStoreQuery("upsert_rating", start, err)
	if err != nil {
		return fmt.Errorf("upsert rating on note %s: %w", rating.NoteID, err)
	}
	return nil
}

// RetractRating marks a rater's rating as retracted without deleting the
// row. Retracted ratings do not count toward scores or confidence.
func (s *Store) RetractRating(ctx context.Context, noteID, raterID string) error {
	start := time.Now()
	stmt, err := s.prepared(ctx, `UPDATE ratings SET retracted = TRUE WHERE note_id = ? AND rater_id = ?`)
	if err != nil {
		return err
	}
	res, err := stmt.ExecContext(ctx, noteID, raterID)
	metrics.ObserveStoreQuery("retract_rating", start, err)
	if err != nil {
		return fmt.Errorf("retract rating on note %s: %w", noteID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertEnrollment records a user's enrollment in a community.
func (s *Store) InsertEnrollment(ctx context.Context, rec *models.EnrollmentRecord) error {
	if rec.EnrolledAt.IsZero() {
		rec.EnrolledAt = time.Now().UTC()
	}

	start := time.Now()
	stmt, err := s.prepared(ctx, `INSERT INTO enrollment (user_id, community_id, enrolled_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, community_id) DO NOTHING`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, rec.UserID, rec.CommunityID, rec.EnrolledAt)
	metrics.ObserveStoreQuery("insert_enrollment", start, err)
	if err != nil {
		return fmt.Errorf("insert enrollment for %s: %w", rec.UserID, err)
	}
	return nil
}

// GetNote loads one note with its ratings.
func (s *Store) GetNote(ctx context.Context, id string) (*models.NoteRecord, error) {
	start := time.Now()
	stmt, err := s.prepared(ctx, `SELECT id, community_id, author_id, content, created_at
		FROM notes WHERE id = ?`)
	if err != nil {
		return nil, err
	}

	note := &models.NoteRecord{}
	err = stmt.QueryRowContext(ctx, id).
		Scan(&note.ID, &note.CommunityID, &note.AuthorID, &note.Content, &note.CreatedAt)
	metrics.ObserveStoreQuery("get_note", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("note %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get note %s: %w", id, err)
	}

	if err := s.attachRatings(ctx, []*models.NoteRecord{note}); err != nil {
		return nil, err
	}
	return note, nil
}

// FetchNotes returns one page of notes with ratings attached, ordered by
// (created_at, id). The ordering is stable across calls, which the
// ranking scan's monotonically advancing offset depends on.
func (s *Store) FetchNotes(ctx context.Context, offset, limit int) ([]*models.NoteRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("fetch notes: limit must be > 0, got %d", limit)
	}

	start := time.Now()
	stmt, err := s.prepared(ctx, `SELECT id, community_id, author_id, content, created_at
		FROM notes ORDER BY created_at, id LIMIT ? OFFSET ?`)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, limit, offset)
	metrics.ObserveStoreQuery("fetch_notes", start, err)
	if err != nil {
		return nil, fmt.Errorf("fetch notes at offset %d: %w", offset, err)
	}
	defer func() { _ = rows.Close() }()

	var notes []*models.NoteRecord
	for rows.Next() {
		note := &models.NoteRecord{}
		if err := rows.Scan(&note.ID, &note.CommunityID, &note.AuthorID, &note.Content, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note row: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch notes at offset %d: %w", offset, err)
	}

	if err := s.attachRatings(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// attachRatings loads ratings for the given notes in one query.
func (s *Store) attachRatings(ctx context.Context, notes []*models.NoteRecord) error {
	if len(notes) == 0 {
		return nil
	}

	byID := make(map[string]*models.NoteRecord, len(notes))
	placeholders := make([]string, len(notes))
	args := make([]any, len(notes))
	for i, note := range notes {
		byID[note.ID] = note
		placeholders[i] = "?"
		args[i] = note.ID
	}

	query := fmt.Sprintf(`SELECT note_id, rater_id, label, retracted, created_at
		FROM ratings WHERE note_id IN (%s) ORDER BY created_at, rater_id`,
		strings.Join(placeholders, ", "))

	start := time.Now()
	rows, err := s.conn.QueryContext(ctx, query, args...)
	metrics.ObserveStoreQuery("fetch_ratings", start, err)
	if err != nil {
		return fmt.Errorf("fetch ratings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var r models.Rating
		var label string
		if err := rows.Scan(&r.NoteID, &r.RaterID, &label, &r.Retracted, &r.CreatedAt); err != nil {
			return fmt.Errorf("scan rating row: %w", err)
		}
		r.Label = models.RatingLabel(label)
		if note, ok := byID[r.NoteID]; ok {
			note.Ratings = append(note.Ratings, r)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("fetch ratings: %w", err)
	}
	return nil
}

// Snapshot reads the full note, rating, and enrollment population for a
// bulk scoring run.
func (s *Store) Snapshot(ctx context.Context) (*adapter.RunRequest, error) {
	count, err := s.CountNotes(ctx)
	if err != nil {
		return nil, err
	}

	req := &adapter.RunRequest{}
	const pageSize = 1000
	for offset := 0; offset < count; offset += pageSize {
		notes, err := s.FetchNotes(ctx, offset, pageSize)
		if err != nil {
			return nil, err
		}
		if len(notes) == 0 {
			break
		}
		for _, note := range notes {
			req.Notes = append(req.Notes, *note)
		}
	}

	start := time.Now()
	rows, err := s.conn.QueryContext(ctx, `SELECT user_id, community_id, enrolled_at FROM enrollment`)
	metrics.ObserveStoreQuery("fetch_enrollment", start, err)
	if err != nil {
		return nil, fmt.Errorf("fetch enrollment: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var rec models.EnrollmentRecord
		if err := rows.Scan(&rec.UserID, &rec.CommunityID, &rec.EnrolledAt); err != nil {
			return nil, fmt.Errorf("scan enrollment row: %w", err)
		}
		req.Enrollment = append(req.Enrollment, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch enrollment: %w", err)
	}
	return req, nil
}
