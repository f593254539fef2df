// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

// Package simulation generates deterministic synthetic note and rating
// populations. The same seed always yields the same dataset, so tier
// progression and ranking behavior can be exercised end to end and
// asserted on exactly.
package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/veracite/veracite/internal/models"
)

// Options shapes a generated population.
type Options struct {
	// Communities is the number of distinct community IDs notes are
	// spread across. 0 means every note is global.
	Communities int

	// Raters is the size of the rater pool.
	Raters int

	// MaxRatingsPerNote caps the randomized per-note rating count.
	MaxRatingsPerNote int

	// HelpfulBias in [0, 1] skews rating labels toward HELPFUL. 0.5 is
	// an even mix.
	HelpfulBias float64
}

// DefaultOptions returns the mix used by the simulate command.
func DefaultOptions() Options {
	return Options{
		Communities:       5,
		Raters:            200,
		MaxRatingsPerNote: 12,
		HelpfulBias:       0.6,
	}
}

// Generator produces synthetic populations from a fixed seed.
type Generator struct {
	rng  *rand.Rand
	opts Options
	base time.Time
}

// New creates a generator. Identical seed and options produce identical
// populations.
func New(seed int64, opts Options) *Generator {
	if opts.Raters <= 0 {
		opts.Raters = 1
	}
	if opts.MaxRatingsPerNote < 0 {
		opts.MaxRatingsPerNote = 0
	}
	return &Generator{
		rng:  rand.New(rand.NewSource(seed)),
		opts: opts,
		base: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Notes generates n notes with randomized rating sets. IDs are
// zero-padded sequence numbers so lexicographic order matches creation
// order.
func (g *Generator) Notes(n int) []*models.NoteRecord {
	notes := make([]*models.NoteRecord, 0, n)
	for i := 0; i < n; i++ {
		note := &models.NoteRecord{
			ID:        fmt.Sprintf("note-%08d", i),
			AuthorID:  fmt.Sprintf("author-%04d", g.rng.Intn(g.opts.Raters)),
			Content:   fmt.Sprintf("synthetic note %d", i),
			CreatedAt: g.base.Add(time.Duration(i) * time.Second),
		}
		if g.opts.Communities > 0 {
			note.CommunityID = fmt.Sprintf("community-%02d", g.rng.Intn(g.opts.Communities))
		}

		ratingCount := 0
		if g.opts.MaxRatingsPerNote > 0 {
			ratingCount = g.rng.Intn(g.opts.MaxRatingsPerNote + 1)
		}
		raters := g.rng.Perm(g.opts.Raters)
		if ratingCount > len(raters) {
			ratingCount = len(raters)
		}
		for r := 0; r < ratingCount; r++ {
			note.Ratings = append(note.Ratings, models.Rating{
				NoteID:    note.ID,
				RaterID:   fmt.Sprintf("rater-%04d", raters[r]),
				Label:     g.label(),
				CreatedAt: note.CreatedAt.Add(time.Duration(r+1) * time.Minute),
			})
		}
		notes = append(notes, note)
	}
	return notes
}

// label draws one rating label using the configured helpful bias.
func (g *Generator) label() models.RatingLabel {
	v := g.rng.Float64()
	switch {
	case v < g.opts.HelpfulBias:
		return models.RatingHelpful
	case v < g.opts.HelpfulBias+(1-g.opts.HelpfulBias)/2:
		return models.RatingSomewhatHelpful
	default:
		return models.RatingNotHelpful
	}
}

// Enrollment generates one enrollment record per rater, spread across
// the configured communities.
func (g *Generator) Enrollment() []models.EnrollmentRecord {
	records := make([]models.EnrollmentRecord, 0, g.opts.Raters)
	for i := 0; i < g.opts.Raters; i++ {
		rec := models.EnrollmentRecord{
			UserID:     fmt.Sprintf("rater-%04d", i),
			EnrolledAt: g.base,
		}
		if g.opts.Communities > 0 {
			rec.CommunityID = fmt.Sprintf("community-%02d", i%g.opts.Communities)
		}
		records = append(records, rec)
	}
	return records
}

// NoteWriter is the storage surface Populate writes through.
type NoteWriter interface {
	InsertNote(ctx context.Context, note *models.NoteRecord) error
	UpsertRating(ctx context.Context, rating *models.Rating) error
	InsertEnrollment(ctx context.Context, rec *models.EnrollmentRecord) error
}

// Populate generates n notes plus enrollment and writes everything
// through the store.
func (g *Generator) Populate(ctx context.Context, store NoteWriter, n int) error {
	for _, rec := range g.Enrollment() {
		rec := rec
		if err := store.InsertEnrollment(ctx, &rec); err != nil {
			return fmt.Errorf("populate enrollment: %w", err)
		}
	}
	for _, note := range g.Notes(n) {
		if err := store.InsertNote(ctx, note); err != nil {
			return fmt.Errorf("populate note %s: %w", note.ID, err)
		}
		for i := range note.Ratings {
			if err := store.UpsertRating(ctx, &note.Ratings[i]); err != nil {
				return fmt.Errorf("populate rating on %s: %w", note.ID, err)
			}
		}
	}
	return nil
}
