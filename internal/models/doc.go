// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

/*
Package models defines the core data structures shared across the scoring
backend: notes, ratings, and community enrollment.

Key Components:

  - NoteRecord: a community note with its attached ratings
  - Rating: one rater's judgment of a note, with retraction tombstones
  - RatingLabel: the fixed HELPFUL / SOMEWHAT_HELPFUL / NOT_HELPFUL scale
  - EnrollmentRecord: a user's membership in a community

Live vs. stored ratings:

A stored rating survives retraction as a tombstone row; only live ratings
(not retracted, recognized label) count toward scores and confidence.
NoteRecord.RatingCount and NoteRecord.LiveRatings encode that rule in one
place so the scoring core, the storage layer, and the bulk-run adapter all
agree on what a "rating" is.

Thread Safety:

Models are plain data structures with no internal locking. They are safe
for concurrent reads; callers own synchronization for mutation.

See Also:

  - internal/storage: DuckDB persistence for these models
  - internal/scoring: score and confidence computation over them
  - internal/scoring/adapter: bulk-run requests built from them
*/
package models
