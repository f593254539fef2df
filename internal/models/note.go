// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package models

import "time"

// RatingLabel is the helpfulness label attached to a rating.
// The set is closed; anything else is rejected at the storage boundary.
type RatingLabel string

const (
	// RatingHelpful indicates the rater found the note helpful.
	RatingHelpful RatingLabel = "HELPFUL"
	// RatingSomewhatHelpful indicates partial helpfulness.
	RatingSomewhatHelpful RatingLabel = "SOMEWHAT_HELPFUL"
	// RatingNotHelpful indicates the rater found the note not helpful.
	RatingNotHelpful RatingLabel = "NOT_HELPFUL"
)

// Valid reports whether the label belongs to the closed label set.
func (l RatingLabel) Valid() bool {
	switch l {
	case RatingHelpful, RatingSomewhatHelpful, RatingNotHelpful:
		return true
	default:
		return false
	}
}

// Weight returns the numeric helpfulness weight in [0, 1] used by the
// Bayesian average scorer. Unknown labels weigh zero.
func (l RatingLabel) Weight() float64 {
	switch l {
	case RatingHelpful:
		return 1.0
	case RatingSomewhatHelpful:
		return 0.5
	case RatingNotHelpful:
		return 0.0
	default:
		return 0.0
	}
}

// Rating is a single rater's helpfulness judgment on a note.
type Rating struct {
	// NoteID is the rated note's identifier.
	NoteID string `json:"note_id"`

	// RaterID is the rating user's identifier. One rating per rater per note.
	RaterID string `json:"rater_id"`

	// Label is the helpfulness label from the closed set.
	Label RatingLabel `json:"label"`

	// Retracted marks a rating withdrawn by its rater. Retracted ratings
	// do not count toward rating_count or score.
	Retracted bool `json:"retracted"`

	// CreatedAt is when the rating was submitted.
	CreatedAt time.Time `json:"created_at"`
}

// NoteRecord is a community note with its ratings, as read at scoring time.
type NoteRecord struct {
	// ID is the note's opaque identifier.
	ID string `json:"id"`

	// CommunityID is the owning community. Empty for global/system notes.
	CommunityID string `json:"community_id,omitempty"`

	// AuthorID is the note author's identifier.
	AuthorID string `json:"author_id"`

	// Content is the archived message content, if retained.
	Content string `json:"content,omitempty"`

	// CreatedAt is when the note was submitted.
	CreatedAt time.Time `json:"created_at"`

	// Ratings are the note's child ratings, including retracted ones.
	Ratings []Rating `json:"ratings,omitempty"`
}

// RatingCount returns the number of live (non-retracted, validly labeled)
// ratings. It is always derived here, never stored on the record.
func (n *NoteRecord) RatingCount() int {
	count := 0
	for i := range n.Ratings {
		if !n.Ratings[i].Retracted && n.Ratings[i].Label.Valid() {
			count++
		}
	}
	return count
}

// LiveRatings returns the non-retracted, validly labeled ratings.
func (n *NoteRecord) LiveRatings() []Rating {
	live := make([]Rating, 0, len(n.Ratings))
	for i := range n.Ratings {
		if !n.Ratings[i].Retracted && n.Ratings[i].Label.Valid() {
			live = append(live, n.Ratings[i])
		}
	}
	return live
}

// EnrollmentRecord tracks a user's enrollment in a community's rating
// program. The scoring core only forwards these to the bulk scoring adapter.
type EnrollmentRecord struct {
	// UserID is the enrolled user's identifier.
	UserID string `json:"user_id"`

	// CommunityID is the community the user is enrolled in.
	CommunityID string `json:"community_id"`

	// State is the enrollment state (e.g. "newcomer", "earned_in").
	State string `json:"state"`

	// EnrolledAt is when the user entered this state.
	EnrolledAt time.Time `json:"enrolled_at"`
}
