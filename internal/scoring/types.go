// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package scoring

import (
	"strings"
	"time"
)

// Tier identifies a bracket of system-wide note counts. The active tier
// decides which scoring algorithms are statistically reliable enough to use.
//
// Tiers are totally ordered from TierMinimal to TierFull; the integer value
// is the 0-based tier level.
type Tier int

const (
	// TierMinimal is the cold-start tier for near-empty systems.
	TierMinimal Tier = iota
	// TierLimited has enough notes for stable Bayesian priors.
	TierLimited
	// TierBasic has enough notes for meaningful cross-note comparison.
	TierBasic
	// TierIntermediate blends the Bayesian scorer with the first
	// matrix-factorization runs.
	TierIntermediate
	// TierAdvanced runs matrix factorization as the primary scorer.
	TierAdvanced
	// TierFull is the unbounded top tier.
	TierFull

	tierCount = int(TierFull) + 1
)

// String returns the tier's canonical name.
func (t Tier) String() string {
	switch t {
	case TierMinimal:
		return "minimal"
	case TierLimited:
		return "limited"
	case TierBasic:
		return "basic"
	case TierIntermediate:
		return "intermediate"
	case TierAdvanced:
		return "advanced"
	case TierFull:
		return "full"
	default:
		return "unknown"
	}
}

// Level returns the 0-based tier level.
func (t Tier) Level() int {
	return int(t)
}

// ParseTier maps a tier name to its Tier. The second return is false for
// names outside the valid set; callers treat that as "no tier" and fall
// back to automatic resolution.
func ParseTier(name string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "minimal":
		return TierMinimal, true
	case "limited":
		return TierLimited, true
	case "basic":
		return TierBasic, true
	case "intermediate":
		return TierIntermediate, true
	case "advanced":
		return TierAdvanced, true
	case "full":
		return TierFull, true
	default:
		return TierMinimal, false
	}
}

// UnboundedNotes marks a tier with no upper note-count limit.
const UnboundedNotes = -1

// TierConfig describes one tier's note-count bracket and scorer set.
//
// The MinNotes/MaxNotes range is closed-open: a count n is in the tier when
// MinNotes <= n < MaxNotes. The last tier uses UnboundedNotes for MaxNotes.
type TierConfig struct {
	// Tier is the tier this config belongs to.
	Tier Tier `json:"tier"`

	// MinNotes is the inclusive lower note-count bound.
	MinNotes int `json:"min_notes"`

	// MaxNotes is the exclusive upper note-count bound, or UnboundedNotes.
	MaxNotes int `json:"max_notes"`

	// ScorerNames lists the scorer(s) active in this tier, in blend order.
	ScorerNames []string `json:"scorer_names"`
}

// Contains reports whether the note count falls inside this tier's bracket.
func (c TierConfig) Contains(noteCount int) bool {
	if noteCount < c.MinNotes {
		return false
	}
	return c.MaxNotes == UnboundedNotes || noteCount < c.MaxNotes
}

// Confidence is the discrete label summarizing how much rating evidence
// backs a score. The values form a total order:
// ConfidenceNoData < ConfidenceProvisional < ConfidenceStandard.
type Confidence int

const (
	// ConfidenceNoData means the note has no live ratings.
	ConfidenceNoData Confidence = iota
	// ConfidenceProvisional means some ratings exist but fewer than the
	// standard-confidence threshold.
	ConfidenceProvisional
	// ConfidenceStandard means the note has at least the threshold of
	// live ratings.
	ConfidenceStandard
)

// String returns the confidence label's canonical name.
func (c Confidence) String() string {
	switch c {
	case ConfidenceNoData:
		return "no_data"
	case ConfidenceProvisional:
		return "provisional"
	case ConfidenceStandard:
		return "standard"
	default:
		return "unknown"
	}
}

// AtLeast reports whether c meets the minimum confidence. Used by ranking
// filters ("at least provisional").
func (c Confidence) AtLeast(min Confidence) bool {
	return c >= min
}

// ParseConfidence maps a confidence name to its value. The second return is
// false for names outside the valid set.
func ParseConfidence(name string) (Confidence, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "no_data":
		return ConfidenceNoData, true
	case "provisional":
		return ConfidenceProvisional, true
	case "standard":
		return ConfidenceStandard, true
	default:
		return ConfidenceNoData, false
	}
}

// ScoreResult is the per-note scoring outcome. It is assembled fresh on
// every call and never persisted by the core; recomputing with the same
// inputs at the same note count yields an identical result apart from
// CalculatedAt.
type ScoreResult struct {
	// Score is the normalized note score, always within [0, 1].
	Score float64 `json:"score"`

	// Confidence labels the rating evidence behind the score.
	Confidence Confidence `json:"-"`

	// ConfidenceName is the serialized confidence label.
	ConfidenceName string `json:"confidence"`

	// Algorithm is the identity of the scorer that produced the score.
	Algorithm string `json:"algorithm"`

	// RatingCount is the note's live rating count at call time.
	RatingCount int `json:"rating_count"`

	// Tier is the 0-based level of the tier the note was scored under.
	Tier int `json:"tier"`

	// TierName is the tier's canonical name.
	TierName string `json:"tier_name"`

	// CalculatedAt is when this result was assembled.
	CalculatedAt time.Time `json:"calculated_at"`

	// Content is the note's archived content, when retained.
	Content string `json:"content,omitempty"`
}
