// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package scoring

// ConfidenceClassifier maps (tier, rating count) to a confidence label.
// Pure and stateless apart from the injected threshold; safe for
// concurrent use.
type ConfidenceClassifier struct {
	standardMinRatings int
}

// NewConfidenceClassifier builds a classifier with the given
// standard-confidence threshold. Thresholds below 1 fall back to the
// default so the classifier stays total.
func NewConfidenceClassifier(standardMinRatings int) *ConfidenceClassifier {
	if standardMinRatings < 1 {
		standardMinRatings = DefaultConfig().StandardMinRatings
	}
	return &ConfidenceClassifier{standardMinRatings: standardMinRatings}
}

// ConfidenceFor classifies a note's rating evidence. Monotone
// non-decreasing in ratingCount for any fixed tier.
func (c *ConfidenceClassifier) ConfidenceFor(_ Tier, ratingCount int) Confidence {
	switch {
	case ratingCount <= 0:
		return ConfidenceNoData
	case ratingCount < c.standardMinRatings:
		return ConfidenceProvisional
	default:
		return ConfidenceStandard
	}
}

// DataConfidenceForTier is the tier-level default confidence used in
// system-wide status reporting, independent of any note's rating count.
// Tiers below TierIntermediate lack the data volume for standard
// confidence.
func (c *ConfidenceClassifier) DataConfidenceForTier(tier Tier) Confidence {
	if tier < TierIntermediate {
		return ConfidenceProvisional
	}
	return ConfidenceStandard
}
