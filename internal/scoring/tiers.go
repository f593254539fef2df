// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package scoring

import (
	"context"
	"fmt"

	"github.com/veracite/veracite/internal/logging"
	"github.com/veracite/veracite/internal/scoring/scorers"
)

// OverrideSource reports a community's manual tier pin, when one exists.
// The community-settings store implements it; a nil OverrideSource means
// no community ever has an override.
type OverrideSource interface {
	// TierOverride returns the raw override value for the community.
	// ok is false when the community has no override configured.
	TierOverride(ctx context.Context, communityID string) (value string, ok bool, err error)
}

// defaultTierConfigs is the built-in tier table. The brackets partition
// the non-negative integers: each is [MinNotes, MaxNotes) and the last is
// unbounded above.
func defaultTierConfigs() []TierConfig {
	return []TierConfig{
		{Tier: TierMinimal, MinNotes: 0, MaxNotes: 100,
			ScorerNames: []string{scorers.NameBayesianAverage}},
		{Tier: TierLimited, MinNotes: 100, MaxNotes: 500,
			ScorerNames: []string{scorers.NameBayesianAverage}},
		{Tier: TierBasic, MinNotes: 500, MaxNotes: 2000,
			ScorerNames: []string{scorers.NameBayesianAverage}},
		{Tier: TierIntermediate, MinNotes: 2000, MaxNotes: 10000,
			ScorerNames: []string{scorers.NameBayesianAverage, scorers.NameMatrixFactorization}},
		{Tier: TierAdvanced, MinNotes: 10000, MaxNotes: 50000,
			ScorerNames: []string{scorers.NameMatrixFactorization}},
		{Tier: TierFull, MinNotes: 50000, MaxNotes: UnboundedNotes,
			ScorerNames: []string{scorers.NameMatrixFactorization}},
	}
}

// TierPolicy maps note counts to tiers. It is immutable after construction
// and safe for concurrent use.
type TierPolicy struct {
	configs   []TierConfig
	overrides OverrideSource
}

// NewTierPolicy builds a policy over the built-in tier table. overrides
// may be nil.
func NewTierPolicy(overrides OverrideSource) *TierPolicy {
	p, err := NewTierPolicyWithConfigs(defaultTierConfigs(), overrides)
	if err != nil {
		// The built-in table is validated by tests; reaching this is a
		// programming error.
		panic(err)
	}
	return p
}

// NewTierPolicyWithConfigs builds a policy over a custom tier table.
// The table must be ordered by tier level and partition [0, inf) with no
// gaps or overlaps; violations are configuration errors.
func NewTierPolicyWithConfigs(configs []TierConfig, overrides OverrideSource) (*TierPolicy, error) {
	if len(configs) != tierCount {
		return nil, fmt.Errorf("tier table must have %d entries, got %d", tierCount, len(configs))
	}
	for i, cfg := range configs {
		if cfg.Tier != Tier(i) {
			return nil, fmt.Errorf("tier table entry %d is %q, want %q", i, cfg.Tier, Tier(i))
		}
		if len(cfg.ScorerNames) == 0 {
			return nil, fmt.Errorf("tier %q names no scorers", cfg.Tier)
		}
		if i == 0 {
			if cfg.MinNotes != 0 {
				return nil, fmt.Errorf("first tier must start at 0, got %d", cfg.MinNotes)
			}
		} else if cfg.MinNotes != configs[i-1].MaxNotes {
			return nil, fmt.Errorf("tier %q starts at %d but %q ends at %d",
				cfg.Tier, cfg.MinNotes, configs[i-1].Tier, configs[i-1].MaxNotes)
		}
		if i == len(configs)-1 {
			if cfg.MaxNotes != UnboundedNotes {
				return nil, fmt.Errorf("last tier %q must be unbounded", cfg.Tier)
			}
		} else if cfg.MaxNotes <= cfg.MinNotes {
			return nil, fmt.Errorf("tier %q has empty bracket [%d, %d)", cfg.Tier, cfg.MinNotes, cfg.MaxNotes)
		}
	}
	return &TierPolicy{configs: configs, overrides: overrides}, nil
}

// TierForCount maps a note count to its tier. Total over all inputs:
// negative counts are clamped to zero.
func (p *TierPolicy) TierForCount(noteCount int) Tier {
	if noteCount < 0 {
		noteCount = 0
	}
	for _, cfg := range p.configs {
		if cfg.Contains(noteCount) {
			return cfg.Tier
		}
	}
	// Unreachable given a validated table.
	return TierFull
}

// ConfigFor returns the tier's configuration.
func (p *TierPolicy) ConfigFor(tier Tier) TierConfig {
	if tier < 0 || int(tier) >= len(p.configs) {
		return p.configs[0]
	}
	return p.configs[tier]
}

// NextTier returns the tier strictly above t. ok is false at TierFull.
func (p *TierPolicy) NextTier(t Tier) (Tier, bool) {
	if int(t) >= tierCount-1 {
		return t, false
	}
	return t + 1, true
}

// PrevTier returns the tier strictly below t. ok is false at TierMinimal.
// Degradation on adapter failure resolves one tier lower through this.
func (p *TierPolicy) PrevTier(t Tier) (Tier, bool) {
	if t <= TierMinimal {
		return t, false
	}
	return t - 1, true
}

// ResolveTier resolves the active tier for a community at the given note
// count. A recognized manual override pins the tier regardless of count;
// unrecognized override values and override-lookup errors fail closed to
// automatic resolution.
func (p *TierPolicy) ResolveTier(ctx context.Context, communityID string, noteCount int) Tier {
	if p.overrides != nil && communityID != "" {
		value, ok, err := p.overrides.TierOverride(ctx, communityID)
		switch {
		case err != nil:
			logging.Warn().Err(err).
				Str("community_id", communityID).
				Msg("tier override lookup failed, using automatic resolution")
		case ok:
			if tier, valid := ParseTier(value); valid {
				return tier
			}
			logging.Warn().
				Str("community_id", communityID).
				Str("override", value).
				Msg("unrecognized tier override, using automatic resolution")
		}
	}
	return p.TierForCount(noteCount)
}
