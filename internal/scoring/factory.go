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

// ScorerFactory resolves the active tier for a community and hands out
// that tier's scorer. Scorers are built once per tier at construction,
// so a tier naming an unimplemented scorer fails startup rather than a
// request; afterwards the per-tier cache is read-only and safe for
// concurrent use.
type ScorerFactory struct {
	policy  *TierPolicy
	byTier  [tierCount]scorers.Scorer
	matrixF scorers.Scorer
}

// NewScorerFactory wires scorers for every tier in the policy's table.
// runs backs the matrix-factorization scorer's single-note lookups; the
// Bayesian scorer built from cfg is both an early-tier scorer and the
// matrix-factorization miss fallback.
func NewScorerFactory(policy *TierPolicy, cfg *Config, runs scorers.RunLookup) (*ScorerFactory, error) {
	bayesian, err := scorers.NewBayesianAverage(cfg.Bayesian.PriorStrength, cfg.Bayesian.PriorMean)
	if err != nil {
		return nil, fmt.Errorf("build bayesian scorer: %w", err)
	}
	matrixF := scorers.NewAdapterBacked(runs, bayesian, logging.Logger())

	f := &ScorerFactory{policy: policy, matrixF: matrixF}

	build := func(name string) (scorers.Scorer, error) {
		switch name {
		case scorers.NameBayesianAverage:
			return bayesian, nil
		case scorers.NameMatrixFactorization:
			return matrixF, nil
		default:
			return nil, fmt.Errorf("tier names unimplemented scorer %q", name)
		}
	}

	for t := TierMinimal; int(t) < tierCount; t++ {
		tierCfg := policy.ConfigFor(t)
		if len(tierCfg.ScorerNames) == 1 {
			s, err := build(tierCfg.ScorerNames[0])
			if err != nil {
				return nil, fmt.Errorf("tier %q: %w", t, err)
			}
			f.byTier[t] = s
			continue
		}

		components := make([]scorers.Scorer, 0, len(tierCfg.ScorerNames))
		for _, name := range tierCfg.ScorerNames {
			s, err := build(name)
			if err != nil {
				return nil, fmt.Errorf("tier %q: %w", t, err)
			}
			components = append(components, s)
		}
		ensemble, err := scorers.NewWeightedEnsemble(components, cfg.Ensemble)
		if err != nil {
			return nil, fmt.Errorf("tier %q ensemble: %w", t, err)
		}
		f.byTier[t] = ensemble
	}

	return f, nil
}

// GetScorer returns the scorer for the community's active tier at the
// given note count, honoring manual overrides.
func (f *ScorerFactory) GetScorer(ctx context.Context, communityID string, totalNoteCount int) scorers.Scorer {
	tier := f.policy.ResolveTier(ctx, communityID, totalNoteCount)
	return f.byTier[tier]
}

// ScorerForTier returns the scorer cached for a specific tier. Used by
// the degradation path, which resolves one tier lower after an adapter
// failure.
func (f *ScorerFactory) ScorerForTier(tier Tier) scorers.Scorer {
	if tier < 0 || int(tier) >= tierCount {
		tier = TierMinimal
	}
	return f.byTier[tier]
}

// Policy returns the tier policy the factory resolves against.
func (f *ScorerFactory) Policy() *TierPolicy {
	return f.policy
}
