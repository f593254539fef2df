// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package scoring

import (
	"context"
	"testing"

	"github.com/veracite/veracite/internal/scoring/scorers"
)

func TestScorerFactoryPerTierScorers(t *testing.T) {
	factory, err := NewScorerFactory(NewTierPolicy(nil), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewScorerFactory: %v", err)
	}

	tests := []struct {
		tier Tier
		want string
	}{
		{TierMinimal, scorers.NameBayesianAverage},
		{TierLimited, scorers.NameBayesianAverage},
		{TierBasic, scorers.NameBayesianAverage},
		{TierIntermediate, scorers.NameWeightedEnsemble},
		{TierAdvanced, scorers.NameMatrixFactorization},
		{TierFull, scorers.NameMatrixFactorization},
	}

	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			if got := factory.ScorerForTier(tt.tier).Name(); got != tt.want {
				t.Errorf("ScorerForTier(%v).Name() = %q, want %q", tt.tier, got, tt.want)
			}
		})
	}
}

// The per-tier cache is built once; repeated resolution returns the same
// instance.
func TestScorerFactoryCachesByTier(t *testing.T) {
	factory, err := NewScorerFactory(NewTierPolicy(nil), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewScorerFactory: %v", err)
	}

	ctx := context.Background()
	first := factory.GetScorer(ctx, "c1", 50)
	second := factory.GetScorer(ctx, "c2", 80)
	if first != second {
		t.Error("same tier should return the same cached scorer instance")
	}
}

func TestScorerFactoryHonorsOverride(t *testing.T) {
	overrides := &fakeOverrides{values: map[string]string{"pinned": "full"}}
	factory, err := NewScorerFactory(NewTierPolicy(overrides), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewScorerFactory: %v", err)
	}

	ctx := context.Background()
	if got := factory.GetScorer(ctx, "pinned", 10).Name(); got != scorers.NameMatrixFactorization {
		t.Errorf("pinned community scorer = %q, want %q", got, scorers.NameMatrixFactorization)
	}
	if got := factory.GetScorer(ctx, "other", 10).Name(); got != scorers.NameBayesianAverage {
		t.Errorf("unpinned community scorer = %q, want %q", got, scorers.NameBayesianAverage)
	}
}

// An unimplemented scorer name in any tier fails construction, not
// scoring.
func TestScorerFactoryFailsFastOnUnknownScorer(t *testing.T) {
	configs := defaultTierConfigs()
	configs[1].ScorerNames = []string{"gradient_boosted"}
	policy, err := NewTierPolicyWithConfigs(configs, nil)
	if err != nil {
		t.Fatalf("NewTierPolicyWithConfigs: %v", err)
	}

	if _, err := NewScorerFactory(policy, DefaultConfig(), nil); err == nil {
		t.Fatal("NewScorerFactory should fail for an unimplemented scorer name")
	}
}

func TestScorerFactoryEnsembleNeedsWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ensemble = map[string]float64{scorers.NameBayesianAverage: 1.0}

	if _, err := NewScorerFactory(NewTierPolicy(nil), cfg, nil); err == nil {
		t.Fatal("NewScorerFactory should fail when an ensemble component has no weight")
	}
}
