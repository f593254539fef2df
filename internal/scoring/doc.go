// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

// Package scoring implements the adaptive multi-tier note-scoring and
// confidence engine.
//
// The system-wide note count determines the active tier, from a cold-start
// Bayesian average up through matrix-factorization runs served by an
// external scoring adapter. Each tier names the scorer(s) statistically
// reliable at its data volume; per-community manual overrides can pin a
// tier. Per-note results carry a normalized score in [0, 1], a discrete
// confidence label, and the tier they were scored under.
//
// The package holds no mutable shared state beyond the per-tier scorer
// cache built at construction; note counts are snapshotted once per
// operation, so a note crossing a tier boundary mid-scan stays scored
// under the snapshot.
package scoring
