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
	"time"

	"github.com/veracite/veracite/internal/metrics"
)

// TierOverride returns a community's manual tier pin. ok is false when
// the community has no settings row or an empty override. Satisfies the
// scoring core's override source contract; the core validates the value
// and fails closed on unrecognized names.
func (s *Store) TierOverride(ctx context.Context, communityID string) (string, bool, error) {
	start := time.Now()
	stmt, err := s.prepared(ctx, `SELECT tier_override FROM community_settings WHERE community_id = ?`)
	if err != nil {
		return "", false, err
	}

	var value string
	err = stmt.QueryRowContext(ctx, communityID).Scan(&value)
	metrics.ObserveStoreQuery("tier_override", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("tier override for %s: %w", communityID, err)
	}
	return value, value != "", nil
}

// SetTierOverride pins (or, with an empty value, clears) a community's
// tier.
func (s *Store) SetTierOverride(ctx context.Context, communityID, tierName string) error {
	start := time.Now()
	stmt, err := s.prepared(ctx, `INSERT INTO community_settings (community_id, tier_override, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (community_id) DO UPDATE SET
			tier_override = excluded.tier_override,
			updated_at = excluded.updated_at`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, communityID, tierName, time.Now().UTC())
	metrics.ObserveStoreQuery("set_tier_override", start, err)
	if err != nil {
		return fmt.Errorf("set tier override for %s: %w", communityID, err)
	}
	return nil
}
