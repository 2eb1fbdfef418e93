// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/reperio/internal/discovery"
	"github.com/tomtom215/reperio/internal/metrics"
	"github.com/tomtom215/reperio/internal/models"
)

// RecentItemIDs implements discovery.HistorySource: the user's most
// recently interacted items, deduplicated, newest first. These seed graph
// exploration for the personalized discover feed.
func (s *Store) RecentItemIDs(ctx context.Context, userID string, limit int) ([]string, error) {
	if userID == "" || limit <= 0 {
		return nil, nil
	}
	start := time.Now()

	rows, err := s.conn.QueryContext(ctx, `
		SELECT item_id
		FROM user_interactions
		WHERE user_id = ?
		GROUP BY item_id
		ORDER BY max(occurred_at) DESC, item_id ASC
		LIMIT ?`, userID, limit)
	metrics.RecordDBQuery("select", "user_interactions", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return ids, nil
}

// RecordInteraction appends a user event. Zero OccurredAt is stamped now.
func (s *Store) RecordInteraction(ctx context.Context, interaction models.Interaction) error {
	if interaction.UserID == "" || interaction.ItemID == "" {
		return fmt.Errorf("interaction requires user and item IDs")
	}
	occurredAt := interaction.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	_, err := s.conn.ExecContext(ctx,
		"INSERT INTO user_interactions (user_id, item_id, kind, value, occurred_at) VALUES (?, ?, ?, ?, ?)",
		interaction.UserID, interaction.ItemID, interaction.Kind, interaction.Value, occurredAt)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// DeleteUserData removes every trace of a user: interaction history and
// preference profile. Backs the user-data-revoked event; result cache
// entries are invalidated separately by tag.
func (s *Store) DeleteUserData(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin user delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM user_interactions WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("delete interactions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM user_profiles WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit user delete: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Msg("user data deleted")
	return nil
}

// Ensure interface compliance.
var _ discovery.HistorySource = (*Store)(nil)
