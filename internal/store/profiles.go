// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/reperio/internal/discovery/personalization"
	"github.com/tomtom215/reperio/internal/models"
)

// Profile implements personalization.ProfileSource. A user without a
// stored profile returns (nil, nil): the local scorer treats that as zero
// affinity everywhere, never as an error.
func (s *Store) Profile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, nil
	}

	var (
		profile                       models.UserProfile
		genreWeights, platformWeights string
		centroid                      string
	)
	err := s.conn.QueryRowContext(ctx, `
		SELECT user_id, genre_weights, platform_weights, centroid, updated_at
		FROM user_profiles
		WHERE user_id = ?`, userID,
	).Scan(&profile.UserID, &genreWeights, &platformWeights, &centroid, &profile.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}

	profile.GenreWeights = decodeWeights(genreWeights)
	profile.PlatformWeights = decodeWeights(platformWeights)
	profile.Centroid = decodeFloats(centroid)
	return &profile, nil
}

// UpsertProfile writes a recomputed preference profile.
func (s *Store) UpsertProfile(ctx context.Context, profile *models.UserProfile) error {
	if profile == nil || profile.UserID == "" {
		return fmt.Errorf("profile requires a user ID")
	}
	updatedAt := profile.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err := s.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO user_profiles (user_id, genre_weights, platform_weights, centroid, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		profile.UserID,
		encodeJSON(profile.GenreWeights),
		encodeJSON(profile.PlatformWeights),
		encodeJSON(profile.Centroid),
		updatedAt)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// Ensure interface compliance.
var _ personalization.ProfileSource = (*Store)(nil)
