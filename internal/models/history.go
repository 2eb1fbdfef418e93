// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package models

import (
	"time"
)

// Interaction kind values for Interaction.Kind.
const (
	InteractionView     = "view"
	InteractionClick    = "click"
	InteractionComplete = "complete"
	InteractionRate     = "rate"
)

// Interaction represents a single user event against a catalog item.
//
// Interactions feed two consumers: co-watched edge derivation (aggregated
// offline into relationship edges) and preference profiles for personalized
// ranking.
//
// Fields:
//   - UserID: Opaque user identifier
//   - ItemID: Catalog item the interaction targets
//   - Kind: "view", "click", "complete", or "rate"
//   - Value: Kind-dependent payload (watch percentage for views, star rating
//     for rates, unused for clicks)
//   - OccurredAt: Event time
type Interaction struct {
	UserID     string    `json:"user_id"`
	ItemID     string    `json:"item_id"`
	Kind       string    `json:"kind"`
	Value      float64   `json:"value,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// UserProfile aggregates a user's viewing preferences for ranking.
//
// Profiles are computed from interaction history and served by the
// personalization source. A missing or stale profile degrades to zero
// preference contribution rather than failing the request.
//
// Fields:
//   - UserID: Opaque user identifier
//   - GenreWeights: Affinity per genre label, each in [0, 1]
//   - PlatformWeights: Affinity per platform the user actually watches on
//   - Centroid: Mean embedding of recently completed items (empty when the
//     user has no usable history)
//   - UpdatedAt: When the profile was last recomputed
type UserProfile struct {
	UserID          string             `json:"user_id"`
	GenreWeights    map[string]float64 `json:"genre_weights,omitempty"`
	PlatformWeights map[string]float64 `json:"platform_weights,omitempty"`
	Centroid        []float32          `json:"centroid,omitempty"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// PreferredPlatforms returns the platforms with affinity at or above the
// threshold, for availability boosting. Order is unspecified.
func (p *UserProfile) PreferredPlatforms(threshold float64) []string {
	if len(p.PlatformWeights) == 0 {
		return nil
	}
	platforms := make([]string, 0, len(p.PlatformWeights))
	for platform, weight := range p.PlatformWeights {
		if weight >= threshold {
			platforms = append(platforms, platform)
		}
	}
	return platforms
}
