// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package personalization

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/reperio/internal/discovery"
	"github.com/tomtom215/reperio/internal/models"
)

// ProfileSource supplies locally computed preference profiles.
type ProfileSource interface {
	Profile(ctx context.Context, userID string) (*models.UserProfile, error)
}

// LocalScorer computes affinities from stored preference profiles instead
// of calling the external service. It is the standalone-deployment scorer:
// the same Scorer contract, served from the embedded store.
//
// Affinity per item is the cosine similarity between the profile's
// preference embedding and the item embedding when both exist, otherwise
// the profile's mean genre-weight over the item's genres.
type LocalScorer struct {
	profiles ProfileSource
	catalog  discovery.CatalogSource
}

// NewLocalScorer creates a profile-backed scorer.
func NewLocalScorer(profiles ProfileSource, catalog discovery.CatalogSource) *LocalScorer {
	return &LocalScorer{profiles: profiles, catalog: catalog}
}

// Score implements Scorer. Users without a profile score zero everywhere;
// the variant only selects the blend weight upstream and does not change
// the affinity computation.
func (s *LocalScorer) Score(ctx context.Context, userID string, itemIDs []string, _ string) (map[string]float64, error) {
	profile, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return nil, nil
	}

	items, err := s.catalog.GetItems(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("hydrate items: %w", err)
	}

	affinities := make(map[string]float64, len(items))
	for i := range items {
		affinities[items[i].ID] = itemAffinity(profile, &items[i])
	}
	return affinities, nil
}

// itemAffinity scores one item against a profile.
func itemAffinity(profile *models.UserProfile, item *models.CatalogItem) float64 {
	if len(profile.Centroid) > 0 && len(item.Embedding) > 0 {
		sim := discovery.CosineSimilarity(profile.Centroid, item.Embedding)
		if sim < 0 {
			return 0
		}
		return sim
	}

	if len(profile.GenreWeights) == 0 || len(item.Genres) == 0 {
		return 0
	}
	var sum float64
	for _, g := range item.Genres {
		sum += profile.GenreWeights[strings.ToLower(g)]
	}
	return sum / float64(len(item.Genres))
}

// Ensure interface compliance.
var _ Scorer = (*LocalScorer)(nil)
