// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package store

import (
	"context"
	"testing"

	"github.com/tomtom215/reperio/internal/models"
)

func TestProfileRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := &models.UserProfile{
		UserID:          "u1",
		GenreWeights:    map[string]float64{"sci-fi": 0.9, "drama": 0.4},
		PlatformWeights: map[string]float64{"netflix": 0.7},
		Centroid:        []float32{0.5, 0.25, 0.25},
	}
	if err := s.UpsertProfile(ctx, in); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}

	got, err := s.Profile(ctx, "u1")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if got == nil {
		t.Fatal("Profile returned nil for a stored user")
	}
	if got.GenreWeights["sci-fi"] != 0.9 || got.GenreWeights["drama"] != 0.4 {
		t.Errorf("genre weights = %v", got.GenreWeights)
	}
	if got.PlatformWeights["netflix"] != 0.7 {
		t.Errorf("platform weights = %v", got.PlatformWeights)
	}
	if len(got.Centroid) != 3 || got.Centroid[0] != 0.5 {
		t.Errorf("centroid = %v", got.Centroid)
	}
	if got.UpdatedAt.IsZero() {
		t.Errorf("zero UpdatedAt was not stamped on write")
	}
}

func TestProfileMissingUser(t *testing.T) {
	s := newTestStore(t)

	if p, err := s.Profile(context.Background(), "nobody"); err != nil || p != nil {
		t.Errorf("Profile(missing) = (%+v, %v), want (nil, nil)", p, err)
	}
	if p, err := s.Profile(context.Background(), ""); err != nil || p != nil {
		t.Errorf("Profile(empty) = (%+v, %v), want (nil, nil)", p, err)
	}
}

func TestUpsertProfileReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.UpsertProfile(ctx, &models.UserProfile{
		UserID:       "u1",
		GenreWeights: map[string]float64{"comedy": 1.0},
	})
	if err := s.UpsertProfile(ctx, &models.UserProfile{
		UserID:       "u1",
		GenreWeights: map[string]float64{"horror": 0.6},
	}); err != nil {
		t.Fatalf("UpsertProfile (replace): %v", err)
	}

	got, err := s.Profile(ctx, "u1")
	if err != nil || got == nil {
		t.Fatalf("Profile = (%+v, %v)", got, err)
	}
	if _, stale := got.GenreWeights["comedy"]; stale {
		t.Errorf("stale weights survived upsert: %v", got.GenreWeights)
	}
	if got.GenreWeights["horror"] != 0.6 {
		t.Errorf("genre weights = %v", got.GenreWeights)
	}
}

func TestUpsertProfileRequiresUserID(t *testing.T) {
	s := newTestStore(t)

	if err := s.UpsertProfile(context.Background(), nil); err == nil {
		t.Errorf("UpsertProfile accepted nil profile")
	}
	if err := s.UpsertProfile(context.Background(), &models.UserProfile{}); err == nil {
		t.Errorf("UpsertProfile accepted empty user ID")
	}
}
