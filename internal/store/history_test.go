// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package store

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/reperio/internal/models"
)

func recordAt(t *testing.T, s *Store, userID, itemID string, at time.Time) {
	t.Helper()
	err := s.RecordInteraction(context.Background(), models.Interaction{
		UserID:     userID,
		ItemID:     itemID,
		Kind:       models.InteractionView,
		Value:      1,
		OccurredAt: at,
	})
	if err != nil {
		t.Fatalf("RecordInteraction(%s, %s): %v", userID, itemID, err)
	}
}

func TestRecentItemIDsDedupesNewestFirst(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	recordAt(t, s, "u1", "old", base)
	recordAt(t, s, "u1", "mid", base.Add(1*time.Hour))
	recordAt(t, s, "u1", "old", base.Add(2*time.Hour)) // rewatch bumps recency
	recordAt(t, s, "u1", "new", base.Add(3*time.Hour))
	recordAt(t, s, "u2", "other", base.Add(4*time.Hour))

	ids, err := s.RecentItemIDs(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("RecentItemIDs: %v", err)
	}
	want := []string{"new", "old", "mid"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}

func TestRecentItemIDsLimit(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	recordAt(t, s, "u1", "a", base)
	recordAt(t, s, "u1", "b", base.Add(time.Hour))
	recordAt(t, s, "u1", "c", base.Add(2*time.Hour))

	ids, err := s.RecentItemIDs(context.Background(), "u1", 2)
	if err != nil {
		t.Fatalf("RecentItemIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "c" || ids[1] != "b" {
		t.Errorf("ids = %v, want [c b]", ids)
	}
}

func TestRecentItemIDsEmptyInput(t *testing.T) {
	s := newTestStore(t)

	if ids, err := s.RecentItemIDs(context.Background(), "", 10); err != nil || ids != nil {
		t.Errorf("RecentItemIDs(empty user) = (%v, %v), want (nil, nil)", ids, err)
	}
	if ids, err := s.RecentItemIDs(context.Background(), "u1", 0); err != nil || ids != nil {
		t.Errorf("RecentItemIDs(zero limit) = (%v, %v), want (nil, nil)", ids, err)
	}
}

func TestRecordInteractionRequiresIDs(t *testing.T) {
	s := newTestStore(t)

	if err := s.RecordInteraction(context.Background(), models.Interaction{ItemID: "i1"}); err == nil {
		t.Errorf("RecordInteraction accepted missing user ID")
	}
	if err := s.RecordInteraction(context.Background(), models.Interaction{UserID: "u1"}); err == nil {
		t.Errorf("RecordInteraction accepted missing item ID")
	}
}

func TestDeleteUserData(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	recordAt(t, s, "u1", "a", time.Now().UTC())
	recordAt(t, s, "u2", "b", time.Now().UTC())
	if err := s.UpsertProfile(ctx, &models.UserProfile{
		UserID:       "u1",
		GenreWeights: map[string]float64{"drama": 0.8},
	}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}

	if err := s.DeleteUserData(ctx, "u1"); err != nil {
		t.Fatalf("DeleteUserData: %v", err)
	}

	if ids, _ := s.RecentItemIDs(ctx, "u1", 10); len(ids) != 0 {
		t.Errorf("interactions survived deletion: %v", ids)
	}
	if p, err := s.Profile(ctx, "u1"); err != nil || p != nil {
		t.Errorf("Profile after deletion = (%+v, %v), want (nil, nil)", p, err)
	}

	// Other users are untouched.
	if ids, _ := s.RecentItemIDs(ctx, "u2", 10); len(ids) != 1 {
		t.Errorf("unrelated user lost history: %v", ids)
	}
}
