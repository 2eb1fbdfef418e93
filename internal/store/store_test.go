// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package store

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reperio/internal/config"
	"github.com/tomtom215/reperio/internal/models"
)

// newTestStore opens an in-memory store. Keyword tests force the LIKE
// fallback so results do not depend on the fts extension being
// downloadable in the test environment.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(&config.DatabaseConfig{Path: ""}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testItem(id, title string, genres []string, opts ...func(*models.CatalogItem)) models.CatalogItem {
	item := models.CatalogItem{
		ID:        id,
		Title:     title,
		MediaType: models.MediaTypeMovie,
		Genres:    genres,
		Rating:    7.0,
	}
	for _, opt := range opts {
		opt(&item)
	}
	return item
}

func TestCatalogRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	leaving := time.Now().UTC().AddDate(0, 0, 10).Truncate(time.Second)
	franchise := "saga"
	item := testItem("m1", "The Long Orbit", []string{"Sci-Fi", "thriller"}, func(i *models.CatalogItem) {
		i.Overview = "A slow burn in high orbit."
		i.ReleaseDate = time.Date(2022, 3, 4, 0, 0, 0, 0, time.UTC)
		i.RuntimeMinutes = 115
		i.Popularity = 0.7
		i.FranchiseID = &franchise
		i.Directors = []string{"R. Chen"}
		i.Cast = []string{"A. Okoro", "B. Silva"}
		i.Embedding = []float32{0.5, 0.25, 0, 0.25}
		i.Platforms = []models.PlatformAvailability{
			{Platform: "netflix"},
			{Platform: "hulu", Region: "us", LeavingAt: &leaving},
		}
	})

	if err := s.UpsertItems(ctx, []models.CatalogItem{item}); err != nil {
		t.Fatalf("UpsertItems: %v", err)
	}

	got, err := s.GetItems(ctx, []string{"m1", "missing"})
	if err != nil {
		t.Fatalf("GetItems: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("GetItems returned %d items, want 1 (missing ID silently absent)", len(got))
	}

	g := got[0]
	if g.Title != "The Long Orbit" || g.RuntimeMinutes != 115 {
		t.Errorf("item = %+v", g)
	}
	if len(g.Genres) != 2 || g.Genres[0] != "Sci-Fi" {
		t.Errorf("genres = %v", g.Genres)
	}
	if g.FranchiseID == nil || *g.FranchiseID != "saga" {
		t.Errorf("franchise = %v", g.FranchiseID)
	}
	if len(g.Embedding) != 4 || g.Embedding[0] != 0.5 {
		t.Errorf("embedding = %v", g.Embedding)
	}
	if len(g.Platforms) != 2 {
		t.Fatalf("platforms = %v", g.Platforms)
	}
	if !g.AvailableOn("netflix", time.Now()) {
		t.Errorf("netflix availability lost in round trip")
	}
	if g.ReleaseDate.Year() != 2022 {
		t.Errorf("release date = %v", g.ReleaseDate)
	}
}

func TestCatalogUpsertReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := testItem("m1", "Working Title", []string{"drama"}, func(i *models.CatalogItem) {
		i.Platforms = []models.PlatformAvailability{{Platform: "netflix"}}
	})
	second := testItem("m1", "Final Title", []string{"drama"}, func(i *models.CatalogItem) {
		i.Platforms = []models.PlatformAvailability{{Platform: "hulu"}}
	})

	if err := s.UpsertItems(ctx, []models.CatalogItem{first}); err != nil {
		t.Fatalf("UpsertItems: %v", err)
	}
	if err := s.UpsertItems(ctx, []models.CatalogItem{second}); err != nil {
		t.Fatalf("UpsertItems (replace): %v", err)
	}

	got, err := s.GetItems(ctx, []string{"m1"})
	if err != nil {
		t.Fatalf("GetItems: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Final Title" {
		t.Fatalf("items = %+v", got)
	}
	if len(got[0].Platforms) != 1 || got[0].Platforms[0].Platform != "hulu" {
		t.Errorf("stale availability survived upsert: %v", got[0].Platforms)
	}
}

func TestGetItemsEmptyInput(t *testing.T) {
	s := newTestStore(t)
	if items, err := s.GetItems(context.Background(), nil); err != nil || items != nil {
		t.Errorf("GetItems(nil) = (%v, %v), want (nil, nil)", items, err)
	}
}

func TestItemCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.UpsertItems(ctx, []models.CatalogItem{
		testItem("a", "A", nil),
		testItem("b", "B", nil),
	})

	count, err := s.ItemCount(ctx)
	if err != nil {
		t.Fatalf("ItemCount: %v", err)
	}
	if count != 2 {
		t.Errorf("ItemCount = %d, want 2", count)
	}
}

func TestSeedMockData(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SeedMockData(ctx); err != nil {
		t.Fatalf("SeedMockData: %v", err)
	}

	count, err := s.ItemCount(ctx)
	if err != nil {
		t.Fatalf("ItemCount: %v", err)
	}
	if count < 15 {
		t.Errorf("seeded %d items, want a usable catalog", count)
	}

	// The franchise spine must be traversable.
	edges, err := s.EdgesFrom(ctx, "sf-1", nil)
	if err != nil {
		t.Fatalf("EdgesFrom: %v", err)
	}
	if len(edges) == 0 {
		t.Errorf("seeded franchise item has no edges")
	}

	// Seeded history must seed graph discovery.
	ids, err := s.RecentItemIDs(ctx, "demo-skye", 5)
	if err != nil {
		t.Fatalf("RecentItemIDs: %v", err)
	}
	if len(ids) == 0 {
		t.Errorf("seeded user has no history")
	}
}
