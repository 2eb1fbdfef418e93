// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/reperio/internal/models"
)

// SeedMockData loads a small deterministic catalog for demos and
// integration tests: franchises, shared directors and cast for graph
// edges, platform windows with leaving-soon exits, per-cluster embeddings,
// a couple of preference profiles, and a starter query history.
func (s *Store) SeedMockData(ctx context.Context) error {
	s.logger.Info().Msg("seeding mock catalog data")

	now := time.Now().UTC()
	items := mockItems(now)
	if err := s.UpsertItems(ctx, items); err != nil {
		return fmt.Errorf("seed items: %w", err)
	}

	if err := s.AddEdges(ctx, mockEdges()); err != nil {
		return fmt.Errorf("seed edges: %w", err)
	}

	for _, profile := range mockProfiles(now) {
		p := profile
		if err := s.UpsertProfile(ctx, &p); err != nil {
			return fmt.Errorf("seed profile %s: %w", p.UserID, err)
		}
	}

	for _, interaction := range mockInteractions(now) {
		if err := s.RecordInteraction(ctx, interaction); err != nil {
			return fmt.Errorf("seed interaction: %w", err)
		}
	}

	for _, query := range []string{"space adventure", "heist thriller", "feel good comedy", "true crime"} {
		if err := s.RecordQuery(ctx, query); err != nil {
			return fmt.Errorf("seed query: %w", err)
		}
	}

	if err := s.RebuildSearchIndex(ctx); err != nil {
		// LIKE fallback still serves keyword search.
		s.logger.Warn().Err(err).Msg("seeded without FTS index")
	}

	s.logger.Info().Int("items", len(items)).Msg("mock data seeded")
	return nil
}

// Cluster prototype vectors. Real embeddings come from the embedding
// service; the mock ones just need items in a cluster to be near each
// other and far from other clusters.
func clusterVector(cluster string, variant float32) []float32 {
	base := map[string][]float32{
		"speculative": {0.9, 0.1, 0.0, 0.1, 0.0, 0.0, 0.1, 0.0},
		"suspense":    {0.1, 0.9, 0.1, 0.0, 0.0, 0.1, 0.0, 0.0},
		"drama":       {0.0, 0.1, 0.9, 0.1, 0.0, 0.0, 0.0, 0.1},
		"comedy":      {0.1, 0.0, 0.1, 0.9, 0.1, 0.0, 0.0, 0.0},
		"action":      {0.0, 0.1, 0.0, 0.1, 0.9, 0.1, 0.0, 0.0},
		"crime":       {0.0, 0.1, 0.1, 0.0, 0.1, 0.9, 0.1, 0.0},
		"nonfiction":  {0.0, 0.0, 0.1, 0.0, 0.0, 0.1, 0.9, 0.1},
		"family":      {0.1, 0.0, 0.0, 0.1, 0.0, 0.0, 0.1, 0.9},
	}
	vec, ok := base[cluster]
	if !ok {
		return nil
	}
	out := make([]float32, len(vec))
	copy(out, vec)
	out[0] += variant * 0.01
	return out
}

func strPtr(v string) *string { return &v }

func timePtr(t time.Time) *time.Time { return &t }

//nolint:funlen // Seed data is one long literal by nature.
func mockItems(now time.Time) []models.CatalogItem {
	date := func(y, m, d int) time.Time {
		return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	}
	on := func(platform string) models.PlatformAvailability {
		return models.PlatformAvailability{Platform: platform, AddedAt: timePtr(now.AddDate(0, -6, 0))}
	}
	leaving := func(platform string, days int) models.PlatformAvailability {
		return models.PlatformAvailability{
			Platform:  platform,
			AddedAt:   timePtr(now.AddDate(-1, 0, 0)),
			LeavingAt: timePtr(now.AddDate(0, 0, days)),
		}
	}

	return []models.CatalogItem{
		// The Starfall trilogy: a franchise cluster for graph traversal.
		{
			ID: "sf-1", Title: "Starfall", MediaType: models.MediaTypeMovie,
			Genres: []string{"sci-fi", "adventure"}, Overview: "A scavenger crew discovers a dormant ark ship drifting beyond the outer colonies.",
			ReleaseDate: date(2019, 6, 14), RuntimeMinutes: 128, Rating: 7.8, Popularity: 0.82,
			FranchiseID: strPtr("starfall"), Directors: []string{"Mara Voss"}, Cast: []string{"Ilan Reyes", "Petra Kohl"},
			Platforms: []models.PlatformAvailability{on("netflix"), on("prime")},
			Embedding: clusterVector("speculative", 1),
		},
		{
			ID: "sf-2", Title: "Starfall: Eclipse", MediaType: models.MediaTypeMovie,
			Genres: []string{"sci-fi", "action"}, Overview: "The ark ship's awakened crew races a collapsing star to reach the last habitable world.",
			ReleaseDate: date(2021, 7, 2), RuntimeMinutes: 134, Rating: 7.5, Popularity: 0.78,
			FranchiseID: strPtr("starfall"), Directors: []string{"Mara Voss"}, Cast: []string{"Ilan Reyes", "Sana Odum"},
			Platforms: []models.PlatformAvailability{on("netflix")},
			Embedding: clusterVector("speculative", 2),
		},
		{
			ID: "sf-3", Title: "Starfall: Dawnbreak", MediaType: models.MediaTypeMovie,
			Genres: []string{"sci-fi", "drama"}, Overview: "Settlers of the new world uncover the ark builders' final secret.",
			ReleaseDate: date(2024, 1, 19), RuntimeMinutes: 141, Rating: 8.1, Popularity: 0.88,
			FranchiseID: strPtr("starfall"), Directors: []string{"Mara Voss"}, Cast: []string{"Petra Kohl", "Sana Odum"},
			Platforms: []models.PlatformAvailability{leaving("netflix", 12), on("hulu")},
			Embedding: clusterVector("speculative", 3),
		},

		// Speculative neighbors outside the franchise.
		{
			ID: "orbit-9", Title: "Orbit Nine", MediaType: models.MediaTypeSeries,
			Genres: []string{"sci-fi", "mystery"}, Overview: "A station crew investigates signals that predict their own transmissions.",
			ReleaseDate: date(2022, 10, 7), RuntimeMinutes: 52, Rating: 8.3, Popularity: 0.74,
			Directors: []string{"Theo Brandt"}, Cast: []string{"Ilan Reyes", "June Akana"},
			Platforms: []models.PlatformAvailability{on("prime")},
			Embedding: clusterVector("speculative", 4),
		},
		{
			ID: "gate-idx", Title: "The Gate Index", MediaType: models.MediaTypeMovie,
			Genres: []string{"fantasy", "adventure"}, Overview: "A cartographer maps doorways between dying worlds.",
			ReleaseDate: date(2020, 3, 6), RuntimeMinutes: 119, Rating: 7.2, Popularity: 0.61,
			Directors: []string{"Noor Haddad"}, Cast: []string{"Petra Kohl", "Omar Line"},
			Platforms: []models.PlatformAvailability{on("hulu"), on("disney")},
			Embedding: clusterVector("speculative", 5),
		},

		// Suspense cluster.
		{
			ID: "glass-h", Title: "The Glass Harbor", MediaType: models.MediaTypeMovie,
			Genres: []string{"thriller", "crime"}, Overview: "A customs investigator finds her own signature on smuggled manifests.",
			ReleaseDate: date(2023, 2, 10), RuntimeMinutes: 112, Rating: 7.9, Popularity: 0.71,
			Directors: []string{"Theo Brandt"}, Cast: []string{"June Akana", "Viktor Sallow"},
			Platforms: []models.PlatformAvailability{on("netflix"), leaving("prime", 20)},
			Embedding: clusterVector("suspense", 1),
		},
		{
			ID: "nightshift", Title: "Nightshift", MediaType: models.MediaTypeSeries,
			Genres: []string{"thriller", "mystery"}, Overview: "An emergency dispatcher hears a call that happened ten years ago.",
			ReleaseDate: date(2021, 9, 24), RuntimeMinutes: 45, Rating: 8.0, Popularity: 0.69,
			Directors: []string{"Ana Ruiz"}, Cast: []string{"Viktor Sallow", "Lena Park"},
			Platforms: []models.PlatformAvailability{on("hulu")},
			Embedding: clusterVector("suspense", 2),
		},
		{
			ID: "hollow-sig", Title: "Hollow Signal", MediaType: models.MediaTypeMovie,
			Genres: []string{"horror", "thriller"}, Overview: "A radio astronomer isolates a broadcast that only she can receive.",
			ReleaseDate: date(2024, 10, 25), RuntimeMinutes: 98, Rating: 6.9, Popularity: 0.55,
			Directors: []string{"Ana Ruiz"}, Cast: []string{"Lena Park", "Cole Mathis"},
			Platforms: []models.PlatformAvailability{on("netflix")},
			Embedding: clusterVector("suspense", 3),
		},

		// Drama cluster.
		{
			ID: "lighthouse-l", Title: "The Lighthouse Letters", MediaType: models.MediaTypeMovie,
			Genres: []string{"drama", "romance"}, Overview: "Two keepers on opposite coasts correspond through a shared logbook.",
			ReleaseDate: date(2018, 11, 2), RuntimeMinutes: 107, Rating: 7.6, Popularity: 0.48,
			Directors: []string{"Noor Haddad"}, Cast: []string{"Omar Line", "Greta Holm"},
			Platforms: []models.PlatformAvailability{on("prime")},
			Embedding: clusterVector("drama", 1),
		},
		{
			ID: "half-lives", Title: "Half Lives", MediaType: models.MediaTypeSeries,
			Genres: []string{"drama"}, Overview: "Four siblings inherit a reactor town their parents built and abandoned.",
			ReleaseDate: date(2023, 5, 12), RuntimeMinutes: 55, Rating: 8.4, Popularity: 0.77,
			Directors: []string{"Ana Ruiz"}, Cast: []string{"Greta Holm", "Sana Odum"},
			Platforms: []models.PlatformAvailability{on("hulu"), on("netflix")},
			Embedding: clusterVector("drama", 2),
		},

		// Comedy cluster.
		{
			ID: "petty-cash", Title: "Petty Cash", MediaType: models.MediaTypeSeries,
			Genres: []string{"comedy", "crime"}, Overview: "A regional bank's fraud team investigates its own expense reports.",
			ReleaseDate: date(2022, 4, 1), RuntimeMinutes: 28, Rating: 7.7, Popularity: 0.66,
			Directors: []string{"Felix Nguyen"}, Cast: []string{"Dana Brooks", "Cole Mathis"},
			Platforms: []models.PlatformAvailability{on("prime"), on("hulu")},
			Embedding: clusterVector("comedy", 1),
		},
		{
			ID: "roommates-m", Title: "Roommates of the Millennium", MediaType: models.MediaTypeSeries,
			Genres: []string{"comedy"}, Overview: "Six strangers sign a hundred-year lease by mistake.",
			ReleaseDate: date(2019, 1, 18), RuntimeMinutes: 24, Rating: 7.1, Popularity: 0.59,
			Directors: []string{"Felix Nguyen"}, Cast: []string{"Dana Brooks", "June Akana"},
			Platforms: []models.PlatformAvailability{on("netflix")},
			Embedding: clusterVector("comedy", 2),
		},

		// Action cluster.
		{
			ID: "ironline", Title: "Ironline", MediaType: models.MediaTypeMovie,
			Genres: []string{"action", "thriller"}, Overview: "A courier on a transcontinental maglev has one route and ninety minutes.",
			ReleaseDate: date(2023, 8, 4), RuntimeMinutes: 104, Rating: 7.0, Popularity: 0.72,
			Directors: []string{"Kazuo Ito"}, Cast: []string{"Ilan Reyes", "Lena Park"},
			Platforms: []models.PlatformAvailability{on("prime")},
			Embedding: clusterVector("action", 1),
		},
		{
			ID: "red-meridian", Title: "Red Meridian", MediaType: models.MediaTypeMovie,
			Genres: []string{"action", "war"}, Overview: "A demining crew races the rainy season across a contested border.",
			ReleaseDate: date(2020, 5, 22), RuntimeMinutes: 121, Rating: 7.4, Popularity: 0.58,
			Directors: []string{"Kazuo Ito"}, Cast: []string{"Viktor Sallow", "Omar Line"},
			Platforms: []models.PlatformAvailability{leaving("hulu", 9)},
			Embedding: clusterVector("action", 2),
		},

		// Crime cluster.
		{
			ID: "ledger-k", Title: "The Ledger Kings", MediaType: models.MediaTypeSeries,
			Genres: []string{"crime", "drama"}, Overview: "Forensic accountants dismantle a laundering empire one shell company at a time.",
			ReleaseDate: date(2021, 3, 19), RuntimeMinutes: 58, Rating: 8.6, Popularity: 0.81,
			Directors: []string{"Theo Brandt"}, Cast: []string{"Greta Holm", "Cole Mathis"},
			Platforms: []models.PlatformAvailability{on("netflix")},
			Embedding: clusterVector("crime", 1),
		},

		// Nonfiction cluster.
		{
			ID: "deep-archive", Title: "The Deep Archive", MediaType: models.MediaTypeDocumentary,
			Genres: []string{"documentary", "history"}, Overview: "Archivists race to digitize a flooded national library.",
			ReleaseDate: date(2022, 6, 3), RuntimeMinutes: 89, Rating: 8.2, Popularity: 0.44,
			Directors: []string{"Noor Haddad"}, Cast: nil,
			Platforms: []models.PlatformAvailability{on("prime")},
			Embedding: clusterVector("nonfiction", 1),
		},
		{
			ID: "cold-case-77", Title: "Cold Case 77", MediaType: models.MediaTypeDocumentary,
			Genres: []string{"documentary", "crime"}, Overview: "A retired detective reopens the one file she never closed.",
			ReleaseDate: date(2024, 4, 12), RuntimeMinutes: 95, Rating: 7.8, Popularity: 0.63,
			Directors: []string{"Ana Ruiz"}, Cast: nil,
			Platforms: []models.PlatformAvailability{on("netflix"), on("hulu")},
			Embedding: clusterVector("nonfiction", 2),
		},

		// Family cluster.
		{
			ID: "paper-dragons", Title: "Paper Dragons", MediaType: models.MediaTypeMovie,
			Genres: []string{"animation", "family"}, Overview: "A kite maker's daughter folds creatures that fly off the page.",
			ReleaseDate: date(2023, 12, 1), RuntimeMinutes: 96, Rating: 8.0, Popularity: 0.7,
			Directors: []string{"Felix Nguyen"}, Cast: nil,
			Platforms: []models.PlatformAvailability{on("disney")},
			Embedding: clusterVector("family", 1),
		},
	}
}

// mockEdges derives the relationship graph from the mock catalog.
// Undirected relationships appear as two directed edges.
func mockEdges() []models.RelationshipEdge {
	both := func(a, b string, t models.EdgeType, w float64) []models.RelationshipEdge {
		return []models.RelationshipEdge{
			{From: a, To: b, Type: t, Weight: w},
			{From: b, To: a, Type: t, Weight: w},
		}
	}

	var edges []models.RelationshipEdge
	// Franchise spine.
	edges = append(edges, both("sf-1", "sf-2", models.EdgeSameFranchise, 0.9)...)
	edges = append(edges, both("sf-2", "sf-3", models.EdgeSameFranchise, 0.9)...)
	edges = append(edges, both("sf-1", "sf-3", models.EdgeSameFranchise, 0.85)...)
	// Same director.
	edges = append(edges, both("orbit-9", "glass-h", models.EdgeSameDirector, 0.7)...)
	edges = append(edges, both("glass-h", "ledger-k", models.EdgeSameDirector, 0.7)...)
	edges = append(edges, both("nightshift", "hollow-sig", models.EdgeSameDirector, 0.7)...)
	edges = append(edges, both("nightshift", "half-lives", models.EdgeSameDirector, 0.65)...)
	edges = append(edges, both("petty-cash", "roommates-m", models.EdgeSameDirector, 0.7)...)
	edges = append(edges, both("ironline", "red-meridian", models.EdgeSameDirector, 0.7)...)
	// Shared cast.
	edges = append(edges, both("sf-1", "orbit-9", models.EdgeSharedCast, 0.6)...)
	edges = append(edges, both("sf-1", "ironline", models.EdgeSharedCast, 0.55)...)
	edges = append(edges, both("sf-3", "half-lives", models.EdgeSharedCast, 0.55)...)
	edges = append(edges, both("glass-h", "nightshift", models.EdgeSharedCast, 0.6)...)
	edges = append(edges, both("petty-cash", "hollow-sig", models.EdgeSharedCast, 0.5)...)
	// Editorial similarity.
	edges = append(edges, both("orbit-9", "nightshift", models.EdgeSimilarTo, 0.8)...)
	edges = append(edges, both("gate-idx", "paper-dragons", models.EdgeSimilarTo, 0.6)...)
	edges = append(edges, both("ledger-k", "cold-case-77", models.EdgeSimilarTo, 0.75)...)
	// Co-watched, from aggregated history.
	edges = append(edges, both("sf-2", "ironline", models.EdgeCoWatched, 0.5)...)
	edges = append(edges, both("half-lives", "lighthouse-l", models.EdgeCoWatched, 0.45)...)
	return edges
}

func mockProfiles(now time.Time) []models.UserProfile {
	return []models.UserProfile{
		{
			UserID:          "demo-skye",
			GenreWeights:    map[string]float64{"sci-fi": 0.9, "thriller": 0.6, "drama": 0.3},
			PlatformWeights: map[string]float64{"netflix": 0.8, "prime": 0.5},
			Centroid:        clusterVector("speculative", 2),
			UpdatedAt:       now,
		},
		{
			UserID:          "demo-ari",
			GenreWeights:    map[string]float64{"comedy": 0.8, "documentary": 0.7},
			PlatformWeights: map[string]float64{"hulu": 0.9},
			UpdatedAt:       now,
		},
	}
}

func mockInteractions(now time.Time) []models.Interaction {
	return []models.Interaction{
		{UserID: "demo-skye", ItemID: "sf-1", Kind: models.InteractionComplete, Value: 1, OccurredAt: now.AddDate(0, 0, -21)},
		{UserID: "demo-skye", ItemID: "sf-2", Kind: models.InteractionComplete, Value: 0.95, OccurredAt: now.AddDate(0, 0, -14)},
		{UserID: "demo-skye", ItemID: "orbit-9", Kind: models.InteractionView, Value: 0.6, OccurredAt: now.AddDate(0, 0, -3)},
		{UserID: "demo-ari", ItemID: "petty-cash", Kind: models.InteractionComplete, Value: 1, OccurredAt: now.AddDate(0, 0, -10)},
		{UserID: "demo-ari", ItemID: "deep-archive", Kind: models.InteractionRate, Value: 9, OccurredAt: now.AddDate(0, 0, -5)},
	}
}
