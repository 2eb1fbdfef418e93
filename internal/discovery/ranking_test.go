// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package discovery

import (
	"testing"
	"time"

	"github.com/tomtom215/reperio/internal/models"
)

var rankNow = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func baseRankingInput() rankingInput {
	return rankingInput{
		items:      map[string]models.CatalogItem{},
		weights:    DefaultConfig().Weights,
		prefWeight: 0.2,
		halfLife:   90 * 24 * time.Hour,
		now:        rankNow,
	}
}

func TestRankBlendsFactors(t *testing.T) {
	in := baseRankingInput()
	in.intent = QueryIntent{Genres: []string{"sci-fi"}}
	in.affinities = map[string]float64{"a": 1.0}
	in.items = map[string]models.CatalogItem{
		"a": {
			ID:          "a",
			Genres:      []string{"sci-fi"},
			Popularity:  0.5,
			ReleaseDate: rankNow.Add(-90 * 24 * time.Hour),
		},
	}

	results := rank([]CandidateResult{{ItemID: "a", Fused: 0.03}}, in)
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}

	b := results[0].Breakdown
	if !almostEqual(b.Fused, 1.0*0.03) {
		t.Errorf("fused term = %v, want %v", b.Fused, 0.03)
	}
	if !almostEqual(b.ThemeMatch, 0.15*1.0) {
		t.Errorf("theme term = %v, want %v", b.ThemeMatch, 0.15)
	}
	if !almostEqual(b.Preference, 0.2*1.0) {
		t.Errorf("preference term = %v, want %v", b.Preference, 0.2)
	}
	if !almostEqual(b.Popularity, 0.1*0.5) {
		t.Errorf("popularity term = %v, want %v", b.Popularity, 0.05)
	}
	// Exactly one half-life old.
	if !almostEqual(b.Freshness, 0.1*0.5) {
		t.Errorf("freshness term = %v, want %v", b.Freshness, 0.05)
	}
	if b.Availability != 0 {
		t.Errorf("availability term = %v, want 0 for an unavailable item", b.Availability)
	}
	if !almostEqual(results[0].Score, b.Total()) {
		t.Errorf("score = %v, want breakdown total %v", results[0].Score, b.Total())
	}
}

func TestRankUnhydratedItemUsesFusedOnly(t *testing.T) {
	in := baseRankingInput()
	in.intent = QueryIntent{Genres: []string{"drama"}}
	in.affinities = map[string]float64{"ghost": 1.0}

	results := rank([]CandidateResult{{ItemID: "ghost", Fused: 0.02}}, in)
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if !almostEqual(results[0].Score, 0.02) {
		t.Errorf("score = %v, want fused-only %v", results[0].Score, 0.02)
	}
	b := results[0].Breakdown
	if b.ThemeMatch != 0 || b.Preference != 0 || b.Popularity != 0 || b.Freshness != 0 || b.Availability != 0 {
		t.Errorf("unhydrated item has non-fused factors: %+v", b)
	}
}

func TestRankDeterministicTieBreak(t *testing.T) {
	in := baseRankingInput()
	// No metadata: scores reduce to fused; equal fused ties break on ID.
	candidates := []CandidateResult{
		{ItemID: "zeta", Fused: 0.5},
		{ItemID: "alpha", Fused: 0.5},
		{ItemID: "mid", Fused: 0.7},
	}

	for i := 0; i < 5; i++ {
		results := rank(candidates, in)
		got := []string{results[0].Item.ID, results[1].Item.ID, results[2].Item.ID}
		want := []string{"mid", "alpha", "zeta"}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("order = %v, want %v", got, want)
			}
		}
	}
}

func TestRankNilAffinitiesZeroPreference(t *testing.T) {
	in := baseRankingInput()
	in.affinities = nil
	in.items = map[string]models.CatalogItem{"a": {ID: "a", Genres: []string{"drama"}}}

	results := rank([]CandidateResult{{ItemID: "a", Fused: 0.1}}, in)
	if results[0].Breakdown.Preference != 0 {
		t.Errorf("preference = %v, want 0 when affinities degraded", results[0].Breakdown.Preference)
	}
}

func TestThemeMatch(t *testing.T) {
	tests := []struct {
		name   string
		intent QueryIntent
		genres []string
		want   float64
	}{
		{
			name:   "exact single overlap",
			intent: QueryIntent{Genres: []string{"sci-fi"}},
			genres: []string{"sci-fi"},
			want:   1.0,
		},
		{
			name:   "partial overlap",
			intent: QueryIntent{Genres: []string{"sci-fi"}, Themes: []string{"space"}},
			genres: []string{"sci-fi", "adventure"},
			want:   0.5, // 1 / sqrt(2*2)
		},
		{
			name:   "case insensitive",
			intent: QueryIntent{Genres: []string{"Sci-Fi"}},
			genres: []string{"SCI-FI"},
			want:   1.0,
		},
		{
			name:   "no overlap",
			intent: QueryIntent{Genres: []string{"horror"}},
			genres: []string{"comedy"},
			want:   0,
		},
		{
			name:   "empty query themes",
			intent: QueryIntent{},
			genres: []string{"comedy"},
			want:   0,
		},
		{
			name:   "no item genres",
			intent: QueryIntent{Genres: []string{"horror"}},
			genres: nil,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := models.CatalogItem{ID: "x", Genres: tt.genres}
			got := themeMatch(tt.intent, &item)
			if !almostEqual(got, tt.want) {
				t.Errorf("themeMatch = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFreshnessDecay(t *testing.T) {
	halfLife := 90 * 24 * time.Hour

	tests := []struct {
		name     string
		released time.Time
		want     float64
	}{
		{"undated", time.Time{}, 0},
		{"future release", rankNow.Add(24 * time.Hour), 1},
		{"released today", rankNow, 1},
		{"one half-life", rankNow.Add(-halfLife), 0.5},
		{"two half-lives", rankNow.Add(-2 * halfLife), 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := freshnessDecay(tt.released, halfLife, rankNow)
			if !almostEqual(got, tt.want) {
				t.Errorf("freshnessDecay = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlatformBoost(t *testing.T) {
	gone := rankNow.Add(-time.Hour)
	later := rankNow.Add(30 * 24 * time.Hour)

	tests := []struct {
		name      string
		platforms []models.PlatformAvailability
		intent    QueryIntent
		want      float64
	}{
		{
			name:      "on requested platform",
			platforms: []models.PlatformAvailability{{Platform: "netflix"}},
			intent:    QueryIntent{Platforms: []string{"netflix"}},
			want:      1,
		},
		{
			name:      "on other platform only",
			platforms: []models.PlatformAvailability{{Platform: "hulu"}},
			intent:    QueryIntent{Platforms: []string{"netflix"}},
			want:      0,
		},
		{
			name:      "left requested platform",
			platforms: []models.PlatformAvailability{{Platform: "netflix", LeavingAt: &gone}},
			intent:    QueryIntent{Platforms: []string{"netflix"}},
			want:      0,
		},
		{
			name:      "no platform preference, available somewhere",
			platforms: []models.PlatformAvailability{{Platform: "hulu", LeavingAt: &later}},
			intent:    QueryIntent{},
			want:      0.5,
		},
		{
			name:      "no platform preference, nowhere available",
			platforms: []models.PlatformAvailability{{Platform: "hulu", LeavingAt: &gone}},
			intent:    QueryIntent{},
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := models.CatalogItem{ID: "x", Platforms: tt.platforms}
			got := platformBoost(&item, tt.intent, rankNow)
			if !almostEqual(got, tt.want) {
				t.Errorf("platformBoost = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0, 1}, []float32{1, 0, 1}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch", []float32{1, 0}, []float32{1}, 0},
		{"empty", nil, nil, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if !almostEqual(got, tt.want) {
				t.Errorf("CosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}
