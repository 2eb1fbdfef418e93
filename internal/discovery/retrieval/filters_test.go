// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package retrieval

import (
	"testing"
	"time"

	"github.com/tomtom215/reperio/internal/discovery"
	"github.com/tomtom215/reperio/internal/models"
)

func TestEstimateSelectivity(t *testing.T) {
	tests := []struct {
		name    string
		filters discovery.Filters
		want    float64
	}{
		{"unconstrained", discovery.Filters{}, 1.0},
		{"genre only", discovery.Filters{Genres: []string{"sci-fi"}}, 0.3},
		{"platform only", discovery.Filters{Platforms: []string{"netflix"}}, 0.4},
		{"rating only", discovery.Filters{RatingMin: 7}, 0.5},
		{"decade", discovery.Filters{YearMin: 1990, YearMax: 1999}, 0.1},
		{
			name: "genre and platform multiply",
			filters: discovery.Filters{
				Genres:    []string{"sci-fi"},
				Platforms: []string{"netflix"},
			},
			want: 0.12,
		},
		{
			name: "narrow combination",
			filters: discovery.Filters{
				Genres:    []string{"sci-fi"},
				Platforms: []string{"netflix"},
				YearMin:   2020,
				YearMax:   2024,
				RatingMin: 7,
			},
			want: 0.3 * 0.4 * 0.05 * 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateSelectivity(tt.filters)
			if !closeTo(got, tt.want) {
				t.Errorf("EstimateSelectivity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEstimateSelectivityNeverZero(t *testing.T) {
	f := discovery.Filters{YearMin: 2024, YearMax: 2024}
	if got := EstimateSelectivity(f); got <= 0 {
		t.Errorf("EstimateSelectivity = %v, want > 0", got)
	}
}

func TestMatchesFilters(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	gone := now.Add(-time.Hour)
	item := models.CatalogItem{
		ID:          "x",
		Genres:      []string{"Sci-Fi", "thriller"},
		ReleaseDate: time.Date(2014, 11, 7, 0, 0, 0, 0, time.UTC),
		Rating:      8.6,
		Platforms: []models.PlatformAvailability{
			{Platform: "netflix"},
			{Platform: "hulu", LeavingAt: &gone},
		},
	}

	tests := []struct {
		name    string
		filters discovery.Filters
		want    bool
	}{
		{"no constraints", discovery.Filters{}, true},
		{"genre match case-insensitive", discovery.Filters{Genres: []string{"sci-fi"}}, true},
		{"genre mismatch", discovery.Filters{Genres: []string{"comedy"}}, false},
		{"platform current", discovery.Filters{Platforms: []string{"netflix"}}, true},
		{"platform expired", discovery.Filters{Platforms: []string{"hulu"}}, false},
		{"year in range", discovery.Filters{YearMin: 2010, YearMax: 2020}, true},
		{"year below min", discovery.Filters{YearMin: 2020}, false},
		{"year above max", discovery.Filters{YearMax: 2010}, false},
		{"rating in band", discovery.Filters{RatingMin: 8, RatingMax: 9}, true},
		{"rating below min", discovery.Filters{RatingMin: 9}, false},
		{
			name: "all facets together",
			filters: discovery.Filters{
				Genres:    []string{"thriller"},
				Platforms: []string{"netflix"},
				YearMin:   2014,
				RatingMin: 8,
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesFilters(&item, tt.filters, now); got != tt.want {
				t.Errorf("MatchesFilters(%+v) = %v, want %v", tt.filters, got, tt.want)
			}
		})
	}
}

func TestMatchesFiltersUndatedItemFailsYearConstraint(t *testing.T) {
	item := models.CatalogItem{ID: "x"}
	f := discovery.Filters{YearMin: 2000}
	if MatchesFilters(&item, f, time.Now()) {
		t.Errorf("undated item must not satisfy a year constraint")
	}
}

func closeTo(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
