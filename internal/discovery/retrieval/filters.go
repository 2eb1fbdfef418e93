// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package retrieval

import (
	"strings"
	"time"

	"github.com/tomtom215/reperio/internal/discovery"
	"github.com/tomtom215/reperio/internal/models"
)

// Per-facet selectivity factors. These are coarse priors, not statistics:
// a genre constraint keeps roughly 30% of the catalog, a platform
// constraint 40%, a rating band 50%, and a year range keeps its share of a
// nominal hundred-year catalog span. Factors multiply across facet classes.
const (
	genreSelectivity    = 0.3
	platformSelectivity = 0.4
	ratingSelectivity   = 0.5
	catalogYearSpan     = 100.0
)

// EstimateSelectivity estimates the fraction of the catalog that survives
// the filters, in (0, 1]. Unconstrained filters estimate 1.
func EstimateSelectivity(f discovery.Filters) float64 {
	selectivity := 1.0
	if len(f.Genres) > 0 {
		selectivity *= genreSelectivity
	}
	if len(f.Platforms) > 0 {
		selectivity *= platformSelectivity
	}
	if f.YearMin != 0 || f.YearMax != 0 {
		span := yearSpan(f)
		selectivity *= span / catalogYearSpan
	}
	if f.RatingMin != 0 || f.RatingMax != 0 {
		selectivity *= ratingSelectivity
	}
	if selectivity <= 0 {
		selectivity = 0.01
	}
	return selectivity
}

// yearSpan returns the width of the year constraint in years, treating an
// open end as reaching the edge of the nominal catalog span.
func yearSpan(f discovery.Filters) float64 {
	min, max := f.YearMin, f.YearMax
	if min == 0 && max == 0 {
		return catalogYearSpan
	}
	if min == 0 {
		min = max - int(catalogYearSpan) + 1
	}
	if max == 0 {
		max = time.Now().Year()
	}
	span := float64(max - min + 1)
	if span < 1 {
		span = 1
	}
	if span > catalogYearSpan {
		span = catalogYearSpan
	}
	return span
}

// MatchesFilters reports whether a hydrated item satisfies every facet
// constraint. Used on the post-filter path, where the index query ran
// unconstrained.
func MatchesFilters(item *models.CatalogItem, f discovery.Filters, now time.Time) bool {
	if len(f.Genres) > 0 && !matchesAnyGenre(item, f.Genres) {
		return false
	}
	if len(f.Platforms) > 0 && !matchesAnyPlatform(item, f.Platforms, now) {
		return false
	}
	year := item.ReleaseDate.Year()
	if f.YearMin != 0 && (item.ReleaseDate.IsZero() || year < f.YearMin) {
		return false
	}
	if f.YearMax != 0 && (item.ReleaseDate.IsZero() || year > f.YearMax) {
		return false
	}
	if f.RatingMin != 0 && item.Rating < f.RatingMin {
		return false
	}
	if f.RatingMax != 0 && item.Rating > f.RatingMax {
		return false
	}
	return true
}

func matchesAnyGenre(item *models.CatalogItem, genres []string) bool {
	for _, want := range genres {
		for _, g := range item.Genres {
			if strings.EqualFold(g, want) {
				return true
			}
		}
	}
	return false
}

func matchesAnyPlatform(item *models.CatalogItem, platforms []string, now time.Time) bool {
	for _, p := range platforms {
		if item.AvailableOn(p, now) {
			return true
		}
	}
	return false
}
