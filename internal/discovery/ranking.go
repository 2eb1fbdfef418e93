// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package discovery

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/reperio/internal/models"
)

// rankingInput bundles everything multi-factor ranking needs beyond the
// fused candidates themselves.
type rankingInput struct {
	items      map[string]models.CatalogItem
	intent     QueryIntent
	affinities map[string]float64 // per-item preference alignment, nil when degraded
	weights    Weights
	prefWeight float64 // variant-resolved preference weight
	halfLife   time.Duration
	variant    string
	now        time.Time
}

// rank layers the multi-factor score on top of the fused base score and
// sorts the result.
//
// final = w_base*fused + w_theme*theme + w_pref*preference +
// w_pop*popularity + w_fresh*freshness + w_avail*availability.
//
// Candidates without hydrated metadata still rank on their fused score
// alone. Ties break by fused base score, then item ID, so rankings are
// reproducible.
func rank(candidates []CandidateResult, in rankingInput) []RankedResult {
	results := make([]RankedResult, 0, len(candidates))

	for i := range candidates {
		c := &candidates[i]
		item, hydrated := in.items[c.ItemID]
		if !hydrated {
			item = models.CatalogItem{ID: c.ItemID}
		}

		breakdown := ScoreBreakdown{
			Fused: in.weights.Base * c.Fused,
		}
		if hydrated {
			breakdown.ThemeMatch = in.weights.ThemeMatch * themeMatch(in.intent, &item)
			breakdown.Preference = in.prefWeight * in.affinities[c.ItemID]
			breakdown.Popularity = in.weights.Popularity * clamp01(item.Popularity)
			breakdown.Freshness = in.weights.Freshness * freshnessDecay(item.ReleaseDate, in.halfLife, in.now)
			breakdown.Availability = in.weights.Availability * platformBoost(&item, in.intent, in.now)
		}

		results = append(results, RankedResult{
			Item:       item,
			Score:      breakdown.Total(),
			FusedScore: c.Fused,
			Breakdown:  breakdown,
			Provenance: c.Provenance,
			GraphScore: c.GraphScore,
			Variant:    in.variant,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].FusedScore != results[j].FusedScore {
			return results[i].FusedScore > results[j].FusedScore
		}
		return results[i].Item.ID < results[j].Item.ID
	})

	return results
}

// themeMatch is the cosine similarity between the query's theme vector and
// the item's genre vector. Both are sparse indicator vectors over genre and
// theme labels, so the cosine reduces to overlap normalized by the geometric
// mean of the vector lengths.
func themeMatch(intent QueryIntent, item *models.CatalogItem) float64 {
	query := make(map[string]struct{}, len(intent.Genres)+len(intent.Themes))
	for _, g := range intent.Genres {
		query[strings.ToLower(g)] = struct{}{}
	}
	for _, t := range intent.Themes {
		query[strings.ToLower(t)] = struct{}{}
	}
	if len(query) == 0 || len(item.Genres) == 0 {
		return 0
	}

	overlap := 0
	for _, g := range item.Genres {
		if _, ok := query[strings.ToLower(g)]; ok {
			overlap++
		}
	}
	if overlap == 0 {
		return 0
	}
	return float64(overlap) / math.Sqrt(float64(len(query))*float64(len(item.Genres)))
}

// freshnessDecay is the exponential decay of days-since-release:
// 0.5^(age/halfLife). Unreleased or undated items score 1 and 0
// respectively.
func freshnessDecay(released time.Time, halfLife time.Duration, now time.Time) float64 {
	if released.IsZero() {
		return 0
	}
	age := now.Sub(released)
	if age <= 0 {
		return 1
	}
	return math.Exp2(-age.Hours() / halfLife.Hours())
}

// platformBoost scores platform availability in [0, 1]. When the query
// names platforms, only availability on one of them counts; otherwise any
// current availability earns the boost, halved since it matches no stated
// preference.
func platformBoost(item *models.CatalogItem, intent QueryIntent, now time.Time) float64 {
	if len(intent.Platforms) > 0 {
		for _, p := range intent.Platforms {
			if item.AvailableOn(p, now) {
				return 1
			}
		}
		return 0
	}
	for _, p := range item.Platforms {
		if p.LeavingAt == nil || p.LeavingAt.After(now) {
			return 0.5
		}
	}
	return 0
}

// CosineSimilarity computes the cosine of two dense vectors. Mismatched or
// empty vectors score zero. Exported for the personalization fallback
// scorer, which compares user preference embeddings with item embeddings.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
