// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package discovery

import (
	"time"

	"github.com/tomtom215/reperio/internal/models"
)

// Retrieval leg names. These identify the ranked lists that enter fusion and
// label degradation events when a leg is excluded.
const (
	LegVector  = "vector"
	LegKeyword = "keyword"
	LegGraph   = "graph"
)

// QueryIntent is the structured form of a search query, produced once per
// request by intent parsing and consumed read-only by every later stage.
//
// Normalized and Tokens reflect the canonical query: spell-corrected when a
// correction cleared the confidence threshold, otherwise the original text.
// KeywordTerms additionally carries synonym expansions and feeds the keyword
// leg only; the canonical query shown back to the user is never mutated by
// expansion.
type QueryIntent struct {
	Raw        string   `json:"raw"`
	Normalized string   `json:"normalized"`
	Tokens     []string `json:"tokens"`

	// Keyword-leg terms: tokens plus synonym expansions.
	KeywordTerms []string `json:"keyword_terms,omitempty"`

	// Extracted entities
	Genres     []string `json:"genres,omitempty"`
	Platforms  []string `json:"platforms,omitempty"`
	Themes     []string `json:"themes,omitempty"`
	References []string `json:"references,omitempty"` // "like <Title>" / "similar to <Title>"

	Corrected     bool    `json:"corrected"`
	LowConfidence bool    `json:"low_confidence"` // a correction existed but stayed below threshold
	Confidence    float64 `json:"confidence"`
	Locale        string  `json:"locale,omitempty"`
}

// Filters narrows retrieval to a facet-constrained slice of the catalog.
// The zero value matches everything.
type Filters struct {
	Genres    []string `json:"genres,omitempty"`
	Platforms []string `json:"platforms,omitempty"`
	YearMin   int      `json:"year_min,omitempty"`
	YearMax   int      `json:"year_max,omitempty"`
	RatingMin float64  `json:"rating_min,omitempty"`
	RatingMax float64  `json:"rating_max,omitempty"`
}

// IsZero reports whether no facet constraint is set.
func (f Filters) IsZero() bool {
	return len(f.Genres) == 0 && len(f.Platforms) == 0 &&
		f.YearMin == 0 && f.YearMax == 0 &&
		f.RatingMin == 0 && f.RatingMax == 0
}

// CandidateResult is one item as seen by one or more retrieval legs.
//
// The merge key is ItemID: when several legs return the same item their
// CandidateResults are folded into one, each leg filling in its own rank and
// raw score. Contributions are additive and never overwrite each other. A
// rank of 0 means the leg did not return the item.
type CandidateResult struct {
	ItemID     string   `json:"item_id"`
	Provenance []string `json:"provenance"`

	VectorRank  int     `json:"vector_rank,omitempty"`
	VectorScore float64 `json:"vector_score,omitempty"`

	KeywordRank  int     `json:"keyword_rank,omitempty"`
	KeywordScore float64 `json:"keyword_score,omitempty"`

	GraphRank  int     `json:"graph_rank,omitempty"`
	GraphScore float64 `json:"graph_score,omitempty"` // accumulated path score

	// Fused is the reciprocal-rank-fusion base score, filled during fusion.
	Fused float64 `json:"fused"`
}

// FoundBy reports whether the given leg returned this item.
func (c *CandidateResult) FoundBy(leg string) bool {
	for _, p := range c.Provenance {
		if p == leg {
			return true
		}
	}
	return false
}

// ScoreBreakdown records the weighted contribution of every ranking factor
// to a result's final score, for explainability. The factors sum to Final.
type ScoreBreakdown struct {
	Fused        float64 `json:"fused"`
	ThemeMatch   float64 `json:"theme_match"`
	Preference   float64 `json:"preference"`
	Popularity   float64 `json:"popularity"`
	Freshness    float64 `json:"freshness"`
	Availability float64 `json:"availability"`
}

// Total returns the sum of all factor contributions.
func (b ScoreBreakdown) Total() float64 {
	return b.Fused + b.ThemeMatch + b.Preference + b.Popularity + b.Freshness + b.Availability
}

// RankedResult is one entry of the final ranked list. It is constructed at
// the end of the pipeline, serialized to the caller, and discarded; the
// engine keeps no result state between requests.
type RankedResult struct {
	Item       models.CatalogItem `json:"item"`
	Score      float64            `json:"score"`
	FusedScore float64            `json:"fused_score"`
	Breakdown  ScoreBreakdown     `json:"breakdown"`
	Provenance []string           `json:"provenance"`
	GraphScore float64            `json:"graph_score,omitempty"`
	Variant    string             `json:"variant"`
}

// Request is a search invocation.
//
// UserID is optional; without it the pipeline skips user history seeding and
// personalization. Variant names the experiment arm controlling the
// preference weight and is supplied by the caller, never chosen here.
type Request struct {
	Query    string  `json:"query" validate:"required,max=512"`
	UserID   string  `json:"user_id,omitempty" validate:"omitempty,max=128"`
	Locale   string  `json:"locale,omitempty" validate:"omitempty,max=16"`
	Filters  Filters `json:"filters,omitempty"`
	Variant  string  `json:"variant,omitempty" validate:"omitempty,oneof=control personalized boost"`
	Page     int     `json:"page,omitempty" validate:"omitempty,gte=0"`
	PageSize int     `json:"page_size,omitempty" validate:"omitempty,gte=1,lte=100"`
}

// DiscoverRequest asks for items related to a set of seed items via graph
// traversal, without a text query.
type DiscoverRequest struct {
	SeedIDs  []string `json:"seed_ids" validate:"required,min=1,max=20,dive,required"`
	MaxDepth int      `json:"max_depth,omitempty" validate:"omitempty,gte=1,lte=5"`
	UserID   string   `json:"user_id,omitempty" validate:"omitempty,max=128"`
	Variant  string   `json:"variant,omitempty" validate:"omitempty,oneof=control personalized boost"`
	Page     int      `json:"page,omitempty" validate:"omitempty,gte=0"`
	PageSize int      `json:"page_size,omitempty" validate:"omitempty,gte=1,lte=100"`
}

// Response is the outcome of a Search or Discover call.
//
// Degraded lists the legs that failed or timed out for this request; a
// response with Degraded set is a partial answer, not an error. Total counts
// ranked candidates before pagination.
type Response struct {
	Results  []RankedResult `json:"results"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Degraded []string       `json:"degraded,omitempty"`
	Intent   *QueryIntent   `json:"intent,omitempty"`

	RequestID string        `json:"request_id"`
	Elapsed   time.Duration `json:"-"`
}
