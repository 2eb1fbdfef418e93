// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package discovery

import (
	"context"

	"github.com/tomtom215/reperio/internal/models"
)

// IntentParser turns a raw query into a QueryIntent. Parsing is an
// enrichment: an implementation must return a usable tokenized intent even
// when entity extraction fails, and the engine additionally falls back to a
// raw tokenization if Parse errors outright.
type IntentParser interface {
	Parse(ctx context.Context, query, locale string) (QueryIntent, error)
}

// Strategy is one retrieval leg. Exactly two exist (vector, keyword); they
// are fixed architectural variants, not runtime plugins.
//
// Search returns at most k candidates ranked best-first, each carrying the
// strategy's own rank and raw score. A failed Search degrades the leg: the
// engine excludes it from fusion without retrying.
type Strategy interface {
	Name() string
	Search(ctx context.Context, intent QueryIntent, filters Filters, k int) ([]CandidateResult, error)
}

// ExploreResult is the outcome of one bounded graph traversal.
type ExploreResult struct {
	// Scores maps discovered item ID to its accumulated path score,
	// summed over independent paths with per-hop decay applied.
	Scores map[string]float64

	EdgesVisited    int
	BudgetExhausted bool
	MaxDepthReached int
}

// GraphExplorer performs bounded breadth-first traversal of the relationship
// graph. maxDepth overrides the explorer's configured depth when positive.
// Seed items themselves are never reported as discoveries.
type GraphExplorer interface {
	Explore(ctx context.Context, seeds []string, maxDepth int) (ExploreResult, error)
}

// HistorySource supplies a user's recent interactions for graph seeding.
type HistorySource interface {
	RecentItemIDs(ctx context.Context, userID string, limit int) ([]string, error)
}

// Personalizer fetches per-item user affinities under a hard internal
// budget. On timeout or error implementations return the error; the engine
// degrades preference contributions to zero for the request and does not
// retry.
type Personalizer interface {
	Affinities(ctx context.Context, userID string, itemIDs []string, variant string) (map[string]float64, error)
}

// CatalogSource hydrates item metadata for ranking factors and final
// results. Missing IDs are silently absent from the returned slice.
type CatalogSource interface {
	GetItems(ctx context.Context, ids []string) ([]models.CatalogItem, error)
}
