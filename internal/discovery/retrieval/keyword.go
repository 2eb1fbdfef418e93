// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package retrieval

import (
	"context"
	"fmt"

	"github.com/tomtom215/reperio/internal/discovery"
)

// InvertedIndex executes a ranked full-text query over the catalog.
// Implementations score with BM25-style term weighting (title weighted over
// overview over genre tags) and tolerate small edit distances in terms.
// A non-nil filter constrains the match set inside the index.
type InvertedIndex interface {
	Search(ctx context.Context, terms []string, k int, filter *discovery.Filters) ([]ScoredID, error)
}

// KeywordStrategy is the lexical retrieval leg. It implements
// discovery.Strategy.
//
// The leg queries with the intent's KeywordTerms, which carry synonym
// expansions on top of the canonical tokens. Expansion widens lexical
// recall without ever mutating the query the user sees.
type KeywordStrategy struct {
	index InvertedIndex
}

// NewKeywordStrategy creates the keyword retrieval leg.
func NewKeywordStrategy(index InvertedIndex) *KeywordStrategy {
	return &KeywordStrategy{index: index}
}

// Name implements discovery.Strategy.
func (s *KeywordStrategy) Name() string { return discovery.LegKeyword }

// Search implements discovery.Strategy. Filters are always pushed into the
// inverted index; lexical match sets are cheap to constrain in place, so
// the pre/post distinction of the vector leg does not arise here.
func (s *KeywordStrategy) Search(ctx context.Context, intent discovery.QueryIntent, filters discovery.Filters, k int) ([]discovery.CandidateResult, error) {
	terms := intent.KeywordTerms
	if len(terms) == 0 {
		terms = intent.Tokens
	}
	if len(terms) == 0 {
		return nil, nil
	}

	var filter *discovery.Filters
	if !filters.IsZero() {
		filter = &filters
	}

	hits, err := s.index.Search(ctx, terms, k, filter)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	if len(hits) > k {
		hits = hits[:k]
	}
	candidates := make([]discovery.CandidateResult, len(hits))
	for i, h := range hits {
		candidates[i] = discovery.CandidateResult{
			ItemID:       h.ID,
			Provenance:   []string{discovery.LegKeyword},
			KeywordRank:  i + 1,
			KeywordScore: h.Score,
		}
	}
	return candidates, nil
}

// Ensure interface compliance.
var _ discovery.Strategy = (*KeywordStrategy)(nil)
