// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package retrieval

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/reperio/internal/discovery"
	"github.com/tomtom215/reperio/internal/metrics"
)

// ScoredID is one index hit: an item and its raw, strategy-local score.
// Raw scores are not comparable across strategies; fusion works on ranks.
type ScoredID struct {
	ID    string
	Score float64
}

// Embedder produces an embedding vector for query text. Implementations
// must respect the caller-supplied context deadline.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex searches the item-embedding index for the nearest neighbors
// of a query vector. A non-nil filter restricts the candidate universe
// before the similarity search (pre-filtering).
type VectorIndex interface {
	Search(ctx context.Context, vector []float32, k int, filter *discovery.Filters) ([]ScoredID, error)
}

// VectorStrategy is the semantic retrieval leg. It implements
// discovery.Strategy.
type VectorStrategy struct {
	embedder Embedder
	index    VectorIndex
	catalog  discovery.CatalogSource

	// preFilterThreshold: estimated selectivity below which the facet
	// constraint is pushed into the index query.
	preFilterThreshold float64

	// oversample widens the unfiltered pool on the post-filter path so
	// discarding non-matching items does not under-fill the result.
	oversample int
}

// NewVectorStrategy creates the vector retrieval leg. catalog is needed on
// the post-filter path to check facets against item metadata.
func NewVectorStrategy(embedder Embedder, index VectorIndex, catalog discovery.CatalogSource, preFilterThreshold float64, oversample int) *VectorStrategy {
	if preFilterThreshold <= 0 {
		preFilterThreshold = 0.1
	}
	if oversample <= 1 {
		oversample = 4
	}
	return &VectorStrategy{
		embedder:           embedder,
		index:              index,
		catalog:            catalog,
		preFilterThreshold: preFilterThreshold,
		oversample:         oversample,
	}
}

// Name implements discovery.Strategy.
func (s *VectorStrategy) Name() string { return discovery.LegVector }

// Search implements discovery.Strategy.
//
// The query embedding is fetched once per request under the leg's context
// deadline. If the lookup fails the leg fails: the engine excludes it from
// fusion and the request continues on the remaining sources. The failure is
// never papered over with a zero vector.
func (s *VectorStrategy) Search(ctx context.Context, intent discovery.QueryIntent, filters discovery.Filters, k int) ([]discovery.CandidateResult, error) {
	vector, err := s.embedder.Embed(ctx, embeddingText(intent))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", discovery.ErrEmbeddingUnavailable, err)
	}

	var hits []ScoredID
	if filters.IsZero() {
		hits, err = s.index.Search(ctx, vector, k, nil)
	} else if EstimateSelectivity(filters) < s.preFilterThreshold {
		// Small filtered universe: restrict before the similarity search.
		metrics.RetrievalPreFilterTotal.WithLabelValues("pre").Inc()
		hits, err = s.index.Search(ctx, vector, k, &filters)
	} else {
		metrics.RetrievalPreFilterTotal.WithLabelValues("post").Inc()
		hits, err = s.postFilteredSearch(ctx, vector, filters, k)
	}
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	return s.toCandidates(hits, k), nil
}

// postFilteredSearch searches a widened unfiltered pool and discards items
// that fail the facet constraints.
func (s *VectorStrategy) postFilteredSearch(ctx context.Context, vector []float32, filters discovery.Filters, k int) ([]ScoredID, error) {
	pool, err := s.index.Search(ctx, vector, k*s.oversample, nil)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, nil
	}

	ids := make([]string, len(pool))
	for i, h := range pool {
		ids[i] = h.ID
	}
	items, err := s.catalog.GetItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("post-filter hydration: %w", err)
	}

	now := time.Now()
	matching := make(map[string]struct{}, len(items))
	for i := range items {
		if MatchesFilters(&items[i], filters, now) {
			matching[items[i].ID] = struct{}{}
		}
	}

	filtered := make([]ScoredID, 0, k)
	for _, h := range pool {
		if _, ok := matching[h.ID]; ok {
			filtered = append(filtered, h)
			if len(filtered) == k {
				break
			}
		}
	}
	return filtered, nil
}

// toCandidates converts index hits into ranked candidates.
func (s *VectorStrategy) toCandidates(hits []ScoredID, k int) []discovery.CandidateResult {
	if len(hits) > k {
		hits = hits[:k]
	}
	candidates := make([]discovery.CandidateResult, len(hits))
	for i, h := range hits {
		candidates[i] = discovery.CandidateResult{
			ItemID:      h.ID,
			Provenance:  []string{discovery.LegVector},
			VectorRank:  i + 1,
			VectorScore: h.Score,
		}
	}
	return candidates
}

// embeddingText assembles the text to embed: the normalized query plus any
// extracted themes, which sharpen the semantic signal for mood queries.
func embeddingText(intent discovery.QueryIntent) string {
	if len(intent.Themes) == 0 {
		return intent.Normalized
	}
	text := intent.Normalized
	for _, t := range intent.Themes {
		text += " " + t
	}
	return text
}

// Ensure interface compliance.
var _ discovery.Strategy = (*VectorStrategy)(nil)
