// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/reperio/internal/discovery"
	"github.com/tomtom215/reperio/internal/discovery/retrieval"
	"github.com/tomtom215/reperio/internal/metrics"
)

// VectorIndex is the semantic retrieval view over the store. It implements
// retrieval.VectorIndex with a brute-force list_cosine_similarity scan,
// which is exact and fast enough for catalogs in the tens of thousands;
// an approximate index would earn its complexity only well beyond that.
//
// A non-nil filter is pushed into the scan's WHERE clause, so similarity
// ranks only the already-filtered universe (pre-filtering).
type VectorIndex struct {
	store *Store
}

// NewVectorIndex creates the vector view.
func NewVectorIndex(store *Store) *VectorIndex {
	return &VectorIndex{store: store}
}

// Search implements retrieval.VectorIndex. Items without an embedding are
// invisible to the semantic leg.
func (vi *VectorIndex) Search(ctx context.Context, vector []float32, k int, filter *discovery.Filters) ([]retrieval.ScoredID, error) {
	if len(vector) == 0 || k <= 0 {
		return nil, nil
	}

	start := time.Now()
	filterClause, filterArgs := buildFilterClause(filter)

	query := fmt.Sprintf(`
		SELECT i.id, list_cosine_similarity(i.embedding, CAST(? AS FLOAT[])) AS score
		FROM catalog_items i
		WHERE i.embedding IS NOT NULL%s
		ORDER BY score DESC, i.id ASC
		LIMIT ?`, filterClause)

	args := []any{encodeFloats(vector)}
	args = append(args, filterArgs...)
	args = append(args, k)

	rows, err := vi.store.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("search", "catalog_items_vector", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var hits []retrieval.ScoredID
	for rows.Next() {
		var hit retrieval.ScoredID
		if err := rows.Scan(&hit.ID, &hit.Score); err != nil {
			return nil, fmt.Errorf("scan vector hit: %w", err)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vector hits: %w", err)
	}
	return hits, nil
}

// Ensure interface compliance.
var _ retrieval.VectorIndex = (*VectorIndex)(nil)
