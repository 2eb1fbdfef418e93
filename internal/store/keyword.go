// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/reperio/internal/discovery"
	"github.com/tomtom215/reperio/internal/discovery/retrieval"
	"github.com/tomtom215/reperio/internal/metrics"
)

// Per-field relevance weights for keyword scoring. A title hit outranks a
// genre hit outranks an overview hit, in both the BM25 and LIKE paths.
const (
	titleWeight    = 2.0
	genreWeight    = 1.5
	overviewWeight = 1.0
)

// KeywordIndex is the lexical retrieval view over the store. It implements
// retrieval.InvertedIndex with DuckDB's FTS extension (BM25 via
// match_bm25), falling back to weighted LIKE matching when the extension
// is unavailable.
type KeywordIndex struct {
	store *Store
}

// NewKeywordIndex creates the keyword view.
func NewKeywordIndex(store *Store) *KeywordIndex {
	return &KeywordIndex{store: store}
}

// Search implements retrieval.InvertedIndex.
func (ki *KeywordIndex) Search(ctx context.Context, terms []string, k int, filter *discovery.Filters) ([]retrieval.ScoredID, error) {
	if len(terms) == 0 || k <= 0 {
		return nil, nil
	}

	start := time.Now()
	var (
		hits []retrieval.ScoredID
		err  error
	)
	if ki.store.ftsAvailable {
		hits, err = ki.searchBM25(ctx, terms, k, filter)
	} else {
		hits, err = ki.searchLike(ctx, terms, k, filter)
	}
	metrics.RecordDBQuery("search", "catalog_items", time.Since(start), err)
	return hits, err
}

// searchBM25 scores with the FTS index, blending per-field BM25 scores.
func (ki *KeywordIndex) searchBM25(ctx context.Context, terms []string, k int, filter *discovery.Filters) ([]retrieval.ScoredID, error) {
	queryText := strings.Join(terms, " ")
	filterClause, filterArgs := buildFilterClause(filter)

	query := fmt.Sprintf(`
		WITH scored AS (
			SELECT i.id,
			       COALESCE(fts_main_catalog_items.match_bm25(i.id, ?, fields := 'title'), 0) * %g +
			       COALESCE(fts_main_catalog_items.match_bm25(i.id, ?, fields := 'genres_text'), 0) * %g +
			       COALESCE(fts_main_catalog_items.match_bm25(i.id, ?, fields := 'overview'), 0) * %g AS score
			FROM catalog_items i
			WHERE 1 = 1%s
		)
		SELECT id, score FROM scored
		WHERE score > 0
		ORDER BY score DESC, id ASC
		LIMIT ?`, titleWeight, genreWeight, overviewWeight, filterClause)

	args := []any{queryText, queryText, queryText}
	args = append(args, filterArgs...)
	args = append(args, k)

	return ki.queryScored(ctx, query, args)
}

// searchLike is the extension-free fallback: each term contributes its
// field weight per field it appears in. Coarser than BM25 but preserves
// the field priority and stays deterministic.
func (ki *KeywordIndex) searchLike(ctx context.Context, terms []string, k int, filter *discovery.Filters) ([]retrieval.ScoredID, error) {
	var scoreExprs []string
	var args []any
	for _, term := range terms {
		pattern := "%" + strings.ToLower(term) + "%"
		scoreExprs = append(scoreExprs,
			fmt.Sprintf(`(CASE WHEN lower(i.title) LIKE ? THEN %g ELSE 0 END
			 + CASE WHEN list_contains(string_split(i.genres_text, ' '), ?) THEN %g ELSE 0 END
			 + CASE WHEN lower(i.overview) LIKE ? THEN %g ELSE 0 END)`,
				titleWeight, genreWeight, overviewWeight))
		args = append(args, pattern, strings.ToLower(term), pattern)
	}

	filterClause, filterArgs := buildFilterClause(filter)
	query := fmt.Sprintf(`
		WITH scored AS (
			SELECT i.id, %s AS score
			FROM catalog_items i
			WHERE 1 = 1%s
		)
		SELECT id, score FROM scored
		WHERE score > 0
		ORDER BY score DESC, id ASC
		LIMIT ?`, strings.Join(scoreExprs, " + "), filterClause)

	args = append(args, filterArgs...)
	args = append(args, k)

	return ki.queryScored(ctx, query, args)
}

func (ki *KeywordIndex) queryScored(ctx context.Context, query string, args []any) ([]retrieval.ScoredID, error) {
	rows, err := ki.store.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	defer rows.Close()

	var hits []retrieval.ScoredID
	for rows.Next() {
		var hit retrieval.ScoredID
		if err := rows.Scan(&hit.ID, &hit.Score); err != nil {
			return nil, fmt.Errorf("scan keyword hit: %w", err)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keyword hits: %w", err)
	}
	return hits, nil
}

// Ensure interface compliance.
var _ retrieval.InvertedIndex = (*KeywordIndex)(nil)
