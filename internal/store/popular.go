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

	"github.com/tomtom215/reperio/internal/cache"
	"github.com/tomtom215/reperio/internal/models"
)

// RecordQuery bumps the frequency of a search query. Queries are
// normalized so casing variants aggregate into one row.
func (s *Store) RecordQuery(ctx context.Context, query string) error {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO popular_queries (query, hits, last_seen)
		VALUES (?, 1, ?)
		ON CONFLICT (query) DO UPDATE SET hits = hits + 1, last_seen = excluded.last_seen`,
		query, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record query: %w", err)
	}
	return nil
}

// TopQueries returns the most frequent queries, for trending and
// autocomplete seeding.
func (s *Store) TopQueries(ctx context.Context, limit int) ([]models.PopularQuery, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT query, hits, last_seen
		FROM popular_queries
		ORDER BY hits DESC, query ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query popular queries: %w", err)
	}
	defer rows.Close()

	var queries []models.PopularQuery
	for rows.Next() {
		var q models.PopularQuery
		if err := rows.Scan(&q.Query, &q.Count, &q.LastSeen); err != nil {
			return nil, fmt.Errorf("scan popular query: %w", err)
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

// DictionaryTerms returns the vocabulary the spell corrector matches
// against: catalog titles, genre labels, and platform names. Titles
// contribute whole phrases; the dictionary splits them into words itself.
func (s *Store) DictionaryTerms(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT title FROM catalog_items
		UNION
		SELECT DISTINCT unnest(string_split(genres_text, ' ')) FROM catalog_items WHERE genres_text != ''
		UNION
		SELECT DISTINCT platform FROM item_availability`)
	if err != nil {
		return nil, fmt.Errorf("query dictionary terms: %w", err)
	}
	defer rows.Close()

	var terms []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, fmt.Errorf("scan dictionary term: %w", err)
		}
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms, rows.Err()
}

// Suggestions builds the autocomplete index content: every catalog title
// weighted by popularity, plus the top popular queries weighted by
// relative frequency. limit caps the query contribution, not titles.
func (s *Store) Suggestions(ctx context.Context, limit int) ([]cache.Suggestion, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT id, title, popularity FROM catalog_items ORDER BY popularity DESC")
	if err != nil {
		return nil, fmt.Errorf("query title suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []cache.Suggestion
	for rows.Next() {
		var sg cache.Suggestion
		if err := rows.Scan(&sg.ItemID, &sg.Text, &sg.Weight); err != nil {
			return nil, fmt.Errorf("scan title suggestion: %w", err)
		}
		sg.Kind = cache.SuggestionTitle
		suggestions = append(suggestions, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	queries, err := s.TopQueries(ctx, limit)
	if err != nil {
		return nil, err
	}
	var maxHits int64
	for _, q := range queries {
		if q.Count > maxHits {
			maxHits = q.Count
		}
	}
	for _, q := range queries {
		weight := 0.0
		if maxHits > 0 {
			weight = float64(q.Count) / float64(maxHits)
		}
		suggestions = append(suggestions, cache.Suggestion{
			Text:   q.Query,
			Kind:   cache.SuggestionQuery,
			Weight: weight,
		})
	}
	return suggestions, nil
}
