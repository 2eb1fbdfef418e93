// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package store

import (
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reperio/internal/discovery"
)

// encodeJSON serializes a value for a JSON-text column. Encoding failures
// for the plain slices and maps stored here cannot happen; the fallback
// keeps the column parseable anyway.
func encodeJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}

func decodeStrings(data string) []string {
	if data == "" || data == "null" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil
	}
	return out
}

func decodeWeights(data string) map[string]float64 {
	if data == "" || data == "null" {
		return nil
	}
	var out map[string]float64
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil
	}
	return out
}

func decodeFloats(data string) []float32 {
	if data == "" || data == "null" {
		return nil
	}
	var out []float32
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil
	}
	return out
}

// encodeFloats renders a vector in DuckDB's list literal form, bound as a
// string and cast to FLOAT[] in SQL. An empty vector encodes as '' which
// NULLIF turns into SQL NULL.
func encodeFloats(vec []float32) string {
	if len(vec) == 0 {
		return ""
	}
	return encodeJSON(vec)
}

// genresText builds the lowercased space-joined genre field indexed by FTS
// and matched by filter pushdown.
func genresText(genres []string) string {
	if len(genres) == 0 {
		return ""
	}
	lowered := make([]string, len(genres))
	for i, g := range genres {
		lowered[i] = strings.ToLower(strings.TrimSpace(g))
	}
	return strings.Join(lowered, " ")
}

// placeholders returns a comma-joined run of n SQL placeholders.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// buildFilterClause renders facet filters as AND-able SQL conditions over
// the catalog_items alias "i". The caller prepends its own WHERE
// conditions; an empty clause means no constraint.
//
// Genre and platform filters are disjunctive within the facet and
// conjunctive across facets, matching the retrieval contract.
func buildFilterClause(f *discovery.Filters) (string, []any) {
	if f == nil || f.IsZero() {
		return "", nil
	}

	var clauses []string
	var args []any

	if len(f.Genres) > 0 {
		ors := make([]string, len(f.Genres))
		for idx, g := range f.Genres {
			ors[idx] = "list_contains(string_split(i.genres_text, ' '), ?)"
			args = append(args, strings.ToLower(g))
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}

	if len(f.Platforms) > 0 {
		ors := make([]string, len(f.Platforms))
		for idx, p := range f.Platforms {
			ors[idx] = `EXISTS (
				SELECT 1 FROM item_availability a
				WHERE a.item_id = i.id
				  AND lower(a.platform) = lower(?)
				  AND (a.leaving_at IS NULL OR a.leaving_at > now())
			)`
			args = append(args, p)
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}

	if f.YearMin > 0 {
		clauses = append(clauses, "i.release_date IS NOT NULL AND year(i.release_date) >= ?")
		args = append(args, f.YearMin)
	}
	if f.YearMax > 0 {
		clauses = append(clauses, "i.release_date IS NOT NULL AND year(i.release_date) <= ?")
		args = append(args, f.YearMax)
	}
	if f.RatingMin > 0 {
		clauses = append(clauses, "i.rating >= ?")
		args = append(args, f.RatingMin)
	}
	if f.RatingMax > 0 {
		clauses = append(clauses, "i.rating <= ?")
		args = append(args, f.RatingMax)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " AND " + strings.Join(clauses, " AND "), args
}
