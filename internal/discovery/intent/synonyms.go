// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package intent

import (
	"strings"
	"sync"
)

// defaultSynonyms seeds the synonym table with common query vocabulary.
// Expansions feed the keyword retrieval leg only; the canonical query text
// is never mutated by expansion.
var defaultSynonyms = map[string][]string{
	"movie":    {"film"},
	"film":     {"movie"},
	"show":     {"series"},
	"series":   {"show"},
	"scary":    {"horror"},
	"funny":    {"comedy"},
	"space":    {"sci-fi"},
	"spooky":   {"horror"},
	"romantic": {"romance"},
	"kids":     {"family", "children"},
	"doc":      {"documentary"},
}

// Synonyms is a reloadable term expansion table. Safe for concurrent use.
type Synonyms struct {
	mu    sync.RWMutex
	table map[string][]string
}

// NewSynonyms creates a synonym table seeded with the default vocabulary.
func NewSynonyms() *Synonyms {
	table := make(map[string][]string, len(defaultSynonyms))
	for k, v := range defaultSynonyms {
		table[k] = append([]string(nil), v...)
	}
	return &Synonyms{table: table}
}

// Replace swaps the synonym table.
func (s *Synonyms) Replace(table map[string][]string) {
	clone := make(map[string][]string, len(table))
	for k, v := range table {
		clone[strings.ToLower(k)] = append([]string(nil), v...)
	}
	s.mu.Lock()
	s.table = clone
	s.mu.Unlock()
}

// Expand returns the tokens followed by their synonym expansions, each
// expansion appearing once and never duplicating an original token.
func (s *Synonyms) Expand(tokens []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		lower := strings.ToLower(t)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, t)
	}

	for _, t := range tokens {
		for _, alt := range s.table[strings.ToLower(t)] {
			if _, ok := seen[alt]; ok {
				continue
			}
			seen[alt] = struct{}{}
			out = append(out, alt)
		}
	}
	return out
}
