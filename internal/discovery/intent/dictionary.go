// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package intent

import (
	"strings"
	"sync"
)

// Dictionary is a reloadable vocabulary for spell correction, seeded from
// catalog titles and historical popular queries. Safe for concurrent use;
// Replace swaps the whole vocabulary atomically so lookups never see a
// partially loaded set.
type Dictionary struct {
	mu    sync.RWMutex
	terms map[string]struct{}

	// byLength buckets terms by rune count so correction candidates are
	// limited to terms within edit distance of the query token's length.
	byLength map[int][]string
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	d := &Dictionary{}
	d.Replace(nil)
	return d
}

// Replace swaps the vocabulary. Terms are lowercased and split into words;
// multi-word titles contribute each word plus the full phrase.
func (d *Dictionary) Replace(terms []string) {
	byTerm := make(map[string]struct{}, len(terms))
	byLength := make(map[int][]string)

	add := func(term string) {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			return
		}
		if _, ok := byTerm[term]; ok {
			return
		}
		byTerm[term] = struct{}{}
		n := len([]rune(term))
		byLength[n] = append(byLength[n], term)
	}

	for _, term := range terms {
		add(term)
		for _, word := range strings.Fields(term) {
			add(word)
		}
	}

	d.mu.Lock()
	d.terms = byTerm
	d.byLength = byLength
	d.mu.Unlock()
}

// Contains reports whether the exact term is in the vocabulary.
func (d *Dictionary) Contains(term string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.terms[strings.ToLower(term)]
	return ok
}

// Size returns the number of distinct terms.
func (d *Dictionary) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.terms)
}

// Nearest returns the vocabulary term closest to token within maxDistance
// edits, and its distance. Exact matches return immediately with distance
// zero. Ties prefer the shorter term, then lexicographic order, so
// corrections are deterministic. ok is false when nothing is within range.
func (d *Dictionary) Nearest(token string, maxDistance int) (term string, distance int, ok bool) {
	token = strings.ToLower(token)

	d.mu.RLock()
	defer d.mu.RUnlock()

	if _, exact := d.terms[token]; exact {
		return token, 0, true
	}

	n := len([]rune(token))
	best := maxDistance + 1

	for length := n - maxDistance; length <= n+maxDistance; length++ {
		if length <= 0 {
			continue
		}
		for _, candidate := range d.byLength[length] {
			dist := editDistance(token, candidate, best-1)
			if dist < 0 {
				continue
			}
			if dist < best || (dist == best && better(candidate, term)) {
				best = dist
				term = candidate
				ok = true
			}
		}
	}

	if !ok {
		return "", 0, false
	}
	return term, best, true
}

// better is the tie-break order for equally distant candidates.
func better(a, b string) bool {
	if b == "" {
		return true
	}
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// editDistance computes the Levenshtein distance between two strings,
// abandoning early and returning -1 once the distance is proven to exceed
// limit. Runs in O(len(a)*len(b)) with two rows of state.
func editDistance(a, b string, limit int) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(rb)-len(ra) > limit {
		return -1
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		rowMin := curr[0]
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[i] = minInt(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
			if curr[i] < rowMin {
				rowMin = curr[i]
			}
		}
		if rowMin > limit {
			return -1
		}
		prev, curr = curr, prev
	}

	if prev[len(ra)] > limit {
		return -1
	}
	return prev[len(ra)]
}

func minInt(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
