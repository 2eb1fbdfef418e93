// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package cache

import (
	"sort"
	"strings"
	"sync"
)

// Suggestion kinds.
const (
	SuggestionTitle = "title"
	SuggestionQuery = "query"
)

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	Text   string  `json:"text"`
	Kind   string  `json:"kind"`
	ItemID string  `json:"item_id,omitempty"`
	Weight float64 `json:"-"`
}

// trieNode is one rune of the suggestion prefix tree.
type trieNode struct {
	children map[rune]*trieNode
	terminal *Suggestion
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

// Autocomplete serves prefix suggestions over catalog titles and popular
// queries. Lookups walk a trie in O(len(prefix)) and rank the subtree by
// weight (popularity for titles, historical frequency for queries).
//
// The index is rebuilt wholesale by the dictionary refresher; Replace swaps
// the root atomically so lookups never observe a half-built tree.
type Autocomplete struct {
	mu   sync.RWMutex
	root *trieNode
	size int
}

// NewAutocomplete creates an empty suggestion index.
func NewAutocomplete() *Autocomplete {
	return &Autocomplete{root: newTrieNode()}
}

// Replace rebuilds the index from scratch. Duplicate texts keep the
// heavier suggestion.
func (a *Autocomplete) Replace(suggestions []Suggestion) {
	root := newTrieNode()
	size := 0

	for i := range suggestions {
		s := suggestions[i]
		key := normalize(s.Text)
		if key == "" {
			continue
		}
		node := root
		for _, ch := range key {
			child := node.children[ch]
			if child == nil {
				child = newTrieNode()
				node.children[ch] = child
			}
			node = child
		}
		if node.terminal == nil {
			size++
			node.terminal = &s
		} else if s.Weight > node.terminal.Weight {
			node.terminal = &s
		}
	}

	a.mu.Lock()
	a.root = root
	a.size = size
	a.mu.Unlock()
}

// Suggest returns up to limit suggestions matching the prefix, heaviest
// first, ties broken by text so ordering is stable.
func (a *Autocomplete) Suggest(prefix string, limit int) []Suggestion {
	if limit <= 0 {
		limit = 10
	}
	key := normalize(prefix)
	if key == "" {
		return nil
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	node := a.root
	for _, ch := range key {
		node = node.children[ch]
		if node == nil {
			return nil
		}
	}

	var matches []Suggestion
	collect(node, &matches)

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Weight != matches[j].Weight {
			return matches[i].Weight > matches[j].Weight
		}
		return matches[i].Text < matches[j].Text
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Size returns the number of indexed suggestions.
func (a *Autocomplete) Size() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.size
}

func collect(node *trieNode, out *[]Suggestion) {
	if node.terminal != nil {
		*out = append(*out, *node.terminal)
	}
	for _, child := range node.children {
		collect(child, out)
	}
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
