// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/reperio/internal/discovery"
)

type fakeInvertedIndex struct {
	hits []ScoredID
	err  error

	lastTerms  []string
	lastFilter *discovery.Filters
}

func (f *fakeInvertedIndex) Search(_ context.Context, terms []string, _ int, filter *discovery.Filters) ([]ScoredID, error) {
	f.lastTerms = terms
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

func TestKeywordSearchUsesExpandedTerms(t *testing.T) {
	index := &fakeInvertedIndex{hits: []ScoredID{{ID: "a", Score: 12.5}}}
	s := NewKeywordStrategy(index)

	intent := discovery.QueryIntent{
		Tokens:       []string{"scary", "movie"},
		KeywordTerms: []string{"scary", "movie", "horror", "film"},
	}
	got, err := s.Search(context.Background(), intent, discovery.Filters{}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(index.lastTerms) != 4 || index.lastTerms[2] != "horror" {
		t.Errorf("query terms = %v, want synonym-expanded terms", index.lastTerms)
	}
	if len(got) != 1 || got[0].ItemID != "a" || got[0].KeywordRank != 1 {
		t.Errorf("candidates = %+v", got)
	}
}

func TestKeywordSearchFallsBackToTokens(t *testing.T) {
	index := &fakeInvertedIndex{}
	s := NewKeywordStrategy(index)

	intent := discovery.QueryIntent{Tokens: []string{"alien"}}
	if _, err := s.Search(context.Background(), intent, discovery.Filters{}, 10); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(index.lastTerms) != 1 || index.lastTerms[0] != "alien" {
		t.Errorf("query terms = %v, want raw tokens when no expansion exists", index.lastTerms)
	}
}

func TestKeywordSearchEmptyQueryReturnsNothing(t *testing.T) {
	index := &fakeInvertedIndex{}
	s := NewKeywordStrategy(index)

	got, err := s.Search(context.Background(), discovery.QueryIntent{}, discovery.Filters{}, 10)
	if err != nil || got != nil {
		t.Errorf("Search on empty intent = (%v, %v), want (nil, nil) without touching the index", got, err)
	}
}

func TestKeywordSearchPushesFilters(t *testing.T) {
	index := &fakeInvertedIndex{}
	s := NewKeywordStrategy(index)

	intent := discovery.QueryIntent{Tokens: []string{"alien"}}
	filters := discovery.Filters{Genres: []string{"sci-fi"}}
	if _, err := s.Search(context.Background(), intent, filters, 10); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if index.lastFilter == nil || len(index.lastFilter.Genres) != 1 {
		t.Errorf("filter = %+v, want facets pushed into the index", index.lastFilter)
	}
}

func TestKeywordSearchIndexFailureFailsLeg(t *testing.T) {
	s := NewKeywordStrategy(&fakeInvertedIndex{err: errors.New("fts extension missing")})

	_, err := s.Search(context.Background(), discovery.QueryIntent{Tokens: []string{"q"}}, discovery.Filters{}, 10)
	if err == nil {
		t.Errorf("Search = nil error, want index failure propagated to the engine")
	}
}
