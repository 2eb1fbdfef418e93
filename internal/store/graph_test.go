// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package store

import (
	"context"
	"testing"

	"github.com/tomtom215/reperio/internal/models"
)

func TestEdgesFromOrdersAndFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	edges := []models.RelationshipEdge{
		{From: "a", To: "b", Type: models.EdgeSimilarTo, Weight: 0.8},
		{From: "a", To: "c", Type: models.EdgeSameFranchise, Weight: 0.9},
		{From: "a", To: "d", Type: models.EdgeSharedCast, Weight: 0.5},
		{From: "b", To: "a", Type: models.EdgeSimilarTo, Weight: 0.8},
	}
	if err := s.AddEdges(ctx, edges); err != nil {
		t.Fatalf("AddEdges: %v", err)
	}

	got, err := s.EdgesFrom(ctx, "a", nil)
	if err != nil {
		t.Fatalf("EdgesFrom: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("edges = %+v, want 3", got)
	}
	// Strongest first so budget-bounded traversal spends edges well.
	if got[0].To != "c" || got[1].To != "b" || got[2].To != "d" {
		t.Errorf("edge order = %v %v %v", got[0].To, got[1].To, got[2].To)
	}

	typed, err := s.EdgesFrom(ctx, "a", []models.EdgeType{models.EdgeSimilarTo, models.EdgeSharedCast})
	if err != nil {
		t.Fatalf("EdgesFrom typed: %v", err)
	}
	if len(typed) != 2 {
		t.Errorf("typed edges = %+v, want similar_to and shared_cast only", typed)
	}
	for _, e := range typed {
		if e.Type == models.EdgeSameFranchise {
			t.Errorf("excluded type leaked: %+v", e)
		}
	}
}

func TestAddEdgesValidates(t *testing.T) {
	s := newTestStore(t)

	bad := []models.RelationshipEdge{{From: "a", To: "a", Type: models.EdgeSimilarTo, Weight: 0.5}}
	if err := s.AddEdges(context.Background(), bad); err == nil {
		t.Errorf("AddEdges accepted a self-loop")
	}
}

func TestEdgesFromUnknownItem(t *testing.T) {
	s := newTestStore(t)

	got, err := s.EdgesFrom(context.Background(), "ghost", nil)
	if err != nil {
		t.Fatalf("EdgesFrom: %v", err)
	}
	if got != nil {
		t.Errorf("edges for unknown item = %+v, want none", got)
	}
}
