// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package graph

import (
	"context"
	"fmt"
	"testing"

	"github.com/tomtom215/reperio/internal/models"
)

// memEdges is an in-memory adjacency map edge source.
type memEdges struct {
	edges map[string][]models.RelationshipEdge
	calls int
}

func (m *memEdges) EdgesFrom(_ context.Context, itemID string, _ []models.EdgeType) ([]models.RelationshipEdge, error) {
	m.calls++
	return m.edges[itemID], nil
}

func edge(from, to string, weight float64) models.RelationshipEdge {
	return models.RelationshipEdge{From: from, To: to, Type: models.EdgeSimilarTo, Weight: weight}
}

func newTestExplorer(t *testing.T, edges *memEdges, cfg Config) *Explorer {
	t.Helper()
	e, err := NewExplorer(edges, cfg)
	if err != nil {
		t.Fatalf("NewExplorer: %v", err)
	}
	return e
}

func TestExploreMultiPathAccumulates(t *testing.T) {
	// Two independent depth-2 paths from the seed converge on "target":
	// seed -> a -> target (weights 1.0, 0.9)
	// seed -> b -> target (weights 1.0, 0.6)
	// With decay 0.7: 0.9*0.49 + 0.6*0.49.
	edges := &memEdges{edges: map[string][]models.RelationshipEdge{
		"seed": {edge("seed", "a", 1.0), edge("seed", "b", 1.0)},
		"a":    {edge("a", "target", 0.9)},
		"b":    {edge("b", "target", 0.6)},
	}}
	e := newTestExplorer(t, edges, DefaultConfig())

	result, err := e.Explore(context.Background(), []string{"seed"}, 3)
	if err != nil {
		t.Fatalf("Explore: %v", err)
	}

	want := 0.9*0.49 + 0.6*0.49
	if !closeTo(result.Scores["target"], want) {
		t.Errorf("score(target) = %v, want %v (sum over both paths)", result.Scores["target"], want)
	}

	// Either single path alone scores lower than the sum.
	if single := 0.9 * 0.49; result.Scores["target"] <= single {
		t.Errorf("multi-path score %v not above best single path %v", result.Scores["target"], single)
	}
}

func TestExploreDepthDecay(t *testing.T) {
	edges := &memEdges{edges: map[string][]models.RelationshipEdge{
		"seed": {edge("seed", "hop1", 1.0)},
		"hop1": {edge("hop1", "hop2", 1.0)},
		"hop2": {edge("hop2", "hop3", 1.0)},
	}}
	e := newTestExplorer(t, edges, DefaultConfig())

	result, err := e.Explore(context.Background(), []string{"seed"}, 3)
	if err != nil {
		t.Fatalf("Explore: %v", err)
	}

	for name, want := range map[string]float64{
		"hop1": 0.7,
		"hop2": 0.49,
		"hop3": 0.343,
	} {
		if !closeTo(result.Scores[name], want) {
			t.Errorf("score(%s) = %v, want %v", name, result.Scores[name], want)
		}
	}
	if result.MaxDepthReached != 3 {
		t.Errorf("MaxDepthReached = %d, want 3", result.MaxDepthReached)
	}
}

func TestExploreDepthBound(t *testing.T) {
	edges := &memEdges{edges: map[string][]models.RelationshipEdge{
		"seed": {edge("seed", "hop1", 1.0)},
		"hop1": {edge("hop1", "hop2", 1.0)},
		"hop2": {edge("hop2", "hop3", 1.0)},
	}}
	e := newTestExplorer(t, edges, DefaultConfig())

	result, err := e.Explore(context.Background(), []string{"seed"}, 2)
	if err != nil {
		t.Fatalf("Explore: %v", err)
	}
	if _, ok := result.Scores["hop3"]; ok {
		t.Errorf("hop3 discovered beyond the depth bound")
	}
	if _, ok := result.Scores["hop2"]; !ok {
		t.Errorf("hop2 within the depth bound missing")
	}
}

func TestExploreBudgetBoundsDenseGraph(t *testing.T) {
	// A dense synthetic graph: 30 first-hop neighbors each fanning out to 30
	// more. Unbounded traversal would visit 930 edges.
	adjacency := make(map[string][]models.RelationshipEdge)
	for i := 0; i < 30; i++ {
		mid := fmt.Sprintf("mid-%02d", i)
		adjacency["seed"] = append(adjacency["seed"], edge("seed", mid, 0.9))
		for j := 0; j < 30; j++ {
			adjacency[mid] = append(adjacency[mid], edge(mid, fmt.Sprintf("leaf-%02d-%02d", i, j), 0.8))
		}
	}
	edges := &memEdges{edges: adjacency}

	cfg := DefaultConfig()
	cfg.MaxTraversals = 100
	e := newTestExplorer(t, edges, cfg)

	result, err := e.Explore(context.Background(), []string{"seed"}, 3)
	if err != nil {
		t.Fatalf("Explore: %v", err)
	}

	if result.EdgesVisited > cfg.MaxTraversals {
		t.Errorf("EdgesVisited = %d, want <= budget %d", result.EdgesVisited, cfg.MaxTraversals)
	}
	if !result.BudgetExhausted {
		t.Errorf("BudgetExhausted = false, want true on a dense graph")
	}
	if len(result.Scores) == 0 {
		t.Errorf("partial traversal returned no discoveries")
	}
}

func TestExploreSeedsNeverDiscovered(t *testing.T) {
	edges := &memEdges{edges: map[string][]models.RelationshipEdge{
		"s1": {edge("s1", "s2", 1.0), edge("s1", "other", 0.8)},
		"s2": {edge("s2", "s1", 1.0)},
	}}
	e := newTestExplorer(t, edges, DefaultConfig())

	result, err := e.Explore(context.Background(), []string{"s1", "s2"}, 2)
	if err != nil {
		t.Fatalf("Explore: %v", err)
	}
	if _, ok := result.Scores["s1"]; ok {
		t.Errorf("seed s1 reported as a discovery")
	}
	if _, ok := result.Scores["s2"]; ok {
		t.Errorf("seed s2 reported as a discovery")
	}
	if _, ok := result.Scores["other"]; !ok {
		t.Errorf("non-seed discovery missing")
	}
}

func TestExploreVisitedStopsReExpansionNotReScoring(t *testing.T) {
	// "hub" is reachable at depth 1 from both seeds; it must be expanded
	// once but credited twice.
	edges := &memEdges{edges: map[string][]models.RelationshipEdge{
		"s1":  {edge("s1", "hub", 1.0)},
		"s2":  {edge("s2", "hub", 0.5)},
		"hub": {edge("hub", "beyond", 1.0)},
	}}
	e := newTestExplorer(t, edges, DefaultConfig())

	result, err := e.Explore(context.Background(), []string{"s1", "s2"}, 2)
	if err != nil {
		t.Fatalf("Explore: %v", err)
	}

	if want := 1.0*0.7 + 0.5*0.7; !closeTo(result.Scores["hub"], want) {
		t.Errorf("score(hub) = %v, want %v (both arrivals credited)", result.Scores["hub"], want)
	}
	// Expanded once: beyond scores only via the first arrival's path weight.
	if want := 1.0 * 1.0 * 0.49; !closeTo(result.Scores["beyond"], want) {
		t.Errorf("score(beyond) = %v, want %v (hub expanded once)", result.Scores["beyond"], want)
	}
}

func TestExploreDuplicateSeedsCollapse(t *testing.T) {
	edges := &memEdges{edges: map[string][]models.RelationshipEdge{
		"seed": {edge("seed", "n", 1.0)},
	}}
	e := newTestExplorer(t, edges, DefaultConfig())

	result, err := e.Explore(context.Background(), []string{"seed", "seed"}, 1)
	if err != nil {
		t.Fatalf("Explore: %v", err)
	}
	if !closeTo(result.Scores["n"], 0.7) {
		t.Errorf("score(n) = %v, want 0.7 (duplicate seed must not double-credit)", result.Scores["n"])
	}
	if result.EdgesVisited != 1 {
		t.Errorf("EdgesVisited = %d, want 1", result.EdgesVisited)
	}
}

func TestExploreEmptySeeds(t *testing.T) {
	e := newTestExplorer(t, &memEdges{}, DefaultConfig())
	result, err := e.Explore(context.Background(), nil, 3)
	if err != nil {
		t.Fatalf("Explore: %v", err)
	}
	if len(result.Scores) != 0 || result.EdgesVisited != 0 {
		t.Errorf("empty seeds produced work: %+v", result)
	}
}

func TestExploreCancelledContext(t *testing.T) {
	edges := &memEdges{edges: map[string][]models.RelationshipEdge{
		"seed": {edge("seed", "n", 1.0)},
	}}
	e := newTestExplorer(t, edges, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Explore(ctx, []string{"seed"}, 3); err == nil {
		t.Errorf("Explore on cancelled context = nil error, want context error")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero depth", func(c *Config) { c.MaxDepth = 0 }},
		{"zero decay", func(c *Config) { c.DecayBase = 0 }},
		{"decay above one", func(c *Config) { c.DecayBase = 1.5 }},
		{"zero budget", func(c *Config) { c.MaxTraversals = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() = nil, want error")
			}
		})
	}
}

func closeTo(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
