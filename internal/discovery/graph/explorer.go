// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

// Package graph implements bounded breadth-first discovery over the
// relationship graph. Traversal is an explicit frontier loop with a
// visited set and a monotonically decremented edge budget; there is no
// recursion and no way for a densely connected item to run the walk
// unbounded.
package graph

import (
	"context"
	"fmt"
	"math"

	"github.com/tomtom215/reperio/internal/discovery"
	"github.com/tomtom215/reperio/internal/models"
)

// EdgeSource supplies outgoing relationship edges, usually backed by the
// store. A nil or empty types slice returns edges of every type.
type EdgeSource interface {
	EdgesFrom(ctx context.Context, itemID string, types []models.EdgeType) ([]models.RelationshipEdge, error)
}

// Config bounds a traversal.
type Config struct {
	// MaxDepth is the hop bound; discoveries beyond it are unreachable.
	MaxDepth int

	// DecayBase discounts contributions per hop: a discovery at depth d
	// contributes pathWeight * DecayBase^d. Must be in (0, 1].
	DecayBase float64

	// MaxTraversals is the per-request edge visit budget. The walk halts
	// mid-frontier when it runs out, whichever of depth and budget comes
	// first. It exists to bound worst-case latency on dense neighborhoods.
	MaxTraversals int
}

// DefaultConfig returns the default traversal bounds.
func DefaultConfig() Config {
	return Config{
		MaxDepth:      3,
		DecayBase:     0.7,
		MaxTraversals: 100,
	}
}

// Validate checks traversal bound invariants.
func (c Config) Validate() error {
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max depth must be positive, got %d", c.MaxDepth)
	}
	if c.DecayBase <= 0 || c.DecayBase > 1 {
		return fmt.Errorf("decay base %g outside (0, 1]", c.DecayBase)
	}
	if c.MaxTraversals <= 0 {
		return fmt.Errorf("max traversals must be positive, got %d", c.MaxTraversals)
	}
	return nil
}

// Explorer walks the relationship graph from seed items. It implements
// discovery.GraphExplorer and is safe for concurrent use; all traversal
// state is request-scoped.
type Explorer struct {
	edges  EdgeSource
	config Config
}

// NewExplorer creates an explorer over the given edge source.
func NewExplorer(edges EdgeSource, cfg Config) (*Explorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph config: %w", err)
	}
	return &Explorer{edges: edges, config: cfg}, nil
}

// frontierEntry is one item awaiting expansion, with the product of edge
// weights along the path that reached it.
type frontierEntry struct {
	itemID     string
	pathWeight float64
}

// Explore implements discovery.GraphExplorer.
//
// Each edge visit decrements the traversal budget. A newly reached item at
// depth d contributes pathWeight * edgeWeight * DecayBase^d to its score;
// contributions accumulate additively across independent paths, so an item
// reachable two ways scores higher than either path alone (multi-path
// boost). The visited set stops re-expansion, not re-scoring: arrivals at
// an already visited item still add their contribution. Seeds themselves
// are never reported as discoveries.
func (e *Explorer) Explore(ctx context.Context, seeds []string, maxDepth int) (discovery.ExploreResult, error) {
	if maxDepth <= 0 || maxDepth > e.config.MaxDepth {
		maxDepth = e.config.MaxDepth
	}

	result := discovery.ExploreResult{Scores: make(map[string]float64)}
	if len(seeds) == 0 {
		return result, nil
	}

	seedSet := make(map[string]struct{}, len(seeds))
	visited := make(map[string]struct{}, len(seeds))
	frontier := make([]frontierEntry, 0, len(seeds))
	for _, id := range seeds {
		if _, dup := seedSet[id]; dup {
			continue
		}
		seedSet[id] = struct{}{}
		visited[id] = struct{}{}
		frontier = append(frontier, frontierEntry{itemID: id, pathWeight: 1.0})
	}

	budget := e.config.MaxTraversals

	for depth := 1; depth <= maxDepth && len(frontier) > 0 && budget > 0; depth++ {
		decay := math.Pow(e.config.DecayBase, float64(depth))
		next := make([]frontierEntry, 0, len(frontier))

		for _, entry := range frontier {
			if budget <= 0 {
				break
			}
			if err := ctx.Err(); err != nil {
				return discovery.ExploreResult{}, err
			}

			edges, err := e.edges.EdgesFrom(ctx, entry.itemID, nil)
			if err != nil {
				return discovery.ExploreResult{}, fmt.Errorf("edges from %s: %w", entry.itemID, err)
			}

			for i := range edges {
				if budget <= 0 {
					break
				}
				budget--
				result.EdgesVisited++

				edge := &edges[i]
				weight := entry.pathWeight * edge.Weight

				if _, isSeed := seedSet[edge.To]; !isSeed {
					result.Scores[edge.To] += weight * decay
				}

				if _, seen := visited[edge.To]; !seen {
					visited[edge.To] = struct{}{}
					next = append(next, frontierEntry{itemID: edge.To, pathWeight: weight})
				}
			}
		}

		result.MaxDepthReached = depth
		frontier = next
	}

	result.BudgetExhausted = budget <= 0
	return result, nil
}

// Ensure interface compliance.
var _ discovery.GraphExplorer = (*Explorer)(nil)
