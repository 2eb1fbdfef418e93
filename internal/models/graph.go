// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package models

import (
	"fmt"
)

// EdgeType identifies the relationship an edge encodes between two catalog items.
type EdgeType string

// Relationship edge types recognized by graph discovery.
//
// Edge weights express relationship strength, but the type matters for
// provenance: co-watched edges come from viewing history aggregation while
// the others are derived from catalog metadata.
const (
	EdgeSimilarTo     EdgeType = "similar_to"
	EdgeSameFranchise EdgeType = "same_franchise"
	EdgeSameDirector  EdgeType = "same_director"
	EdgeSharedCast    EdgeType = "shared_cast"
	EdgeCoWatched     EdgeType = "co_watched"
)

// Valid reports whether the edge type is one of the recognized relationship types.
func (t EdgeType) Valid() bool {
	switch t {
	case EdgeSimilarTo, EdgeSameFranchise, EdgeSameDirector, EdgeSharedCast, EdgeCoWatched:
		return true
	default:
		return false
	}
}

// RelationshipEdge represents a directed, weighted relationship between two
// catalog items. Undirected relationships (same franchise, shared cast) are
// stored as two directed edges so traversal never needs to special-case
// direction.
//
// Fields:
//   - From: Source item ID
//   - To: Target item ID
//   - Type: Relationship type (see EdgeType constants)
//   - Weight: Relationship strength in (0, 1]
type RelationshipEdge struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Type   EdgeType `json:"type"`
	Weight float64  `json:"weight"`
}

// Validate checks edge structural invariants. Graph traversal assumes every
// edge it reads has already passed this check at ingest time.
func (e *RelationshipEdge) Validate() error {
	if e.From == "" {
		return fmt.Errorf("edge source item ID is empty")
	}
	if e.To == "" {
		return fmt.Errorf("edge target item ID is empty")
	}
	if e.From == e.To {
		return fmt.Errorf("edge connects item %s to itself", e.From)
	}
	if !e.Type.Valid() {
		return fmt.Errorf("unknown edge type %q", e.Type)
	}
	if e.Weight <= 0 || e.Weight > 1 {
		return fmt.Errorf("edge weight %g outside (0, 1]", e.Weight)
	}
	return nil
}
