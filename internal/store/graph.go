// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/reperio/internal/discovery/graph"
	"github.com/tomtom215/reperio/internal/metrics"
	"github.com/tomtom215/reperio/internal/models"
)

// EdgesFrom implements graph.EdgeSource. An empty type list means every
// edge type. Edges come back strongest-first so the traversal's edge
// budget is spent on the best relationships.
func (s *Store) EdgesFrom(ctx context.Context, itemID string, types []models.EdgeType) ([]models.RelationshipEdge, error) {
	if itemID == "" {
		return nil, nil
	}
	start := time.Now()

	query := `
		SELECT from_id, to_id, edge_type, weight
		FROM relationship_edges
		WHERE from_id = ?`
	args := []any{itemID}

	if len(types) > 0 {
		query += fmt.Sprintf(" AND edge_type IN (%s)", placeholders(len(types)))
		for _, t := range types {
			args = append(args, string(t))
		}
	}
	query += " ORDER BY weight DESC, to_id ASC"

	rows, err := s.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "relationship_edges", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer rows.Close()

	var edges []models.RelationshipEdge
	for rows.Next() {
		var e models.RelationshipEdge
		if err := rows.Scan(&e.From, &e.To, &e.Type, &e.Weight); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edges: %w", err)
	}
	return edges, nil
}

// AddEdges inserts relationship edges. Edges are validated before insert;
// traversal assumes stored edges are structurally sound. Undirected
// relationships must be supplied as two directed edges.
func (s *Store) AddEdges(ctx context.Context, edges []models.RelationshipEdge) error {
	if len(edges) == 0 {
		return nil
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin edge insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range edges {
		if err := edges[i].Validate(); err != nil {
			return fmt.Errorf("edge %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO relationship_edges (from_id, to_id, edge_type, weight) VALUES (?, ?, ?, ?)",
			edges[i].From, edges[i].To, string(edges[i].Type), edges[i].Weight,
		); err != nil {
			return fmt.Errorf("insert edge %s->%s: %w", edges[i].From, edges[i].To, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit edges: %w", err)
	}
	return nil
}

// Ensure interface compliance.
var _ graph.EdgeSource = (*Store)(nil)
