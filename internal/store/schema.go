// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package store

import (
	"context"
	"fmt"
	"time"
)

// Schema notes:
//   - List-valued metadata (genres, directors, cast) is stored as JSON text;
//     genres_text additionally carries the lowercased space-joined genres for
//     FTS indexing and list_contains filter pushdown.
//   - embedding is a native FLOAT[] so vector search runs as
//     list_cosine_similarity in SQL. Values are bound as their string form
//     and cast, which keeps inserts on plain placeholders.
//   - Undirected relationships are stored as two directed edges so traversal
//     never special-cases direction.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS catalog_items (
		id              VARCHAR PRIMARY KEY,
		title           VARCHAR NOT NULL,
		media_type      VARCHAR NOT NULL,
		genres          VARCHAR NOT NULL DEFAULT '[]',
		genres_text     VARCHAR NOT NULL DEFAULT '',
		genre_cluster   VARCHAR NOT NULL DEFAULT '',
		overview        VARCHAR NOT NULL DEFAULT '',
		release_date    TIMESTAMP,
		runtime_minutes INTEGER NOT NULL DEFAULT 0,
		rating          DOUBLE NOT NULL DEFAULT 0,
		popularity      DOUBLE NOT NULL DEFAULT 0,
		franchise_id    VARCHAR,
		directors       VARCHAR NOT NULL DEFAULT '[]',
		cast_members    VARCHAR NOT NULL DEFAULT '[]',
		embedding       FLOAT[],
		added_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at      TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS item_availability (
		item_id    VARCHAR NOT NULL,
		platform   VARCHAR NOT NULL,
		region     VARCHAR NOT NULL DEFAULT '',
		added_at   TIMESTAMP,
		leaving_at TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS relationship_edges (
		from_id   VARCHAR NOT NULL,
		to_id     VARCHAR NOT NULL,
		edge_type VARCHAR NOT NULL,
		weight    DOUBLE NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS user_interactions (
		user_id     VARCHAR NOT NULL,
		item_id     VARCHAR NOT NULL,
		kind        VARCHAR NOT NULL,
		value       DOUBLE NOT NULL DEFAULT 0,
		occurred_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS user_profiles (
		user_id          VARCHAR PRIMARY KEY,
		genre_weights    VARCHAR NOT NULL DEFAULT '{}',
		platform_weights VARCHAR NOT NULL DEFAULT '{}',
		centroid         VARCHAR NOT NULL DEFAULT '[]',
		updated_at       TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS popular_queries (
		query     VARCHAR PRIMARY KEY,
		hits      BIGINT NOT NULL DEFAULT 0,
		last_seen TIMESTAMP NOT NULL
	)`,
}

var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_availability_item ON item_availability (item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_from ON relationship_edges (from_id)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_user ON user_interactions (user_id, occurred_at)`,
	`CREATE INDEX IF NOT EXISTS idx_items_release ON catalog_items (release_date)`,
}

// createSchema creates all tables and indexes.
func (s *Store) createSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, stmt := range schemaStatements {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	for _, stmt := range indexStatements {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
