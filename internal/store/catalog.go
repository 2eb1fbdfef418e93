// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/reperio/internal/discovery"
	"github.com/tomtom215/reperio/internal/metrics"
	"github.com/tomtom215/reperio/internal/models"
)

// UpsertItems writes catalog items, replacing existing rows and their
// availability windows. The FTS index is a snapshot; callers rebuild it
// via RebuildSearchIndex after bulk writes.
func (s *Store) UpsertItems(ctx context.Context, items []models.CatalogItem) error {
	if len(items) == 0 {
		return nil
	}
	start := time.Now()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const upsertSQL = `
		INSERT OR REPLACE INTO catalog_items (
			id, title, media_type, genres, genres_text, genre_cluster,
			overview, release_date, runtime_minutes, rating, popularity,
			franchise_id, directors, cast_members, embedding, added_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CAST(NULLIF(?, '') AS FLOAT[]), ?, ?)`

	for i := range items {
		item := &items[i]
		addedAt := item.AddedAt
		if addedAt.IsZero() {
			addedAt = time.Now().UTC()
		}

		var releaseDate any
		if !item.ReleaseDate.IsZero() {
			releaseDate = item.ReleaseDate
		}

		if _, err := tx.ExecContext(ctx, upsertSQL,
			item.ID, item.Title, item.MediaType,
			encodeJSON(item.Genres), genresText(item.Genres), item.GenreCluster,
			item.Overview, releaseDate, item.RuntimeMinutes, item.Rating, item.Popularity,
			item.FranchiseID, encodeJSON(item.Directors), encodeJSON(item.Cast),
			encodeFloats(item.Embedding), addedAt, time.Now().UTC(),
		); err != nil {
			return fmt.Errorf("upsert item %s: %w", item.ID, err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM item_availability WHERE item_id = ?", item.ID); err != nil {
			return fmt.Errorf("clear availability for %s: %w", item.ID, err)
		}
		for _, p := range item.Platforms {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO item_availability (item_id, platform, region, added_at, leaving_at) VALUES (?, ?, ?, ?, ?)",
				item.ID, p.Platform, p.Region, p.AddedAt, p.LeavingAt,
			); err != nil {
				return fmt.Errorf("insert availability for %s: %w", item.ID, err)
			}
		}
	}

	err = tx.Commit()
	metrics.RecordDBQuery("upsert", "catalog_items", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

// GetItems implements discovery.CatalogSource. IDs with no catalog row are
// silently absent from the result; order follows the database, not the
// input.
func (s *Store) GetItems(ctx context.Context, ids []string) ([]models.CatalogItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	start := time.Now()

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT i.id, i.title, i.media_type, i.genres, i.genre_cluster,
		       i.overview, i.release_date, i.runtime_minutes, i.rating, i.popularity,
		       i.franchise_id, i.directors, i.cast_members,
		       COALESCE(to_json(i.embedding)::VARCHAR, ''),
		       i.added_at, i.updated_at
		FROM catalog_items i
		WHERE i.id IN (%s)`, placeholders(len(ids)))

	rows, err := s.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "catalog_items", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	if err := s.attachAvailability(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func scanItems(rows *sql.Rows) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	for rows.Next() {
		var (
			item                            models.CatalogItem
			genres, directors, castMembers  string
			embedding                       string
			releaseDate, addedAt, updatedAt sql.NullTime
			franchiseID                     sql.NullString
		)
		if err := rows.Scan(
			&item.ID, &item.Title, &item.MediaType, &genres, &item.GenreCluster,
			&item.Overview, &releaseDate, &item.RuntimeMinutes, &item.Rating, &item.Popularity,
			&franchiseID, &directors, &castMembers, &embedding,
			&addedAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}

		item.Genres = decodeStrings(genres)
		item.Directors = decodeStrings(directors)
		item.Cast = decodeStrings(castMembers)
		item.Embedding = decodeFloats(embedding)
		if releaseDate.Valid {
			item.ReleaseDate = releaseDate.Time
		}
		if addedAt.Valid {
			item.AddedAt = addedAt.Time
		}
		if updatedAt.Valid {
			item.UpdatedAt = updatedAt.Time
		}
		if franchiseID.Valid {
			item.FranchiseID = &franchiseID.String
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// attachAvailability hydrates the platform windows for already-loaded items.
func (s *Store) attachAvailability(ctx context.Context, items []models.CatalogItem) error {
	byID := make(map[string]*models.CatalogItem, len(items))
	args := make([]any, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
		args[i] = items[i].ID
	}

	query := fmt.Sprintf(`
		SELECT item_id, platform, region, added_at, leaving_at
		FROM item_availability
		WHERE item_id IN (%s)
		ORDER BY item_id, platform`, placeholders(len(items)))

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query availability: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			itemID             string
			pa                 models.PlatformAvailability
			addedAt, leavingAt sql.NullTime
		)
		if err := rows.Scan(&itemID, &pa.Platform, &pa.Region, &addedAt, &leavingAt); err != nil {
			return fmt.Errorf("scan availability: %w", err)
		}
		if addedAt.Valid {
			t := addedAt.Time
			pa.AddedAt = &t
		}
		if leavingAt.Valid {
			t := leavingAt.Time
			pa.LeavingAt = &t
		}
		if item, ok := byID[itemID]; ok {
			item.Platforms = append(item.Platforms, pa)
		}
	}
	return rows.Err()
}

// ItemCount returns the number of catalog items, for readiness reporting.
func (s *Store) ItemCount(ctx context.Context) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx, "SELECT count(*) FROM catalog_items").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

// Ensure interface compliance.
var _ discovery.CatalogSource = (*Store)(nil)
