// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reperio/internal/config"
)

// Store wraps the embedded DuckDB database holding the catalog, the
// relationship graph, user history, preference profiles, and popular
// queries. The retrieval indexes (KeywordIndex, VectorIndex) are views
// over the same connection.
type Store struct {
	conn   *sql.DB
	cfg    *config.DatabaseConfig
	logger zerolog.Logger

	// ftsAvailable tracks whether the fts extension loaded; when false
	// keyword retrieval falls back to LIKE scoring.
	ftsAvailable bool
}

// New opens (or creates) the store and initializes the schema.
// An empty path opens an in-memory database, used by tests.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func New(cfg *config.DatabaseConfig, logger zerolog.Logger) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	} else {
		// Ensure parent directory exists for the database file.
		// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
		dbDir := filepath.Dir(path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("create database directory %s: %w", dbDir, err)
			}
		}
	}

	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "512MB"
	}

	// Disable auto-install/auto-load to prevent hangs in restricted network
	// environments; the fts extension is loaded explicitly below.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		path, numThreads, maxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{
		conn:   conn,
		cfg:    cfg,
		logger: logger.With().Str("component", "store").Logger(),
	}

	s.configureConnectionPool()
	s.installFTSExtension()

	if err := s.createSchema(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return s, nil
}

// configureConnectionPool sets connection pool parameters:
// max_open NumCPU() for parallelism, max_idle 2 for reuse, max_lifetime 1h
// to prevent stale connections, max_idle_time 5m for idle cleanup.
func (s *Store) configureConnectionPool() {
	s.conn.SetMaxOpenConns(runtime.NumCPU())
	s.conn.SetMaxIdleConns(2)
	s.conn.SetConnMaxLifetime(time.Hour)
	s.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// installFTSExtension installs and loads the fts extension for BM25
// keyword retrieval. The extension is optional: without it KeywordIndex
// degrades to LIKE matching, which is correct but unranked.
func (s *Store) installFTSExtension() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.conn.ExecContext(ctx, "INSTALL fts;"); err != nil {
		// May already be installed; LOAD below is authoritative.
		s.logger.Debug().Err(err).Msg("fts extension install failed")
	}
	if _, err := s.conn.ExecContext(ctx, "LOAD fts;"); err != nil {
		s.logger.Warn().Err(err).Msg("fts extension unavailable, keyword search falls back to LIKE matching")
		s.ftsAvailable = false
		return
	}
	s.ftsAvailable = true
}

// IsFTSAvailable returns whether the fts extension is loaded.
func (s *Store) IsFTSAvailable() bool {
	return s.ftsAvailable
}

// SetFTSAvailableForTesting overrides the fts availability flag so unit
// tests can exercise the LIKE fallback path deterministically.
func (s *Store) SetFTSAvailableForTesting(available bool) {
	s.ftsAvailable = available
}

// RebuildSearchIndex (re)builds the BM25 index over the catalog. Callers
// invoke it after bulk catalog writes; DuckDB's FTS index is a snapshot,
// not incrementally maintained.
func (s *Store) RebuildSearchIndex(ctx context.Context) error {
	if !s.ftsAvailable {
		return nil
	}
	_, err := s.conn.ExecContext(ctx,
		"PRAGMA create_fts_index('catalog_items', 'id', 'title', 'overview', 'genres_text', overwrite := 1);")
	if err != nil {
		s.logger.Warn().Err(err).Msg("FTS index build failed, keyword search falls back to LIKE matching")
		s.ftsAvailable = false
		return fmt.Errorf("build fts index: %w", err)
	}
	return nil
}

// Ping checks if the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if s.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return s.conn.PingContext(ctx)
}

// Conn returns the underlying SQL connection for packages needing direct
// access, such as the test harness.
func (s *Store) Conn() *sql.DB {
	return s.conn
}

// Close checkpoints and closes the database. The checkpoint flushes the
// WAL so the next startup does not replay schema statements.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := s.conn.ExecContext(ctx, "CHECKPOINT;"); err != nil {
		s.logger.Warn().Err(err).Msg("checkpoint before close failed")
	}

	return s.conn.Close()
}

func closeQuietly(conn *sql.DB) {
	_ = conn.Close()
}
