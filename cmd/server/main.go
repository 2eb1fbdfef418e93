// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

// Package main is the entry point for the Reperio server.
//
// Reperio is a self-hosted content discovery engine for entertainment
// catalogs: query-intent parsing, parallel vector and keyword retrieval,
// bounded relationship-graph discovery, reciprocal rank fusion,
// multi-factor ranking with genre diversity, and optional
// personalization — exposed over a small versioned HTTP API.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, YAML file and REPERIO_* env (Koanf v2)
//  2. Store: embedded DuckDB catalog (items, edges, history, popular queries)
//  3. Discovery engine: intent parser, retrieval legs, graph explorer,
//     personalization adapter
//  4. Result cache: in-memory or BadgerDB backend, autocomplete trie
//  5. Events: invalidation bus (in-process channel, or NATS JetStream with
//     an optional embedded server)
//  6. HTTP server: chi router under /api/v1 plus probes and /metrics
//  7. Supervision: a suture tree restarts crashed services per layer
//
// # Degradation model
//
// Every optional collaborator can be absent: without the embedding
// service the vector leg is skipped, without personalization the
// preference factor is zero, without NATS invalidation stays in-process,
// without the cache every request computes fresh. The pipeline answers
// as long as the store is reachable.
//
// # Example Usage
//
// Standalone with the demo catalog:
//
//	export REPERIO_SEED_MOCK_DATA=true
//	./reperio
//
// With semantic retrieval and multi-node invalidation:
//
//	export REPERIO_EMBEDDING_ENABLED=true
//	export REPERIO_EMBEDDING_URL=http://embedder:8080
//	export REPERIO_NATS_ENABLED=true
//	export REPERIO_NATS_URL=nats://nats:4222
//	./reperio
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests (10s timeout), the invalidation consumer acks its
// last message, then the store and cache close.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/reperio/internal/api"
	"github.com/tomtom215/reperio/internal/cache"
	"github.com/tomtom215/reperio/internal/config"
	"github.com/tomtom215/reperio/internal/logging"
	"github.com/tomtom215/reperio/internal/store"
	"github.com/tomtom215/reperio/internal/supervisor"
	"github.com/tomtom215/reperio/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("embedding", cfg.Embedding.Enabled).
		Bool("personalization", cfg.Personalization.Enabled).
		Bool("nats", cfg.NATS.Enabled).
		Msg("Configuration loaded")

	db, err := store.New(&cfg.Database, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open catalog store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog store")
		}
	}()

	if cfg.Database.SeedMockData {
		logging.Info().Msg("Mock data seeding enabled (REPERIO_SEED_MOCK_DATA=true)")
		if err := db.SeedMockData(context.Background()); err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed mock data")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Result cache backend. The janitor service only makes sense for the
	// memory backend; badger expires entries itself.
	results, memStore, err := buildResultCache(cfg, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open result cache backend")
	}
	defer func() {
		if err := results.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing result cache")
		}
	}()
	autocomplete := cache.NewAutocomplete()

	engine, vocab, err := buildEngine(cfg, db, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build discovery engine")
	}

	bus, err := initEvents(ctx, cfg, results, db, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize invalidation bus")
	}
	defer bus.Close()

	handler := api.NewHandler(engine, results, autocomplete, db, bus.APIPublisher(), cfg.API, cfg.Cache.ResultTTL, logger)
	health := api.NewHealthHandler(db)
	mw := api.NewMiddleware(&api.MiddlewareConfig{
		CORSAllowedOrigins:   cfg.API.CORSOrigins,
		CORSAllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		CORSAllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		CORSMaxAge:           86400,
		RateLimitRequests:    cfg.API.RateLimitReqs,
		RateLimitWindow:      cfg.API.RateLimitWindow,
		RateLimitDisabled:    cfg.API.RateLimitDisabled,
		CORSAllowCredentials: false,
	})
	if cfg.API.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (REPERIO_DISABLE_RATE_LIMIT=true)")
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(handler, health, mw),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === SUPERVISION TREE ===

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	// Store layer: background maintenance over the embedded store.
	if memStore != nil {
		tree.AddStoreService(services.NewJanitorService(memStore, time.Minute, logger))
	}
	tree.AddStoreService(services.NewDictionaryService(db, vocab, autocomplete, cfg.Dictionary.RefreshInterval, cfg.Cache.AutocompleteSize, logger))

	// Messaging layer: embedded NATS (optional) and the invalidation
	// consumer. A crashing messaging layer leaves the API serving
	// (possibly stale) cached results.
	if cfg.NATS.Enabled && cfg.NATS.EmbeddedServer {
		tree.AddMessagingService(services.NewNATSServerService(&cfg.NATS, logger))
		logging.Info().Str("store_dir", cfg.NATS.StoreDir).Msg("Embedded NATS server added to supervisor tree")
	}
	tree.AddMessagingService(services.NewInvalidationService(bus.Consumer(), logger))

	// API layer.
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
