// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reperio/internal/cache"
	"github.com/tomtom215/reperio/internal/clients"
	"github.com/tomtom215/reperio/internal/config"
	"github.com/tomtom215/reperio/internal/discovery"
	"github.com/tomtom215/reperio/internal/discovery/graph"
	"github.com/tomtom215/reperio/internal/discovery/intent"
	"github.com/tomtom215/reperio/internal/discovery/personalization"
	"github.com/tomtom215/reperio/internal/discovery/retrieval"
	"github.com/tomtom215/reperio/internal/logging"
	"github.com/tomtom215/reperio/internal/store"
)

// buildResultCache selects the cache backend. The second return value is
// non-nil only for the memory backend, which needs the janitor's periodic
// sweep; badger expires entries natively.
//
//nolint:gocritic // hugeParam: zerolog loggers are passed by value
func buildResultCache(cfg *config.Config, logger zerolog.Logger) (*cache.ResultCache, *cache.MemoryStore, error) {
	if !cfg.Cache.Enabled {
		logging.Info().Msg("Result cache disabled (REPERIO_CACHE_ENABLED=false)")
		return cache.New(nil, logger), nil, nil
	}

	if cfg.Cache.BadgerEnabled {
		backend, err := cache.NewBadgerStore(cfg.Cache.BadgerPath)
		if err != nil {
			return nil, nil, fmt.Errorf("badger cache backend: %w", err)
		}
		logging.Info().Str("path", cfg.Cache.BadgerPath).Msg("Result cache using BadgerDB backend")
		return cache.New(backend, logger), nil, nil
	}

	memStore := cache.NewMemoryStore()
	return cache.New(memStore, logger), memStore, nil
}

// buildEngine assembles the discovery pipeline: intent parser, retrieval
// legs, graph explorer and personalization adapter, all over the embedded
// store. The returned dictionary is handed to the refresh service so the
// spell vocabulary tracks the catalog.
//
//nolint:gocritic // hugeParam: zerolog loggers are passed by value
func buildEngine(cfg *config.Config, db *store.Store, logger zerolog.Logger) (*discovery.Engine, *intent.Dictionary, error) {
	dict := intent.NewDictionary()
	spell := intent.NewSpellCorrector(dict, cfg.Discovery.Intent.SpellMaxDistance, cfg.Discovery.Intent.SpellMinLength, 0)
	synonyms := intent.NewSynonyms()
	parser := intent.NewParser(spell, synonyms, cfg.Discovery.Intent.FallbackConfidence)

	opts := []discovery.EngineOption{
		discovery.WithIntentParser(parser),
		discovery.WithStrategy(retrieval.NewKeywordStrategy(store.NewKeywordIndex(db))),
		discovery.WithHistorySource(db),
	}

	// The vector leg needs the external embedding service; without it the
	// pipeline runs keyword and graph retrieval only.
	if cfg.Embedding.Enabled {
		embedder, err := clients.NewEmbeddingClient(&cfg.Embedding, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("embedding client: %w", err)
		}
		opts = append(opts, discovery.WithStrategy(retrieval.NewVectorStrategy(
			embedder, store.NewVectorIndex(db), db, cfg.Discovery.PreFilterThreshold, 0)))
		logging.Info().Str("url", cfg.Embedding.URL).Int("dimensions", cfg.Embedding.Dimensions).Msg("Semantic retrieval leg enabled")
	} else {
		logging.Info().Msg("Semantic retrieval disabled (REPERIO_EMBEDDING_ENABLED=false)")
	}

	explorer, err := graph.NewExplorer(db, graph.Config{
		MaxDepth:      cfg.Discovery.Graph.MaxDepth,
		DecayBase:     cfg.Discovery.Graph.DecayBase,
		MaxTraversals: cfg.Discovery.Graph.MaxTraversals,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("graph explorer: %w", err)
	}
	opts = append(opts, discovery.WithGraphExplorer(explorer))

	// Personalization: the external scorer when configured, otherwise
	// locally stored preference profiles. Either way the adapter enforces
	// the hard budget and degrades to zero contribution on a miss.
	var scorer personalization.Scorer
	if cfg.Personalization.Enabled && cfg.Personalization.URL != "" {
		client, err := clients.NewPersonalizationClient(&cfg.Personalization, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("personalization client: %w", err)
		}
		scorer = client
		logging.Info().Str("url", cfg.Personalization.URL).Msg("External personalization service enabled")
	} else {
		scorer = personalization.NewLocalScorer(db, db)
		logging.Info().Msg("Personalization using locally stored profiles")
	}
	opts = append(opts, discovery.WithPersonalizer(personalization.NewAdapter(scorer, cfg.Personalization.Timeout)))

	engineCfg := buildEngineConfig(cfg)
	engine, err := discovery.NewEngine(engineCfg, db, logger, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("discovery engine: %w", err)
	}
	return engine, dict, nil
}

// buildEngineConfig maps the application configuration onto the pipeline
// configuration. Knobs absent from the app config (variant weights, graph
// minimum score) keep the pipeline defaults.
func buildEngineConfig(cfg *config.Config) *discovery.Config {
	engineCfg := discovery.DefaultConfig()

	engineCfg.FusionK = cfg.Discovery.FusionK
	engineCfg.Weights = discovery.Weights{
		Base:         cfg.Discovery.Weights.Base,
		ThemeMatch:   cfg.Discovery.Weights.ThemeMatch,
		Preference:   cfg.Discovery.Weights.Preference,
		Popularity:   cfg.Discovery.Weights.Popularity,
		Freshness:    cfg.Discovery.Weights.Freshness,
		Availability: cfg.Discovery.Weights.Availability,
	}
	engineCfg.RetrievalLimit = cfg.Discovery.RetrievalLimit
	engineCfg.LegTimeout = cfg.Discovery.LegTimeout
	engineCfg.MaxCandidates = cfg.Discovery.MaxCandidates
	engineCfg.GraphSeedLimit = cfg.Discovery.Graph.MaxSeeds
	engineCfg.FreshnessHalfLife = cfg.Discovery.FreshnessHalfLife
	engineCfg.Diversity = discovery.Diversity{
		Window:        cfg.Discovery.Diversity.Window,
		MaxPerCluster: cfg.Discovery.Diversity.MaxPerCluster,
	}
	engineCfg.DefaultPageSize = cfg.API.DefaultPageSize

	return engineCfg
}
