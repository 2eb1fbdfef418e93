// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

/*
Package config provides centralized configuration management for Reperio.

Configuration is loaded once at startup, validated, and then treated as
immutable for the lifetime of the process.

# Configuration Sources

Three layered sources, in increasing priority:

 1. Built-in defaults (see defaultConfig)
 2. Optional YAML config file (config.yaml, or REPERIO_CONFIG_PATH)
 3. REPERIO_* environment variables

# Configuration Structure

The Config struct groups settings by component:

	Server          - HTTP listener (port, host, timeouts)
	Database        - DuckDB catalog store
	Discovery       - Pipeline knobs: fusion, weights, graph, diversity, intent
	Embedding       - Optional semantic retrieval service client
	Personalization - Optional user-signal service client
	Cache           - Result and autocomplete caching
	NATS            - Invalidation event bus
	API             - Pagination, rate limiting, CORS
	Logging         - Level and format
	Dictionary      - Intent dictionary refresh schedule

# Environment Variables

Every setting can be overridden through an environment variable carrying
the REPERIO_ prefix. A few common ones:

	REPERIO_PORT=7700
	REPERIO_DUCKDB_PATH=/data/reperio.duckdb
	REPERIO_EMBEDDING_ENABLED=true
	REPERIO_EMBEDDING_URL=http://embedder:8080
	REPERIO_FUSION_K=60
	REPERIO_GRAPH_MAX_DEPTH=3
	REPERIO_DIVERSITY_WINDOW=5
	REPERIO_LOG_LEVEL=debug

The full mapping lives in envTransformFunc. Unmapped variables are ignored
so unrelated environment noise cannot leak into the configuration.

# Usage Example

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Invalid configuration")
	}

	store, err := store.New(cfg.Database)
	engine := discovery.NewEngine(buildEngineConfig(cfg), legs...)
	srv := &http.Server{Addr: cfg.Server.Addr()}

# Validation

Load() fails fast on invalid configuration rather than letting a bad
value skew rankings at runtime:

  - Port ranges, positive timeouts and intervals
  - Ranking weights must be non-negative
  - Graph decay base must lie in (0,1]
  - Diversity constraint must fit inside its window
  - Service URLs are checked when the corresponding client is enabled

# Defaults

The defaults describe a self-contained single-node deployment: DuckDB on
local disk, embedded NATS, result caching on, and both external services
(embedding, personalization) disabled. Keyword and graph retrieval work
with no external dependencies; enabling the embedding service adds the
semantic leg.

# Thread Safety

Config is read-only after Load() and safe for concurrent use. Hot-reload
via WatchConfigFile requires caller-side synchronization.

# See Also

  - internal/discovery: consumes DiscoveryConfig through the engine config
  - internal/clients: consumes Embedding and Personalization configs
  - internal/store: consumes DatabaseConfig
*/
package config
