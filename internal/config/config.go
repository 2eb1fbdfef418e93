// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from environment variables and config files.
// Provides centralized configuration management for all application components including
// the discovery pipeline, database, external clients, caching, eventing, and logging.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via REPERIO_* variables
//
// Configuration Categories:
//
//  1. Pipeline:
//     - Discovery: Fusion, ranking weights, graph traversal, diversity, intent parsing
//
//  2. External Services:
//     - Embedding: Optional embedding service for the semantic retrieval leg
//     - Personalization: Optional user-signal service for preference-aware ranking
//
//  3. Infrastructure:
//     - Database: DuckDB configuration (path, memory, threads)
//     - Cache: Result and autocomplete caching
//     - NATS: Cache invalidation events with Watermill/NATS JetStream (optional)
//     - Server: HTTP server configuration (port, host, timeout)
//
//  4. API & Observability:
//     - API: Pagination, rate limiting, CORS
//     - Logging: Log levels and output formats
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from multiple goroutines.
type Config struct {
	Server          ServerConfig          `koanf:"server"`
	Database        DatabaseConfig        `koanf:"database"`
	Discovery       DiscoveryConfig       `koanf:"discovery"`
	Embedding       EmbeddingConfig       `koanf:"embedding"`       // Optional: semantic retrieval leg
	Personalization PersonalizationConfig `koanf:"personalization"` // Optional: preference-aware ranking
	Cache           CacheConfig           `koanf:"cache"`
	NATS            NATSConfig            `koanf:"nats"` // Optional: invalidation events via Watermill/NATS JetStream
	API             APIConfig             `koanf:"api"`
	Logging         LoggingConfig         `koanf:"logging"`
	Dictionary      DictionaryConfig      `koanf:"dictionary"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - REPERIO_PORT: Listen port (default: 7700)
//   - REPERIO_HOST: Bind address (default: 0.0.0.0)
//   - REPERIO_HTTP_TIMEOUT: Read/write timeout (default: 30s)
//   - REPERIO_ENVIRONMENT: "development" or "production" (default: development)
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction reports whether the server runs in production mode.
// Production mode tightens validation (CORS warnings, required secrets).
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// DatabaseConfig holds DuckDB settings.
//
// Environment Variables:
//   - REPERIO_DUCKDB_PATH: Database file path (default: /data/reperio.duckdb)
//   - REPERIO_DUCKDB_MAX_MEMORY: Memory limit, e.g. "2GB" (default: 2GB)
//   - REPERIO_DUCKDB_THREADS: Worker threads, 0 = NumCPU (default: 0)
//   - REPERIO_SEED_MOCK_DATA: Seed a small demo catalog on startup (default: false)
type DatabaseConfig struct {
	Path         string `koanf:"path"`
	MaxMemory    string `koanf:"max_memory"`
	Threads      int    `koanf:"threads"` // 0 = use runtime.NumCPU()
	SeedMockData bool   `koanf:"seed_mock_data"`
}

// DiscoveryConfig holds the tunable knobs of the discovery pipeline.
//
// The pipeline runs retrieval legs in parallel, fuses their rankings with
// reciprocal rank fusion, applies multi-factor ranking, and re-orders the
// head of the list under a genre-diversity window. Every stage reads its
// parameters from this struct; the zero value is NOT usable, load through
// Load() or start from defaults.
//
// Fusion:
//   - FusionK: RRF smoothing constant k in w/(k+rank) (default: 60)
//
// Ranking weights (see WeightsConfig):
//   - fused score, theme match, preference alignment, popularity,
//     freshness, platform availability
//
// Retrieval:
//   - RetrievalLimit: Max candidates requested per leg (default: 200)
//   - LegTimeout: Per-leg deadline; a leg missing it is excluded from
//     fusion rather than failing the request (default: 500ms)
//   - MaxCandidates: Cap on the fused candidate pool (default: 1000)
//   - PreFilterThreshold: Estimated selectivity below which the vector
//     leg filters before scanning instead of after (default: 0.1)
//
// Environment Variables:
//   - REPERIO_FUSION_K, REPERIO_RETRIEVAL_LIMIT, REPERIO_LEG_TIMEOUT,
//     REPERIO_MAX_CANDIDATES, REPERIO_PREFILTER_THRESHOLD,
//     REPERIO_FRESHNESS_HALF_LIFE
//   - REPERIO_WEIGHT_BASE, REPERIO_WEIGHT_THEME, REPERIO_WEIGHT_PREFERENCE,
//     REPERIO_WEIGHT_POPULARITY, REPERIO_WEIGHT_FRESHNESS,
//     REPERIO_WEIGHT_AVAILABILITY
//   - REPERIO_GRAPH_MAX_DEPTH, REPERIO_GRAPH_DECAY_BASE,
//     REPERIO_GRAPH_MAX_TRAVERSALS, REPERIO_GRAPH_MAX_SEEDS
//   - REPERIO_DIVERSITY_WINDOW, REPERIO_DIVERSITY_MAX_PER_CLUSTER
//   - REPERIO_INTENT_FALLBACK_CONFIDENCE, REPERIO_INTENT_SPELL_MAX_DISTANCE,
//     REPERIO_INTENT_SPELL_MIN_LENGTH
type DiscoveryConfig struct {
	FusionK            int             `koanf:"fusion_k"`
	Weights            WeightsConfig   `koanf:"weights"`
	RetrievalLimit     int             `koanf:"retrieval_limit"`
	LegTimeout         time.Duration   `koanf:"leg_timeout"`
	MaxCandidates      int             `koanf:"max_candidates"`
	PreFilterThreshold float64         `koanf:"pre_filter_threshold"`
	FreshnessHalfLife  time.Duration   `koanf:"freshness_half_life"`
	Graph              GraphConfig     `koanf:"graph"`
	Diversity          DiversityConfig `koanf:"diversity"`
	Intent             IntentConfig    `koanf:"intent"`
}

// WeightsConfig holds the multi-factor ranking weights.
// The final score is the weighted sum of the fused retrieval score and
// the per-item ranking factors. All weights must be non-negative.
type WeightsConfig struct {
	Base         float64 `koanf:"base"`         // fused retrieval score (default: 1.0)
	ThemeMatch   float64 `koanf:"theme_match"`  // query-theme similarity (default: 0.15)
	Preference   float64 `koanf:"preference"`   // user preference alignment (default: 0.2)
	Popularity   float64 `koanf:"popularity"`   // normalized popularity (default: 0.1)
	Freshness    float64 `koanf:"freshness"`    // release-age decay (default: 0.1)
	Availability float64 `koanf:"availability"` // platform availability boost (default: 0.05)
}

// GraphConfig holds graph discovery traversal limits.
type GraphConfig struct {
	MaxDepth      int     `koanf:"max_depth"`      // BFS depth bound (default: 3)
	DecayBase     float64 `koanf:"decay_base"`     // per-hop contribution decay in (0,1] (default: 0.7)
	MaxTraversals int     `koanf:"max_traversals"` // edge visit budget per request (default: 100)
	MaxSeeds      int     `koanf:"max_seeds"`      // seed items taken from history or query (default: 5)
}

// DiversityConfig holds the genre-diversity window constraint applied to
// the head of the ranked list. Within any Window consecutive results, at
// most MaxPerCluster items may share a genre cluster; violators are
// deferred to the next position where the constraint admits them.
type DiversityConfig struct {
	Window        int `koanf:"window"`          // sliding window size (default: 5)
	MaxPerCluster int `koanf:"max_per_cluster"` // max same-cluster items per window (default: 2)
}

// IntentConfig holds query intent parsing settings.
type IntentConfig struct {
	FallbackConfidence float64 `koanf:"fallback_confidence"` // confidence for unparsed freeform queries (default: 0.5)
	SpellMaxDistance   int     `koanf:"spell_max_distance"`  // max edit distance for corrections (default: 2)
	SpellMinLength     int     `koanf:"spell_min_length"`    // min token length to attempt correction (default: 4)
}

// EmbeddingConfig holds settings for the external embedding service that
// powers the semantic retrieval leg. When disabled, the pipeline runs on
// keyword and graph retrieval only; the vector leg is excluded from
// fusion exactly as if its embedding lookup had failed.
//
// Environment Variables:
//   - REPERIO_EMBEDDING_ENABLED: Enable semantic retrieval (default: false)
//   - REPERIO_EMBEDDING_URL: Embedding service base URL
//   - REPERIO_EMBEDDING_TIMEOUT: HTTP client timeout (default: 2s)
//   - REPERIO_EMBEDDING_RATE_LIMIT: Max requests per second (default: 50)
//   - REPERIO_EMBEDDING_BURST: Rate limiter burst (default: 100)
//   - REPERIO_EMBEDDING_DIMENSIONS: Vector width (default: 768)
//   - REPERIO_EMBEDDING_CACHE_TTL: Query embedding cache TTL (default: 1h)
type EmbeddingConfig struct {
	Enabled        bool          `koanf:"enabled"`
	URL            string        `koanf:"url"`
	Timeout        time.Duration `koanf:"timeout"`
	RateLimitRPS   float64       `koanf:"rate_limit_rps"`
	RateLimitBurst int           `koanf:"rate_limit_burst"`
	Dimensions     int           `koanf:"dimensions"`
	CacheTTL       time.Duration `koanf:"cache_ttl"`
}

// PersonalizationConfig holds settings for the external personalization
// service. Fetches run under a strict timeout; a miss contributes zero to
// ranking rather than delaying the response.
//
// Environment Variables:
//   - REPERIO_PERSONALIZATION_ENABLED: Enable preference-aware ranking (default: false)
//   - REPERIO_PERSONALIZATION_URL: Personalization service base URL
//   - REPERIO_PERSONALIZATION_TIMEOUT: Fetch deadline (default: 100ms)
//   - REPERIO_PERSONALIZATION_DEFAULT_VARIANT: "control", "personalized", or "boost" (default: control)
type PersonalizationConfig struct {
	Enabled        bool          `koanf:"enabled"`
	URL            string        `koanf:"url"`
	Timeout        time.Duration `koanf:"timeout"`
	DefaultVariant string        `koanf:"default_variant"`
}

// CacheConfig holds result and autocomplete cache settings.
//
// Environment Variables:
//   - REPERIO_CACHE_ENABLED: Enable the result cache (default: true)
//   - REPERIO_CACHE_RESULT_TTL: Result cache TTL (default: 5m)
//   - REPERIO_CACHE_AUTOCOMPLETE_SIZE: Max autocomplete entries (default: 50000)
//   - REPERIO_CACHE_BADGER_ENABLED: Persist cache entries with Badger (default: false)
//   - REPERIO_CACHE_BADGER_PATH: Badger directory (default: /data/reperio/cache)
type CacheConfig struct {
	Enabled          bool          `koanf:"enabled"`
	ResultTTL        time.Duration `koanf:"result_ttl"`
	AutocompleteSize int           `koanf:"autocomplete_size"`
	BadgerEnabled    bool          `koanf:"badger_enabled"`
	BadgerPath       string        `koanf:"badger_path"`
}

// NATSConfig holds event bus settings for catalog and cache invalidation
// events. With EmbeddedServer enabled the process runs its own NATS
// JetStream node; otherwise URL must point at an external cluster.
//
// Environment Variables:
//   - REPERIO_NATS_ENABLED: Enable the event bus (default: true)
//   - REPERIO_NATS_URL: NATS server URL (default: nats://127.0.0.1:4222)
//   - REPERIO_NATS_EMBEDDED: Run an embedded NATS server (default: true)
//   - REPERIO_NATS_STORE_DIR: JetStream storage directory
//   - REPERIO_NATS_MAX_MEMORY / REPERIO_NATS_MAX_STORE: JetStream limits
//   - REPERIO_NATS_SUBSCRIBERS: Concurrent consumers (default: 4)
//   - REPERIO_NATS_DURABLE_NAME / REPERIO_NATS_QUEUE_GROUP: Consumer identity
//   - REPERIO_NATS_FLUSH_INTERVAL: Publisher flush interval (default: 5s)
type NATSConfig struct {
	Enabled          bool          `koanf:"enabled"`
	URL              string        `koanf:"url"`
	EmbeddedServer   bool          `koanf:"embedded_server"`
	StoreDir         string        `koanf:"store_dir"`
	MaxMemory        int64         `koanf:"max_memory"`
	MaxStore         int64         `koanf:"max_store"`
	SubscribersCount int           `koanf:"subscribers_count"`
	DurableName      string        `koanf:"durable_name"`
	QueueGroup       string        `koanf:"queue_group"`
	FlushInterval    time.Duration `koanf:"flush_interval"`
}

// APIConfig holds API pagination, rate limiting, and CORS settings.
//
// Environment Variables:
//   - REPERIO_API_DEFAULT_PAGE_SIZE: Results per page when unspecified (default: 20)
//   - REPERIO_API_MAX_PAGE_SIZE: Upper bound on requested page size (default: 100)
//   - REPERIO_RATE_LIMIT_REQUESTS: Requests per window per client (default: 100)
//   - REPERIO_RATE_LIMIT_WINDOW: Rate limit window (default: 1m)
//   - REPERIO_DISABLE_RATE_LIMIT: Disable rate limiting (default: false)
//   - REPERIO_CORS_ORIGINS: Comma-separated allowed origins (default: *)
type APIConfig struct {
	DefaultPageSize   int           `koanf:"default_page_size"`
	MaxPageSize       int           `koanf:"max_page_size"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - REPERIO_LOG_LEVEL: debug, info, warn, error (default: info)
//   - REPERIO_LOG_FORMAT: json, console (default: json)
//   - REPERIO_LOG_CALLER: Include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DictionaryConfig holds settings for the background service that rebuilds
// the intent dictionaries (genres, platforms, vocabulary) from the catalog.
type DictionaryConfig struct {
	RefreshInterval  time.Duration `koanf:"refresh_interval"`
	RefreshOnStartup bool          `koanf:"refresh_on_startup"`
}

// Load loads and validates the application configuration.
// It is the standard entry point and delegates to LoadWithKoanf, which
// layers defaults, an optional YAML config file, and REPERIO_* environment
// variables in increasing priority.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
