// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reperio/config.yaml",
	"/etc/reperio/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "REPERIO_CONFIG_PATH"

// envPrefix selects which environment variables participate in config loading.
const envPrefix = "REPERIO_"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        7700,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development", // Set REPERIO_ENVIRONMENT=production for production checks
		},
		Database: DatabaseConfig{
			Path:         "/data/reperio.duckdb",
			MaxMemory:    "2GB",
			Threads:      0, // 0 = use runtime.NumCPU()
			SeedMockData: false,
		},
		Discovery: DiscoveryConfig{
			FusionK: 60,
			Weights: WeightsConfig{
				Base:         1.0,
				ThemeMatch:   0.15,
				Preference:   0.2,
				Popularity:   0.1,
				Freshness:    0.1,
				Availability: 0.05,
			},
			RetrievalLimit:     200,
			LegTimeout:         500 * time.Millisecond,
			MaxCandidates:      1000,
			PreFilterThreshold: 0.1,
			FreshnessHalfLife:  90 * 24 * time.Hour,
			Graph: GraphConfig{
				MaxDepth:      3,
				DecayBase:     0.7,
				MaxTraversals: 100,
				MaxSeeds:      5,
			},
			Diversity: DiversityConfig{
				Window:        5,
				MaxPerCluster: 2,
			},
			Intent: IntentConfig{
				FallbackConfidence: 0.5,
				SpellMaxDistance:   2,
				SpellMinLength:     4,
			},
		},
		Embedding: EmbeddingConfig{
			Enabled:        false, // Semantic leg is opt-in - keyword and graph retrieval work standalone
			URL:            "",
			Timeout:        2 * time.Second,
			RateLimitRPS:   50,
			RateLimitBurst: 100,
			Dimensions:     768,
			CacheTTL:       1 * time.Hour,
		},
		Personalization: PersonalizationConfig{
			Enabled:        false, // Opt-in only
			URL:            "",
			Timeout:        100 * time.Millisecond,
			DefaultVariant: "control",
		},
		Cache: CacheConfig{
			Enabled:          true,
			ResultTTL:        5 * time.Minute,
			AutocompleteSize: 50000,
			BadgerEnabled:    false,
			BadgerPath:       "/data/reperio/cache",
		},
		NATS: NATSConfig{
			Enabled:          true,
			URL:              "nats://127.0.0.1:4222",
			EmbeddedServer:   true,
			StoreDir:         "/data/nats/jetstream",
			MaxMemory:        1 << 30,  // 1GB
			MaxStore:         10 << 30, // 10GB
			SubscribersCount: 4,
			DurableName:      "reperio-invalidation",
			QueueGroup:       "discovery",
			FlushInterval:    5 * time.Second,
		},
		API: APIConfig{
			DefaultPageSize:   20,
			MaxPageSize:       100,
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Dictionary: DictionaryConfig{
			RefreshInterval:  6 * time.Hour,
			RefreshOnStartup: true,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// This function is the preferred way to load configuration and provides:
//   - Type-safe configuration unmarshaling
//   - Clear precedence: ENV > File > Defaults
//   - Support for nested configuration via koanf struct tags
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// REPERIO_PORT -> server.port
	// REPERIO_GRAPH_MAX_DEPTH -> discovery.graph.max_depth
	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// If it's already a slice (from YAML file), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		// If it's a string, split by comma
		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
// The REPERIO_ prefix has already selected the variable; this maps the
// remainder onto the nested configuration structure.
//
// Examples:
//   - REPERIO_PORT -> server.port
//   - REPERIO_DUCKDB_PATH -> database.path
//   - REPERIO_WEIGHT_THEME -> discovery.weights.theme_match
//   - REPERIO_GRAPH_MAX_DEPTH -> discovery.graph.max_depth
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	envMappings := map[string]string{
		// Server mappings
		"port":         "server.port",
		"host":         "server.host",
		"http_timeout": "server.timeout",
		"environment":  "server.environment",

		// Database mappings
		"duckdb_path":       "database.path",
		"duckdb_max_memory": "database.max_memory",
		"duckdb_threads":    "database.threads",
		"seed_mock_data":    "database.seed_mock_data",

		// Discovery pipeline mappings
		"fusion_k":            "discovery.fusion_k",
		"retrieval_limit":     "discovery.retrieval_limit",
		"leg_timeout":         "discovery.leg_timeout",
		"max_candidates":      "discovery.max_candidates",
		"prefilter_threshold": "discovery.pre_filter_threshold",
		"freshness_half_life": "discovery.freshness_half_life",
		// Ranking weights
		"weight_base":         "discovery.weights.base",
		"weight_theme":        "discovery.weights.theme_match",
		"weight_preference":   "discovery.weights.preference",
		"weight_popularity":   "discovery.weights.popularity",
		"weight_freshness":    "discovery.weights.freshness",
		"weight_availability": "discovery.weights.availability",
		// Graph traversal
		"graph_max_depth":      "discovery.graph.max_depth",
		"graph_decay_base":     "discovery.graph.decay_base",
		"graph_max_traversals": "discovery.graph.max_traversals",
		"graph_max_seeds":      "discovery.graph.max_seeds",
		// Diversity window
		"diversity_window":          "discovery.diversity.window",
		"diversity_max_per_cluster": "discovery.diversity.max_per_cluster",
		// Intent parsing
		"intent_fallback_confidence": "discovery.intent.fallback_confidence",
		"intent_spell_max_distance":  "discovery.intent.spell_max_distance",
		"intent_spell_min_length":    "discovery.intent.spell_min_length",

		// Embedding service mappings
		"embedding_enabled":    "embedding.enabled",
		"embedding_url":        "embedding.url",
		"embedding_timeout":    "embedding.timeout",
		"embedding_rate_limit": "embedding.rate_limit_rps",
		"embedding_burst":      "embedding.rate_limit_burst",
		"embedding_dimensions": "embedding.dimensions",
		"embedding_cache_ttl":  "embedding.cache_ttl",

		// Personalization service mappings
		"personalization_enabled":         "personalization.enabled",
		"personalization_url":             "personalization.url",
		"personalization_timeout":         "personalization.timeout",
		"personalization_default_variant": "personalization.default_variant",

		// Cache mappings
		"cache_enabled":           "cache.enabled",
		"cache_result_ttl":        "cache.result_ttl",
		"cache_autocomplete_size": "cache.autocomplete_size",
		"cache_badger_enabled":    "cache.badger_enabled",
		"cache_badger_path":       "cache.badger_path",

		// NATS mappings
		"nats_enabled":        "nats.enabled",
		"nats_url":            "nats.url",
		"nats_embedded":       "nats.embedded_server",
		"nats_store_dir":      "nats.store_dir",
		"nats_max_memory":     "nats.max_memory",
		"nats_max_store":      "nats.max_store",
		"nats_subscribers":    "nats.subscribers_count",
		"nats_durable_name":   "nats.durable_name",
		"nats_queue_group":    "nats.queue_group",
		"nats_flush_interval": "nats.flush_interval",

		// API mappings
		"api_default_page_size": "api.default_page_size",
		"api_max_page_size":     "api.max_page_size",
		"rate_limit_requests":   "api.rate_limit_reqs",
		"rate_limit_window":     "api.rate_limit_window",
		"disable_rate_limit":    "api.rate_limit_disabled",
		"cors_origins":          "api.cors_origins",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// Dictionary refresh mappings
		"dictionary_refresh_interval":   "dictionary.refresh_interval",
		"dictionary_refresh_on_startup": "dictionary.refresh_on_startup",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}

// GetKoanfInstance returns a new Koanf instance for advanced usage.
// This is useful for:
//   - Hot-reload scenarios (with proper mutex protection)
//   - Custom configuration sources
//   - Testing with mock configurations
func GetKoanfInstance() *koanf.Koanf {
	return koanf.New(".")
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// Note: The caller is responsible for mutex protection when accessing
// configuration during reloads.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	// Start watching the file for changes
	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
