// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package config

import (
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateDiscovery(); err != nil {
		return err
	}

	if err := c.validateEmbedding(); err != nil {
		return err
	}

	if err := c.validatePersonalization(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateNATS(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates HTTP server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("REPERIO_PORT must be between 1 and 65535, got: %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("REPERIO_HTTP_TIMEOUT must be positive, got: %s", c.Server.Timeout)
	}
	switch c.Server.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("REPERIO_ENVIRONMENT must be development, production, or test, got: %s", c.Server.Environment)
	}
	return nil
}

// validateDatabase validates DuckDB configuration
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("REPERIO_DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("REPERIO_DUCKDB_THREADS must be >= 0, got: %d", c.Database.Threads)
	}
	return nil
}

// validateDiscovery validates pipeline parameters. Out-of-range values here
// would silently skew every ranking, so they fail startup instead.
func (c *Config) validateDiscovery() error {
	d := &c.Discovery

	if d.FusionK <= 0 {
		return fmt.Errorf("REPERIO_FUSION_K must be positive, got: %d", d.FusionK)
	}
	if d.RetrievalLimit <= 0 {
		return fmt.Errorf("REPERIO_RETRIEVAL_LIMIT must be positive, got: %d", d.RetrievalLimit)
	}
	if d.LegTimeout <= 0 {
		return fmt.Errorf("REPERIO_LEG_TIMEOUT must be positive, got: %s", d.LegTimeout)
	}
	if d.MaxCandidates < d.RetrievalLimit {
		return fmt.Errorf("REPERIO_MAX_CANDIDATES (%d) must be >= REPERIO_RETRIEVAL_LIMIT (%d)",
			d.MaxCandidates, d.RetrievalLimit)
	}
	if d.PreFilterThreshold < 0 || d.PreFilterThreshold > 1 {
		return fmt.Errorf("REPERIO_PREFILTER_THRESHOLD must be in [0,1], got: %f", d.PreFilterThreshold)
	}
	if d.FreshnessHalfLife <= 0 {
		return fmt.Errorf("REPERIO_FRESHNESS_HALF_LIFE must be positive, got: %s", d.FreshnessHalfLife)
	}

	if err := c.validateWeights(); err != nil {
		return err
	}
	if err := c.validateGraph(); err != nil {
		return err
	}
	if err := c.validateDiversity(); err != nil {
		return err
	}
	return c.validateIntent()
}

// validateWeights validates ranking weights
func (c *Config) validateWeights() error {
	w := c.Discovery.Weights
	weights := map[string]float64{
		"REPERIO_WEIGHT_BASE":         w.Base,
		"REPERIO_WEIGHT_THEME":        w.ThemeMatch,
		"REPERIO_WEIGHT_PREFERENCE":   w.Preference,
		"REPERIO_WEIGHT_POPULARITY":   w.Popularity,
		"REPERIO_WEIGHT_FRESHNESS":    w.Freshness,
		"REPERIO_WEIGHT_AVAILABILITY": w.Availability,
	}
	for name, v := range weights {
		if v < 0 {
			return fmt.Errorf("%s must be non-negative, got: %f", name, v)
		}
	}
	return nil
}

// validateGraph validates graph traversal limits
func (c *Config) validateGraph() error {
	g := c.Discovery.Graph
	if g.MaxDepth < 1 {
		return fmt.Errorf("REPERIO_GRAPH_MAX_DEPTH must be >= 1, got: %d", g.MaxDepth)
	}
	if g.DecayBase <= 0 || g.DecayBase > 1 {
		return fmt.Errorf("REPERIO_GRAPH_DECAY_BASE must be in (0,1], got: %f", g.DecayBase)
	}
	if g.MaxTraversals < 1 {
		return fmt.Errorf("REPERIO_GRAPH_MAX_TRAVERSALS must be >= 1, got: %d", g.MaxTraversals)
	}
	if g.MaxSeeds < 1 {
		return fmt.Errorf("REPERIO_GRAPH_MAX_SEEDS must be >= 1, got: %d", g.MaxSeeds)
	}
	return nil
}

// validateDiversity validates the diversity window constraint
func (c *Config) validateDiversity() error {
	d := c.Discovery.Diversity
	if d.Window < 1 {
		return fmt.Errorf("REPERIO_DIVERSITY_WINDOW must be >= 1, got: %d", d.Window)
	}
	if d.MaxPerCluster < 1 {
		return fmt.Errorf("REPERIO_DIVERSITY_MAX_PER_CLUSTER must be >= 1, got: %d", d.MaxPerCluster)
	}
	if d.MaxPerCluster > d.Window {
		return fmt.Errorf("REPERIO_DIVERSITY_MAX_PER_CLUSTER (%d) must be <= REPERIO_DIVERSITY_WINDOW (%d)",
			d.MaxPerCluster, d.Window)
	}
	return nil
}

// validateIntent validates intent parsing settings
func (c *Config) validateIntent() error {
	i := c.Discovery.Intent
	if i.FallbackConfidence < 0 || i.FallbackConfidence > 1 {
		return fmt.Errorf("REPERIO_INTENT_FALLBACK_CONFIDENCE must be in [0,1], got: %f", i.FallbackConfidence)
	}
	if i.SpellMaxDistance < 0 {
		return fmt.Errorf("REPERIO_INTENT_SPELL_MAX_DISTANCE must be >= 0, got: %d", i.SpellMaxDistance)
	}
	if i.SpellMinLength < 1 {
		return fmt.Errorf("REPERIO_INTENT_SPELL_MIN_LENGTH must be >= 1, got: %d", i.SpellMinLength)
	}
	return nil
}

// validateEmbedding validates embedding service configuration (only if enabled)
func (c *Config) validateEmbedding() error {
	if !c.Embedding.Enabled {
		return nil // Embedding service is optional - no validation needed when disabled
	}

	if c.Embedding.URL == "" {
		return fmt.Errorf("REPERIO_EMBEDDING_URL is required when REPERIO_EMBEDDING_ENABLED=true")
	}
	if err := validateHTTPURL(c.Embedding.URL, "REPERIO_EMBEDDING_URL"); err != nil {
		return fmt.Errorf("REPERIO_EMBEDDING_URL is invalid: %w", err)
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("REPERIO_EMBEDDING_DIMENSIONS must be positive, got: %d", c.Embedding.Dimensions)
	}
	if c.Embedding.RateLimitRPS <= 0 {
		return fmt.Errorf("REPERIO_EMBEDDING_RATE_LIMIT must be positive, got: %f", c.Embedding.RateLimitRPS)
	}
	if c.Embedding.RateLimitBurst < 1 {
		return fmt.Errorf("REPERIO_EMBEDDING_BURST must be >= 1, got: %d", c.Embedding.RateLimitBurst)
	}
	return nil
}

// validatePersonalization validates personalization service configuration (only if enabled)
func (c *Config) validatePersonalization() error {
	if err := c.validateVariant(); err != nil {
		return err
	}

	if !c.Personalization.Enabled {
		return nil
	}

	if c.Personalization.URL == "" {
		return fmt.Errorf("REPERIO_PERSONALIZATION_URL is required when REPERIO_PERSONALIZATION_ENABLED=true")
	}
	if err := validateHTTPURL(c.Personalization.URL, "REPERIO_PERSONALIZATION_URL"); err != nil {
		return fmt.Errorf("REPERIO_PERSONALIZATION_URL is invalid: %w", err)
	}
	if c.Personalization.Timeout <= 0 {
		return fmt.Errorf("REPERIO_PERSONALIZATION_TIMEOUT must be positive, got: %s", c.Personalization.Timeout)
	}
	return nil
}

// validateVariant validates the default ranking variant
func (c *Config) validateVariant() error {
	switch c.Personalization.DefaultVariant {
	case "control", "personalized", "boost":
		return nil
	default:
		return fmt.Errorf("REPERIO_PERSONALIZATION_DEFAULT_VARIANT must be control, personalized, or boost, got: %s",
			c.Personalization.DefaultVariant)
	}
}

// validateCache validates cache configuration
func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if c.Cache.ResultTTL <= 0 {
		return fmt.Errorf("REPERIO_CACHE_RESULT_TTL must be positive, got: %s", c.Cache.ResultTTL)
	}
	if c.Cache.AutocompleteSize < 0 {
		return fmt.Errorf("REPERIO_CACHE_AUTOCOMPLETE_SIZE must be >= 0, got: %d", c.Cache.AutocompleteSize)
	}
	if c.Cache.BadgerEnabled && c.Cache.BadgerPath == "" {
		return fmt.Errorf("REPERIO_CACHE_BADGER_PATH is required when REPERIO_CACHE_BADGER_ENABLED=true")
	}
	return nil
}

// validateNATS validates NATS configuration (only if enabled)
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}

	if !c.NATS.EmbeddedServer {
		if c.NATS.URL == "" {
			return fmt.Errorf("REPERIO_NATS_URL is required when REPERIO_NATS_ENABLED=true and REPERIO_NATS_EMBEDDED=false")
		}
		if err := validateNATSURL(c.NATS.URL); err != nil {
			return fmt.Errorf("REPERIO_NATS_URL is invalid: %w", err)
		}
	}

	if c.NATS.EmbeddedServer && c.NATS.StoreDir == "" {
		return fmt.Errorf("REPERIO_NATS_STORE_DIR is required when REPERIO_NATS_EMBEDDED=true")
	}
	if c.NATS.MaxMemory < 0 {
		return fmt.Errorf("REPERIO_NATS_MAX_MEMORY must be >= 0, got: %d", c.NATS.MaxMemory)
	}
	if c.NATS.MaxStore < 0 {
		return fmt.Errorf("REPERIO_NATS_MAX_STORE must be >= 0, got: %d", c.NATS.MaxStore)
	}
	if c.NATS.SubscribersCount < 1 || c.NATS.SubscribersCount > 32 {
		return fmt.Errorf("REPERIO_NATS_SUBSCRIBERS must be between 1 and 32, got: %d", c.NATS.SubscribersCount)
	}
	if c.NATS.FlushInterval <= 0 {
		return fmt.Errorf("REPERIO_NATS_FLUSH_INTERVAL must be positive, got: %s", c.NATS.FlushInterval)
	}
	return nil
}

// validateAPI validates API configuration
func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("REPERIO_API_DEFAULT_PAGE_SIZE must be >= 1, got: %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("REPERIO_API_MAX_PAGE_SIZE (%d) must be >= REPERIO_API_DEFAULT_PAGE_SIZE (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if !c.API.RateLimitDisabled {
		if c.API.RateLimitReqs < 1 {
			return fmt.Errorf("REPERIO_RATE_LIMIT_REQUESTS must be >= 1, got: %d", c.API.RateLimitReqs)
		}
		if c.API.RateLimitWindow <= 0 {
			return fmt.Errorf("REPERIO_RATE_LIMIT_WINDOW must be positive, got: %s", c.API.RateLimitWindow)
		}
	}
	return nil
}

// ShouldWarnAboutCORS reports whether the configuration combines production
// mode with a wildcard CORS origin. Startup logs a warning in that case.
func (c *Config) ShouldWarnAboutCORS() bool {
	if !c.Server.IsProduction() {
		return false
	}
	for _, origin := range c.API.CORSOrigins {
		if strings.TrimSpace(origin) == "*" {
			return true
		}
	}
	return false
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("REPERIO_LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, panic, got: %s",
			c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("REPERIO_LOG_FORMAT must be json or console, got: %s", c.Logging.Format)
	}
	return nil
}
