// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides comprehensive instrumentation for:
// - Search pipeline stage latency and candidate volumes
// - Retrieval leg health and degradation
// - Graph traversal volume
// - Database query performance (DuckDB)
// - API endpoint latency and throughput
// - Cache efficiency
// - Circuit breaker state

var (
	// Search Pipeline Metrics
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Total number of search requests by variant and outcome",
		},
		[]string{"variant", "status"}, // status: "ok", "degraded", "error"
	)

	SearchStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_stage_duration_seconds",
			Help:    "Duration of each search pipeline stage in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"stage"}, // "parse", "retrieval", "fusion", "ranking", "diversity", "hydration", "total"
	)

	SearchCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_candidates",
			Help:    "Number of candidates flowing out of each pipeline stage",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500},
		},
		[]string{"stage"},
	)

	SearchEmptyResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_empty_results_total",
			Help: "Total number of searches that produced no candidates",
		},
		[]string{"variant"},
	)

	// Retrieval Leg Metrics
	RetrievalLegDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retrieval_leg_duration_seconds",
			Help:    "Duration of each retrieval leg in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"leg"}, // "vector", "keyword", "graph"
	)

	RetrievalLegResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retrieval_leg_results",
			Help:    "Number of candidates returned by each retrieval leg",
			Buckets: []float64{0, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"leg"},
	)

	RetrievalLegDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retrieval_leg_degraded_total",
			Help: "Total number of retrieval legs excluded from fusion",
		},
		[]string{"leg", "reason"}, // reason: "timeout", "error", "missing_embedding"
	)

	RetrievalPreFilterTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retrieval_pre_filter_total",
			Help: "Total number of vector retrievals using pre-filtering",
		},
		[]string{"mode"}, // "pre", "post"
	)

	// Intent Parsing Metrics
	IntentParsedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intent_parsed_total",
			Help: "Total number of parsed queries by detected intent",
		},
		[]string{"intent"}, // "genre", "similarity", "platform", "freeform"
	)

	IntentFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intent_fallbacks_total",
			Help: "Total number of queries that fell back to low-confidence freeform intent",
		},
	)

	IntentSpellCorrections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intent_spell_corrections_total",
			Help: "Total number of query tokens rewritten by spell correction",
		},
	)

	// Graph Traversal Metrics
	GraphTraversalsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "graph_traversals_total",
			Help: "Total number of graph discovery traversals",
		},
	)

	GraphEdgesVisited = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graph_edges_visited",
			Help:    "Number of edges visited per graph traversal",
			Buckets: []float64{5, 10, 25, 50, 100, 250},
		},
	)

	GraphBudgetExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "graph_budget_exhausted_total",
			Help: "Total number of traversals stopped by the edge budget",
		},
	)

	// Personalization Metrics
	PersonalizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "personalization_duration_seconds",
			Help:    "Duration of personalization signal fetches in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	PersonalizationDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "personalization_degraded_total",
			Help: "Total number of rankings that proceeded without personalization",
		},
		[]string{"reason"}, // "timeout", "error", "disabled"
	)

	// Diversity Metrics
	DiversityDeferred = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "diversity_deferred_total",
			Help: "Total number of items deferred by the diversity window constraint",
		},
	)

	// Embedding Client Metrics
	EmbeddingRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "embedding_request_duration_seconds",
			Help:    "Duration of embedding service calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	EmbeddingFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_failures_total",
			Help: "Total number of failed embedding service calls",
		},
		[]string{"reason"}, // "timeout", "http", "breaker_open", "rate_limited"
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBConnectionPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "duckdb_connection_pool_size",
			Help: "Current number of database connections in use",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "result", "embedding", "availability", "autocomplete"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	CacheBypasses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_bypasses_total",
			Help: "Total number of requests served directly because the cache was unavailable",
		},
		[]string{"cache_type"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_invalidations_total",
			Help: "Total number of cache invalidations",
		},
		[]string{"cache_type", "scope"}, // scope: "item", "user", "catalog"
	)

	// Autocomplete Metrics
	AutocompleteRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "autocomplete_requests_total",
			Help: "Total number of autocomplete lookups",
		},
	)

	AutocompleteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "autocomplete_duration_seconds",
			Help:    "Duration of autocomplete lookups in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)

	// Dictionary Refresh Metrics
	DictionaryRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dictionary_refresh_duration_seconds",
			Help:    "Duration of dictionary refresh operations in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	DictionaryTerms = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dictionary_terms",
			Help: "Current number of terms loaded per dictionary",
		},
		[]string{"dictionary"}, // "genre", "platform", "synonym", "vocabulary"
	)

	DictionaryRefreshErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dictionary_refresh_errors_total",
			Help: "Total number of failed dictionary refresh operations",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// NATS Event Processing Metrics
	NATSMessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_published_total",
			Help: "Total number of messages published to NATS",
		},
	)

	NATSMessagesConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_consumed_total",
			Help: "Total number of messages consumed from NATS",
		},
	)

	NATSMessagesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_processed_total",
			Help: "Total number of messages successfully processed",
		},
	)

	NATSMessagesParseFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_parse_failed_total",
			Help: "Total number of messages that failed to parse",
		},
	)

	NATSProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nats_processing_duration_seconds",
			Help:    "Duration of NATS message processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordSearch records the outcome of a complete search request.
func RecordSearch(variant, status string, duration time.Duration) {
	SearchRequestsTotal.WithLabelValues(variant, status).Inc()
	SearchStageDuration.WithLabelValues("total").Observe(duration.Seconds())
}

// RecordStage records the latency and output volume of a pipeline stage.
func RecordStage(stage string, duration time.Duration, candidates int) {
	SearchStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	SearchCandidates.WithLabelValues(stage).Observe(float64(candidates))
}

// RecordRetrievalLeg records a completed retrieval leg.
func RecordRetrievalLeg(leg string, duration time.Duration, results int) {
	RetrievalLegDuration.WithLabelValues(leg).Observe(duration.Seconds())
	RetrievalLegResults.WithLabelValues(leg).Observe(float64(results))
}

// RecordLegDegraded records a retrieval leg excluded from fusion.
func RecordLegDegraded(leg, reason string) {
	RetrievalLegDegraded.WithLabelValues(leg, reason).Inc()
}

// RecordGraphTraversal records a completed graph discovery traversal.
func RecordGraphTraversal(edgesVisited int, budgetExhausted bool) {
	GraphTraversalsTotal.Inc()
	GraphEdgesVisited.Observe(float64(edgesVisited))
	if budgetExhausted {
		GraphBudgetExhausted.Inc()
	}
}

// RecordPersonalization records a personalization fetch and its outcome.
func RecordPersonalization(duration time.Duration, degradedReason string) {
	PersonalizationDuration.Observe(duration.Seconds())
	if degradedReason != "" {
		PersonalizationDegraded.WithLabelValues(degradedReason).Inc()
	}
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheHit records a cache hit for the given cache type.
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss for the given cache type.
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordCacheInvalidation records invalidated entries for a cache and scope.
func RecordCacheInvalidation(cacheType, scope string, count int) {
	CacheInvalidations.WithLabelValues(cacheType, scope).Add(float64(count))
}

// RecordAutocomplete records an autocomplete lookup.
func RecordAutocomplete(duration time.Duration) {
	AutocompleteRequests.Inc()
	AutocompleteDuration.Observe(duration.Seconds())
}

// RecordDictionaryRefresh records a dictionary refresh operation.
func RecordDictionaryRefresh(dictionary string, terms int, duration time.Duration, err error) {
	DictionaryRefreshDuration.Observe(duration.Seconds())
	if err != nil {
		DictionaryRefreshErrors.Inc()
		return
	}
	DictionaryTerms.WithLabelValues(dictionary).Set(float64(terms))
}

// RecordEmbeddingRequest records an embedding service call.
func RecordEmbeddingRequest(duration time.Duration, failureReason string) {
	EmbeddingRequestDuration.Observe(duration.Seconds())
	if failureReason != "" {
		EmbeddingFailures.WithLabelValues(failureReason).Inc()
	}
}

// RecordNATSPublish records a message being published to NATS
func RecordNATSPublish() {
	NATSMessagesPublished.Inc()
}

// RecordNATSConsume records a message being consumed from NATS
func RecordNATSConsume() {
	NATSMessagesConsumed.Inc()
}

// RecordNATSProcessed records a message being successfully processed
func RecordNATSProcessed() {
	NATSMessagesProcessed.Inc()
}

// RecordNATSParseFailed records a message that failed to parse
func RecordNATSParseFailed() {
	NATSMessagesParseFailed.Inc()
}

// RecordNATSProcessingDuration records the duration of message processing
func RecordNATSProcessingDuration(duration time.Duration) {
	NATSProcessingDuration.Observe(duration.Seconds())
}
