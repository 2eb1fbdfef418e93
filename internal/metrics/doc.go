// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements comprehensive application instrumentation using the Prometheus
client library, exposing metrics for monitoring performance, errors, and system health.

# Overview

The package provides metrics for:
  - Search pipeline stage latency and candidate volumes
  - Retrieval leg health and degradation counts
  - Graph traversal volume and budget exhaustion
  - Database query performance
  - Cache hit/miss rates and invalidations
  - Circuit breaker state transitions
  - HTTP request latency and throughput

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:7700/metrics

# Available Metrics

Search Pipeline Metrics:
  - search_requests_total: Total search requests (counter)
    Labels: variant, status (ok, degraded, error)
  - search_stage_duration_seconds: Per-stage latency (histogram)
    Labels: stage (parse, retrieval, fusion, ranking, diversity, hydration, total)
  - search_candidates: Candidates flowing out of each stage (histogram)
    Labels: stage
  - search_empty_results_total: Searches producing no candidates (counter)
    Labels: variant

Retrieval Metrics:
  - retrieval_leg_duration_seconds: Per-leg latency (histogram)
    Labels: leg (vector, keyword, graph)
  - retrieval_leg_results: Candidates per leg (histogram)
    Labels: leg
  - retrieval_leg_degraded_total: Legs excluded from fusion (counter)
    Labels: leg, reason (timeout, error, missing_embedding)

Graph Metrics:
  - graph_traversals_total: Graph discovery traversals (counter)
  - graph_edges_visited: Edges visited per traversal (histogram)
  - graph_budget_exhausted_total: Traversals stopped by edge budget (counter)

Database Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)
    Labels: operation, table, error_type
  - duckdb_connection_pool_size: Connections in use (gauge)

Cache Metrics:
  - cache_hits_total / cache_misses_total: Cache efficiency (counter)
    Labels: cache_type (result, embedding, availability, autocomplete)
  - cache_evictions_total: TTL expiries (counter)
  - cache_bypasses_total: Requests served without the cache (counter)
  - cache_invalidations_total: Entries invalidated (counter)
    Labels: cache_type, scope (item, user, catalog)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests through breaker (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_state_transitions_total: State changes (counter)
    Labels: name, from_state, to_state

# Usage Example

Basic setup in main.go:

	import (
	    "github.com/tomtom215/reperio/internal/metrics"
	    "github.com/prometheus/client_golang/prometheus/promhttp"
	)

	func main() {
	    // Register metrics endpoint
	    http.Handle("/metrics", promhttp.Handler())

	    // Record metrics
	    metrics.RecordSearch("control", "ok", 42*time.Millisecond)
	    metrics.RecordRetrievalLeg("vector", 12*time.Millisecond, 87)
	    metrics.RecordDBQuery("SELECT", "catalog_items", 5*time.Millisecond, nil)
	}

Recording pipeline stage metrics:

	start := time.Now()
	ranked := rankCandidates(fused)
	metrics.RecordStage("ranking", time.Since(start), len(ranked))

# Grafana Dashboards

The metrics support Grafana dashboards with panels for:

  - Search rate and p50/p95/p99 latency per stage
  - Degraded leg rate (partial results served)
  - Candidate funnel (retrieval -> fusion -> final)
  - Cache hit rate and invalidation volume
  - Circuit breaker state visualization

Example PromQL queries:

	# Search p95 latency
	histogram_quantile(0.95, rate(search_stage_duration_seconds_bucket{stage="total"}[5m]))

	# Degraded search ratio
	sum(rate(search_requests_total{status="degraded"}[5m])) / sum(rate(search_requests_total[5m]))

	# Vector leg exclusion rate
	rate(retrieval_leg_degraded_total{leg="vector"}[5m])

	# Cache hit rate
	sum(rate(cache_hits_total[5m])) / (sum(rate(cache_hits_total[5m])) + sum(rate(cache_misses_total[5m])))

# Thread Safety

All metric recording functions are thread-safe and designed for concurrent use
from multiple goroutines. The Prometheus client library handles synchronization
internally.

# Cardinality Management

To prevent high cardinality issues:

  - Endpoint labels are normalized (no query parameters)
  - Degradation reasons are limited to predefined constants
  - Query text and user identifiers never appear as labels

# Alerting Rules

Example Prometheus alerting rules:

	groups:
	  - name: reperio
	    rules:
	      - alert: HighDegradedSearchRate
	        expr: |
	          sum(rate(search_requests_total{status="degraded"}[5m]))
	          /
	          sum(rate(search_requests_total[5m]))
	          > 0.10
	        for: 5m
	        annotations:
	          summary: "Degraded search ratio: {{ $value }}"

	      - alert: CircuitBreakerOpen
	        expr: circuit_breaker_state > 1
	        for: 2m
	        annotations:
	          summary: "Circuit breaker open for {{ $labels.name }}"

# See Also

  - internal/discovery: Pipeline stage metrics recording
  - internal/store: Database metrics recording
  - internal/clients: Circuit breaker and embedding metrics
  - https://prometheus.io/docs/practices/naming/: Metric naming conventions
*/
package metrics
