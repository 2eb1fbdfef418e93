// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

// Package api exposes the discovery engine over HTTP.
//
// The surface is deliberately thin: the engine package owns the pipeline
// and this package only adapts it — request parsing and validation,
// result caching, the response envelope, and per-route middleware
// (request IDs, CORS, rate limits, security headers, Prometheus
// instrumentation).
//
// Routes are versioned under /api/v1:
//
//	POST /api/v1/search          full pipeline search
//	POST /api/v1/discover        graph discovery from seed items
//	GET  /api/v1/similar/{id}    single-seed discovery shorthand
//	GET  /api/v1/autocomplete    prefix suggestions
//	GET  /api/v1/trending        popular queries
//	POST /api/v1/admin/cache/invalidate   targeted invalidation
//	GET  /api/v1/admin/cache/stats        cache entry counts
//	GET  /health, /ready         liveness and readiness probes
//	GET  /metrics                Prometheus exposition
package api
