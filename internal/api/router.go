// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the chi router. Global middleware (request ID,
// real IP, recoverer, CORS) runs on every route; each route group adds
// its own rate limit on top of the shared security-header and metrics
// stack, so expensive pipeline endpoints and cheap probe endpoints get
// different ceilings.
func NewRouter(handler *Handler, health *HealthHandler, mw *Middleware) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	// CORS is global so OPTIONS preflight works on every route.
	r.Use(mw.CORS())

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimitSearch())
			r.Use(SecurityHeaders())
			r.Use(PrometheusMetrics())

			r.Post("/search", handler.Search)
			r.Post("/discover", handler.Discover)
			r.Get("/similar/{id}", handler.Similar)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimitAutocomplete())
			r.Use(SecurityHeaders())
			r.Use(PrometheusMetrics())

			r.Get("/autocomplete", handler.Autocomplete)
			r.Get("/trending", handler.Trending)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(mw.RateLimitAdmin())
			r.Use(SecurityHeaders())
			r.Use(PrometheusMetrics())

			r.Post("/cache/invalidate", handler.InvalidateCache)
			r.Get("/cache/stats", handler.CacheStats)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimitHealth())

		r.Get("/health", health.Health)
		r.Get("/ready", health.Ready)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, codeEndpointMissing, "Endpoint not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, codeMethodHandling, "Method not allowed", nil)
	})

	return r
}
