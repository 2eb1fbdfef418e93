// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reperio/internal/cache"
	"github.com/tomtom215/reperio/internal/config"
	"github.com/tomtom215/reperio/internal/discovery"
	"github.com/tomtom215/reperio/internal/events"
	"github.com/tomtom215/reperio/internal/models"
)

// handlerTimeout bounds one request's pipeline execution.
const handlerTimeout = 10 * time.Second

// Discovery is the engine surface the handlers depend on. Implemented by
// discovery.Engine.
type Discovery interface {
	Search(ctx context.Context, req discovery.Request) (*discovery.Response, error)
	Discover(ctx context.Context, req discovery.DiscoverRequest) (*discovery.Response, error)
}

// QueryLog records and ranks query popularity. Implemented by store.Store.
type QueryLog interface {
	RecordQuery(ctx context.Context, query string) error
	TopQueries(ctx context.Context, limit int) ([]models.PopularQuery, error)
}

// Suggester answers prefix lookups. Implemented by cache.Autocomplete.
type Suggester interface {
	Suggest(prefix string, limit int) []cache.Suggestion
}

// InvalidationPublisher emits invalidation events onto the bus.
// Implemented by events.Publisher; nil disables event emission and admin
// invalidation falls back to the local cache only.
type InvalidationPublisher interface {
	PublishEvent(event *events.InvalidationEvent) error
}

// Handler serves the /api/v1 endpoints.
type Handler struct {
	engine    Discovery
	results   *cache.ResultCache
	suggester Suggester
	queries   QueryLog
	publisher InvalidationPublisher
	cfg       config.APIConfig
	resultTTL time.Duration
	logger    zerolog.Logger
}

// NewHandler wires the handler set. suggester, queries and publisher may
// be nil; the corresponding endpoints degrade to empty answers or
// local-only invalidation.
//
//nolint:gocritic // hugeParam: zerolog loggers are passed by value
func NewHandler(engine Discovery, results *cache.ResultCache, suggester Suggester, queries QueryLog, publisher InvalidationPublisher, cfg config.APIConfig, resultTTL time.Duration, logger zerolog.Logger) *Handler {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}
	return &Handler{
		engine:    engine,
		results:   results,
		suggester: suggester,
		queries:   queries,
		publisher: publisher,
		cfg:       cfg,
		resultTTL: resultTTL,
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

// Search handles POST /api/v1/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req discovery.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidJSON, "Request body must be valid JSON", err)
		return
	}
	h.clampPaging(&req.PageSize)

	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	// Cached entries are tagged with the requesting user so a revocation
	// event drops them; catalog changes age out within the TTL.
	var tags []string
	if req.UserID != "" {
		tags = append(tags, cache.TagUser(req.UserID))
	}

	start := time.Now()
	var resp discovery.Response
	err := h.results.Do(ctx, "search", req, h.resultTTL, tags, &resp, func(ctx context.Context) (any, error) {
		return h.engine.Search(ctx, req)
	})
	if err != nil {
		h.respondEngineError(w, codeSearchFailed, "Search failed", err)
		return
	}

	h.recordQuery(ctx, req.Query)

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   &resp,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Degraded:    resp.Degraded,
		},
	})
}

// Discover handles POST /api/v1/discover.
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	var req discovery.DiscoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidJSON, "Request body must be valid JSON", err)
		return
	}
	h.clampPaging(&req.PageSize)

	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	h.serveDiscover(w, r, req)
}

// Similar handles GET /api/v1/similar/{id}: single-seed discovery with
// query-parameter tuning (depth, limit, user_id, variant).
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, codeValidation, "Item id is required", nil)
		return
	}

	req := discovery.DiscoverRequest{
		SeedIDs:  []string{itemID},
		MaxDepth: getIntParam(r, "depth", 0),
		UserID:   r.URL.Query().Get("user_id"),
		Variant:  r.URL.Query().Get("variant"),
		PageSize: getIntParam(r, "limit", 0),
	}
	h.clampPaging(&req.PageSize)

	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	h.serveDiscover(w, r, req)
}

// serveDiscover runs a validated discovery request through the cache and
// the engine. Entries are tagged with every seed item, so a catalog
// change on a seed invalidates the answers derived from it.
func (h *Handler) serveDiscover(w http.ResponseWriter, r *http.Request, req discovery.DiscoverRequest) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	tags := make([]string, 0, len(req.SeedIDs)+1)
	for _, id := range req.SeedIDs {
		tags = append(tags, cache.TagItem(id))
	}
	if req.UserID != "" {
		tags = append(tags, cache.TagUser(req.UserID))
	}

	start := time.Now()
	var resp discovery.Response
	err := h.results.Do(ctx, "discover", req, h.resultTTL, tags, &resp, func(ctx context.Context) (any, error) {
		return h.engine.Discover(ctx, req)
	})
	if err != nil {
		h.respondEngineError(w, codeDiscoverFailed, "Discovery failed", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   &resp,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Degraded:    resp.Degraded,
		},
	})
}

// autocompleteResponse is the payload for GET /api/v1/autocomplete.
type autocompleteResponse struct {
	Suggestions []cache.Suggestion `json:"suggestions"`
	Count       int                `json:"count"`
}

// autocompleteKey identifies one cached prefix lookup.
type autocompleteKey struct {
	Prefix string `json:"prefix"`
	Limit  int    `json:"limit"`
}

// Autocomplete handles GET /api/v1/autocomplete?q=...&limit=N. Lookups go
// through the result cache under the "autocomplete" operation; the trie
// itself refreshes on the dictionary interval, so a TTL-stale answer is
// at worst one refresh behind.
func (h *Handler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("q")
	if prefix == "" {
		respondError(w, http.StatusBadRequest, codeValidation, "Query parameter q is required", nil)
		return
	}

	limit := getIntParam(r, "limit", 10)
	if limit < 1 || limit > 50 {
		limit = 10
	}

	var suggestions []cache.Suggestion
	err := h.results.Do(r.Context(), "autocomplete", autocompleteKey{Prefix: prefix, Limit: limit}, h.resultTTL, nil, &suggestions, func(ctx context.Context) (any, error) {
		if h.suggester == nil {
			return []cache.Suggestion{}, nil
		}
		return h.suggester.Suggest(prefix, limit), nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Autocomplete lookup failed", err)
		return
	}
	if suggestions == nil {
		suggestions = []cache.Suggestion{}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: &autocompleteResponse{
			Suggestions: suggestions,
			Count:       len(suggestions),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// trendingResponse is the payload for GET /api/v1/trending.
type trendingResponse struct {
	Queries []models.PopularQuery `json:"queries"`
	Count   int                   `json:"count"`
}

// Trending handles GET /api/v1/trending?limit=N, returning the most
// popular recorded queries. Answers come through the result cache: the
// underlying aggregate only changes as searches are recorded, so a short
// TTL is fine.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	if h.queries == nil {
		respondError(w, http.StatusServiceUnavailable, codeUnavailable, "Query tracking is not enabled", nil)
		return
	}

	limit := getIntParam(r, "limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	var queries []models.PopularQuery
	err := h.results.Do(ctx, "trending", limit, h.resultTTL, nil, &queries, func(ctx context.Context) (any, error) {
		return h.queries.TopQueries(ctx, limit)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to load trending queries", err)
		return
	}
	if queries == nil {
		queries = []models.PopularQuery{}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: &trendingResponse{
			Queries: queries,
			Count:   len(queries),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// clampPaging applies the configured default and ceiling to a requested
// page size before validation.
func (h *Handler) clampPaging(pageSize *int) {
	if *pageSize <= 0 {
		*pageSize = h.cfg.DefaultPageSize
	}
	if *pageSize > h.cfg.MaxPageSize {
		*pageSize = h.cfg.MaxPageSize
	}
}

// recordQuery tracks query popularity; failures only cost trending data.
func (h *Handler) recordQuery(ctx context.Context, query string) {
	if h.queries == nil {
		return
	}
	if err := h.queries.RecordQuery(ctx, query); err != nil {
		h.logger.Warn().Err(err).Msg("failed to record query")
	}
}

// respondEngineError maps pipeline errors onto HTTP statuses. Invalid
// requests that slipped past struct validation are the caller's fault;
// everything else is a 500.
func (h *Handler) respondEngineError(w http.ResponseWriter, code, message string, err error) {
	if discovery.IsInvalidRequest(err) {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}
	respondError(w, http.StatusInternalServerError, code, message, err)
}

func respondValidationError(w http.ResponseWriter, apiErr *models.APIError) {
	respondJSON(w, http.StatusBadRequest, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    apiErr,
	})
}
