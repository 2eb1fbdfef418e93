// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reperio/internal/metrics"
	"github.com/tomtom215/reperio/internal/models"
)

// Engine coordinates the discovery pipeline. It holds no per-request state
// and is safe for concurrent use.
//
// Collaborators are injected at construction. Only the catalog source is
// required; a missing parser degrades to raw tokenization, missing
// strategies shrink the fan-out, a missing explorer skips graph enrichment
// and a missing personalizer zeroes the preference factor.
type Engine struct {
	config *Config
	logger zerolog.Logger

	parser       IntentParser
	strategies   []Strategy
	explorer     GraphExplorer
	history      HistorySource
	personalizer Personalizer
	catalog      CatalogSource
}

// EngineOption configures optional collaborators on an Engine.
type EngineOption func(*Engine)

// WithIntentParser installs the query intent parser.
func WithIntentParser(p IntentParser) EngineOption {
	return func(e *Engine) { e.parser = p }
}

// WithStrategy registers a retrieval strategy. Order determines fan-out
// order only; fusion is order-independent.
func WithStrategy(s Strategy) EngineOption {
	return func(e *Engine) { e.strategies = append(e.strategies, s) }
}

// WithGraphExplorer installs the relationship graph explorer.
func WithGraphExplorer(g GraphExplorer) EngineOption {
	return func(e *Engine) { e.explorer = g }
}

// WithHistorySource installs the user history source for graph seeding.
func WithHistorySource(h HistorySource) EngineOption {
	return func(e *Engine) { e.history = h }
}

// WithPersonalizer installs the personalization adapter.
func WithPersonalizer(p Personalizer) EngineOption {
	return func(e *Engine) { e.personalizer = p }
}

// NewEngine creates a discovery engine.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, catalog CatalogSource, logger zerolog.Logger, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog source is required")
	}

	e := &Engine{
		config:  cfg,
		logger:  logger.With().Str("component", "discovery").Logger(),
		catalog: catalog,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// legResult is one retrieval leg's outcome after the fan-out join.
type legResult struct {
	leg        string
	candidates []CandidateResult
	err        error
}

// Search runs the full pipeline for a text query.
//
// A single dependency failure never fails the request while at least one
// retrieval source succeeds; failed legs are reported in Response.Degraded.
// All strategies failing (or returning nothing) yields an empty result set,
// not an error. Context cancellation aborts all outstanding work and
// returns the context error with no partial result.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Search(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	if err := validateSearchRequest(&req); err != nil {
		return nil, err
	}
	req = e.applySearchDefaults(req)

	requestID := uuid.NewString()
	logger := e.logger.With().
		Str("request_id", requestID).
		Str("variant", req.Variant).
		Logger()

	intent := e.parseIntent(ctx, req.Query, req.Locale, logger)

	// Fan-out: retrieval legs and the history fetch run concurrently, each
	// leg under its own timeout. The join excludes failed legs instead of
	// blocking on them.
	historyCh := make(chan []string, 1)
	go func() {
		historyCh <- e.fetchHistory(ctx, req.UserID, logger)
	}()

	legs, degraded := e.runRetrievalLegs(ctx, intent, req.Filters, logger)
	historyIDs := <-historyCh

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fused := fuse(legs, e.config.FusionK)

	// Graph enrichment from the fused head plus user history.
	fused, graphDegraded := e.enrichWithGraph(ctx, fused, historyIDs, 0, logger)
	if graphDegraded != "" {
		degraded = append(degraded, graphDegraded)
	}

	if len(fused) == 0 {
		logger.Debug().Msg("no candidates from any retrieval source")
		metrics.RecordSearch(req.Variant, "empty", time.Since(start))
		return e.emptyResponse(&req, requestID, intent, degraded, start), nil
	}

	if len(fused) > e.config.MaxCandidates {
		fused = fused[:e.config.MaxCandidates]
	}

	results, prefDegraded := e.scoreCandidates(ctx, fused, intent, &req, logger)
	if prefDegraded != "" {
		degraded = append(degraded, prefDegraded)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results, deferrals := diversify(results, e.config.Diversity)
	if deferrals > 0 {
		metrics.DiversityDeferred.Add(float64(deferrals))
	}

	resp := e.paginate(results, &req, requestID, intent, degraded, start)

	metrics.RecordSearch(req.Variant, "ok", time.Since(start))
	logger.Debug().
		Int("candidates", len(fused)).
		Int("returned", len(resp.Results)).
		Strs("degraded", degraded).
		Int64("latency_ms", resp.Elapsed.Milliseconds()).
		Msg("search complete")

	return resp, nil
}

// Discover runs graph-first discovery from explicit seed items.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Discover(ctx context.Context, req DiscoverRequest) (*Response, error) {
	start := time.Now()

	if err := validateDiscoverRequest(&req); err != nil {
		return nil, err
	}
	if req.PageSize == 0 {
		req.PageSize = e.config.DefaultPageSize
	}
	if req.Variant == "" {
		req.Variant = VariantControl
	}

	requestID := uuid.NewString()
	logger := e.logger.With().Str("request_id", requestID).Logger()

	if e.explorer == nil {
		return nil, fmt.Errorf("graph explorer not configured")
	}

	explored, err := e.explorer.Explore(ctx, req.SeedIDs, req.MaxDepth)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		dep := legError(LegGraph, err)
		logger.Warn().Err(err).Str("reason", dep.Reason()).Msg("graph discovery degraded")
		metrics.RecordLegDegraded(LegGraph, dep.Reason())
		searchReq := Request{Variant: req.Variant, Page: req.Page, PageSize: req.PageSize}
		return e.emptyResponse(&searchReq, requestID, QueryIntent{}, []string{LegGraph}, start), nil
	}
	metrics.RecordGraphTraversal(explored.EdgesVisited, explored.BudgetExhausted)

	ranking := graphRanking(explored.Scores, nil, e.config.GraphMinScore)
	fused := fuse([]legRanking{{leg: LegGraph, candidates: ranking, weight: 1.0}}, e.config.FusionK)

	searchReq := Request{
		UserID:   req.UserID,
		Variant:  req.Variant,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	results, prefDegraded := e.scoreCandidates(ctx, fused, QueryIntent{}, &searchReq, logger)

	var degraded []string
	if prefDegraded != "" {
		degraded = append(degraded, prefDegraded)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results, deferrals := diversify(results, e.config.Diversity)
	if deferrals > 0 {
		metrics.DiversityDeferred.Add(float64(deferrals))
	}

	return e.paginate(results, &searchReq, requestID, QueryIntent{}, degraded, start), nil
}

// applySearchDefaults fills unset request fields from configuration.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) applySearchDefaults(req Request) Request {
	if req.PageSize == 0 {
		req.PageSize = e.config.DefaultPageSize
	}
	if req.Variant == "" {
		req.Variant = VariantControl
	}
	return req
}

// parseIntent runs intent parsing, degrading to a raw tokenized intent when
// the parser is absent or fails. Parsing is an enrichment, never a hard
// dependency.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func (e *Engine) parseIntent(ctx context.Context, query, locale string, logger zerolog.Logger) QueryIntent {
	if e.parser == nil {
		return fallbackIntent(query, locale)
	}

	intent, err := e.parser.Parse(ctx, query, locale)
	if err != nil {
		logger.Warn().Err(err).Msg("intent parsing degraded to raw tokenization")
		metrics.IntentFallbacksTotal.Inc()
		return fallbackIntent(query, locale)
	}
	return intent
}

// fallbackIntent tokenizes the raw query with no entity extraction.
func fallbackIntent(query, locale string) QueryIntent {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	tokens := strings.Fields(normalized)
	return QueryIntent{
		Raw:          query,
		Normalized:   normalized,
		Tokens:       tokens,
		KeywordTerms: tokens,
		Confidence:   0,
		Locale:       locale,
	}
}

// runRetrievalLegs fans the strategies out concurrently, each under the
// configured per-leg timeout, and joins their results. Failed or timed-out
// legs are excluded from the returned rankings and named in degraded.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func (e *Engine) runRetrievalLegs(ctx context.Context, intent QueryIntent, filters Filters, logger zerolog.Logger) ([]legRanking, []string) {
	results := make([]legResult, len(e.strategies))
	var wg sync.WaitGroup

	for i, s := range e.strategies {
		wg.Add(1)
		go func(idx int, strategy Strategy) {
			defer wg.Done()
			legStart := time.Now()

			legCtx, cancel := context.WithTimeout(ctx, e.config.LegTimeout)
			defer cancel()

			candidates, err := strategy.Search(legCtx, intent, filters, e.config.RetrievalLimit)
			results[idx] = legResult{leg: strategy.Name(), candidates: candidates, err: err}

			if err == nil {
				metrics.RecordRetrievalLeg(strategy.Name(), time.Since(legStart), len(candidates))
			}
		}(i, s)
	}
	wg.Wait()

	legs := make([]legRanking, 0, len(results))
	var degraded []string

	for i := range results {
		r := &results[i]
		if r.err != nil {
			dep := legError(r.leg, r.err)
			logger.Warn().
				Err(r.err).
				Str("leg", r.leg).
				Str("reason", dep.Reason()).
				Msg("retrieval leg excluded from fusion")
			metrics.RecordLegDegraded(r.leg, dep.Reason())
			degraded = append(degraded, r.leg)
			continue
		}
		if len(r.candidates) == 0 {
			continue
		}
		legs = append(legs, legRanking{leg: r.leg, candidates: r.candidates, weight: 1.0})
	}

	return legs, degraded
}

// fetchHistory returns the user's recent item IDs for graph seeding, or nil
// when no user is present or the fetch fails. History is a seeding bonus,
// never a dependency.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func (e *Engine) fetchHistory(ctx context.Context, userID string, logger zerolog.Logger) []string {
	if userID == "" || e.history == nil {
		return nil
	}
	fetchCtx, cancel := context.WithTimeout(ctx, e.config.LegTimeout)
	defer cancel()
	ids, err := e.history.RecentItemIDs(fetchCtx, userID, e.config.GraphSeedLimit)
	if err != nil {
		logger.Warn().Err(err).Msg("history fetch failed, graph seeds from retrieval only")
		return nil
	}
	return ids
}

// enrichWithGraph explores the relationship graph from the top fused items
// plus history and merges the discoveries back in as a third ranked leg.
// The original fused order is preserved by refusing the merged ranking when
// exploration fails; the returned string names the degraded leg, if any.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func (e *Engine) enrichWithGraph(ctx context.Context, fused []CandidateResult, historyIDs []string, maxDepth int, logger zerolog.Logger) ([]CandidateResult, string) {
	if e.explorer == nil {
		return fused, ""
	}

	seeds := e.collectSeeds(fused, historyIDs)
	if len(seeds) == 0 {
		return fused, ""
	}

	// The edge budget bounds how many edges a traversal visits, not how
	// long one edge query may take; the leg timeout bounds the latter.
	legCtx, cancel := context.WithTimeout(ctx, e.config.LegTimeout)
	defer cancel()

	explored, err := e.explorer.Explore(legCtx, seeds, maxDepth)
	if err != nil {
		dep := legError(LegGraph, err)
		logger.Warn().Err(err).Str("reason", dep.Reason()).Msg("graph enrichment excluded")
		metrics.RecordLegDegraded(LegGraph, dep.Reason())
		return fused, LegGraph
	}
	metrics.RecordGraphTraversal(explored.EdgesVisited, explored.BudgetExhausted)

	if len(explored.Scores) == 0 {
		return fused, ""
	}

	direct := make(map[string]struct{}, len(fused))
	for i := range fused {
		direct[fused[i].ItemID] = struct{}{}
	}

	graphLeg := graphRanking(explored.Scores, direct, e.config.GraphMinScore)

	// Re-fuse with the graph leg added. Direct legs are reconstructed from
	// the merged candidates so their RRF contributions are identical.
	legs := []legRanking{
		{leg: LegVector, candidates: filterByLeg(fused, LegVector), weight: 1.0},
		{leg: LegKeyword, candidates: filterByLeg(fused, LegKeyword), weight: 1.0},
		{leg: LegGraph, candidates: graphLeg, weight: 1.0},
	}
	return fuse(legs, e.config.FusionK), ""
}

// collectSeeds unions the top fused items with the user's history, capped
// and deduplicated, preserving fused order first.
func (e *Engine) collectSeeds(fused []CandidateResult, historyIDs []string) []string {
	seen := make(map[string]struct{})
	seeds := make([]string, 0, e.config.GraphSeedLimit*2)

	for i := 0; i < len(fused) && i < e.config.GraphSeedLimit; i++ {
		id := fused[i].ItemID
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			seeds = append(seeds, id)
		}
	}
	for i := 0; i < len(historyIDs) && i < e.config.GraphSeedLimit; i++ {
		id := historyIDs[i]
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			seeds = append(seeds, id)
		}
	}
	return seeds
}

// filterByLeg rebuilds one leg's ranked list from merged candidates.
func filterByLeg(fused []CandidateResult, leg string) []CandidateResult {
	out := make([]CandidateResult, 0, len(fused))
	for i := range fused {
		if rankForLeg(&fused[i], leg) > 0 {
			out = append(out, fused[i])
		}
	}
	return out
}

// scoreCandidates hydrates the candidates and applies multi-factor ranking.
// The personalization fetch runs concurrently with hydration and factor
// preparation; on timeout or error the preference factor is zero for the
// whole request and the returned string names the degraded source.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func (e *Engine) scoreCandidates(ctx context.Context, fused []CandidateResult, intent QueryIntent, req *Request, logger zerolog.Logger) ([]RankedResult, string) {
	ids := make([]string, len(fused))
	for i := range fused {
		ids[i] = fused[i].ItemID
	}

	prefWeight := e.config.PreferenceWeight(req.Variant)

	type affinityResult struct {
		affinities map[string]float64
		err        error
	}
	affinityCh := make(chan affinityResult, 1)

	if e.personalizer != nil && req.UserID != "" && prefWeight > 0 {
		go func() {
			start := time.Now()
			affinities, err := e.personalizer.Affinities(ctx, req.UserID, ids, req.Variant)
			if err == nil {
				metrics.RecordPersonalization(time.Since(start), "")
			}
			affinityCh <- affinityResult{affinities: affinities, err: err}
		}()
	} else {
		affinityCh <- affinityResult{}
	}

	items := e.hydrate(ctx, ids, logger)

	aff := <-affinityCh
	degraded := ""
	if aff.err != nil {
		dep := legError("personalization", aff.err)
		logger.Warn().Err(aff.err).Str("reason", dep.Reason()).Msg("personalization degraded, preference factor zeroed")
		metrics.RecordPersonalization(0, dep.Reason())
		aff.affinities = nil
		degraded = "personalization"
	}

	results := rank(fused, rankingInput{
		items:      items,
		intent:     intent,
		affinities: aff.affinities,
		weights:    e.config.Weights,
		prefWeight: prefWeight,
		halfLife:   e.config.FreshnessHalfLife,
		variant:    req.Variant,
		now:        time.Now(),
	})
	return results, degraded
}

// hydrate loads catalog metadata for the candidate IDs. Hydration failures
// degrade ranking to fused-score order instead of failing the request.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func (e *Engine) hydrate(ctx context.Context, ids []string, logger zerolog.Logger) map[string]models.CatalogItem {
	items, err := e.catalog.GetItems(ctx, ids)
	if err != nil {
		logger.Warn().Err(err).Msg("hydration failed, ranking on fused scores only")
		return nil
	}
	byID := make(map[string]models.CatalogItem, len(items))
	for i := range items {
		byID[items[i].ID] = items[i]
	}
	return byID
}

// paginate slices the ranked list into the requested page and assembles the
// response.
func (e *Engine) paginate(results []RankedResult, req *Request, requestID string, intent QueryIntent, degraded []string, start time.Time) *Response {
	total := len(results)
	offset := req.Page * req.PageSize
	if offset > total {
		offset = total
	}
	end := offset + req.PageSize
	if end > total {
		end = total
	}

	resp := &Response{
		Results:   results[offset:end],
		Total:     total,
		Page:      req.Page,
		PageSize:  req.PageSize,
		Degraded:  degraded,
		RequestID: requestID,
		Elapsed:   time.Since(start),
	}
	if intent.Raw != "" {
		resp.Intent = &intent
	}
	return resp
}

// emptyResponse builds the NoCandidates outcome: an empty result set
// surfaced as success, never as an error.
func (e *Engine) emptyResponse(req *Request, requestID string, intent QueryIntent, degraded []string, start time.Time) *Response {
	metrics.SearchEmptyResults.WithLabelValues(req.Variant).Inc()
	return e.paginate([]RankedResult{}, req, requestID, intent, degraded, start)
}

// validateSearchRequest rejects malformed input with InvalidRequestError.
func validateSearchRequest(req *Request) error {
	if strings.TrimSpace(req.Query) == "" {
		return &InvalidRequestError{Field: "query", Reason: "must not be empty"}
	}
	if len(req.Query) > 512 {
		return &InvalidRequestError{Field: "query", Reason: "exceeds maximum length of 512"}
	}
	if req.Page < 0 {
		return &InvalidRequestError{Field: "page", Reason: "must be non-negative"}
	}
	if req.PageSize < 0 || req.PageSize > 100 {
		return &InvalidRequestError{Field: "page_size", Reason: "must be between 1 and 100"}
	}
	if err := validateFilters(&req.Filters); err != nil {
		return err
	}
	return nil
}

// validateDiscoverRequest rejects malformed discover input.
func validateDiscoverRequest(req *DiscoverRequest) error {
	if len(req.SeedIDs) == 0 {
		return &InvalidRequestError{Field: "seed_ids", Reason: "at least one seed is required"}
	}
	if len(req.SeedIDs) > 20 {
		return &InvalidRequestError{Field: "seed_ids", Reason: "at most 20 seeds allowed"}
	}
	for _, id := range req.SeedIDs {
		if strings.TrimSpace(id) == "" {
			return &InvalidRequestError{Field: "seed_ids", Reason: "seed IDs must not be empty"}
		}
	}
	if req.MaxDepth < 0 || req.MaxDepth > 5 {
		return &InvalidRequestError{Field: "max_depth", Reason: "must be between 1 and 5"}
	}
	if req.Page < 0 {
		return &InvalidRequestError{Field: "page", Reason: "must be non-negative"}
	}
	if req.PageSize < 0 || req.PageSize > 100 {
		return &InvalidRequestError{Field: "page_size", Reason: "must be between 1 and 100"}
	}
	return nil
}

// validateFilters checks facet constraint ranges.
func validateFilters(f *Filters) error {
	if f.YearMin != 0 && f.YearMax != 0 && f.YearMin > f.YearMax {
		return &InvalidRequestError{Field: "filters.year_min", Reason: "exceeds year_max"}
	}
	if f.RatingMin < 0 || f.RatingMax < 0 || f.RatingMin > 10 || f.RatingMax > 10 {
		return &InvalidRequestError{Field: "filters.rating", Reason: "ratings must be within 0-10"}
	}
	if f.RatingMin != 0 && f.RatingMax != 0 && f.RatingMin > f.RatingMax {
		return &InvalidRequestError{Field: "filters.rating_min", Reason: "exceeds rating_max"}
	}
	return nil
}
