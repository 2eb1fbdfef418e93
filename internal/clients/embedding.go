// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package clients

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/reperio/internal/config"
	"github.com/tomtom215/reperio/internal/discovery/retrieval"
	"github.com/tomtom215/reperio/internal/metrics"
)

// Embedding client defaults, applied when the config leaves a field zero.
const (
	defaultEmbeddingTimeout  = 2 * time.Second
	defaultEmbeddingRPS      = 50
	defaultEmbeddingBurst    = 100
	defaultEmbeddingDims     = 768
	defaultEmbeddingCacheTTL = time.Hour

	// Hot-cache sizing: popular queries repeat heavily, so a few thousand
	// cached vectors absorb most of the embedding traffic.
	embeddingCacheCounters = 100_000
	embeddingCacheMaxCost  = 64 << 20 // 64 MiB of float32 vectors
)

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// EmbeddingClient calls the external embedding service that powers the
// semantic retrieval leg. It implements retrieval.Embedder.
//
// Three layers protect the pipeline from the upstream:
//   - a ristretto hot cache keyed by query text, so repeated queries never
//     leave the process,
//   - a token-bucket rate limiter bounding outbound request rate,
//   - a circuit breaker that fails fast while the service is unhealthy.
//
// Any failure surfaces as an error to the vector strategy, which excludes
// the semantic leg from fusion for that request.
type EmbeddingClient struct {
	httpClient *http.Client
	baseURL    string
	dimensions int
	limiter    *rate.Limiter
	cache      *ristretto.Cache[string, []float32]
	cacheTTL   time.Duration
	breaker    *breaker
	logger     zerolog.Logger
}

// NewEmbeddingClient creates an embedding client from config. Zero-valued
// limits fall back to the documented defaults.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func NewEmbeddingClient(cfg *config.EmbeddingConfig, logger zerolog.Logger) (*EmbeddingClient, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("embedding client: URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultEmbeddingTimeout
	}
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = defaultEmbeddingRPS
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = defaultEmbeddingBurst
	}
	dims := cfg.Dimensions
	if dims <= 0 {
		dims = defaultEmbeddingDims
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultEmbeddingCacheTTL
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, []float32]{
		NumCounters: embeddingCacheCounters,
		MaxCost:     embeddingCacheMaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding cache: %w", err)
	}

	return &EmbeddingClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		dimensions: dims,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		cache:      cache,
		cacheTTL:   cacheTTL,
		breaker:    newBreaker("embedding-service", logger),
		logger:     logger.With().Str("component", "embedding_client").Logger(),
	}, nil
}

// Embed implements retrieval.Embedder. The query text is normalized before
// cache lookup so trivial whitespace variants share an entry.
func (c *EmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("embedding: empty text")
	}

	if vec, ok := c.cache.Get(text); ok {
		return vec, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("embedding rate limit: %w", err)
	}

	start := time.Now()
	result, err := c.breaker.execute(func() (any, error) {
		return c.fetchEmbedding(ctx, text)
	})
	vec, err := castResult[[]float32](result, err)
	if err != nil {
		metrics.RecordEmbeddingRequest(time.Since(start), embeddingFailureReason(err))
		return nil, err
	}
	metrics.RecordEmbeddingRequest(time.Since(start), "")

	// Cost is the vector's float32 footprint.
	c.cache.SetWithTTL(text, vec, int64(len(vec)*4), c.cacheTTL)

	return vec, nil
}

func (c *EmbeddingClient) fetchEmbedding(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encode embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("embedding service returned status %d", resp.StatusCode)
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(decoded.Embedding) != c.dimensions {
		return nil, fmt.Errorf("embedding dimension %d, want %d", len(decoded.Embedding), c.dimensions)
	}

	return decoded.Embedding, nil
}

// CacheWait flushes pending cache writes. Lookups go through ristretto's
// async buffers, so tests call this before asserting on hits.
func (c *EmbeddingClient) CacheWait() {
	c.cache.Wait()
}

// Close releases the embedding cache.
func (c *EmbeddingClient) Close() {
	c.cache.Close()
}

// embeddingFailureReason maps an Embed error to a stable metric label.
func embeddingFailureReason(err error) string {
	switch {
	case isRejection(err):
		return "breaker_open"
	case strings.Contains(err.Error(), "context deadline exceeded"):
		return "timeout"
	case strings.Contains(err.Error(), "status"):
		return "status"
	case strings.Contains(err.Error(), "dimension"):
		return "dimensions"
	case strings.Contains(err.Error(), "decode"):
		return "decode"
	default:
		return "http"
	}
}

// Ensure interface compliance.
var _ retrieval.Embedder = (*EmbeddingClient)(nil)
