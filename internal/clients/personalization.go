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

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reperio/internal/config"
	"github.com/tomtom215/reperio/internal/discovery/personalization"
)

const defaultPersonalizationTimeout = 100 * time.Millisecond

type scoreRequest struct {
	UserID  string   `json:"user_id"`
	ItemIDs []string `json:"item_ids"`
	Variant string   `json:"variant"`
}

type scoreResponse struct {
	Scores map[string]float64 `json:"scores"`
}

// PersonalizationClient calls the external user-affinity scoring service.
// It implements personalization.Scorer.
//
// The personalization.Adapter layers the hard fetch budget on top; the
// client's own HTTP timeout is a backstop for when the adapter's context
// deadline is somehow absent. The breaker keeps a dead service from
// costing every request its full budget.
type PersonalizationClient struct {
	httpClient *http.Client
	baseURL    string
	breaker    *breaker
	logger     zerolog.Logger
}

// NewPersonalizationClient creates a scoring client from config.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func NewPersonalizationClient(cfg *config.PersonalizationConfig, logger zerolog.Logger) (*PersonalizationClient, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("personalization client: URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultPersonalizationTimeout
	}

	return &PersonalizationClient{
		// Twice the fetch budget: the adapter's context deadline fires
		// first in normal operation.
		httpClient: &http.Client{Timeout: 2 * timeout},
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		breaker:    newBreaker("personalization-service", logger),
		logger:     logger.With().Str("component", "personalization_client").Logger(),
	}, nil
}

// Score implements personalization.Scorer.
func (c *PersonalizationClient) Score(ctx context.Context, userID string, itemIDs []string, variant string) (map[string]float64, error) {
	if userID == "" || len(itemIDs) == 0 {
		return nil, nil
	}

	result, err := c.breaker.execute(func() (any, error) {
		return c.fetchScores(ctx, userID, itemIDs, variant)
	})
	return castResult[map[string]float64](result, err)
}

func (c *PersonalizationClient) fetchScores(ctx context.Context, userID string, itemIDs []string, variant string) (map[string]float64, error) {
	body, err := json.Marshal(scoreRequest{UserID: userID, ItemIDs: itemIDs, Variant: variant})
	if err != nil {
		return nil, fmt.Errorf("encode score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("score request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("personalization service returned status %d", resp.StatusCode)
	}

	var decoded scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode score response: %w", err)
	}

	return decoded.Scores, nil
}

// Ensure interface compliance.
var _ personalization.Scorer = (*PersonalizationClient)(nil)
