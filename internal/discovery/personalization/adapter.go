// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

// Package personalization adapts the external user-affinity scoring
// service to the discovery pipeline.
//
// The adapter enforces a hard fetch budget of tens of milliseconds: a slow
// personalization service shifts rankings toward the non-personal factors,
// it never stretches the response. Timeouts and errors degrade to a zero
// preference contribution for the request and are surfaced through
// metrics, not retried.
package personalization

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/reperio/internal/discovery"
)

// Scorer is the external personalization service boundary.
type Scorer interface {
	Score(ctx context.Context, userID string, itemIDs []string, variant string) (map[string]float64, error)
}

// Adapter wraps a Scorer with the pipeline's degradation policy. It
// implements discovery.Personalizer.
type Adapter struct {
	scorer  Scorer
	timeout time.Duration
}

// NewAdapter creates an adapter with the given hard fetch budget.
// A non-positive timeout defaults to 100ms.
func NewAdapter(scorer Scorer, timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 100 * time.Millisecond
	}
	return &Adapter{scorer: scorer, timeout: timeout}
}

// Affinities implements discovery.Personalizer.
//
// The fetch runs under the adapter's own deadline layered on the request
// context. Whatever goes wrong — timeout, transport error, service error —
// is returned to the engine, which zeroes the preference factor for this
// request; there is no within-request retry.
func (a *Adapter) Affinities(ctx context.Context, userID string, itemIDs []string, variant string) (map[string]float64, error) {
	if userID == "" || len(itemIDs) == 0 {
		return nil, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	affinities, err := a.scorer.Score(fetchCtx, userID, itemIDs, variant)
	if err != nil {
		return nil, fmt.Errorf("personalization fetch: %w", err)
	}

	// Clamp to [0, 1]; an out-of-range affinity must not let one item's
	// preference term swamp every other ranking factor.
	for id, v := range affinities {
		if v < 0 {
			affinities[id] = 0
		} else if v > 1 {
			affinities[id] = 1
		}
	}
	return affinities, nil
}

// Ensure interface compliance.
var _ discovery.Personalizer = (*Adapter)(nil)
