// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/reperio/internal/models"
)

// readinessTimeout bounds the store ping on the readiness probe.
const readinessTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable. Implemented by
// store.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	store     Pinger
	startedAt time.Time
}

// NewHealthHandler creates the probe handlers. store may be nil when the
// process runs without a catalog store; readiness then only reflects
// that the HTTP layer is up.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{
		store:     store,
		startedAt: time.Now(),
	}
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// Health handles GET /health: process liveness only, no dependencies.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: &healthResponse{
			Status: "ok",
			Uptime: time.Since(h.startedAt).Round(time.Second).String(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Ready handles GET /ready: the process can answer queries, which
// requires the catalog store.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			respondError(w, http.StatusServiceUnavailable, codeUnavailable, "Catalog store unreachable", err)
			return
		}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     &healthResponse{Status: "ready", Uptime: time.Since(h.startedAt).Round(time.Second).String()},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
