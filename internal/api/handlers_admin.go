// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reperio/internal/events"
	"github.com/tomtom215/reperio/internal/models"
)

// invalidateRequest is the body for POST /api/v1/admin/cache/invalidate.
// At least one of ItemIDs or UserID must be set.
type invalidateRequest struct {
	ItemIDs []string `json:"item_ids,omitempty" validate:"omitempty,max=100,dive,required"`
	UserID  string   `json:"user_id,omitempty" validate:"omitempty,max=128"`
	Reason  string   `json:"reason,omitempty" validate:"omitempty,max=256"`
}

// invalidateResponse reports what the invalidation did.
type invalidateResponse struct {
	Published bool `json:"published"`
	Removed   int  `json:"removed"`
}

// InvalidateCache handles POST /api/v1/admin/cache/invalidate.
//
// With an event bus attached the request becomes invalidation events, so
// every node (and the local consumer) drops its entries; without one it
// falls back to dropping entries from the local cache only. A user_id on
// the bus path emits UserDataRevoked, which also deletes the user's
// stored interactions and profile — this endpoint is the entry point for
// data-revocation requests, not just a cache knob.
func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	var req invalidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidJSON, "Request body must be valid JSON", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	if len(req.ItemIDs) == 0 && req.UserID == "" {
		respondError(w, http.StatusBadRequest, codeValidation, "One of item_ids or user_id is required", nil)
		return
	}

	resp := invalidateResponse{}
	if h.publisher != nil {
		if err := h.publishInvalidation(&req); err != nil {
			respondError(w, http.StatusInternalServerError, codePublishFailed, "Failed to publish invalidation event", err)
			return
		}
		resp.Published = true
	} else {
		for _, id := range req.ItemIDs {
			resp.Removed += h.results.InvalidateItem(id)
		}
		if req.UserID != "" {
			resp.Removed += h.results.InvalidateUser(req.UserID)
		}
	}

	h.logger.Info().
		Int("item_ids", len(req.ItemIDs)).
		Str("user_id", req.UserID).
		Bool("published", resp.Published).
		Int("removed", resp.Removed).
		Msg("cache invalidation requested")

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     &resp,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

func (h *Handler) publishInvalidation(req *invalidateRequest) error {
	if len(req.ItemIDs) > 0 {
		if err := h.publisher.PublishEvent(events.NewCatalogItemUpdated(req.ItemIDs...)); err != nil {
			return err
		}
	}
	if req.UserID != "" {
		reason := req.Reason
		if reason == "" {
			reason = "admin request"
		}
		if err := h.publisher.PublishEvent(events.NewUserDataRevoked(req.UserID, reason)); err != nil {
			return err
		}
	}
	return nil
}

// cacheStatsResponse is the payload for GET /api/v1/admin/cache/stats.
type cacheStatsResponse struct {
	Entries          int `json:"entries"`
	AutocompleteSize int `json:"autocomplete_size"`
}

// CacheStats handles GET /api/v1/admin/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	resp := cacheStatsResponse{Entries: h.results.Len()}
	if sizer, ok := h.suggester.(interface{ Size() int }); ok {
		resp.AutocompleteSize = sizer.Size()
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     &resp,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
