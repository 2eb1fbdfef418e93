// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

// Package models defines data structures used throughout the Reperio application.
// These models represent catalog items, relationship edges, user interactions, and
// API responses.

package models

import (
	"strings"
	"time"
)

// Media type values for CatalogItem.MediaType.
const (
	MediaTypeMovie       = "movie"
	MediaTypeSeries      = "series"
	MediaTypeDocumentary = "documentary"
	MediaTypeShort       = "short"
)

// CatalogItem represents a single piece of content in the entertainment catalog.
//
// This is the core data model hydrated into every discovery response. Items are
// loaded from the catalog store and enriched with platform availability windows.
//
// Key Fields:
//   - ID: Stable catalog identifier (opaque string, unique across the catalog)
//   - Title: Display title used for autocomplete and "like <Title>" intent matching
//   - MediaType: "movie", "series", "documentary", or "short"
//   - Genres: Fine-grained genre labels (e.g., "sci-fi", "thriller")
//   - GenreCluster: Coarse grouping used by the diversity pass (see ClusterFor)
//   - Overview: Synopsis text indexed for keyword retrieval
//   - ReleaseDate: Drives freshness decay in ranking
//   - Rating: Editorial/aggregate rating on a 0-10 scale
//   - Popularity: Normalized popularity signal in [0, 1]
//
// Relationship Fields (for graph discovery):
//   - FranchiseID: Shared across items in the same franchise
//   - Directors/Cast: Used to derive same-director and shared-cast edges
//
// Availability Fields:
//   - Platforms: Per-platform availability windows, including leaving-soon dates
//
// The Embedding field is excluded from JSON serialization; vectors are an internal
// retrieval concern and would inflate response payloads by several KB per item.
type CatalogItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	MediaType string `json:"media_type"`

	// Classification
	Genres       []string `json:"genres,omitempty"`
	GenreCluster string   `json:"genre_cluster,omitempty"`
	Overview     string   `json:"overview,omitempty"`

	// Ranking signals
	ReleaseDate    time.Time `json:"release_date,omitempty"`
	RuntimeMinutes int       `json:"runtime_minutes,omitempty"`
	Rating         float64   `json:"rating,omitempty"`
	Popularity     float64   `json:"popularity"`

	// Relationship sources
	FranchiseID *string  `json:"franchise_id,omitempty"`
	Directors   []string `json:"directors,omitempty"`
	Cast        []string `json:"cast,omitempty"`

	// Availability
	Platforms []PlatformAvailability `json:"platforms,omitempty"`

	// Retrieval internals (never serialized)
	Embedding []float32 `json:"-"`

	// Catalog bookkeeping
	AddedAt   time.Time `json:"added_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// PlatformAvailability represents one platform's availability window for an item.
//
// Fields:
//   - Platform: Platform identifier (e.g., "netflix", "hulu")
//   - Region: Optional region code (empty means all regions)
//   - AddedAt: When the item became available on this platform
//   - LeavingAt: When the item leaves the platform (nil if no announced exit)
type PlatformAvailability struct {
	Platform  string     `json:"platform"`
	Region    string     `json:"region,omitempty"`
	AddedAt   *time.Time `json:"added_at,omitempty"`
	LeavingAt *time.Time `json:"leaving_at,omitempty"`
}

// AvailableOn reports whether the item is currently carried by the given platform.
// Platform comparison is case-insensitive. An availability entry with a LeavingAt
// in the past no longer counts.
func (c *CatalogItem) AvailableOn(platform string, now time.Time) bool {
	for _, p := range c.Platforms {
		if !strings.EqualFold(p.Platform, platform) {
			continue
		}
		if p.LeavingAt != nil && !p.LeavingAt.After(now) {
			continue
		}
		return true
	}
	return false
}

// LeavingSoon reports whether the item leaves any of the given platforms within
// the window. Items with no announced exit date never report leaving.
func (c *CatalogItem) LeavingSoon(platforms []string, window time.Duration, now time.Time) bool {
	deadline := now.Add(window)
	for _, p := range c.Platforms {
		if p.LeavingAt == nil {
			continue
		}
		if p.LeavingAt.Before(now) || p.LeavingAt.After(deadline) {
			continue
		}
		for _, want := range platforms {
			if strings.EqualFold(p.Platform, want) {
				return true
			}
		}
	}
	return false
}

// PrimaryCluster returns the genre cluster for diversity enforcement.
// The stored GenreCluster wins when present; otherwise the cluster is derived
// from the first genre, falling back to "other" for unclustered items.
func (c *CatalogItem) PrimaryCluster() string {
	if c.GenreCluster != "" {
		return c.GenreCluster
	}
	if len(c.Genres) > 0 {
		return ClusterFor(c.Genres[0])
	}
	return ClusterOther
}

// ClusterOther is the catch-all genre cluster for genres with no mapping.
const ClusterOther = "other"

// genreClusters maps fine-grained genres to the coarse clusters the diversity
// pass operates on. Adjacent genres share a cluster so a results page does not
// fill up with near-identical content wearing different genre labels.
var genreClusters = map[string]string{
	"action":      "action",
	"adventure":   "action",
	"war":         "action",
	"western":     "action",
	"sci-fi":      "speculative",
	"fantasy":     "speculative",
	"superhero":   "speculative",
	"drama":       "drama",
	"romance":     "drama",
	"musical":     "drama",
	"comedy":      "comedy",
	"horror":      "suspense",
	"thriller":    "suspense",
	"crime":       "crime",
	"mystery":     "crime",
	"noir":        "crime",
	"documentary": "nonfiction",
	"biography":   "nonfiction",
	"history":     "nonfiction",
	"animation":   "family",
	"family":      "family",
	"kids":        "family",
}

// ClusterFor maps a genre label to its coarse cluster. Unknown genres map to
// ClusterOther. Matching is case-insensitive.
func ClusterFor(genre string) string {
	if cluster, ok := genreClusters[strings.ToLower(genre)]; ok {
		return cluster
	}
	return ClusterOther
}
