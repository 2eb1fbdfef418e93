// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

/*
Package models defines data structures for the Reperio application.

This package contains the data models shared across the application: catalog
items, relationship edges, user interactions and profiles, and the standard API
response envelope. It serves as the single source of truth for data structure
definitions, keeping the store, discovery pipeline, event processing, and API
layers free of import cycles.

Key Components:

  - CatalogItem: Core catalog model hydrated into every discovery response
  - RelationshipEdge: Typed, weighted item-to-item relationship for graph discovery
  - Interaction / UserProfile: User history and derived preference profiles
  - APIResponse: Standardized API response wrapper
  - PopularQuery: Aggregated query frequency for autocomplete and trending

Model Categories:

1. Catalog Models:
  - CatalogItem: Item metadata, ranking signals, and availability windows
  - PlatformAvailability: Per-platform availability with leaving-soon dates
  - Genre clusters: Coarse genre grouping via ClusterFor / PrimaryCluster

2. Graph Models:
  - RelationshipEdge: Directed edge with type and weight in (0, 1]
  - EdgeType: similar_to, same_franchise, same_director, shared_cast, co_watched

3. Personalization Models:
  - Interaction: view/click/complete/rate events against items
  - UserProfile: Genre and platform affinities plus embedding centroid

4. API Request/Response Models:
  - APIResponse: Standard response wrapper
  - APIError: Error details with machine-readable codes
  - Metadata: Response metadata (timestamp, query time, cache, degraded legs)
  - PaginationInfo: Offset-based paging over ranked results

Usage Example - Catalog Models:

	import "github.com/tomtom215/reperio/internal/models"

	item := &models.CatalogItem{
	    ID:         "tt0111161",
	    Title:      "The Shawshank Redemption",
	    MediaType:  models.MediaTypeMovie,
	    Genres:     []string{"drama", "crime"},
	    Rating:     9.3,
	    Popularity: 0.92,
	}

	cluster := item.PrimaryCluster() // "drama"

Usage Example - API Response:

	import "github.com/tomtom215/reperio/internal/models"

	// Success response
	response := models.APIResponse{
	    Status: "success",
	    Data: map[string]interface{}{
	        "total":   87,
	        "results": ranked,
	    },
	    Metadata: models.Metadata{
	        Timestamp:   time.Now(),
	        QueryTimeMS: 45,
	    },
	}

	json.NewEncoder(w).Encode(response)

	// Error response
	errorResponse := models.APIResponse{
	    Status: "error",
	    Error: &models.APIError{
	        Code:    "NO_CANDIDATES",
	        Message: "All retrieval sources returned empty",
	    },
	}

Usage Example - Graph Edges:

	edge := models.RelationshipEdge{
	    From:   "tt0111161",
	    To:     "tt0455275",
	    Type:   models.EdgeSimilarTo,
	    Weight: 0.85,
	}

	if err := edge.Validate(); err != nil {
	    // reject at ingest; traversal assumes valid edges
	}

Genre Clusters:

The diversity pass operates on coarse genre clusters rather than raw genre
labels, so adjacent genres (horror/thriller, sci-fi/fantasy) count against the
same window budget:

  - action: action, adventure, war, western
  - speculative: sci-fi, fantasy, superhero
  - drama: drama, romance, musical
  - suspense: horror, thriller
  - crime: crime, mystery, noir
  - nonfiction: documentary, biography, history
  - family: animation, family, kids
  - comedy, other: themselves

Thread Safety:

All models are:
  - Immutable after creation (pass-by-value or pointers)
  - Safe for concurrent read access
  - No internal mutexes needed (data structures only)

JSON Marshaling:

All models support JSON serialization:
  - Struct tags use snake_case field naming
  - Omitempty tags for optional fields
  - Time.Time uses RFC3339 format
  - Embedding vectors are excluded from serialization (json:"-")

See Also:

  - internal/store: Catalog persistence using these models
  - internal/discovery: Pipeline operating on these models
  - internal/api: API handlers returning these models
*/
package models
