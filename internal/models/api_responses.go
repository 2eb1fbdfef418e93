// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses, with metadata
// for observability and caching information.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Fields:
//   - Status: Response status ("success" or "error")
//   - Data: Response payload (any JSON-serializable type)
//   - Metadata: Query execution metadata (timing, caching, degradation)
//   - Error: Error details (populated only when Status is "error")
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"total": 100, "results": [...]},
//	  "metadata": {
//	    "timestamp": "2026-08-01T12:00:00Z",
//	    "query_time_ms": 45,
//	    "cached": false
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "Query is required",
//	    "details": {"field": "Query"}
//	  },
//	  "metadata": {"timestamp": "2026-08-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability and performance tracking.
// All API responses include this metadata for monitoring query performance, cache
// effectiveness, and degraded retrieval behavior.
//
// Fields:
//   - Timestamp: Server time when response was generated (RFC3339 format)
//   - QueryTimeMS: Pipeline execution time in milliseconds (0 if cached)
//   - Cached: Whether response was served from cache (omitted if false)
//   - Degraded: Retrieval legs that were skipped or failed for this response
//     (omitted when every leg completed)
//
// Degradation tracking:
//   - A search that lost its vector leg to a timeout still returns results
//     from the keyword and graph legs; Degraded reports ["vector"] so clients
//     and dashboards can distinguish partial answers from complete ones.
//
// Example degraded response:
//
//	{
//	  "timestamp": "2026-08-01T12:00:00Z",
//	  "query_time_ms": 512,
//	  "degraded": ["vector"]
//	}
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	Degraded    []string  `json:"degraded,omitempty"`
}

// APIError represents an error response with structured error details.
// Provides consistent error format across all API endpoints for better client handling.
//
// Fields:
//   - Code: Machine-readable error code (e.g., "VALIDATION_ERROR", "DEPENDENCY_TIMEOUT")
//   - Message: Human-readable error message
//   - Details: Additional context (field names, constraints, etc.)
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - DEPENDENCY_TIMEOUT: A required dependency did not answer within its deadline
//   - DEPENDENCY_ERROR: A required dependency failed outright
//   - NO_CANDIDATES: Every retrieval source returned empty or failed
//   - NOT_FOUND: Resource doesn't exist
//   - RATE_LIMIT_EXCEEDED: Too many requests
//   - INTERNAL_ERROR: Unexpected server failure
//
// Example:
//
//	{
//	  "code": "VALIDATION_ERROR",
//	  "message": "Limit must be at most 100",
//	  "details": {
//	    "field": "limit",
//	    "value": 500,
//	    "constraint": "max_100"
//	  }
//	}
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PaginationInfo contains offset-based pagination metadata for result traversal.
// Discovery result sets are bounded (at most a few hundred ranked candidates), so
// offset paging over the ranked slice is stable within a cached response window.
//
// Fields:
//   - Limit: Maximum results per page (from request)
//   - Offset: Starting position of this page within the ranked results
//   - HasMore: Whether more results exist beyond current page
//   - TotalCount: Total ranked results available for this query
//
// Example first page:
//
//	{
//	  "limit": 20,
//	  "offset": 0,
//	  "has_more": true,
//	  "total_count": 87
//	}
type PaginationInfo struct {
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	HasMore    bool `json:"has_more"`
	TotalCount int  `json:"total_count"`
}
