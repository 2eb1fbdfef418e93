// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library to provide a thread-safe
// singleton validator instance with user-friendly error messages. It integrates
// with the application's API error format for consistent error responses.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Comprehensive error translation to human-readable messages
//   - APIError conversion matching the application's error format
//   - Built-in validator support (oneof, uuid, datetime, min/max, dive)
//   - Future v11 compatibility with WithRequiredStructEnabled
//
// # Quick Start
//
//	type SearchRequest struct {
//	    Query   string `validate:"required,min=1,max=500"`
//	    Limit   int    `validate:"min=1,max=100"`
//	    Offset  int    `validate:"min=0,max=10000"`
//	    Variant string `validate:"omitempty,oneof=control personalized boost"`
//	}
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    var req SearchRequest
//	    if err := json.Decode(r.Body, &req); err != nil {
//	        // handle decode error
//	    }
//
//	    if verr := validation.ValidateStruct(&req); verr != nil {
//	        apiErr := verr.ToAPIError()
//	        respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	        return
//	    }
//
//	    // proceed with valid request
//	}
//
// # Common Validation Tags
//
// String validations:
//   - required: Field must not be empty
//   - min=n: Minimum length n characters
//   - max=n: Maximum length n characters
//   - uuid: Valid UUID format
//   - datetime=layout: Valid date/time in the given layout
//
// Numeric validations:
//   - gte=n: Greater than or equal to n
//   - lte=n: Less than or equal to n
//   - gt=n: Greater than n
//   - lt=n: Less than n
//   - min=n: Minimum value n
//   - max=n: Maximum value n
//
// Enum validations:
//   - oneof=a b c: Must be one of the specified values
//
// Slice validations:
//   - dive: Applies the remaining tags to every element
//
// # Error Types
//
// ValidationError represents a single field validation failure:
//
//	type ValidationError struct {
//	    Field()   string      // Struct field name
//	    Tag()     string      // Validation tag that failed
//	    Param()   string      // Tag parameter (e.g., "100" for max=100)
//	    Value()   interface{} // Actual value that failed
//	    Error()   string      // Human-readable message
//	}
//
// RequestValidationError aggregates multiple field errors:
//
//	type RequestValidationError struct {
//	    Errors() []ValidationError
//	    Error()  string           // Combined message
//	    ToAPIError() *APIError    // Convert to API error format
//	}
//
// # API Error Integration
//
// The ToAPIError method produces errors matching the application format:
//
//	// Single field error
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "Query is required",
//	    "details": {"field": "Query", "tag": "required", "value": ""}
//	}
//
//	// Multiple field errors
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "Query: is required; Limit: must be at most 100",
//	    "details": {
//	        "fields": [
//	            {"field": "Query", "tag": "required", "message": "..."},
//	            {"field": "Limit", "tag": "max", "message": "..."}
//	        ]
//	    }
//	}
//
// # Error Message Translation
//
// Human-readable messages are generated for common validation tags:
//
//	required   -> "Query is required"
//	uuid       -> "UserID must be a valid UUID"
//	min=1      -> "Query must be at least 1 characters"
//	max=100    -> "Limit must be at most 100"
//	gte=0      -> "MinRating must be greater than or equal to 0"
//	lte=10     -> "MinRating must be less than or equal to 10"
//	oneof=a b  -> "Variant must be one of: a b"
//	datetime   -> "Since must be a valid date/time in RFC3339 format"
//
// # Struct Tag Examples
//
// Search request validation:
//
//	type SearchRequest struct {
//	    Query   string `validate:"required,min=1,max=500"`
//	    Limit   int    `validate:"min=1,max=100"`
//	    Offset  int    `validate:"min=0,max=10000"`
//	    Variant string `validate:"omitempty,oneof=control personalized boost"`
//	}
//
// Graph discovery seeds:
//
//	type DiscoverRequest struct {
//	    Seeds  []string `validate:"required,min=1,max=10,dive,required,max=64"`
//	    UserID string   `validate:"omitempty,max=64"`
//	    Limit  int      `validate:"min=1,max=100"`
//	}
//
// Catalog filters:
//
//	type Filters struct {
//	    YearFrom  int     `validate:"omitempty,gte=1870,lte=2100"`
//	    YearTo    int     `validate:"omitempty,gte=1870,lte=2100"`
//	    MinRating float64 `validate:"omitempty,gte=0,lte=10"`
//	}
//
// # Thread Safety
//
// The singleton validator is initialized once and safe for concurrent use:
//
//	validate := validation.GetValidator()  // Thread-safe
//	err := validation.ValidateStruct(&req) // Thread-safe
//
// # Performance
//
// The validator caches struct reflection information:
//   - First validation of a struct type: ~1ms (reflection + caching)
//   - Subsequent validations: ~10us (cached)
//   - Memory: ~500 bytes per cached struct type
//
// # See Also
//
//   - internal/api: Request handlers using validation
//   - github.com/go-playground/validator/v10: Underlying library
package validation
