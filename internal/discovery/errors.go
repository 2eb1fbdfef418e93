// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package discovery

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors shared across the pipeline.
var (
	// ErrCacheUnavailable signals that a cache store is unreachable. Callers
	// recover by bypassing the cache and invoking the underlying operation
	// directly; correctness is unaffected.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrEmbeddingUnavailable signals that no query embedding could be
	// obtained. The vector leg is excluded from fusion for the request; a
	// zero vector is never substituted in its place.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
)

// DependencyError wraps a failure of one external collaborator (embedding
// lookup, a retrieval leg, personalization fetch). It is recovered locally
// by excluding that dependency's contribution and is never surfaced to the
// caller as a request failure.
type DependencyError struct {
	Leg     string // which leg or collaborator failed
	Timeout bool   // deadline exceeded rather than explicit error
	Err     error
}

// Error implements the error interface.
func (e *DependencyError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("dependency %s timed out: %v", e.Leg, e.Err)
	}
	return fmt.Sprintf("dependency %s failed: %v", e.Leg, e.Err)
}

// Unwrap returns the underlying error.
func (e *DependencyError) Unwrap() error { return e.Err }

// Reason returns "timeout" or "error" for degradation metrics.
func (e *DependencyError) Reason() string {
	if e.Timeout {
		return "timeout"
	}
	return "error"
}

// legError classifies a leg failure, detecting deadline expiry so timeouts
// and explicit errors are counted separately.
func legError(leg string, err error) *DependencyError {
	return &DependencyError{
		Leg:     leg,
		Timeout: errors.Is(err, context.DeadlineExceeded),
		Err:     err,
	}
}

// InvalidRequestError rejects malformed input before the pipeline runs.
// It is the only error class a Search or Discover caller sees for their own
// bad input, distinct from dependency failures.
type InvalidRequestError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidRequestError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid request: %s", e.Reason)
	}
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// IsInvalidRequest reports whether err is a request-rejection error.
func IsInvalidRequest(err error) bool {
	var ire *InvalidRequestError
	return errors.As(err, &ire)
}
