// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

// Package clients holds HTTP clients for the external services the
// discovery pipeline depends on: the embedding service behind the
// semantic retrieval leg and the personalization scoring service.
//
// Every client runs behind a circuit breaker so a struggling upstream
// fails fast instead of queueing requests, and the pipeline's
// degradation paths (leg exclusion, zero preference weight) take over.
package clients
