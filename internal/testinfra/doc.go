// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

// Package testinfra provides container-backed test infrastructure for
// integration tests, currently a NATS JetStream server for the events
// package.
//
// Everything here is gated behind the integration build tag and skips
// cleanly when Docker is unavailable:
//
//	go test -tags integration ./internal/events/
package testinfra
