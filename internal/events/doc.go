// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

// Package events is the cache-invalidation bus. Catalog updates and
// user-data revocations are published as InvalidationEvents and consumed
// by a handler that drops tagged result-cache entries and, for
// revocations, deletes the user's stored data.
//
// Two transports share the same Publisher/Handler code: an in-process
// Watermill gochannel (the single-node default) and NATS JetStream for
// multi-node deployments, where every node consumes catalog events while
// user revocations are processed once through a queue group.
package events
