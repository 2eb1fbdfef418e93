// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

// Package cache implements the result cache fronting the expensive
// discovery operations: full search responses, autocomplete suggestions,
// availability lookups and personalization score batches.
//
// Keys combine an operation name with a hash of the operation parameters.
// Every entry carries its own TTL; an expired read behaves exactly like a
// miss. Entries are tagged with the user and item IDs they depend on so
// invalidation events (availability changes, revoked personalization data)
// can remove exactly the affected entries.
//
// Two backends implement Store: an in-memory map (the default) and a
// Badger-persisted store for deployments that want cache warmth across
// restarts. A backend failure never fails a request: the result cache
// bypasses the store and calls the loader directly.
//
// The package also hosts the autocomplete trie, rebuilt periodically from
// catalog titles and popular queries.
package cache
