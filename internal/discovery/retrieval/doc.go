// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

// Package retrieval implements the two retrieval strategies of the
// discovery pipeline: semantic vector search over item embeddings and
// BM25-style keyword search over the inverted index.
//
// Both implement discovery.Strategy behind the same interface; they are a
// fixed pair of architectural variants, not a plugin registry. Each leg is
// retry-free: a single failed attempt degrades the leg and the engine
// excludes it from fusion. In particular, a failed query-embedding lookup
// hard-excludes the vector leg; the strategy never substitutes a zero
// vector and presents the resulting noise as results.
//
// Facet filtering picks between pre- and post-filtering per request: when
// the estimated filtered universe is small relative to the index, the
// constraint is pushed into the index query; otherwise a wider unfiltered
// pool is searched and non-matching items are discarded afterwards, which
// avoids under-filling the result set.
package retrieval
