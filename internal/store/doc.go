// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

// Package store is the embedded DuckDB persistence layer: catalog items
// with platform availability, relationship edges, user interactions,
// preference profiles, and popular queries.
//
// The discovery pipeline's data interfaces are all served from here in a
// standalone deployment: Store implements CatalogSource, EdgeSource,
// HistorySource, and ProfileSource directly; KeywordIndex and VectorIndex
// are retrieval views over the same connection. Keyword search uses the
// DuckDB fts extension (BM25) with a weighted LIKE fallback when the
// extension cannot load; vector search is an exact cosine scan via
// list_cosine_similarity.
package store
