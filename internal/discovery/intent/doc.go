// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

// Package intent implements query understanding: normalization, spell
// correction against a catalog-seeded dictionary, entity extraction
// (genres, platforms, themes, "like <Title>" references) and synonym
// expansion for the keyword retrieval leg.
//
// Parsing is dictionary-driven and deterministic. The spell dictionary is
// reloadable at runtime; a background service rebuilds it from catalog
// titles and popular queries. Extraction never blocks the pipeline: any
// failure degrades to a raw tokenized query upstream.
package intent
