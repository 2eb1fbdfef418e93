// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

// Package discovery implements the retrieval-fusion-ranking pipeline at the
// heart of Reperio.
//
// A request flows through the pipeline in stages:
//
//  1. Intent parsing: the raw query becomes a QueryIntent (normalized text,
//     extracted genres/platforms/themes, spell corrections).
//  2. Retrieval fan-out: the vector and keyword strategies run concurrently,
//     each under its own timeout. A leg that fails or times out is excluded
//     from fusion; it is never retried and never faked.
//  3. Reciprocal rank fusion: per-strategy rankings merge into one fused
//     score per item, sum of w_s/(k+rank_s) over the strategies that
//     returned the item.
//  4. Graph discovery: bounded BFS over the relationship graph from the top
//     fused items plus the user's recent history, contributing a third
//     ranked list and a per-item path score.
//  5. Multi-factor ranking: the fused base score is blended with theme
//     match, preference alignment, popularity, freshness and platform
//     availability under externally configured weights. Preference
//     affinities are fetched concurrently with the other factors.
//  6. Diversity enforcement: a sliding-window pass defers (never drops)
//     items that would over-concentrate one genre cluster.
//
// The Engine coordinates these stages against injected collaborator
// interfaces; concrete implementations live in the subpackages (intent,
// retrieval, graph, personalization) and are wired together at startup.
// The Engine itself holds no per-request state and is safe for concurrent
// use.
package discovery
