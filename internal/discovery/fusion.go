// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package discovery

import (
	"sort"
)

// legRanking is one strategy's ranked candidate list entering fusion.
type legRanking struct {
	leg        string
	candidates []CandidateResult
	weight     float64
}

// fuse merges per-strategy rankings with reciprocal rank fusion.
//
// For each item the fused score is the sum of weight/(k+rank) over every leg
// in which the item appears, rank 1-indexed. Legs the item is absent from
// contribute zero. The per-leg rank and raw score of merged candidates are
// additive fills on one CandidateResult per item; an existing contribution
// is never overwritten by a later leg.
//
// The result is sorted by fused score descending, ties broken by item ID
// ascending for determinism.
func fuse(legs []legRanking, k int) []CandidateResult {
	merged := make(map[string]*CandidateResult)

	for _, leg := range legs {
		for i := range leg.candidates {
			c := &leg.candidates[i]
			m, ok := merged[c.ItemID]
			if !ok {
				m = &CandidateResult{ItemID: c.ItemID}
				merged[c.ItemID] = m
			}
			mergeLegContribution(m, c, leg.leg)

			rank := rankForLeg(c, leg.leg)
			if rank == 0 {
				rank = i + 1
			}
			m.Fused += leg.weight / float64(k+rank)
		}
	}

	fused := make([]CandidateResult, 0, len(merged))
	for _, m := range merged {
		fused = append(fused, *m)
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Fused != fused[j].Fused {
			return fused[i].Fused > fused[j].Fused
		}
		return fused[i].ItemID < fused[j].ItemID
	})

	return fused
}

// mergeLegContribution copies one leg's rank and raw score onto the merged
// candidate. Only the fields belonging to the contributing leg are touched.
func mergeLegContribution(dst, src *CandidateResult, leg string) {
	if !dst.FoundBy(leg) {
		dst.Provenance = append(dst.Provenance, leg)
	}

	switch leg {
	case LegVector:
		if dst.VectorRank == 0 {
			dst.VectorRank = src.VectorRank
			dst.VectorScore = src.VectorScore
		}
	case LegKeyword:
		if dst.KeywordRank == 0 {
			dst.KeywordRank = src.KeywordRank
			dst.KeywordScore = src.KeywordScore
		}
	case LegGraph:
		if dst.GraphRank == 0 {
			dst.GraphRank = src.GraphRank
		}
		// Path scores accumulate across independent discoveries.
		dst.GraphScore += src.GraphScore
	}
}

// rankForLeg returns the rank a candidate carries for the given leg, or 0
// when the candidate does not record one.
func rankForLeg(c *CandidateResult, leg string) int {
	switch leg {
	case LegVector:
		return c.VectorRank
	case LegKeyword:
		return c.KeywordRank
	case LegGraph:
		return c.GraphRank
	default:
		return 0
	}
}

// graphRanking converts accumulated graph path scores into a ranked leg for
// fusion. Items below minScore that were not found by direct retrieval are
// dropped; items already in direct retrieval keep their graph score as a
// ranking factor regardless of threshold.
func graphRanking(scores map[string]float64, direct map[string]struct{}, minScore float64) []CandidateResult {
	candidates := make([]CandidateResult, 0, len(scores))
	for id, score := range scores {
		if score < minScore {
			if _, found := direct[id]; !found {
				continue
			}
		}
		candidates = append(candidates, CandidateResult{
			ItemID:     id,
			GraphScore: score,
			Provenance: []string{LegGraph},
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].GraphScore != candidates[j].GraphScore {
			return candidates[i].GraphScore > candidates[j].GraphScore
		}
		return candidates[i].ItemID < candidates[j].ItemID
	})

	for i := range candidates {
		candidates[i].GraphRank = i + 1
	}
	return candidates
}
