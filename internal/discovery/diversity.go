// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package discovery

// diversify enforces the sliding-window genre constraint on a ranked list:
// within any window of cfg.Window consecutive output positions at most
// cfg.MaxPerCluster items may share a genre cluster.
//
// The list is scanned in score order. An item that would violate the
// constraint at the next output position is deferred, not dropped: it stays
// pending in rank order and fills the first later position where the window
// admits it. When every pending item violates the constraint the
// highest-ranked one is emitted anyway; the constraint cannot be satisfied
// by any ordering at that point and results are never discarded. The total
// candidate count is always preserved.
//
// Returns the reordered list and the number of deferrals performed.
func diversify(results []RankedResult, cfg Diversity) ([]RankedResult, int) {
	if len(results) <= cfg.MaxPerCluster || cfg.Window <= 1 {
		return results, 0
	}

	pending := make([]RankedResult, len(results))
	copy(pending, results)

	output := make([]RankedResult, 0, len(results))
	deferred := 0

	for len(pending) > 0 {
		picked := -1
		for i := range pending {
			if admissible(output, pending[i].Item.PrimaryCluster(), cfg) {
				picked = i
				break
			}
		}
		if picked == -1 {
			// Every pending item violates the window. Emit the best-ranked
			// one rather than dropping anything.
			picked = 0
		}
		deferred += picked
		output = append(output, pending[picked])
		pending = append(pending[:picked], pending[picked+1:]...)
	}

	return output, deferred
}

// admissible reports whether appending an item of the given cluster keeps
// every window ending at the new position within the per-cluster limit.
// Only the trailing Window-1 emitted items matter.
func admissible(output []RankedResult, cluster string, cfg Diversity) bool {
	count := 1 // the item being placed
	start := len(output) - (cfg.Window - 1)
	if start < 0 {
		start = 0
	}
	for i := start; i < len(output); i++ {
		if output[i].Item.PrimaryCluster() == cluster {
			count++
			if count > cfg.MaxPerCluster {
				return false
			}
		}
	}
	return true
}
