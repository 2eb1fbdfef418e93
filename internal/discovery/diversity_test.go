// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package discovery

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/tomtom215/reperio/internal/models"
)

// clusteredResult builds a ranked result with the given genre cluster and
// a score descending in position.
func clusteredResult(id, cluster string, score float64) RankedResult {
	return RankedResult{
		Item:  models.CatalogItem{ID: id, GenreCluster: cluster},
		Score: score,
	}
}

// violatesWindow returns the first window violating the constraint, or -1.
func violatesWindow(results []RankedResult, cfg Diversity) int {
	for start := 0; start+cfg.Window <= len(results); start++ {
		counts := make(map[string]int)
		for i := start; i < start+cfg.Window; i++ {
			cluster := results[i].Item.PrimaryCluster()
			counts[cluster]++
			if counts[cluster] > cfg.MaxPerCluster {
				return start
			}
		}
	}
	return -1
}

func TestDiversifyEnforcesWindowConstraint(t *testing.T) {
	cfg := Diversity{Window: 5, MaxPerCluster: 2}

	// Three drama items in a row violate the window; the third defers past
	// enough other clusters.
	input := []RankedResult{
		clusteredResult("d1", "drama", 1.0),
		clusteredResult("d2", "drama", 0.9),
		clusteredResult("d3", "drama", 0.8),
		clusteredResult("c1", "comedy", 0.7),
		clusteredResult("a1", "action", 0.6),
		clusteredResult("s1", "suspense", 0.5),
		clusteredResult("f1", "family", 0.4),
		clusteredResult("n1", "nonfiction", 0.3),
	}

	output, deferred := diversify(input, cfg)

	if len(output) != len(input) {
		t.Fatalf("len(output) = %d, want %d (deferral never drops items)", len(output), len(input))
	}
	if deferred == 0 {
		t.Errorf("deferred = 0, want > 0 for a violating input")
	}
	if at := violatesWindow(output, cfg); at != -1 {
		t.Errorf("window starting at %d violates the constraint: %+v", at, clusterSequence(output))
	}
	if output[0].Item.ID != "d1" || output[1].Item.ID != "d2" {
		t.Errorf("non-violating head order changed: %v", clusterSequence(output))
	}
}

func TestDiversifyPropertyRandomized(t *testing.T) {
	cfg := Diversity{Window: 5, MaxPerCluster: 2}
	clusters := []string{"action", "drama", "comedy", "suspense", "family", "nonfiction"}
	rng := rand.New(rand.NewSource(99))

	for trial := 0; trial < 100; trial++ {
		n := 10 + rng.Intn(40)
		input := make([]RankedResult, n)
		for i := range input {
			cluster := clusters[rng.Intn(len(clusters))]
			input[i] = clusteredResult(fmt.Sprintf("i%03d", i), cluster, float64(n-i))
		}

		output, _ := diversify(input, cfg)

		if len(output) != n {
			t.Fatalf("trial %d: len(output) = %d, want %d", trial, len(output), n)
		}
		seen := make(map[string]struct{}, n)
		for _, r := range output {
			seen[r.Item.ID] = struct{}{}
		}
		if len(seen) != n {
			t.Fatalf("trial %d: output lost or duplicated items", trial)
		}
		assertOnlyForcedViolations(t, trial, input, output, cfg)
	}
}

// assertOnlyForcedViolations replays the output and fails when a window
// violation occurs at a position where some still-pending item could have
// been emitted without violating. Deferral may not drop items, so a
// violation is legal only when every pending item would also violate.
func assertOnlyForcedViolations(t *testing.T, trial int, input, output []RankedResult, cfg Diversity) {
	t.Helper()

	remaining := make(map[string]int, len(input))
	for _, r := range input {
		remaining[r.Item.PrimaryCluster()]++
	}

	for p := range output {
		cluster := output[p].Item.PrimaryCluster()
		if !admissible(output[:p], cluster, cfg) {
			// Forced emission: no pending cluster may be admissible.
			for pending, count := range remaining {
				if count > 0 && admissible(output[:p], pending, cfg) {
					t.Fatalf("trial %d: position %d emitted violating cluster %s while pending cluster %s was admissible: %v",
						trial, p, cluster, pending, clusterSequence(output))
				}
			}
		}
		remaining[cluster]--
	}
}

func TestDiversifyAllSameClusterKeepsOrder(t *testing.T) {
	// When no ordering can satisfy the constraint, items are emitted in
	// rank order rather than dropped.
	cfg := Diversity{Window: 3, MaxPerCluster: 1}
	input := []RankedResult{
		clusteredResult("a", "drama", 3),
		clusteredResult("b", "drama", 2),
		clusteredResult("c", "drama", 1),
	}

	output, _ := diversify(input, cfg)

	if len(output) != 3 {
		t.Fatalf("len(output) = %d, want 3", len(output))
	}
	for i, want := range []string{"a", "b", "c"} {
		if output[i].Item.ID != want {
			t.Errorf("output[%d] = %s, want %s", i, output[i].Item.ID, want)
		}
	}
}

func TestDiversifyShortListUntouched(t *testing.T) {
	cfg := Diversity{Window: 5, MaxPerCluster: 2}
	input := []RankedResult{
		clusteredResult("a", "drama", 2),
		clusteredResult("b", "drama", 1),
	}

	output, deferred := diversify(input, cfg)

	if deferred != 0 {
		t.Errorf("deferred = %d, want 0", deferred)
	}
	if len(output) != 2 || output[0].Item.ID != "a" {
		t.Errorf("short list should pass through unchanged, got %v", clusterSequence(output))
	}
}

func clusterSequence(results []RankedResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Item.ID + "/" + r.Item.PrimaryCluster()
	}
	return out
}
