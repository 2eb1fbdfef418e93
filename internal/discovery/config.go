// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package discovery

import (
	"fmt"
	"time"
)

// Config holds every tunable of the pipeline. All knobs are externally
// supplied; nothing in the pipeline hard-codes a fusion constant, weight,
// window size or budget. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// FusionK is the RRF smoothing constant k in w/(k+rank). Larger values
	// flatten the dominance of rank-1 results.
	FusionK int

	// Weights blends the fused base score with the per-item ranking factors.
	Weights Weights

	// Variants maps experiment variant names to the preference weight used
	// for that arm. An unknown or empty variant falls back to
	// Weights.Preference.
	Variants map[string]float64

	// RetrievalLimit is the per-leg candidate budget (top-K).
	RetrievalLimit int

	// LegTimeout bounds each retrieval leg independently. A leg that misses
	// it is excluded from fusion; the request proceeds.
	LegTimeout time.Duration

	// MaxCandidates caps the fused candidate pool entering ranking.
	MaxCandidates int

	// GraphSeedLimit is how many top fused items seed graph discovery, and
	// how many recent history items are added when a user is present.
	GraphSeedLimit int

	// GraphMinScore is the minimum accumulated path score a graph-only
	// discovery needs to become a candidate. Items already found by direct
	// retrieval keep their graph score regardless.
	GraphMinScore float64

	// FreshnessHalfLife is the release-age at which the freshness factor
	// has decayed to one half.
	FreshnessHalfLife time.Duration

	// Diversity is the sliding-window genre constraint on ranked output.
	Diversity Diversity

	// DefaultPageSize applies when a request does not specify one.
	DefaultPageSize int
}

// Weights are the multi-factor ranking weights. The final score is
// w_base*fused + w_theme*theme + w_pref*preference + w_pop*popularity +
// w_fresh*freshness + w_avail*availability. All must be non-negative.
type Weights struct {
	Base         float64
	ThemeMatch   float64
	Preference   float64
	Popularity   float64
	Freshness    float64
	Availability float64
}

// Diversity is the sliding-window constraint: within any Window consecutive
// output positions at most MaxPerCluster items may share a genre cluster.
type Diversity struct {
	Window        int
	MaxPerCluster int
}

// Experiment variant names. Control disables personalization entirely;
// the others escalate the preference weight.
const (
	VariantControl      = "control"
	VariantPersonalized = "personalized"
	VariantBoost        = "boost"
)

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() *Config {
	return &Config{
		FusionK: 60,
		Weights: Weights{
			Base:         1.0,
			ThemeMatch:   0.15,
			Preference:   0.2,
			Popularity:   0.1,
			Freshness:    0.1,
			Availability: 0.05,
		},
		Variants: map[string]float64{
			VariantControl:      0,
			VariantPersonalized: 0.2,
			VariantBoost:        0.4,
		},
		RetrievalLimit:    200,
		LegTimeout:        500 * time.Millisecond,
		MaxCandidates:     1000,
		GraphSeedLimit:    5,
		GraphMinScore:     0.05,
		FreshnessHalfLife: 90 * 24 * time.Hour,
		Diversity: Diversity{
			Window:        5,
			MaxPerCluster: 2,
		},
		DefaultPageSize: 20,
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.FusionK <= 0 {
		return fmt.Errorf("fusion k must be positive, got %d", c.FusionK)
	}
	if err := c.Weights.validate(); err != nil {
		return err
	}
	for name, w := range c.Variants {
		if w < 0 {
			return fmt.Errorf("variant %q preference weight must be non-negative, got %g", name, w)
		}
	}
	if c.RetrievalLimit <= 0 {
		return fmt.Errorf("retrieval limit must be positive, got %d", c.RetrievalLimit)
	}
	if c.LegTimeout <= 0 {
		return fmt.Errorf("leg timeout must be positive, got %s", c.LegTimeout)
	}
	if c.MaxCandidates <= 0 {
		return fmt.Errorf("max candidates must be positive, got %d", c.MaxCandidates)
	}
	if c.GraphSeedLimit < 0 {
		return fmt.Errorf("graph seed limit must be non-negative, got %d", c.GraphSeedLimit)
	}
	if c.GraphMinScore < 0 {
		return fmt.Errorf("graph min score must be non-negative, got %g", c.GraphMinScore)
	}
	if c.FreshnessHalfLife <= 0 {
		return fmt.Errorf("freshness half-life must be positive, got %s", c.FreshnessHalfLife)
	}
	if c.Diversity.Window <= 0 {
		return fmt.Errorf("diversity window must be positive, got %d", c.Diversity.Window)
	}
	if c.Diversity.MaxPerCluster <= 0 {
		return fmt.Errorf("diversity max per cluster must be positive, got %d", c.Diversity.MaxPerCluster)
	}
	if c.Diversity.MaxPerCluster > c.Diversity.Window {
		return fmt.Errorf("diversity max per cluster %d exceeds window %d",
			c.Diversity.MaxPerCluster, c.Diversity.Window)
	}
	if c.DefaultPageSize <= 0 {
		return fmt.Errorf("default page size must be positive, got %d", c.DefaultPageSize)
	}
	return nil
}

func (w Weights) validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"base", w.Base},
		{"theme_match", w.ThemeMatch},
		{"preference", w.Preference},
		{"popularity", w.Popularity},
		{"freshness", w.Freshness},
		{"availability", w.Availability},
	}
	for _, c := range checks {
		if c.value < 0 {
			return fmt.Errorf("weight %s must be non-negative, got %g", c.name, c.value)
		}
	}
	return nil
}

// PreferenceWeight resolves the effective preference weight for a variant.
// The caller selects the variant; this only looks it up.
func (c *Config) PreferenceWeight(variant string) float64 {
	if variant == "" {
		return c.Weights.Preference
	}
	if w, ok := c.Variants[variant]; ok {
		return w
	}
	return c.Weights.Preference
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Variants = make(map[string]float64, len(c.Variants))
	for k, v := range c.Variants {
		clone.Variants[k] = v
	}
	return &clone
}
