// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reperio/internal/cache"
	"github.com/tomtom215/reperio/internal/metrics"
)

// VocabularySource provides the catalog-derived vocabulary. Implemented
// by store.Store.
type VocabularySource interface {
	DictionaryTerms(ctx context.Context) ([]string, error)
	Suggestions(ctx context.Context, limit int) ([]cache.Suggestion, error)
}

// DictionaryTarget receives the spell-correction vocabulary. Implemented
// by intent.Dictionary.
type DictionaryTarget interface {
	Replace(terms []string)
}

// AutocompleteTarget receives the suggestion index. Implemented by
// cache.Autocomplete.
type AutocompleteTarget interface {
	Replace(suggestions []cache.Suggestion)
}

// DictionaryService rebuilds the spell dictionary and autocomplete index
// from the catalog: once at startup, then on a ticker so ingested items
// and trending queries become suggestable without a restart.
type DictionaryService struct {
	source       VocabularySource
	dictionary   DictionaryTarget
	autocomplete AutocompleteTarget
	interval     time.Duration
	queryLimit   int
	logger       zerolog.Logger
	name         string
}

// NewDictionaryService creates the refresh loop. interval defaults to
// 15m, queryLimit to 100.
//
//nolint:gocritic // hugeParam: zerolog loggers are passed by value
func NewDictionaryService(source VocabularySource, dictionary DictionaryTarget, autocomplete AutocompleteTarget, interval time.Duration, queryLimit int, logger zerolog.Logger) *DictionaryService {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if queryLimit <= 0 {
		queryLimit = 100
	}
	return &DictionaryService{
		source:       source,
		dictionary:   dictionary,
		autocomplete: autocomplete,
		interval:     interval,
		queryLimit:   queryLimit,
		logger:       logger.With().Str("service", "dictionary").Logger(),
		name:         "dictionary-refresher",
	}
}

// Serve implements suture.Service.
func (s *DictionaryService) Serve(ctx context.Context) error {
	// A failed initial refresh is retried on the ticker; the parser
	// degrades to uncorrected tokens in the meantime.
	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *DictionaryService) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	start := time.Now()
	terms, err := s.source.DictionaryTerms(refreshCtx)
	metrics.RecordDictionaryRefresh("spell", len(terms), time.Since(start), err)
	if err != nil {
		s.logger.Warn().Err(err).Msg("dictionary refresh failed")
	} else {
		s.dictionary.Replace(terms)
		s.logger.Debug().Int("terms", len(terms)).Msg("spell dictionary refreshed")
	}

	start = time.Now()
	suggestions, err := s.source.Suggestions(refreshCtx, s.queryLimit)
	metrics.RecordDictionaryRefresh("autocomplete", len(suggestions), time.Since(start), err)
	if err != nil {
		s.logger.Warn().Err(err).Msg("autocomplete refresh failed")
		return
	}
	s.autocomplete.Replace(suggestions)
	s.logger.Debug().Int("suggestions", len(suggestions)).Msg("autocomplete index refreshed")
}

// String implements fmt.Stringer for suture's log messages.
func (s *DictionaryService) String() string {
	return s.name
}
