// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper removes expired entries and reports how many were dropped.
// Implemented by cache.MemoryStore; the badger backend expires entries
// itself and does not need a janitor.
type Sweeper interface {
	Sweep() int
}

// JanitorService periodically sweeps expired result-cache entries so
// memory is reclaimed between reads (expiry is otherwise lazy).
type JanitorService struct {
	sweeper  Sweeper
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewJanitorService creates the sweep loop. interval defaults to 1m.
//
//nolint:gocritic // hugeParam: zerolog loggers are passed by value
func NewJanitorService(sweeper Sweeper, interval time.Duration, logger zerolog.Logger) *JanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &JanitorService{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger.With().Str("service", "cache-janitor").Logger(),
		name:     "cache-janitor",
	}
}

// Serve implements suture.Service.
func (s *JanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if swept := s.sweeper.Sweep(); swept > 0 {
				s.logger.Debug().Int("swept", swept).Msg("expired cache entries removed")
			}
		}
	}
}

// String implements fmt.Stringer for suture's log messages.
func (s *JanitorService) String() string {
	return s.name
}
