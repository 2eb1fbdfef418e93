// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// InvalidationConsumer matches events.Handler without importing it,
// avoiding a services→events dependency.
type InvalidationConsumer interface {
	Run(ctx context.Context) error
}

// InvalidationService supervises the invalidation-event consumer. A
// consumer crash is restarted by suture; missed invalidations are
// bounded by the result cache's TTL.
type InvalidationService struct {
	consumer InvalidationConsumer
	logger   zerolog.Logger
	name     string
}

// NewInvalidationService wraps the consumer as a supervised service.
//
//nolint:gocritic // hugeParam: zerolog loggers are passed by value
func NewInvalidationService(consumer InvalidationConsumer, logger zerolog.Logger) *InvalidationService {
	return &InvalidationService{
		consumer: consumer,
		logger:   logger.With().Str("service", "invalidation").Logger(),
		name:     "invalidation-consumer",
	}
}

// Serve implements suture.Service.
func (s *InvalidationService) Serve(ctx context.Context) error {
	s.logger.Info().Msg("invalidation consumer starting")
	err := s.consumer.Run(ctx)
	if errors.Is(err, context.Canceled) {
		s.logger.Info().Msg("invalidation consumer shutting down")
	}
	return err
}

// String implements fmt.Stringer for suture's log messages.
func (s *InvalidationService) String() string {
	return s.name
}
