// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package main

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reperio/internal/cache"
	"github.com/tomtom215/reperio/internal/config"
	"github.com/tomtom215/reperio/internal/events"
	"github.com/tomtom215/reperio/internal/logging"
	"github.com/tomtom215/reperio/internal/store"
)

// eventsBus bundles the invalidation bus endpoints for wiring and
// shutdown.
type eventsBus struct {
	publisher  *events.Publisher
	handler    *events.Handler
	subscriber message.Subscriber
}

// initEvents builds the invalidation bus. With NATS enabled the bus runs
// over JetStream so invalidations reach every node; otherwise a
// process-local channel transport serves the single-node deployment.
//
// When the embedded NATS server is configured it starts later, under the
// supervisor; the client connects lazily (RetryOnFailedConnect), so
// construction order does not matter.
//
//nolint:gocritic // hugeParam: zerolog loggers are passed by value
func initEvents(ctx context.Context, cfg *config.Config, results *cache.ResultCache, db *store.Store, logger zerolog.Logger) (*eventsBus, error) {
	var (
		pub message.Publisher
		sub message.Subscriber
		err error
	)
	if cfg.NATS.Enabled {
		pub, sub, err = events.NewNATSTransport(ctx, &cfg.NATS, logger)
		if err != nil {
			return nil, fmt.Errorf("nats transport: %w", err)
		}
		logging.Info().Str("url", cfg.NATS.URL).Msg("Invalidation bus using NATS JetStream")
	} else {
		pub, sub = events.NewGoChannelTransport(logger)
		logging.Info().Msg("Invalidation bus using in-process transport")
	}

	return &eventsBus{
		publisher:  events.NewPublisher(pub, logger),
		handler:    events.NewHandler(sub, results, db, logger),
		subscriber: sub,
	}, nil
}

// APIPublisher exposes the publisher for the admin invalidation endpoint.
func (b *eventsBus) APIPublisher() *events.Publisher {
	return b.publisher
}

// Consumer exposes the handler for the supervised consumer service.
func (b *eventsBus) Consumer() *events.Handler {
	return b.handler
}

// Close shuts the bus down. Both calls are idempotent; on the channel
// transport publisher and subscriber share one object.
func (b *eventsBus) Close() {
	if err := b.publisher.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing event publisher")
	}
	if err := b.subscriber.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing event subscriber")
	}
}
