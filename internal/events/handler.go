// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/reperio/internal/metrics"
)

// ResultInvalidator drops cached results by tag. Implemented by
// cache.ResultCache.
type ResultInvalidator interface {
	InvalidateUser(userID string) int
	InvalidateItem(itemID string) int
}

// UserDataStore deletes a revoked user's stored history and profile.
// Implemented by store.Store.
type UserDataStore interface {
	DeleteUserData(ctx context.Context, userID string) error
}

// Handler consumes invalidation events and applies them to the result
// cache and, for revocations, the store.
type Handler struct {
	subscriber message.Subscriber
	cache      ResultInvalidator
	store      UserDataStore
	logger     zerolog.Logger
}

// NewHandler wires a transport subscriber to its consumers. store may be
// nil when the node does not own the data (revocations then only drop
// cache entries).
//
//nolint:gocritic // hugeParam: zerolog loggers are passed by value
func NewHandler(sub message.Subscriber, cache ResultInvalidator, store UserDataStore, logger zerolog.Logger) *Handler {
	return &Handler{
		subscriber: sub,
		cache:      cache,
		store:      store,
		logger:     logger.With().Str("component", "events_handler").Logger(),
	}
}

// Run consumes both invalidation topics until the context is canceled.
func (h *Handler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return h.consume(ctx, TopicCatalog) })
	g.Go(func() error { return h.consume(ctx, TopicUser) })
	return g.Wait()
}

func (h *Handler) consume(ctx context.Context, topic string) error {
	messages, err := h.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			h.processMessage(ctx, msg)
		}
	}
}

func (h *Handler) processMessage(ctx context.Context, msg *message.Message) {
	start := time.Now()
	metrics.RecordNATSConsume()

	event, err := DeserializeEvent(msg.Payload)
	if err != nil {
		// Malformed payloads never become valid; ack so they are not
		// redelivered forever.
		metrics.RecordNATSParseFailed()
		h.logger.Error().Err(err).Str("message_uuid", msg.UUID).Msg("drop malformed event")
		msg.Ack()
		return
	}

	if err := h.apply(ctx, event); err != nil {
		h.logger.Error().Err(err).
			Str("event_id", event.EventID).
			Str("kind", event.Kind).
			Msg("event processing failed")
		msg.Nack()
		return
	}

	metrics.RecordNATSProcessed()
	metrics.RecordNATSProcessingDuration(time.Since(start))
	msg.Ack()
}

func (h *Handler) apply(ctx context.Context, event *InvalidationEvent) error {
	if err := event.Validate(); err != nil {
		// Valid JSON with bad fields: drop, same as a parse failure.
		metrics.RecordNATSParseFailed()
		h.logger.Error().Err(err).Str("event_id", event.EventID).Msg("drop invalid event")
		return nil
	}

	switch event.Kind {
	case KindCatalogItemUpdated:
		dropped := 0
		for _, itemID := range event.ItemIDs {
			dropped += h.cache.InvalidateItem(itemID)
		}
		metrics.RecordCacheInvalidation("result", "item", dropped)
		h.logger.Debug().
			Str("event_id", event.EventID).
			Int("items", len(event.ItemIDs)).
			Int("dropped", dropped).
			Msg("catalog invalidation applied")

	case KindUserDataRevoked:
		dropped := h.cache.InvalidateUser(event.UserID)
		metrics.RecordCacheInvalidation("result", "user", dropped)
		if h.store != nil {
			// Failure nacks the message: deletion must not be lost.
			if err := h.store.DeleteUserData(ctx, event.UserID); err != nil {
				return fmt.Errorf("delete user data: %w", err)
			}
		}
		h.logger.Info().
			Str("event_id", event.EventID).
			Str("user_id", event.UserID).
			Int("dropped", dropped).
			Msg("user revocation applied")
	}
	return nil
}
