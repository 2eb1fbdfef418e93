// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/reperio/internal/metrics"
)

// Publisher wraps the transport publisher with a circuit breaker so a
// down broker cannot stall request handlers: a rejected publish is an
// error the caller logs and moves past, and the stale cache entries age
// out on TTL anyway.
type Publisher struct {
	publisher message.Publisher
	breaker   *gobreaker.CircuitBreaker[any]
	logger    zerolog.Logger
	mu        sync.RWMutex
	closed    bool
}

// NewPublisher wraps a transport publisher.
//
//nolint:gocritic // hugeParam: zerolog loggers are passed by value
func NewPublisher(pub message.Publisher, logger zerolog.Logger) *Publisher {
	logger = logger.With().Str("component", "events_publisher").Logger()

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "events-publisher",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("publish breaker state change")
		},
	})

	return &Publisher{
		publisher: pub,
		breaker:   breaker,
		logger:    logger,
	}
}

// PublishEvent serializes and publishes an invalidation event on its
// topic. The event ID doubles as the NATS message ID for deduplication.
func (p *Publisher) PublishEvent(event *InvalidationEvent) error {
	data, err := SerializeEvent(event)
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}

	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set("kind", event.Kind)
	msg.Metadata.Set(natsgo.MsgIdHdr, event.EventID)

	return p.Publish(event.Topic(), msg)
}

// Publish sends a raw message through the breaker.
func (p *Publisher) Publish(topic string, msg *message.Message) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return fmt.Errorf("publisher is closed")
	}
	p.mu.RUnlock()

	_, err := p.breaker.Execute(func() (any, error) {
		return nil, p.publisher.Publish(topic, msg)
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	metrics.RecordNATSPublish()
	return nil
}

// Close shuts down the underlying transport publisher once.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}
