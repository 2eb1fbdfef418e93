// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package events

import (
	"context"
	"fmt"
	"time"

	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reperio/internal/config"
)

// StreamName is the JetStream stream holding all invalidation subjects.
const StreamName = "REPERIO_INVALIDATION"

const (
	maxReconnects   = 60
	reconnectWait   = 2 * time.Second
	ackWaitTimeout  = 30 * time.Second
	closeTimeout    = 30 * time.Second
	maxDeliver      = 5
	maxAckPending   = 256
	duplicateWindow = 2 * time.Minute
	streamMaxAge    = 24 * time.Hour
)

// NewGoChannelTransport returns the in-process pub/sub pair for
// single-node deployments. The returned publisher and subscriber are the
// same object; close it once.
//
//nolint:gocritic // hugeParam: zerolog loggers are passed by value
func NewGoChannelTransport(logger zerolog.Logger) (message.Publisher, message.Subscriber) {
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, newWatermillLogger(logger))
	return ch, ch
}

// NewNATSTransport returns a JetStream-backed pub/sub pair. The stream is
// provisioned first so wildcard subjects bind to a known stream name.
//
//nolint:gocritic // hugeParam: zerolog loggers are passed by value
func NewNATSTransport(ctx context.Context, cfg *config.NATSConfig, logger zerolog.Logger) (message.Publisher, message.Subscriber, error) {
	wmLogger := newWatermillLogger(logger)

	if err := EnsureStream(ctx, cfg); err != nil {
		return nil, nil, err
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(maxReconnects),
		natsgo.ReconnectWait(reconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: false, // stream provisioned above
			TrackMsgId:    true,  // Nats-Msg-Id deduplication
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, wmLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("create nats publisher: %w", err)
	}

	subscribers := cfg.SubscribersCount
	if subscribers <= 0 {
		subscribers = 4
	}
	durable := cfg.DurableName
	if durable == "" {
		durable = "reperio"
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.URL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: subscribers,
		AckWaitTimeout:   ackWaitTimeout,
		CloseTimeout:     closeTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: false,
			AckAsync:      false,
			DurablePrefix: durable,
			SubscribeOptions: []natsgo.SubOpt{
				natsgo.BindStream(StreamName),
				natsgo.MaxDeliver(maxDeliver),
				natsgo.MaxAckPending(maxAckPending),
				natsgo.AckWait(ackWaitTimeout),
				natsgo.DeliverNew(),
			},
		},
	}, wmLogger)
	if err != nil {
		closeQuietly(pub, logger)
		return nil, nil, fmt.Errorf("create nats subscriber: %w", err)
	}

	return pub, sub, nil
}

// EnsureStream creates or updates the invalidation stream. Idempotent; a
// stream left by a previous run is updated in place.
func EnsureStream(ctx context.Context, cfg *config.NATSConfig) error {
	nc, err := natsgo.Connect(cfg.URL,
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(maxReconnects),
		natsgo.ReconnectWait(reconnectWait))
	if err != nil {
		return fmt.Errorf("connect for stream provisioning: %w", err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("create jetstream context: %w", err)
	}

	streamCfg := jetstream.StreamConfig{
		Name:       StreamName,
		Subjects:   []string{"reperio.invalidation.>"},
		Retention:  jetstream.LimitsPolicy,
		MaxAge:     streamMaxAge,
		MaxBytes:   cfg.MaxStore,
		Duplicates: duplicateWindow,
		Storage:    jetstream.FileStorage,
		Discard:    jetstream.DiscardOld,
	}

	if _, err := js.Stream(ctx, StreamName); err == nil {
		if _, err := js.UpdateStream(ctx, streamCfg); err != nil {
			return fmt.Errorf("update stream: %w", err)
		}
		return nil
	}
	if _, err := js.CreateStream(ctx, streamCfg); err != nil {
		return fmt.Errorf("create stream: %w", err)
	}
	return nil
}

//nolint:gocritic // hugeParam: zerolog loggers are passed by value
func closeQuietly(pub message.Publisher, logger zerolog.Logger) {
	if err := pub.Close(); err != nil {
		logger.Warn().Err(err).Msg("close publisher")
	}
}
