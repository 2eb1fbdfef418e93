// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package services

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reperio/internal/config"
)

const natsReadyTimeout = 10 * time.Second

// NATSServerService runs an embedded NATS JetStream node so standalone
// deployments get the invalidation bus without an external broker. The
// listen address is derived from the configured client URL.
type NATSServerService struct {
	cfg    *config.NATSConfig
	logger zerolog.Logger
	name   string
}

// NewNATSServerService creates the embedded server wrapper.
//
//nolint:gocritic // hugeParam: zerolog loggers are passed by value
func NewNATSServerService(cfg *config.NATSConfig, logger zerolog.Logger) *NATSServerService {
	return &NATSServerService{
		cfg:    cfg,
		logger: logger.With().Str("service", "nats-server").Logger(),
		name:   "nats-server",
	}
}

// Serve implements suture.Service: start the server, wait until it
// accepts connections, block until shutdown.
func (s *NATSServerService) Serve(ctx context.Context) error {
	host, port, err := listenAddress(s.cfg.URL)
	if err != nil {
		return err
	}

	opts := &natsserver.Options{
		Host:      host,
		Port:      port,
		JetStream: true,
		StoreDir:  s.cfg.StoreDir,
		NoSigs:    true, // the supervisor owns signal handling
	}
	if s.cfg.MaxMemory > 0 {
		opts.JetStreamMaxMemory = s.cfg.MaxMemory
	}
	if s.cfg.MaxStore > 0 {
		opts.JetStreamMaxStore = s.cfg.MaxStore
	}

	srv, err := natsserver.NewServer(opts)
	if err != nil {
		return fmt.Errorf("create nats server: %w", err)
	}

	go srv.Start()
	if !srv.ReadyForConnections(natsReadyTimeout) {
		srv.Shutdown()
		return fmt.Errorf("nats server not ready within %s", natsReadyTimeout)
	}
	s.logger.Info().Str("addr", net.JoinHostPort(host, strconv.Itoa(port))).Msg("embedded nats server ready")

	<-ctx.Done()
	srv.Shutdown()
	srv.WaitForShutdown()
	return ctx.Err()
}

// String implements fmt.Stringer for suture's log messages.
func (s *NATSServerService) String() string {
	return s.name
}

func listenAddress(rawURL string) (host string, port int, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", 0, fmt.Errorf("parse nats url %q: %w", rawURL, err)
	}
	host = u.Hostname()
	if host == "" {
		host = "127.0.0.1"
	}
	port = 4222
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return "", 0, fmt.Errorf("parse nats port %q: %w", p, err)
		}
	}
	return host, port, nil
}
