// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// natsImage is pinned so integration runs are reproducible.
const natsImage = "nats:2.10-alpine"

// NATSContainer is a running NATS JetStream server for integration tests.
type NATSContainer struct {
	Container testcontainers.Container
	URL       string
}

// StartNATS launches a NATS server with JetStream enabled and waits until
// it accepts client connections. Callers terminate it through
// CleanupContainer.
func StartNATS(ctx context.Context, t *testing.T) (*NATSContainer, error) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        natsImage,
		Cmd:          []string{"--jetstream"},
		ExposedPorts: []string{"4222/tcp"},
		WaitingFor: wait.ForLog("Server is ready").
			WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
		Logger:           NewContainerLogger(t),
	})
	if err != nil {
		return nil, fmt.Errorf("start nats container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "4222/tcp")
	if err != nil {
		return nil, fmt.Errorf("mapped port: %w", err)
	}

	return &NATSContainer{
		Container: container,
		URL:       fmt.Sprintf("nats://%s:%s", host, port.Port()),
	}, nil
}
