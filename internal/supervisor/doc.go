// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

// Package supervisor builds the suture service tree that runs the
// application. Three child supervisors isolate failures by layer:
//
//   - store: cache janitor and dictionary refresher
//   - messaging: embedded NATS server and invalidation consumer
//   - api: HTTP server
//
// Restart policy follows suture's defaults (threshold 5, decay 30s,
// backoff 15s); supervisor events are logged through sutureslog onto the
// application's slog bridge. Service wrappers live in the services
// subpackage.
package supervisor
