// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package models

import (
	"time"
)

// PopularQuery represents an aggregated search query with its observed frequency.
// Popular queries seed autocomplete suggestions and back the trending endpoint.
type PopularQuery struct {
	Query    string    `json:"query"`
	Count    int64     `json:"count"`
	LastSeen time.Time `json:"last_seen"`
}
