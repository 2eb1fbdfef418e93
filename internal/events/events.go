// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// SchemaVersion is the current event schema version.
// Increment this when making breaking changes to InvalidationEvent.
const SchemaVersion = 1

// Topics for the invalidation bus. Catalog events fan out to every node;
// user revocations are consumed once per queue group because they also
// delete stored data.
const (
	TopicCatalog = "reperio.invalidation.catalog"
	TopicUser    = "reperio.invalidation.user"
)

// Event kinds for InvalidationEvent.Kind.
const (
	KindCatalogItemUpdated = "catalog_item_updated"
	KindUserDataRevoked    = "user_data_revoked"
)

// InvalidationEvent is the canonical message on the invalidation bus.
//
// A catalog event names the items whose cached results are stale (any
// metadata, availability, or embedding change). A user event names a user
// whose consent was revoked: cached results are dropped and the stored
// interaction history and profile are deleted by the consumer.
type InvalidationEvent struct {
	SchemaVersion int       `json:"schema_version,omitempty"`
	EventID       string    `json:"event_id"`
	Kind          string    `json:"kind"`
	ItemIDs       []string  `json:"item_ids,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewCatalogItemUpdated creates a catalog invalidation event.
func NewCatalogItemUpdated(itemIDs ...string) *InvalidationEvent {
	return &InvalidationEvent{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		Kind:          KindCatalogItemUpdated,
		ItemIDs:       itemIDs,
		OccurredAt:    time.Now().UTC(),
	}
}

// NewUserDataRevoked creates a user-data revocation event.
func NewUserDataRevoked(userID, reason string) *InvalidationEvent {
	return &InvalidationEvent{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		Kind:          KindUserDataRevoked,
		UserID:        userID,
		Reason:        reason,
		OccurredAt:    time.Now().UTC(),
	}
}

// Topic returns the bus topic this event belongs on.
func (e *InvalidationEvent) Topic() string {
	if e.Kind == KindUserDataRevoked {
		return TopicUser
	}
	return TopicCatalog
}

// Validate checks required fields.
func (e *InvalidationEvent) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("event missing event_id")
	}
	switch e.Kind {
	case KindCatalogItemUpdated:
		if len(e.ItemIDs) == 0 {
			return fmt.Errorf("catalog event missing item_ids")
		}
	case KindUserDataRevoked:
		if e.UserID == "" {
			return fmt.Errorf("user event missing user_id")
		}
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
	return nil
}

// SerializeEvent validates and marshals an event for the wire.
func SerializeEvent(event *InvalidationEvent) ([]byte, error) {
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// DeserializeEvent unmarshals a wire payload. Events without an explicit
// schema version are treated as version 1.
func DeserializeEvent(data []byte) (*InvalidationEvent, error) {
	var event InvalidationEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	if event.SchemaVersion == 0 {
		event.SchemaVersion = 1
	}
	return &event, nil
}
