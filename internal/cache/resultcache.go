// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/reperio/internal/metrics"
)

// Tag constructors. Entries tagged with a user or item are removed when an
// invalidation event names that user or item.
func TagUser(userID string) string { return "user:" + userID }
func TagItem(itemID string) string { return "item:" + itemID }

// ResultCache is the cache-aside layer over a Store. Cached values are
// JSON-serialized; a hit within TTL is decoded and returned without
// invoking the loader, a miss (or expired entry) invokes the loader,
// stores the result and returns it.
//
// Concurrent misses on the same key collapse into a single loader call via
// singleflight: a popular query going cold costs one upstream computation,
// not one per waiting request.
//
// A store failure is never a request failure: the cache logs, bypasses the
// store and calls the loader directly.
type ResultCache struct {
	store  Store
	group  singleflight.Group
	logger zerolog.Logger
}

// New creates a result cache over the given backend. A nil store yields a
// pass-through cache that always invokes the loader.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func New(store Store, logger zerolog.Logger) *ResultCache {
	return &ResultCache{
		store:  store,
		logger: logger.With().Str("component", "cache").Logger(),
	}
}

// GenerateKey builds the cache key for an operation invocation: the
// operation name plus a truncated SHA-256 of the JSON-serialized
// parameters. Identical parameters always produce identical keys.
func GenerateKey(op string, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", op, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", op, hash[:16])
}

// Do runs the cache-aside protocol for one operation invocation.
//
// dest must be a pointer; both the hit and miss paths decode the cached
// bytes into it, so a value that round-trips through JSON comes back
// identical on either path. tags name the user/item dependencies of the
// result for targeted invalidation.
func (c *ResultCache) Do(ctx context.Context, op string, params any, ttl time.Duration, tags []string, dest any, loader func(context.Context) (any, error)) error {
	if c.store == nil || ttl <= 0 {
		return c.bypass(ctx, dest, loader)
	}

	key := GenerateKey(op, params)

	if data, ok := c.store.Get(key); ok {
		if err := json.Unmarshal(data, dest); err == nil {
			metrics.RecordCacheHit(op)
			return nil
		}
		// Undecodable entry: drop it and fall through to the loader.
		c.store.Delete(key)
	}
	metrics.RecordCacheMiss(op)

	data, err, _ := c.group.Do(key, func() (any, error) {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode %s result: %w", op, err)
		}
		if err := c.store.Set(key, encoded, ttl, tags); err != nil {
			// Store trouble must not lose the computed result.
			c.logger.Warn().Err(err).Str("op", op).Msg("cache store unavailable, result not cached")
		}
		return encoded, nil
	})
	if err != nil {
		return err
	}

	encoded, ok := data.([]byte)
	if !ok {
		return fmt.Errorf("unexpected cache payload type %T", data)
	}
	return json.Unmarshal(encoded, dest)
}

// bypass calls the loader directly, still decoding through JSON so both
// paths hand the caller an identically shaped value.
func (c *ResultCache) bypass(ctx context.Context, dest any, loader func(context.Context) (any, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return json.Unmarshal(encoded, dest)
}

// Invalidate removes a single operation invocation's entry.
func (c *ResultCache) Invalidate(op string, params any) {
	if c.store == nil {
		return
	}
	c.store.Delete(GenerateKey(op, params))
	metrics.RecordCacheInvalidation("result", "key", 1)
}

// InvalidateUser removes every entry computed from the user's data.
func (c *ResultCache) InvalidateUser(userID string) int {
	if c.store == nil || userID == "" {
		return 0
	}
	removed := c.store.DeleteByTag(TagUser(userID))
	if removed > 0 {
		metrics.RecordCacheInvalidation("result", "user", removed)
	}
	c.logger.Debug().Str("user_id", userID).Int("removed", removed).Msg("user cache entries invalidated")
	return removed
}

// InvalidateItem removes every entry that depends on the item, typically
// after an availability or metadata change.
func (c *ResultCache) InvalidateItem(itemID string) int {
	if c.store == nil || itemID == "" {
		return 0
	}
	removed := c.store.DeleteByTag(TagItem(itemID))
	if removed > 0 {
		metrics.RecordCacheInvalidation("result", "item", removed)
	}
	return removed
}

// Len reports the number of live entries in the backend.
func (c *ResultCache) Len() int {
	if c.store == nil {
		return 0
	}
	return c.store.Len()
}

// Close releases the backend.
func (c *ResultCache) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}
