// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package cache

import (
	"sync"
	"time"
)

// Store is the cache backend contract. Values are opaque byte slices;
// serialization is the result cache's concern, not the backend's.
//
// Tags associate an entry with the user and item IDs it was computed from.
// DeleteByTag removes every entry carrying the tag, which is how
// invalidation events translate into cache evictions.
type Store interface {
	// Get returns the value for key. ok is false on miss or expiry; an
	// expired entry is indistinguishable from an absent one.
	Get(key string) (value []byte, ok bool)

	// Set stores value under key with the given TTL and tags, replacing any
	// existing entry for the key.
	Set(key string, value []byte, ttl time.Duration, tags []string) error

	// Delete removes a single entry. Absent keys are a no-op.
	Delete(key string)

	// DeleteByTag removes every entry tagged with tag and returns how many
	// were removed.
	DeleteByTag(tag string) int

	// Len returns the number of live entries.
	Len() int

	// Close releases backend resources.
	Close() error
}

// memoryEntry is one in-memory cache record.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
	tags      []string
}

// MemoryStore is the default in-process backend: a map with per-entry
// expiry and a tag index. Expired entries are dropped lazily on read and
// in bulk by Sweep, which the cache janitor service calls on a ticker.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	// byTag maps tag -> set of keys carrying it.
	byTag map[string]map[string]struct{}
}

// NewMemoryStore creates an empty in-memory backend.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		byTag:   make(map[string]map[string]struct{}),
	}
}

// Get implements Store.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	entry, exists := s.entries[key]
	s.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the key.
		if current, ok := s.entries[key]; ok && time.Now().After(current.expiresAt) {
			s.removeLocked(key, current)
		}
		s.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

// Set implements Store.
func (s *MemoryStore) Set(key string, value []byte, ttl time.Duration, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[key]; ok {
		s.untagLocked(key, old.tags)
	}

	s.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
		tags:      tags,
	}
	for _, tag := range tags {
		keys, ok := s.byTag[tag]
		if !ok {
			keys = make(map[string]struct{})
			s.byTag[tag] = keys
		}
		keys[key] = struct{}{}
	}
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[key]; ok {
		s.removeLocked(key, entry)
	}
}

// DeleteByTag implements Store.
func (s *MemoryStore) DeleteByTag(tag string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, ok := s.byTag[tag]
	if !ok {
		return 0
	}
	removed := 0
	for key := range keys {
		if entry, exists := s.entries[key]; exists {
			s.removeLocked(key, entry)
			removed++
		}
	}
	delete(s.byTag, tag)
	return removed
}

// Len implements Store.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

// Sweep removes every expired entry and returns how many were dropped.
func (s *MemoryStore) Sweep() int {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	swept := 0
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			s.removeLocked(key, entry)
			swept++
		}
	}
	return swept
}

// removeLocked deletes an entry and its tag index references. Caller holds
// the write lock.
func (s *MemoryStore) removeLocked(key string, entry memoryEntry) {
	delete(s.entries, key)
	s.untagLocked(key, entry.tags)
}

func (s *MemoryStore) untagLocked(key string, tags []string) {
	for _, tag := range tags {
		if keys, ok := s.byTag[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(s.byTag, tag)
			}
		}
	}
}

// Ensure interface compliance.
var _ Store = (*MemoryStore)(nil)
