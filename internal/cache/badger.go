// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package cache

import (
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// Key prefixes inside the Badger keyspace. Entry keys hold the cached
// value; tag keys form the tag index and hold the entry key they point at.
const (
	entryPrefix = "e:"
	tagPrefix   = "t:"
)

// BadgerStore is the persistent cache backend. Entries use Badger's native
// TTL support, so expiry needs no janitor of its own; the tag index rides
// in the same keyspace under a separate prefix.
//
// Persistence buys cache warmth across restarts. It is optional and off by
// default; the memory backend is the common case.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) the cache database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache at %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

// Get implements Store. Badger reports expired entries as not found, so
// expiry is indistinguishable from a miss, as required.
func (s *BadgerStore) Get(key string) ([]byte, bool) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false
	}
	return value, true
}

// Set implements Store.
func (s *BadgerStore) Set(key string, value []byte, ttl time.Duration, tags []string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(entryKey(key), value).WithTTL(ttl)
		if err := txn.SetEntry(entry); err != nil {
			return err
		}
		for _, tag := range tags {
			// Tag keys outlive the entry's TTL only until the next
			// invalidation touches them; a dangling tag key deletes nothing.
			tagEntry := badger.NewEntry(tagKey(tag, key), []byte(key)).WithTTL(ttl)
			if err := txn.SetEntry(tagEntry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("badger set %s: %w", key, err)
	}
	return nil
}

// Delete implements Store.
func (s *BadgerStore) Delete(key string) {
	_ = s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(entryKey(key))
	})
}

// DeleteByTag implements Store.
func (s *BadgerStore) DeleteByTag(tag string) int {
	removed := 0
	prefix := []byte(tagPrefix + tag + ":")

	_ = s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			entryID, err := item.ValueCopy(nil)
			if err != nil {
				continue
			}
			if err := txn.Delete(entryKey(string(entryID))); err == nil {
				removed++
			}
			_ = txn.Delete(item.KeyCopy(nil))
		}
		return nil
	})
	return removed
}

// Len implements Store. Counts live entry keys only.
func (s *BadgerStore) Len() int {
	count := 0
	prefix := []byte(entryPrefix)

	_ = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func entryKey(key string) []byte {
	return []byte(entryPrefix + key)
}

func tagKey(tag, key string) []byte {
	return []byte(tagPrefix + tag + ":" + key)
}

// Ensure interface compliance.
var _ Store = (*BadgerStore)(nil)
