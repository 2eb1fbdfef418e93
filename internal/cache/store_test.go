// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package cache

import (
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()

	if err := s.Set("k", []byte("v"), time.Minute, nil); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := s.Get("k")
	if !ok || string(got) != "v" {
		t.Errorf("Get = (%q, %v), want (v, true)", got, ok)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestMemoryStoreExpiredReadsLikeMiss(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Set("k", []byte("v"), 5*time.Millisecond, nil); err != nil {
		t.Fatalf("Set: %v", err)
	}

	time.Sleep(15 * time.Millisecond)

	if _, ok := s.Get("k"); ok {
		t.Errorf("expired entry still readable")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d after lazy expiry, want 0", s.Len())
	}
}

func TestMemoryStoreSetReplaces(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Set("k", []byte("old"), time.Minute, []string{"item:1"})
	_ = s.Set("k", []byte("new"), time.Minute, []string{"item:2"})

	got, _ := s.Get("k")
	if string(got) != "new" {
		t.Errorf("Get = %q, want new", got)
	}
	// The old tag must no longer reach the entry.
	if removed := s.DeleteByTag("item:1"); removed != 0 {
		t.Errorf("DeleteByTag(old tag) removed %d, want 0", removed)
	}
	if removed := s.DeleteByTag("item:2"); removed != 1 {
		t.Errorf("DeleteByTag(new tag) removed %d, want 1", removed)
	}
}

func TestMemoryStoreDeleteByTag(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Set("a", []byte("1"), time.Minute, []string{"user:u1", "item:i1"})
	_ = s.Set("b", []byte("2"), time.Minute, []string{"user:u1"})
	_ = s.Set("c", []byte("3"), time.Minute, []string{"user:u2"})

	if removed := s.DeleteByTag("user:u1"); removed != 2 {
		t.Errorf("DeleteByTag = %d, want 2", removed)
	}
	if _, ok := s.Get("a"); ok {
		t.Errorf("tagged entry a survived invalidation")
	}
	if _, ok := s.Get("c"); !ok {
		t.Errorf("unrelated entry c was removed")
	}
	if removed := s.DeleteByTag("user:u1"); removed != 0 {
		t.Errorf("second DeleteByTag = %d, want 0", removed)
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Set("stale", []byte("1"), 5*time.Millisecond, []string{"user:u1"})
	_ = s.Set("fresh", []byte("2"), time.Minute, nil)

	time.Sleep(15 * time.Millisecond)

	if swept := s.Sweep(); swept != 1 {
		t.Errorf("Sweep = %d, want 1", swept)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d after sweep, want 1", s.Len())
	}
	if _, ok := s.Get("fresh"); !ok {
		t.Errorf("live entry swept")
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	done := make(chan struct{})

	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				_ = s.Set("shared", []byte("value"), time.Minute, []string{"user:u"})
				if v, ok := s.Get("shared"); ok && string(v) != "value" {
					t.Errorf("torn read: %q", v)
					return
				}
				s.DeleteByTag("user:u")
			}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}
}
