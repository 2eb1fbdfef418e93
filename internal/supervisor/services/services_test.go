// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reperio/internal/cache"
)

type countingSweeper struct {
	sweeps atomic.Int32
}

func (s *countingSweeper) Sweep() int {
	s.sweeps.Add(1)
	return 3
}

func TestJanitorServiceSweepsOnTicker(t *testing.T) {
	sweeper := &countingSweeper{}
	svc := NewJanitorService(sweeper, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && sweeper.sweeps.Load() < 2 {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve returned %v", err)
	}
	if sweeper.sweeps.Load() < 2 {
		t.Errorf("sweeps = %d, want >= 2", sweeper.sweeps.Load())
	}
}

type fakeVocabulary struct {
	mu       sync.Mutex
	terms    []string
	termsErr error
}

func (f *fakeVocabulary) DictionaryTerms(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.terms, f.termsErr
}

func (f *fakeVocabulary) Suggestions(context.Context, int) ([]cache.Suggestion, error) {
	return []cache.Suggestion{{Text: "starfall", Kind: cache.SuggestionTitle, Weight: 0.9}}, nil
}

type capturingDictionary struct {
	mu    sync.Mutex
	terms []string
}

func (c *capturingDictionary) Replace(terms []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.terms = append([]string(nil), terms...)
}

func (c *capturingDictionary) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.terms...)
}

type capturingAutocomplete struct {
	mu          sync.Mutex
	suggestions []cache.Suggestion
}

func (c *capturingAutocomplete) Replace(suggestions []cache.Suggestion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suggestions = append([]cache.Suggestion(nil), suggestions...)
}

func (c *capturingAutocomplete) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.suggestions)
}

func TestDictionaryServiceRefreshesOnStartup(t *testing.T) {
	source := &fakeVocabulary{terms: []string{"starfall", "netflix"}}
	dict := &capturingDictionary{}
	auto := &capturingAutocomplete{}
	svc := NewDictionaryService(source, dict, auto, time.Hour, 10, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && (len(dict.snapshot()) == 0 || auto.size() == 0) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-errCh

	if got := dict.snapshot(); len(got) != 2 {
		t.Errorf("dictionary terms = %v", got)
	}
	if auto.size() != 1 {
		t.Errorf("autocomplete suggestions = %d, want 1", auto.size())
	}
}

func TestDictionaryServiceKeepsOldVocabularyOnError(t *testing.T) {
	source := &fakeVocabulary{termsErr: errors.New("db closed")}
	dict := &capturingDictionary{terms: []string{"existing"}}
	auto := &capturingAutocomplete{}
	svc := NewDictionaryService(source, dict, auto, time.Hour, 10, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	// Autocomplete still refreshes; the failed dictionary keeps its terms.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && auto.size() == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-errCh

	if got := dict.snapshot(); len(got) != 1 || got[0] != "existing" {
		t.Errorf("dictionary terms after failed refresh = %v, want unchanged", got)
	}
}

type blockingConsumer struct {
	started chan struct{}
}

func (c *blockingConsumer) Run(ctx context.Context) error {
	close(c.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestInvalidationServicePropagatesShutdown(t *testing.T) {
	consumer := &blockingConsumer{started: make(chan struct{})}
	svc := NewInvalidationService(consumer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	select {
	case <-consumer.started:
	case <-time.After(time.Second):
		t.Fatal("consumer never started")
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve returned %v", err)
	}
}

func TestListenAddress(t *testing.T) {
	tests := []struct {
		url      string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{"nats://127.0.0.1:4222", "127.0.0.1", 4222, false},
		{"nats://0.0.0.0:5222", "0.0.0.0", 5222, false},
		{"nats://localhost", "localhost", 4222, false},
		{"nats://host:notaport", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			host, port, err := listenAddress(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("listenAddress(%q) err = %v", tt.url, err)
			}
			if err == nil && (host != tt.wantHost || port != tt.wantPort) {
				t.Errorf("listenAddress(%q) = %s:%d, want %s:%d", tt.url, host, port, tt.wantHost, tt.wantPort)
			}
		})
	}
}
