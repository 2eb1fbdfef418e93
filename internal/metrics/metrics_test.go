// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package metrics

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// getCounterValue extracts the value from a Prometheus counter
func getCounterValue(counter prometheus.Counter) float64 {
	var m io_prometheus_client.Metric
	if err := counter.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// getGaugeValue extracts the value from a Prometheus gauge
func getGaugeValue(gauge prometheus.Gauge) float64 {
	var m io_prometheus_client.Metric
	if err := gauge.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

// TestRecordSearch tests search request metric recording
func TestRecordSearch(t *testing.T) {
	tests := []struct {
		name     string
		variant  string
		status   string
		duration time.Duration
	}{
		{
			name:     "successful control search",
			variant:  "control",
			status:   "ok",
			duration: 45 * time.Millisecond,
		},
		{
			name:     "successful personalized search",
			variant:  "personalized",
			status:   "ok",
			duration: 80 * time.Millisecond,
		},
		{
			name:     "degraded search after leg timeout",
			variant:  "control",
			status:   "degraded",
			duration: 250 * time.Millisecond,
		},
		{
			name:     "failed search",
			variant:  "boost",
			status:   "error",
			duration: 5 * time.Millisecond,
		},
		{
			name:     "slow search over a second",
			variant:  "personalized",
			status:   "ok",
			duration: 1500 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Record the search - should not panic
			RecordSearch(tt.variant, tt.status, tt.duration)
		})
	}
}

// TestRecordStage tests pipeline stage metric recording
func TestRecordStage(t *testing.T) {
	tests := []struct {
		name       string
		stage      string
		duration   time.Duration
		candidates int
	}{
		{
			name:       "parse stage",
			stage:      "parse",
			duration:   500 * time.Microsecond,
			candidates: 0,
		},
		{
			name:       "retrieval stage with many candidates",
			stage:      "retrieval",
			duration:   30 * time.Millisecond,
			candidates: 450,
		},
		{
			name:       "fusion stage",
			stage:      "fusion",
			duration:   2 * time.Millisecond,
			candidates: 300,
		},
		{
			name:       "ranking stage",
			stage:      "ranking",
			duration:   8 * time.Millisecond,
			candidates: 300,
		},
		{
			name:       "diversity stage truncated to page",
			stage:      "diversity",
			duration:   1 * time.Millisecond,
			candidates: 20,
		},
		{
			name:       "empty pipeline output",
			stage:      "hydration",
			duration:   100 * time.Microsecond,
			candidates: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordStage(tt.stage, tt.duration, tt.candidates)
		})
	}
}

// TestRecordRetrievalLeg tests retrieval leg metric recording
func TestRecordRetrievalLeg(t *testing.T) {
	legs := []string{"vector", "keyword", "graph"}

	for _, leg := range legs {
		t.Run("leg_"+leg, func(t *testing.T) {
			RecordRetrievalLeg(leg, 15*time.Millisecond, 120)
			RecordRetrievalLeg(leg, 500*time.Microsecond, 0)
		})
	}
}

// TestRecordLegDegraded tests degradation metric recording
func TestRecordLegDegraded(t *testing.T) {
	tests := []struct {
		leg    string
		reason string
	}{
		{"vector", "timeout"},
		{"vector", "missing_embedding"},
		{"keyword", "error"},
		{"graph", "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.leg+"_"+tt.reason, func(t *testing.T) {
			RecordLegDegraded(tt.leg, tt.reason)
		})
	}
}

// TestRecordGraphTraversal tests graph traversal metric recording
func TestRecordGraphTraversal(t *testing.T) {
	tests := []struct {
		name            string
		edgesVisited    int
		budgetExhausted bool
	}{
		{name: "small traversal", edgesVisited: 12, budgetExhausted: false},
		{name: "traversal at budget", edgesVisited: 100, budgetExhausted: true},
		{name: "no edges from seeds", edgesVisited: 0, budgetExhausted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordGraphTraversal(tt.edgesVisited, tt.budgetExhausted)
		})
	}
}

// TestRecordPersonalization tests personalization metric recording
func TestRecordPersonalization(t *testing.T) {
	RecordPersonalization(10*time.Millisecond, "")
	RecordPersonalization(50*time.Millisecond, "timeout")
	RecordPersonalization(time.Millisecond, "error")
	RecordPersonalization(0, "disabled")
}

// TestRecordDBQuery tests database query metric recording
func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		duration  time.Duration
		err       error
	}{
		{
			name:      "successful SELECT query",
			operation: "SELECT",
			table:     "catalog_items",
			duration:  10 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "successful INSERT query",
			operation: "INSERT",
			table:     "popular_queries",
			duration:  5 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "failed query with short error",
			operation: "UPDATE",
			table:     "relationship_edges",
			duration:  100 * time.Millisecond,
			err:       errors.New("connection refused"),
		},
		{
			name:      "failed query with long error - should truncate to 50 chars",
			operation: "DELETE",
			table:     "user_history",
			duration:  50 * time.Millisecond,
			err:       errors.New("this is a very long error message that exceeds fifty characters and should be truncated properly"),
		},
		{
			name:      "fast query under 1ms",
			operation: "SELECT",
			table:     "availability",
			duration:  500 * time.Microsecond,
			err:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Record the query - should not panic
			RecordDBQuery(tt.operation, tt.table, tt.duration, tt.err)
		})
	}
}

// TestRecordDBQuery_ErrorTruncation verifies error messages are truncated at 50 chars
func TestRecordDBQuery_ErrorTruncation(t *testing.T) {
	// Error with exactly 50 characters
	err50 := errors.New(strings.Repeat("a", 50))
	RecordDBQuery("SELECT", "test", time.Millisecond, err50)

	// Error with 51 characters - should truncate
	err51 := errors.New(strings.Repeat("b", 51))
	RecordDBQuery("SELECT", "test", time.Millisecond, err51)

	// Error with 100 characters - should truncate
	err100 := errors.New(strings.Repeat("c", 100))
	RecordDBQuery("SELECT", "test", time.Millisecond, err100)

	// Very short error
	errShort := errors.New("err")
	RecordDBQuery("SELECT", "test", time.Millisecond, errShort)
}

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{
			name:       "successful search request",
			method:     "POST",
			endpoint:   "/api/v1/search",
			statusCode: "200",
			duration:   45 * time.Millisecond,
		},
		{
			name:       "successful similar items request",
			method:     "GET",
			endpoint:   "/api/v1/items/tt0137523/similar",
			statusCode: "200",
			duration:   20 * time.Millisecond,
		},
		{
			name:       "invalid request",
			method:     "POST",
			endpoint:   "/api/v1/search",
			statusCode: "400",
			duration:   1 * time.Millisecond,
		},
		{
			name:       "not found request",
			method:     "GET",
			endpoint:   "/api/v1/unknown",
			statusCode: "404",
			duration:   2 * time.Millisecond,
		},
		{
			name:       "dependency timeout",
			method:     "POST",
			endpoint:   "/api/v1/discover",
			statusCode: "504",
			duration:   500 * time.Millisecond,
		},
		{
			name:       "rate limited request",
			method:     "GET",
			endpoint:   "/api/v1/autocomplete",
			statusCode: "429",
			duration:   1 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Record the request - should not panic
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)
		})
	}
}

// TestTrackActiveRequest tests active request tracking
func TestTrackActiveRequest(t *testing.T) {
	before := getGaugeValue(APIActiveRequests)

	// Increment
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(true)

	if got := getGaugeValue(APIActiveRequests); got != before+3 {
		t.Errorf("active requests = %v, want %v", got, before+3)
	}

	// Decrement
	TrackActiveRequest(false)
	TrackActiveRequest(false)
	TrackActiveRequest(false)

	if got := getGaugeValue(APIActiveRequests); got != before {
		t.Errorf("active requests after drain = %v, want %v", got, before)
	}
}

// TestCacheMetrics tests cache metric recording
func TestCacheMetrics(t *testing.T) {
	cacheTypes := []string{"result", "embedding", "availability", "autocomplete"}

	for _, ct := range cacheTypes {
		t.Run("cache_"+ct, func(t *testing.T) {
			hitsBefore := getCounterValue(CacheHits.WithLabelValues(ct))
			missesBefore := getCounterValue(CacheMisses.WithLabelValues(ct))

			RecordCacheHit(ct)
			RecordCacheHit(ct)
			RecordCacheMiss(ct)
			CacheSize.WithLabelValues(ct).Set(100)
			CacheEvictions.WithLabelValues(ct).Inc()
			CacheBypasses.WithLabelValues(ct).Inc()

			if got := getCounterValue(CacheHits.WithLabelValues(ct)); got != hitsBefore+2 {
				t.Errorf("cache hits = %v, want %v", got, hitsBefore+2)
			}
			if got := getCounterValue(CacheMisses.WithLabelValues(ct)); got != missesBefore+1 {
				t.Errorf("cache misses = %v, want %v", got, missesBefore+1)
			}
			if got := getGaugeValue(CacheSize.WithLabelValues(ct)); got != 100 {
				t.Errorf("cache size = %v, want 100", got)
			}
		})
	}
}

// TestRecordCacheInvalidation tests invalidation metric recording
func TestRecordCacheInvalidation(t *testing.T) {
	RecordCacheInvalidation("result", "item", 5)
	RecordCacheInvalidation("result", "user", 1)
	RecordCacheInvalidation("result", "catalog", 250)
	RecordCacheInvalidation("availability", "item", 0)
}

// TestIntentMetrics tests intent parsing metric recording
func TestIntentMetrics(t *testing.T) {
	intents := []string{"genre", "similarity", "platform", "freeform"}
	for _, intent := range intents {
		IntentParsedTotal.WithLabelValues(intent).Inc()
	}
	IntentFallbacksTotal.Inc()
	IntentSpellCorrections.Add(3)
}

// TestRecordAutocomplete tests autocomplete metric recording
func TestRecordAutocomplete(t *testing.T) {
	RecordAutocomplete(200 * time.Microsecond)
	RecordAutocomplete(2 * time.Millisecond)
}

// TestRecordDictionaryRefresh tests dictionary refresh metric recording
func TestRecordDictionaryRefresh(t *testing.T) {
	RecordDictionaryRefresh("genre", 42, 500*time.Millisecond, nil)
	RecordDictionaryRefresh("platform", 12, 100*time.Millisecond, nil)
	RecordDictionaryRefresh("vocabulary", 0, 2*time.Second, errors.New("query failed"))
}

// TestRecordEmbeddingRequest tests embedding client metric recording
func TestRecordEmbeddingRequest(t *testing.T) {
	RecordEmbeddingRequest(80*time.Millisecond, "")
	RecordEmbeddingRequest(5*time.Second, "timeout")
	RecordEmbeddingRequest(time.Millisecond, "breaker_open")
	RecordEmbeddingRequest(10*time.Millisecond, "http")
}

// TestCircuitBreakerMetrics tests circuit breaker metric recording
func TestCircuitBreakerMetrics(t *testing.T) {
	names := []string{"embedding", "personalization", "nats-publisher"}

	for _, name := range names {
		t.Run("breaker_"+name, func(t *testing.T) {
			CircuitBreakerState.WithLabelValues(name).Set(0)
			CircuitBreakerRequests.WithLabelValues(name, "success").Inc()
			CircuitBreakerRequests.WithLabelValues(name, "failure").Inc()
			CircuitBreakerRequests.WithLabelValues(name, "rejected").Inc()
			CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(2)
			CircuitBreakerTransitions.WithLabelValues(name, "closed", "open").Inc()
		})
	}
}

// TestNATSMetrics tests NATS event metric recording
func TestNATSMetrics(t *testing.T) {
	RecordNATSPublish()
	RecordNATSConsume()
	RecordNATSProcessed()
	RecordNATSParseFailed()
	RecordNATSProcessingDuration(5 * time.Millisecond)
}

// TestAppMetrics tests application info metrics
func TestAppMetrics(t *testing.T) {
	AppInfo.WithLabelValues("1.0.0", "go1.24").Set(1)
	AppUptime.Set(3600)
}

// TestConcurrentMetricRecording verifies recording is safe under concurrency
func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	numGoroutines := 100
	operationsPerGoroutine := 50

	// Test concurrent search recording
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordSearch("control", "ok", time.Duration(j)*time.Millisecond)
			}
		}(i)
	}

	// Test concurrent leg recording
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordRetrievalLeg("vector", time.Duration(j)*time.Millisecond, j)
			}
		}(i)
	}

	// Test concurrent DB query recording
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordDBQuery("SELECT", "catalog_items", time.Duration(j)*time.Millisecond, nil)
			}
		}(i)
	}

	// Test concurrent active request tracking
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				TrackActiveRequest(true)
				TrackActiveRequest(false)
			}
		}(i)
	}

	wg.Wait()
}

// TestMetricLabels verifies that metrics have proper labels configured
func TestMetricLabels(t *testing.T) {
	// Test SearchRequestsTotal has correct labels
	SearchRequestsTotal.WithLabelValues("control", "ok").Inc()
	SearchRequestsTotal.WithLabelValues("personalized", "degraded").Inc()

	// Test RetrievalLegDegraded has correct labels
	RetrievalLegDegraded.WithLabelValues("vector", "timeout").Inc()
	RetrievalLegDegraded.WithLabelValues("keyword", "error").Inc()

	// Test DBQueryErrors has correct labels
	DBQueryErrors.WithLabelValues("DELETE", "test_table", "constraint_violation").Inc()

	// Test APIRequestsTotal has correct labels
	APIRequestsTotal.WithLabelValues("GET", "/api/test", "200").Inc()
	APIRequestsTotal.WithLabelValues("POST", "/api/test", "500").Inc()

	// Test CacheHits has correct labels
	CacheHits.WithLabelValues("result").Inc()
	CacheHits.WithLabelValues("embedding").Inc()

	// Test PersonalizationDegraded has correct labels
	PersonalizationDegraded.WithLabelValues("timeout").Inc()
}

// TestMetricsRegistration verifies all metrics can be collected without panic
func TestMetricsRegistration(t *testing.T) {
	metrics := []prometheus.Collector{
		SearchRequestsTotal,
		SearchStageDuration,
		SearchCandidates,
		SearchEmptyResults,
		RetrievalLegDuration,
		RetrievalLegResults,
		RetrievalLegDegraded,
		RetrievalPreFilterTotal,
		IntentParsedTotal,
		IntentFallbacksTotal,
		IntentSpellCorrections,
		GraphTraversalsTotal,
		GraphEdgesVisited,
		GraphBudgetExhausted,
		PersonalizationDuration,
		PersonalizationDegraded,
		DiversityDeferred,
		EmbeddingRequestDuration,
		EmbeddingFailures,
		DBQueryDuration,
		DBQueryErrors,
		DBConnectionPoolSize,
		CacheHits,
		CacheMisses,
		CacheSize,
		CacheEvictions,
		CacheBypasses,
		CacheInvalidations,
		AutocompleteRequests,
		AutocompleteDuration,
		DictionaryRefreshDuration,
		DictionaryTerms,
		DictionaryRefreshErrors,
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		APIRateLimitHits,
		CircuitBreakerState,
		CircuitBreakerRequests,
		CircuitBreakerConsecutiveFailures,
		CircuitBreakerTransitions,
		NATSMessagesPublished,
		NATSMessagesConsumed,
		NATSMessagesProcessed,
		NATSMessagesParseFailed,
		NATSProcessingDuration,
		AppInfo,
		AppUptime,
	}

	// Verify each metric can be described
	for _, m := range metrics {
		ch := make(chan *prometheus.Desc, 10)
		m.Describe(ch)
		close(ch)

		// Should have at least one descriptor
		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("Metric has no descriptors")
		}
	}
}

// TestMetricGathering tests that metrics can be gathered using testutil
func TestMetricGathering(t *testing.T) {
	// Record some metrics
	RecordSearch("control", "ok", time.Millisecond)
	RecordDBQuery("TEST", "test_table", time.Millisecond, nil)
	RecordAPIRequest("GET", "/test", "200", time.Millisecond)

	// Verify we can lint the metrics (checks for consistency issues)
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}

// Benchmark tests for metrics performance

func BenchmarkRecordSearch(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordSearch("control", "ok", 45*time.Millisecond)
	}
}

func BenchmarkRecordStage(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordStage("fusion", 2*time.Millisecond, 300)
	}
}

func BenchmarkRecordRetrievalLeg(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordRetrievalLeg("vector", 15*time.Millisecond, 120)
	}
}

func BenchmarkRecordDBQuery(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordDBQuery("SELECT", "catalog_items", 10*time.Millisecond, nil)
	}
}

func BenchmarkRecordDBQueryWithError(b *testing.B) {
	err := errors.New("connection refused")
	for i := 0; i < b.N; i++ {
		RecordDBQuery("SELECT", "catalog_items", 10*time.Millisecond, err)
	}
}

func BenchmarkTrackActiveRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		TrackActiveRequest(true)
		TrackActiveRequest(false)
	}
}
