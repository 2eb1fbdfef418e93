// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package config

import (
	"strings"
	"testing"
)

// TestServerAddr verifies the listen address formatting
func TestServerAddr(t *testing.T) {
	tests := []struct {
		name string
		cfg  ServerConfig
		want string
	}{
		{name: "default", cfg: ServerConfig{Host: "0.0.0.0", Port: 7700}, want: "0.0.0.0:7700"},
		{name: "localhost", cfg: ServerConfig{Host: "127.0.0.1", Port: 8080}, want: "127.0.0.1:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Addr(); got != tt.want {
				t.Errorf("Addr() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestIsProduction verifies environment mode detection
func TestIsProduction(t *testing.T) {
	if (ServerConfig{Environment: "development"}).IsProduction() {
		t.Error("development should not be production")
	}
	if !(ServerConfig{Environment: "production"}).IsProduction() {
		t.Error("production should be production")
	}
}

// TestShouldWarnAboutCORS verifies the production wildcard CORS warning
func TestShouldWarnAboutCORS(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		origins     []string
		want        bool
	}{
		{
			name:        "development with wildcard",
			environment: "development",
			origins:     []string{"*"},
			want:        false,
		},
		{
			name:        "production with wildcard",
			environment: "production",
			origins:     []string{"*"},
			want:        true,
		},
		{
			name:        "production with explicit origins",
			environment: "production",
			origins:     []string{"https://app.example.com"},
			want:        false,
		},
		{
			name:        "production with padded wildcard",
			environment: "production",
			origins:     []string{" * "},
			want:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Server.Environment = tt.environment
			cfg.API.CORSOrigins = tt.origins

			if got := cfg.ShouldWarnAboutCORS(); got != tt.want {
				t.Errorf("ShouldWarnAboutCORS() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestValidateDiscovery verifies pipeline parameter validation
func TestValidateDiscovery(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "zero fusion k",
			mutate:  func(c *Config) { c.Discovery.FusionK = 0 },
			wantErr: "REPERIO_FUSION_K",
		},
		{
			name:    "negative retrieval limit",
			mutate:  func(c *Config) { c.Discovery.RetrievalLimit = -1 },
			wantErr: "REPERIO_RETRIEVAL_LIMIT",
		},
		{
			name:    "max candidates below retrieval limit",
			mutate:  func(c *Config) { c.Discovery.MaxCandidates = 50 },
			wantErr: "REPERIO_MAX_CANDIDATES",
		},
		{
			name:    "pre-filter threshold above one",
			mutate:  func(c *Config) { c.Discovery.PreFilterThreshold = 1.5 },
			wantErr: "REPERIO_PREFILTER_THRESHOLD",
		},
		{
			name:    "negative theme weight",
			mutate:  func(c *Config) { c.Discovery.Weights.ThemeMatch = -0.2 },
			wantErr: "REPERIO_WEIGHT_THEME",
		},
		{
			name:    "zero graph depth",
			mutate:  func(c *Config) { c.Discovery.Graph.MaxDepth = 0 },
			wantErr: "REPERIO_GRAPH_MAX_DEPTH",
		},
		{
			name:    "decay base zero",
			mutate:  func(c *Config) { c.Discovery.Graph.DecayBase = 0 },
			wantErr: "REPERIO_GRAPH_DECAY_BASE",
		},
		{
			name:    "decay base above one",
			mutate:  func(c *Config) { c.Discovery.Graph.DecayBase = 1.01 },
			wantErr: "REPERIO_GRAPH_DECAY_BASE",
		},
		{
			name:    "zero edge budget",
			mutate:  func(c *Config) { c.Discovery.Graph.MaxTraversals = 0 },
			wantErr: "REPERIO_GRAPH_MAX_TRAVERSALS",
		},
		{
			name:    "zero diversity window",
			mutate:  func(c *Config) { c.Discovery.Diversity.Window = 0 },
			wantErr: "REPERIO_DIVERSITY_WINDOW",
		},
		{
			name: "constraint exceeds window",
			mutate: func(c *Config) {
				c.Discovery.Diversity.Window = 3
				c.Discovery.Diversity.MaxPerCluster = 4
			},
			wantErr: "REPERIO_DIVERSITY_MAX_PER_CLUSTER",
		},
		{
			name:    "fallback confidence above one",
			mutate:  func(c *Config) { c.Discovery.Intent.FallbackConfidence = 1.1 },
			wantErr: "REPERIO_INTENT_FALLBACK_CONFIDENCE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

// TestValidateClients verifies external service validation
func TestValidateClients(t *testing.T) {
	t.Run("embedding disabled skips URL check", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Embedding.Enabled = false
		cfg.Embedding.URL = ""
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() unexpected error = %v", err)
		}
	})

	t.Run("embedding enabled requires URL", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Embedding.Enabled = true
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "REPERIO_EMBEDDING_URL") {
			t.Errorf("Validate() error = %v, want REPERIO_EMBEDDING_URL requirement", err)
		}
	})

	t.Run("embedding URL with path rejected", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Embedding.Enabled = true
		cfg.Embedding.URL = "http://embedder:8080/v1/embed"
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "base URL") {
			t.Errorf("Validate() error = %v, want base URL complaint", err)
		}
	})

	t.Run("personalization enabled requires URL", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Personalization.Enabled = true
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "REPERIO_PERSONALIZATION_URL") {
			t.Errorf("Validate() error = %v, want REPERIO_PERSONALIZATION_URL requirement", err)
		}
	})

	t.Run("invalid variant rejected even when disabled", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Personalization.DefaultVariant = "shadow"
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "REPERIO_PERSONALIZATION_DEFAULT_VARIANT") {
			t.Errorf("Validate() error = %v, want variant complaint", err)
		}
	})
}

// TestValidateNATS verifies NATS validation
func TestValidateNATS(t *testing.T) {
	t.Run("disabled skips validation", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.NATS.Enabled = false
		cfg.NATS.URL = "not-a-url"
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() unexpected error = %v", err)
		}
	})

	t.Run("external server requires valid URL", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.NATS.EmbeddedServer = false
		cfg.NATS.URL = "http://wrong-scheme:4222"
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "REPERIO_NATS_URL") {
			t.Errorf("Validate() error = %v, want REPERIO_NATS_URL complaint", err)
		}
	})

	t.Run("embedded server requires store dir", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.NATS.StoreDir = ""
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "REPERIO_NATS_STORE_DIR") {
			t.Errorf("Validate() error = %v, want REPERIO_NATS_STORE_DIR complaint", err)
		}
	})

	t.Run("subscriber count bounds", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.NATS.SubscribersCount = 64
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "REPERIO_NATS_SUBSCRIBERS") {
			t.Errorf("Validate() error = %v, want REPERIO_NATS_SUBSCRIBERS complaint", err)
		}
	})
}

// TestValidateHTTPURL verifies HTTP URL validation rules
func TestValidateHTTPURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "valid http", url: "http://localhost:8080", wantErr: false},
		{name: "valid https", url: "https://embedder.example.com", wantErr: false},
		{name: "trailing slash allowed", url: "http://localhost:8080/", wantErr: false},
		{name: "wrong scheme", url: "ftp://localhost", wantErr: true},
		{name: "missing host", url: "http://", wantErr: true},
		{name: "path rejected", url: "http://localhost/api/v1", wantErr: true},
		{name: "query rejected", url: "http://localhost?x=1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateHTTPURL(tt.url, "TEST_URL")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateHTTPURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

// TestValidateNATSURL verifies NATS URL validation rules
func TestValidateNATSURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "valid nats", url: "nats://localhost:4222", wantErr: false},
		{name: "valid tls", url: "tls://nats.example.com:4222", wantErr: false},
		{name: "valid websocket", url: "ws://localhost:8080", wantErr: false},
		{name: "http rejected", url: "http://localhost:4222", wantErr: true},
		{name: "missing host", url: "nats://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateNATSURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateNATSURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
