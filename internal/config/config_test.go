// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/lightbox/internal/prioritize"
)

func TestDefaultConfig_Validates(t *testing.T) {
	if err := defaultConfig().Validate(); err != nil {
		t.Fatalf("defaultConfig().Validate() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty database path", func(c *Config) { c.Database.Path = "" }, "DUCKDB_PATH"},
		{"negative threads", func(c *Config) { c.Database.Threads = -1 }, "DUCKDB_THREADS"},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }, "HTTP_TIMEOUT"},
		{"unknown environment", func(c *Config) { c.Server.Environment = "qa" }, "ENVIRONMENT"},
		{"page size zero", func(c *Config) { c.API.DefaultPageSize = 0 }, "API_DEFAULT_PAGE_SIZE"},
		{"max below default", func(c *Config) { c.API.MaxPageSize = 10 }, "API_MAX_PAGE_SIZE"},
		{"rate limit zero", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"wildcard cors in production", func(c *Config) { c.Server.Environment = "production" }, "CORS_ORIGINS"},
		{"unknown strategy", func(c *Config) { c.Prioritize.DefaultStrategy = "newest" }, "DEFAULT_STRATEGY"},
		{"negative slow threshold", func(c *Config) { c.Prioritize.SlowThreshold = -time.Second }, "slow_threshold"},
		{"session capacity zero", func(c *Config) { c.Session.Capacity = 0 }, "SESSION_CAPACITY"},
		{"session ttl zero", func(c *Config) { c.Session.TTL = 0 }, "SESSION_TTL"},
		{"relative root", func(c *Config) { c.Library.Roots = []string{"photos"} }, "MEDIA_ROOTS"},
		{"negative scan interval", func(c *Config) { c.Library.ScanInterval = -time.Minute }, "SCAN_INTERVAL"},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_RateLimitDisabledSkipsChecks(t *testing.T) {
	cfg := defaultConfig()
	cfg.Security.RateLimitDisabled = true
	cfg.Security.RateLimitReqs = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestPrioritizeConfig(t *testing.T) {
	p := PrioritizeConfig{DefaultStrategy: "most_liked", ShuffleTies: true, Seed: 9, SlowThreshold: time.Second}
	if p.Strategy() != prioritize.StrategyMostLiked {
		t.Errorf("Strategy() = %q", p.Strategy())
	}

	ec := p.EngineConfig()
	if !ec.ShuffleTies || ec.Seed != 9 || ec.SlowThreshold != time.Second {
		t.Errorf("EngineConfig() = %+v", ec)
	}

	if (PrioritizeConfig{}).Strategy() != prioritize.DefaultStrategy {
		t.Error("empty default strategy should resolve to the engine default")
	}
}
