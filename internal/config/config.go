// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package config

import (
	"time"

	"github.com/tomtom215/lightbox/internal/prioritize"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file, a .env file and environment variables.
//
// Configuration Categories:
//
//  1. Storage:
//     - Database: DuckDB configuration (path, memory, threads, seed data)
//     - Library: media roots and scan schedule
//
//  2. Serving:
//     - Server: HTTP server configuration (host, port, timeouts)
//     - API: pagination limits
//     - Security: CORS and rate limiting
//
//  3. Ordering:
//     - Prioritize: default strategy, disliked exclusion, tie shuffling
//     - Session: cached browsing sessions
//
//  4. Observability:
//     - Logging: level, format, caller info
type Config struct {
	Database   DatabaseConfig   `koanf:"database"`
	Server     ServerConfig     `koanf:"server"`
	API        APIConfig        `koanf:"api"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
	Prioritize PrioritizeConfig `koanf:"prioritize"`
	Session    SessionConfig    `koanf:"session"`
	Library    LibraryConfig    `koanf:"library"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()

	// SkipIndexes skips index creation. Used by tests for faster setup.
	SkipIndexes bool `koanf:"skip_indexes"`

	// SeedFile is an optional JSON file of media records loaded at startup.
	SeedFile string `koanf:"seed_file"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// APIConfig holds pagination settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json, console
	Caller bool   `koanf:"caller"`
}

// PrioritizeConfig holds ordering engine settings.
type PrioritizeConfig struct {
	// DefaultStrategy is used when a request names none.
	DefaultStrategy string `koanf:"default_strategy"`

	// ExcludeDisliked is the default for requests that do not set
	// exclude_disliked explicitly.
	ExcludeDisliked bool `koanf:"exclude_disliked"`

	ShuffleTies   bool          `koanf:"shuffle_ties"`
	Seed          uint64        `koanf:"seed"` // 0 = nondeterministic
	SlowThreshold time.Duration `koanf:"slow_threshold"`
}

// Strategy returns the parsed default strategy. Validate guarantees it parses.
func (p PrioritizeConfig) Strategy() prioritize.Strategy {
	s, err := prioritize.ParseStrategy(p.DefaultStrategy)
	if err != nil {
		return prioritize.DefaultStrategy
	}
	return s
}

// EngineConfig converts the section to an engine configuration.
func (p PrioritizeConfig) EngineConfig() *prioritize.Config {
	return &prioritize.Config{
		ShuffleTies:   p.ShuffleTies,
		Seed:          p.Seed,
		SlowThreshold: p.SlowThreshold,
	}
}

// SessionConfig holds browsing session cache settings.
type SessionConfig struct {
	Capacity        int           `koanf:"capacity"`
	TTL             time.Duration `koanf:"ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	MaxPageSize     int           `koanf:"max_page_size"`
}

// LibraryConfig holds media library settings.
type LibraryConfig struct {
	Roots []string `koanf:"roots"`

	// ScanOnStartup runs a scan as soon as the server starts.
	ScanOnStartup bool `koanf:"scan_on_startup"`

	// ScanInterval schedules periodic rescans. Zero disables them.
	ScanInterval time.Duration `koanf:"scan_interval"`

	// IncludeHidden indexes dot-files and dot-directories.
	IncludeHidden bool `koanf:"include_hidden"`

	// SniffContent detects the type of files with unknown extensions by
	// reading their header.
	SniffContent bool `koanf:"sniff_content"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load loads configuration using the layered koanf loader.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
