// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/lightbox/config.yaml",
	"/etc/lightbox/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// EnvFileEnvVar names an alternative .env file. Variables already present in
// the process environment are never overridden by it.
const EnvFileEnvVar = "ENV_FILE"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:      "/data/lightbox.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		API: APIConfig{
			DefaultPageSize: 50,
			MaxPageSize:     500,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Prioritize: PrioritizeConfig{
			DefaultStrategy: "random",
			ExcludeDisliked: true,
			ShuffleTies:     true,
			SlowThreshold:   200 * time.Millisecond,
		},
		Session: SessionConfig{
			Capacity:        256,
			TTL:             2 * time.Hour,
			CleanupInterval: 5 * time.Minute,
			MaxPageSize:     200,
		},
		Library: LibraryConfig{
			Roots:         []string{},
			ScanOnStartup: true,
			ScanInterval:  0,
			SniffContent:  true,
		},
	}
}

// Default returns the built-in configuration without reading files or the
// environment. Used by tests and the CLI's offline commands.
func Default() *Config {
	return defaultConfig()
}

// LoadWithKoanf loads configuration in layers, later layers overriding
// earlier ones:
//
//  1. Built-in defaults
//  2. YAML config file (CONFIG_PATH or DefaultConfigPaths, optional)
//  3. .env file (ENV_FILE or ./.env, optional)
//  4. Environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: .env populates the process environment for layer 4
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	// Layer 4: environment variables
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads the .env file if present. A missing default file is not
// an error; a missing file named by ENV_FILE is.
func loadDotEnv() error {
	path := os.Getenv(EnvFileEnvVar)
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load env file %s: %w", path, err)
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are fields that arrive from the environment as
// comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"library.roots",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Database
	"duckdb_path":         "database.path",
	"duckdb_max_memory":   "database.max_memory",
	"duckdb_threads":      "database.threads",
	"database_seed_file":  "database.seed_file",
	"duckdb_skip_indexes": "database.skip_indexes",

	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// API
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Prioritize
	"default_strategy":          "prioritize.default_strategy",
	"exclude_disliked":          "prioritize.exclude_disliked",
	"shuffle_ties":              "prioritize.shuffle_ties",
	"prioritize_seed":           "prioritize.seed",
	"prioritize_slow_threshold": "prioritize.slow_threshold",

	// Session
	"session_capacity":         "session.capacity",
	"session_ttl":              "session.ttl",
	"session_cleanup_interval": "session.cleanup_interval",
	"session_max_page_size":    "session.max_page_size",

	// Library
	"media_roots":            "library.roots",
	"library_roots":          "library.roots",
	"scan_on_startup":        "library.scan_on_startup",
	"scan_interval":          "library.scan_interval",
	"library_include_hidden": "library.include_hidden",
	"library_sniff_content":  "library.sniff_content",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - HTTP_PORT -> server.port
//   - MEDIA_ROOTS -> library.roots
//   - DEFAULT_STRATEGY -> prioritize.default_strategy
//
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
