// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tomtom215/lightbox/internal/prioritize"
)

var (
	validEnvironments = []string{"development", "staging", "production"}
	validLogLevels    = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}
	validLogFormats   = []string{"json", "console"}
)

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validatePrioritize(); err != nil {
		return err
	}

	if err := c.validateSession(); err != nil {
		return err
	}

	if err := c.validateLibrary(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH must not be empty")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.Server.ShutdownTimeout)
	}
	if !slices.Contains(validEnvironments, c.Server.Environment) {
		return fmt.Errorf("ENVIRONMENT must be one of %s, got %q",
			strings.Join(validEnvironments, ", "), c.Server.Environment)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be positive, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE (%d) must be at least API_DEFAULT_PAGE_SIZE (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.Security.RateLimitWindow)
	}
	if c.IsProduction() && slices.Contains(c.Security.CORSOrigins, "*") {
		return fmt.Errorf("CORS_ORIGINS must not contain * in production")
	}
	return nil
}

func (c *Config) validatePrioritize() error {
	if _, err := prioritize.ParseStrategy(c.Prioritize.DefaultStrategy); err != nil {
		return fmt.Errorf("DEFAULT_STRATEGY is invalid: %w", err)
	}
	if err := c.Prioritize.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("prioritize config is invalid: %w", err)
	}
	return nil
}

func (c *Config) validateSession() error {
	if c.Session.Capacity < 1 {
		return fmt.Errorf("SESSION_CAPACITY must be positive, got %d", c.Session.Capacity)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.Session.TTL)
	}
	if c.Session.CleanupInterval <= 0 {
		return fmt.Errorf("SESSION_CLEANUP_INTERVAL must be positive, got %s", c.Session.CleanupInterval)
	}
	if c.Session.MaxPageSize < 1 {
		return fmt.Errorf("SESSION_MAX_PAGE_SIZE must be positive, got %d", c.Session.MaxPageSize)
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if c.Library.ScanInterval < 0 {
		return fmt.Errorf("SCAN_INTERVAL must be non-negative, got %s", c.Library.ScanInterval)
	}
	for _, root := range c.Library.Roots {
		if !filepath.IsAbs(root) {
			return fmt.Errorf("MEDIA_ROOTS entries must be absolute paths, got %q", root)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains(validLogLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("LOG_LEVEL must be one of %s, got %q",
			strings.Join(validLogLevels, ", "), c.Logging.Level)
	}
	if !slices.Contains(validLogFormats, strings.ToLower(c.Logging.Format)) {
		return fmt.Errorf("LOG_FORMAT must be one of %s, got %q",
			strings.Join(validLogFormats, ", "), c.Logging.Format)
	}
	return nil
}
