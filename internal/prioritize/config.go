// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package prioritize

import (
	"fmt"
	"time"
)

// Config holds engine configuration.
type Config struct {
	// ShuffleTies shuffles records whose sort keys are identical.
	// When false, ties keep their input order.
	ShuffleTies bool `json:"shuffle_ties"`

	// Seed fixes the random source. Zero uses the process-wide generator.
	Seed uint64 `json:"seed"`

	// SlowThreshold is the latency above which a call is logged as slow.
	SlowThreshold time.Duration `json:"slow_threshold"`
}

// DefaultConfig returns the production engine configuration.
func DefaultConfig() *Config {
	return &Config{
		ShuffleTies:   true,
		SlowThreshold: 200 * time.Millisecond,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.SlowThreshold < 0 {
		return fmt.Errorf("slow_threshold must be non-negative, got %s", c.SlowThreshold)
	}
	return nil
}
