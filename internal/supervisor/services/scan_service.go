// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/lightbox/internal/library"
	"github.com/tomtom215/lightbox/internal/models"
)

// scanTimeout bounds a single scheduled scan.
const scanTimeout = 6 * time.Hour

// LibraryScanner is satisfied by *library.Scanner.
type LibraryScanner interface {
	Scan(ctx context.Context) (*models.ScanReport, error)
}

// ScanServiceConfig holds the scan schedule.
type ScanServiceConfig struct {
	// ScanOnStartup runs a scan as soon as the service starts.
	ScanOnStartup bool

	// Interval schedules periodic rescans. Zero disables them.
	Interval time.Duration
}

// ScanService keeps the library index in sync with disk.
type ScanService struct {
	scanner LibraryScanner
	config  ScanServiceConfig
	logger  zerolog.Logger
	name    string
}

// NewScanService creates a new scan service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewScanService(scanner LibraryScanner, cfg ScanServiceConfig, logger zerolog.Logger) *ScanService {
	return &ScanService{
		scanner: scanner,
		config:  cfg,
		logger:  logger.With().Str("service", "library-scan").Logger(),
		name:    "library-scan",
	}
}

// Serve implements suture.Service. Scan failures are logged and retried on
// the next tick; they do not restart the service.
func (s *ScanService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("scan_on_startup", s.config.ScanOnStartup).
		Dur("scan_interval", s.config.Interval).
		Msg("Library scan service starting")

	if s.config.ScanOnStartup {
		s.scan(ctx, "startup")
	}

	if s.config.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Library scan service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.scan(ctx, "scheduled")
		}
	}
}

func (s *ScanService) scan(ctx context.Context, trigger string) {
	scanCtx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	report, err := s.scanner.Scan(scanCtx)
	switch {
	case errors.Is(err, library.ErrScanInProgress):
		s.logger.Debug().Str("trigger", trigger).Msg("Scan skipped, another scan is running")
	case err != nil:
		if ctx.Err() == nil {
			s.logger.Warn().Err(err).Str("trigger", trigger).Msg("Library scan failed")
		}
	default:
		s.logger.Info().
			Str("trigger", trigger).
			Int("indexed", report.Indexed).
			Int("removed", report.Removed).
			Int("errors", report.Errors).
			Dur("duration", report.Duration).
			Msg("Library scan complete")
	}
}

// String implements fmt.Stringer for supervisor logs.
func (s *ScanService) String() string {
	return s.name
}
