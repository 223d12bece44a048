// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

// Package library indexes media files found under the configured roots.
package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/lightbox/internal/config"
	"github.com/tomtom215/lightbox/internal/logging"
	"github.com/tomtom215/lightbox/internal/metrics"
	"github.com/tomtom215/lightbox/internal/models"
)

// ErrScanInProgress is returned when a scan is requested while one runs.
var ErrScanInProgress = errors.New("library scan already in progress")

// Store persists scanned files.
type Store interface {
	UpsertMediaFile(ctx context.Context, f *models.MediaFile) (int64, error)
	MarkMissing(ctx context.Context, root string, seen map[string]struct{}) (int, error)
}

// statsStore is implemented by stores that can report library totals.
type statsStore interface {
	Stats(ctx context.Context) (*models.LibraryStats, error)
}

// Status describes the scanner state.
type Status struct {
	Running bool               `json:"running"`
	Roots   []string           `json:"roots"`
	Last    *models.ScanReport `json:"last,omitempty"`
}

// Scanner walks the library roots and keeps the store in sync with disk.
type Scanner struct {
	cfg    *config.LibraryConfig
	store  Store
	logger zerolog.Logger

	running atomic.Bool

	mu   sync.RWMutex
	last *models.ScanReport
}

// NewScanner creates a scanner over cfg.Roots.
func NewScanner(cfg *config.LibraryConfig, store Store, logger zerolog.Logger) *Scanner {
	return &Scanner{
		cfg:    cfg,
		store:  store,
		logger: logger.With().Str("component", "library").Logger(),
	}
}

// Roots returns the configured library roots.
func (s *Scanner) Roots() []string {
	return append([]string(nil), s.cfg.Roots...)
}

// Status returns whether a scan runs and the last completed report.
func (s *Scanner) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{Running: s.running.Load(), Roots: s.Roots(), Last: s.last}
}

// Scan indexes every root. Files no longer on disk are soft-deleted, but
// only for roots walked without errors so an unreadable directory never
// hides files. Only one scan runs at a time; concurrent calls get
// ErrScanInProgress.
func (s *Scanner) Scan(ctx context.Context) (*models.ScanReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrScanInProgress
	}
	defer s.running.Store(false)

	report := &models.ScanReport{StartedAt: time.Now(), Roots: []models.ScanResult{}}
	s.logger.Info().Strs("roots", s.cfg.Roots).Msg("Starting library scan")

	var scanErr error
	for _, root := range s.cfg.Roots {
		res, err := s.scanRoot(ctx, root)
		report.Add(res)
		if err != nil {
			scanErr = err
			break
		}
	}
	report.Duration = time.Since(report.StartedAt)
	metrics.RecordScan(report.Duration, report.Indexed, report.Skipped, report.Removed, report.Errors, scanErr)

	if scanErr != nil {
		s.logger.Warn().Err(scanErr).Int("indexed", report.Indexed).Msg("Library scan aborted")
		return report, scanErr
	}

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()

	s.refreshGauge(ctx)

	s.logger.Info().
		Int("indexed", report.Indexed).
		Int("skipped", report.Skipped).
		Int("removed", report.Removed).
		Int("errors", report.Errors).
		Dur("duration", report.Duration).
		Msg("Library scan completed")

	return report, nil
}

// scanRoot walks one root. The returned error is non-nil only when ctx is
// done; per-entry failures are counted in the result.
func (s *Scanner) scanRoot(ctx context.Context, root string) (res models.ScanResult, err error) {
	root = filepath.Clean(root)
	res = models.ScanResult{Root: root, StartedAt: time.Now()}
	defer func() { res.Duration = time.Since(res.StartedAt) }()

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		res.Errors++
		s.logger.Warn().Err(err).Str("root", root).Msg("Library root is not a readable directory")
		return res, nil
	}

	seen := make(map[string]struct{})
	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			res.Errors++
			s.logger.Warn().Str("path", logging.SanitizeValue(p)).Err(err).Msg("Failed to read library entry")
			return nil
		}
		if p != root && !s.cfg.IncludeHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			res.Skipped++
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			res.Skipped++
			return nil
		}

		file, ok := s.describe(root, p, d)
		if !ok {
			res.Skipped++
			return nil
		}
		if _, err := s.store.UpsertMediaFile(ctx, file); err != nil {
			res.Errors++
			s.logger.Warn().Str("path", logging.SanitizeValue(p)).Err(err).Msg("Failed to index media file")
			return nil
		}
		seen[p] = struct{}{}
		res.Indexed++
		return nil
	})
	if walkErr != nil {
		return res, fmt.Errorf("scan of %s interrupted: %w", root, walkErr)
	}

	if res.Errors > 0 {
		s.logger.Warn().Str("root", root).Int("errors", res.Errors).Msg("Skipping missing-file detection after walk errors")
		return res, nil
	}

	removed, err := s.store.MarkMissing(ctx, root, seen)
	if err != nil {
		res.Errors++
		s.logger.Warn().Str("root", root).Err(err).Msg("Failed to mark missing files")
		return res, nil
	}
	res.Removed = removed
	return res, nil
}

// describe builds the stored form of the file at p. Folder is the root's
// base name followed by the slash-separated directory below the root.
func (s *Scanner) describe(root, p string, d fs.DirEntry) (*models.MediaFile, bool) {
	mediaType, mimeType, ok := ClassifyExtension(p)
	if !ok && s.cfg.SniffContent {
		mediaType, mimeType, ok = sniff(p)
	}
	if !ok {
		return nil, false
	}

	var size int64
	if info, err := d.Info(); err == nil {
		size = info.Size()
	}

	folder := filepath.Base(root)
	if rel, err := filepath.Rel(root, filepath.Dir(p)); err == nil && rel != "." {
		folder = path.Join(folder, filepath.ToSlash(rel))
	}

	return &models.MediaFile{
		Path:      p,
		Folder:    folder,
		Filename:  d.Name(),
		MediaType: mediaType,
		MimeType:  mimeType,
		SizeBytes: size,
	}, true
}

func (s *Scanner) refreshGauge(ctx context.Context) {
	st, ok := s.store.(statsStore)
	if !ok {
		return
	}
	stats, err := st.Stats(ctx)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Failed to refresh library gauge")
		return
	}
	metrics.SetLibraryFiles(stats.Images, stats.Videos)
}
