// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/lightbox/internal/library"
	"github.com/tomtom215/lightbox/internal/models"
)

type mockScanner struct {
	calls atomic.Int32
	err   error
}

func (m *mockScanner) Scan(ctx context.Context) (*models.ScanReport, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return &models.ScanReport{Indexed: 3}, nil
}

// lockedBuffer is a goroutine-safe log sink.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func runFor(t *testing.T, svc suture.Service, d time.Duration) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return svc.Serve(ctx)
}

func TestScanService_Interface(t *testing.T) {
	var _ suture.Service = (*ScanService)(nil)
	var _ LibraryScanner = (*library.Scanner)(nil)
}

func TestScanService_Schedule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cfg       ScanServiceConfig
		wantMin   int32
		wantMax   int32
		runWindow time.Duration
	}{
		{"startup only", ScanServiceConfig{ScanOnStartup: true}, 1, 1, 100 * time.Millisecond},
		{"disabled", ScanServiceConfig{}, 0, 0, 100 * time.Millisecond},
		{"interval", ScanServiceConfig{Interval: 20 * time.Millisecond}, 3, 20, 150 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			scanner := &mockScanner{}
			svc := NewScanService(scanner, tt.cfg, zerolog.Nop())

			err := runFor(t, svc, tt.runWindow)
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
			}
			if n := scanner.calls.Load(); n < tt.wantMin || n > tt.wantMax {
				t.Errorf("scans = %d, want between %d and %d", n, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestScanService_FailuresDoNotStopService(t *testing.T) {
	t.Parallel()

	logs := &lockedBuffer{}
	scanner := &mockScanner{err: errors.New("root unreadable")}
	svc := NewScanService(scanner, ScanServiceConfig{ScanOnStartup: true, Interval: 20 * time.Millisecond}, zerolog.New(logs))

	err := runFor(t, svc, 100*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
	}
	if scanner.calls.Load() < 2 {
		t.Errorf("scans = %d, want retries on later ticks", scanner.calls.Load())
	}
	if !strings.Contains(logs.String(), "Library scan failed") {
		t.Errorf("failure not logged: %s", logs.String())
	}
}

func TestScanService_SkipsWhenScanRunning(t *testing.T) {
	t.Parallel()

	logs := &lockedBuffer{}
	scanner := &mockScanner{err: library.ErrScanInProgress}
	svc := NewScanService(scanner, ScanServiceConfig{ScanOnStartup: true}, zerolog.New(logs).Level(zerolog.DebugLevel))

	_ = runFor(t, svc, 50*time.Millisecond)
	if strings.Contains(logs.String(), "Library scan failed") {
		t.Error("an in-progress scan was logged as a failure")
	}
}

func TestSessionJanitorService(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	cleaner := cleanerFunc(func() int { return int(calls.Add(1)) })
	svc := NewSessionJanitorService(cleaner, 10*time.Millisecond, zerolog.Nop())

	if svc.String() != "session-janitor" {
		t.Errorf("String() = %q", svc.String())
	}
	err := runFor(t, svc, 100*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v", err)
	}
	if calls.Load() < 3 {
		t.Errorf("cleanup ran %d times, want several", calls.Load())
	}

	if got := NewSessionJanitorService(cleaner, 0, zerolog.Nop()).interval; got != DefaultCleanupInterval {
		t.Errorf("default interval = %v", got)
	}
}

type cleanerFunc func() int

func (f cleanerFunc) CleanupExpired() int { return f() }
