// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package supervisor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/lightbox/internal/logging"
)

// syncBuffer is a goroutine-safe log sink.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func quietLogger() *slog.Logger {
	return slog.New(logging.NewSlogHandler(zerolog.Nop()))
}

func TestSupervisorTreeConstruction(t *testing.T) {
	t.Run("applies per-layer defaults for zero config", func(t *testing.T) {
		tree, err := NewSupervisorTree(nil, TreeConfig{})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}
		if tree.Config() != DefaultTreeConfig() {
			t.Errorf("config = %+v, want defaults %+v", tree.Config(), DefaultTreeConfig())
		}
		if len(tree.layers) != 2 {
			t.Errorf("tree has %d layers, want 2", len(tree.layers))
		}
	})

	t.Run("keeps explicit fields and fills the rest", func(t *testing.T) {
		tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
			Data:            RestartPolicy{FailureBackoff: time.Second},
			ShutdownTimeout: 3 * time.Second,
		})
		got := tree.Config()
		if got.Data.FailureBackoff != time.Second || got.ShutdownTimeout != 3*time.Second {
			t.Errorf("explicit fields lost: %+v", got)
		}
		if got.Data.FailureThreshold != DefaultTreeConfig().Data.FailureThreshold {
			t.Errorf("Data.FailureThreshold = %v, want default", got.Data.FailureThreshold)
		}
		if got.API != DefaultTreeConfig().API {
			t.Errorf("API = %+v, want defaults", got.API)
		}
	})
}

func TestLayer_String(t *testing.T) {
	tests := []struct {
		layer Layer
		want  string
	}{
		{LayerData, "data-layer"},
		{LayerAPI, "api-layer"},
		{Layer(9), "layer(9)"},
	}
	for _, tt := range tests {
		if got := tt.layer.String(); got != tt.want {
			t.Errorf("Layer(%d).String() = %q, want %q", int(tt.layer), got, tt.want)
		}
	}
}

func TestSupervisorTree_UnknownLayer(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{})
	if _, err := tree.Add(Layer(9), newMockService("orphan", 0)); err == nil {
		t.Error("Add() to an unknown layer should fail")
	}
	if err := tree.Remove(Layer(9), suture.ServiceToken{}); err == nil {
		t.Error("Remove() from an unknown layer should fail")
	}
}

func mustAdd(t *testing.T, tree *SupervisorTree, layer Layer, svc suture.Service) suture.ServiceToken {
	t.Helper()
	token, err := tree.Add(layer, svc)
	if err != nil {
		t.Fatalf("Add(%s) error = %v", layer, err)
	}
	return token
}

func TestSupervisorTreeLifecycle(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}

	dataSvc := newMockService("mock-data", 0)
	apiSvc := newMockService("mock-api", 0)
	mustAdd(t, tree, LayerData, dataSvc)
	mustAdd(t, tree, LayerAPI, apiSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for (dataSvc.starts() < 1 || apiSvc.starts() < 1) && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if dataSvc.starts() < 1 || apiSvc.starts() < 1 {
		t.Fatalf("services not started: data=%d api=%d", dataSvc.starts(), apiSvc.starts())
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not shut down in time")
	}

	report, err := tree.UnstoppedServiceReport()
	if err != nil {
		t.Fatalf("UnstoppedServiceReport() error = %v", err)
	}
	if len(report) != 0 {
		t.Errorf("unstopped services: %v", report)
	}
}

func TestSupervisorTreeFailureHandling(t *testing.T) {
	logs := &syncBuffer{}
	logger := slog.New(logging.NewSlogHandler(zerolog.New(logs)))

	tree, _ := NewSupervisorTree(logger, TreeConfig{
		Data:            RestartPolicy{FailureThreshold: 10, FailureBackoff: 10 * time.Millisecond},
		ShutdownTimeout: time.Second,
	})

	failing := newMockService("flaky-scan", 2)
	stable := newMockService("stable-http", 0)
	mustAdd(t, tree, LayerData, failing)
	mustAdd(t, tree, LayerAPI, stable)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for failing.starts() < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-errCh

	if failing.starts() < 3 {
		t.Errorf("expected at least 3 starts for failing service, got %d", failing.starts())
	}
	if stable.starts() != 1 {
		t.Errorf("stable service started %d times, want 1 (failure isolation)", stable.starts())
	}
	if !strings.Contains(logs.String(), "flaky-scan") {
		t.Error("supervisor events were not logged through the slog adapter")
	}
}

// A data service that exhausts its threshold backs off without touching the api layer.
func TestSupervisorTree_DataBackoffLeavesAPIRunning(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
		Data:            RestartPolicy{FailureThreshold: 1, FailureBackoff: time.Hour},
		ShutdownTimeout: time.Second,
	})

	broken := newMockService("broken-scan", 1000)
	stable := newMockService("stable-http", 0)
	mustAdd(t, tree, LayerData, broken)
	mustAdd(t, tree, LayerAPI, stable)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	time.Sleep(200 * time.Millisecond)
	starts := broken.starts()
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-errCh

	if got := broken.starts(); got != starts || got > 3 {
		t.Errorf("broken service kept restarting during backoff: %d then %d starts", starts, got)
	}
	if stable.starts() != 1 {
		t.Errorf("stable service started %d times, want 1", stable.starts())
	}
}

func TestSupervisorTree_Remove(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	svc := newMockService("removable", 0)
	token := mustAdd(t, tree, LayerData, svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for svc.starts() < 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if err := tree.Remove(LayerData, token); err != nil {
		t.Errorf("Remove() error = %v", err)
	}
	cancel()
	<-errCh
}

func TestDefaultTreeConfig(t *testing.T) {
	config := DefaultTreeConfig()

	if config.Data.FailureBackoff <= config.API.FailureBackoff {
		t.Errorf("data backoff %v should exceed api backoff %v", config.Data.FailureBackoff, config.API.FailureBackoff)
	}
	if config.Data.FailureThreshold >= config.API.FailureThreshold {
		t.Errorf("data threshold %v should be below api threshold %v", config.Data.FailureThreshold, config.API.FailureThreshold)
	}
	if config.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected ShutdownTimeout 10s, got %v", config.ShutdownTimeout)
	}
}
