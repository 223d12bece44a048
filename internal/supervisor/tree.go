// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Layer names a child supervisor of the tree.
type Layer int

const (
	// LayerData runs library scans and session cleanup.
	LayerData Layer = iota
	// LayerAPI runs the HTTP server.
	LayerAPI
)

// String returns the supervisor name of the layer.
func (l Layer) String() string {
	switch l {
	case LayerData:
		return "data-layer"
	case LayerAPI:
		return "api-layer"
	default:
		return fmt.Sprintf("layer(%d)", int(l))
	}
}

// RestartPolicy controls how a layer restarts failing services.
type RestartPolicy struct {
	// FailureThreshold is the failure count that triggers backoff.
	FailureThreshold float64

	// FailureDecay is the half-life of the failure count, in seconds.
	FailureDecay float64

	// FailureBackoff is how long the layer waits once the threshold is hit.
	FailureBackoff time.Duration
}

func (p RestartPolicy) withDefaults(d RestartPolicy) RestartPolicy {
	if p.FailureThreshold == 0 {
		p.FailureThreshold = d.FailureThreshold
	}
	if p.FailureDecay == 0 {
		p.FailureDecay = d.FailureDecay
	}
	if p.FailureBackoff == 0 {
		p.FailureBackoff = d.FailureBackoff
	}
	return p
}

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	// Data is the policy of the data layer. A scan that keeps failing
	// usually points at an unreadable root, so it backs off for longer.
	Data RestartPolicy

	// API is the policy of the api layer. The HTTP server is restarted
	// quickly so the API stays reachable.
	API RestartPolicy

	// ShutdownTimeout is how long each supervisor waits for its services
	// to stop.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns the per-layer defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		Data: RestartPolicy{
			FailureThreshold: 3,
			FailureDecay:     120,
			FailureBackoff:   time.Minute,
		},
		API: RestartPolicy{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   5 * time.Second,
		},
		ShutdownTimeout: 10 * time.Second,
	}
}

// SupervisorTree is the Lightbox process tree: a "lightbox" root with one
// child supervisor per Layer.
type SupervisorTree struct {
	root   *suture.Supervisor
	layers map[Layer]*suture.Supervisor
	config TreeConfig
}

// NewSupervisorTree builds the tree. Zero fields take their
// DefaultTreeConfig value and a nil logger uses slog.Default.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	defaults := DefaultTreeConfig()
	config.Data = config.Data.withDefaults(defaults.Data)
	config.API = config.API.withDefaults(defaults.API)
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	// MustHook has a pointer receiver. Layers inherit the hook from the root.
	handler := &sutureslog.Handler{Logger: logger}
	root := suture.New("lightbox", suture.Spec{
		EventHook: handler.MustHook(),
		Timeout:   config.ShutdownTimeout,
	})

	t := &SupervisorTree{
		root:   root,
		layers: make(map[Layer]*suture.Supervisor, 2),
		config: config,
	}
	for layer, policy := range map[Layer]RestartPolicy{LayerData: config.Data, LayerAPI: config.API} {
		sup := suture.New(layer.String(), suture.Spec{
			FailureThreshold: policy.FailureThreshold,
			FailureDecay:     policy.FailureDecay,
			FailureBackoff:   policy.FailureBackoff,
			Timeout:          config.ShutdownTimeout,
		})
		t.layers[layer] = sup
		root.Add(sup)
	}
	return t, nil
}

// Config returns the effective configuration.
func (t *SupervisorTree) Config() TreeConfig {
	return t.config
}

// Add runs svc under the given layer.
func (t *SupervisorTree) Add(layer Layer, svc suture.Service) (suture.ServiceToken, error) {
	sup, ok := t.layers[layer]
	if !ok {
		return suture.ServiceToken{}, fmt.Errorf("unknown supervisor layer %s", layer)
	}
	return sup.Add(svc), nil
}

// Remove stops a service previously added to layer.
func (t *SupervisorTree) Remove(layer Layer, token suture.ServiceToken) error {
	sup, ok := t.layers[layer]
	if !ok {
		return fmt.Errorf("unknown supervisor layer %s", layer)
	}
	return sup.Remove(token)
}

// Serve runs the tree until ctx is canceled.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground runs the tree in a goroutine. The channel receives the
// result once the tree stops.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that outlived the shutdown timeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
