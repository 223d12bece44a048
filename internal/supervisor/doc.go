// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

/*
Package supervisor provides process supervision for Lightbox using suture v4.

The supervisor tree manages the lifecycle of every long-running service with
automatic restart, failure isolation and graceful shutdown.

# Overview

	RootSupervisor ("lightbox")
	├── DataSupervisor ("data-layer")
	│   ├── ScanService
	│   └── SessionJanitorService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A failing library scan never takes the HTTP server down, and each layer
restarts independently under its own RestartPolicy. The data layer gives up
sooner and backs off longer, since a broken library root rarely heals in
seconds. The API layer tolerates more failures with a short backoff.

# Structured Logging

Supervisor events (service failures, restarts, backoff) are logged through
sutureslog. Pass an slog.Logger backed by logging.NewSlogHandler so events
land in the same zerolog stream as the rest of the application:

	logger := slog.New(logging.NewSlogHandler(logging.WithComponent("supervisor")))
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())

# Usage

	tree.Add(supervisor.LayerData, services.NewScanService(scanner, scanCfg, log))
	tree.Add(supervisor.LayerData, services.NewSessionJanitorService(sessions, interval, log))
	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

# See Also

  - internal/supervisor/services: service wrappers
  - github.com/thejerf/suture/v4: underlying supervision library
*/
package supervisor
