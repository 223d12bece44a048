// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

/*
Package services provides suture.Service wrappers for Lightbox components.

Each wrapper translates a component's lifecycle into suture's context-aware
Serve pattern and identifies itself via fmt.Stringer for supervisor logs.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Configurable shutdown timeout for draining connections

Library Scan (ScanService):
  - Scans on startup and on a fixed interval
  - A scan already in progress is skipped, not retried

Session Janitor (SessionJanitorService):
  - Periodically drops expired browsing sessions

# Shutdown

Every service returns ctx.Err() when its context is canceled so the
supervisor treats the stop as intentional.
*/
package services
