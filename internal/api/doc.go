// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

/*
Package api provides the HTTP REST API layer for Lightbox.

It exposes the media library, the ordering strategies and browsing sessions
to the web frontend. All responses use the models.APIResponse envelope.

Key Components:

  - Router: chi route configuration and middleware stack
  - Handler: request handlers backed by narrow store, session and scanner interfaces
  - ChiMiddleware: go-chi/cors and go-chi/httprate factories

API Categories:

1. Health (/api/v1/health/):
  - live, ready

2. Media (/api/v1/media/):
  - list and get files
  - randomize: ranked order for a strategy and filter
  - view, like, dislike, reaction, tags, soft delete

3. Library (/api/v1/):
  - folders, tags, stats
  - library/scan, library/status

4. Sessions (/api/v1/sessions/):
  - create, page, position, delete

Usage Example:

	handler := api.NewHandler(db, engine, sessions, scanner, cfg)
	router := api.NewRouter(handler, api.NewChiMiddleware(&cfg.Security))
	http.ListenAndServe(":8080", router.SetupChi())

Error Handling:

Errors are mapped to an HTTP status and a machine-readable code:

	{"status":"error","data":null,"error":{"code":"INVALID_STRATEGY","message":"..."}}

Thread Safety:

Handlers hold no per-request state and are safe for concurrent use.
*/
package api
