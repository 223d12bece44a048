// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

/*
Package main is the entry point for the Lightbox server and CLI.

Lightbox indexes folders of images and videos into DuckDB and serves them
through a REST API in an order chosen by a prioritization strategy.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("lightbox")
	├── DataSupervisor ("data-layer")
	│   ├── Library scan service (startup and periodic scans)
	│   └── Session janitor (expired session cleanup)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (Chi router)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, YAML file, .env and environment
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB, plus an optional JSON seed file
 4. Prioritize engine, session manager and library scanner
 5. Supervisor tree and HTTP server

# Commands

	lightbox [serve]          run the HTTP server (default)
	lightbox scan             scan the library roots once and exit
	lightbox rank             print an order for the current library as JSON
	lightbox strategies       list the available strategies

# Configuration

The --config flag sets CONFIG_PATH. Commonly used variables:

	DUCKDB_PATH       database file, ":memory:" for an ephemeral store
	MEDIA_ROOTS       comma-separated absolute library roots
	SCAN_ON_STARTUP   scan when the server starts
	SCAN_INTERVAL     periodic rescan interval, 0 disables
	DEFAULT_STRATEGY  strategy used when a request names none
	HTTP_PORT         listen port

# Example Usage

	export MEDIA_ROOTS=/srv/photos,/srv/videos
	export SCAN_ON_STARTUP=true
	./lightbox

	./lightbox rank --algorithm least_viewed --folder /srv/photos/2024 --limit 20

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for up to SHUTDOWN_TIMEOUT before the database closes.
*/
package main
