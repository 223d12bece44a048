// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

// Package config loads Lightbox configuration.
//
// Configuration is layered with koanf. Later layers override earlier ones:
//
//  1. Built-in defaults (defaultConfig)
//  2. YAML file from CONFIG_PATH, or config.yaml / /etc/lightbox/config.yaml
//  3. A .env file (ENV_FILE, default ./.env) merged into the process environment
//  4. Environment variables mapped through envMappings
//
// Example config.yaml:
//
//	database:
//	  path: /data/lightbox.duckdb
//	library:
//	  roots: [/media/photos, /media/videos]
//	  scan_interval: 1h
//	prioritize:
//	  default_strategy: unviewed_first
//	  exclude_disliked: true
//
// Equivalent environment:
//
//	DUCKDB_PATH=/data/lightbox.duckdb
//	MEDIA_ROOTS=/media/photos,/media/videos
//	SCAN_INTERVAL=1h
//	DEFAULT_STRATEGY=unviewed_first
package config
