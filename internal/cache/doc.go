// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

// Package cache provides an in-memory generic LRU cache with TTL expiry.
// It backs browsing sessions, which hold a produced order so a client can
// page through and resume it without re-ranking.
package cache
