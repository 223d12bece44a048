// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

// Package session keeps ranked browsing orders so a client can page through
// one stable order instead of re-ranking on every request.
package session

import (
	"errors"
	"time"

	"github.com/tomtom215/lightbox/internal/models"
	"github.com/tomtom215/lightbox/internal/prioritize"
)

// Session-related errors
var (
	// ErrSessionNotFound is returned when a session is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")

	// ErrPositionOutOfRange is returned when seeking outside the order.
	ErrPositionOutOfRange = errors.New("position out of range")
)

// Session is one ranked order over a filtered library snapshot.
// Sessions held by callers are never mutated; updates replace the stored value.
type Session struct {
	// ID is the session identifier (UUID).
	ID string `json:"id"`

	// Strategy is the ordering that produced Entries.
	Strategy prioritize.Strategy `json:"algorithm"`

	ExcludeDisliked bool               `json:"exclude_disliked"`
	Filter          models.MediaFilter `json:"filter"`

	// Entries is the ranked order. Read-only after creation.
	Entries []prioritize.RankedEntry `json:"-"`

	// Position is the client's current index into Entries.
	Position int `json:"position"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Total returns the number of ranked entries.
func (s *Session) Total() int {
	return len(s.Entries)
}

// Current returns the entry at Position, or false for an empty order.
func (s *Session) Current() (prioritize.RankedEntry, bool) {
	if s.Position < 0 || s.Position >= len(s.Entries) {
		return prioritize.RankedEntry{}, false
	}
	return s.Entries[s.Position], true
}

// Summary is the client view of a session without its entries.
type Summary struct {
	*Session
	Total   int                     `json:"total"`
	Current *prioritize.RankedEntry `json:"current,omitempty"`
}

// Summarize builds the client view of s.
func (s *Session) Summarize() Summary {
	sum := Summary{Session: s, Total: s.Total()}
	if cur, ok := s.Current(); ok {
		sum.Current = &cur
	}
	return sum
}

// Page is a window of a session's order.
type Page struct {
	SessionID string                   `json:"session_id"`
	Offset    int                      `json:"offset"`
	Limit     int                      `json:"limit"`
	Total     int                      `json:"total"`
	HasMore   bool                     `json:"has_more"`
	Position  int                      `json:"position"`
	Entries   []prioritize.RankedEntry `json:"entries"`
}
