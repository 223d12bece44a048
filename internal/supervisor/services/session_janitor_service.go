// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultCleanupInterval is used when no interval is configured.
const DefaultCleanupInterval = 5 * time.Minute

// SessionCleaner is satisfied by *session.Manager.
type SessionCleaner interface {
	CleanupExpired() int
}

// SessionJanitorService drops expired sessions on a fixed interval so the
// cache does not hold them until the next lookup.
type SessionJanitorService struct {
	sessions SessionCleaner
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewSessionJanitorService creates a new janitor.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSessionJanitorService(sessions SessionCleaner, interval time.Duration, logger zerolog.Logger) *SessionJanitorService {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &SessionJanitorService{
		sessions: sessions,
		interval: interval,
		logger:   logger.With().Str("service", "session-janitor").Logger(),
		name:     "session-janitor",
	}
}

// Serve implements suture.Service.
func (s *SessionJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := s.sessions.CleanupExpired(); n > 0 {
				s.logger.Debug().Int("removed", n).Msg("Expired sessions removed")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (s *SessionJanitorService) String() string {
	return s.name
}
