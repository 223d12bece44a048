// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/lightbox/internal/cache"
	"github.com/tomtom215/lightbox/internal/config"
	"github.com/tomtom215/lightbox/internal/metrics"
	"github.com/tomtom215/lightbox/internal/models"
	"github.com/tomtom215/lightbox/internal/prioritize"
)

// CandidateSource loads the ordering inputs for a filter.
type CandidateSource interface {
	GetCandidates(ctx context.Context, filter models.MediaFilter) ([]prioritize.MediaRecord, error)
}

// Ranker produces an order from candidates.
type Ranker interface {
	Randomize(files []prioritize.MediaRecord, strategy prioritize.Strategy, excludeDisliked bool) ([]prioritize.RankedEntry, error)
}

// Manager creates and serves sessions from a bounded LRU cache.
type Manager struct {
	sessions    *cache.LRU[*Session]
	source      CandidateSource
	ranker      Ranker
	maxPageSize int
	logger      zerolog.Logger
	now         func() time.Time
}

// NewManager creates a manager sized by cfg.
func NewManager(cfg *config.SessionConfig, source CandidateSource, ranker Ranker, logger zerolog.Logger) *Manager {
	maxPage := cfg.MaxPageSize
	if maxPage <= 0 {
		maxPage = 200
	}

	m := &Manager{
		sessions:    cache.NewLRU[*Session](cfg.Capacity, cfg.TTL),
		source:      source,
		ranker:      ranker,
		maxPageSize: maxPage,
		logger:      logger.With().Str("component", "session").Logger(),
		now:         time.Now,
	}
	m.sessions.OnEvict(func(id string, _ *Session) {
		metrics.SessionEvictions.Inc()
		m.logger.Debug().Str("session_id", id).Msg("Session evicted")
	})
	return m
}

// Create ranks the candidates matching filter and stores the order.
// The strategy is checked before any candidate is loaded.
func (m *Manager) Create(ctx context.Context, filter models.MediaFilter, strategy string, excludeDisliked bool) (*Session, error) {
	s, err := prioritize.ParseStrategy(strategy)
	if err != nil {
		return nil, err
	}

	candidates, err := m.source.GetCandidates(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	entries, err := m.ranker.Randomize(candidates, s, excludeDisliked)
	if err != nil {
		return nil, err
	}

	now := m.now()
	sess := &Session{
		ID:              uuid.NewString(),
		Strategy:        s,
		ExcludeDisliked: excludeDisliked,
		Filter:          filter,
		Entries:         entries,
		CreatedAt:       now,
		ExpiresAt:       now.Add(m.sessions.TTL()),
	}
	m.sessions.Add(sess.ID, sess)
	m.updateGauge()

	m.logger.Debug().
		Str("session_id", sess.ID).
		Str("strategy", s.String()).
		Int("candidates", len(candidates)).
		Int("entries", len(entries)).
		Msg("Session created")

	return sess, nil
}

// Get returns the session with id.
func (m *Manager) Get(id string) (*Session, error) {
	sess, ok := m.sessions.Get(id)
	metrics.RecordSessionLookup(ok)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Page returns up to limit entries starting at offset. A negative offset is
// treated as zero and a non-positive or oversized limit as the maximum page
// size. Offsets past the end yield an empty page.
func (m *Manager) Page(id string, offset, limit int) (*Page, error) {
	sess, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > m.maxPageSize {
		limit = m.maxPageSize
	}

	total := sess.Total()
	start := min(offset, total)
	end := min(start+limit, total)

	return &Page{
		SessionID: sess.ID,
		Offset:    offset,
		Limit:     limit,
		Total:     total,
		HasMore:   end < total,
		Position:  sess.Position,
		Entries:   sess.Entries[start:end:end],
	}, nil
}

// Seek stores the client's current position and returns the updated session.
func (m *Manager) Seek(id string, position int) (*Session, error) {
	var (
		updated  *Session
		rangeErr error
	)
	ok := m.sessions.Update(id, func(s *Session) *Session {
		if position < 0 || position >= len(s.Entries) {
			rangeErr = fmt.Errorf("%w: %d not in [0, %d)", ErrPositionOutOfRange, position, len(s.Entries))
			return s
		}
		cp := *s
		cp.Position = position
		updated = &cp
		return updated
	})
	metrics.RecordSessionLookup(ok)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if rangeErr != nil {
		return nil, rangeErr
	}
	return updated, nil
}

// Delete drops the session.
func (m *Manager) Delete(id string) error {
	if !m.sessions.Remove(id) {
		return ErrSessionNotFound
	}
	m.updateGauge()
	return nil
}

// CleanupExpired drops expired sessions and returns how many were removed.
func (m *Manager) CleanupExpired() int {
	n := m.sessions.CleanupExpired()
	m.updateGauge()
	if n > 0 {
		m.logger.Debug().Int("removed", n).Msg("Expired sessions cleaned up")
	}
	return n
}

// Len returns the number of stored sessions.
func (m *Manager) Len() int {
	return m.sessions.Len()
}

// Stats returns the underlying cache counters.
func (m *Manager) Stats() cache.Stats {
	return m.sessions.Stats()
}

func (m *Manager) updateGauge() {
	metrics.SessionsActive.Set(float64(m.sessions.Len()))
}
