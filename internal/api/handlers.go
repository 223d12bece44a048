// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package api

import (
	"context"
	"time"

	"github.com/tomtom215/lightbox/internal/config"
	"github.com/tomtom215/lightbox/internal/library"
	"github.com/tomtom215/lightbox/internal/models"
	"github.com/tomtom215/lightbox/internal/prioritize"
	"github.com/tomtom215/lightbox/internal/session"
)

// Version is reported by the health endpoints. Overridden at build time.
var Version = "dev"

// MediaStore is the persistence surface used by the handlers.
type MediaStore interface {
	Ping(ctx context.Context) error

	GetMediaFile(ctx context.Context, id int64) (*models.MediaFile, error)
	ListMediaFiles(ctx context.Context, filter models.MediaFilter, limit, offset int) ([]models.MediaFile, error)
	CountMediaFiles(ctx context.Context, filter models.MediaFilter) (int, error)
	GetMediaFilesByID(ctx context.Context, ids []int64) (map[int64]*models.MediaFile, error)
	GetCandidates(ctx context.Context, filter models.MediaFilter) ([]prioritize.MediaRecord, error)

	RecordView(ctx context.Context, id int64) (*models.MediaFile, error)
	Like(ctx context.Context, id int64) (*models.MediaFile, error)
	Dislike(ctx context.Context, id int64) (*models.MediaFile, error)
	ClearReaction(ctx context.Context, id int64) (*models.MediaFile, error)
	SetTags(ctx context.Context, id int64, tags []string) (*models.MediaFile, error)
	SoftDelete(ctx context.Context, id int64) error

	ListFolders(ctx context.Context) ([]models.FolderCount, error)
	ListTags(ctx context.Context) ([]models.TagCount, error)
	Stats(ctx context.Context) (*models.LibraryStats, error)
}

// Ranker orders candidate records.
type Ranker interface {
	Randomize(files []prioritize.MediaRecord, strategy prioritize.Strategy, excludeDisliked bool) ([]prioritize.RankedEntry, error)
}

// SessionService stores ranked orders between requests.
type SessionService interface {
	Create(ctx context.Context, filter models.MediaFilter, strategy string, excludeDisliked bool) (*session.Session, error)
	Get(id string) (*session.Session, error)
	Page(id string, offset, limit int) (*session.Page, error)
	Seek(id string, position int) (*session.Session, error)
	Delete(id string) error
}

// LibraryScanner indexes the media roots.
type LibraryScanner interface {
	Scan(ctx context.Context) (*models.ScanReport, error)
	Status() library.Status
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response, decoding and parameter helpers
//   - handlers_health.go: health and strategy listing
//   - handlers_media.go: media browsing and reactions
//   - handlers_randomize.go: one-shot ranked orders
//   - handlers_sessions.go: browsing sessions
//   - handlers_library.go: folders, tags, stats and scans
type Handler struct {
	store     MediaStore
	ranker    Ranker
	sessions  SessionService
	scanner   LibraryScanner
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a new API handler.
//
// Dependencies:
//   - store: media persistence (database.DB)
//   - ranker: ordering engine (prioritize.Engine)
//   - sessions: session manager
//   - scanner: library scanner, may be nil when no roots are configured
//   - cfg: application configuration
//
// Example:
//
//	handler := api.NewHandler(db, engine, sessions, scanner, cfg)
//	router := api.NewRouter(handler, api.NewChiMiddleware(&cfg.Security))
//	http.ListenAndServe(":8080", router.SetupChi())
func NewHandler(store MediaStore, ranker Ranker, sessions SessionService, scanner LibraryScanner, cfg *config.Config) *Handler {
	return &Handler{
		store:     store,
		ranker:    ranker,
		sessions:  sessions,
		scanner:   scanner,
		config:    cfg,
		startTime: time.Now(),
	}
}

// pageSize returns the effective page size for a requested limit.
func (h *Handler) pageSize(limit int) int {
	if limit <= 0 {
		return h.config.API.DefaultPageSize
	}
	if limit > h.config.API.MaxPageSize {
		return h.config.API.MaxPageSize
	}
	return limit
}
