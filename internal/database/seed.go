// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package database

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/lightbox/internal/logging"
	"github.com/tomtom215/lightbox/internal/models"
)

// SeedFile is the on-disk format of a seed file.
type SeedFile struct {
	Media []models.MediaFile `json:"media"`
}

// LoadSeedFile reads a JSON seed file and writes its records to the store.
func (db *DB) LoadSeedFile(ctx context.Context, file string) (int, error) {
	data, err := os.ReadFile(file) //nolint:gosec // operator-supplied path
	if err != nil {
		return 0, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return 0, fmt.Errorf("failed to parse seed file %s: %w", file, err)
	}

	n, err := db.SeedMediaFiles(ctx, seed.Media)
	if err != nil {
		return n, err
	}
	logging.Info().Str("file", file).Int("records", n).Msg("Seed data loaded")
	return n, nil
}

// SeedMediaFiles writes files including their counters and tags. Unlike
// UpsertMediaFile, existing counters are overwritten. Folder and Filename
// are derived from Path when empty.
func (db *DB) SeedMediaFiles(ctx context.Context, files []models.MediaFile) (int, error) {
	for i := range files {
		if _, err := db.seedOne(ctx, &files[i]); err != nil {
			return i, err
		}
	}
	return len(files), nil
}

func (db *DB) seedOne(ctx context.Context, f *models.MediaFile) (id int64, err error) {
	defer observe("seed", "media_files", time.Now(), &err)

	if f.Path == "" {
		return 0, fmt.Errorf("seed record has no path")
	}
	if !validMediaType(f.MediaType) {
		return 0, fmt.Errorf("invalid media type %q for %s", f.MediaType, f.Path)
	}
	if f.Folder == "" {
		f.Folder = path.Dir(f.Path)
	}
	if f.Filename == "" {
		f.Filename = path.Base(f.Path)
	}
	if f.LikeCount < -1 {
		f.LikeCount = -1
	}

	qctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := db.now()
	var lastViewed any
	if f.LastViewed != nil {
		lastViewed = f.LastViewed.UTC()
	}
	err = db.conn.QueryRowContext(qctx, `
		INSERT INTO media_files (path, folder, filename, media_type, mime_type, size_bytes,
			view_count, last_viewed, like_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE SET
			folder = excluded.folder,
			filename = excluded.filename,
			media_type = excluded.media_type,
			mime_type = excluded.mime_type,
			size_bytes = excluded.size_bytes,
			view_count = excluded.view_count,
			last_viewed = excluded.last_viewed,
			like_count = excluded.like_count,
			updated_at = excluded.updated_at,
			deleted_at = NULL
		RETURNING id`,
		f.Path, f.Folder, f.Filename, f.MediaType, f.MimeType, f.SizeBytes,
		f.ViewCount, lastViewed, f.LikeCount, now, now,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to seed media file %s: %w", f.Path, err)
	}
	f.ID = id

	if err := db.setTags(ctx, id, NormalizeTags(f.Tags)); err != nil {
		return 0, err
	}
	return id, nil
}
