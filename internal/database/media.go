// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/lightbox/internal/database/query"
	"github.com/tomtom215/lightbox/internal/models"
	"github.com/tomtom215/lightbox/internal/prioritize"
)

const mediaColumns = `id, path, folder, filename, media_type, mime_type, size_bytes,
	view_count, last_viewed, like_count, created_at, updated_at, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func scanMediaFile(row rowScanner) (*models.MediaFile, error) {
	var (
		f          models.MediaFile
		lastViewed sql.NullTime
		deletedAt  sql.NullTime
	)
	err := row.Scan(
		&f.ID, &f.Path, &f.Folder, &f.Filename, &f.MediaType, &f.MimeType, &f.SizeBytes,
		&f.ViewCount, &lastViewed, &f.LikeCount, &f.CreatedAt, &f.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastViewed.Valid {
		t := lastViewed.Time.UTC()
		f.LastViewed = &t
	}
	if deletedAt.Valid {
		t := deletedAt.Time.UTC()
		f.DeletedAt = &t
	}
	f.CreatedAt = f.CreatedAt.UTC()
	f.UpdatedAt = f.UpdatedAt.UTC()
	f.Tags = []string{}
	return &f, nil
}

func filterWhere(filter models.MediaFilter) *query.WhereBuilder {
	return query.NewWhereBuilder().
		AddLive().
		AddFolder(filter.Folder, filter.Recursive).
		AddMediaType(filter.MediaType).
		AddTag(filter.Tag)
}

func validMediaType(mediaType string) bool {
	return mediaType == models.MediaTypeImage || mediaType == models.MediaTypeVideo
}

// UpsertMediaFile inserts a file or refreshes the row with the same path.
// View and like counters are preserved and a soft-deleted row is revived.
func (db *DB) UpsertMediaFile(ctx context.Context, f *models.MediaFile) (id int64, err error) {
	defer observe("upsert", "media_files", time.Now(), &err)

	if f == nil || f.Path == "" {
		return 0, fmt.Errorf("media file path is required")
	}
	if !validMediaType(f.MediaType) {
		return 0, fmt.Errorf("invalid media type %q for %s", f.MediaType, f.Path)
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := db.now()
	err = db.conn.QueryRowContext(ctx, `
		INSERT INTO media_files (path, folder, filename, media_type, mime_type, size_bytes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE SET
			folder = excluded.folder,
			filename = excluded.filename,
			media_type = excluded.media_type,
			mime_type = excluded.mime_type,
			size_bytes = excluded.size_bytes,
			updated_at = excluded.updated_at,
			deleted_at = NULL
		RETURNING id`,
		f.Path, f.Folder, f.Filename, f.MediaType, f.MimeType, f.SizeBytes, now, now,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert media file %s: %w", f.Path, err)
	}
	return id, nil
}

// GetMediaFile returns a live file with its tags.
func (db *DB) GetMediaFile(ctx context.Context, id int64) (f *models.MediaFile, err error) {
	defer observe("select", "media_files", time.Now(), &err)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+mediaColumns+` FROM media_files WHERE id = ? AND deleted_at IS NULL`, id)
	f, err = scanMediaFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media file %d: %w", id, err)
	}

	tags, err := tagsFor(ctx, db.conn, []int64{id})
	if err != nil {
		return nil, err
	}
	if t, ok := tags[id]; ok {
		f.Tags = t
	}
	return f, nil
}

// ListMediaFiles returns live files matching filter, ordered by path.
func (db *DB) ListMediaFiles(ctx context.Context, filter models.MediaFilter, limit, offset int) (files []models.MediaFile, err error) {
	defer observe("select", "media_files", time.Now(), &err)

	if limit <= 0 {
		return []models.MediaFile{}, nil
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where, args := filterWhere(filter).BuildWithPrefix()
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+mediaColumns+` FROM media_files `+where+` ORDER BY path LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list media files: %w", err)
	}
	defer closeQuietly(rows)

	files = make([]models.MediaFile, 0, min(limit, 1024))
	ids := make([]int64, 0, cap(files))
	for rows.Next() {
		f, err := scanMediaFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media file: %w", err)
		}
		files = append(files, *f)
		ids = append(ids, f.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate media files: %w", err)
	}

	tags, err := tagsFor(ctx, db.conn, ids)
	if err != nil {
		return nil, err
	}
	for i := range files {
		if t, ok := tags[files[i].ID]; ok {
			files[i].Tags = t
		}
	}
	return files, nil
}

// GetMediaFilesByID returns live files keyed by id. Missing ids are absent.
func (db *DB) GetMediaFilesByID(ctx context.Context, ids []int64) (files map[int64]*models.MediaFile, err error) {
	defer observe("select", "media_files", time.Now(), &err)

	files = make(map[int64]*models.MediaFile, len(ids))
	if len(ids) == 0 {
		return files, nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+mediaColumns+` FROM media_files WHERE deleted_at IS NULL AND id IN (`+query.Placeholders(len(ids))+`)`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get media files: %w", err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		f, err := scanMediaFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media file: %w", err)
		}
		files[f.ID] = f
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate media files: %w", err)
	}

	tags, err := tagsFor(ctx, db.conn, ids)
	if err != nil {
		return nil, err
	}
	for id, t := range tags {
		if f, ok := files[id]; ok {
			f.Tags = t
		}
	}
	return files, nil
}

// CountMediaFiles counts live files matching filter.
func (db *DB) CountMediaFiles(ctx context.Context, filter models.MediaFilter) (n int, err error) {
	defer observe("count", "media_files", time.Now(), &err)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where, args := filterWhere(filter).BuildWithPrefix()
	if err = db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM media_files `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count media files: %w", err)
	}
	return n, nil
}

// GetCandidates returns the ordering inputs for every live file matching
// filter, in id order.
func (db *DB) GetCandidates(ctx context.Context, filter models.MediaFilter) (records []prioritize.MediaRecord, err error) {
	defer observe("candidates", "media_files", time.Now(), &err)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where, args := filterWhere(filter).BuildWithPrefix()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, view_count, last_viewed, like_count FROM media_files `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer closeQuietly(rows)

	records = []prioritize.MediaRecord{}
	for rows.Next() {
		var (
			r          prioritize.MediaRecord
			lastViewed sql.NullTime
		)
		if err := rows.Scan(&r.ID, &r.ViewCount, &lastViewed, &r.LikeCount); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if lastViewed.Valid {
			t := lastViewed.Time.UTC()
			r.LastViewed = &t
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return records, nil
}

// updateLive applies set to a live row. ErrNotFound means no live row matched.
func (db *DB) updateLive(ctx context.Context, operation string, id int64, set string, args ...any) (err error) {
	defer observe(operation, "media_files", time.Now(), &err)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	args = append(args, db.now(), id)
	res, err := db.conn.ExecContext(ctx,
		`UPDATE media_files SET `+set+`, updated_at = ? WHERE id = ? AND deleted_at IS NULL`, args...)
	if err != nil {
		return fmt.Errorf("failed to %s media file %d: %w", operation, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s media file %d: %w", operation, id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordView increments the view count and stamps last_viewed.
func (db *DB) RecordView(ctx context.Context, id int64) (*models.MediaFile, error) {
	if err := db.updateLive(ctx, "view", id, "view_count = view_count + 1, last_viewed = ?", db.now()); err != nil {
		return nil, err
	}
	return db.GetMediaFile(ctx, id)
}

// Like adds a like. A disliked file goes straight to one like.
func (db *DB) Like(ctx context.Context, id int64) (*models.MediaFile, error) {
	if err := db.updateLive(ctx, "like", id, "like_count = GREATEST(like_count, 0) + 1"); err != nil {
		return nil, err
	}
	return db.GetMediaFile(ctx, id)
}

// Dislike marks the file disliked, discarding any likes.
func (db *DB) Dislike(ctx context.Context, id int64) (*models.MediaFile, error) {
	if err := db.updateLive(ctx, "dislike", id, "like_count = -1"); err != nil {
		return nil, err
	}
	return db.GetMediaFile(ctx, id)
}

// ClearReaction resets the file to undecided.
func (db *DB) ClearReaction(ctx context.Context, id int64) (*models.MediaFile, error) {
	if err := db.updateLive(ctx, "clear_reaction", id, "like_count = 0"); err != nil {
		return nil, err
	}
	return db.GetMediaFile(ctx, id)
}

// SoftDelete hides a file from every query. A later scan that finds the
// same path revives it.
func (db *DB) SoftDelete(ctx context.Context, id int64) error {
	return db.updateLive(ctx, "soft_delete", id, "deleted_at = ?", db.now())
}

// MarkMissing soft-deletes live files under root whose path is not in seen.
// It returns the number of rows marked.
func (db *DB) MarkMissing(ctx context.Context, root string, seen map[string]struct{}) (marked int, err error) {
	defer observe("mark_missing", "media_files", time.Now(), &err)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where, args := query.NewWhereBuilder().AddLive().AddPathUnder(root).BuildWithPrefix()
	rows, err := db.conn.QueryContext(ctx, `SELECT id, path FROM media_files `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to list files under %s: %w", root, err)
	}

	var missing []int64
	for rows.Next() {
		var (
			id   int64
			path string
		)
		if err := rows.Scan(&id, &path); err != nil {
			closeQuietly(rows)
			return 0, fmt.Errorf("failed to scan media path: %w", err)
		}
		if _, ok := seen[path]; !ok {
			missing = append(missing, id)
		}
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return 0, fmt.Errorf("failed to iterate media paths: %w", err)
	}
	closeQuietly(rows)

	if len(missing) == 0 {
		return 0, nil
	}

	now := db.now()
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		for _, id := range missing {
			if _, err := tx.ExecContext(ctx,
				`UPDATE media_files SET deleted_at = ?, updated_at = ? WHERE id = ?`, now, now, id); err != nil {
				return fmt.Errorf("failed to mark media file %d missing: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(missing), nil
}
