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
	"slices"
	"strings"
	"time"

	"github.com/tomtom215/lightbox/internal/database/query"
	"github.com/tomtom215/lightbox/internal/models"
)

// NormalizeTags lowercases, trims, drops empties and dedupes, returning the
// tags sorted.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// tagsFor loads the sorted tags of each id that has any.
func tagsFor(ctx context.Context, q querier, ids []int64) (map[int64][]string, error) {
	tags := make(map[int64][]string)
	if len(ids) == 0 {
		return tags, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := q.QueryContext(ctx,
		`SELECT media_id, tag FROM media_tags WHERE media_id IN (`+query.Placeholders(len(ids))+`) ORDER BY media_id, tag`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		var (
			id  int64
			tag string
		)
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags[id] = append(tags[id], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return tags, nil
}

// SetTags replaces the tags of a live file and returns the updated file.
func (db *DB) SetTags(ctx context.Context, id int64, tags []string) (*models.MediaFile, error) {
	if err := db.setTags(ctx, id, NormalizeTags(tags)); err != nil {
		return nil, err
	}
	return db.GetMediaFile(ctx, id)
}

// setTags deletes only the tags being dropped and inserts the rest with
// ON CONFLICT DO NOTHING, so no key is deleted and re-inserted in the same
// transaction.
func (db *DB) setTags(ctx context.Context, id int64, tags []string) (err error) {
	defer observe("set_tags", "media_tags", time.Now(), &err)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM media_files WHERE id = ? AND deleted_at IS NULL`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check media file %d: %w", id, err)
		}

		del := `DELETE FROM media_tags WHERE media_id = ?`
		args := []any{id}
		if len(tags) > 0 {
			del += ` AND tag NOT IN (` + query.Placeholders(len(tags)) + `)`
			for _, t := range tags {
				args = append(args, t)
			}
		}
		if _, err := tx.ExecContext(ctx, del, args...); err != nil {
			return fmt.Errorf("failed to remove tags of media file %d: %w", id, err)
		}

		now := db.now()
		for _, t := range tags {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO media_tags (media_id, tag, created_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
				id, t, now); err != nil {
				return fmt.Errorf("failed to add tag %q to media file %d: %w", t, id, err)
			}
		}
		return nil
	})
}

// ListTags returns every tag on a live file with its usage count, most used first.
func (db *DB) ListTags(ctx context.Context) (tags []models.TagCount, err error) {
	defer observe("select", "media_tags", time.Now(), &err)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT t.tag, COUNT(*) AS n
		FROM media_tags t
		JOIN media_files m ON m.id = t.media_id
		WHERE m.deleted_at IS NULL
		GROUP BY t.tag
		ORDER BY n DESC, t.tag`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer closeQuietly(rows)

	tags = []models.TagCount{}
	for rows.Next() {
		var tc models.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan tag count: %w", err)
		}
		tags = append(tags, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return tags, nil
}

// ListFolders returns every folder holding live files, ordered by name.
func (db *DB) ListFolders(ctx context.Context) (folders []models.FolderCount, err error) {
	defer observe("select", "media_files", time.Now(), &err)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT folder, COUNT(*)
		FROM media_files
		WHERE deleted_at IS NULL
		GROUP BY folder
		ORDER BY folder`)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer closeQuietly(rows)

	folders = []models.FolderCount{}
	for rows.Next() {
		var fc models.FolderCount
		if err := rows.Scan(&fc.Folder, &fc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan folder count: %w", err)
		}
		folders = append(folders, fc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate folders: %w", err)
	}
	return folders, nil
}

// Stats summarizes the live library.
func (db *DB) Stats(ctx context.Context) (stats *models.LibraryStats, err error) {
	defer observe("stats", "media_files", time.Now(), &err)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	stats = &models.LibraryStats{}
	err = db.conn.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE media_type = 'image'),
			COUNT(*) FILTER (WHERE media_type = 'video'),
			COUNT(*) FILTER (WHERE last_viewed IS NULL),
			COUNT(*) FILTER (WHERE like_count > 0),
			COUNT(*) FILTER (WHERE like_count < 0),
			CAST(COALESCE(SUM(view_count), 0) AS BIGINT),
			COUNT(DISTINCT folder),
			(SELECT COUNT(DISTINCT t.tag)
				FROM media_tags t
				JOIN media_files f ON f.id = t.media_id
				WHERE f.deleted_at IS NULL)
		FROM media_files
		WHERE deleted_at IS NULL`,
	).Scan(
		&stats.Total, &stats.Images, &stats.Videos, &stats.Unviewed,
		&stats.Liked, &stats.Disliked, &stats.TotalViews, &stats.Folders, &stats.Tags,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute library stats: %w", err)
	}
	return stats, nil
}
