// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the sequence and tables. Every statement is idempotent.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, q := range tableQueries() {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// media_tags carries no foreign key: DuckDB rejects updates to parent rows
// that are referenced, and media_files rows are updated constantly.
func tableQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS media_files_id_seq START 1`,
		`CREATE TABLE IF NOT EXISTS media_files (
			id BIGINT PRIMARY KEY DEFAULT nextval('media_files_id_seq'),
			path VARCHAR NOT NULL UNIQUE,
			folder VARCHAR NOT NULL,
			filename VARCHAR NOT NULL,
			media_type VARCHAR NOT NULL,
			mime_type VARCHAR NOT NULL DEFAULT '',
			size_bytes BIGINT NOT NULL DEFAULT 0,
			view_count INTEGER NOT NULL DEFAULT 0,
			last_viewed TIMESTAMP,
			like_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			deleted_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS media_tags (
			media_id BIGINT NOT NULL,
			tag VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (media_id, tag)
		)`,
	}
}

// createIndexes creates secondary indexes. media_files gets none beyond its
// keys: DuckDB refuses ON CONFLICT updates of indexed columns, and upserts
// rewrite folder and media_type.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, q := range indexQueries() {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

func indexQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_media_tags_tag ON media_tags(tag)`,
	}
}
