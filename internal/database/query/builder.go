// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

// Package query provides SQL query building utilities for the database package.
package query

import (
	"strings"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddLive()
//	wb.AddFolder("photos/2024", true)
//	wb.AddMediaType("image")
//	whereClause, args := wb.Build()
//	// deleted_at IS NULL AND (folder = ? OR folder LIKE ? ESCAPE '\') AND media_type = ?
type WhereBuilder struct {
	clauses []string
	args    []any
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []any{},
	}
}

// AddClause adds a raw WHERE clause with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...any) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddLive excludes soft-deleted rows.
func (wb *WhereBuilder) AddLive() *WhereBuilder {
	return wb.AddClause("deleted_at IS NULL")
}

// AddFolder restricts rows to a folder. With recursive set, files in any
// descendant folder match too. An empty folder adds no clause: stored
// folders are never empty, so it means the whole library.
func (wb *WhereBuilder) AddFolder(folder string, recursive bool) *WhereBuilder {
	folder = strings.TrimSuffix(folder, "/")
	if folder == "" {
		return wb
	}
	if !recursive {
		return wb.AddClause("folder = ?", folder)
	}
	return wb.AddClause(`(folder = ? OR folder LIKE ? ESCAPE '\')`, folder, EscapeLike(folder)+"/%")
}

// AddMediaType filters by media type. Empty values are skipped.
func (wb *WhereBuilder) AddMediaType(mediaType string) *WhereBuilder {
	if mediaType == "" {
		return wb
	}
	return wb.AddClause("media_type = ?", mediaType)
}

// AddTag keeps rows carrying the tag. Empty values are skipped.
func (wb *WhereBuilder) AddTag(tag string) *WhereBuilder {
	if tag == "" {
		return wb
	}
	return wb.AddClause("id IN (SELECT media_id FROM media_tags WHERE tag = ?)", tag)
}

// AddPathUnder matches paths equal to root or below it.
func (wb *WhereBuilder) AddPathUnder(root string) *WhereBuilder {
	root = strings.TrimSuffix(root, "/")
	return wb.AddClause(`(path = ? OR path LIKE ? ESCAPE '\')`, root, EscapeLike(root)+"/%")
}

// Build returns the WHERE clause (without the WHERE keyword) and arguments.
// Returns "1=1" for empty builders so the result can always be embedded.
func (wb *WhereBuilder) Build() (string, []any) {
	if len(wb.clauses) == 0 {
		return "1=1", []any{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with the WHERE keyword prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []any) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty reports whether no clauses were added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// Placeholders returns n comma-separated "?" placeholders.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so the value matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
