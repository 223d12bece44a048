// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package models

import (
	"time"

	"github.com/tomtom215/lightbox/internal/prioritize"
)

// Media types recognized by the library scanner.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// MediaFile is a single image or video in the library.
type MediaFile struct {
	ID        int64  `json:"id"`
	Path      string `json:"path"`
	Folder    string `json:"folder"`
	Filename  string `json:"filename"`
	MediaType string `json:"media_type"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`

	// ViewCount is the number of times the file has been presented.
	ViewCount int `json:"view_count"`

	// LastViewed is nil until the first view.
	LastViewed *time.Time `json:"last_viewed,omitempty"`

	// LikeCount is -1 when disliked, 0 when undecided, and the number of
	// likes otherwise.
	LikeCount int `json:"like_count"`

	Tags []string `json:"tags"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Record converts the file to the engine's ordering input.
func (m *MediaFile) Record() prioritize.MediaRecord {
	return prioritize.MediaRecord{
		ID:         m.ID,
		ViewCount:  m.ViewCount,
		LastViewed: m.LastViewed,
		LikeCount:  m.LikeCount,
	}
}

// Liked reports whether the file has at least one like.
func (m *MediaFile) Liked() bool { return m.LikeCount > 0 }

// Disliked reports whether the file is marked disliked.
func (m *MediaFile) Disliked() bool { return m.LikeCount < 0 }

// MediaFilter narrows the candidate set. Zero values match everything.
// Soft-deleted files are always excluded.
type MediaFilter struct {
	Folder    string `json:"folder,omitempty" validate:"omitempty,max=1024"`
	Recursive bool   `json:"recursive,omitempty"`
	MediaType string `json:"type,omitempty" validate:"omitempty,oneof=image video"`
	Tag       string `json:"tag,omitempty" validate:"omitempty,max=64"`
}

// IsZero reports whether the filter matches every file.
func (f MediaFilter) IsZero() bool {
	return f == MediaFilter{}
}

// FolderCount is a folder with the number of live files directly inside it.
type FolderCount struct {
	Folder string `json:"folder"`
	Count  int    `json:"count"`
}

// TagCount is a tag with the number of live files carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// LibraryStats summarizes the library.
type LibraryStats struct {
	Total      int `json:"total"`
	Images     int `json:"images"`
	Videos     int `json:"videos"`
	Unviewed   int `json:"unviewed"`
	Liked      int `json:"liked"`
	Disliked   int `json:"disliked"`
	TotalViews int `json:"total_views"`
	Folders    int `json:"folders"`
	Tags       int `json:"tags"`
}

// ScanResult reports the outcome of scanning one library root.
type ScanResult struct {
	Root      string        `json:"root"`
	Indexed   int           `json:"indexed"`
	Skipped   int           `json:"skipped"`
	Removed   int           `json:"removed"`
	Errors    int           `json:"errors"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
}

// ScanReport aggregates a scan over every library root.
type ScanReport struct {
	Indexed   int           `json:"indexed"`
	Skipped   int           `json:"skipped"`
	Removed   int           `json:"removed"`
	Errors    int           `json:"errors"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Roots     []ScanResult  `json:"roots"`
}

// Add folds a root result into the report.
func (r *ScanReport) Add(root ScanResult) {
	r.Indexed += root.Indexed
	r.Skipped += root.Skipped
	r.Removed += root.Removed
	r.Errors += root.Errors
	r.Roots = append(r.Roots, root)
}
