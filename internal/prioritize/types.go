// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package prioritize

import "time"

// MediaRecord is the subset of a media file the engine orders on.
type MediaRecord struct {
	// ID uniquely identifies the media file.
	ID int64 `json:"id"`

	// ViewCount is the number of times the file has been presented.
	ViewCount int `json:"view_count"`

	// LastViewed is the time of the most recent view. Nil means never viewed.
	LastViewed *time.Time `json:"last_viewed,omitempty"`

	// LikeCount is negative for disliked files, zero when undecided and
	// positive for liked files.
	LikeCount int `json:"like_count"`
}

// Viewed reports whether the record has a last-viewed timestamp.
func (r MediaRecord) Viewed() bool {
	return r.LastViewed != nil
}

// Disliked reports whether the record carries a negative like count.
func (r MediaRecord) Disliked() bool {
	return r.LikeCount < 0
}

// RankedEntry is one position in a produced order.
type RankedEntry struct {
	// ID is the media file identifier.
	ID int64 `json:"id"`

	// Idx is the zero-based position in the order.
	Idx int `json:"idx"`
}

// IDs extracts the media IDs of an order, preserving position.
func IDs(entries []RankedEntry) []int64 {
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}
