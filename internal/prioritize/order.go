// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package prioritize

import (
	"cmp"
	"time"
)

// compareFunc orders two records on a strategy's key tuple.
// A zero result means the tuples are identical.
type compareFunc func(a, b MediaRecord) int

// compareTime orders timestamps ascending with nil before any value.
func compareTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}

// leastViewed: view_count asc, last_viewed asc.
func leastViewed(a, b MediaRecord) int {
	if c := cmp.Compare(a.ViewCount, b.ViewCount); c != 0 {
		return c
	}
	return compareTime(a.LastViewed, b.LastViewed)
}

// mostLiked: like_count desc, view_count asc.
func mostLiked(a, b MediaRecord) int {
	if c := cmp.Compare(b.LikeCount, a.LikeCount); c != 0 {
		return c
	}
	return cmp.Compare(a.ViewCount, b.ViewCount)
}

// mostViewed: view_count desc, last_viewed desc. Swapping the operands of
// compareTime puts never-viewed records last.
func mostViewed(a, b MediaRecord) int {
	if c := cmp.Compare(b.ViewCount, a.ViewCount); c != 0 {
		return c
	}
	return compareTime(b.LastViewed, a.LastViewed)
}

// oldestViewed: last_viewed asc.
func oldestViewed(a, b MediaRecord) int {
	return compareTime(a.LastViewed, b.LastViewed)
}

// partitionViewed splits records into never-viewed and viewed groups,
// preserving relative order within each.
func partitionViewed(records []MediaRecord) (unviewed, viewed []MediaRecord) {
	unviewed = make([]MediaRecord, 0, len(records))
	viewed = make([]MediaRecord, 0, len(records))
	for _, r := range records {
		if r.Viewed() {
			viewed = append(viewed, r)
		} else {
			unviewed = append(unviewed, r)
		}
	}
	return unviewed, viewed
}

// filterDisliked returns a copy of records, without disliked ones when
// exclude is set. The caller's slice is never modified.
func filterDisliked(records []MediaRecord, exclude bool) []MediaRecord {
	out := make([]MediaRecord, 0, len(records))
	for _, r := range records {
		if exclude && r.Disliked() {
			continue
		}
		out = append(out, r)
	}
	return out
}

// toEntries numbers records by position.
func toEntries(records []MediaRecord) []RankedEntry {
	entries := make([]RankedEntry, len(records))
	for i, r := range records {
		entries[i] = RankedEntry{ID: r.ID, Idx: i}
	}
	return entries
}
