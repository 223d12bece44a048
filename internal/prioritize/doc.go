// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

// Package prioritize orders a candidate set of media records for presentation.
//
// # Strategies
//
// The engine supports a closed set of ordering strategies:
//
//   - random: uniform permutation of the candidate set
//   - unviewed_first: never-viewed records (shuffled), then viewed records (shuffled)
//   - least_viewed: view count ascending, then last viewed ascending (never viewed first)
//   - most_liked: like count descending, then view count ascending
//   - most_viewed: view count descending, then last viewed descending (never viewed last)
//   - oldest_first: never-viewed records (shuffled), then viewed records by last viewed ascending
//
// Disliked records (negative like count) are removed before any ordering
// when exclusion is requested.
//
// # Ties
//
// Deterministic strategies stable-sort on their (primary, secondary) key
// tuple. With ShuffleTies enabled, each maximal run of records sharing an
// identical tuple is shuffled in place, so records that differ on either
// key keep their relative order.
//
// # Usage
//
//	engine, err := prioritize.NewEngine(prioritize.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	order, err := engine.Randomize(records, prioritize.StrategyLeastViewed, true)
//
// # Thread Safety
//
// The engine holds no per-call state and is safe for concurrent use. A
// seeded engine serializes random draws behind a mutex so that a fixed seed
// produces a reproducible sequence of orders.
package prioritize
