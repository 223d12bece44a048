// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package prioritize

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Observer receives one callback per successful call. It is used to feed
// metrics without the engine importing them.
type Observer func(strategy Strategy, items int, elapsed time.Duration)

// Engine produces presentation orders. It is safe for concurrent use.
type Engine struct {
	config   *Config
	logger   zerolog.Logger
	observer Observer

	// rng is nil for unseeded engines, which draw from the global generator.
	rng   *rand.Rand
	rngMu sync.Mutex

	calls     atomic.Int64
	slowCalls atomic.Int64
}

// NewEngine creates an engine. A nil cfg uses DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config: cfg,
		logger: logger.With().Str("component", "prioritize").Logger(),
	}
	if cfg.Seed != 0 {
		e.rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)) //nolint:gosec // math/rand is fine for presentation shuffling
	}
	return e, nil
}

// SetObserver installs a per-call observer. Call before the engine is shared.
func (e *Engine) SetObserver(o Observer) {
	e.observer = o
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return *e.config
}

// Randomize orders files by strategy. When excludeDisliked is set, records
// with a negative like count are dropped first. An empty strategy selects
// DefaultStrategy. An unknown strategy fails before any work is done.
//
// The input slice is not modified.
func (e *Engine) Randomize(files []MediaRecord, strategy Strategy, excludeDisliked bool) ([]RankedEntry, error) {
	if strategy == "" {
		strategy = DefaultStrategy
	}
	if !strategy.Valid() {
		return nil, &InvalidStrategyError{Name: string(strategy)}
	}

	start := time.Now()
	candidates := filterDisliked(files, excludeDisliked)

	switch strategy {
	case StrategyRandom:
		e.shuffle(candidates)
	case StrategyUnviewedFirst:
		unviewed, viewed := partitionViewed(candidates)
		e.shuffle(unviewed)
		e.shuffle(viewed)
		candidates = append(unviewed, viewed...)
	case StrategyLeastViewed:
		e.sortRanked(candidates, leastViewed)
	case StrategyMostLiked:
		e.sortRanked(candidates, mostLiked)
	case StrategyMostViewed:
		e.sortRanked(candidates, mostViewed)
	case StrategyOldestFirst:
		unviewed, viewed := partitionViewed(candidates)
		e.shuffle(unviewed)
		e.sortRanked(viewed, oldestViewed)
		candidates = append(unviewed, viewed...)
	}

	entries := toEntries(candidates)
	elapsed := time.Since(start)
	e.record(strategy, len(files), len(entries), elapsed)
	return entries, nil
}

// Stats reports call counters.
func (e *Engine) Stats() (calls, slow int64) {
	return e.calls.Load(), e.slowCalls.Load()
}

// sortRanked stable-sorts on the key tuple, then optionally shuffles runs of
// identical tuples.
func (e *Engine) sortRanked(records []MediaRecord, compare compareFunc) {
	slices.SortStableFunc(records, compare)
	if e.config.ShuffleTies {
		e.shuffleRuns(records, compare)
	}
}

// shuffleRuns shuffles each maximal run of records whose tuples compare
// equal. records must already be sorted by compare.
func (e *Engine) shuffleRuns(records []MediaRecord, compare compareFunc) {
	for start := 0; start < len(records); {
		end := start + 1
		for end < len(records) && compare(records[start], records[end]) == 0 {
			end++
		}
		if end-start > 1 {
			e.shuffle(records[start:end])
		}
		start = end
	}
}

// shuffle permutes records in place with a Fisher-Yates shuffle.
func (e *Engine) shuffle(records []MediaRecord) {
	if len(records) < 2 {
		return
	}
	swap := func(i, j int) { records[i], records[j] = records[j], records[i] }
	if e.rng == nil {
		rand.Shuffle(len(records), swap)
		return
	}
	e.rngMu.Lock()
	e.rng.Shuffle(len(records), swap)
	e.rngMu.Unlock()
}

func (e *Engine) record(strategy Strategy, in, out int, elapsed time.Duration) {
	e.calls.Add(1)
	if e.config.SlowThreshold > 0 && elapsed > e.config.SlowThreshold {
		e.slowCalls.Add(1)
		e.logger.Warn().
			Str("strategy", string(strategy)).
			Int("items", out).
			Dur("elapsed", elapsed).
			Dur("threshold", e.config.SlowThreshold).
			Msg("Slow prioritization")
	} else {
		e.logger.Debug().
			Str("strategy", string(strategy)).
			Int("input", in).
			Int("output", out).
			Dur("elapsed", elapsed).
			Msg("Prioritized media")
	}
	if e.observer != nil {
		e.observer(strategy, out, elapsed)
	}
}

var (
	defaultEngine     *Engine
	defaultEngineOnce sync.Once
)

// Default returns a shared engine built from DefaultConfig with a no-op logger.
func Default() *Engine {
	defaultEngineOnce.Do(func() {
		// DefaultConfig always validates.
		defaultEngine, _ = NewEngine(DefaultConfig(), zerolog.Nop()) //nolint:errcheck
	})
	return defaultEngine
}

// Randomize orders files with the default engine.
func Randomize(files []MediaRecord, strategy Strategy, excludeDisliked bool) ([]RankedEntry, error) {
	return Default().Randomize(files, strategy, excludeDisliked)
}
