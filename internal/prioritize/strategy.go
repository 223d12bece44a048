// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package prioritize

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Strategy names an ordering strategy.
type Strategy string

// Supported strategies.
const (
	StrategyRandom        Strategy = "random"
	StrategyUnviewedFirst Strategy = "unviewed_first"
	StrategyLeastViewed   Strategy = "least_viewed"
	StrategyMostLiked     Strategy = "most_liked"
	StrategyMostViewed    Strategy = "most_viewed"
	StrategyOldestFirst   Strategy = "oldest_first"
)

// DefaultStrategy is used when the caller does not name one.
const DefaultStrategy = StrategyRandom

var strategies = []Strategy{
	StrategyRandom,
	StrategyUnviewedFirst,
	StrategyLeastViewed,
	StrategyMostLiked,
	StrategyMostViewed,
	StrategyOldestFirst,
}

// ErrInvalidStrategy is matched by errors.Is for any unrecognized strategy.
var ErrInvalidStrategy = errors.New("invalid strategy")

// InvalidStrategyError reports a strategy name outside the supported set.
type InvalidStrategyError struct {
	Name string
}

func (e *InvalidStrategyError) Error() string {
	return fmt.Sprintf("invalid strategy %q: must be one of %s", e.Name, strategyList())
}

// Is makes errors.Is(err, ErrInvalidStrategy) succeed.
func (e *InvalidStrategyError) Is(target error) bool {
	return target == ErrInvalidStrategy
}

// Strategies returns the supported strategies in a stable order.
func Strategies() []Strategy {
	return slices.Clone(strategies)
}

// ParseStrategy resolves a strategy name. The empty name resolves to
// DefaultStrategy.
func ParseStrategy(name string) (Strategy, error) {
	if name == "" {
		return DefaultStrategy, nil
	}
	s := Strategy(name)
	if !s.Valid() {
		return "", &InvalidStrategyError{Name: name}
	}
	return s, nil
}

// Valid reports whether s is a supported strategy.
func (s Strategy) Valid() bool {
	return slices.Contains(strategies, s)
}

// String returns the strategy name.
func (s Strategy) String() string {
	return string(s)
}

// Description returns a short human-readable summary of the ordering.
func (s Strategy) Description() string {
	switch s {
	case StrategyRandom:
		return "Uniform random order"
	case StrategyUnviewedFirst:
		return "Never-viewed files first, each group shuffled"
	case StrategyLeastViewed:
		return "Fewest views first, then least recently viewed"
	case StrategyMostLiked:
		return "Most likes first, then fewest views"
	case StrategyMostViewed:
		return "Most views first, then most recently viewed"
	case StrategyOldestFirst:
		return "Never-viewed files first, then least recently viewed"
	default:
		return "unknown"
	}
}

// Deterministic reports whether the strategy orders by keys rather than
// purely at random. Ties may still be shuffled.
func (s Strategy) Deterministic() bool {
	switch s {
	case StrategyLeastViewed, StrategyMostLiked, StrategyMostViewed:
		return true
	default:
		return false
	}
}

func strategyList() string {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
