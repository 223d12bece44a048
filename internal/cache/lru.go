// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package cache

import (
	"sync"
	"time"
)

// node is a doubly linked list element holding one cached value.
type node[V any] struct {
	key       string
	value     V
	prev      *node[V]
	next      *node[V]
	expiresAt time.Time
}

// EvictFunc is invoked (with the cache lock released) for each entry dropped
// by capacity eviction or expiry. Explicit Remove and Clear do not call it.
type EvictFunc[V any] func(key string, value V)

// LRU is a thread-safe least recently used cache with per-entry TTL.
// Get, Add, Remove and eviction are O(1). Expired entries are dropped lazily
// on access or in bulk by CleanupExpired.
type LRU[V any] struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration
	onEvict  EvictFunc[V]
	now      func() time.Time

	items map[string]*node[V]

	// head.next is the most recently used entry, tail.prev the least.
	head *node[V]
	tail *node[V]

	hits      int64
	misses    int64
	evictions int64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
	Capacity  int   `json:"capacity"`
}

// NewLRU creates a cache holding at most capacity entries for ttl each.
// Non-positive arguments fall back to 1000 entries and 30 minutes.
func NewLRU[V any](capacity int, ttl time.Duration) *LRU[V] {
	if capacity <= 0 {
		capacity = 1000
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	c := &LRU[V]{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		items:    make(map[string]*node[V], capacity),
		head:     &node[V]{},
		tail:     &node[V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// OnEvict registers a callback for evicted and expired entries. Call before
// the cache is shared.
func (c *LRU[V]) OnEvict(fn EvictFunc[V]) {
	c.onEvict = fn
}

// Get returns the value for key and refreshes its recency. Expired entries
// are removed and reported as missing. The TTL is not extended.
func (c *LRU[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	n, ok := c.items[key]
	if !ok {
		c.misses++
		c.mu.Unlock()
		return zero, false
	}
	if c.now().After(n.expiresAt) {
		c.unlink(n)
		c.misses++
		c.evictions++
		c.mu.Unlock()
		c.notify(n)
		return zero, false
	}
	c.moveToFront(n)
	c.hits++
	value := n.value
	c.mu.Unlock()
	return value, true
}

// Peek returns the value for key without touching recency or counters.
func (c *LRU[V]) Peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.items[key]; ok && !c.now().After(n.expiresAt) {
		return n.value, true
	}
	var zero V
	return zero, false
}

// Add inserts or replaces key, resetting its TTL. When the cache is full
// the least recently used entry is evicted.
func (c *LRU[V]) Add(key string, value V) {
	c.mu.Lock()
	expiresAt := c.now().Add(c.ttl)

	if n, ok := c.items[key]; ok {
		n.value = value
		n.expiresAt = expiresAt
		c.moveToFront(n)
		c.mu.Unlock()
		return
	}

	n := &node[V]{key: key, value: value, expiresAt: expiresAt}
	c.pushFront(n)
	c.items[key] = n

	var evicted []*node[V]
	for len(c.items) > c.capacity {
		oldest := c.tail.prev
		c.unlink(oldest)
		c.evictions++
		evicted = append(evicted, oldest)
	}
	c.mu.Unlock()

	for _, e := range evicted {
		c.notify(e)
	}
}

// Update replaces the value of a live entry in place, keeping its TTL.
// It reports false if the key is missing or expired.
func (c *LRU[V]) Update(key string, fn func(V) V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok || c.now().After(n.expiresAt) {
		return false
	}
	n.value = fn(n.value)
	c.moveToFront(n)
	return true
}

// Remove deletes key and reports whether it was present.
func (c *LRU[V]) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.items[key]; ok {
		c.unlink(n)
		return true
	}
	return false
}

// Len returns the number of stored entries, including any not yet
// collected after expiry.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear removes every entry.
func (c *LRU[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*node[V], c.capacity)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// CleanupExpired removes expired entries and returns how many were dropped.
func (c *LRU[V]) CleanupExpired() int {
	c.mu.Lock()
	now := c.now()
	var expired []*node[V]
	for n := c.tail.prev; n != c.head; {
		prev := n.prev
		if now.After(n.expiresAt) {
			c.unlink(n)
			c.evictions++
			expired = append(expired, n)
		}
		n = prev
	}
	c.mu.Unlock()

	for _, n := range expired {
		c.notify(n)
	}
	return len(expired)
}

// Stats returns counter values.
func (c *LRU[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      len(c.items),
		Capacity:  c.capacity,
	}
}

// TTL returns the configured entry lifetime.
func (c *LRU[V]) TTL() time.Duration {
	return c.ttl
}

// The helpers below require c.mu.

func (c *LRU[V]) pushFront(n *node[V]) {
	n.prev = c.head
	n.next = c.head.next
	c.head.next.prev = n
	c.head.next = n
}

func (c *LRU[V]) moveToFront(n *node[V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	c.pushFront(n)
}

func (c *LRU[V]) unlink(n *node[V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	delete(c.items, n.key)
}

func (c *LRU[V]) notify(n *node[V]) {
	if c.onEvict != nil {
		c.onEvict(n.key, n.value)
	}
}
