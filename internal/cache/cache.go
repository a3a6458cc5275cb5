// Package cache provides an in-memory key value cache with per-entry
// expiry. Entries are written with the time they were stored and checked
// lazily on read; nothing runs in the background.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is how long an entry stays valid unless overridden with WithTTL.
const DefaultTTL = 30 * 24 * time.Hour

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a concurrency-safe map of string keys to values of type V.
// An entry older than the TTL is treated as absent and removed on access.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Cache.
type Option[V any] func(*Cache[V])

// WithTTL overrides the entry lifetime.
func WithTTL[V any](ttl time.Duration) Option[V] {
	return func(c *Cache[V]) {
		c.ttl = ttl
	}
}

// WithClock overrides the time source. Tests use this to control expiry.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) {
		c.now = now
	}
}

func New[V any](opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key. An expired entry is removed and reported
// as a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		c.mu.Lock()
		// Only remove the entry we saw; a concurrent Set may have
		// refreshed it in the meantime.
		if current, ok := c.entries[key]; ok && current.storedAt.Equal(e.storedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, replacing any existing entry and restarting
// its lifetime.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
}

// Remove deletes the entry for key, if any.
func (c *Cache[V]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Len reports the number of stored entries, including any that have
// expired but not yet been removed.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
