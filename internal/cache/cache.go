// Package cache provides a concurrency-safe key/value store shared by the
// producers of a single git-vines run.
package cache

import "sync"

// Cache is a mutex-guarded map.
//
// Get and Set are each atomic. A read followed by a write through two separate
// calls is not; concurrent producers that extend an existing value must use
// Upsert so the whole read-modify-write happens under one lock.
type Cache[K comparable, V any] struct {
	mu   sync.Mutex
	data map[K]V
}

// New creates an empty cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{data: make(map[K]V)}
}

// Get returns the value stored under key and whether it was present.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.data[key]
	return val, ok
}

// Set stores value under key, replacing any previous value.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

// Upsert computes the new value for key from the current one and stores it.
// fn runs with the lock held and must not call back into the cache.
// Returns the stored value.
func (c *Cache[K, V]) Upsert(key K, fn func(old V, ok bool) V) V {
	c.mu.Lock()
	defer c.mu.Unlock()
	old, ok := c.data[key]
	val := fn(old, ok)
	c.data[key] = val
	return val
}

// Len returns the number of keys.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}
