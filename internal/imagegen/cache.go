package imagegen

import (
	"sync"
	"time"
)

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// Cache holds rendered images in memory for a short period, keyed by
// whatever identifies their content.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]cacheEntry
	cacheTTL time.Duration
	now      func() time.Time
}

// NewCache creates a cache with the specified TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries:  make(map[string]cacheEntry),
		cacheTTL: ttl,
		now:      time.Now,
	}
}

// Get returns the cached image for key if still valid.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		return nil, false
	}
	return e.data, true
}

// Set stores an image under key, dropping any entries that have expired.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{data: data, expiresAt: now.Add(c.cacheTTL)}
}

// Len returns the number of entries, including expired ones not yet evicted.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
