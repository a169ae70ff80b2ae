package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implements in-memory expiring caching
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		b, ok := val.([]byte)
		return b, ok
	}
	return nil, false
}

// Set stores a value in the cache with the given TTL; zero means the default TTL
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, value, ttl)
	return nil
}

// Len returns the number of cached items, including expired ones not yet cleaned up
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}

// Prune drops expired items and returns how many were dropped
func (c *MemoryCache) Prune() (int, error) {
	before := c.cache.ItemCount()
	c.cache.DeleteExpired()
	return before - c.cache.ItemCount(), nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all values from the cache
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
