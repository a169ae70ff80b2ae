package cache

import (
	"errors"
	"time"
)

// LayeredCache implements a multi-layer cache (memory + disk)
type LayeredCache struct {
	memory *MemoryCache
	disk   *DiskCache
}

// NewLayeredCache creates a new layered cache
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// Get retrieves a value from the cache (checks memory first, then disk)
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	// Check memory cache first
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	// Check disk cache
	if val, found := c.disk.Get(key); found {
		// Promote to memory cache with its default TTL
		_ = c.memory.Set(key, val, 0)
		return val, true
	}

	return nil, false
}

// Set stores a value in both caches
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	// Store in memory
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}

	// Store on disk
	if err := c.disk.Set(key, value, ttl); err != nil {
		return err
	}

	return nil
}

// Delete removes a value from both caches
func (c *LayeredCache) Delete(key string) error {
	return errors.Join(c.memory.Delete(key), c.disk.Delete(key))
}

// Clear removes all values from both caches
func (c *LayeredCache) Clear() error {
	return errors.Join(c.memory.Clear(), c.disk.Clear())
}

// Prune removes expired entries from both layers
func (c *LayeredCache) Prune() (int, error) {
	m, memErr := c.memory.Prune()
	d, diskErr := c.disk.Prune()
	return m + d, errors.Join(memErr, diskErr)
}
