package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/claimmark/internal/model"
)

// keyPrefix versions cached annotation results; bump it when verdicts change shape
const keyPrefix = "claimmark:v1:"

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Pruner is a cache that can drop expired entries on demand
type Pruner interface {
	Prune() (int, error)
}

// CacheKey generates a cache key from the parts that determine a result
func CacheKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		// length-prefix each part so ("ab","c") and ("a","bc") differ
		fmt.Fprintf(h, "%d:", len(p))
		h.Write([]byte(p))
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// New builds the cache described by cfg. A disabled cache never stores anything.
func New(cfg model.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return Nop{}, nil
	}

	dir := cfg.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("find home directory: %w", err)
		}
		dir = filepath.Join(home, ".claimmark", "cache")
	}

	return NewLayeredCache(cfg.MemoryTTL, dir, cfg.DiskTTL), nil
}

// Nop is a cache that stores nothing
type Nop struct{}

func (Nop) Get(string) ([]byte, bool)               { return nil, false }
func (Nop) Set(string, []byte, time.Duration) error { return nil }
func (Nop) Delete(string) error                     { return nil }
func (Nop) Clear() error                            { return nil }
