package casm

import (
	"github.com/ethereum/go-ethereum/common/lru"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/singleflight"
)

// DefaultClassCacheSize is the number of decoded classes kept by default.
const DefaultClassCacheSize = 128

// ClassCache keeps recently used decoded classes, keyed by class hash.
// Classes are immutable, so a cached class is handed out to every caller as
// is. ClassCache is safe for concurrent use.
type ClassCache struct {
	lru    *lru.Cache[Felt, RunnableCompiledClass]
	single singleflight.Group // for cache misses
}

// NewClassCache returns a cache holding at most size classes. A non-positive
// size selects DefaultClassCacheSize.
func NewClassCache(size int) *ClassCache {
	if size <= 0 {
		size = DefaultClassCacheSize
	}
	return &ClassCache{lru: lru.NewCache[Felt, RunnableCompiledClass](size)}
}

// Get returns the class cached under hash.
func (c *ClassCache) Get(hash Felt) (RunnableCompiledClass, bool) {
	return c.lru.Get(hash)
}

// Add caches class under hash, evicting the least recently used class if the
// cache is full.
func (c *ClassCache) Add(hash Felt, class RunnableCompiledClass) {
	if c.lru.Add(hash, class) {
		log.Trace("Evicted compiled class from cache")
	}
}

// Remove drops the class cached under hash.
func (c *ClassCache) Remove(hash Felt) {
	c.lru.Remove(hash)
}

// Len returns the number of cached classes.
func (c *ClassCache) Len() int {
	return c.lru.Len()
}

// GetOrDecode returns the class cached under hash, calling decode on a miss.
// Concurrent misses for the same hash share a single decode call. Failed
// decodes are not cached.
func (c *ClassCache) GetOrDecode(hash Felt, decode func() (RunnableCompiledClass, error)) (RunnableCompiledClass, error) {
	if class, ok := c.lru.Get(hash); ok {
		log.Debug("Compiled class cache hit", "hash", FeltHex(&hash))
		return class, nil
	}

	key := FeltHex(&hash)
	v, err, _ := c.single.Do(key, func() (any, error) {
		// Another caller may have filled the entry while we waited.
		if class, ok := c.lru.Get(hash); ok {
			return class, nil
		}
		log.Debug("Compiled class cache miss", "hash", key)
		class, err := decode()
		if err != nil {
			return nil, err
		}
		c.Add(hash, class)
		return class, nil
	})
	if err != nil {
		return RunnableCompiledClass{}, err
	}
	return v.(RunnableCompiledClass), nil
}
