// Package cache provides an in-memory TTL cache for encoded API responses,
// with weak ETags and coalesced loads.
package cache

import (
	"crypto/md5"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Entry is a cached response body.
type Entry struct {
	Data     []byte
	ETag     string
	StoredAt time.Time
	expires  time.Time
}

// Cache is a thread-safe in-memory TTL cache. Concurrent misses for the same
// key share a single load.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	// gens counts deletions per key. A load that started before a Delete
	// must not store its result afterwards.
	gens    map[string]uint64
	enabled bool
	group   singleflight.Group
	now     func() time.Time

	// OnHit and OnMiss observe lookups through GetOrLoad. Optional.
	OnHit  func()
	OnMiss func()
}

// New creates a new cache. Pass enabled=false to create a cache that never
// stores, so every GetOrLoad runs its loader.
func New(enabled bool) *Cache {
	return &Cache{
		entries: make(map[string]Entry),
		gens:    make(map[string]uint64),
		enabled: enabled,
		now:     time.Now,
	}
}

// Enabled reports whether the cache stores entries.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// Get retrieves an unexpired entry.
func (c *Cache) Get(key string) (Entry, bool) {
	if !c.enabled {
		return Entry{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, exists := c.entries[key]
	if !exists || c.now().After(e.expires) {
		return Entry{}, false
	}
	return e, true
}

// Set stores data under key for ttl and returns the resulting entry.
func (c *Cache) Set(key string, data []byte, ttl time.Duration) Entry {
	e, _ := c.store(key, data, ttl, nil)
	return e
}

// Generation returns the current generation of key. Pass it to
// SetIfGeneration after a slow computation.
func (c *Cache) Generation(key string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[key]
}

// SetIfGeneration stores data only if key has not been deleted since gen was
// read. The entry is returned either way; stored reports whether it was kept.
func (c *Cache) SetIfGeneration(key string, gen uint64, data []byte, ttl time.Duration) (e Entry, stored bool) {
	return c.store(key, data, ttl, &gen)
}

func (c *Cache) store(key string, data []byte, ttl time.Duration, gen *uint64) (Entry, bool) {
	now := c.now()
	e := Entry{Data: data, ETag: ComputeETag(data), StoredAt: now, expires: now.Add(ttl)}
	if !c.enabled {
		return e, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != nil && c.gens[key] != *gen {
		return e, false
	}
	c.entries[key] = e
	return e, true
}

// GetOrLoad returns the cached entry for key, or runs load once across all
// concurrent callers and caches its result. hit reports whether the value
// came from the cache. Load errors are not cached, and neither are results
// of a load that a Delete overtook.
func (c *Cache) GetOrLoad(key string, ttl time.Duration, load func() ([]byte, error)) (e Entry, hit bool, err error) {
	if e, ok := c.Get(key); ok {
		if c.OnHit != nil {
			c.OnHit()
		}
		return e, true, nil
	}
	if c.OnMiss != nil {
		c.OnMiss()
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A caller that lost the race to the previous flight finds it here.
		if e, ok := c.Get(key); ok {
			return e, nil
		}
		gen := c.Generation(key)
		data, err := load()
		if err != nil {
			return Entry{}, err
		}
		e, _ := c.SetIfGeneration(key, gen, data, ttl)
		return e, nil
	})
	if err != nil {
		return Entry{}, false, err
	}
	return v.(Entry), false, nil
}

// Delete removes key. Loads already in flight for key keep running for
// their own callers, but later callers start a fresh load and the old
// result is never stored.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.gens[key]++
	c.mu.Unlock()
	c.group.Forget(key)
}

// Stats returns cache statistics.
func (c *Cache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	active := 0
	now := c.now()
	for _, e := range c.entries {
		if now.Before(e.expires) {
			active++
		}
	}
	return map[string]interface{}{
		"enabled":      c.enabled,
		"total_keys":   len(c.entries),
		"active_keys":  active,
		"expired_keys": len(c.entries) - active,
	}
}

// Evict removes expired entries and returns how many were dropped.
func (c *Cache) Evict() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for key, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

// ComputeETag generates a weak ETag from response data using MD5.
func ComputeETag(data []byte) string {
	hash := md5.Sum(data)
	return fmt.Sprintf(`W/"%x"`, hash[:8])
}

// CheckETagMatch checks if an If-None-Match header matches the current ETag.
// The header may list several tags separated by commas.
func CheckETagMatch(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	if strings.TrimSpace(ifNoneMatch) == "*" {
		return true
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		if strings.TrimSpace(candidate) == etag {
			return true
		}
	}
	return false
}
