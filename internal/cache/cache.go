// Package cache holds classified reports between analysis passes.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/JustJay7/collections-tracker/internal/staleness"
)

type Cache interface {
	Get(key string) (*staleness.Report, bool)
	Set(key string, value *staleness.Report) error
	Delete(key string)
	Clear()
	Stats() CacheStats
}

type CacheStats struct {
	Hits       int64     `json:"hits"`
	Misses     int64     `json:"misses"`
	Size       int       `json:"size"`
	LastAccess time.Time `json:"last_access"`
}

type LRUCache struct {
	cache   *cache.Cache
	mu      sync.RWMutex
	stats   CacheStats
	maxSize int
}

// NewCache creates a report cache holding at most maxSize entries for ttl.
func NewCache(maxSize int, ttl time.Duration) Cache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LRUCache{
		cache:   cache.New(ttl, ttl*2),
		maxSize: maxSize,
	}
}

func (c *LRUCache) Get(key string) (*staleness.Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.LastAccess = time.Now()

	if data, found := c.cache.Get(key); found {
		if report, ok := data.(*staleness.Report); ok {
			c.stats.Hits++
			return report, true
		}
	}

	c.stats.Misses++
	return nil, false
}

func (c *LRUCache) Set(key string, value *staleness.Report) error {
	if value == nil {
		return fmt.Errorf("cannot cache nil report for %q", key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.cache.Get(key); !exists && c.cache.ItemCount() >= c.maxSize {
		c.removeOldest()
	}

	c.cache.Set(key, value, cache.DefaultExpiration)
	return nil
}

func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Delete(key)
}

// Clear drops every entry. Hit and miss counters survive.
func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Flush()
}

func (c *LRUCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Size = c.cache.ItemCount()
	return c.stats
}

// removeOldest evicts the entry closest to expiry, which is the one set
// longest ago.
func (c *LRUCache) removeOldest() {
	items := c.cache.Items()
	if len(items) == 0 {
		return
	}

	var oldestKey string
	var oldest int64

	for key, item := range items {
		if oldestKey == "" || item.Expiration < oldest {
			oldestKey = key
			oldest = item.Expiration
		}
	}

	c.cache.Delete(oldestKey)
}

// ReportKey names the cached report variant.
func ReportKey(includeAcknowledged bool) string {
	if includeAcknowledged {
		return "report:all"
	}
	return "report:active"
}
