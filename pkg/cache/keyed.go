package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Sternrassler/newsfeed-client/pkg/feed"
)

// KeyedCache is a bounded in-memory LRU of assets.
type KeyedCache struct {
	store *lru.Cache[string, feed.Asset]
	limit int
}

// New creates a cache holding at most limit entries.
func New(limit int) (*KeyedCache, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("cache limit must be > 0 (got %d)", limit)
	}

	store, err := lru.New[string, feed.Asset](limit)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}

	return &KeyedCache{
		store: store,
		limit: limit,
	}, nil
}

// Get returns the asset for key and marks it as most recently used.
func (c *KeyedCache) Get(key string) (feed.Asset, bool) {
	asset, ok := c.store.Get(key)
	if !ok {
		CacheMisses.Inc()
		return feed.Asset{}, false
	}

	CacheHits.Inc()
	return asset, true
}

// Put inserts or overwrites the asset for key. When the bound is exceeded
// the least recently used entry is evicted.
func (c *KeyedCache) Put(key string, asset feed.Asset) {
	if evicted := c.store.Add(key, asset); evicted {
		CacheEvictions.Inc()
	}
	CacheEntries.Set(float64(c.store.Len()))
}

// Contains reports whether key is cached without touching its recency.
func (c *KeyedCache) Contains(key string) bool {
	return c.store.Contains(key)
}

// Remove deletes key and reports whether it was present.
func (c *KeyedCache) Remove(key string) bool {
	present := c.store.Remove(key)
	CacheEntries.Set(float64(c.store.Len()))
	return present
}

// Purge drops every entry.
func (c *KeyedCache) Purge() {
	c.store.Purge()
	CacheEntries.Set(0)
}

// Len returns the number of cached entries.
func (c *KeyedCache) Len() int {
	return c.store.Len()
}

// Limit returns the configured entry bound.
func (c *KeyedCache) Limit() int {
	return c.limit
}

// Keys returns the cached keys from least to most recently used.
func (c *KeyedCache) Keys() []string {
	return c.store.Keys()
}
