// Package cache provides the process-wide in-memory asset cache.
//
// KeyedCache maps an opaque string key (usually an image URL) to a fetched
// feed.Asset. The store is bounded by entry count and evicts the least
// recently used entry once the bound is exceeded, which keeps memory flat
// during long scroll sessions.
//
// # Basic Usage
//
//	assetCache, err := cache.New(feed.DefaultCacheLimit)
//	if err != nil {
//		return err
//	}
//
//	assetCache.Put(item.ImageKey, asset)
//
//	if asset, ok := assetCache.Get(item.ImageKey); ok {
//		// render asset.Data
//	}
//
// The cache is created once at startup and lives for the process; there is
// no teardown contract. All methods are safe for concurrent use.
//
// # Metrics
//
//   - feed_asset_cache_hits_total - Lookups served from memory
//   - feed_asset_cache_misses_total - Lookups not found
//   - feed_asset_cache_evictions_total - Entries dropped by the LRU bound
//   - feed_asset_cache_entries - Current number of entries
package cache
