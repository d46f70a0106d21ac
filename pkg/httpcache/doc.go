// Package httpcache stores news page responses in Redis for HTTP revalidation.
//
// Page responses are kept with their validators (ETag, Last-Modified) and
// freshness lifetime (Expires or Cache-Control max-age). While an entry is
// fresh the client serves it without touching the network; once stale the
// client sends a conditional request and a 304 Not Modified response
// refreshes the stored entry instead of re-downloading the page.
//
// Entries are kept in Redis for their freshness lifetime plus a revalidation
// window and then expire. Nothing is written to disk by this package.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	store := httpcache.NewStore(redisClient)
//
//	key := httpcache.PageKey(1, 10)
//	entry, err := store.Get(ctx, key)
//	if errors.Is(err, httpcache.ErrCacheMiss) {
//		// fetch from the API
//	}
//
//	if entry.Fresh() {
//		// use entry.Body
//	} else if entry.CanRevalidate() {
//		httpcache.ApplyValidators(req, entry)
//	}
//
// # Metrics
//
//   - feed_http_cache_hits_total{state} - Stored responses found (fresh or stale)
//   - feed_http_cache_misses_total - Lookups without a stored response
//   - feed_http_cache_not_modified_total - 304 responses that refreshed an entry
//   - feed_http_cache_errors_total{operation} - Redis operation errors
package httpcache
