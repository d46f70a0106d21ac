// Package assets resolves feed assets through the shared cache and fetch gate.
//
// Coordinator.Resolve serves cache hits synchronously, joins an in-flight
// fetch for the same key when one exists, and otherwise starts a single
// fetch whose result is cached before any waiter is released. A caller that
// stops caring (its context ends) only withdraws its own interest.
package assets

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Sternrassler/newsfeed-client/pkg/cache"
	"github.com/Sternrassler/newsfeed-client/pkg/feed"
	"github.com/Sternrassler/newsfeed-client/pkg/gate"
)

// DefaultPrefetchConcurrency bounds parallel resolves in Prefetch.
const DefaultPrefetchConcurrency = 4

// Coordinator glues the asset cache, the fetch gate and the remote source.
type Coordinator struct {
	cache  *cache.KeyedCache
	gate   *gate.Gate
	source feed.RemoteSource
	logger zerolog.Logger

	prefetchConcurrency int
}

// New creates a coordinator. The cache and gate are normally shared by every
// coordinator in the process.
func New(assetCache *cache.KeyedCache, fetchGate *gate.Gate, source feed.RemoteSource, logger zerolog.Logger) (*Coordinator, error) {
	if assetCache == nil {
		return nil, fmt.Errorf("asset cache is required")
	}
	if fetchGate == nil {
		return nil, fmt.Errorf("fetch gate is required")
	}
	if source == nil {
		return nil, fmt.Errorf("remote source is required")
	}

	return &Coordinator{
		cache:               assetCache,
		gate:                fetchGate,
		source:              source,
		logger:              logger,
		prefetchConcurrency: DefaultPrefetchConcurrency,
	}, nil
}

// Resolve returns the asset for key. Every caller waiting on the same key
// observes the same outcome. When ctx ends before the outcome is known the
// caller's interest is withdrawn and a canceled error is returned; the fetch
// itself is aborted only once no caller is interested anymore.
func (c *Coordinator) Resolve(ctx context.Context, key string) (feed.Asset, error) {
	if key == "" {
		return feed.Asset{}, feed.ErrInvalidKey
	}

	if asset, ok := c.cache.Get(key); ok {
		c.logger.Debug().Str("key", key).Bool("cache_hit", true).Msg("Asset resolved from cache")
		return asset, nil
	}

	joined, h := c.gate.Acquire(key)
	if !joined {
		go c.fetch(h)
	}

	asset, err := h.Wait(ctx)
	if err != nil {
		if feed.IsCanceled(err) {
			c.logger.Debug().Str("key", key).Msg("Asset interest withdrawn")
		}
		return feed.Asset{}, err
	}
	return asset, nil
}

// fetch drives the underlying request for a flight led by h.
func (c *Coordinator) fetch(h *gate.Handle) {
	key := h.Key()

	// A flight that finished between our cache miss and Acquire already
	// stored its asset.
	if asset, ok := c.cache.Get(key); ok {
		h.Complete(asset, nil)
		return
	}

	start := time.Now()
	asset, err := c.source.FetchAsset(h.Context(), key)
	assetFetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if h.Context().Err() != nil {
			err = feed.NewAbortedError(err)
		}
		c.logFailure(key, err)
		assetFetchesTotal.WithLabelValues(outcomeLabel(err)).Inc()
		h.Complete(feed.Asset{}, err)
		return
	}

	if asset.Key == "" {
		asset.Key = key
	}
	c.cache.Put(key, asset)
	assetFetchesTotal.WithLabelValues("success").Inc()

	c.logger.Debug().
		Str("key", key).
		Int("bytes", asset.Size()).
		Dur("duration", time.Since(start)).
		Msg("Asset fetched")

	h.Complete(asset, nil)
}

// logFailure logs a failed fetch once per flight. Cancellation is a normal
// outcome, not a fault.
func (c *Coordinator) logFailure(key string, err error) {
	if feed.IsCanceled(err) {
		c.logger.Debug().Str("key", key).Msg("Asset fetch aborted")
		return
	}
	c.logger.Warn().
		Err(err).
		Str("key", key).
		Str("error_kind", string(feed.KindOf(err))).
		Msg("Asset fetch failed")
}

// Prefetch resolves the assets of items with bounded concurrency and returns
// how many were resolved. Individual failures are swallowed; a missing image
// never blocks the feed.
func (c *Coordinator) Prefetch(ctx context.Context, items []feed.Item) int {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.prefetchConcurrency)

	resolved := make(chan struct{}, len(items))
	for _, item := range items {
		if !item.HasAsset() {
			continue
		}
		key := item.ImageKey
		g.Go(func() error {
			if _, err := c.Resolve(gctx, key); err == nil {
				resolved <- struct{}{}
			}
			return nil
		})
	}
	_ = g.Wait()
	close(resolved)

	return len(resolved)
}

// SetPrefetchConcurrency overrides the Prefetch concurrency bound.
func (c *Coordinator) SetPrefetchConcurrency(n int) {
	if n > 0 {
		c.prefetchConcurrency = n
	}
}

func outcomeLabel(err error) string {
	if feed.IsCanceled(err) {
		return string(feed.KindCanceled)
	}
	if kind := feed.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}
