package pagination

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/newsfeed-client/pkg/feed"
)

// Config holds pagination controller configuration
type Config struct {
	// PageSize is the number of items requested per page
	PageSize int
}

// DefaultConfig returns the default controller configuration
func DefaultConfig() Config {
	return Config{
		PageSize: feed.DefaultPageSize,
	}
}

// State is an immutable snapshot of the pagination state.
type State struct {
	// Items are the merged items in page order
	Items []feed.Item
	// CurrentPage is the next page to request (1-based)
	CurrentPage int
	// TotalCount is the last known authoritative count, 0 until the first success
	TotalCount int
	// IsLoading is true while a page fetch is outstanding
	IsLoading bool
	// LastError is the failure of the most recent attempt, nil otherwise
	LastError error
	// HasMore is true while more items can be loaded
	HasMore bool
}

// Controller owns the pagination cursor and the aggregated item list.
// Only one page fetch runs at a time; calls made while loading are ignored.
type Controller struct {
	source feed.RemoteSource
	config Config
	logger zerolog.Logger

	mu          sync.Mutex
	items       []feed.Item
	currentPage int
	totalCount  int
	isLoading   bool
	lastError   error
	hasMore     bool

	subsMu sync.Mutex
	subs   map[chan State]struct{}
}

// NewController creates a controller reading pages from source.
func NewController(source feed.RemoteSource, config Config, logger zerolog.Logger) (*Controller, error) {
	if source == nil {
		return nil, fmt.Errorf("remote source is required")
	}
	if config.PageSize <= 0 {
		return nil, fmt.Errorf("page size must be > 0 (got %d)", config.PageSize)
	}

	return &Controller{
		source:      source,
		config:      config,
		logger:      logger,
		currentPage: 1,
		hasMore:     true,
		subs:        make(map[chan State]struct{}),
	}, nil
}

// LoadInitial restarts pagination from page 1 and loads it. The result of
// page 1 replaces the item list. The call is a no-op while a load is running.
func (c *Controller) LoadInitial(ctx context.Context) error {
	return c.load(ctx, true)
}

// LoadMore fetches the current page and merges it. It is a no-op while a
// load is running or when every known item has been loaded. On failure the
// error is recorded in the state and returned; the page is retried on the
// next call.
func (c *Controller) LoadMore(ctx context.Context) error {
	return c.load(ctx, false)
}

// load reserves the loading flag, fetches the cursor page and merges it.
// With restart the cursor is reset under the same lock as the reservation.
func (c *Controller) load(ctx context.Context, restart bool) error {
	c.mu.Lock()
	if c.isLoading {
		c.mu.Unlock()
		c.logger.Debug().Bool("restart", restart).Msg("Page load skipped, another load is running")
		return nil
	}
	if restart {
		c.currentPage = 1
		c.hasMore = true
	}
	if !c.hasMore {
		c.mu.Unlock()
		return nil
	}
	page := c.currentPage
	c.isLoading = true
	c.lastError = nil
	c.publishLocked()
	c.mu.Unlock()

	// Page loads are not externally cancellable.
	fetchCtx := context.WithoutCancel(ctx)

	start := time.Now()
	result, err := c.source.FetchPage(fetchCtx, page, c.config.PageSize)
	pageLoadDuration.Observe(time.Since(start).Seconds())

	if err == nil && result == nil {
		err = &feed.NetworkError{Kind: feed.KindDecode, Message: "empty page result"}
	}

	c.mu.Lock()
	if err != nil {
		c.lastError = err
		c.isLoading = false
		c.publishLocked()
		c.mu.Unlock()

		pageLoadsTotal.WithLabelValues("error").Inc()
		c.logger.Warn().
			Err(err).
			Int("page", page).
			Str("error_kind", string(feed.KindOf(err))).
			Msg("Page load failed")
		return fmt.Errorf("load page %d: %w", page, err)
	}

	if page != c.currentPage {
		// Cursor moved while this fetch was outstanding.
		current := c.currentPage
		c.isLoading = false
		c.publishLocked()
		c.mu.Unlock()

		staleResponsesTotal.Inc()
		c.logger.Warn().
			Int("page", page).
			Int("current_page", current).
			Msg("Dropping stale page response")
		return nil
	}

	c.merge(page, result)
	snapshot := c.publishLocked()
	c.mu.Unlock()

	pageLoadsTotal.WithLabelValues("success").Inc()
	c.logger.Info().
		Int("page", page).
		Int("received", len(result.Items)).
		Int("items", len(snapshot.Items)).
		Int("total_count", snapshot.TotalCount).
		Bool("has_more", snapshot.HasMore).
		Dur("duration", time.Since(start)).
		Msg("Page merged")

	return nil
}

// merge applies a page result. Callers hold c.mu.
func (c *Controller) merge(page int, result *feed.PageResult) {
	if page == 1 {
		c.items = append([]feed.Item(nil), result.Items...)
	} else {
		c.items = append(c.items, result.Items...)
	}

	c.totalCount = result.TotalCount
	if len(c.items) > c.totalCount {
		c.logger.Warn().
			Int("items", len(c.items)).
			Int("total_count", c.totalCount).
			Msg("Server returned more items than its total count")
		c.totalCount = len(c.items)
	}

	c.hasMore = len(c.items) < c.totalCount
	if len(result.Items) == 0 {
		// An empty page cannot advance the list.
		c.hasMore = false
	}
	c.currentPage = page + 1
	c.isLoading = false
	c.lastError = nil
}

// ShouldLoadMore reports whether item is the last loaded item and more items
// are available. Consumers call it when rendering a row to prefetch the next page.
func (c *Controller) ShouldLoadMore(item feed.Item) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasMore || len(c.items) == 0 {
		return false
	}
	return c.items[len(c.items)-1].ID == item.ID
}

// State returns a consistent snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// snapshotLocked copies the state. Callers hold c.mu.
func (c *Controller) snapshotLocked() State {
	return State{
		Items:       append([]feed.Item(nil), c.items...),
		CurrentPage: c.currentPage,
		TotalCount:  c.totalCount,
		IsLoading:   c.isLoading,
		LastError:   c.lastError,
		HasMore:     c.hasMore,
	}
}
