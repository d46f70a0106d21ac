package pagination

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/newsfeed-client/pkg/feed"
)

// BatchConfig holds batch fetcher configuration
type BatchConfig struct {
	// PageSize is the number of items requested per page
	PageSize int
	// MaxConcurrency is the maximum number of parallel page requests
	MaxConcurrency int
	// Timeout per page fetch
	Timeout time.Duration
	// MaxPages caps the number of pages a single FetchAll will request
	MaxPages int
}

// DefaultMaxPages is the page cap used when BatchConfig.MaxPages is unset.
const DefaultMaxPages = 1000

// ErrTooManyPages is returned when the reported total exceeds MaxPages.
var ErrTooManyPages = errors.New("feed reports more pages than allowed")

// DefaultBatchConfig returns the default batch configuration
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		PageSize:       feed.DefaultPageSize,
		MaxConcurrency: 4,
		Timeout:        15 * time.Second,
		MaxPages:       DefaultMaxPages,
	}
}

// pageOutcome is the result of fetching a single page
type pageOutcome struct {
	page  int
	items []feed.Item
	err   error
}

// BatchFetcher fetches every page of the feed in parallel
type BatchFetcher struct {
	source feed.RemoteSource
	config BatchConfig
}

// NewBatchFetcher creates a new batch fetcher
func NewBatchFetcher(source feed.RemoteSource, config BatchConfig) *BatchFetcher {
	if config.PageSize <= 0 {
		config.PageSize = feed.DefaultPageSize
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	if config.MaxPages <= 0 {
		config.MaxPages = DefaultMaxPages
	}

	return &BatchFetcher{
		source: source,
		config: config,
	}
}

// TotalPages returns the number of pages needed for totalCount items.
func TotalPages(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

// FetchAll fetches every page and returns the items in page order.
// When some pages fail, the items of the leading successful pages are
// returned together with an error.
func (bf *BatchFetcher) FetchAll(ctx context.Context) ([]feed.Item, error) {
	start := time.Now()

	// Fetch first page to learn the total count
	first, err := bf.fetch(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch first page: %w", err)
	}

	totalPages := TotalPages(first.TotalCount, bf.config.PageSize)
	log.Info().
		Int("total_count", first.TotalCount).
		Int("total_pages", totalPages).
		Msg("Starting parallel page fetch")

	if totalPages <= 1 {
		return first.Items, nil
	}
	if totalPages > bf.config.MaxPages {
		return nil, fmt.Errorf("%w: total_count %d needs %d pages, limit %d",
			ErrTooManyPages, first.TotalCount, totalPages, bf.config.MaxPages)
	}

	pages := map[int][]feed.Item{1: first.Items}

	pageQueue := make(chan int)
	outcomes := make(chan pageOutcome, bf.config.MaxConcurrency)

	go func() {
		defer close(pageQueue)
		for page := 2; page <= totalPages; page++ {
			select {
			case pageQueue <- page:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < bf.config.MaxConcurrency; i++ {
		wg.Add(1)
		go bf.worker(ctx, pageQueue, outcomes, &wg, i)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var firstErr error
	for outcome := range outcomes {
		if outcome.err != nil {
			log.Warn().
				Err(outcome.err).
				Int("page", outcome.page).
				Msg("Page fetch failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("page %d: %w", outcome.page, outcome.err)
			}
			continue
		}
		pages[outcome.page] = outcome.items
	}
	if firstErr == nil && len(pages) < totalPages {
		firstErr = ctx.Err()
		if firstErr == nil {
			firstErr = errors.New("pages missing")
		}
	}

	// Assemble in page order, stopping at the first gap.
	var items []feed.Item
	fetched := 0
	for page := 1; page <= totalPages; page++ {
		pageItems, ok := pages[page]
		if !ok {
			break
		}
		items = append(items, pageItems...)
		fetched++
	}

	if firstErr != nil {
		log.Warn().
			Int("fetched_pages", fetched).
			Int("total_pages", totalPages).
			Msg("Returning partial results")
		return items, fmt.Errorf("partial data (%d/%d pages): %w", fetched, totalPages, firstErr)
	}

	log.Info().
		Int("pages", totalPages).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return items, nil
}

// fetch fetches a single page with the per-page timeout.
func (bf *BatchFetcher) fetch(ctx context.Context, page int) (*feed.PageResult, error) {
	pageCtx, cancel := context.WithTimeout(ctx, bf.config.Timeout)
	defer cancel()

	result, err := bf.source.FetchPage(pageCtx, page, bf.config.PageSize)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, &feed.NetworkError{Kind: feed.KindDecode, Message: "empty page result"}
	}
	return result, nil
}

// worker processes pages from the queue
func (bf *BatchFetcher) worker(ctx context.Context, pageQueue <-chan int, outcomes chan<- pageOutcome, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	pagesProcessed := 0

	for page := range pageQueue {
		select {
		case <-ctx.Done():
			outcomes <- pageOutcome{page: page, err: ctx.Err()}
			continue
		default:
		}

		result, err := bf.fetch(ctx, page)
		if err != nil {
			outcomes <- pageOutcome{page: page, err: err}
			continue
		}

		outcomes <- pageOutcome{page: page, items: result.Items}
		pagesProcessed++
	}

	log.Debug().
		Int("worker_id", workerID).
		Int("pages_processed", pagesProcessed).
		Msg("Worker completed")
}
