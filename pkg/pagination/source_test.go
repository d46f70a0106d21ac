package pagination

import (
	"context"
	"fmt"
	"sync"

	"github.com/Sternrassler/newsfeed-client/pkg/feed"
)

// fakeSource serves a list of total items and can fail or block chosen pages.
type fakeSource struct {
	mu       sync.Mutex
	total    int
	failures map[int]int // page -> remaining failures
	calls    []int
	block    chan struct{}
	started  chan int
}

func newFakeSource(total int) *fakeSource {
	return &fakeSource{
		total:    total,
		failures: make(map[int]int),
	}
}

func (s *fakeSource) failPage(page, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[page] = times
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *fakeSource) FetchPage(ctx context.Context, page, limit int) (*feed.PageResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, page)
	block, started := s.block, s.started
	failing := s.failures[page] > 0
	if failing {
		s.failures[page]--
	}
	s.mu.Unlock()

	if started != nil {
		started <- page
	}
	if block != nil {
		<-block
	}
	if failing {
		return nil, &feed.NetworkError{Kind: feed.KindServer, StatusCode: 503, Message: "unavailable"}
	}

	result := &feed.PageResult{TotalCount: s.total}
	for id := (page-1)*limit + 1; id <= page*limit && id <= s.total; id++ {
		result.Items = append(result.Items, feed.Item{
			ID:       id,
			Title:    fmt.Sprintf("News %d", id),
			ImageKey: fmt.Sprintf("https://img.example.com/%d.jpg", id),
		})
	}
	return result, nil
}

func (s *fakeSource) FetchAsset(ctx context.Context, key string) (feed.Asset, error) {
	return feed.Asset{Key: key}, nil
}
