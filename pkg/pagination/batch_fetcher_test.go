package pagination

import (
	"context"
	"errors"
	"testing"

	"github.com/Sternrassler/newsfeed-client/pkg/feed"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{total: 0, size: 10, want: 0},
		{total: 1, size: 10, want: 1},
		{total: 10, size: 10, want: 1},
		{total: 25, size: 10, want: 3},
		{total: 25, size: 0, want: 0},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestBatchFetcher_FetchAll(t *testing.T) {
	source := newFakeSource(47)
	bf := NewBatchFetcher(source, DefaultBatchConfig())

	items, err := bf.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(items) != 47 {
		t.Fatalf("items = %d, want 47", len(items))
	}
	for i, item := range items {
		if item.ID != i+1 {
			t.Fatalf("item %d has ID %d, want page order", i, item.ID)
		}
	}
	if got := source.callCount(); got != 5 {
		t.Errorf("FetchPage called %d times, want 5", got)
	}
}

func TestBatchFetcher_SinglePage(t *testing.T) {
	source := newFakeSource(4)
	bf := NewBatchFetcher(source, BatchConfig{})

	items, err := bf.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(items) != 4 || source.callCount() != 1 {
		t.Errorf("items=%d calls=%d, want 4 and 1", len(items), source.callCount())
	}
}

func TestBatchFetcher_PartialFailure(t *testing.T) {
	source := newFakeSource(50)
	source.failPage(3, 1)
	bf := NewBatchFetcher(source, DefaultBatchConfig())

	items, err := bf.FetchAll(context.Background())
	if err == nil {
		t.Fatal("expected partial data error")
	}
	if len(items) != 20 {
		t.Errorf("items = %d, want the 20 items before the failed page", len(items))
	}
}

func TestBatchFetcher_FirstPageFailure(t *testing.T) {
	source := newFakeSource(50)
	source.failPage(1, 1)
	bf := NewBatchFetcher(source, DefaultBatchConfig())

	items, err := bf.FetchAll(context.Background())
	if err == nil || items != nil {
		t.Errorf("FetchAll() = (%v, %v), want nil items and error", items, err)
	}
}

// inflatedSource reports a total far beyond what it serves.
type inflatedSource struct {
	*fakeSource
	reported int
}

func (s *inflatedSource) FetchPage(ctx context.Context, page, limit int) (*feed.PageResult, error) {
	result, err := s.fakeSource.FetchPage(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	result.TotalCount = s.reported
	return result, nil
}

func TestBatchFetcher_HugeTotalCount(t *testing.T) {
	source := &inflatedSource{fakeSource: newFakeSource(1), reported: 1 << 40}
	bf := NewBatchFetcher(source, DefaultBatchConfig())

	items, err := bf.FetchAll(context.Background())
	if !errors.Is(err, ErrTooManyPages) {
		t.Fatalf("FetchAll() error = %v, want ErrTooManyPages", err)
	}
	if items != nil {
		t.Errorf("items = %d, want none", len(items))
	}
	if got := source.callCount(); got != 1 {
		t.Errorf("FetchPage called %d times, want 1", got)
	}
}

func TestBatchFetcher_MaxPagesBoundary(t *testing.T) {
	source := newFakeSource(30)
	bf := NewBatchFetcher(source, BatchConfig{PageSize: 10, MaxPages: 3})

	items, err := bf.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(items) != 30 {
		t.Errorf("items = %d, want 30", len(items))
	}
}
