package pagination

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/newsfeed-client/pkg/feed"
)

func newTestController(t *testing.T, source feed.RemoteSource) *Controller {
	t.Helper()
	ctrl, err := NewController(source, DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	return ctrl
}

func TestNewController_Validation(t *testing.T) {
	tests := []struct {
		name   string
		source feed.RemoteSource
		config Config
	}{
		{name: "nil source", source: nil, config: DefaultConfig()},
		{name: "zero page size", source: newFakeSource(1), config: Config{PageSize: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewController(tt.source, tt.config, zerolog.Nop()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestController_InitialState(t *testing.T) {
	ctrl := newTestController(t, newFakeSource(25))
	state := ctrl.State()

	if state.CurrentPage != 1 || state.TotalCount != 0 || state.IsLoading || state.LastError != nil {
		t.Errorf("unexpected initial state: %+v", state)
	}
	if !state.HasMore {
		t.Error("HasMore should be true before the first load")
	}
}

func TestController_PaginationScenario(t *testing.T) {
	source := newFakeSource(25)
	ctrl := newTestController(t, source)
	ctx := context.Background()

	steps := []struct {
		name        string
		load        func() error
		wantItems   int
		wantPage    int
		wantHasMore bool
	}{
		{name: "load initial", load: func() error { return ctrl.LoadInitial(ctx) }, wantItems: 10, wantPage: 2, wantHasMore: true},
		{name: "second page", load: func() error { return ctrl.LoadMore(ctx) }, wantItems: 20, wantPage: 3, wantHasMore: true},
		{name: "last page", load: func() error { return ctrl.LoadMore(ctx) }, wantItems: 25, wantPage: 4, wantHasMore: false},
		{name: "exhausted", load: func() error { return ctrl.LoadMore(ctx) }, wantItems: 25, wantPage: 4, wantHasMore: false},
	}

	for _, step := range steps {
		if err := step.load(); err != nil {
			t.Fatalf("%s: unexpected error %v", step.name, err)
		}
		state := ctrl.State()
		if len(state.Items) != step.wantItems {
			t.Errorf("%s: items = %d, want %d", step.name, len(state.Items), step.wantItems)
		}
		if state.CurrentPage != step.wantPage {
			t.Errorf("%s: current page = %d, want %d", step.name, state.CurrentPage, step.wantPage)
		}
		if state.HasMore != step.wantHasMore {
			t.Errorf("%s: has more = %v, want %v", step.name, state.HasMore, step.wantHasMore)
		}
		if state.TotalCount != 25 {
			t.Errorf("%s: total count = %d, want 25", step.name, state.TotalCount)
		}
		if state.IsLoading {
			t.Errorf("%s: still loading after return", step.name)
		}
	}

	if got := source.callCount(); got != 3 {
		t.Errorf("FetchPage called %d times, want 3 (exhausted load must not fetch)", got)
	}

	// Items keep page order.
	for i, item := range ctrl.State().Items {
		if item.ID != i+1 {
			t.Fatalf("item %d has ID %d, want %d", i, item.ID, i+1)
		}
	}
}

func TestController_FailedPageIsRetried(t *testing.T) {
	source := newFakeSource(25)
	ctrl := newTestController(t, source)
	ctx := context.Background()

	if err := ctrl.LoadInitial(ctx); err != nil {
		t.Fatalf("LoadInitial failed: %v", err)
	}

	source.failPage(2, 1)
	err := ctrl.LoadMore(ctx)
	if err == nil {
		t.Fatal("LoadMore should return the page error")
	}
	if feed.KindOf(err) != feed.KindServer {
		t.Errorf("error kind = %q, want %q", feed.KindOf(err), feed.KindServer)
	}

	state := ctrl.State()
	if state.LastError == nil {
		t.Error("LastError should be recorded")
	}
	if state.CurrentPage != 2 || len(state.Items) != 10 || state.IsLoading {
		t.Errorf("failure must leave cursor and items unchanged: %+v", state)
	}

	if err := ctrl.LoadMore(ctx); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	state = ctrl.State()
	if state.LastError != nil {
		t.Errorf("LastError = %v, want cleared after success", state.LastError)
	}
	if state.CurrentPage != 3 || len(state.Items) != 20 {
		t.Errorf("retry should merge page 2: page=%d items=%d", state.CurrentPage, len(state.Items))
	}
	if source.calls[1] != 2 || source.calls[2] != 2 {
		t.Errorf("calls = %v, want page 2 requested twice", source.calls)
	}
}

func TestController_ItemsNonDecreasingAndPageAdvancesOnSuccessOnly(t *testing.T) {
	source := newFakeSource(95)
	ctrl := newTestController(t, source)
	ctx := context.Background()

	source.failPage(3, 2)
	source.failPage(7, 1)

	prevItems, prevPage := 0, 1
	for i := 0; i < 20; i++ {
		err := ctrl.LoadMore(ctx)
		state := ctrl.State()

		if len(state.Items) < prevItems {
			t.Fatalf("items shrank from %d to %d", prevItems, len(state.Items))
		}
		if err != nil && state.CurrentPage != prevPage {
			t.Fatalf("page advanced on failure: %d -> %d", prevPage, state.CurrentPage)
		}
		if err == nil && state.CurrentPage < prevPage {
			t.Fatalf("page moved backwards: %d -> %d", prevPage, state.CurrentPage)
		}
		if state.TotalCount > 0 && len(state.Items) > state.TotalCount {
			t.Fatalf("items %d exceed total %d", len(state.Items), state.TotalCount)
		}
		prevItems, prevPage = len(state.Items), state.CurrentPage
	}

	state := ctrl.State()
	if len(state.Items) != 95 || state.HasMore {
		t.Errorf("expected all 95 items loaded, got %d (has more %v)", len(state.Items), state.HasMore)
	}
}

func TestController_LoadInitialReplacesItems(t *testing.T) {
	source := newFakeSource(25)
	ctrl := newTestController(t, source)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = ctrl.LoadMore(ctx)
	}
	if got := len(ctrl.State().Items); got != 25 {
		t.Fatalf("items = %d, want 25", got)
	}

	if err := ctrl.LoadInitial(ctx); err != nil {
		t.Fatalf("LoadInitial failed: %v", err)
	}
	state := ctrl.State()
	if len(state.Items) != 10 {
		t.Errorf("reload should replace items with page 1, got %d", len(state.Items))
	}
	if state.CurrentPage != 2 || !state.HasMore {
		t.Errorf("reload state = page %d has more %v, want page 2 has more true", state.CurrentPage, state.HasMore)
	}
}

func TestController_LoadWhileLoadingIsNoop(t *testing.T) {
	source := newFakeSource(25)
	source.block = make(chan struct{})
	source.started = make(chan int, 1)
	ctrl := newTestController(t, source)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- ctrl.LoadInitial(ctx) }()

	select {
	case <-source.started:
	case <-time.After(time.Second):
		t.Fatal("page fetch did not start")
	}

	if !ctrl.State().IsLoading {
		t.Error("IsLoading should be true while the fetch is outstanding")
	}
	if err := ctrl.LoadMore(ctx); err != nil {
		t.Errorf("concurrent LoadMore returned %v, want nil no-op", err)
	}
	if err := ctrl.LoadInitial(ctx); err != nil {
		t.Errorf("concurrent LoadInitial returned %v, want nil no-op", err)
	}

	close(source.block)
	if err := <-done; err != nil {
		t.Fatalf("LoadInitial failed: %v", err)
	}
	if got := source.callCount(); got != 1 {
		t.Errorf("FetchPage called %d times, want 1", got)
	}
	if got := ctrl.State().CurrentPage; got != 2 {
		t.Errorf("current page = %d, want 2", got)
	}
}

func TestController_PageLoadIgnoresCallerCancellation(t *testing.T) {
	ctrl := newTestController(t, newFakeSource(5))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := ctrl.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore failed: %v", err)
	}
	if got := len(ctrl.State().Items); got != 5 {
		t.Errorf("items = %d, want 5", got)
	}
}

func TestController_ShouldLoadMore(t *testing.T) {
	ctrl := newTestController(t, newFakeSource(15))
	ctx := context.Background()

	if ctrl.ShouldLoadMore(feed.Item{ID: 1}) {
		t.Error("ShouldLoadMore on empty list should be false")
	}

	_ = ctrl.LoadInitial(ctx)

	tests := []struct {
		name string
		item feed.Item
		want bool
	}{
		{name: "last item", item: feed.Item{ID: 10}, want: true},
		{name: "earlier item", item: feed.Item{ID: 9}, want: false},
		{name: "unknown item", item: feed.Item{ID: 99}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ctrl.ShouldLoadMore(tt.item); got != tt.want {
				t.Errorf("ShouldLoadMore(%d) = %v, want %v", tt.item.ID, got, tt.want)
			}
		})
	}

	_ = ctrl.LoadMore(ctx)
	if ctrl.ShouldLoadMore(feed.Item{ID: 15}) {
		t.Error("ShouldLoadMore must be false once every item is loaded")
	}
}

func TestController_SnapshotIsolation(t *testing.T) {
	ctrl := newTestController(t, newFakeSource(25))
	_ = ctrl.LoadInitial(context.Background())

	snapshot := ctrl.State()
	snapshot.Items[0].Title = "mutated"

	if ctrl.State().Items[0].Title == "mutated" {
		t.Error("mutating a snapshot must not affect controller state")
	}
}

func TestController_EmptyPageStops(t *testing.T) {
	source := &lyingSource{}
	ctrl := newTestController(t, source)

	if err := ctrl.LoadMore(context.Background()); err != nil {
		t.Fatalf("LoadMore failed: %v", err)
	}
	if ctrl.State().HasMore {
		t.Error("an empty page must end pagination")
	}
}

// lyingSource claims more items than it ever returns.
type lyingSource struct{}

func (lyingSource) FetchPage(ctx context.Context, page, limit int) (*feed.PageResult, error) {
	return &feed.PageResult{TotalCount: 50}, nil
}

func (lyingSource) FetchAsset(ctx context.Context, key string) (feed.Asset, error) {
	return feed.Asset{}, errors.New("not implemented")
}
