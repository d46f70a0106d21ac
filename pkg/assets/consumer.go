package assets

import (
	"context"
	"sync"

	"github.com/Sternrassler/newsfeed-client/pkg/feed"
)

// Consumer tracks the asset interest of a single view, such as a list row
// or a detail screen. Starting a new resolve withdraws the previous one, which
// matches a recycled row switching to another item.
type Consumer struct {
	coord *Coordinator

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewConsumer creates a consumer bound to the coordinator.
func (c *Coordinator) NewConsumer() *Consumer {
	return &Consumer{coord: c}
}

// begin withdraws any pending interest and registers a new one.
func (cs *Consumer) begin(ctx context.Context) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(ctx)

	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.cancel != nil {
		cs.cancel()
	}
	cs.seq++
	cs.cancel = cancel
	return ctx, cs.seq
}

// end releases the interest identified by seq if it is still current.
func (cs *Consumer) end(seq uint64) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.seq == seq && cs.cancel != nil {
		cs.cancel()
		cs.cancel = nil
	}
}

// Resolve resolves key on behalf of this consumer.
func (cs *Consumer) Resolve(ctx context.Context, key string) (feed.Asset, error) {
	ctx, seq := cs.begin(ctx)
	defer cs.end(seq)
	return cs.coord.Resolve(ctx, key)
}

// Load resolves key in the background and calls deliver with the asset if
// the resolve succeeds and is still this consumer's current interest. A
// cached asset is delivered before Load returns. deliver must not call back
// into the consumer.
func (cs *Consumer) Load(ctx context.Context, key string, deliver func(feed.Asset)) {
	ctx, seq := cs.begin(ctx)

	if key != "" {
		if asset, ok := cs.coord.cache.Get(key); ok {
			cs.deliver(seq, asset, deliver)
			cs.end(seq)
			return
		}
	}

	go func() {
		defer cs.end(seq)
		asset, err := cs.coord.Resolve(ctx, key)
		if err != nil {
			return
		}
		cs.deliver(seq, asset, deliver)
	}()
}

// deliver invokes fn only while seq is the current interest.
func (cs *Consumer) deliver(seq uint64, asset feed.Asset, fn func(feed.Asset)) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.seq != seq || cs.cancel == nil {
		return
	}
	fn(asset)
}

// CancelInterest withdraws the consumer's pending interest, if any. Pending
// deliveries for it are dropped.
func (cs *Consumer) CancelInterest() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.cancel != nil {
		cs.cancel()
		cs.cancel = nil
	}
	cs.seq++
}
