package gate

import (
	"context"

	"github.com/google/uuid"

	"github.com/Sternrassler/newsfeed-client/pkg/feed"
)

// Handle is one caller's interest in a flight.
type Handle struct {
	gate   *Gate
	flight *flight
	token  uuid.UUID
	leader bool
}

// Key returns the flight key.
func (h *Handle) Key() string {
	return h.flight.key
}

// Token identifies this caller's interest for Gate.Cancel.
func (h *Handle) Token() uuid.UUID {
	return h.token
}

// Leader reports whether this handle registered the flight.
func (h *Handle) Leader() bool {
	return h.leader
}

// Context is cancelled when every waiter has withdrawn or the flight
// completed. The leader runs the underlying fetch on it.
func (h *Handle) Context() context.Context {
	return h.flight.ctx
}

// Done is closed once the flight's outcome is available.
func (h *Handle) Done() <-chan struct{} {
	return h.flight.done
}

// Complete publishes the outcome to every waiter. Only the leader may
// complete a flight; the call returns false for joiners and for flights that
// were already completed.
func (h *Handle) Complete(asset feed.Asset, err error) bool {
	if !h.leader {
		return false
	}
	return h.gate.complete(h.flight, asset, err)
}

// Wait blocks until the flight completes or ctx ends. When ctx ends first,
// this caller's interest is withdrawn and a canceled error is returned; other
// waiters are unaffected.
func (h *Handle) Wait(ctx context.Context) (feed.Asset, error) {
	select {
	case <-h.flight.done:
		return h.flight.asset, h.flight.err
	case <-ctx.Done():
	}

	// An outcome that landed concurrently wins over the withdrawal.
	select {
	case <-h.flight.done:
		return h.flight.asset, h.flight.err
	default:
	}

	h.Cancel()
	return feed.Asset{}, feed.NewWithdrawnError(ctx.Err())
}

// Cancel withdraws this caller's interest.
func (h *Handle) Cancel() bool {
	return h.gate.Cancel(h.flight.key, h.token)
}
