// Package gate provides per-key request de-duplication with refcounted
// cancellation.
//
// At most one flight exists per key at any instant. The first caller to
// Acquire a key becomes the leader and drives the underlying fetch on the
// flight's context; later callers join as waiters and observe the same
// outcome. Withdrawing interest is advisory: the flight's context is
// cancelled only when its last waiter leaves.
package gate

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/newsfeed-client/pkg/feed"
)

// Gate is the in-flight request registry. It is safe for concurrent use and
// is meant to be shared process-wide.
type Gate struct {
	mu      sync.Mutex
	flights map[string]*flight
	logger  zerolog.Logger
}

type flight struct {
	key     string
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	waiters map[uuid.UUID]struct{}

	// asset and err are written once, before done is closed.
	asset feed.Asset
	err   error
}

// New creates an empty gate.
func New(logger zerolog.Logger) *Gate {
	return &Gate{
		flights: make(map[string]*flight),
		logger:  logger,
	}
}

// Acquire registers interest in key. If a flight for key already exists the
// caller joins it and joined is true. Otherwise a new flight is registered,
// joined is false, and the caller owns the returned handle's Complete.
func (g *Gate) Acquire(key string) (joined bool, h *Handle) {
	token := uuid.New()

	g.mu.Lock()
	defer g.mu.Unlock()

	if f, ok := g.flights[key]; ok {
		f.waiters[token] = struct{}{}
		GateJoins.Inc()
		g.logger.Debug().
			Str("key", key).
			Int("waiters", len(f.waiters)).
			Msg("Joined in-flight request")
		return true, &Handle{gate: g, flight: f, token: token}
	}

	ctx, cancel := context.WithCancel(context.Background())
	f := &flight{
		key:     key,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		waiters: map[uuid.UUID]struct{}{token: {}},
	}
	g.flights[key] = f

	FlightsStarted.Inc()
	InFlight.Inc()
	g.logger.Debug().Str("key", key).Msg("Started new request")

	return false, &Handle{gate: g, flight: f, token: token, leader: true}
}

// Cancel withdraws the interest identified by token in the flight for key.
// When the last waiter withdraws, the flight's context is cancelled and the
// registry entry is removed so that later acquires start a fresh flight.
// Returns false if no such interest is registered.
func (g *Gate) Cancel(key string, token uuid.UUID) bool {
	g.mu.Lock()
	f, ok := g.flights[key]
	if !ok {
		g.mu.Unlock()
		return false
	}
	if _, ok := f.waiters[token]; !ok {
		g.mu.Unlock()
		return false
	}

	delete(f.waiters, token)
	GateCancellations.Inc()

	last := len(f.waiters) == 0
	if last {
		delete(g.flights, key)
		InFlight.Dec()
		FlightsAborted.Inc()
	}
	remaining := len(f.waiters)
	g.mu.Unlock()

	if last {
		f.cancel()
		g.logger.Debug().Str("key", key).Msg("Last waiter withdrew, request aborted")
	} else {
		g.logger.Debug().
			Str("key", key).
			Int("waiters", remaining).
			Msg("Waiter withdrew, request continues")
	}

	return true
}

// InFlight returns the number of registered flights.
func (g *Gate) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.flights)
}

// Waiters returns the number of callers interested in the flight for key.
func (g *Gate) Waiters(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if f, ok := g.flights[key]; ok {
		return len(f.waiters)
	}
	return 0
}

// complete stores the outcome, unregisters the flight if it is still the
// registered one, and only then releases the waiters.
func (g *Gate) complete(f *flight, asset feed.Asset, err error) bool {
	g.mu.Lock()
	select {
	case <-f.done:
		g.mu.Unlock()
		return false
	default:
	}

	if g.flights[f.key] == f {
		delete(g.flights, f.key)
		InFlight.Dec()
	}
	f.asset = asset
	f.err = err
	close(f.done)
	g.mu.Unlock()

	f.cancel()
	return true
}
