package httpcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRevalidateWindow is how long a stale entry is kept for conditional requests.
const DefaultRevalidateWindow = 10 * time.Minute

var (
	// ErrCacheMiss indicates the requested key was not found
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the stored entry is corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store keeps page responses in Redis.
type Store struct {
	redis            *redis.Client
	revalidateWindow time.Duration
}

// NewStore creates a store with the default revalidation window.
func NewStore(redisClient *redis.Client) *Store {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Store{
		redis:            redisClient,
		revalidateWindow: DefaultRevalidateWindow,
	}
}

// WithRevalidateWindow sets how long stale entries are retained.
func (s *Store) WithRevalidateWindow(window time.Duration) *Store {
	if window >= 0 {
		s.revalidateWindow = window
	}
	return s
}

// Get returns the stored entry for key, fresh or stale.
// Returns ErrCacheMiss if nothing is stored.
func (s *Store) Get(ctx context.Context, key Key) (*Entry, error) {
	data, err := s.redis.Get(ctx, key.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			CacheMisses.Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		_ = s.Delete(ctx, key)
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	if entry.Fresh() {
		CacheHits.WithLabelValues("fresh").Inc()
	} else {
		CacheHits.WithLabelValues("stale").Inc()
	}

	return &entry, nil
}

// Set stores entry. It is retained for its freshness lifetime plus the
// revalidation window; an entry that can be neither served fresh nor
// revalidated is not stored. A no-store entry is never written and removes
// any entry already held under key.
func (s *Store) Set(ctx context.Context, key Key, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}
	if entry.NoStore {
		return s.Delete(ctx, key)
	}

	ttl := entry.FreshFor()
	if entry.CanRevalidate() {
		ttl += s.revalidateWindow
	}
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := s.redis.Set(ctx, key.String(), data, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Delete removes a stored entry.
func (s *Store) Delete(ctx context.Context, key Key) error {
	if err := s.redis.Del(ctx, key.String()).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
