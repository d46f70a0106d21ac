package commands

import (
	"context"
	"fmt"

	"github.com/Sternrassler/newsfeed-client/pkg/assets"
	"github.com/Sternrassler/newsfeed-client/pkg/cache"
	"github.com/Sternrassler/newsfeed-client/pkg/client"
	"github.com/Sternrassler/newsfeed-client/pkg/config"
	"github.com/Sternrassler/newsfeed-client/pkg/gate"
	"github.com/Sternrassler/newsfeed-client/pkg/logging"
	"github.com/Sternrassler/newsfeed-client/pkg/pagination"
	"github.com/redis/go-redis/v9"
)

// app holds the process-wide components. The asset cache and the fetch gate
// are built once and shared by every controller and view.
type app struct {
	source      *client.Client
	cache       *cache.KeyedCache
	gate        *gate.Gate
	coordinator *assets.Coordinator
	redis       *redis.Client
	config      *config.Config
}

// newRedisClient is replaced in tests.
var newRedisClient = redis.NewClient

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	clientCfg := client.DefaultConfig(cfg.Feed.UserAgent)
	clientCfg.BaseURL = cfg.Feed.BaseURL
	clientCfg.Timeout = cfg.Feed.Timeout

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = newRedisClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClient.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		clientCfg.Redis = redisClient
	}

	closeRedis := func() {
		if redisClient != nil {
			redisClient.Close()
		}
	}

	source, err := client.New(clientCfg)
	if err != nil {
		closeRedis()
		return nil, fmt.Errorf("create feed client: %w", err)
	}

	assetCache, err := cache.New(cfg.Feed.CacheLimit)
	if err != nil {
		closeRedis()
		return nil, err
	}

	fetchGate := gate.New(logging.NewLogger(logging.ComponentGate))

	coordinator, err := assets.New(assetCache, fetchGate, source, logging.NewLogger(logging.ComponentAssets))
	if err != nil {
		closeRedis()
		return nil, err
	}
	coordinator.SetPrefetchConcurrency(cfg.Feed.PrefetchConcurrency)

	return &app{
		source:      source,
		cache:       assetCache,
		gate:        fetchGate,
		coordinator: coordinator,
		redis:       redisClient,
		config:      cfg,
	}, nil
}

func (a *app) newController() (*pagination.Controller, error) {
	return pagination.NewController(
		a.source,
		pagination.Config{PageSize: a.config.Feed.PageSize},
		logging.NewLogger(logging.ComponentPagination),
	)
}

func (a *app) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
