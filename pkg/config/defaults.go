package config

import (
	"strings"
	"time"

	"github.com/Sternrassler/newsfeed-client/pkg/assets"
	"github.com/Sternrassler/newsfeed-client/pkg/client"
	"github.com/Sternrassler/newsfeed-client/pkg/feed"
)

// DefaultUserAgent identifies feedctl to the news API.
const DefaultUserAgent = "feedctl/1.0"

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			BaseURL:             client.DefaultBaseURL,
			UserAgent:           DefaultUserAgent,
			PageSize:            feed.DefaultPageSize,
			CacheLimit:          feed.DefaultCacheLimit,
			Timeout:             30 * time.Second,
			PrefetchConcurrency: assets.DefaultPrefetchConcurrency,
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// ApplyDefaults fills zero values with defaults and normalizes the log level.
func ApplyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Feed.BaseURL == "" {
		cfg.Feed.BaseURL = defaults.Feed.BaseURL
	}
	if cfg.Feed.UserAgent == "" {
		cfg.Feed.UserAgent = defaults.Feed.UserAgent
	}
	if cfg.Feed.PageSize == 0 {
		cfg.Feed.PageSize = defaults.Feed.PageSize
	}
	if cfg.Feed.CacheLimit == 0 {
		cfg.Feed.CacheLimit = defaults.Feed.CacheLimit
	}
	if cfg.Feed.Timeout == 0 {
		cfg.Feed.Timeout = defaults.Feed.Timeout
	}
	if cfg.Feed.PrefetchConcurrency == 0 {
		cfg.Feed.PrefetchConcurrency = defaults.Feed.PrefetchConcurrency
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = defaults.Redis.Addr
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	if cfg.Logging.Level == "warning" {
		cfg.Logging.Level = "warn"
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaults.Server.Addr
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = defaults.Server.ShutdownTimeout
	}
}
