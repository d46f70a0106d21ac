// Package config loads feedctl configuration from a YAML file and
// FEEDCTL_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	// Feed configures the news API and client-side loading
	Feed FeedConfig `mapstructure:"feed" yaml:"feed"`

	// Redis configures the optional page response store
	Redis RedisConfig `mapstructure:"redis" yaml:"redis"`

	// Logging configures zerolog output
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Server configures `feedctl serve`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
}

// FeedConfig configures pagination, the asset cache and the HTTP source.
type FeedConfig struct {
	BaseURL   string `mapstructure:"base_url" validate:"required,url" yaml:"base_url"`
	UserAgent string `mapstructure:"user_agent" validate:"required" yaml:"user_agent"`

	// PageSize is the number of items requested per page
	PageSize int `mapstructure:"page_size" validate:"required,min=1,max=100" yaml:"page_size"`

	// CacheLimit bounds the number of cached assets
	CacheLimit int `mapstructure:"cache_limit" validate:"required,min=1" yaml:"cache_limit"`

	// Timeout per HTTP request
	Timeout time.Duration `mapstructure:"timeout" validate:"required,gt=0" yaml:"timeout"`

	// PrefetchConcurrency bounds parallel asset resolution for a page
	PrefetchConcurrency int `mapstructure:"prefetch_concurrency" validate:"required,min=1,max=64" yaml:"prefetch_concurrency"`
}

// RedisConfig configures the page response store.
type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr" validate:"omitempty,hostname_port" yaml:"addr"`
	DB      int    `mapstructure:"db" validate:"min=0,max=15" yaml:"db"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error" yaml:"level"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

// ServerConfig configures the HTTP facade.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required" yaml:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0" yaml:"shutdown_timeout"`
}

// Load reads configuration from configPath (or ./feedctl.yaml when empty),
// applies FEEDCTL_* environment overrides and validates the result.
// A missing config file is not an error; defaults are used.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use FEEDCTL_ prefix and underscores
	// Example: FEEDCTL_FEED_PAGE_SIZE=20
	v.SetEnvPrefix("FEEDCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults register every key so env overrides apply without a file.
	defaults := DefaultConfig()
	v.SetDefault("feed.base_url", defaults.Feed.BaseURL)
	v.SetDefault("feed.user_agent", defaults.Feed.UserAgent)
	v.SetDefault("feed.page_size", defaults.Feed.PageSize)
	v.SetDefault("feed.cache_limit", defaults.Feed.CacheLimit)
	v.SetDefault("feed.timeout", defaults.Feed.Timeout)
	v.SetDefault("feed.prefetch_concurrency", defaults.Feed.PrefetchConcurrency)
	v.SetDefault("redis.enabled", defaults.Redis.Enabled)
	v.SetDefault("redis.addr", defaults.Redis.Addr)
	v.SetDefault("redis.db", defaults.Redis.DB)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.pretty", defaults.Logging.Pretty)
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("feedctl")
		v.SetConfigType("yaml")
	}
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		// An explicit config path that does not exist
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	return true, nil
}
