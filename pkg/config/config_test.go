package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feedctl.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Feed.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", cfg.Feed.PageSize)
	}
	if cfg.Feed.CacheLimit != 100 {
		t.Errorf("CacheLimit = %d, want 100", cfg.Feed.CacheLimit)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	defaults := DefaultConfig()
	if cfg.Feed != defaults.Feed {
		t.Errorf("Feed = %+v, want %+v", cfg.Feed, defaults.Feed)
	}
	if cfg.Server != defaults.Server {
		t.Errorf("Server = %+v, want %+v", cfg.Server, defaults.Server)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
feed:
  base_url: http://localhost:9000
  page_size: 20
  cache_limit: 50
  timeout: 5s
redis:
  enabled: true
  addr: redis:6379
  db: 2
logging:
  level: DEBUG
  pretty: true
server:
  addr: 127.0.0.1:9090
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Feed.BaseURL != "http://localhost:9000" {
		t.Errorf("BaseURL = %q", cfg.Feed.BaseURL)
	}
	if cfg.Feed.PageSize != 20 || cfg.Feed.CacheLimit != 50 {
		t.Errorf("PageSize/CacheLimit = %d/%d, want 20/50", cfg.Feed.PageSize, cfg.Feed.CacheLimit)
	}
	if cfg.Feed.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Feed.Timeout)
	}
	if cfg.Feed.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q, want default", cfg.Feed.UserAgent)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Addr != "redis:6379" || cfg.Redis.DB != 2 {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.Pretty {
		t.Errorf("Logging = %+v, want normalized debug level", cfg.Logging)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FEEDCTL_FEED_PAGE_SIZE", "25")
	t.Setenv("FEEDCTL_LOGGING_LEVEL", "warn")

	path := writeConfig(t, "feed:\n  page_size: 20\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Feed.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25 from env", cfg.Feed.PageSize)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn from env", cfg.Logging.Level)
	}
}

func TestLoad_EnvWithoutFile(t *testing.T) {
	t.Setenv("FEEDCTL_FEED_CACHE_LIMIT", "7")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Feed.CacheLimit != 7 {
		t.Errorf("CacheLimit = %d, want 7", cfg.Feed.CacheLimit)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "negative page size",
			content: "feed:\n  page_size: -1\n",
			wantErr: "PageSize",
		},
		{
			name:    "unknown log level",
			content: "logging:\n  level: verbose\n",
			wantErr: "Level",
		},
		{
			name:    "bad base url",
			content: "feed:\n  base_url: not a url\n",
			wantErr: "BaseURL",
		},
		{
			name:    "redis db out of range",
			content: "redis:\n  db: 99\n",
			wantErr: "DB",
		},
		{
			name:    "malformed yaml",
			content: "feed: [\n",
			wantErr: "failed to read config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Expected error but got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "WARNING"}}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Feed.PageSize != 10 || cfg.Feed.CacheLimit != 100 {
		t.Errorf("Feed = %+v, want default sizes", cfg.Feed)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("config with defaults applied should be valid: %v", err)
	}
}

func TestValidate_RedisEnabledWithoutAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = ""

	if err := Validate(cfg); err == nil {
		t.Error("Expected error for enabled redis without address")
	}
}
