// Package client provides the HTTP RemoteSource for the news API with
// optional Redis-backed response revalidation and error classification.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Sternrassler/newsfeed-client/pkg/feed"
	"github.com/Sternrassler/newsfeed-client/pkg/httpcache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the production news API.
const DefaultBaseURL = "https://webapi.autodoc.ru"

// maxAssetSize bounds asset downloads.
const maxAssetSize = 16 << 20

// Prometheus metrics for news API operations.
var (
	feedRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_requests_total",
		Help: "Total news API requests by operation and status",
	}, []string{"operation", "status"})

	feedRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feed_request_duration_seconds",
		Help:    "News API request duration in seconds by operation",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"operation"})

	feedErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_errors_total",
		Help: "Total news API errors by kind",
	}, []string{"kind"})
)

// Client fetches pages and assets over HTTP. It implements feed.RemoteSource.
type Client struct {
	httpClient *http.Client
	store      *httpcache.Store
	baseURL    *url.URL
	config     Config
	logger     zerolog.Logger
}

var _ feed.RemoteSource = (*Client)(nil)

// Config holds the client configuration.
type Config struct {
	// BaseURL of the news API (e.g., "https://webapi.autodoc.ru")
	BaseURL string

	// User-Agent header sent with every request
	UserAgent string

	// Timeout per HTTP request
	Timeout time.Duration

	// Redis enables page response revalidation when set (optional)
	Redis *redis.Client
}

// DefaultConfig returns a default configuration without Redis.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
	}
}

// New creates a news API client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be > 0 (got %s)", cfg.Timeout)
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("base url must be an absolute http(s) url (got %q)", cfg.BaseURL)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    base,
		config:     cfg,
		logger:     log.With().Str("component", "feed-client").Logger(),
	}

	if cfg.Redis != nil {
		c.store = httpcache.NewStore(cfg.Redis)
	}

	return c, nil
}

// FetchPage requests one page of the feed. With a response store configured,
// fresh stored pages are served without a request and stale ones are
// revalidated with a conditional request.
func (c *Client) FetchPage(ctx context.Context, page, limit int) (*feed.PageResult, error) {
	if page < 1 || limit < 1 {
		return nil, c.fail("page", invalidRequest(fmt.Sprintf("page and limit must be >= 1 (got %d, %d)", page, limit)))
	}

	startTime := time.Now()
	defer func() {
		feedRequestDuration.WithLabelValues("page").Observe(time.Since(startTime).Seconds())
	}()

	key := httpcache.PageKey(page, limit)
	cached := c.lookup(ctx, key)
	if cached.Fresh() {
		c.logger.Debug().Int("page", page).Dur("age", cached.Age()).Msg("Serving stored page")
		feedRequestsTotal.WithLabelValues("page", "cached").Inc()
		return c.decodePage(cached.Body)
	}

	endpoint := c.baseURL.JoinPath("api", "news", strconv.Itoa(page), strconv.Itoa(limit))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, c.fail("page", invalidRequest(err.Error()))
	}
	req.Header.Set("Accept", "application/json")
	if cached != nil && cached.CanRevalidate() {
		httpcache.ApplyValidators(req, cached)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, c.fail("page", classifyTransport(ctx, err))
	}
	defer resp.Body.Close()

	feedRequestsTotal.WithLabelValues("page", strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusNotModified {
		if cached == nil {
			return nil, c.fail("page", &feed.NetworkError{
				Kind:       feed.KindServer,
				StatusCode: resp.StatusCode,
				Err:        ErrNotModified,
			})
		}
		httpcache.NotModifiedResponses.Inc()
		c.logger.Debug().Int("page", page).Msg("304 Not Modified - using stored page")
		c.save(ctx, key, httpcache.Revalidated(cached, resp.Header))
		return c.decodePage(cached.Body)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn().
			Int("page", page).
			Int("status", resp.StatusCode).
			Msg("News API request error")
		return nil, c.fail("page", classifyStatus(resp))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail("page", classifyTransport(ctx, err))
	}

	result, err := c.decodePage(body)
	if err != nil {
		return nil, err
	}

	c.save(ctx, key, httpcache.NewEntry(resp.Header, body))

	c.logger.Debug().
		Int("page", page).
		Int("items", len(result.Items)).
		Int("total", result.TotalCount).
		Msg("Fetched page")

	return result, nil
}

// FetchAsset downloads the payload at key, which must be an absolute http(s) URL.
func (c *Client) FetchAsset(ctx context.Context, key string) (feed.Asset, error) {
	target, err := url.Parse(key)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return feed.Asset{}, c.fail("asset", invalidRequest(fmt.Sprintf("asset key is not an absolute http(s) url: %q", key)))
	}

	startTime := time.Now()
	defer func() {
		feedRequestDuration.WithLabelValues("asset").Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return feed.Asset{}, c.fail("asset", invalidRequest(err.Error()))
	}

	resp, err := c.do(req)
	if err != nil {
		return feed.Asset{}, c.fail("asset", classifyTransport(ctx, err))
	}
	defer resp.Body.Close()

	feedRequestsTotal.WithLabelValues("asset", strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return feed.Asset{}, c.fail("asset", classifyStatus(resp))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return feed.Asset{}, c.fail("asset", classifyTransport(ctx, err))
	}
	if len(data) > maxAssetSize {
		return feed.Asset{}, c.fail("asset", decodeError(fmt.Sprintf("asset exceeds %d bytes", maxAssetSize), nil))
	}
	if len(data) == 0 {
		return feed.Asset{}, c.fail("asset", decodeError("empty asset body", nil))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return feed.Asset{Key: key, Data: data, ContentType: contentType}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Store returns the response store, nil without Redis.
func (c *Client) Store() *httpcache.Store {
	return c.store
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.config.UserAgent)

	c.logger.Debug().
		Str("url", req.URL.String()).
		Str("method", req.Method).
		Msg("Executing request")

	return c.httpClient.Do(req)
}

func (c *Client) decodePage(body []byte) (*feed.PageResult, error) {
	var result feed.PageResult
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&result); err != nil {
		return nil, c.fail("page", decodeError("malformed page payload", err))
	}
	if result.TotalCount < 0 {
		return nil, c.fail("page", decodeError(fmt.Sprintf("negative totalCount %d", result.TotalCount), nil))
	}
	return &result, nil
}

// lookup returns the stored entry for key or nil. Store errors degrade to a
// plain request.
func (c *Client) lookup(ctx context.Context, key httpcache.Key) *httpcache.Entry {
	if c.store == nil {
		return nil
	}
	entry, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, httpcache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache get error")
		}
		return nil
	}
	return entry
}

func (c *Client) save(ctx context.Context, key httpcache.Key, entry *httpcache.Entry) {
	if c.store == nil {
		return
	}
	if err := c.store.Set(ctx, key, entry); err != nil {
		c.logger.Warn().Err(err).Str("key", key.String()).Msg("Failed to store response")
	}
}

func (c *Client) fail(operation string, err *feed.NetworkError) error {
	feedErrorsTotal.WithLabelValues(string(err.Kind)).Inc()
	if err.Kind == feed.KindCanceled {
		c.logger.Debug().Str("operation", operation).Msg("Request canceled")
	}
	return err
}
