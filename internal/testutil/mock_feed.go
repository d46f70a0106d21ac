// Package testutil provides a mock news API for tests and examples.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Sternrassler/newsfeed-client/pkg/feed"
)

// MockFeedResponse overrides the response of a single page.
type MockFeedResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockFeed is a configurable mock news API. It serves TotalCount generated
// items under /api/news/{page}/{limit} and image payloads under /images/.
type MockFeed struct {
	server *httptest.Server

	mu           sync.RWMutex
	totalCount   int
	pages        map[int]MockFeedResponse
	cacheControl string
	assetDelay   time.Duration
	assetStatus  int

	// Tracking
	PageRequests        int
	AssetRequests       int
	ConditionalRequests int
	LastRequestHeader   http.Header
}

// NewMockFeed starts a mock API holding totalCount items.
func NewMockFeed(totalCount int) *MockFeed {
	mock := &MockFeed{
		totalCount:   totalCount,
		pages:        make(map[int]MockFeedResponse),
		cacheControl: "max-age=300",
		assetStatus:  http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/news/", mock.handlePage)
	mux.HandleFunc("/images/", mock.handleAsset)
	mock.server = httptest.NewServer(mux)

	return mock
}

// URL returns the mock server URL.
func (m *MockFeed) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockFeed) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockFeed) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PageRequests = 0
	m.AssetRequests = 0
	m.ConditionalRequests = 0
	m.LastRequestHeader = nil
}

// SetTotalCount changes the number of items the feed holds.
func (m *MockFeed) SetTotalCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalCount = n
}

// SetPageResponse overrides the response for page.
func (m *MockFeed) SetPageResponse(page int, resp MockFeedResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[page] = resp
}

// ClearPageResponse restores generated content for page.
func (m *MockFeed) ClearPageResponse(page int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pages, page)
}

// SetCacheControl sets the Cache-Control header of page responses.
func (m *MockFeed) SetCacheControl(value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheControl = value
}

// SetAssetDelay delays every asset response.
func (m *MockFeed) SetAssetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assetDelay = d
}

// SetAssetStatus sets the status code of asset responses.
func (m *MockFeed) SetAssetStatus(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assetStatus = status
}

// GetPageRequests returns the number of page requests served.
func (m *MockFeed) GetPageRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PageRequests
}

// GetAssetRequests returns the number of asset requests served.
func (m *MockFeed) GetAssetRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.AssetRequests
}

// GetConditionalRequests returns the number of conditional page requests.
func (m *MockFeed) GetConditionalRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalRequests
}

// GetLastRequestHeader returns the headers of the last page request.
func (m *MockFeed) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader
}

// ImageURL returns the asset key of item id.
func (m *MockFeed) ImageURL(id int) string {
	return fmt.Sprintf("%s/images/%d.jpg", m.server.URL, id)
}

// AssetBody returns the payload served for item id.
func AssetBody(id int) []byte {
	return []byte(fmt.Sprintf("image-%d", id))
}

// Item returns the generated item at 1-based position id.
func (m *MockFeed) Item(id int) feed.Item {
	return feed.Item{
		ID:            id,
		Title:         fmt.Sprintf("News %d", id),
		Description:   fmt.Sprintf("Description of news %d", id),
		PublishedDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(-time.Duration(id) * time.Hour).Format(time.RFC3339),
		URL:           fmt.Sprintf("news/%d", id),
		FullURL:       fmt.Sprintf("%s/news/%d", m.server.URL, id),
		ImageKey:      m.ImageURL(id),
	}
}

func (m *MockFeed) handlePage(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := parsePagePath(r.URL.Path)

	m.mu.Lock()
	m.PageRequests++
	m.LastRequestHeader = r.Header.Clone()
	conditional := r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != ""
	if conditional {
		m.ConditionalRequests++
	}
	override, overridden := m.pages[page]
	total := m.totalCount
	cacheControl := m.cacheControl
	m.mu.Unlock()

	if !ok {
		http.Error(w, `{"error": "bad request"}`, http.StatusBadRequest)
		return
	}

	if overridden {
		writeOverride(w, override)
		return
	}

	etag := fmt.Sprintf(`"page-%d-%d-%d"`, page, limit, total)
	w.Header().Set("ETag", etag)
	if cacheControl != "" {
		w.Header().Set("Cache-Control", cacheControl)
	}

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	result := feed.PageResult{Items: []feed.Item{}, TotalCount: total}
	for id := (page-1)*limit + 1; id <= page*limit && id <= total; id++ {
		result.Items = append(result.Items, m.Item(id))
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(result)
}

func (m *MockFeed) handleAsset(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.AssetRequests++
	delay := m.assetDelay
	status := m.assetStatus
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if status != http.StatusOK {
		w.WriteHeader(status)
		return
	}

	name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/images/"), ".jpg")
	id, err := strconv.Atoi(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(AssetBody(id))
}

func writeOverride(w http.ResponseWriter, resp MockFeedResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// parsePagePath extracts page and limit from /api/news/{page}/{limit}.
func parsePagePath(path string) (page, limit int, ok bool) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(path, "/api/news/"), "/"), "/")
	if len(parts) != 2 {
		return 0, 0, false
	}
	page, err := strconv.Atoi(parts[0])
	if err != nil || page < 1 {
		return 0, 0, false
	}
	limit, err = strconv.Atoi(parts[1])
	if err != nil || limit < 1 {
		return 0, 0, false
	}
	return page, limit, true
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockFeedResponse {
	return MockFeedResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewMalformedResponse creates a 200 OK response whose body is not valid JSON.
func NewMalformedResponse() MockFeedResponse {
	return MockFeedResponse{
		StatusCode: http.StatusOK,
		Body:       `{"news": [`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}
