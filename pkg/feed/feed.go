// Package feed defines the news feed data model and the RemoteSource contract
// shared by the pagination controller and the asset coordinator.
package feed

import "context"

const (
	// DefaultPageSize is the number of items requested per page.
	DefaultPageSize = 10

	// DefaultCacheLimit is the maximum number of assets kept in memory.
	DefaultCacheLimit = 100
)

// Item is a single news entry as returned by the news API.
type Item struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	PublishedDate string `json:"publishedDate"`
	URL           string `json:"url"`
	FullURL       string `json:"fullUrl"`

	// ImageKey addresses the title image. Empty means the item has no image.
	ImageKey string `json:"titleImageUrl"`
}

// HasAsset reports whether the item references an image.
func (i Item) HasAsset() bool {
	return i.ImageKey != ""
}

// PageResult is one page of the remote list.
type PageResult struct {
	// Items are the entries of the page in server order.
	Items []Item `json:"news"`

	// TotalCount is the authoritative number of items available.
	TotalCount int `json:"totalCount"`
}

// Asset is a fetched binary resource, typically an image.
type Asset struct {
	Key         string
	Data        []byte
	ContentType string
}

// Size returns the payload size in bytes.
func (a Asset) Size() int {
	return len(a.Data)
}

// RemoteSource is the capability the feed is loaded from.
// Implementations must be safe for concurrent use.
type RemoteSource interface {
	// FetchPage fetches the 1-based page with the given page size.
	FetchPage(ctx context.Context, page, limit int) (*PageResult, error)

	// FetchAsset fetches the asset addressed by key.
	FetchAsset(ctx context.Context, key string) (Asset, error)
}
