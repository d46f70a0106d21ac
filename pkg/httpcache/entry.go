package httpcache

import (
	"time"
)

// Entry is a stored page response.
type Entry struct {
	// Body is the raw response body
	Body []byte `json:"body"`

	// ContentType of the stored body
	ContentType string `json:"content_type,omitempty"`

	// ETag validator for If-None-Match
	ETag string `json:"etag,omitempty"`

	// LastModified validator for If-Modified-Since
	LastModified time.Time `json:"last_modified,omitempty"`

	// ExpiresAt is when the entry becomes stale
	ExpiresAt time.Time `json:"expires_at"`

	// StoredAt is when the response was stored or last revalidated
	StoredAt time.Time `json:"stored_at"`

	// NoStore marks a response sent with Cache-Control: no-store
	NoStore bool `json:"-"`
}

// Fresh reports whether the entry may be used without revalidation.
func (e *Entry) Fresh() bool {
	return e != nil && time.Now().Before(e.ExpiresAt)
}

// FreshFor returns the remaining freshness lifetime, 0 once stale.
func (e *Entry) FreshFor() time.Duration {
	if e == nil {
		return 0
	}
	d := time.Until(e.ExpiresAt)
	if d < 0 {
		return 0
	}
	return d
}

// CanRevalidate reports whether a conditional request can be built.
func (e *Entry) CanRevalidate() bool {
	return e != nil && (e.ETag != "" || !e.LastModified.IsZero())
}

// Age returns the time since the entry was stored or revalidated.
func (e *Entry) Age() time.Duration {
	return time.Since(e.StoredAt)
}
