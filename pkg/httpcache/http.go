package httpcache

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// NewEntry builds an entry from response headers and an already-read body.
func NewEntry(header http.Header, body []byte) *Entry {
	now := time.Now()

	entry := &Entry{
		Body:        body,
		ContentType: header.Get("Content-Type"),
		ETag:        header.Get("ETag"),
		ExpiresAt:   FreshUntil(header, now),
		StoredAt:    now,
		NoStore:     NoStore(header),
	}

	if lastModified := header.Get("Last-Modified"); lastModified != "" {
		if t, err := http.ParseTime(lastModified); err == nil {
			entry.LastModified = t
		}
	}

	return entry
}

// FreshUntil computes the end of the freshness lifetime from headers.
// Cache-Control max-age takes precedence over Expires; no-cache, no-store
// and missing or unparsable headers make the response immediately stale.
func FreshUntil(header http.Header, now time.Time) time.Time {
	if cc := header.Get("Cache-Control"); cc != "" {
		for _, directive := range strings.Split(cc, ",") {
			directive = strings.ToLower(strings.TrimSpace(directive))
			switch {
			case directive == "no-cache" || directive == "no-store":
				return now
			case strings.HasPrefix(directive, "max-age="):
				seconds, err := strconv.Atoi(strings.TrimPrefix(directive, "max-age="))
				if err == nil && seconds > 0 {
					return now.Add(time.Duration(seconds) * time.Second)
				}
				return now
			}
		}
	}

	expires := header.Get("Expires")
	if expires == "" {
		return now
	}

	t, err := http.ParseTime(expires)
	if err != nil || t.Before(now) {
		return now
	}
	return t
}

// NoStore reports whether Cache-Control forbids storing the response.
func NoStore(header http.Header) bool {
	for _, directive := range strings.Split(header.Get("Cache-Control"), ",") {
		if strings.EqualFold(strings.TrimSpace(directive), "no-store") {
			return true
		}
	}
	return false
}

// ApplyValidators adds If-None-Match or If-Modified-Since to req. The ETag is
// preferred when both validators are known.
func ApplyValidators(req *http.Request, entry *Entry) {
	if req == nil || entry == nil {
		return
	}

	if entry.ETag != "" {
		req.Header.Set("If-None-Match", entry.ETag)
	} else if !entry.LastModified.IsZero() {
		req.Header.Set("If-Modified-Since", entry.LastModified.UTC().Format(http.TimeFormat))
	}
}

// Revalidated returns a copy of entry refreshed by a 304 response.
func Revalidated(entry *Entry, header http.Header) *Entry {
	now := time.Now()
	refreshed := *entry
	refreshed.ExpiresAt = FreshUntil(header, now)
	refreshed.StoredAt = now
	refreshed.NoStore = NoStore(header)
	if etag := header.Get("ETag"); etag != "" {
		refreshed.ETag = etag
	}
	return &refreshed
}
