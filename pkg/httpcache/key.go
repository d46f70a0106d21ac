package httpcache

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Key identifies a stored response.
type Key struct {
	// Endpoint is the route template (e.g., "/api/news/{page}/{limit}")
	Endpoint string

	// Params are the values substituted into the template
	Params map[string]string
}

// PageKey returns the key of a news page.
func PageKey(page, limit int) Key {
	return Key{
		Endpoint: "/api/news/{page}/{limit}",
		Params: map[string]string{
			"page":  strconv.Itoa(page),
			"limit": strconv.Itoa(limit),
		},
	}
}

// String generates a deterministic Redis key.
// Format: feed:endpoint:param1=val1:param2=val2 with params sorted by name.
//
// Example:
//
//	feed:api/news/{page}/{limit}:limit=10:page=1
func (k Key) String() string {
	parts := []string{"feed"}

	if endpoint := strings.Trim(k.Endpoint, "/"); endpoint != "" {
		parts = append(parts, endpoint)
	}

	names := make([]string, 0, len(k.Params))
	for name := range k.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, k.Params[name]))
	}

	return strings.Join(parts, ":")
}
