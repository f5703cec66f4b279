package request

import (
	"fmt"

	"github.com/kailas-cloud/libsearch/internal/domain/category"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed query length in bytes.
	MaxQueryLength = 1024
	DefaultLimit   = 100
)

// Request is a validated catalog search.
type Request struct {
	query    string
	category category.Label
	limit    int
}

// New validates search parameters. An empty query lists the (filtered) catalog.
// limit <= 0 means DefaultLimit; callers clamp it to their configured maximum.
func New(query string, cat category.Label, limit int) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d bytes)", MaxQueryLength)
	}
	if cat == "" {
		cat = category.Any
	}
	if !cat.IsAny() && !cat.IsValid() {
		return Request{}, fmt.Errorf("invalid category: %q", cat)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Request{query: query, category: cat, limit: limit}, nil
}

// Query returns the raw query text.
func (r Request) Query() string { return r.query }

// Category returns the category filter (category.Any for none).
func (r Request) Category() category.Label { return r.category }

// Limit returns the maximum number of records to return.
func (r Request) Limit() int { return r.limit }
