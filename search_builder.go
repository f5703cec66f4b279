package libsearch

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/libsearch/internal/domain/category"
	"github.com/kailas-cloud/libsearch/internal/domain/search/request"
)

// SearchBuilder is a fluent builder for catalog queries.
type SearchBuilder struct {
	client *Client

	query    string
	category string
	limit    int
}

// Query sets the text matched against title, subtitle, author and subject.
// Matching ignores case and accents. An empty query lists the catalog.
func (b *SearchBuilder) Query(q string) *SearchBuilder {
	b.query = q
	return b
}

// Category restricts results to one label. Portuguese aliases such as "saude" are accepted.
func (b *SearchBuilder) Category(label string) *SearchBuilder {
	b.category = label
	return b
}

// Limit sets the maximum number of results. The client's result cap still applies.
func (b *SearchBuilder) Limit(n int) *SearchBuilder {
	b.limit = n
	return b
}

// Do executes the search.
func (b *SearchBuilder) Do(ctx context.Context) (Result, error) {
	label, err := category.Parse(b.category)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidCategory, err)
	}
	req, err := request.New(b.query, label, b.limit)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}
	res, err := b.client.searchSvc.Search(ctx, &req)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}
	return Result{Books: booksFromRecords(res.Records()), Total: res.Total()}, nil
}
