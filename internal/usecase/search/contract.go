package search

import (
	"context"

	"github.com/kailas-cloud/libsearch/internal/domain/catalog"
)

// CatalogProvider returns the catalog snapshot to search.
type CatalogProvider interface {
	Current(ctx context.Context) (*catalog.Table, error)
}
