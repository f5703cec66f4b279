package recommend

import (
	"context"

	"github.com/kailas-cloud/libsearch/internal/domain/catalog"
	"github.com/kailas-cloud/libsearch/internal/domain/recommendation"
	"github.com/kailas-cloud/libsearch/internal/domain/search/request"
	"github.com/kailas-cloud/libsearch/internal/domain/search/result"
)

// CatalogSearcher finds library books for a topic.
type CatalogSearcher interface {
	Search(ctx context.Context, req *request.Request) (result.Result, error)
}

// CatalogReader returns the current catalog snapshot.
type CatalogReader interface {
	Current(ctx context.Context) (*catalog.Table, error)
}

// RepositoryFinder searches public code repositories.
type RepositoryFinder interface {
	SearchRepositories(ctx context.Context, topic string, limit int) ([]recommendation.Repository, error)
}

// DocumentFinder searches the web for PDF documents.
type DocumentFinder interface {
	SearchPDFs(ctx context.Context, topic string, limit int) ([]recommendation.Document, error)
}
