package health

import (
	"context"

	"github.com/kailas-cloud/libsearch/internal/domain/catalog"
)

// CatalogProvider returns the current catalog snapshot.
type CatalogProvider interface {
	Current(ctx context.Context) (*catalog.Table, error)
}

// StorePinger checks key-value store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks generative model availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
