package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/libsearch/internal/domain/search/request"
	"github.com/kailas-cloud/libsearch/internal/domain/search/result"
	"github.com/kailas-cloud/libsearch/internal/logger"
	"github.com/kailas-cloud/libsearch/internal/metrics"
)

const defaultMaxResults = request.DefaultLimit

// Service searches the current catalog snapshot.
type Service struct {
	catalog    CatalogProvider
	maxResults int
}

// New creates a search service. maxResults caps every request; <= 0 means the default (100).
func New(catalog CatalogProvider, maxResults int) *Service {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &Service{catalog: catalog, maxResults: maxResults}
}

// MaxResults returns the per-request cap.
func (s *Service) MaxResults() int { return s.maxResults }

// Search runs req against the current snapshot.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Result, error) {
	tbl, err := s.catalog.Current(ctx)
	if err != nil {
		return result.Result{}, fmt.Errorf("load catalog: %w", err)
	}

	limit := req.Limit()
	if limit > s.maxResults {
		limit = s.maxResults
	}

	records, total := Find(tbl, req.Query(), req.Category(), limit)

	metrics.SearchRequestsTotal.WithLabelValues(req.Category().String()).Inc()
	metrics.SearchMatches.Observe(float64(total))
	logger.FromContext(ctx).Debug("catalog search",
		zap.String("category", req.Category().String()),
		zap.Int("total", total),
		zap.Int("returned", len(records)),
	)

	return result.New(records, total), nil
}
