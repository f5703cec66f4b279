// Package browse pages through the catalog and summarizes it by category.
package browse

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/libsearch/internal/domain/book"
	"github.com/kailas-cloud/libsearch/internal/domain/catalog"
	"github.com/kailas-cloud/libsearch/internal/domain/category"
)

// Paging defaults.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

const topCategories = 3

// CatalogProvider returns the current catalog snapshot.
type CatalogProvider interface {
	Current(ctx context.Context) (*catalog.Table, error)
}

// Page is one slice of the catalog in source order.
type Page struct {
	Records    []book.Record
	Total      int
	Page       int
	PerPage    int
	TotalPages int
}

// CategoryCount pairs a label with its record count.
type CategoryCount struct {
	Category category.Label
	Count    int
}

// Stats summarizes the catalog by category.
type Stats struct {
	Total  int
	Counts map[category.Label]int
	// Top holds the largest categories excluding Other, ties in label order.
	Top []CategoryCount
}

// Service reads the catalog for listing and statistics.
type Service struct {
	catalog         CatalogProvider
	defaultPageSize int
	maxPageSize     int
}

// New creates a Service. Non-positive sizes fall back to DefaultPageSize and MaxPageSize.
func New(catalog CatalogProvider, defaultPageSize, maxPageSize int) *Service {
	if maxPageSize <= 0 {
		maxPageSize = MaxPageSize
	}
	if defaultPageSize <= 0 {
		defaultPageSize = DefaultPageSize
	}
	if defaultPageSize > maxPageSize {
		defaultPageSize = maxPageSize
	}
	return &Service{catalog: catalog, defaultPageSize: defaultPageSize, maxPageSize: maxPageSize}
}

// Books returns a page of records. page < 1 is treated as 1; perPage <= 0 uses the default
// and larger values are capped.
func (s *Service) Books(ctx context.Context, page, perPage int) (Page, error) {
	tbl, err := s.catalog.Current(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("load catalog: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = s.defaultPageSize
	}
	if perPage > s.maxPageSize {
		perPage = s.maxPageSize
	}

	total := tbl.Len()
	return Page{
		Records:    tbl.Page(page, perPage),
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + perPage - 1) / perPage,
	}, nil
}

// Stats counts records per category.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	tbl, err := s.catalog.Current(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("load catalog: %w", err)
	}

	counts := tbl.CountByCategory()
	ranked := make([]CategoryCount, 0, len(counts))
	for _, l := range category.Labels() {
		if l == category.Other || counts[l] == 0 {
			continue
		}
		ranked = append(ranked, CategoryCount{Category: l, Count: counts[l]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > topCategories {
		ranked = ranked[:topCategories]
	}

	return Stats{Total: tbl.Len(), Counts: counts, Top: ranked}, nil
}
