// Package libsearch embeds the library catalog search in another Go program.
package libsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/libsearch/internal/domain"
	"github.com/kailas-cloud/libsearch/internal/domain/category"
	catalogrepo "github.com/kailas-cloud/libsearch/internal/repository/catalog"
	"github.com/kailas-cloud/libsearch/internal/usecase/browse"
	searchuc "github.com/kailas-cloud/libsearch/internal/usecase/search"
)

// Errors returned by the client. Match with errors.Is.
var (
	// ErrDataUnavailable means the catalog file is missing or unreadable.
	ErrDataUnavailable = domain.ErrDataUnavailable
	// ErrInvalidCategory means a category filter was not recognized.
	ErrInvalidCategory = domain.ErrInvalidCategory
)

const defaultTTL = 5 * time.Minute

// Client is the libsearch entry point.
type Client struct {
	categorizer *category.Categorizer
	snapshots   *catalogrepo.Snapshotter
	searchSvc   *searchuc.Service
	browseSvc   *browse.Service
}

// New creates a Client reading the catalog CSV at path. The file is loaded lazily
// on first use and reloaded once the snapshot TTL has passed.
func New(path string, opts ...Option) (*Client, error) {
	if path == "" {
		return nil, errors.New("libsearch: catalog path required")
	}
	cfg := &clientConfig{ttl: defaultTTL}
	for _, o := range opts {
		o(cfg)
	}

	categorizer := category.Default()
	if cfg.rules != nil {
		c, err := category.NewCategorizer(cfg.rules)
		if err != nil {
			return nil, fmt.Errorf("libsearch: category rules: %w", err)
		}
		categorizer = c
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	snapshots := catalogrepo.NewSnapshotter(
		catalogrepo.FromFile(path, catalogrepo.Options{
			Encoding:       cfg.encoding,
			RepairEncoding: cfg.repair,
			Categorizer:    categorizer,
			Logger:         logger,
		}),
		cfg.ttl,
		logger,
	)

	return &Client{
		categorizer: categorizer,
		snapshots:   snapshots,
		searchSvc:   searchuc.New(snapshots, cfg.maxResults),
		browseSvc:   browse.New(snapshots, 0, 0),
	}, nil
}

// Load forces a catalog reload and returns the number of records.
func (c *Client) Load(ctx context.Context) (int, error) {
	tbl, err := c.snapshots.Refresh(ctx)
	if err != nil {
		return 0, fmt.Errorf("load: %w", err)
	}
	return tbl.Len(), nil
}

// Categorize returns the category label for a record's text fields.
func (c *Client) Categorize(title, subtitle, subject string) string {
	return string(c.categorizer.Categorize(title, subtitle, subject))
}

// Categories lists every category label in priority order, "other" last.
func (c *Client) Categories() []string {
	labels := category.Labels()
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = string(l)
	}
	return out
}

// Search starts a fluent catalog query.
func (c *Client) Search() *SearchBuilder {
	return &SearchBuilder{client: c}
}

// Books returns one page of the catalog in file order.
func (c *Client) Books(ctx context.Context, page, perPage int) (Page, error) {
	p, err := c.browseSvc.Books(ctx, page, perPage)
	if err != nil {
		return Page{}, fmt.Errorf("books: %w", err)
	}
	return Page{
		Books:      booksFromRecords(p.Records),
		Total:      p.Total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: p.TotalPages,
	}, nil
}

// Stats counts catalog records per category.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	st, err := c.browseSvc.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	out := Stats{Total: st.Total, Counts: make(map[string]int, len(st.Counts))}
	for l, n := range st.Counts {
		out.Counts[string(l)] = n
	}
	for _, cc := range st.Top {
		out.Top = append(out.Top, CategoryCount{Category: string(cc.Category), Count: cc.Count})
	}
	return out, nil
}
