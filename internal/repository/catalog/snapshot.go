package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	domcat "github.com/kailas-cloud/libsearch/internal/domain/catalog"
)

// LoadFunc produces a fresh catalog table.
type LoadFunc func(ctx context.Context) (*domcat.Table, error)

// FromFile returns a LoadFunc reading path with opts.
func FromFile(path string, opts Options) LoadFunc {
	return func(_ context.Context) (*domcat.Table, error) {
		return Load(path, opts)
	}
}

type snapshot struct {
	table   *domcat.Table
	expires time.Time
}

// Snapshotter serves the current catalog table and replaces it once it is older than the TTL.
// A TTL of zero reloads on every call. Tables are never mutated; a refresh swaps the pointer.
type Snapshotter struct {
	load   LoadFunc
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	current atomic.Pointer[snapshot]
	mu      sync.Mutex
}

// NewSnapshotter creates a snapshotter. Nothing is loaded until the first Current call.
func NewSnapshotter(load LoadFunc, ttl time.Duration, logger *zap.Logger) *Snapshotter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Snapshotter{load: load, ttl: ttl, logger: logger, now: time.Now}
}

// Current returns a table no older than the TTL, loading one if needed.
// When a reload fails the error is returned; an expired table is not served.
func (s *Snapshotter) Current(ctx context.Context) (*domcat.Table, error) {
	if snap := s.fresh(); snap != nil {
		return snap.table, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have refreshed while we waited.
	if snap := s.fresh(); snap != nil {
		return snap.table, nil
	}
	return s.refreshLocked(ctx)
}

// Refresh forces a reload regardless of the TTL.
func (s *Snapshotter) Refresh(ctx context.Context) (*domcat.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

// Ping reports whether a catalog can be served.
func (s *Snapshotter) Ping(ctx context.Context) error {
	_, err := s.Current(ctx)
	return err
}

func (s *Snapshotter) fresh() *snapshot {
	if s.ttl <= 0 {
		return nil
	}
	snap := s.current.Load()
	if snap == nil || !s.now().Before(snap.expires) {
		return nil
	}
	return snap
}

func (s *Snapshotter) refreshLocked(ctx context.Context) (*domcat.Table, error) {
	tbl, err := s.load(ctx)
	if err != nil {
		s.logger.Error("Catalog load failed", zap.Error(err))
		return nil, err
	}
	s.current.Store(&snapshot{table: tbl, expires: s.now().Add(s.ttl)})
	s.logger.Debug("Catalog snapshot replaced",
		zap.String("source", tbl.Meta().Source),
		zap.Int("records", tbl.Len()),
		zap.Int("skipped", tbl.Meta().Skipped),
	)
	return tbl, nil
}
