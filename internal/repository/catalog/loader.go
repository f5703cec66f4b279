// Package catalog loads the book catalog from CSV and keeps the current snapshot.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/kailas-cloud/libsearch/internal/domain"
	"github.com/kailas-cloud/libsearch/internal/domain/book"
	domcat "github.com/kailas-cloud/libsearch/internal/domain/catalog"
	"github.com/kailas-cloud/libsearch/internal/domain/category"
	"github.com/kailas-cloud/libsearch/internal/domain/text"
	"github.com/kailas-cloud/libsearch/internal/metrics"
)

// Supported source encodings.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin1"
)

// Source column names.
const (
	colTitle     = "titulo"
	colSubtitle  = "sub_titulo"
	colAuthor    = "autor"
	colPublisher = "editora"
	colYear      = "ano"
	colSubject   = "assunto"
)

var requiredColumns = []string{colTitle, colSubtitle, colAuthor, colPublisher, colYear, colSubject}

// Options controls how a catalog file is read.
type Options struct {
	// Encoding is EncodingUTF8 (default) or EncodingLatin1.
	Encoding string
	// RepairEncoding fixes double-encoded text field by field.
	RepairEncoding bool
	// Categorizer labels records; nil means category.Default().
	Categorizer *category.Categorizer
	Logger      *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Load reads the catalog file at path.
// A missing or unreadable file, or a header lacking the catalog columns, yields domain.ErrDataUnavailable.
func Load(path string, opts Options) (*domcat.Table, error) {
	start := time.Now()
	tbl, err := load(path, opts)
	metrics.CatalogLoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CatalogLoadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.CatalogLoadsTotal.WithLabelValues("ok").Inc()
	metrics.CatalogRecords.Set(float64(tbl.Len()))
	metrics.CatalogSkippedRowsTotal.Add(float64(tbl.Meta().Skipped))
	return tbl, nil
}

func load(path string, opts Options) (*domcat.Table, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrDataUnavailable, path, err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f, path, opts)
}

// Parse reads a catalog from r. source is recorded in the table metadata.
func Parse(r io.Reader, source string, opts Options) (*domcat.Table, error) {
	log := opts.logger()

	switch strings.ToLower(opts.Encoding) {
	case "", EncodingUTF8, "utf8":
	case EncodingLatin1, "iso-8859-1":
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	default:
		return nil, fmt.Errorf("unsupported encoding %q", opts.Encoding)
	}

	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header of %s: %w", domain.ErrDataUnavailable, source, err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDataUnavailable, source, err)
	}

	var (
		records []book.Record
		skipped int
	)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("%w: read %s: %w", domain.ErrDataUnavailable, source, err)
			}
			skipped++
			log.Warn("Skipping malformed catalog row",
				zap.String("source", source),
				zap.Int("line", perr.StartLine),
				zap.Error(perr.Err),
			)
			continue
		}
		records = append(records, recordFromRow(row, idx, opts.RepairEncoding))
	}

	if skipped > 0 {
		log.Warn("Catalog loaded with skipped rows",
			zap.String("source", source), zap.Int("skipped", skipped), zap.Int("records", len(records)))
	}

	return domcat.New(records, opts.Categorizer, domcat.Meta{
		Source:   source,
		LoadedAt: time.Now(),
		Skipped:  skipped,
	}), nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func recordFromRow(row []string, idx map[string]int, repair bool) book.Record {
	field := func(name string) string {
		v := strings.TrimSpace(row[idx[name]])
		if repair {
			v = text.RepairDoubleEncoding(v)
		}
		return v
	}
	return book.Record{
		Title:     field(colTitle),
		Subtitle:  field(colSubtitle),
		Author:    field(colAuthor),
		Publisher: field(colPublisher),
		Year:      parseYear(row[idx[colYear]]),
		Subject:   field(colSubject),
	}
}

// parseYear accepts integers and decimals ("1999.0"); anything else is 0.
func parseYear(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0
	}
	return int(f)
}
