package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/kailas-cloud/libsearch/internal/domain/text"
	catalogrepo "github.com/kailas-cloud/libsearch/internal/repository/catalog"
)

type repairStats struct {
	rows     int
	repaired int
	skipped  int
}

// repairFile writes a repaired copy of in to out. out is replaced atomically.
func repairFile(ctx context.Context, in, out, encoding string, logger *zap.Logger) (repairStats, error) {
	src, err := os.Open(in) //nolint:gosec // path comes from the command line
	if err != nil {
		return repairStats{}, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = src.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(out), ".repaircsv-*")
	if err != nil {
		return repairStats{}, fmt.Errorf("create output: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	stats, err := repair(ctx, src, tmp, encoding, logger)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	if err != nil {
		return stats, err
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		return stats, fmt.Errorf("replace output: %w", err)
	}
	return stats, nil
}

// repair copies CSV rows from r to w, fixing double-encoded fields and dropping malformed rows.
func repair(ctx context.Context, r io.Reader, w io.Writer, encoding string, logger *zap.Logger) (repairStats, error) {
	switch encoding {
	case "", catalogrepo.EncodingUTF8:
	case catalogrepo.EncodingLatin1:
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	default:
		return repairStats{}, fmt.Errorf("unsupported encoding %q", encoding)
	}

	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cw := csv.NewWriter(w)

	var stats repairStats
	header := true
	for {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("repair interrupted: %w", err)
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) || header {
				return stats, fmt.Errorf("read input: %w", err)
			}
			stats.skipped++
			logger.Warn("Skipping malformed row", zap.Int("line", perr.StartLine), zap.Error(perr.Err))
			continue
		}
		for i, field := range row {
			if fixed := text.RepairDoubleEncoding(field); fixed != field {
				row[i] = fixed
				stats.repaired++
			}
		}
		if err := cw.Write(row); err != nil {
			return stats, fmt.Errorf("write output: %w", err)
		}
		if !header {
			stats.rows++
		}
		header = false
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return stats, fmt.Errorf("write output: %w", err)
	}
	return stats, nil
}
