// Package catalog holds the immutable in-memory book table for one load cycle.
package catalog

import (
	"strings"
	"time"

	"github.com/kailas-cloud/libsearch/internal/domain/book"
	"github.com/kailas-cloud/libsearch/internal/domain/category"
	"github.com/kailas-cloud/libsearch/internal/domain/text"
)

// Meta describes where a table came from.
type Meta struct {
	Source   string
	LoadedAt time.Time
	// Skipped counts malformed rows dropped during the load.
	Skipped int
}

// Table is a read-only snapshot of the catalog. Records keep source order.
type Table struct {
	records   []book.Record
	haystacks []string
	meta      Meta
}

// New builds a table, labelling every record and precomputing its normalized search text.
// The records slice is owned by the table afterwards.
func New(records []book.Record, c *category.Categorizer, meta Meta) *Table {
	if c == nil {
		c = category.Default()
	}
	haystacks := make([]string, len(records))
	for i := range records {
		r := &records[i]
		r.Category = c.Categorize(r.Title, r.Subtitle, r.Subject)
		haystacks[i] = searchText(r)
	}
	return &Table{records: records, haystacks: haystacks, meta: meta}
}

// searchText joins the normalized non-empty search fields with single spaces.
func searchText(r *book.Record) string {
	var b strings.Builder
	for _, f := range r.SearchFields() {
		if f == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(text.Normalize(f))
	}
	return b.String()
}

// Len returns the number of records; a nil table is empty.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// At returns the i-th record.
func (t *Table) At(i int) book.Record { return t.records[i] }

// Haystack returns the normalized search text of the i-th record.
func (t *Table) Haystack(i int) string { return t.haystacks[i] }

// Meta returns load metadata.
func (t *Table) Meta() Meta {
	if t == nil {
		return Meta{}
	}
	return t.meta
}

// Head returns up to n records from the start of the table.
func (t *Table) Head(n int) []book.Record {
	if n > t.Len() {
		n = t.Len()
	}
	if n <= 0 {
		return nil
	}
	out := make([]book.Record, n)
	copy(out, t.records[:n])
	return out
}

// Page returns the 1-based page of size perPage. Out-of-range pages are empty.
func (t *Table) Page(page, perPage int) []book.Record {
	if page < 1 || perPage < 1 || page-1 > t.Len()/perPage {
		return nil
	}
	start := (page - 1) * perPage
	if start >= t.Len() {
		return nil
	}
	end := start + perPage
	if end > t.Len() {
		end = t.Len()
	}
	out := make([]book.Record, end-start)
	copy(out, t.records[start:end])
	return out
}

// CountByCategory tallies records per label. Every concrete label is present.
func (t *Table) CountByCategory() map[category.Label]int {
	counts := make(map[category.Label]int, len(category.Labels()))
	for _, l := range category.Labels() {
		counts[l] = 0
	}
	for i := 0; i < t.Len(); i++ {
		counts[t.records[i].Category]++
	}
	return counts
}
