package search

import (
	"strings"

	"github.com/kailas-cloud/libsearch/internal/domain/book"
	"github.com/kailas-cloud/libsearch/internal/domain/catalog"
	"github.com/kailas-cloud/libsearch/internal/domain/category"
	"github.com/kailas-cloud/libsearch/internal/domain/text"
)

// Find returns records of tbl matching query within the filter category, in table order,
// truncated to maxResults, plus the number of matches before truncation.
//
// A query that is empty after normalization matches every record of the filtered set.
// Otherwise the normalized query, spaces included, must be a substring of the record's
// normalized title, subtitle, author and subject joined by single spaces.
func Find(tbl *catalog.Table, query string, filter category.Label, maxResults int) ([]book.Record, int) {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	needle := text.Normalize(query)
	filtered := filter != "" && !filter.IsAny()

	var (
		out   []book.Record
		total int
	)
	for i := 0; i < tbl.Len(); i++ {
		rec := tbl.At(i)
		if filtered && rec.Category != filter {
			continue
		}
		if needle != "" && !strings.Contains(tbl.Haystack(i), needle) {
			continue
		}
		total++
		if len(out) < maxResults {
			out = append(out, rec)
		}
	}
	return out, total
}
