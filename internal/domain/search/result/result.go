package result

import "github.com/kailas-cloud/libsearch/internal/domain/book"

// Result is a truncated, source-ordered set of matches.
type Result struct {
	records []book.Record
	total   int
}

// New creates a search result. total is the match count before truncation.
func New(records []book.Record, total int) Result {
	return Result{records: records, total: total}
}

// Records returns the matches in catalog order.
func (r *Result) Records() []book.Record { return r.records }

// Total returns the number of matches before truncation.
func (r *Result) Total() int { return r.total }

// Returned returns the number of records in the result.
func (r *Result) Returned() int { return len(r.records) }

// Truncated reports whether matches were dropped by the limit.
func (r *Result) Truncated() bool { return r.total > len(r.records) }
