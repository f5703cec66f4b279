// Package book defines the catalog record.
package book

import "github.com/kailas-cloud/libsearch/internal/domain/category"

// Record is one catalog entry. Missing text is "", a missing or unparseable year is 0.
type Record struct {
	Title     string
	Subtitle  string
	Author    string
	Publisher string
	Year      int
	Subject   string

	// Category is derived from Title, Subtitle and Subject when the catalog is built.
	Category category.Label
}

// SearchFields returns the fields a query is matched against, in match order.
func (r *Record) SearchFields() []string {
	return []string{r.Title, r.Subtitle, r.Author, r.Subject}
}
