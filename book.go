package libsearch

import "github.com/kailas-cloud/libsearch/internal/domain/book"

// Book is one catalog record.
type Book struct {
	Title     string
	Subtitle  string
	Author    string
	Publisher string
	// Year is 0 when missing or unparseable.
	Year     int
	Subject  string
	Category string
}

// Page is one slice of the catalog in file order.
type Page struct {
	Books      []Book
	Total      int
	Page       int
	PerPage    int
	TotalPages int
}

// CategoryCount pairs a category label with its record count.
type CategoryCount struct {
	Category string
	Count    int
}

// Stats summarizes the catalog by category.
type Stats struct {
	Total  int
	Counts map[string]int
	// Top holds the three largest categories, "other" excluded.
	Top []CategoryCount
}

// Result is the outcome of a search.
type Result struct {
	Books []Book
	// Total counts every match before the result cap was applied.
	Total int
}

// Truncated reports whether more records matched than were returned.
func (r Result) Truncated() bool { return r.Total > len(r.Books) }

func bookFromRecord(r *book.Record) Book {
	return Book{
		Title:     r.Title,
		Subtitle:  r.Subtitle,
		Author:    r.Author,
		Publisher: r.Publisher,
		Year:      r.Year,
		Subject:   r.Subject,
		Category:  string(r.Category),
	}
}

func booksFromRecords(records []book.Record) []Book {
	out := make([]Book, len(records))
	for i := range records {
		out[i] = bookFromRecord(&records[i])
	}
	return out
}
