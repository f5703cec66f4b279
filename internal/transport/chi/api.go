package chi

import (
	"time"

	"github.com/kailas-cloud/libsearch/internal/domain/book"
	"github.com/kailas-cloud/libsearch/internal/domain/category"
	"github.com/kailas-cloud/libsearch/internal/domain/recommendation"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeNotFound            ErrorCode = "not_found"
	ErrorCodeValidationFailed    ErrorCode = "validation_failed"
	ErrorCodeInvalidCategory     ErrorCode = "invalid_category"
	ErrorCodeDataUnavailable     ErrorCode = "data_unavailable"
	ErrorCodeBudgetExceeded      ErrorCode = "token_budget_exceeded"
	ErrorCodeProviderError       ErrorCode = "provider_error"
	ErrorCodeProviderUnavailable ErrorCode = "provider_unavailable"
	ErrorCodeNotConfigured       ErrorCode = "not_configured"
	ErrorCodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// BookResponse keeps the catalog column names the web front-end reads.
type BookResponse struct {
	Title     string         `json:"titulo"`
	Subtitle  string         `json:"sub_titulo"`
	Author    string         `json:"autor"`
	Publisher string         `json:"editora"`
	Year      int            `json:"ano"`
	Subject   string         `json:"assunto"`
	Category  category.Label `json:"category"`
}

// SearchResponse is returned by GET /api/search.
type SearchResponse struct {
	Results  []BookResponse `json:"results"`
	Total    int            `json:"total"`
	Returned int            `json:"returned"`
	Query    string         `json:"query"`
	Category category.Label `json:"category"`
}

// BooksResponse is returned by GET /api/books.
type BooksResponse struct {
	Results    []BookResponse `json:"results"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	TotalPages int            `json:"total_pages"`
}

// CategoryCount is one entry of the top category list.
type CategoryCount struct {
	Category category.Label `json:"category"`
	Count    int            `json:"count"`
}

// StatsResponse is returned by GET /api/stats.
type StatsResponse struct {
	Total         int                    `json:"total"`
	Counts        map[category.Label]int `json:"counts"`
	TopCategories []CategoryCount        `json:"top_categories"`
}

// CategoryResponse describes one label and the keywords that select it.
type CategoryResponse struct {
	Label    category.Label `json:"label"`
	Keywords []string       `json:"keywords"`
}

// RecommendationsResponse is returned by both recommendation endpoints.
type RecommendationsResponse struct {
	Recommendations []recommendation.Resource `json:"recommendations"`
	Topic           string                    `json:"topic"`
	Total           int                       `json:"total"`
}

// TopicsResponse is returned by GET /api/topics.
type TopicsResponse struct {
	Topics []string `json:"topics"`
	Query  string   `json:"query"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status       string            `json:"status"`
	DataLoaded   bool              `json:"data_loaded"`
	TotalRecords int               `json:"total_records"`
	Timestamp    time.Time         `json:"timestamp"`
	Version      string            `json:"version"`
	Checks       map[string]string `json:"checks"`
}

func bookToResponse(b *book.Record) BookResponse {
	return BookResponse{
		Title:     b.Title,
		Subtitle:  b.Subtitle,
		Author:    b.Author,
		Publisher: b.Publisher,
		Year:      b.Year,
		Subject:   b.Subject,
		Category:  b.Category,
	}
}

func booksToResponse(records []book.Record) []BookResponse {
	out := make([]BookResponse, len(records))
	for i := range records {
		out[i] = bookToResponse(&records[i])
	}
	return out
}
