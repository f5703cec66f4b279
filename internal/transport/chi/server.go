// Package chi exposes the catalog, recommendation and health operations over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/libsearch/internal/domain"
	"github.com/kailas-cloud/libsearch/internal/domain/category"
	"github.com/kailas-cloud/libsearch/internal/domain/recommendation"
	"github.com/kailas-cloud/libsearch/internal/domain/search/request"
	"github.com/kailas-cloud/libsearch/internal/domain/search/result"
	"github.com/kailas-cloud/libsearch/internal/logger"
	"github.com/kailas-cloud/libsearch/internal/usecase/browse"
	healthuc "github.com/kailas-cloud/libsearch/internal/usecase/health"
	"github.com/kailas-cloud/libsearch/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Searcher runs catalog searches.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (result.Result, error)
}

// Browser lists the catalog and summarizes it.
type Browser interface {
	Books(ctx context.Context, page, perPage int) (browse.Page, error)
	Stats(ctx context.Context) (browse.Stats, error)
}

// Recommender suggests resources for a topic.
type Recommender interface {
	Recommend(ctx context.Context, topic string, count int) ([]recommendation.Resource, error)
}

// TopicFinder looks up related topic names.
type TopicFinder interface {
	SearchTopics(ctx context.Context, query string) ([]string, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Deps holds the use cases served over HTTP. AI and Topics may be nil.
type Deps struct {
	Search     Searcher
	Browse     Browser
	Resources  Recommender
	AI         Recommender
	Topics     TopicFinder
	Health     HealthChecker
	Categories []category.Rule
	Logger     *zap.Logger
}

// Server implements the HTTP handlers.
type Server struct {
	search        Searcher
	browse        Browser
	resources     Recommender
	ai            Recommender
	topics        TopicFinder
	health        HealthChecker
	categories    []category.Rule
	logger        *zap.Logger
	validate      *validator.Validate
	now           func() time.Time
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Categories == nil {
		d.Categories = category.DefaultRules()
	}
	s := &Server{
		search:     d.Search,
		browse:     d.Browse,
		resources:  d.Resources,
		ai:         d.AI,
		topics:     d.Topics,
		health:     d.Health,
		categories: d.Categories,
		logger:     d.Logger,
		validate:   newValidator(),
		now:        time.Now,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidCategory, http.StatusBadRequest, ErrorCodeInvalidCategory),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrTokenBudgetExceeded, http.StatusPaymentRequired, ErrorCodeBudgetExceeded),
		sentinelHandler(domain.ErrNotConfigured, http.StatusNotImplemented, ErrorCodeNotConfigured),
		sentinelHandler(domain.ErrDataUnavailable, http.StatusServiceUnavailable, ErrorCodeDataUnavailable),
		sentinelHandler(domain.ErrProviderUnavailable,
			http.StatusServiceUnavailable, ErrorCodeProviderUnavailable),
		sentinelHandler(domain.ErrProviderError, http.StatusBadGateway, ErrorCodeProviderError),
	}
	return s
}

// SearchParams are the query parameters of GET /api/search.
type SearchParams struct {
	Q        *string
	Category *string
	Limit    *int
}

// SearchBooks handles GET /api/search.
func (s *Server) SearchBooks(w http.ResponseWriter, r *http.Request) {
	var params SearchParams
	if err := bindQuery(r, map[string]any{"q": &params.Q, "category": &params.Category, "limit": &params.Limit}); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	cat, err := category.Parse(deref(params.Category))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeInvalidCategory, err.Error())
		return
	}

	query := deref(params.Q)
	req, err := request.New(query, cat, derefInt(params.Limit))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	res, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Results:  booksToResponse(res.Records()),
		Total:    res.Total(),
		Returned: res.Returned(),
		Query:    query,
		Category: cat,
	})
}

// ListBooks handles GET /api/books.
func (s *Server) ListBooks(w http.ResponseWriter, r *http.Request) {
	var page, perPage *int
	if err := bindQuery(r, map[string]any{"page": &page, "per_page": &perPage}); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	p, err := s.browse.Books(r.Context(), derefInt(page), derefInt(perPage))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, BooksResponse{
		Results:    booksToResponse(p.Records),
		Total:      p.Total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: p.TotalPages,
	})
}

// GetStats handles GET /api/stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.browse.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	top := make([]CategoryCount, len(st.Top))
	for i, c := range st.Top {
		top[i] = CategoryCount{Category: c.Category, Count: c.Count}
	}
	writeJSON(w, http.StatusOK, StatsResponse{Total: st.Total, Counts: st.Counts, TopCategories: top})
}

// ListCategories handles GET /api/categories.
func (s *Server) ListCategories(w http.ResponseWriter, _ *http.Request) {
	out := make([]CategoryResponse, 0, len(s.categories)+1)
	for _, rule := range s.categories {
		out = append(out, CategoryResponse{Label: rule.Label, Keywords: rule.Keywords})
	}
	out = append(out, CategoryResponse{Label: category.Other, Keywords: []string{}})
	writeJSON(w, http.StatusOK, out)
}

// Recommend handles POST /api/recommendations.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	s.serveRecommendations(w, r, s.resources)
}

// RecommendAI handles POST /api/recommendations/ai.
func (s *Server) RecommendAI(w http.ResponseWriter, r *http.Request) {
	if s.ai == nil {
		writeError(w, http.StatusNotImplemented, ErrorCodeNotConfigured, domain.ErrNotConfigured.Error())
		return
	}
	s.serveRecommendations(w, r, s.ai)
}

func (s *Server) serveRecommendations(w http.ResponseWriter, r *http.Request, rec Recommender) {
	var req recommendation.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Count == 0 {
		req.Count = recommendation.DefaultCount
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, validationMessage(err))
		return
	}

	ctx, usage := domain.NewContextWithUsage(logger.With(r.Context(), zap.String("topic", req.Topic)))
	resources, err := rec.Recommend(ctx, req.Topic, req.Count)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if resources == nil {
		resources = []recommendation.Resource{}
	}

	setTokenHeaders(w, usage)
	writeJSON(w, http.StatusOK, RecommendationsResponse{
		Recommendations: resources,
		Topic:           req.Topic,
		Total:           len(resources),
	})
}

// ListTopics handles GET /api/topics.
func (s *Server) ListTopics(w http.ResponseWriter, r *http.Request) {
	var q *string
	if err := bindQuery(r, map[string]any{"q": &q}); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}
	query := strings.TrimSpace(deref(q))
	if query == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "q is required")
		return
	}

	topics := []string{}
	if s.topics != nil {
		found, err := s.topics.SearchTopics(r.Context(), query)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		if found != nil {
			topics = found
		}
	}
	writeJSON(w, http.StatusOK, TopicsResponse{Topics: topics, Query: query})
}

// HealthCheck handles GET /api/health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:       string(report.Status),
		DataLoaded:   report.DataLoaded,
		TotalRecords: report.TotalRecords,
		Timestamp:    s.now().UTC(),
		Version:      version.Version,
		Checks:       checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// bindQuery binds optional form-style query parameters into pointer destinations.
func bindQuery(r *http.Request, dest map[string]any) error {
	query := r.URL.Query()
	for name, d := range dest {
		if err := runtime.BindQueryParameter("form", true, false, name, query, d); err != nil {
			return fmt.Errorf("invalid format for parameter %s", name)
		}
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage renders validator errors using JSON field names.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

func setTokenHeaders(w http.ResponseWriter, usage *domain.TokenUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-LLM-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidCategory,
		domain.ErrInvalidRequest,
		domain.ErrTokenBudgetExceeded,
		domain.ErrNotConfigured,
		domain.ErrDataUnavailable,
		domain.ErrProviderUnavailable,
		domain.ErrProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
