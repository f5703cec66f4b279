package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kailas-cloud/libsearch/internal/metrics"
)

// RouterConfig holds HTTP-level settings.
type RouterConfig struct {
	// CORSAllowedOrigins lists browser origins allowed to call the API. Empty disables CORS headers.
	CORSAllowedOrigins []string
}

// NewRouter mounts the server handlers behind the standard middleware chain.
func NewRouter(s *Server, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "X-LLM-Tokens"},
			MaxAge:         300,
		}))
	}
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.SearchBooks)
		r.Get("/books", s.ListBooks)
		r.Get("/stats", s.GetStats)
		r.Get("/categories", s.ListCategories)
		r.Post("/recommendations", s.Recommend)
		r.Post("/recommendations/ai", s.RecommendAI)
		r.Get("/topics", s.ListTopics)
		r.Get("/health", s.HealthCheck)
	})
	r.Get("/metrics", s.Metrics)

	return r
}
