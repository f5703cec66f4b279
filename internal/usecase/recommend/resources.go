// Package recommend assembles learning resources and model-generated book suggestions for a topic.
package recommend

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/libsearch/internal/domain/category"
	"github.com/kailas-cloud/libsearch/internal/domain/recommendation"
	"github.com/kailas-cloud/libsearch/internal/domain/search/request"
	"github.com/kailas-cloud/libsearch/internal/logger"
)

// Resource mix limits.
const (
	maxLibraryBooks = 3
	maxPDFs         = 5
)

const notSpecified = "Não especificado"

// searchEngines are offered as links when no PDF could be found.
var searchEngines = []struct {
	name, source, base string
}{
	{"Google", "Google Search", "https://www.google.com/search?q="},
	{"Bing", "Bing Search", "https://www.bing.com/search?q="},
	{"DuckDuckGo", "DuckDuckGo Search", "https://duckduckgo.com/?q="},
}

// Service builds learning resource lists.
type Service struct {
	catalog CatalogSearcher
	repos   RepositoryFinder
	docs    DocumentFinder
}

// New creates a resource service. repos and docs may be nil when the providers are disabled.
func New(catalog CatalogSearcher, repos RepositoryFinder, docs DocumentFinder) *Service {
	return &Service{catalog: catalog, repos: repos, docs: docs}
}

// Recommend returns up to count resources for topic: library books first, then
// repositories filling the remaining slots, then PDFs (or search links when none were found).
// Provider failures drop that provider's items; catalog failures are returned.
func (s *Service) Recommend(ctx context.Context, topic string, count int) ([]recommendation.Resource, error) {
	topic = strings.TrimSpace(topic)
	if count <= 0 {
		count = recommendation.DefaultCount
	}

	books, err := s.libraryBooks(ctx, topic)
	if err != nil {
		return nil, err
	}

	var (
		repos []recommendation.Repository
		docs  []recommendation.Document
	)
	log := logger.FromContext(ctx)
	var g errgroup.Group

	if slots := count - len(books); s.repos != nil && slots > 0 {
		g.Go(func() error {
			found, err := s.repos.SearchRepositories(ctx, topic, slots)
			if err != nil {
				log.Warn("Repository search failed", zap.String("topic", topic), zap.Error(err))
				return nil
			}
			repos = found
			return nil
		})
	}
	if s.docs != nil {
		g.Go(func() error {
			found, err := s.docs.SearchPDFs(ctx, topic, maxPDFs)
			if err != nil {
				log.Warn("PDF search failed", zap.String("topic", topic), zap.Error(err))
				return nil
			}
			docs = found
			return nil
		})
	}
	g.Wait() //nolint:errcheck // lookups log their failures and return nil

	out := make([]recommendation.Resource, 0, len(books)+len(repos)+len(docs)+len(searchEngines))
	out = append(out, books...)
	for i := range repos {
		out = append(out, repoResource(&repos[i]))
	}
	for _, d := range docs {
		out = append(out, pdfResource(d))
	}
	if len(docs) == 0 {
		out = append(out, searchLinks(topic)...)
	}

	if len(out) > count {
		out = out[:count]
	}
	return out, nil
}

func (s *Service) libraryBooks(ctx context.Context, topic string) ([]recommendation.Resource, error) {
	req, err := request.New(topic, category.Any, maxLibraryBooks)
	if err != nil {
		return nil, fmt.Errorf("library search: %w", err)
	}
	res, err := s.catalog.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("library search: %w", err)
	}

	out := make([]recommendation.Resource, 0, res.Returned())
	for _, b := range res.Records() {
		out = append(out, recommendation.Resource{
			Title:         b.Title,
			Author:        b.Author,
			Subject:       b.Subject,
			Kind:          recommendation.KindLibraryBook,
			Justification: "Livro disponível na biblioteca sobre " + topic,
			Source:        "Biblioteca Local",
		})
	}
	return out, nil
}

func repoResource(r *recommendation.Repository) recommendation.Resource {
	subject := r.Language
	if subject == "" {
		subject = notSpecified
	}
	description := r.Description
	if description == "" {
		description = "Sem descrição"
	}
	return recommendation.Resource{
		Title:         r.Name,
		Author:        r.Owner,
		Subject:       subject,
		Kind:          recommendation.KindGitHubRepo,
		Justification: fmt.Sprintf("Repositório popular com %d estrelas. %s", r.Stars, description),
		URL:           r.URL,
		Stars:         r.Stars,
		Forks:         r.Forks,
		Source:        "GitHub",
	}
}

func pdfResource(d recommendation.Document) recommendation.Resource {
	description := d.Description
	if description == "" {
		description = "Conteúdo relacionado ao tópico"
	}
	return recommendation.Resource{
		Title:         d.Title,
		Subject:       "PDF",
		Kind:          recommendation.KindPDF,
		Justification: "PDF encontrado via SearXNG: " + description,
		URL:           d.URL,
		Source:        "SearXNG PDF",
	}
}

func searchLinks(topic string) []recommendation.Resource {
	q := url.QueryEscape(topic) + "+filetype:pdf"
	out := make([]recommendation.Resource, 0, len(searchEngines))
	for _, e := range searchEngines {
		out = append(out, recommendation.Resource{
			Title:         fmt.Sprintf("Buscar PDFs sobre %q no %s", topic, e.name),
			Author:        e.name,
			Subject:       "PDF",
			Kind:          recommendation.KindSearchLink,
			Justification: "Link para buscar PDFs relacionados no " + e.name,
			URL:           e.base + q,
			Source:        e.source,
		})
	}
	return out
}
