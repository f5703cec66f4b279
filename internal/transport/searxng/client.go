// Package searxng finds PDF documents through a SearXNG metasearch instance.
package searxng

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/libsearch/internal/domain/recommendation"
	"github.com/kailas-cloud/libsearch/internal/transport/httpclient"
)

// Defaults for a local instance.
const (
	DefaultBaseURL  = "http://localhost:8080"
	DefaultLanguage = "pt-BR"
	browserUA       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"
)

// Config holds SearXNG settings.
type Config struct {
	BaseURL  string
	Language string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// Client queries the SearXNG JSON API.
type Client struct {
	http     *httpclient.Client
	baseURL  string
	language string
}

// New creates a SearXNG client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	return &Client{
		http: httpclient.New(httpclient.Config{
			Provider: "searxng",
			Timeout:  cfg.Timeout,
			Headers:  map[string]string{"User-Agent": browserUA},
			Logger:   cfg.Logger,
		}),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		language: cfg.Language,
	}
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// SearchPDFs returns up to limit documents about topic that look like PDF files.
// A hit qualifies when its URL ends in ".pdf" or its title mentions "pdf".
func (c *Client) SearchPDFs(ctx context.Context, topic string, limit int) ([]recommendation.Document, error) {
	if limit <= 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", strings.TrimSpace(topic)+" filetype:pdf")
	params.Set("categories", "files")
	params.Set("format", "json")
	params.Set("language", c.language)
	params.Set("safesearch", "1")
	params.Set("count", strconv.Itoa(limit*2))

	var resp searchResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/search?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("searxng search: %w", err)
	}

	docs := make([]recommendation.Document, 0, limit)
	for _, r := range resp.Results {
		if r.URL == "" || !isPDF(r.URL, r.Title) {
			continue
		}
		title := r.Title
		if title == "" {
			title = r.URL
		}
		docs = append(docs, recommendation.Document{Title: title, URL: r.URL, Description: r.Content})
		if len(docs) == limit {
			break
		}
	}
	return docs, nil
}

func isPDF(rawURL, title string) bool {
	return strings.HasSuffix(strings.ToLower(rawURL), ".pdf") ||
		strings.Contains(strings.ToLower(title), "pdf")
}
