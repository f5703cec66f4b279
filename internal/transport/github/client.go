// Package github searches public repositories and topics through the GitHub REST API.
package github

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

// Defaults match the public API.
const (
	DefaultBaseURL    = "https://api.github.com"
	DefaultAPIVersion = "2022-11-28"
	maxPerPage        = 100
	topicsPerPage     = 10
)

// Config holds GitHub client settings.
type Config struct {
	BaseURL           string
	Token             string
	APIVersion        string
	RequestsPerSecond float64
	Timeout           time.Duration
	// MinStars and MinForks filter out small repositories.
	MinStars int
	MinForks int
	Logger   *zap.Logger
}

// Client is a GitHub search client.
type Client struct {
	http     *httpclient.Client
	baseURL  string
	minStars int
	minForks int
}

// New creates a GitHub client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": cfg.APIVersion,
	}
	if cfg.Token != "" {
		headers["Authorization"] = "Bearer " + cfg.Token
	}
	return &Client{
		http: httpclient.New(httpclient.Config{
			Provider:          "github",
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Headers:           headers,
			Logger:            cfg.Logger,
		}),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		minStars: cfg.MinStars,
		minForks: cfg.MinForks,
	}
}

type repoSearchResponse struct {
	Items []struct {
		Name        string   `json:"name"`
		FullName    string   `json:"full_name"`
		Description *string  `json:"description"`
		Language    *string  `json:"language"`
		Stars       int      `json:"stargazers_count"`
		Forks       int      `json:"forks_count"`
		HTMLURL     string   `json:"html_url"`
		Topics      []string `json:"topics"`
		Owner       struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"items"`
}

type topicSearchResponse struct {
	Items []struct {
		Name string `json:"name"`
	} `json:"items"`
}

// SearchRepositories returns up to limit repositories about topic, most starred first.
func (c *Client) SearchRepositories(ctx context.Context, topic string, limit int) ([]recommendation.Repository, error) {
	if limit <= 0 {
		return nil, nil
	}
	if limit > maxPerPage {
		limit = maxPerPage
	}

	q := strings.TrimSpace(topic)
	if c.minStars > 0 {
		q += fmt.Sprintf(" stars:>%d", c.minStars)
	}
	if c.minForks > 0 {
		q += fmt.Sprintf(" fork:>%d", c.minForks)
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("per_page", strconv.Itoa(limit))

	var resp repoSearchResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/search/repositories?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("search repositories: %w", err)
	}

	repos := make([]recommendation.Repository, 0, len(resp.Items))
	for _, it := range resp.Items {
		owner := it.Owner.Login
		if owner == "" {
			owner, _, _ = strings.Cut(it.FullName, "/")
		}
		repos = append(repos, recommendation.Repository{
			Name:        it.Name,
			FullName:    it.FullName,
			Owner:       owner,
			Description: deref(it.Description),
			Language:    deref(it.Language),
			Stars:       it.Stars,
			Forks:       it.Forks,
			URL:         it.HTMLURL,
			Topics:      it.Topics,
		})
		if len(repos) == limit {
			break
		}
	}
	return repos, nil
}

// SearchTopics returns names of GitHub topics related to query.
func (c *Client) SearchTopics(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("q", strings.TrimSpace(query))
	params.Set("per_page", strconv.Itoa(topicsPerPage))

	var resp topicSearchResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/search/topics?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("search topics: %w", err)
	}

	names := make([]string, 0, len(resp.Items))
	for _, it := range resp.Items {
		names = append(names, it.Name)
	}
	return names, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
