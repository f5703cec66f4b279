// Package recommendation models supplementary learning material suggested for a topic.
package recommendation

// Kind identifies where a resource comes from.
type Kind string

// Resource kinds.
const (
	KindLibraryBook Kind = "library_book"
	KindGitHubRepo  Kind = "github_repo"
	KindPDF         Kind = "pdf"
	KindSearchLink  Kind = "search_link"
	// KindAIBook is a catalog book suggested by the generative model.
	KindAIBook Kind = "ai_book"
)

// Resource is one suggested item.
type Resource struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Subject       string `json:"subject"`
	Kind          Kind   `json:"type"`
	Justification string `json:"justification"`
	URL           string `json:"url,omitempty"`
	Stars         int    `json:"stars,omitempty"`
	Forks         int    `json:"forks,omitempty"`
	Source        string `json:"source"`
}

// Request asks for resources on a topic.
type Request struct {
	Topic string `json:"topic" validate:"required,max=256"`
	Count int    `json:"num_recommendations" validate:"min=1,max=50"`
}

// DefaultCount is used when a request omits the number of recommendations.
const DefaultCount = 5

// Repository is a GitHub repository search hit.
type Repository struct {
	Name        string
	FullName    string
	Owner       string
	Description string
	Language    string
	Stars       int
	Forks       int
	URL         string
	Topics      []string
}

// Document is a web search hit pointing at a downloadable file.
type Document struct {
	Title       string
	URL         string
	Description string
}
