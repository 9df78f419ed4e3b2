package fidata

import "context"

// SearchKind identifies the dataset a search result came from.
type SearchKind string

// Search result kinds.
const (
	SearchFeature SearchKind = "feature"
	SearchIssue   SearchKind = "issue"
	SearchRelease SearchKind = "release"
)

// SearchService provides free-text search across datasets.
type SearchService interface {
	// Search returns results ordered by relevance to the query.
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
}

// SearchOptions configures search behavior.
type SearchOptions struct {
	// Restrict results to these kinds. Empty means all kinds.
	Kinds []SearchKind `json:"kinds,omitempty"`

	// Restrict results to a single version.
	Version string `json:"version,omitempty"`

	// Maximum number of results to return
	Limit int `json:"limit,omitempty"`
}

// SearchResult represents a search match.
type SearchResult struct {
	Kind    SearchKind `json:"kind"`
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Version string     `json:"version"`
	Snippet string     `json:"snippet"`
	Score   float64    `json:"score"`
}
