package sqlite

import (
	"context"
	"strings"

	"github.com/fwojciec/fidata"
)

// Ensure SearchService implements fidata.SearchService.
var _ fidata.SearchService = (*SearchService)(nil)

// DefaultSearchLimit caps results when SearchOptions.Limit is zero.
const DefaultSearchLimit = 20

// SearchService implements fidata.SearchService over the FTS5 index.
type SearchService struct {
	db *DB
}

// NewSearchService creates a new SearchService.
func NewSearchService(db *DB) *SearchService {
	return &SearchService{db: db}
}

// Search ranks indexed records with bm25. When the full-text query finds
// nothing, a substring match over titles and bodies is tried instead.
func (s *SearchService) Search(ctx context.Context, query string, opts fidata.SearchOptions) ([]fidata.SearchResult, error) {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return nil, fidata.Errorf(fidata.EINVALID, "search query required")
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultSearchLimit
	}

	results, err := s.searchFTS(ctx, terms, opts)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		return results, nil
	}
	return s.searchLike(ctx, strings.Join(terms, " "), opts)
}

func (s *SearchService) searchFTS(ctx context.Context, terms []string, opts fidata.SearchOptions) ([]fidata.SearchResult, error) {
	phrases := make([]string, len(terms))
	for i, t := range terms {
		phrases[i] = `"` + escapeFTS5Query(t) + `"`
	}

	var query strings.Builder
	args := []any{strings.Join(phrases, " ")}

	// Titles weigh twice as much as bodies.
	query.WriteString(`
		SELECT c.kind, c.ref, c.title, c.version,
			snippet(search_fts, 1, '', '', '…', 24),
			-bm25(search_fts, 2.0, 1.0) AS score
		FROM search_fts f
		JOIN search_content c ON c.rowid = f.rowid
		WHERE search_fts MATCH ?`)
	appendSearchFilters(&query, &args, opts)
	query.WriteString(" ORDER BY score DESC")
	appendPagination(&query, &args, opts.Limit, 0)

	return s.queryResults(ctx, query.String(), args...)
}

func (s *SearchService) searchLike(ctx context.Context, q string, opts fidata.SearchOptions) ([]fidata.SearchResult, error) {
	var query strings.Builder
	pattern := likePattern(q)
	args := []any{pattern, pattern}

	query.WriteString(`
		SELECT c.kind, c.ref, c.title, c.version, substr(c.body, 1, 160), 0.0 AS score
		FROM search_content c
		WHERE (c.title LIKE ? ESCAPE '\' OR c.body LIKE ? ESCAPE '\')`)
	appendSearchFilters(&query, &args, opts)
	query.WriteString(" ORDER BY c.rowid")
	appendPagination(&query, &args, opts.Limit, 0)

	return s.queryResults(ctx, query.String(), args...)
}

func (s *SearchService) queryResults(ctx context.Context, query string, args ...any) ([]fidata.SearchResult, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]fidata.SearchResult, 0)
	for rows.Next() {
		var r fidata.SearchResult
		var kind string
		if err := rows.Scan(&kind, &r.ID, &r.Title, &r.Version, &r.Snippet, &r.Score); err != nil {
			return nil, err
		}
		r.Kind = fidata.SearchKind(kind)
		results = append(results, r)
	}
	return results, rows.Err()
}

func appendSearchFilters(query *strings.Builder, args *[]any, opts fidata.SearchOptions) {
	if len(opts.Kinds) > 0 {
		query.WriteString(" AND c.kind IN (?" + strings.Repeat(", ?", len(opts.Kinds)-1) + ")")
		for _, k := range opts.Kinds {
			*args = append(*args, string(k))
		}
	}
	if opts.Version != "" {
		query.WriteString(" AND c.version = ?")
		*args = append(*args, opts.Version)
	}
}

// escapeFTS5Query escapes a term for use inside an FTS5 phrase.
func escapeFTS5Query(query string) string {
	return strings.ReplaceAll(query, `"`, `""`)
}
