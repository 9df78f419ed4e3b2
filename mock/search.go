package mock

import (
	"context"

	"github.com/fwojciec/fidata"
)

var _ fidata.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of fidata.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, query string, opts fidata.SearchOptions) ([]fidata.SearchResult, error)
}

func (s *SearchService) Search(ctx context.Context, query string, opts fidata.SearchOptions) ([]fidata.SearchResult, error) {
	return s.SearchFn(ctx, query, opts)
}
