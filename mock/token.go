package mock

import (
	"context"

	"github.com/fwojciec/fidata"
)

var _ fidata.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of fidata.TokenCounter.
type TokenCounter struct {
	CountIssueTokensFn func(ctx context.Context, issues []*fidata.Issue) ([]int, error)
}

func (c *TokenCounter) CountIssueTokens(ctx context.Context, issues []*fidata.Issue) ([]int, error) {
	return c.CountIssueTokensFn(ctx, issues)
}
