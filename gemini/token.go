package gemini

import (
	"context"
	"fmt"

	"github.com/fwojciec/fidata"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ fidata.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts issue tokens offline with the Gemini tokenizer.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a TokenCounter for model. The tokenizer model
// file is downloaded on first use.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer for %s: %w", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

func (tc *TokenCounter) CountIssueTokens(ctx context.Context, issues []*fidata.Issue) ([]int, error) {
	counts := make([]int, len(issues))
	for i, issue := range issues {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := tc.count(fidata.FormatIssues([]*fidata.Issue{issue}))
		if err != nil {
			return nil, fmt.Errorf("count tokens of %s: %w", issue.ID, err)
		}
		counts[i] = n
	}
	return counts, nil
}

func (tc *TokenCounter) count(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}
