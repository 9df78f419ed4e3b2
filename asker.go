package fidata

import "context"

// Asker provides natural language question answering over release data.
type Asker interface {
	// Ask answers a question about the issues listed for a release.
	// Returns ENOTFOUND if no issues exist for the version.
	Ask(ctx context.Context, version string, question string) (string, error)
}

// TokenCounter measures how much of a model's context issues consume.
type TokenCounter interface {
	// CountIssueTokens returns the token count of each issue as formatted
	// by FormatIssues, in input order.
	CountIssueTokens(ctx context.Context, issues []*Issue) ([]int, error)
}
