// Package gemini answers questions about release issues with Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/fidata"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// DefaultTokenBudget caps the tokens of issue context sent with a question.
const DefaultTokenBudget = 500_000

// Ensure Asker implements fidata.Asker at compile time.
var _ fidata.Asker = (*Asker)(nil)

// Asker implements fidata.Asker using Google Gemini.
type Asker struct {
	client *genai.Client
	issues fidata.IssueService

	// Counter trims the issue context to Budget tokens when set.
	Counter fidata.TokenCounter
	Budget  int
}

// NewAsker creates a new Asker.
func NewAsker(client *genai.Client, issues fidata.IssueService) *Asker {
	return &Asker{client: client, issues: issues, Budget: DefaultTokenBudget}
}

// Ask answers a natural language question about the issues of a release.
func (a *Asker) Ask(ctx context.Context, version, question string) (string, error) {
	if version == "" {
		return "", fidata.Errorf(fidata.EINVALID, "version required")
	}
	if question == "" {
		return "", fidata.Errorf(fidata.EINVALID, "question required")
	}

	issues, err := a.issues.FindIssues(ctx, fidata.IssueFilter{Version: &version})
	if err != nil {
		return "", err
	}
	if len(issues) == 0 {
		return "", fidata.Errorf(fidata.ENOTFOUND, "no issues found for version %q", version)
	}

	if a.Counter != nil {
		if issues, err = FitIssues(ctx, a.Counter, issues, a.Budget); err != nil {
			return "", err
		}
	}

	prompt := BuildUserPrompt(version, issues, question)
	config := BuildConfig()

	result, err := a.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", fidata.Errorf(fidata.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// FitIssues keeps the leading issues whose formatted text fits within budget
// tokens. At least one issue is always kept and a budget of zero keeps all.
func FitIssues(ctx context.Context, counter fidata.TokenCounter, issues []*fidata.Issue, budget int) ([]*fidata.Issue, error) {
	if budget <= 0 {
		return issues, nil
	}
	counts, err := counter.CountIssueTokens(ctx, issues)
	if err != nil {
		return nil, fmt.Errorf("count tokens: %w", err)
	}
	used := 0
	for i, n := range counts {
		used += n
		if used > budget && i > 0 {
			return issues[:i], nil
		}
	}
	return issues, nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a network engineer answering questions about RUCKUS FastIron switch software defects. Answer based only on the issues provided and cite issue IDs. If the answer is not in the issues, say so.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing the issues and question.
func BuildUserPrompt(version string, issues []*fidata.Issue, question string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<issues version=%q>\n", version)
	sb.WriteString(fidata.FormatIssues(issues))
	sb.WriteString("\n</issues>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}
