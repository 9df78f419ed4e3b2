package inmem

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/fidata"
)

// DefaultSearchLimit caps results when SearchOptions.Limit is zero.
const DefaultSearchLimit = 20

// snippetLen is the number of runes kept around a match.
const snippetLen = 160

// SearchService scores records by how many query terms their text contains.
// It serves when no full-text index has been built.
type SearchService struct {
	data *fidata.Dataset
}

// NewSearchService creates a new SearchService.
func NewSearchService(data *fidata.Dataset) *SearchService {
	return &SearchService{data: data}
}

func (s *SearchService) Search(ctx context.Context, query string, opts fidata.SearchOptions) ([]fidata.SearchResult, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, fidata.Errorf(fidata.EINVALID, "search query required")
	}
	want := func(k fidata.SearchKind) bool {
		return len(opts.Kinds) == 0 || slices.Contains(opts.Kinds, k)
	}
	inVersion := func(v string) bool {
		return opts.Version == "" || v == opts.Version
	}

	results := make([]fidata.SearchResult, 0)
	add := func(kind fidata.SearchKind, id, title, version, text string) {
		if score := termScore(terms, title+" "+text); score > 0 {
			results = append(results, fidata.SearchResult{
				Kind:    kind,
				ID:      id,
				Title:   title,
				Version: version,
				Snippet: snippet(text, terms[0]),
				Score:   score,
			})
		}
	}

	if want(fidata.SearchIssue) {
		for _, i := range s.data.Issues {
			if !inVersion(i.ReportedVersion) {
				continue
			}
			add(fidata.SearchIssue, i.ID, i.ID+" "+i.Technology, i.ReportedVersion,
				strings.Join([]string{i.Symptom, i.Condition, i.Workaround}, " "))
		}
	}
	if want(fidata.SearchFeature) {
		for _, f := range s.data.Features {
			if !inVersion(f.Version) {
				continue
			}
			add(fidata.SearchFeature, f.Name, f.Name, f.Version, f.Category)
		}
	}
	if want(fidata.SearchRelease) {
		for _, r := range s.data.Releases {
			if !inVersion(r.Version) {
				continue
			}
			for _, n := range r.Notes() {
				add(fidata.SearchRelease, r.Version+"/"+string(n.Category), string(n.Category), r.Version, n.Description)
			}
		}
	}

	slices.SortStableFunc(results, func(a, b fidata.SearchResult) int {
		return cmp.Compare(b.Score, a.Score)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return page(results, 0, limit), nil
}

// termScore is the fraction of terms found in text.
func termScore(terms []string, text string) float64 {
	text = strings.ToLower(text)
	found := 0
	for _, t := range terms {
		if strings.Contains(text, t) {
			found++
		}
	}
	return float64(found) / float64(len(terms))
}

// snippet returns up to snippetLen runes of text starting a little before
// the first occurrence of term.
func snippet(text, term string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	start := 0
	if i := indexFold(runes, term); i >= 0 {
		start = max(i-snippetLen/4, 0)
	}
	end := min(start+snippetLen, len(runes))
	out := string(runes[start:end])
	if start > 0 {
		out = "…" + out
	}
	if end < len(runes) {
		out += "…"
	}
	return out
}

// indexFold returns the rune offset of the first case-insensitive occurrence
// of term in runes, or -1. Offsets are counted in runes because lowercasing
// can change a rune's byte length.
func indexFold(runes []rune, term string) int {
	n := utf8.RuneCountInString(term)
	for i := 0; i+n <= len(runes); i++ {
		if strings.EqualFold(string(runes[i:i+n]), term) {
			return i
		}
	}
	return -1
}
