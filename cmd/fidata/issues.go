package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fwojciec/fidata"
	"github.com/fwojciec/fidata/filter"
)

// symptomWidth truncates symptoms in issue listings.
const symptomWidth = 80

// Run executes the issues command.
func (c *IssuesCmd) Run(deps *Dependencies) error {
	opts, err := c.options()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fidata.ErrorMessage(err))
		return err
	}

	f := fidata.IssueFilter{
		Technology: optional(c.Technology),
		Version:    optional(c.Version),
		Query:      optional(c.Query),
	}
	if c.Status != "" {
		status := fidata.IssueStatus(strings.ToLower(c.Status))
		if !slices.Contains([]fidata.IssueStatus{fidata.IssueClosed, fidata.IssueKnown, fidata.IssueUnknown}, status) {
			return fidata.Errorf(fidata.EINVALID, "invalid status %q", c.Status)
		}
		f.Status = &status
	}

	issues, err := deps.Issues.FindIssues(deps.Ctx, f)
	if err == nil {
		issues, err = filter.Apply(issues, opts)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fidata.ErrorMessage(err))
		return err
	}

	if deps.JSON {
		return printJSON(deps.Stdout, issues)
	}
	if len(issues) == 0 {
		fmt.Fprintln(deps.Stdout, "No issues found.")
		return nil
	}
	for _, i := range issues {
		fmt.Fprintf(deps.Stdout, "%s  %-7s  %-10s  %s  %s\n", i.ID, i.Status, i.ReportedVersion, i.Technology, truncate(i.Symptom, symptomWidth))
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Run executes the defect command.
func (c *DefectCmd) Run(deps *Dependencies) error {
	detail, err := fidata.FindDefectDetail(deps.Ctx, deps.Issues, deps.Releases, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fidata.ErrorMessage(err))
		return err
	}

	if deps.JSON {
		return printJSON(deps.Stdout, detail)
	}

	w := deps.Stdout
	fmt.Fprintf(w, "%s (%s)\n", detail.ID, detail.CurrentStatus)
	fmt.Fprintf(w, "Symptom:    %s\n", detail.Symptom)
	if detail.Condition != "" {
		fmt.Fprintf(w, "Condition:  %s\n", detail.Condition)
	}
	if detail.Workaround != "" {
		fmt.Fprintf(w, "Workaround: %s\n", detail.Workaround)
	}
	if detail.Technology != "" {
		fmt.Fprintf(w, "Technology: %s\n", detail.Technology)
	}
	fmt.Fprintf(w, "First seen: %s\n", detail.FirstSeen)
	if detail.FixedIn != nil {
		fmt.Fprintf(w, "Fixed in:   %s\n", *detail.FixedIn)
	}

	fmt.Fprintln(w, "\nHistory:")
	for _, e := range detail.Entries {
		fmt.Fprintf(w, "  %-12s %s\n", e.ReportedVersion, e.Status)
	}

	if detail.FixedRelease != nil {
		fmt.Fprintf(w, "\nRelease %s also introduced:\n", detail.FixedRelease.Version)
		for _, n := range detail.FixedRelease.Notes() {
			fmt.Fprintf(w, "  [%s] %s\n", n.Category, n.Description)
		}
	}
	return nil
}

// Run executes the releases command.
func (c *ReleasesCmd) Run(deps *Dependencies) error {
	f := fidata.ReleaseFilter{
		Version: optional(c.Version),
		Query:   optional(c.Query),
		Limit:   c.Limit,
	}
	if c.Category != "" {
		cat := fidata.NoteCategory(strings.ToLower(c.Category))
		f.Category = &cat
	}

	notes, err := deps.Releases.FindReleaseNotes(deps.Ctx, f)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fidata.ErrorMessage(err))
		return err
	}

	if deps.JSON {
		return printJSON(deps.Stdout, notes)
	}
	if len(notes) == 0 {
		fmt.Fprintln(deps.Stdout, "No release notes found.")
		return nil
	}
	for _, n := range notes {
		fmt.Fprintf(deps.Stdout, "%-12s [%s] %s\n", n.Version, n.Category, n.Description)
	}
	return nil
}

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	opts := fidata.SearchOptions{Version: c.Version, Limit: c.Limit}
	for _, k := range c.Kinds {
		kind := fidata.SearchKind(strings.ToLower(k))
		switch kind {
		case fidata.SearchFeature, fidata.SearchIssue, fidata.SearchRelease:
			opts.Kinds = append(opts.Kinds, kind)
		default:
			return fidata.Errorf(fidata.EINVALID, "invalid kind %q", k)
		}
	}

	results, err := deps.Search.Search(deps.Ctx, strings.Join(c.Query, " "), opts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fidata.ErrorMessage(err))
		return err
	}

	if deps.JSON {
		return printJSON(deps.Stdout, results)
	}
	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No results.")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(deps.Stdout, "%-7s  %-12s  %s\n", r.Kind, r.Version, r.Title)
		if r.Snippet != "" {
			fmt.Fprintf(deps.Stdout, "         %s\n", r.Snippet)
		}
	}
	return nil
}
