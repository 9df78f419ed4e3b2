package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/fwojciec/fidata"
	"github.com/fwojciec/fidata/filter"
)

// options converts the flags into filter options.
func (f ListFlags) options() (*filter.Options, error) {
	q := url.Values{}
	if f.Filter != "" {
		q.Set("filter", f.Filter)
	}
	if f.SortField != "" {
		q.Set("sortField", f.SortField)
	}
	if f.Desc {
		q.Set("sort", string(fidata.SortDescending))
	}
	if f.Limit != 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset != 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	return filter.OptionsFromQuery(q, "", fidata.SortAscending)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Run executes the features command.
func (c *FeaturesCmd) Run(deps *Dependencies) error {
	opts, err := c.options()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fidata.ErrorMessage(err))
		return err
	}

	features, err := deps.Features.FindFeatures(deps.Ctx, fidata.FeatureFilter{
		Version:  optional(c.Version),
		Platform: optional(strings.ToUpper(c.Platform)),
		Category: optional(c.Category),
		Query:    optional(c.Query),
	})
	if err == nil {
		features, err = filter.Apply(features, opts)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fidata.ErrorMessage(err))
		return err
	}

	if deps.JSON {
		return printJSON(deps.Stdout, features)
	}
	if len(features) == 0 {
		fmt.Fprintln(deps.Stdout, "No features found.")
		return nil
	}
	for _, f := range features {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", f.Version, fidata.FormatFeature(f))
	}
	return nil
}

// Run executes the compare versions command.
func (c *CompareVersionsCmd) Run(deps *Dependencies) error {
	features, err := deps.Features.FindFeatures(deps.Ctx, fidata.FeatureFilter{})
	if err != nil {
		return err
	}
	diff, err := fidata.DiffVersions(features, strings.ToUpper(c.Platform), c.From, c.To)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fidata.ErrorMessage(err))
		return err
	}

	if deps.JSON {
		return printJSON(deps.Stdout, diff)
	}
	fmt.Fprintf(deps.Stdout, "%s: %s -> %s\n", diff.Platform, diff.From, diff.To)
	printChanges(deps, "Added", diff.Added)
	printChanges(deps, "Removed", diff.Removed)
	printChanges(deps, "Changed", diff.Changed)
	return nil
}

// Run executes the compare platforms command.
func (c *ComparePlatformsCmd) Run(deps *Dependencies) error {
	features, err := deps.Features.FindFeatures(deps.Ctx, fidata.FeatureFilter{Version: &c.Version})
	if err != nil {
		return err
	}
	diff, err := fidata.DiffPlatforms(features, c.Version, strings.ToUpper(c.A), strings.ToUpper(c.B))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fidata.ErrorMessage(err))
		return err
	}

	if deps.JSON {
		return printJSON(deps.Stdout, diff)
	}
	fmt.Fprintf(deps.Stdout, "%s: %s vs %s (%d shared)\n", diff.Version, diff.A, diff.B, diff.Both)
	printChanges(deps, "Only "+diff.A, diff.OnlyA)
	printChanges(deps, "Only "+diff.B, diff.OnlyB)
	return nil
}

func printChanges(deps *Dependencies, title string, changes []*fidata.FeatureChange) {
	fmt.Fprintf(deps.Stdout, "\n%s (%d):\n", title, len(changes))
	for _, ch := range changes {
		fmt.Fprintf(deps.Stdout, "  [%s] %s: %s -> %s\n", ch.Category, ch.Name, ch.From, ch.To)
	}
}

// Run executes the platforms command.
func (c *PlatformsCmd) Run(deps *Dependencies) error {
	platforms, err := deps.Features.FindPlatforms(deps.Ctx, c.Version)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fidata.ErrorMessage(err))
		return err
	}
	if deps.JSON {
		return printJSON(deps.Stdout, platforms)
	}
	for _, p := range platforms {
		fmt.Fprintln(deps.Stdout, p)
	}
	return nil
}

// Run executes the versions command.
func (c *VersionsCmd) Run(deps *Dependencies) error {
	features, err := deps.Features.FindFeatureVersions(deps.Ctx)
	if err != nil {
		return err
	}
	issues, err := deps.Issues.FindIssueVersions(deps.Ctx)
	if err != nil {
		return err
	}

	if deps.JSON {
		return printJSON(deps.Stdout, map[string][]string{"features": features, "issues": issues})
	}
	fmt.Fprintf(deps.Stdout, "Feature matrices: %s\n", joinOrNone(features))
	fmt.Fprintf(deps.Stdout, "Release notes:    %s\n", joinOrNone(issues))
	return nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
