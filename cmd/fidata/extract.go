package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/fidata"
	"github.com/fwojciec/fidata/fs"
)

// Run executes the extract command. Unreadable documents are reported and
// skipped; only the datasets that were extracted are written.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	d := &fidata.Dataset{}
	var kinds []fidata.DatasetKind

	if c.What == "features" || c.What == "all" {
		paths, err := c.inputs(fidata.DocumentFeatureMatrix)
		if err != nil {
			return err
		}
		features, stats, err := deps.Runner.Features(deps.Ctx, paths, progressPrinter(deps))
		if err != nil {
			return err
		}
		d.Features = features
		kinds = append(kinds, fidata.DatasetFeatures)
		fmt.Fprintf(deps.Stdout, "Extracted %d features from %d documents (%d failed)\n", stats.Records, stats.Documents, stats.Failed)
	}

	if c.What != "features" {
		paths, err := c.inputs(fidata.DocumentReleaseNotes)
		if err != nil {
			return err
		}
		notes, stats, err := deps.Runner.ReleaseNotes(deps.Ctx, paths, progressPrinter(deps))
		if err != nil {
			return err
		}
		d.Issues, d.Releases = notes.Issues, notes.Releases
		switch c.What {
		case "issues":
			kinds = append(kinds, fidata.DatasetIssues)
		case "releases":
			kinds = append(kinds, fidata.DatasetReleases)
		default:
			d.Defects = fidata.ConsolidateIssues(d.Issues)
			kinds = append(kinds, fidata.DatasetIssues, fidata.DatasetReleases, fidata.DatasetDefects)
		}
		fmt.Fprintf(deps.Stdout, "Extracted %d issues and %d releases from %d documents (%d failed)\n",
			len(d.Issues), len(d.Releases), stats.Documents, stats.Failed)
	}

	if err := deps.Store.Save(deps.Ctx, d, kinds...); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fidata.ErrorMessage(err))
		return err
	}
	return nil
}

func (c *ExtractCmd) inputs(kind fidata.DocumentKind) ([]string, error) {
	paths, err := fs.FindInputs(c.Input, kind)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fidata.Errorf(fidata.ENOTFOUND, "no %s documents found in %s", kind, c.Input)
	}
	return paths, nil
}

// progressPrinter reports each processed document on stderr.
func progressPrinter(deps *Dependencies) fidata.ExtractProgressFunc {
	return func(p fidata.ExtractProgress) {
		switch p.Type {
		case fidata.ExtractCompleted:
			fmt.Fprintf(deps.Stderr, "[%d/%d] %s: %d records\n", p.Completed, p.Total, filepath.Base(p.Path), p.Records)
		case fidata.ExtractFailed:
			fmt.Fprintf(deps.Stderr, "[%d/%d] %s: skipped: %v\n", p.Completed, p.Total, filepath.Base(p.Path), p.Error)
		}
	}
}

// Run executes the consolidate command.
func (c *ConsolidateCmd) Run(deps *Dependencies) error {
	d, err := deps.Store.Load(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fidata.ErrorMessage(err))
		return err
	}
	if len(d.Issues) == 0 {
		return fidata.Errorf(fidata.ENOTFOUND, "no issues to consolidate. Run 'fidata extract issues' first")
	}

	d.Defects = fidata.ConsolidateIssues(d.Issues)
	if err := deps.Store.Save(deps.Ctx, d, fidata.DatasetDefects); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fidata.ErrorMessage(err))
		return err
	}

	fixed := 0
	for _, def := range d.Defects {
		if def.CurrentStatus == fidata.DefectFixed {
			fixed++
		}
	}
	fmt.Fprintf(deps.Stdout, "Consolidated %d issues into %d defects (%d fixed)\n", len(d.Issues), len(d.Defects), fixed)
	return nil
}
