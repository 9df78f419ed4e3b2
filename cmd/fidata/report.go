package main

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"

	"github.com/fwojciec/fidata"
	"github.com/fwojciec/fidata/fs"
)

// Run executes the coverage command.
func (c *CoverageCmd) Run(deps *Dependencies) error {
	var featureVersions, issueVersions []string

	if c.Input != "" {
		matrices, err := fs.FindInputs(c.Input, fidata.DocumentFeatureMatrix)
		if err != nil {
			return err
		}
		for _, p := range matrices {
			if v, ok := fidata.MatrixVersionFromFilename(filepath.Base(p)); ok {
				featureVersions = append(featureVersions, v)
			}
		}
		notes, err := fs.FindInputs(c.Input, fidata.DocumentReleaseNotes)
		if err != nil {
			return err
		}
		for _, p := range notes {
			if v, ok := fidata.ReleaseVersionFromFilename(filepath.Base(p)); ok {
				issueVersions = append(issueVersions, v)
			}
		}
	} else {
		d, err := deps.Store.Load(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", fidata.ErrorMessage(err))
			return err
		}
		featureVersions, issueVersions = d.FeatureVersions(), d.IssueVersions()
	}

	cov := fidata.ComputeCoverage(featureVersions, issueVersions, c.Base)
	if deps.JSON {
		return printJSON(deps.Stdout, cov)
	}

	w := deps.Stdout
	fmt.Fprintf(w, "Feature matrix versions: %d\n", len(cov.FeatureVersions))
	fmt.Fprintf(w, "Release notes versions:  %d\n", len(cov.IssueVersions))
	fmt.Fprintf(w, "In both:           %s\n", joinOrNone(cov.Both))
	fmt.Fprintf(w, "Feature data only: %s\n", joinOrNone(cov.FeatureOnly))
	fmt.Fprintf(w, "Issue data only:   %s\n", joinOrNone(cov.IssueOnly))
	if cov.Complete() {
		fmt.Fprintln(w, "Every feature matrix version has release notes.")
	}
	return nil
}

// Run executes the validate command. It fails when IDs repeat or required
// fields are missing.
func (c *ValidateCmd) Run(deps *Dependencies) error {
	raw, err := deps.Store.ReadRaw(fidata.DatasetDefects)
	if errors.Is(err, iofs.ErrNotExist) {
		return fidata.Errorf(fidata.ENOTFOUND, "no defects dataset. Run 'fidata consolidate' first")
	} else if err != nil {
		return err
	}

	d := &fidata.Dataset{}
	if err := fs.Decode(d, fidata.DatasetDefects, raw); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fidata.ErrorMessage(err))
		return err
	}

	report := fidata.ValidateDefects(d.Defects)
	if report.MissingFields, err = fs.CheckRequiredFields(raw, fidata.DefectRequiredFields); err != nil {
		return err
	}

	if deps.JSON {
		if err := printJSON(deps.Stdout, report); err != nil {
			return err
		}
	} else {
		printReport(deps, report)
	}

	if !report.Valid() {
		return fidata.Errorf(fidata.EINVALID, "defects dataset failed validation")
	}
	return nil
}

func printReport(deps *Dependencies, r *fidata.DefectReport) {
	w := deps.Stdout
	fmt.Fprintf(w, "Defects:          %d (%d unique)\n", r.Total, r.Unique)
	if len(r.Duplicates) > 0 {
		fmt.Fprintf(w, "Duplicate IDs:    %s\n", joinOrNone(r.Duplicates))
	}
	fmt.Fprintf(w, "With history:     %d\n", r.WithHistory)
	fmt.Fprintf(w, "Version entries:  %d (%.2f per defect)\n", r.VersionEntries, r.AvgVersions)
	fmt.Fprintf(w, "Versions:         %s\n", joinOrNone(r.Versions))

	fmt.Fprintln(w, "\nStatus:")
	for _, c := range r.Statuses {
		fmt.Fprintf(w, "  %-10s %d\n", c.Label, c.Count)
	}
	fmt.Fprintln(w, "\nTop technologies:")
	for _, c := range r.Technologies {
		fmt.Fprintf(w, "  %-30s %d\n", c.Label, c.Count)
	}

	if len(r.MissingFields) > 0 {
		fmt.Fprintf(w, "\nMissing fields (%d):\n", len(r.MissingFields))
		for _, p := range r.MissingFields {
			fmt.Fprintf(w, "  #%d %s: %s\n", p.Index, p.ID, p.Field)
		}
	}
}
