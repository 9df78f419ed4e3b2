package main

import (
	"errors"
	"fmt"
	iofs "io/fs"

	"github.com/fwojciec/fidata"
	fidatahttp "github.com/fwojciec/fidata/http"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := fidatahttp.NewServer()
	s.Addr = c.Addr
	s.Logger = deps.Logger
	s.FeatureService = deps.Features
	s.IssueService = deps.Issues
	s.ReleaseService = deps.Releases
	s.SearchService = deps.Search

	if err := s.Open(); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.Addr, err)
	}
	fmt.Fprintf(deps.Stdout, "Serving on %s\n", s.URL())

	<-deps.Ctx.Done()
	return s.Close()
}

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	d, err := deps.Store.Load(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fidata.ErrorMessage(err))
		return err
	}

	imports, err := deps.Indexer.Import(deps.Ctx, d)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fidata.ErrorMessage(err))
		return err
	}

	if deps.JSON {
		return printJSON(deps.Stdout, imports)
	}
	for _, imp := range imports {
		state := "imported"
		if imp.Skipped {
			state = "unchanged"
		}
		fmt.Fprintf(deps.Stdout, "%-9s %6d records  %s  %s\n", imp.Kind, imp.Records, imp.ContentHash, state)
	}
	return nil
}

// Run executes the publish command. Missing datasets are skipped.
func (c *PublishCmd) Run(deps *Dependencies) error {
	published := 0
	for _, kind := range fidata.DatasetKinds {
		raw, err := deps.Store.ReadRaw(kind)
		if errors.Is(err, iofs.ErrNotExist) {
			fmt.Fprintf(deps.Stderr, "skipping %s: not found\n", kind.Filename())
			continue
		} else if err != nil {
			return err
		}
		if err := deps.Publisher.Publish(deps.Ctx, kind.Filename(), raw); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", fidata.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Published %s (%d bytes)\n", kind.Filename(), len(raw))
		published++
	}
	if published == 0 {
		return fidata.Errorf(fidata.ENOTFOUND, "no datasets to publish")
	}
	return nil
}

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	answer, err := deps.Asker.Ask(deps.Ctx, c.Version, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fidata.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	return nil
}
