package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fwojciec/fidata"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of documents read at once.
const DefaultConcurrency = 4

// Runner extracts records from many documents concurrently.
type Runner struct {
	Pages       fidata.PageReader
	Concurrency int
}

// Stats holds the outcome of an extraction run.
type Stats struct {
	Documents int
	Failed    int
	Records   int
}

// ReleaseNotes holds the records extracted from release notes documents.
type ReleaseNotes struct {
	Issues   []*fidata.Issue
	Releases []*fidata.Release
}

// docResult holds the outcome of processing a single document.
type docResult[T any] struct {
	position int
	path     string
	records  T
	count    int
	err      error
}

// Features extracts every feature support matrix in paths. Documents whose
// name carries no version or that cannot be read are skipped.
func (r *Runner) Features(ctx context.Context, paths []string, progress fidata.ExtractProgressFunc) ([]*fidata.Feature, *Stats, error) {
	results, stats, err := run(ctx, r, paths, progress, func(ctx context.Context, path string) ([]*fidata.Feature, int, error) {
		version, ok := fidata.MatrixVersionFromFilename(filepath.Base(path))
		if !ok {
			return nil, 0, fidata.Errorf(fidata.EINVALID, "no version in file name %q", filepath.Base(path))
		}
		pages, err := r.Pages.ReadPages(ctx, path)
		if err != nil {
			return nil, 0, err
		}
		features := Features(pages, version)
		return features, len(features), nil
	})
	if err != nil {
		return nil, nil, err
	}

	var features []*fidata.Feature
	for _, fs := range results {
		features = append(features, fs...)
	}
	return features, stats, nil
}

// ReleaseNotes extracts the issues and new-release chapters of every release
// notes document in paths.
func (r *Runner) ReleaseNotes(ctx context.Context, paths []string, progress fidata.ExtractProgressFunc) (*ReleaseNotes, *Stats, error) {
	results, stats, err := run(ctx, r, paths, progress, func(ctx context.Context, path string) (*ReleaseNotes, int, error) {
		version, ok := fidata.ReleaseVersionFromFilename(filepath.Base(path))
		if !ok {
			return nil, 0, fidata.Errorf(fidata.EINVALID, "no version in file name %q", filepath.Base(path))
		}
		pages, err := r.Pages.ReadPages(ctx, path)
		if err != nil {
			return nil, 0, err
		}
		notes := &ReleaseNotes{Issues: Issues(pages, version)}
		count := len(notes.Issues)
		if rel := Release(pages, version); rel != nil {
			notes.Releases = []*fidata.Release{rel}
			count++
		}
		return notes, count, nil
	})
	if err != nil {
		return nil, nil, err
	}

	out := &ReleaseNotes{}
	for _, n := range results {
		if n == nil {
			continue
		}
		out.Issues = append(out.Issues, n.Issues...)
		out.Releases = append(out.Releases, n.Releases...)
	}
	return out, stats, nil
}

// run processes paths with bounded concurrency and returns the successful
// results in input order. Only context cancellation fails the run.
func run[T any](
	ctx context.Context,
	r *Runner,
	paths []string,
	progress fidata.ExtractProgressFunc,
	process func(ctx context.Context, path string) (T, int, error),
) ([]T, *Stats, error) {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(paths)
	if progress != nil {
		progress(fidata.ExtractProgress{Type: fidata.ExtractStarted, Total: total})
	}

	resultCh := make(chan docResult[T], total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, path := range paths {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					resultCh <- docResult[T]{position: i, path: path, err: err}
					return nil
				}
				records, count, err := process(gctx, path)
				if err != nil {
					err = fmt.Errorf("%s: %w", filepath.Base(path), err)
				}
				resultCh <- docResult[T]{position: i, path: path, records: records, count: count, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results in order
	results := make([]docResult[T], total)
	var completed atomic.Int64
	stats := &Stats{Documents: total}
	for res := range resultCh {
		completed.Add(1)
		results[res.position] = res

		event := fidata.ExtractProgress{
			Type:      fidata.ExtractCompleted,
			Path:      res.path,
			Completed: int(completed.Load()),
			Total:     total,
			Records:   res.count,
		}
		if res.err != nil {
			stats.Failed++
			event.Type = fidata.ExtractFailed
			event.Error = res.err
		} else {
			stats.Records += res.count
		}
		if progress != nil {
			progress(event)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	out := make([]T, 0, total)
	for _, res := range results {
		if res.err == nil {
			out = append(out, res.records)
		}
	}

	if progress != nil {
		progress(fidata.ExtractProgress{
			Type:      fidata.ExtractFinished,
			Completed: total,
			Total:     total,
			Records:   stats.Records,
		})
	}
	return out, stats, nil
}
