package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/fidata"
	"github.com/fwojciec/fidata/mock"
	fislog "github.com/fwojciec/fidata/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingPageReader_ReadPages(t *testing.T) {
	t.Parallel()

	t.Run("logs page and table counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.PageReader{
			ReadPagesFn: func(ctx context.Context, path string) ([]*fidata.Page, error) {
				return []*fidata.Page{
					{Number: 1, Tables: []fidata.Table{{{"Feature", "ICX7150"}}}},
					{Number: 2},
				}, nil
			},
		}

		r := fislog.NewLoggingPageReader(inner, debugLogger(&buf))
		pages, err := r.ReadPages(context.Background(), "matrix.pdf")

		require.NoError(t, err)
		assert.Len(t, pages, 2)
		output := buf.String()
		assert.Contains(t, output, "read pages")
		assert.Contains(t, output, "path=matrix.pdf")
		assert.Contains(t, output, "pages=2")
		assert.Contains(t, output, "tables=1")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.PageReader{
			ReadPagesFn: func(ctx context.Context, path string) ([]*fidata.Page, error) {
				return nil, errors.New("malformed xref")
			},
		}

		_, err := fislog.NewLoggingPageReader(inner, debugLogger(&buf)).ReadPages(context.Background(), "bad.pdf")

		require.Error(t, err)
		assert.Contains(t, buf.String(), `err="malformed xref"`)
	})

	t.Run("silent above debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.PageReader{
			ReadPagesFn: func(ctx context.Context, path string) ([]*fidata.Page, error) {
				return nil, nil
			},
		}

		_, err := fislog.NewLoggingPageReader(inner, slog.New(slog.NewTextHandler(&buf, nil))).ReadPages(context.Background(), "a.pdf")

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}

func TestLoggingIssueService(t *testing.T) {
	t.Parallel()

	t.Run("logs set filter fields", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.IssueService{
			FindIssuesFn: func(ctx context.Context, filter fidata.IssueFilter) ([]*fidata.Issue, error) {
				return []*fidata.Issue{{ID: "FI-1"}}, nil
			},
		}

		status := fidata.IssueClosed
		version := "10.0.10"
		svc := fislog.NewLoggingIssueService(inner, debugLogger(&buf))
		issues, err := svc.FindIssues(context.Background(), fidata.IssueFilter{Status: &status, Version: &version})

		require.NoError(t, err)
		assert.Len(t, issues, 1)
		output := buf.String()
		assert.Contains(t, output, "find issues")
		assert.Contains(t, output, "filter.status=closed")
		assert.Contains(t, output, "filter.version=10.0.10")
		assert.NotContains(t, output, "filter.id")
		assert.Contains(t, output, "count=1")
	})

	t.Run("logs defect lookups", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.IssueService{
			FindDefectByIDFn: func(ctx context.Context, id string) (*fidata.Defect, error) {
				return nil, fidata.Errorf(fidata.ENOTFOUND, "Defect %s not found.", id)
			},
			FindIssueVersionsFn: func(ctx context.Context) ([]string, error) {
				return []string{"9.0.10", "10.0.10"}, nil
			},
		}

		svc := fislog.NewLoggingIssueService(inner, debugLogger(&buf))
		_, err := svc.FindDefectByID(context.Background(), "FI-9")
		assert.Equal(t, fidata.ENOTFOUND, fidata.ErrorCode(err))

		versions, err := svc.FindIssueVersions(context.Background())
		require.NoError(t, err)
		assert.Len(t, versions, 2)

		output := buf.String()
		assert.Contains(t, output, "id=FI-9")
		assert.Contains(t, output, `err="Defect FI-9 not found."`)
		assert.Contains(t, output, "find issue versions")
	})
}

func TestLoggingSearchService_Search(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.SearchService{
		SearchFn: func(ctx context.Context, query string, opts fidata.SearchOptions) ([]fidata.SearchResult, error) {
			return []fidata.SearchResult{{ID: "FI-1"}, {ID: "LLDP"}}, nil
		},
	}

	svc := fislog.NewLoggingSearchService(inner, debugLogger(&buf))
	results, err := svc.Search(context.Background(), "stacking", fidata.SearchOptions{Version: "10.0.10"})

	require.NoError(t, err)
	assert.Len(t, results, 2)
	output := buf.String()
	assert.Contains(t, output, "query=stacking")
	assert.Contains(t, output, "version=10.0.10")
	assert.Contains(t, output, "count=2")
}
