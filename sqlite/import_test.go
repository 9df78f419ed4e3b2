package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/fidata"
	"github.com/fwojciec/fidata/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexer_Import(t *testing.T) {
	t.Parallel()

	t.Run("imports every indexed dataset", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		imports, err := sqlite.NewIndexer(db).Import(ctx, testDataset())
		require.NoError(t, err)
		require.Len(t, imports, 3)

		records := map[fidata.DatasetKind]int{}
		for _, imp := range imports {
			assert.NotEmpty(t, imp.ID)
			assert.Len(t, imp.ContentHash, 16)
			assert.False(t, imp.Skipped)
			records[imp.Kind] = imp.Records
		}
		assert.Equal(t, map[fidata.DatasetKind]int{
			fidata.DatasetFeatures: 3,
			fidata.DatasetIssues:   3,
			fidata.DatasetReleases: 2,
		}, records)

		var platforms int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM feature_platforms").Scan(&platforms))
		assert.Equal(t, 6, platforms)
	})

	t.Run("skips unchanged datasets", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		ix := sqlite.NewIndexer(db)

		first, err := ix.Import(ctx, testDataset())
		require.NoError(t, err)

		d := testDataset()
		d.Issues = d.Issues[:1]
		second, err := ix.Import(ctx, d)
		require.NoError(t, err)

		for i, imp := range second {
			if imp.Kind == fidata.DatasetIssues {
				assert.False(t, imp.Skipped)
				assert.NotEqual(t, first[i].ID, imp.ID)
				assert.Equal(t, 1, imp.Records)
				continue
			}
			assert.True(t, imp.Skipped, imp.Kind)
			assert.Equal(t, first[i].ID, imp.ID)
		}

		var issues int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM issues").Scan(&issues))
		assert.Equal(t, 1, issues)

		var searchRows int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM search_content WHERE kind = 'issue'").Scan(&searchRows))
		assert.Equal(t, 1, searchRows)
	})

	t.Run("replaces features and their platforms", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		ix := sqlite.NewIndexer(db)

		_, err := ix.Import(ctx, testDataset())
		require.NoError(t, err)

		d := testDataset()
		d.Features = d.Features[2:]
		_, err = ix.Import(ctx, d)
		require.NoError(t, err)

		var platforms int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM feature_platforms").Scan(&platforms))
		assert.Equal(t, 2, platforms)
	})
}

func TestIndexer_FindImports(t *testing.T) {
	t.Parallel()

	db := setupIndexedDB(t)
	ix := sqlite.NewIndexer(db)

	all, err := ix.FindImports(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	kind := fidata.DatasetReleases
	releases, err := ix.FindImports(context.Background(), &kind, 0)
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, 2, releases[0].Records)
	assert.False(t, releases[0].ImportedAt.IsZero())
}
