package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/fidata"
	"github.com/fwojciec/fidata/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: Dataset Storage
// Datasets live as indented JSON arrays and are replaced atomically.

func TestDatasetStore_SaveAndLoad(t *testing.T) {
	t.Parallel()

	// Given a store in an empty directory
	dir := t.TempDir()
	store := fs.NewDatasetStore(dir)
	ctx := context.Background()

	// When I save features and issues
	fixed := "10.0.10"
	d := &fidata.Dataset{
		Features: []*fidata.Feature{{Name: "LLDP", Category: "Management", Version: "10.0.10", Platforms: map[string]string{"ICX7150": "8.0.30"}}},
		Issues:   []*fidata.Issue{{ID: "FI-1", Symptom: "Reload", Status: fidata.IssueClosed, FixedIn: &fixed, ReportedVersion: "10.0.10", FoundIn: []string{"9.0.10"}}},
	}
	require.NoError(t, store.Save(ctx, d, fidata.DatasetFeatures, fidata.DatasetIssues))

	// Then the files exist without temp leftovers
	_, err := os.Stat(filepath.Join(dir, "features_data.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "issues_data.json.tmp"))
	assert.True(t, os.IsNotExist(err))

	// And loading returns the same records, with unsaved datasets empty
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, d.Features, got.Features)
	assert.Equal(t, d.Issues, got.Issues)
	assert.Empty(t, got.Releases)
	assert.Empty(t, got.Defects)
}

func TestDatasetStore_SaveWritesIndentedArrays(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := fs.NewDatasetStore(dir)

	require.NoError(t, store.Save(context.Background(), &fidata.Dataset{}, fidata.DatasetReleases))

	data, err := os.ReadFile(filepath.Join(dir, "release_features_data.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	data, err = fs.Encode(&fidata.Dataset{Releases: []*fidata.Release{{Version: "10.0.20"}}}, fidata.DatasetReleases)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"version\": \"10.0.20\",")
}

func TestDatasetStore_LoadRejectsCorruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "features_data.json"), []byte("{"), 0644))

	_, err := fs.NewDatasetStore(dir).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "features_data.json")
}

func TestEncode_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := fs.Encode(&fidata.Dataset{}, "bogus")
	assert.Equal(t, fidata.EINVALID, fidata.ErrorCode(err))
}
