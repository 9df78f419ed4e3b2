package fidata_test

import (
	"testing"

	"github.com/fwojciec/fidata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFeatures() []*fidata.Feature {
	return []*fidata.Feature{
		{Name: "LLDP", Category: "Management", Version: "9.0.10", Platforms: map[string]string{"ICX7150": "8.0.90", "ICX7850": "No"}},
		{Name: "MACsec", Category: "Security", Version: "9.0.10", Platforms: map[string]string{"ICX7150": "No", "ICX7850": "8.0.95"}},
		{Name: "OSPFv3", Category: "Routing", Version: "9.0.10", Platforms: map[string]string{"ICX7150": "9.0.10", "ICX7850": "9.0.10"}},
		{Name: "LLDP", Category: "Management", Version: "10.0.10", Platforms: map[string]string{"ICX7150": "8.0.90", "ICX7850": "10.0.10"}},
		{Name: "OSPFv3", Category: "Routing", Version: "10.0.10", Platforms: map[string]string{"ICX7150": "9.0.10a", "ICX7850": "9.0.10"}},
		{Name: "BGP EVPN", Category: "Routing", Version: "10.0.10", Platforms: map[string]string{"ICX7150": "10.0.10", "ICX7850": "10.0.10"}},
	}
}

func TestDiffVersions(t *testing.T) {
	t.Parallel()

	t.Run("reports added removed and changed features", func(t *testing.T) {
		t.Parallel()

		features := append(testFeatures(),
			&fidata.Feature{Name: "Stacking", Category: "System", Version: "9.0.10", Platforms: map[string]string{"ICX7150": "8.0.90"}},
		)

		diff, err := fidata.DiffVersions(features, "ICX7150", "9.0.10", "10.0.10")

		require.NoError(t, err)
		require.Len(t, diff.Added, 1)
		assert.Equal(t, "BGP EVPN", diff.Added[0].Name)
		assert.Equal(t, "No", diff.Added[0].From)
		assert.Equal(t, "10.0.10", diff.Added[0].To)

		require.Len(t, diff.Removed, 1)
		assert.Equal(t, "Stacking", diff.Removed[0].Name)

		require.Len(t, diff.Changed, 1)
		assert.Equal(t, "OSPFv3", diff.Changed[0].Name)
		assert.Equal(t, "9.0.10", diff.Changed[0].From)
		assert.Equal(t, "9.0.10a", diff.Changed[0].To)
	})

	t.Run("returns ENOTFOUND when neither version has features", func(t *testing.T) {
		t.Parallel()

		_, err := fidata.DiffVersions(testFeatures(), "ICX7150", "1.0.00", "2.0.00")

		require.Error(t, err)
		assert.Equal(t, fidata.ENOTFOUND, fidata.ErrorCode(err))
	})

	t.Run("requires platform", func(t *testing.T) {
		t.Parallel()

		_, err := fidata.DiffVersions(testFeatures(), "", "9.0.10", "10.0.10")

		assert.Equal(t, fidata.EINVALID, fidata.ErrorCode(err))
	})
}

func TestDiffPlatforms(t *testing.T) {
	t.Parallel()

	diff, err := fidata.DiffPlatforms(testFeatures(), "9.0.10", "ICX7150", "ICX7850")

	require.NoError(t, err)
	assert.Equal(t, 1, diff.Both)
	require.Len(t, diff.OnlyA, 1)
	assert.Equal(t, "LLDP", diff.OnlyA[0].Name)
	require.Len(t, diff.OnlyB, 1)
	assert.Equal(t, "MACsec", diff.OnlyB[0].Name)
	assert.Equal(t, "8.0.95", diff.OnlyB[0].To)
}

func TestFeatureFilter_Match(t *testing.T) {
	t.Parallel()

	f := testFeatures()[2]
	platform := "ICX7150"
	other := "ICX7250"
	query := "ospf"
	category := "routing"

	assert.True(t, fidata.FeatureFilter{Platform: &platform, Query: &query, Category: &category}.Match(f))
	assert.False(t, fidata.FeatureFilter{Platform: &other}.Match(f))
}

func TestFeature_GetStringValue(t *testing.T) {
	t.Parallel()

	f := testFeatures()[0]

	v, err := f.GetStringValue("platform.icx7150")
	require.NoError(t, err)
	assert.Equal(t, "8.0.90", v)

	assert.Equal(t, fidata.ColumnTypeString, f.GetFieldType("platform.ICX7150"))
	assert.Equal(t, fidata.ColumnTypeUnknown, f.GetFieldType("bogus"))
	assert.Equal(t, []string{"ICX7150"}, f.SupportedPlatforms())
}
