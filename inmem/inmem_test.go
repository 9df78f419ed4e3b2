package inmem_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/fidata"
	"github.com/fwojciec/fidata/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func testDataset() *fidata.Dataset {
	return &fidata.Dataset{
		Features: []*fidata.Feature{
			{Name: "LLDP", Category: "Management", Version: "10.0.10", Platforms: map[string]string{"ICX7150": "8.0.30", "ICX7850": "8.0.90"}},
			{Name: "MACsec", Category: "Security", Version: "10.0.10", Platforms: map[string]string{"ICX7150": "No", "ICX7850": "9.0.10"}},
			{Name: "LLDP", Category: "Management", Version: "8.0.90", Platforms: map[string]string{"ICX7250": "8.0.30"}},
		},
		Issues: []*fidata.Issue{
			{ID: "FI-1", Symptom: "Switch reloads on LLDP timeout.", Technology: "Management", Status: fidata.IssueKnown, ReportedVersion: "9.0.10", FoundIn: []string{"8.0.90"}},
			{ID: "FI-1", Symptom: "Switch reloads on LLDP timeout.", Technology: "Management", Status: fidata.IssueClosed, FixedIn: ptr("10.0.10"), ReportedVersion: "10.0.10"},
			{ID: "FI-2", Symptom: "MACsec session drops.", Technology: "Security", Status: fidata.IssueKnown, ReportedVersion: "10.0.10"},
		},
		Releases: []*fidata.Release{
			{Version: "10.0.10", Hardware: []string{"ICX8200"}, SoftwareFeatures: []string{"MACsec on uplinks"}, CLICommands: fidata.CLICommands{New: []string{"macsec enable"}, Deprecated: []string{"telnet server"}}},
			{Version: "9.0.10", SoftwareFeatures: []string{"Zero touch provisioning"}},
		},
	}
}

func TestFeatureService(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := inmem.NewFeatureService(testDataset())

	t.Run("filters by version and platform", func(t *testing.T) {
		t.Parallel()

		got, err := s.FindFeatures(ctx, fidata.FeatureFilter{Version: ptr("10.0.10"), Platform: ptr("ICX7150")})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "LLDP", got[0].Name)
	})

	t.Run("pages results", func(t *testing.T) {
		t.Parallel()

		got, err := s.FindFeatures(ctx, fidata.FeatureFilter{Offset: 1, Limit: 1})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "MACsec", got[0].Name)
	})

	t.Run("lists versions and platforms", func(t *testing.T) {
		t.Parallel()

		versions, err := s.FindFeatureVersions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"8.0.90", "10.0.10"}, versions)

		platforms, err := s.FindPlatforms(ctx, "10.0.10")
		require.NoError(t, err)
		assert.Equal(t, []string{"ICX7150", "ICX7850"}, platforms)
	})
}

func TestIssueService(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := inmem.NewIssueService(testDataset())

	t.Run("filters by status and version", func(t *testing.T) {
		t.Parallel()

		got, err := s.FindIssues(ctx, fidata.IssueFilter{Status: ptr(fidata.IssueKnown), Version: ptr("10.0.10")})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "FI-2", got[0].ID)
	})

	t.Run("lists versions", func(t *testing.T) {
		t.Parallel()

		versions, err := s.FindIssueVersions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"9.0.10", "10.0.10"}, versions)
	})

	t.Run("finds consolidated defect case-insensitively", func(t *testing.T) {
		t.Parallel()

		d, err := s.FindDefectByID(ctx, "fi-1")
		require.NoError(t, err)
		assert.Equal(t, fidata.DefectFixed, d.CurrentStatus)
		assert.Equal(t, "8.0.90", d.FirstSeen)
		require.NotNil(t, d.FixedIn)
		assert.Equal(t, "10.0.10", *d.FixedIn)
	})

	t.Run("unknown defect", func(t *testing.T) {
		t.Parallel()

		_, err := s.FindDefectByID(ctx, "FI-404")
		assert.Equal(t, fidata.ENOTFOUND, fidata.ErrorCode(err))
	})
}

func TestIssueService_StoredDefects(t *testing.T) {
	t.Parallel()

	s := inmem.NewIssueService(&fidata.Dataset{Defects: []*fidata.Defect{{ID: "FI-9", CurrentStatus: fidata.DefectKnown}}})

	d, err := s.FindDefectByID(context.Background(), "FI-9")
	require.NoError(t, err)
	assert.Equal(t, fidata.DefectKnown, d.CurrentStatus)
}

func TestReleaseService(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := inmem.NewReleaseService(testDataset())

	t.Run("orders releases by version", func(t *testing.T) {
		t.Parallel()

		got, err := s.FindReleases(ctx, fidata.ReleaseFilter{})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "9.0.10", got[0].Version)
	})

	t.Run("query matches any note", func(t *testing.T) {
		t.Parallel()

		got, err := s.FindReleases(ctx, fidata.ReleaseFilter{Query: ptr("telnet")})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "10.0.10", got[0].Version)
	})

	t.Run("flattens notes by category", func(t *testing.T) {
		t.Parallel()

		got, err := s.FindReleaseNotes(ctx, fidata.ReleaseFilter{Category: ptr(fidata.NoteDeprecation)})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, &fidata.ReleaseNote{Version: "10.0.10", Category: fidata.NoteDeprecation, Description: "telnet server"}, got[0])
	})

	t.Run("no notes is empty, not nil", func(t *testing.T) {
		t.Parallel()

		got, err := s.FindReleaseNotes(ctx, fidata.ReleaseFilter{Version: ptr("1.0.00")})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestSearchService(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := inmem.NewSearchService(testDataset())

	t.Run("ranks records matching more terms first", func(t *testing.T) {
		t.Parallel()

		got, err := s.Search(ctx, "macsec drops", fidata.SearchOptions{})
		require.NoError(t, err)
		require.NotEmpty(t, got)
		assert.Equal(t, fidata.SearchIssue, got[0].Kind)
		assert.Equal(t, "FI-2", got[0].ID)
		assert.InDelta(t, 1.0, got[0].Score, 0.001)
	})

	t.Run("restricts kinds and version", func(t *testing.T) {
		t.Parallel()

		got, err := s.Search(ctx, "lldp", fidata.SearchOptions{Kinds: []fidata.SearchKind{fidata.SearchFeature}, Version: "8.0.90"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "LLDP", got[0].ID)
		assert.Equal(t, "8.0.90", got[0].Version)
	})

	t.Run("snippets text whose runes grow when lowercased", func(t *testing.T) {
		t.Parallel()

		// 'Ⱥ' is two bytes but lowercases to three
		d := &fidata.Dataset{Issues: []*fidata.Issue{
			{ID: "FI-3", Symptom: strings.Repeat("Ⱥ", 50) + " LLDP flap", Status: fidata.IssueKnown, ReportedVersion: "10.0.10"},
		}}

		var got []fidata.SearchResult
		require.NotPanics(t, func() {
			var err error
			got, err = inmem.NewSearchService(d).Search(ctx, "lldp", fidata.SearchOptions{})
			require.NoError(t, err)
		})
		require.Len(t, got, 1)
		assert.Contains(t, got[0].Snippet, "LLDP flap")
		assert.True(t, strings.HasPrefix(got[0].Snippet, "…"))
	})

	t.Run("rejects empty query", func(t *testing.T) {
		t.Parallel()

		_, err := s.Search(ctx, "  ", fidata.SearchOptions{})
		assert.Equal(t, fidata.EINVALID, fidata.ErrorCode(err))
	})
}
