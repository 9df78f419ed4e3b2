package fidata_test

import (
	"context"
	"testing"

	"github.com/fwojciec/fidata"
	"github.com/fwojciec/fidata/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestConsolidateIssues(t *testing.T) {
	t.Parallel()

	t.Run("merges entries sharing an ID", func(t *testing.T) {
		t.Parallel()

		issues := []*fidata.Issue{
			{ID: "FI-100", Symptom: "old text", Technology: "Stacking", Status: fidata.IssueKnown, ReportedVersion: "9.0.10", FoundIn: []string{"8.0.95"}},
			{ID: "FI-100", Symptom: "new text", Status: fidata.IssueClosed, FixedIn: strptr("10.0.10"), ReportedVersion: "10.0.10"},
			{ID: "FI-200", Symptom: "crash", Status: fidata.IssueKnown, ReportedVersion: "10.0.10"},
		}

		defects := fidata.ConsolidateIssues(issues)

		require.Len(t, defects, 2)
		d := defects[0]
		assert.Equal(t, "FI-100", d.ID)
		assert.Equal(t, "new text", d.Symptom)
		assert.Equal(t, "Stacking", d.Technology)
		assert.Equal(t, "8.0.95", d.FirstSeen)
		require.NotNil(t, d.FixedIn)
		assert.Equal(t, "10.0.10", *d.FixedIn)
		assert.Equal(t, fidata.DefectFixed, d.CurrentStatus)
		assert.Equal(t, map[string]fidata.IssueStatus{
			"9.0.10":  fidata.IssueKnown,
			"10.0.10": fidata.IssueClosed,
		}, d.VersionHistory)

		assert.Equal(t, fidata.DefectKnown, defects[1].CurrentStatus)
		assert.Nil(t, defects[1].FixedIn)
	})

	t.Run("uses oldest fixed version", func(t *testing.T) {
		t.Parallel()

		issues := []*fidata.Issue{
			{ID: "FI-1", Symptom: "s", Status: fidata.IssueClosed, FixedIn: strptr("10.0.20"), ReportedVersion: "10.0.20"},
			{ID: "FI-1", Symptom: "s", Status: fidata.IssueClosed, FixedIn: strptr("9.0.10c"), ReportedVersion: "9.0.10c"},
		}

		defects := fidata.ConsolidateIssues(issues)

		require.Len(t, defects, 1)
		assert.Equal(t, "9.0.10c", *defects[0].FixedIn)
		assert.Equal(t, "9.0.10c", defects[0].FirstSeen)
	})

	t.Run("returns empty slice for no issues", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, fidata.ConsolidateIssues(nil))
	})
}

func TestValidateDefects(t *testing.T) {
	t.Parallel()

	defects := []*fidata.Defect{
		{ID: "FI-1", Technology: "Stacking", CurrentStatus: fidata.DefectFixed, VersionHistory: map[string]fidata.IssueStatus{"9.0.10": "closed", "10.0.10": "closed"}},
		{ID: "FI-2", Technology: "Stacking", CurrentStatus: fidata.DefectKnown, VersionHistory: map[string]fidata.IssueStatus{"10.0.10": "known"}},
		{ID: "FI-2", CurrentStatus: fidata.DefectKnown},
	}

	r := fidata.ValidateDefects(defects)

	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 2, r.Unique)
	assert.Equal(t, []string{"FI-2"}, r.Duplicates)
	assert.Equal(t, 2, r.WithHistory)
	assert.Equal(t, 3, r.VersionEntries)
	assert.Equal(t, []string{"9.0.10", "10.0.10"}, r.Versions)
	assert.InDelta(t, 1.0, r.AvgVersions, 0.001)
	assert.Equal(t, []fidata.Count{{Label: "known", Count: 2}, {Label: "fixed", Count: 1}}, r.Statuses)
	assert.Equal(t, []fidata.Count{{Label: "Stacking", Count: 2}}, r.Technologies)
	assert.False(t, r.Valid())
}

func TestIssueFilter_Match(t *testing.T) {
	t.Parallel()

	issue := &fidata.Issue{ID: "FI-300", Symptom: "Switch reloads", Technology: "Layer 2", Status: fidata.IssueClosed, FixedIn: strptr("10.0.10"), ReportedVersion: "10.0.10", FoundIn: []string{"9.0.10"}}
	found := "9.0.10"
	other := "8.0.90"
	query := "RELOAD"
	known := fidata.IssueKnown

	assert.True(t, fidata.IssueFilter{Version: &found, Query: &query}.Match(issue))
	assert.False(t, fidata.IssueFilter{Version: &other}.Match(issue))
	assert.False(t, fidata.IssueFilter{Status: &known}.Match(issue))
}

func TestFindDefectDetail(t *testing.T) {
	t.Parallel()

	fixed := "10.0.10"
	issues := &mock.IssueService{
		FindDefectByIDFn: func(ctx context.Context, id string) (*fidata.Defect, error) {
			if id != "FI-1" {
				return nil, fidata.Errorf(fidata.ENOTFOUND, "defect %s not found", id)
			}
			return &fidata.Defect{ID: "FI-1", FixedIn: &fixed, CurrentStatus: fidata.DefectFixed}, nil
		},
		FindIssuesFn: func(ctx context.Context, filter fidata.IssueFilter) ([]*fidata.Issue, error) {
			require.NotNil(t, filter.ID)
			assert.Equal(t, "FI-1", *filter.ID)
			return []*fidata.Issue{
				{ID: "FI-1", ReportedVersion: "10.0.10"},
				{ID: "FI-1", ReportedVersion: "9.0.10"},
			}, nil
		},
	}
	releases := &mock.ReleaseService{
		FindReleasesFn: func(ctx context.Context, filter fidata.ReleaseFilter) ([]*fidata.Release, error) {
			require.NotNil(t, filter.Version)
			assert.Equal(t, "10.0.10", *filter.Version)
			return []*fidata.Release{{Version: "10.0.10", Hardware: []string{"ICX8200"}}}, nil
		},
	}

	t.Run("joins entries and fixing release", func(t *testing.T) {
		t.Parallel()

		d, err := fidata.FindDefectDetail(context.Background(), issues, releases, "FI-1")
		require.NoError(t, err)
		assert.Equal(t, "FI-1", d.ID)
		require.Len(t, d.Entries, 2)
		assert.Equal(t, "9.0.10", d.Entries[0].ReportedVersion)
		require.NotNil(t, d.FixedRelease)
		assert.Equal(t, []string{"ICX8200"}, d.FixedRelease.Hardware)
	})

	t.Run("propagates not found", func(t *testing.T) {
		t.Parallel()

		_, err := fidata.FindDefectDetail(context.Background(), issues, releases, "FI-2")
		assert.Equal(t, fidata.ENOTFOUND, fidata.ErrorCode(err))
	})
}
