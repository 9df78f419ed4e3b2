package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/fidata"
	fidatahttp "github.com/fwojciec/fidata/http"
	"github.com/fwojciec/fidata/inmem"
	"github.com/fwojciec/fidata/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func testDataset() *fidata.Dataset {
	return &fidata.Dataset{
		Features: []*fidata.Feature{
			{Name: "MACsec", Category: "Security", Version: "8.0.90",
				Platforms: map[string]string{"ICX7150": "No", "ICX7850": "8.0.90"}},
			{Name: "LLDP", Category: "Layer 2", Version: "8.0.90",
				Platforms: map[string]string{"ICX7150": "8.0.30", "ICX7850": "8.0.90"}},
			{Name: "LLDP", Category: "Layer 2", Version: "10.0.10",
				Platforms: map[string]string{"ICX7150": "8.0.30", "ICX7850": "8.0.90"}},
			{Name: "MACsec", Category: "Security", Version: "10.0.10",
				Platforms: map[string]string{"ICX7150": "10.0.10", "ICX7850": "8.0.90"}},
		},
		Issues: []*fidata.Issue{
			{ID: "FI-100001", Symptom: "Switch reloads", Technology: "Layer 2",
				Status: fidata.IssueKnown, ReportedVersion: "10.0.10"},
			{ID: "FI-100001", Symptom: "Switch reloads", Technology: "Layer 2",
				Status: fidata.IssueClosed, FixedIn: ptr("10.0.10a"), ReportedVersion: "10.0.10a"},
			{ID: "FI-200002", Symptom: "SSH session hangs", Technology: "Management",
				Status: fidata.IssueKnown, ReportedVersion: "10.0.10a"},
		},
		Releases: []*fidata.Release{
			{Version: "10.0.10a", SoftwareFeatures: []string{"MACsec on uplinks"},
				CLICommands: fidata.CLICommands{Deprecated: []string{"show legacy"}}},
		},
	}
}

func newTestServer() *fidatahttp.Server {
	d := testDataset()
	s := fidatahttp.NewServer()
	s.FeatureService = inmem.NewFeatureService(d)
	s.IssueService = inmem.NewIssueService(d)
	s.ReleaseService = inmem.NewReleaseService(d)
	s.SearchService = inmem.NewSearchService(d)
	return s
}

// get performs a GET request and decodes a JSON response into v.
func get(t *testing.T, s http.Handler, target string, v any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if v != nil {
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
	}
	return rec.Code
}

func TestServer_Index(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "FastIron Data Browser", doc.Find("title").Text())

	var tabs []string
	doc.Find("button.tab").Each(func(_ int, sel *goquery.Selection) {
		tabs = append(tabs, sel.AttrOr("data-tab", ""))
	})
	assert.Equal(t, []string{"features", "compare", "defects", "releases", "search"}, tabs)

	// Every tab has a matching section.
	for _, tab := range tabs {
		assert.Equal(t, 1, doc.Find("section#"+tab).Length(), tab)
	}
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	var body map[string]string
	code := get(t, newTestServer(), "/healthz", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_Versions(t *testing.T) {
	t.Parallel()

	var v fidatahttp.Versions
	code := get(t, newTestServer(), "/api/versions", &v)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"8.0.90", "10.0.10"}, v.Features)
	assert.Equal(t, []string{"10.0.10", "10.0.10a"}, v.Issues)
}

func TestServer_Features(t *testing.T) {
	t.Parallel()

	s := newTestServer()

	t.Run("filters by version and platform", func(t *testing.T) {
		t.Parallel()
		var features []*fidata.Feature
		code := get(t, s, "/api/features?version=8.0.90&platform=ICX7150", &features)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, features, 1)
		assert.Equal(t, "LLDP", features[0].Name)
	})

	t.Run("platform is case-insensitive", func(t *testing.T) {
		t.Parallel()
		var features []*fidata.Feature
		code := get(t, s, "/api/features?version=8.0.90&platform=icx7150", &features)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, features, 1)
		assert.Equal(t, "LLDP", features[0].Name)
	})

	t.Run("applies generic filter and sort", func(t *testing.T) {
		t.Parallel()
		f := `{"items":[{"columnField":"category","operatorValue":"equals","value":"security"}]}`
		q := url.Values{"filter": {f}, "sortField": {"version"}, "sort": {"desc"}}
		var features []*fidata.Feature
		code := get(t, s, "/api/features?"+q.Encode(), &features)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, features, 2)
		assert.Equal(t, "10.0.10", features[0].Version)
	})

	t.Run("rejects malformed filter", func(t *testing.T) {
		t.Parallel()
		var e map[string]string
		code := get(t, s, "/api/features?filter=%7Bnope", &e)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, fidata.EINVALID, e["code"])
	})
}

func TestServer_Compare(t *testing.T) {
	t.Parallel()

	s := newTestServer()

	t.Run("versions", func(t *testing.T) {
		t.Parallel()
		var diff fidata.VersionDiff
		code := get(t, s, "/api/features/compare?platform=ICX7150&from=8.0.90&to=10.0.10", &diff)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, diff.Added, 1)
		assert.Equal(t, "MACsec", diff.Added[0].Name)
	})

	t.Run("platforms", func(t *testing.T) {
		t.Parallel()
		var diff fidata.PlatformDiff
		code := get(t, s, "/api/features/compare?version=8.0.90&a=ICX7850&b=ICX7150", &diff)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, diff.OnlyA, 1)
		assert.Equal(t, "MACsec", diff.OnlyA[0].Name)
	})

	t.Run("lowercase platforms", func(t *testing.T) {
		t.Parallel()
		var diff fidata.PlatformDiff
		code := get(t, s, "/api/features/compare?version=8.0.90&a=icx7850&b=icx7150", &diff)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, diff.OnlyA, 1)
		assert.Equal(t, "MACsec", diff.OnlyA[0].Name)

		var vdiff fidata.VersionDiff
		code = get(t, s, "/api/features/compare?platform=icx7150&from=8.0.90&to=10.0.10", &vdiff)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, vdiff.Added, 1)
	})

	t.Run("missing platform is a bad request", func(t *testing.T) {
		t.Parallel()
		code := get(t, s, "/api/features/compare?from=8.0.90&to=10.0.10", &map[string]string{})
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestServer_Issues(t *testing.T) {
	t.Parallel()

	s := newTestServer()

	t.Run("filters by status", func(t *testing.T) {
		t.Parallel()
		var issues []*fidata.Issue
		code := get(t, s, "/api/issues?status=Known", &issues)
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, issues, 2)
	})

	t.Run("lists entries of one issue", func(t *testing.T) {
		t.Parallel()
		var issues []*fidata.Issue
		code := get(t, s, "/api/issues/fi-100001", &issues)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, issues, 2)
		assert.Equal(t, "10.0.10", issues[0].ReportedVersion)
	})

	t.Run("unknown issue is not found", func(t *testing.T) {
		t.Parallel()
		code := get(t, s, "/api/issues/FI-9", &map[string]string{})
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestServer_Defect(t *testing.T) {
	t.Parallel()

	s := newTestServer()

	t.Run("joins the fixing release", func(t *testing.T) {
		t.Parallel()
		var detail struct {
			ID           string          `json:"id"`
			Entries      []*fidata.Issue `json:"entries"`
			FixedRelease *fidata.Release `json:"fixed_release"`
		}
		code := get(t, s, "/api/defects/FI-100001", &detail)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "FI-100001", detail.ID)
		assert.Len(t, detail.Entries, 2)
		require.NotNil(t, detail.FixedRelease)
		assert.Equal(t, "10.0.10a", detail.FixedRelease.Version)
	})

	t.Run("unknown defect", func(t *testing.T) {
		t.Parallel()
		var e map[string]string
		code := get(t, s, "/api/defects/FI-404", &e)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Defect FI-404 not found.", e["error"])
	})
}

func TestServer_Releases(t *testing.T) {
	t.Parallel()

	s := newTestServer()

	var releases []*fidata.Release
	require.Equal(t, http.StatusOK, get(t, s, "/api/releases", &releases))
	assert.Len(t, releases, 1)

	var notes []*fidata.ReleaseNote
	require.Equal(t, http.StatusOK, get(t, s, "/api/releases?category=deprecation", &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "show legacy", notes[0].Description)

	require.Equal(t, http.StatusBadRequest, get(t, s, "/api/releases?limit=-1", &map[string]string{}))
}

func TestServer_Search(t *testing.T) {
	t.Parallel()

	t.Run("passes options to the search service", func(t *testing.T) {
		t.Parallel()

		var got fidata.SearchOptions
		s := newTestServer()
		s.SearchService = &mock.SearchService{
			SearchFn: func(ctx context.Context, query string, opts fidata.SearchOptions) ([]fidata.SearchResult, error) {
				assert.Equal(t, "lldp flap", query)
				got = opts
				return []fidata.SearchResult{{Kind: fidata.SearchIssue, ID: "FI-1"}}, nil
			},
		}

		var results []fidata.SearchResult
		code := get(t, s, "/api/search?q=lldp+flap&kinds=issue,+feature&version=10.0.10&limit=5", &results)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, results, 1)
		assert.Equal(t, fidata.SearchOptions{
			Kinds:   []fidata.SearchKind{fidata.SearchIssue, fidata.SearchFeature},
			Version: "10.0.10",
			Limit:   5,
		}, got)
	})

	t.Run("empty query is a bad request", func(t *testing.T) {
		t.Parallel()
		code := get(t, newTestServer(), "/api/search", &map[string]string{})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("hides internal errors", func(t *testing.T) {
		t.Parallel()

		s := newTestServer()
		s.SearchService = &mock.SearchService{
			SearchFn: func(ctx context.Context, query string, opts fidata.SearchOptions) ([]fidata.SearchResult, error) {
				return nil, errors.New("disk on fire")
			},
		}
		var logs bytes.Buffer
		s.Logger = slog.New(slog.NewTextHandler(&logs, nil))

		var e map[string]string
		code := get(t, s, "/api/search?q=x", &e)
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "Internal error", e["error"])
		assert.Contains(t, logs.String(), "disk on fire")
		assert.Contains(t, logs.String(), "path=/api/search")
	})
}

func TestServer_NotFound(t *testing.T) {
	t.Parallel()

	var e map[string]string
	code := get(t, newTestServer(), "/api/nope", &e)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, fidata.ENOTFOUND, e["code"])
}

func TestServer_Open(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	s.Addr = "127.0.0.1:0"
	require.NoError(t, s.Open())
	defer s.Close()

	resp, err := http.Get(s.URL() + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
