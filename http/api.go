package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fwojciec/fidata"
	"github.com/fwojciec/fidata/filter"
	"github.com/gorilla/mux"
)

// Versions lists the versions the browser tabs are built from.
type Versions struct {
	Features []string `json:"features"`
	Issues   []string `json:"issues"`
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	features, err := s.FeatureService.FindFeatureVersions(ctx)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	issues, err := s.IssueService.FindIssueVersions(ctx)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, &Versions{Features: features, Issues: issues})
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := filter.OptionsFromQuery(q, "", fidata.SortAscending)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	features, err := s.FeatureService.FindFeatures(r.Context(), fidata.FeatureFilter{
		Version:  optionalParam(q, "version"),
		Platform: upperParam(q, "platform"),
		Category: optionalParam(q, "category"),
		Query:    optionalParam(q, "q"),
	})
	if err != nil {
		s.Error(w, r, err)
		return
	}

	if features, err = filter.Apply(features, opts); err != nil {
		s.Error(w, r, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, features)
}

// handleCompare diffs a platform across two matrices when from and to are
// given, and two platforms within a matrix otherwise.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	features, err := s.FeatureService.FindFeatures(r.Context(), fidata.FeatureFilter{})
	if err != nil {
		s.Error(w, r, err)
		return
	}

	if q.Has("from") || q.Has("to") {
		diff, err := fidata.DiffVersions(features, strings.ToUpper(q.Get("platform")), q.Get("from"), q.Get("to"))
		if err != nil {
			s.Error(w, r, err)
			return
		}
		s.respondWithJSON(w, http.StatusOK, diff)
		return
	}

	diff, err := fidata.DiffPlatforms(features, q.Get("version"), strings.ToUpper(q.Get("a")), strings.ToUpper(q.Get("b")))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, diff)
}

func (s *Server) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := s.FeatureService.FindPlatforms(r.Context(), r.URL.Query().Get("version"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, platforms)
}

func (s *Server) handleIssues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := filter.OptionsFromQuery(q, "", fidata.SortAscending)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	f := fidata.IssueFilter{
		Technology: optionalParam(q, "technology"),
		Version:    optionalParam(q, "version"),
		Query:      optionalParam(q, "q"),
	}
	if status := optionalParam(q, "status"); status != nil {
		st := fidata.IssueStatus(strings.ToLower(*status))
		f.Status = &st
	}

	issues, err := s.IssueService.FindIssues(r.Context(), f)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if issues, err = filter.Apply(issues, opts); err != nil {
		s.Error(w, r, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, issues)
}

// handleIssue returns every entry listed under an issue ID.
func (s *Server) handleIssue(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	issues, err := s.IssueService.FindIssues(r.Context(), fidata.IssueFilter{ID: &id})
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if len(issues) == 0 {
		s.Error(w, r, fidata.Errorf(fidata.ENOTFOUND, "Issue %s not found.", id))
		return
	}
	fidata.SortIssuesByVersion(issues)
	s.respondWithJSON(w, http.StatusOK, issues)
}

func (s *Server) handleDefect(w http.ResponseWriter, r *http.Request) {
	detail, err := fidata.FindDefectDetail(r.Context(), s.IssueService, s.ReleaseService, mux.Vars(r)["id"])
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, detail)
}

// handleReleases returns releases, or their flattened notes when notes=true.
func (s *Server) handleReleases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, limit, err := pagination(q)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	f := fidata.ReleaseFilter{
		Version: optionalParam(q, "version"),
		Query:   optionalParam(q, "q"),
		Offset:  offset,
		Limit:   limit,
	}
	if c := optionalParam(q, "category"); c != nil {
		cat := fidata.NoteCategory(strings.ToLower(*c))
		f.Category = &cat
	}

	if notes, _ := strconv.ParseBool(q.Get("notes")); notes || f.Category != nil {
		notes, err := s.ReleaseService.FindReleaseNotes(r.Context(), f)
		if err != nil {
			s.Error(w, r, err)
			return
		}
		s.respondWithJSON(w, http.StatusOK, notes)
		return
	}

	releases, err := s.ReleaseService.FindReleases(r.Context(), f)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, releases)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	_, limit, err := pagination(q)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	opts := fidata.SearchOptions{Version: q.Get("version"), Limit: limit}
	if kinds := q.Get("kinds"); kinds != "" {
		for _, k := range strings.Split(kinds, ",") {
			opts.Kinds = append(opts.Kinds, fidata.SearchKind(strings.TrimSpace(k)))
		}
	}

	results, err := s.SearchService.Search(r.Context(), q.Get("q"), opts)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, results)
}

// optionalParam returns a pointer to a non-blank query parameter.
func optionalParam(q url.Values, name string) *string {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return nil
	}
	return &v
}

// upperParam is optionalParam for platform names, which are stored uppercase.
func upperParam(q url.Values, name string) *string {
	v := optionalParam(q, name)
	if v != nil {
		*v = strings.ToUpper(*v)
	}
	return v
}

func pagination(q url.Values) (offset, limit int, err error) {
	opts, err := filter.OptionsFromQuery(url.Values{"offset": q["offset"], "limit": q["limit"]}, "", fidata.SortAscending)
	if err != nil {
		return 0, 0, err
	}
	return opts.Offset, opts.Limit, nil
}
