package sqlite

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/fwojciec/fidata"
)

// Ensure ReleaseService implements fidata.ReleaseService.
var _ fidata.ReleaseService = (*ReleaseService)(nil)

// ReleaseService implements fidata.ReleaseService using SQLite. Releases are
// stored as JSON documents keyed by version.
type ReleaseService struct {
	db *DB
}

// NewReleaseService creates a new ReleaseService.
func NewReleaseService(db *DB) *ReleaseService {
	return &ReleaseService{db: db}
}

// FindReleases returns releases oldest first. A query keeps releases with at
// least one matching note.
func (s *ReleaseService) FindReleases(ctx context.Context, filter fidata.ReleaseFilter) ([]*fidata.Release, error) {
	releases, err := s.load(ctx, filter.Version)
	if err != nil {
		return nil, err
	}
	if filter.Query != nil {
		q := fidata.ReleaseFilter{Query: filter.Query}
		releases = slices.DeleteFunc(releases, func(r *fidata.Release) bool {
			return !slices.ContainsFunc(r.Notes(), q.MatchNote)
		})
	}
	return pageSlice(releases, filter.Offset, filter.Limit), nil
}

// FindReleaseNotes returns flattened notes matching the filter.
func (s *ReleaseService) FindReleaseNotes(ctx context.Context, filter fidata.ReleaseFilter) ([]*fidata.ReleaseNote, error) {
	releases, err := s.load(ctx, filter.Version)
	if err != nil {
		return nil, err
	}
	notes := make([]*fidata.ReleaseNote, 0)
	for _, r := range releases {
		for _, n := range r.Notes() {
			if filter.MatchNote(n) {
				notes = append(notes, n)
			}
		}
	}
	return pageSlice(notes, filter.Offset, filter.Limit), nil
}

// load reads releases, optionally of one version, sorted by version.
func (s *ReleaseService) load(ctx context.Context, version *string) ([]*fidata.Release, error) {
	query := "SELECT data FROM releases"
	var args []any
	if version != nil {
		query += " WHERE version = ?"
		args = append(args, *version)
	}

	docs, err := queryStrings(ctx, s.db, query, args...)
	if err != nil {
		return nil, err
	}

	releases := make([]*fidata.Release, 0, len(docs))
	for _, doc := range docs {
		var r fidata.Release
		if err := json.Unmarshal([]byte(doc), &r); err != nil {
			return nil, fidata.Errorf(fidata.EINTERNAL, "corrupt release document: %v", err)
		}
		releases = append(releases, &r)
	}
	slices.SortStableFunc(releases, func(a, b *fidata.Release) int {
		return fidata.CompareVersions(a.Version, b.Version)
	})
	return releases, nil
}
