package inmem

import (
	"context"
	"slices"

	"github.com/fwojciec/fidata"
)

// ReleaseService looks up release notes in a loaded dataset.
type ReleaseService struct {
	data *fidata.Dataset
}

// NewReleaseService creates a new ReleaseService.
func NewReleaseService(data *fidata.Dataset) *ReleaseService {
	return &ReleaseService{data: data}
}

// FindReleases returns releases oldest first. A query keeps releases with at
// least one matching note.
func (s *ReleaseService) FindReleases(ctx context.Context, f fidata.ReleaseFilter) ([]*fidata.Release, error) {
	releases := matchAll(s.data.Releases, func(r *fidata.Release) bool {
		if f.Version != nil && r.Version != *f.Version {
			return false
		}
		if f.Query == nil {
			return true
		}
		return slices.ContainsFunc(r.Notes(), func(n *fidata.ReleaseNote) bool {
			return containsFold(n.Description, *f.Query)
		})
	})
	sortReleases(releases)
	return page(releases, f.Offset, f.Limit), nil
}

// FindReleaseNotes returns matching notes of releases oldest first, each
// release's notes in Notes order.
func (s *ReleaseService) FindReleaseNotes(ctx context.Context, f fidata.ReleaseFilter) ([]*fidata.ReleaseNote, error) {
	releases := slices.Clone(s.data.Releases)
	sortReleases(releases)

	var notes []*fidata.ReleaseNote
	for _, r := range releases {
		if f.Version != nil && r.Version != *f.Version {
			continue
		}
		for _, n := range r.Notes() {
			if f.MatchNote(n) {
				notes = append(notes, n)
			}
		}
	}
	if notes == nil {
		notes = []*fidata.ReleaseNote{}
	}
	return page(notes, f.Offset, f.Limit), nil
}

func sortReleases(releases []*fidata.Release) {
	slices.SortStableFunc(releases, func(a, b *fidata.Release) int {
		return fidata.CompareVersions(a.Version, b.Version)
	})
}
