package mock

import (
	"context"

	"github.com/fwojciec/fidata"
)

var _ fidata.ReleaseService = (*ReleaseService)(nil)

// ReleaseService is a mock implementation of fidata.ReleaseService.
type ReleaseService struct {
	FindReleasesFn     func(ctx context.Context, filter fidata.ReleaseFilter) ([]*fidata.Release, error)
	FindReleaseNotesFn func(ctx context.Context, filter fidata.ReleaseFilter) ([]*fidata.ReleaseNote, error)
}

func (s *ReleaseService) FindReleases(ctx context.Context, filter fidata.ReleaseFilter) ([]*fidata.Release, error) {
	return s.FindReleasesFn(ctx, filter)
}

func (s *ReleaseService) FindReleaseNotes(ctx context.Context, filter fidata.ReleaseFilter) ([]*fidata.ReleaseNote, error) {
	return s.FindReleaseNotesFn(ctx, filter)
}
