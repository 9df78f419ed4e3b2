package mock

import (
	"context"

	"github.com/fwojciec/fidata"
)

var _ fidata.IssueService = (*IssueService)(nil)

// IssueService is a mock implementation of fidata.IssueService.
type IssueService struct {
	FindIssuesFn        func(ctx context.Context, filter fidata.IssueFilter) ([]*fidata.Issue, error)
	FindIssueVersionsFn func(ctx context.Context) ([]string, error)
	FindDefectByIDFn    func(ctx context.Context, id string) (*fidata.Defect, error)
}

func (s *IssueService) FindIssues(ctx context.Context, filter fidata.IssueFilter) ([]*fidata.Issue, error) {
	return s.FindIssuesFn(ctx, filter)
}

func (s *IssueService) FindIssueVersions(ctx context.Context) ([]string, error) {
	return s.FindIssueVersionsFn(ctx)
}

func (s *IssueService) FindDefectByID(ctx context.Context, id string) (*fidata.Defect, error) {
	return s.FindDefectByIDFn(ctx, id)
}
