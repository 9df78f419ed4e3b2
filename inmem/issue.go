package inmem

import (
	"context"
	"strings"

	"github.com/fwojciec/fidata"
)

// IssueService looks up issues and consolidated defects in a loaded dataset.
type IssueService struct {
	data    *fidata.Dataset
	defects map[string]*fidata.Defect
}

// NewIssueService creates a new IssueService. Defects are consolidated from
// the issues; the stored defects dataset is used only when no issues are
// loaded.
func NewIssueService(data *fidata.Dataset) *IssueService {
	defects := data.Defects
	if len(data.Issues) > 0 {
		defects = fidata.ConsolidateIssues(data.Issues)
	}

	byID := make(map[string]*fidata.Defect, len(defects))
	for _, d := range defects {
		byID[strings.ToUpper(d.ID)] = d
	}
	return &IssueService{data: data, defects: byID}
}

func (s *IssueService) FindIssues(ctx context.Context, f fidata.IssueFilter) ([]*fidata.Issue, error) {
	issues := matchAll(s.data.Issues, f.Match)
	return page(issues, f.Offset, f.Limit), nil
}

func (s *IssueService) FindIssueVersions(ctx context.Context) ([]string, error) {
	return s.data.IssueVersions(), nil
}

func (s *IssueService) FindDefectByID(ctx context.Context, id string) (*fidata.Defect, error) {
	d, ok := s.defects[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return nil, fidata.Errorf(fidata.ENOTFOUND, "Defect %s not found.", id)
	}
	return d, nil
}
