package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/fwojciec/fidata"
)

// Ensure IssueService implements fidata.IssueService.
var _ fidata.IssueService = (*IssueService)(nil)

// IssueService implements fidata.IssueService using SQLite.
type IssueService struct {
	db *DB
}

// NewIssueService creates a new IssueService.
func NewIssueService(db *DB) *IssueService {
	return &IssueService{db: db}
}

const issueColumns = `issue_id, symptom, condition, workaround, recovery, probability,
	found_in, technology, status, fixed_in, reported_version`

// FindIssues retrieves issues matching the filter in import order.
func (s *IssueService) FindIssues(ctx context.Context, filter fidata.IssueFilter) ([]*fidata.Issue, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + issueColumns + " FROM issues WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND issue_id = ? COLLATE NOCASE")
		args = append(args, *filter.ID)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Technology != nil {
		query.WriteString(" AND technology = ? COLLATE NOCASE")
		args = append(args, *filter.Technology)
	}
	if filter.Version != nil {
		query.WriteString(` AND (reported_version = ? OR fixed_in = ?
			OR EXISTS (SELECT 1 FROM json_each(issues.found_in) WHERE value = ?))`)
		args = append(args, *filter.Version, *filter.Version, *filter.Version)
	}
	if filter.Query != nil {
		query.WriteString(` AND (issue_id || ' ' || symptom || ' ' || condition || ' ' ||
			workaround || ' ' || technology) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(*filter.Query))
	}

	query.WriteString(" ORDER BY id")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	return s.queryIssues(ctx, query.String(), args...)
}

// FindIssueVersions returns the reported and fixed-in versions, oldest first.
func (s *IssueService) FindIssueVersions(ctx context.Context) ([]string, error) {
	versions, err := queryStrings(ctx, s.db, `
		SELECT reported_version FROM issues
		UNION
		SELECT fixed_in FROM issues WHERE fixed_in IS NOT NULL
	`)
	if err != nil {
		return nil, err
	}
	return fidata.UniqueVersions(versions), nil
}

// FindDefectByID consolidates the indexed entries of an issue ID.
func (s *IssueService) FindDefectByID(ctx context.Context, id string) (*fidata.Defect, error) {
	id = strings.TrimSpace(id)
	issues, err := s.queryIssues(ctx,
		"SELECT "+issueColumns+" FROM issues WHERE issue_id = ? COLLATE NOCASE ORDER BY id", id)
	if err != nil {
		return nil, err
	}
	if len(issues) == 0 {
		return nil, fidata.Errorf(fidata.ENOTFOUND, "Defect %s not found.", id)
	}
	return fidata.ConsolidateIssues(issues)[0], nil
}

func (s *IssueService) queryIssues(ctx context.Context, query string, args ...any) ([]*fidata.Issue, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	issues := make([]*fidata.Issue, 0)
	for rows.Next() {
		var i fidata.Issue
		var foundIn, status string
		var fixedIn sql.NullString
		if err := rows.Scan(&i.ID, &i.Symptom, &i.Condition, &i.Workaround, &i.Recovery, &i.Probability,
			&foundIn, &i.Technology, &status, &fixedIn, &i.ReportedVersion); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(foundIn), &i.FoundIn); err != nil {
			return nil, fidata.Errorf(fidata.EINTERNAL, "corrupt found_in for issue %s: %v", i.ID, err)
		}
		i.Status = fidata.IssueStatus(status)
		if fixedIn.Valid {
			i.FixedIn = &fixedIn.String
		}
		issues = append(issues, &i)
	}
	return issues, rows.Err()
}
