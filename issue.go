package fidata

import (
	"context"
	"slices"
	"strings"
)

// IssueStatus is the section of the release notes an issue was listed in.
type IssueStatus string

// Issue statuses.
const (
	IssueClosed  IssueStatus = "closed"
	IssueKnown   IssueStatus = "known"
	IssueUnknown IssueStatus = "unknown"
)

// Issue is a defect entry from one release notes document.
type Issue struct {
	ID          string   `json:"id"`
	Symptom     string   `json:"symptom"`
	Condition   string   `json:"condition"`
	Workaround  string   `json:"workaround"`
	Recovery    string   `json:"recovery"`
	Probability string   `json:"probability"`
	FoundIn     []string `json:"found_in"`
	Technology  string   `json:"technology"`

	Status IssueStatus `json:"status"`
	// FixedIn is set for closed issues only.
	FixedIn         *string `json:"fixed_in"`
	ReportedVersion string  `json:"reported_version"`
}

// Validate returns an error if the issue contains invalid fields.
func (i *Issue) Validate() error {
	if i.ID == "" {
		return Errorf(EINVALID, "issue ID required")
	}
	if i.Symptom == "" {
		return Errorf(EINVALID, "issue symptom required")
	}
	return nil
}

// Affects reports whether the issue mentions version as reported, fixed or
// found-in release.
func (i *Issue) Affects(version string) bool {
	if i.ReportedVersion == version {
		return true
	}
	if i.FixedIn != nil && *i.FixedIn == version {
		return true
	}
	return slices.Contains(i.FoundIn, version)
}

func (i *Issue) GetFieldType(field string) ColumnType {
	switch field {
	case "id", "symptom", "condition", "workaround", "recovery", "probability",
		"technology", "status", "fixed_in", "reported_version":
		return ColumnTypeString
	case "found_in":
		return ColumnTypeArray
	case "found_in_count":
		return ColumnTypeNumerical
	}
	return ColumnTypeUnknown
}

func (i *Issue) GetStringValue(field string) (string, error) {
	switch field {
	case "id":
		return i.ID, nil
	case "symptom":
		return i.Symptom, nil
	case "condition":
		return i.Condition, nil
	case "workaround":
		return i.Workaround, nil
	case "recovery":
		return i.Recovery, nil
	case "probability":
		return i.Probability, nil
	case "technology":
		return i.Technology, nil
	case "status":
		return string(i.Status), nil
	case "fixed_in":
		if i.FixedIn == nil {
			return "", nil
		}
		return *i.FixedIn, nil
	case "reported_version":
		return i.ReportedVersion, nil
	}
	return "", Errorf(EINVALID, "unknown issue string field %q", field)
}

func (i *Issue) GetNumericalValue(field string) (float64, error) {
	if field == "found_in_count" {
		return float64(len(i.FoundIn)), nil
	}
	return 0, Errorf(EINVALID, "unknown issue numerical field %q", field)
}

func (i *Issue) GetArrayValue(field string) ([]string, error) {
	if field == "found_in" {
		return i.FoundIn, nil
	}
	return nil, Errorf(EINVALID, "unknown issue array field %q", field)
}

// IssueService represents a service for looking up issues.
type IssueService interface {
	// FindIssues retrieves issues matching the filter.
	FindIssues(ctx context.Context, filter IssueFilter) ([]*Issue, error)

	// FindIssueVersions returns the release notes versions, oldest first.
	FindIssueVersions(ctx context.Context) ([]string, error)

	// FindDefectByID consolidates all issue entries sharing an ID.
	// Returns ENOTFOUND if no issue has the ID.
	FindDefectByID(ctx context.Context, id string) (*Defect, error)
}

// IssueFilter represents a filter for FindIssues.
type IssueFilter struct {
	ID         *string      `json:"id"`
	Status     *IssueStatus `json:"status"`
	Technology *string      `json:"technology"`
	Version    *string      `json:"version"` // reported, fixed or found-in
	Query      *string      `json:"query"`   // case-insensitive text match

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Match reports whether the issue passes the filter.
func (f IssueFilter) Match(i *Issue) bool {
	if f.ID != nil && !strings.EqualFold(i.ID, *f.ID) {
		return false
	}
	if f.Status != nil && i.Status != *f.Status {
		return false
	}
	if f.Technology != nil && !strings.EqualFold(i.Technology, *f.Technology) {
		return false
	}
	if f.Version != nil && !i.Affects(*f.Version) {
		return false
	}
	if f.Query != nil {
		q := strings.ToLower(*f.Query)
		text := strings.ToLower(strings.Join([]string{i.ID, i.Symptom, i.Condition, i.Workaround, i.Technology}, " "))
		if !strings.Contains(text, q) {
			return false
		}
	}
	return true
}
