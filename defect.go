package fidata

import (
	"context"
	"slices"
	"strings"
)

// DefectStatus is the consolidated state of a defect across releases.
type DefectStatus string

// Defect statuses.
const (
	DefectFixed   DefectStatus = "fixed"
	DefectKnown   DefectStatus = "known"
	DefectUnknown DefectStatus = "unknown"
)

// Defect is the consolidation of every Issue entry sharing an ID.
type Defect struct {
	ID          string `json:"id"`
	Symptom     string `json:"symptom"`
	Condition   string `json:"condition"`
	Workaround  string `json:"workaround"`
	Recovery    string `json:"recovery"`
	Probability string `json:"probability"`
	Technology  string `json:"technology"`

	// VersionHistory maps each release notes version listing the issue to
	// the status it had there.
	VersionHistory map[string]IssueStatus `json:"version_history"`
	FirstSeen      string                 `json:"first_seen"`
	FixedIn        *string                `json:"fixed_in"`
	CurrentStatus  DefectStatus           `json:"current_status"`
}

// DefectRequiredFields lists the keys every consolidated defect must carry.
var DefectRequiredFields = []string{"id", "symptom", "version_history", "first_seen", "fixed_in", "current_status"}

// ConsolidateIssues groups issues by ID into defects sorted by ID.
// Text fields come from the newest release listing the issue, with blanks
// filled from older entries. FirstSeen is the oldest found-in or reported
// version and FixedIn the oldest release that closed the issue.
func ConsolidateIssues(issues []*Issue) []*Defect {
	groups := make(map[string][]*Issue)
	for _, i := range issues {
		if i.ID == "" {
			continue
		}
		id := strings.ToUpper(i.ID)
		groups[id] = append(groups[id], i)
	}

	defects := make([]*Defect, 0, len(groups))
	for id, group := range groups {
		defects = append(defects, consolidate(id, group))
	}
	slices.SortFunc(defects, func(a, b *Defect) int { return strings.Compare(a.ID, b.ID) })
	return defects
}

func consolidate(id string, group []*Issue) *Defect {
	// Newest report first so its text wins.
	slices.SortStableFunc(group, func(a, b *Issue) int {
		return CompareVersions(b.ReportedVersion, a.ReportedVersion)
	})

	d := &Defect{
		ID:             id,
		VersionHistory: make(map[string]IssueStatus, len(group)),
	}

	var seen, fixed []string
	for _, i := range group {
		fill(&d.Symptom, i.Symptom)
		fill(&d.Condition, i.Condition)
		fill(&d.Workaround, i.Workaround)
		fill(&d.Recovery, i.Recovery)
		fill(&d.Probability, i.Probability)
		fill(&d.Technology, i.Technology)

		if i.ReportedVersion != "" {
			// A closed entry outranks a known one for the same release.
			if prev, ok := d.VersionHistory[i.ReportedVersion]; !ok || prev != IssueClosed {
				d.VersionHistory[i.ReportedVersion] = i.Status
			}
			seen = append(seen, i.ReportedVersion)
		}
		seen = append(seen, i.FoundIn...)
		if i.Status == IssueClosed && i.FixedIn != nil && *i.FixedIn != "" {
			fixed = append(fixed, *i.FixedIn)
		}
	}

	if v := UniqueVersions(seen); len(v) > 0 {
		d.FirstSeen = v[0]
	}

	switch {
	case len(fixed) > 0:
		first := UniqueVersions(fixed)[0]
		d.FixedIn = &first
		d.CurrentStatus = DefectFixed
	case group[0].Status == IssueKnown:
		d.CurrentStatus = DefectKnown
	default:
		d.CurrentStatus = DefectUnknown
	}

	return d
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// DefectDetail joins a defect with the issue entries it consolidates and the
// release that fixed it.
type DefectDetail struct {
	*Defect
	Entries      []*Issue `json:"entries"`
	FixedRelease *Release `json:"fixed_release,omitempty"`
}

// FindDefectDetail looks up a defect and joins it with its issue entries and
// the release notes of its fixed-in version, when those exist.
func FindDefectDetail(ctx context.Context, issues IssueService, releases ReleaseService, id string) (*DefectDetail, error) {
	d, err := issues.FindDefectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &DefectDetail{Defect: d}
	if detail.Entries, err = issues.FindIssues(ctx, IssueFilter{ID: &d.ID}); err != nil {
		return nil, err
	}
	SortIssuesByVersion(detail.Entries)

	if d.FixedIn != nil {
		rs, err := releases.FindReleases(ctx, ReleaseFilter{Version: d.FixedIn, Limit: 1})
		if err != nil {
			return nil, err
		}
		if len(rs) > 0 {
			detail.FixedRelease = rs[0]
		}
	}
	return detail, nil
}

// SortIssuesByVersion orders issues by reported version, oldest first.
func SortIssuesByVersion(issues []*Issue) {
	slices.SortStableFunc(issues, func(a, b *Issue) int {
		return CompareVersions(a.ReportedVersion, b.ReportedVersion)
	})
}
