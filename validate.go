package fidata

import (
	"cmp"
	"slices"
)

// FieldProblem reports a record missing a required field.
type FieldProblem struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Field string `json:"field"`
}

// Count is a label with an occurrence count.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DefectReport summarizes the quality of a consolidated defects dataset.
type DefectReport struct {
	Total          int            `json:"total"`
	Unique         int            `json:"unique"`
	Duplicates     []string       `json:"duplicates"`
	WithHistory    int            `json:"with_history"`
	VersionEntries int            `json:"version_entries"`
	Versions       []string       `json:"versions"`
	AvgVersions    float64        `json:"avg_versions"`
	Statuses       []Count        `json:"statuses"`
	Technologies   []Count        `json:"technologies"`
	MissingFields  []FieldProblem `json:"missing_fields"`
}

// Valid reports whether IDs are unique and no required field is missing.
func (r *DefectReport) Valid() bool {
	return len(r.Duplicates) == 0 && len(r.MissingFields) == 0
}

// maxTechnologies caps the technology distribution in a DefectReport.
const maxTechnologies = 10

// ValidateDefects computes uniqueness, version history and distribution
// statistics. Missing fields are checked on the raw JSON by the caller.
func ValidateDefects(defects []*Defect) *DefectReport {
	r := &DefectReport{Total: len(defects)}

	seen := make(map[string]struct{}, len(defects))
	dups := make(map[string]struct{})
	var versions []string
	statuses := make(map[string]int)
	techs := make(map[string]int)

	for _, d := range defects {
		if _, ok := seen[d.ID]; ok {
			dups[d.ID] = struct{}{}
		}
		seen[d.ID] = struct{}{}

		if len(d.VersionHistory) > 0 {
			r.WithHistory++
			r.VersionEntries += len(d.VersionHistory)
			for v := range d.VersionHistory {
				versions = append(versions, v)
			}
		}

		status := string(d.CurrentStatus)
		if status == "" {
			status = string(DefectUnknown)
		}
		statuses[status]++
		if d.Technology != "" {
			techs[d.Technology]++
		}
	}

	r.Unique = len(seen)
	for id := range dups {
		r.Duplicates = append(r.Duplicates, id)
	}
	slices.Sort(r.Duplicates)
	r.Versions = UniqueVersions(versions)
	if len(defects) > 0 {
		r.AvgVersions = float64(r.VersionEntries) / float64(len(defects))
	}
	r.Statuses = topCounts(statuses, 0)
	r.Technologies = topCounts(techs, maxTechnologies)
	return r
}

// topCounts orders counts descending, ties by label. A limit of zero keeps all.
func topCounts(m map[string]int, limit int) []Count {
	counts := make([]Count, 0, len(m))
	for label, n := range m {
		counts = append(counts, Count{Label: label, Count: n})
	}
	slices.SortFunc(counts, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}
