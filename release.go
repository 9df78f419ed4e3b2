package fidata

import (
	"context"
	"strings"
)

// CLICommands lists command changes announced by a release.
type CLICommands struct {
	New          []string `json:"new"`
	Modified     []string `json:"modified"`
	Deprecated   []string `json:"deprecated"`
	Reintroduced []string `json:"reintroduced"`
}

// Release holds what the "New in This Release" section of a release notes
// document announces.
type Release struct {
	Version          string      `json:"version"`
	Hardware         []string    `json:"hardware"`
	SoftwareFeatures []string    `json:"software_features"`
	CLICommands      CLICommands `json:"cli_commands"`
	RFCs             []string    `json:"rfcs"`
	MIBs             []string    `json:"mibs"`
}

// Validate returns an error if the release contains invalid fields.
func (r *Release) Validate() error {
	if r.Version == "" {
		return Errorf(EINVALID, "release version required")
	}
	return nil
}

// NoteCategory classifies a release note.
type NoteCategory string

// Release note categories.
const (
	NoteHardware    NoteCategory = "hardware"
	NoteFeature     NoteCategory = "feature"
	NoteCLI         NoteCategory = "cli"
	NoteRFC         NoteCategory = "rfc"
	NoteMIB         NoteCategory = "mib"
	NoteDeprecation NoteCategory = "deprecation"
)

// ReleaseNote is a single announcement from a release.
type ReleaseNote struct {
	Version     string       `json:"version"`
	Category    NoteCategory `json:"category"`
	Description string       `json:"description"`
}

// Notes flattens the release into individual notes. Deprecated commands
// are reported under NoteDeprecation; other command changes under NoteCLI.
func (r *Release) Notes() []*ReleaseNote {
	var notes []*ReleaseNote
	add := func(c NoteCategory, items []string, format func(string) string) {
		for _, item := range items {
			notes = append(notes, &ReleaseNote{Version: r.Version, Category: c, Description: format(item)})
		}
	}
	same := func(s string) string { return s }

	add(NoteHardware, r.Hardware, same)
	add(NoteFeature, r.SoftwareFeatures, same)
	add(NoteCLI, r.CLICommands.New, func(s string) string { return s + " (new)" })
	add(NoteCLI, r.CLICommands.Modified, func(s string) string { return s + " (modified)" })
	add(NoteCLI, r.CLICommands.Reintroduced, func(s string) string { return s + " (reintroduced)" })
	add(NoteDeprecation, r.CLICommands.Deprecated, same)
	add(NoteRFC, r.RFCs, same)
	add(NoteMIB, r.MIBs, same)
	return notes
}

// ReleaseService represents a service for looking up release notes.
type ReleaseService interface {
	// FindReleases retrieves releases matching the filter.
	// Category is ignored.
	FindReleases(ctx context.Context, filter ReleaseFilter) ([]*Release, error)

	// FindReleaseNotes retrieves flattened notes matching the filter.
	FindReleaseNotes(ctx context.Context, filter ReleaseFilter) ([]*ReleaseNote, error)
}

// ReleaseFilter represents a filter for release lookups.
type ReleaseFilter struct {
	Version  *string       `json:"version"`
	Category *NoteCategory `json:"category"`
	Query    *string       `json:"query"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// MatchNote reports whether the note passes the filter.
func (f ReleaseFilter) MatchNote(n *ReleaseNote) bool {
	if f.Version != nil && n.Version != *f.Version {
		return false
	}
	if f.Category != nil && n.Category != *f.Category {
		return false
	}
	if f.Query != nil && !strings.Contains(strings.ToLower(n.Description), strings.ToLower(*f.Query)) {
		return false
	}
	return true
}
