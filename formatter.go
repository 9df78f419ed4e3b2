package fidata

import (
	"fmt"
	"strings"
)

// FormatIssues formats issues for display or LLM context.
// Empty fields are omitted. Issues are separated by blank lines.
func FormatIssues(issues []*Issue) string {
	if len(issues) == 0 {
		return ""
	}

	parts := make([]string, 0, len(issues))
	for _, i := range issues {
		var b strings.Builder
		fmt.Fprintf(&b, "## Issue: %s (%s, %s)\n", i.ID, i.Status, i.ReportedVersion)
		writeField(&b, "Symptom", i.Symptom)
		writeField(&b, "Condition", i.Condition)
		writeField(&b, "Workaround", i.Workaround)
		writeField(&b, "Recovery", i.Recovery)
		writeField(&b, "Technology", i.Technology)
		if len(i.FoundIn) > 0 {
			writeField(&b, "Found In", strings.Join(i.FoundIn, ", "))
		}
		if i.FixedIn != nil {
			writeField(&b, "Fixed In", *i.FixedIn)
		}
		parts = append(parts, strings.TrimRight(b.String(), "\n"))
	}

	return strings.Join(parts, "\n\n")
}

// FormatFeature returns a one line summary of a feature's platform support.
func FormatFeature(f *Feature) string {
	platforms := f.SupportedPlatforms()
	cells := make([]string, 0, len(platforms))
	for _, p := range platforms {
		cells = append(cells, p+"="+f.IntroducedIn(p))
	}
	return fmt.Sprintf("[%s] %s: %s", f.Category, f.Name, strings.Join(cells, " "))
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}
