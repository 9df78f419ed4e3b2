// Package extract turns document pages into dataset records.
//
// Extraction is heuristic and best effort: records that do not look right are
// skipped rather than reported as errors.
package extract

import (
	"regexp"
	"slices"
	"strings"
)

var bulletRe = regexp.MustCompile(`^[•\-*]\s+`)

// cleanText collapses all whitespace runs, newlines included, to one space.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// joinText concatenates page texts one page per line.
func joinText(texts []string) string {
	var b strings.Builder
	for _, t := range texts {
		b.WriteString(t)
		b.WriteByte('\n')
	}
	return b.String()
}

// uniqueSorted removes duplicates and sorts. The result is never nil.
func uniqueSorted(items []string) []string {
	out := append([]string{}, items...)
	slices.Sort(out)
	return slices.Compact(out)
}

// uniqueOrdered removes duplicates, keeping the first occurrence.
func uniqueOrdered(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// firstMarker returns the index in s of the first marker, in list order,
// that matches at a position of at least minPos. Later markers are only
// consulted when earlier ones do not match. Returns len(s) if none match.
func firstMarker(s string, markers []*regexp.Regexp, minPos int) int {
	for _, re := range markers {
		if loc := re.FindStringIndex(s); loc != nil && loc[0] >= minPos {
			return loc[0]
		}
	}
	return len(s)
}

// bulletItems collects bullet points, joining continuation lines into the
// preceding item.
func bulletItems(section string) []string {
	var items []string
	var current string
	for line := range strings.SplitSeq(section, "\n") {
		line = strings.TrimSpace(line)
		if bulletRe.MatchString(line) {
			if current != "" {
				items = append(items, cleanText(current))
			}
			current = bulletRe.ReplaceAllString(line, "")
		} else if line != "" && current != "" {
			current += " " + line
		}
	}
	if current != "" {
		items = append(items, cleanText(current))
	}
	return items
}
