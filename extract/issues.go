package extract

import (
	"regexp"
	"slices"
	"strings"

	"github.com/fwojciec/fidata"
)

var (
	issuesStartRe = regexp.MustCompile(`(?i)issues`)
	issuesEndRe   = regexp.MustCompile(`(?i)Limitations and Restrictions|Obtaining Technical Support`)
	closedRe      = regexp.MustCompile(`(?i)Closed Issues.*?(?:in|for).*?(?:Release|FastIron)\s+(\d+\.\d+\.\d+[a-z_cd\d]*)`)
	knownRe       = regexp.MustCompile(`(?i)Known Issues.*?(?:in|for).*?(?:Release|FastIron)\s+(\d+\.\d+\.\d+[a-z_cd\d]*)`)
	issueIDRe     = regexp.MustCompile(`(?i)Issue\s+(FI-\d+)`)
	foundInRe     = regexp.MustCompile(`(?i)FI\s*(\d+\.\d+\.\d+[a-z]*(?:_cd\d+)?)`)
)

// issueField is a labeled field of an issue block. A field's value runs
// until the earliest stop label of any field after it. Labels match in any
// case since documents vary ("Found In", "Found in").
type issueField struct {
	label *regexp.Regexp
	stop  *regexp.Regexp
	set   func(i *fidata.Issue, value string)
}

var issueFields = []issueField{
	{
		label: regexp.MustCompile(`(?i)\bSymptom\s+`),
		stop:  regexp.MustCompile(`(?i)\bSymptom\b`),
		set:   func(i *fidata.Issue, v string) { i.Symptom = cleanText(v) },
	},
	{
		label: regexp.MustCompile(`(?i)\bCondition\s+`),
		stop:  regexp.MustCompile(`(?i)\bCondition\b`),
		set:   func(i *fidata.Issue, v string) { i.Condition = cleanText(v) },
	},
	{
		label: regexp.MustCompile(`(?i)\bWorkaround\s+`),
		stop:  regexp.MustCompile(`(?i)\bWorkaround\b`),
		set:   func(i *fidata.Issue, v string) { i.Workaround = cleanText(v) },
	},
	{
		label: regexp.MustCompile(`(?i)\bRecovery\s+`),
		stop:  regexp.MustCompile(`(?i)\bRecovery\b`),
		set:   func(i *fidata.Issue, v string) { i.Recovery = cleanText(v) },
	},
	{
		label: regexp.MustCompile(`(?i)\bProbability\s+`),
		stop:  regexp.MustCompile(`(?i)\bProbability\b`),
		set:   func(i *fidata.Issue, v string) { i.Probability = cleanText(v) },
	},
	{
		label: regexp.MustCompile(`(?i)\bFound In\s+`),
		stop:  regexp.MustCompile(`(?i)\bFound In\b`),
		set: func(i *fidata.Issue, v string) {
			for _, m := range foundInRe.FindAllStringSubmatch(v, -1) {
				i.FoundIn = append(i.FoundIn, fidata.NormalizeVersion(m[1]))
			}
		},
	},
	{
		label: regexp.MustCompile(`(?i)\bTechnology\s*/\s*Technology\s+Group\s+`),
		stop:  regexp.MustCompile(`(?i)\bTechnology\b`),
		set:   func(i *fidata.Issue, v string) { i.Technology = cleanText(v) },
	},
}

// section is a closed or known issues heading and where it starts.
type section struct {
	start   int
	status  fidata.IssueStatus
	version string
}

// Issues extracts the closed and known issues of a release notes document
// reported for version. Issues before any recognized section heading have
// status unknown. Issues without a symptom are dropped.
func Issues(pages []*fidata.Page, version string) []*fidata.Issue {
	text := issuesText(pages)
	if text == "" {
		return nil
	}

	var sections []section
	for _, m := range closedRe.FindAllStringSubmatchIndex(text, -1) {
		sections = append(sections, section{start: m[0], status: fidata.IssueClosed, version: text[m[2]:m[3]]})
	}
	for _, m := range knownRe.FindAllStringSubmatchIndex(text, -1) {
		sections = append(sections, section{start: m[0], status: fidata.IssueKnown, version: text[m[2]:m[3]]})
	}
	slices.SortStableFunc(sections, func(a, b section) int { return a.start - b.start })

	matches := issueIDRe.FindAllStringSubmatchIndex(text, -1)
	issues := make([]*fidata.Issue, 0, len(matches))
	for n, m := range matches {
		// A block ends at the next issue or section heading.
		end := len(text)
		if n+1 < len(matches) {
			end = matches[n+1][0]
		}
		for _, s := range sections {
			if s.start > m[0] && s.start < end {
				end = s.start
			}
		}

		issue := parseIssueBlock(text[m[0]:end], strings.ToUpper(text[m[2]:m[3]]))
		issue.Status = fidata.IssueUnknown
		issue.ReportedVersion = version
		for j := len(sections) - 1; j >= 0; j-- {
			if m[0] > sections[j].start {
				issue.Status = sections[j].status
				if issue.Status == fidata.IssueClosed {
					v := fidata.NormalizeVersion(sections[j].version)
					issue.FixedIn = &v
				}
				break
			}
		}

		if issue.Symptom != "" {
			issues = append(issues, issue)
		}
	}
	return issues
}

// issuesText concatenates the pages between the first issues heading and
// the limitations or support chapters. A page naming an end marker is
// excluded; a later issues page starts collecting again.
func issuesText(pages []*fidata.Page) string {
	var texts []string
	in := false
	for _, p := range pages {
		if p.Text == "" {
			continue
		}
		if issuesStartRe.MatchString(p.Text) {
			in = true
		}
		if issuesEndRe.MatchString(p.Text) {
			in = false
		}
		if in {
			texts = append(texts, p.Text)
		}
	}
	if len(texts) == 0 {
		return ""
	}
	return joinText(texts)
}

func parseIssueBlock(block, id string) *fidata.Issue {
	issue := &fidata.Issue{ID: id}
	for k, f := range issueFields {
		loc := f.label.FindStringIndex(block)
		if loc == nil {
			continue
		}
		rest := block[loc[1]:]
		end := len(rest)
		for _, next := range issueFields[k+1:] {
			if l := next.stop.FindStringIndex(rest); l != nil && l[0] < end {
				end = l[0]
			}
		}
		f.set(issue, rest[:end])
	}
	return issue
}
