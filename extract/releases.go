package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/fidata"
)

var (
	dotLeaderRe    = regexp.MustCompile(`\.{5,}`)
	newInReleaseRe = regexp.MustCompile(`(?i)New in This Release`)
	newContentRe   = regexp.MustCompile(`(?i)Hardware|Software Features|CLI Commands`)
	nextSectionRe  = regexp.MustCompile(`(?im)^(?:Hardware Support|Software Upgrade|Upgrade Information|Closed Issues|Known Issues)\s*$`)

	hardwareSectionRe = regexp.MustCompile(`(?is)New\s+(?:Ruckus\s+)?(?:ICX|Hardware).*?(?:SKUs?|Models?|Switch)`)
	hardwareModelRe   = regexp.MustCompile(`(?i)(?:The\s+)?ICX\s*(\d{4}[A-Z]?(?:-\d{2}[A-Z]+)?)`)

	featureDescRe     = regexp.MustCompile(`(?is)Feature\s+Descriptions\s+(.*?)(?:CLI Commands|Modified Commands|New Commands|RFCs and Standards)`)
	newSoftwareRe     = regexp.MustCompile(`(?i)New Software Features`)
	newSoftwareEndRes = []*regexp.Regexp{regexp.MustCompile(`(?i)CLI Commands`), regexp.MustCompile(`(?i)RFCs and Standards`)}
	columnSepRe       = regexp.MustCompile(`\s{2,}`)

	commandEndRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)New Commands`),
		regexp.MustCompile(`(?i)Modified Commands`),
		regexp.MustCompile(`(?i)Deprecated Commands`),
		regexp.MustCompile(`(?i)Reintroduced Commands`),
		regexp.MustCompile(`(?i)RFCs and Standards`),
		regexp.MustCompile(`(?i)MIBs`),
		regexp.MustCompile(`(?i)Hardware Support`),
	}
	noCommandsRe = regexp.MustCompile(`(?i)No (?:new|commands have been)`)

	rfcSectionRe = regexp.MustCompile(`(?is)RFCs and Standards(.{10,500})`)
	rfcRe        = regexp.MustCompile(`(?i)RFC\s*(\d+)`)
	mibSectionRe = regexp.MustCompile(`(?is)MIBs(.{10,500})`)
	mibNameRe    = regexp.MustCompile(`[A-Z][A-Z0-9\-]{3,}(?:\-MIB)?`)
	noNewRe      = regexp.MustCompile(`(?i)no\s+(?:new|newly)`)
)

const (
	// tocPages is how far into a document dot-leader pages are treated as
	// table of contents.
	tocPages = 10
	// minSectionPages is how many pages are collected before a next-section
	// heading ends the release section.
	minSectionPages = 3
	maxFeatureLine  = 100
	maxCommandLen   = 80
)

// commandSection pairs a CLI section heading with its destination.
type commandSection struct {
	heading *regexp.Regexp
	loose   *regexp.Regexp
	dst     func(c *fidata.CLICommands) *[]string
}

var commandSections = []commandSection{
	newCommandSection("New Commands", func(c *fidata.CLICommands) *[]string { return &c.New }),
	newCommandSection("Modified Commands", func(c *fidata.CLICommands) *[]string { return &c.Modified }),
	newCommandSection("Deprecated Commands", func(c *fidata.CLICommands) *[]string { return &c.Deprecated }),
	newCommandSection("Reintroduced Commands", func(c *fidata.CLICommands) *[]string { return &c.Reintroduced }),
}

func newCommandSection(name string, dst func(c *fidata.CLICommands) *[]string) commandSection {
	return commandSection{
		heading: regexp.MustCompile(`(?is)` + name + `.*?in.*?\d+\.\d+\.\d+[a-z_cd\d]*`),
		loose:   regexp.MustCompile(`(?i)` + name),
		dst:     dst,
	}
}

// Release extracts the "New in This Release" chapter of a release notes
// document. It returns nil when the document has no such chapter.
func Release(pages []*fidata.Page, version string) *fidata.Release {
	text := releaseText(pages)
	if text == "" {
		return nil
	}

	r := &fidata.Release{
		Version:          version,
		Hardware:         hardware(text),
		SoftwareFeatures: softwareFeatures(text),
		CLICommands:      cliCommands(text),
	}
	r.RFCs, r.MIBs = rfcsAndMIBs(text)
	return r
}

// releaseText collects pages from the real "New in This Release" heading,
// skipping early table of contents pages, until a following chapter
// heading appears once enough pages have been read.
func releaseText(pages []*fidata.Page) string {
	var texts []string
	in := false
	for i, p := range pages {
		if p.Text == "" {
			continue
		}
		if dotLeaderRe.MatchString(p.Text) && i+1 < tocPages {
			continue
		}
		if !in && newInReleaseRe.MatchString(p.Text) && newContentRe.MatchString(p.Text) {
			in = true
		}
		if !in {
			continue
		}
		texts = append(texts, p.Text)
		if len(texts) >= minSectionPages && nextSectionRe.MatchString(p.Text) {
			break
		}
	}
	if len(texts) == 0 {
		return ""
	}
	return joinText(texts)
}

func hardware(text string) []string {
	if !hardwareSectionRe.MatchString(text) {
		return []string{}
	}
	var models []string
	for _, m := range hardwareModelRe.FindAllStringSubmatch(text, -1) {
		models = append(models, "ICX"+m[1])
	}
	return uniqueSorted(models)
}

func softwareFeatures(text string) []string {
	var features []string

	if m := featureDescRe.FindStringSubmatch(text); m != nil {
		features = append(features, featureDescriptions(m[1])...)
	}

	if loc := newSoftwareRe.FindStringIndex(text); loc != nil {
		rest := text[loc[1]:]
		features = append(features, bulletItems(rest[:firstMarker(rest, newSoftwareEndRes, 0)])...)
	}

	return uniqueSorted(features)
}

// featureDescriptions reads a two column feature table. A name and its
// description share a line when separated by wide spacing; otherwise the
// description continues on following lines that do not start with an
// uppercase letter.
func featureDescriptions(section string) []string {
	var features []string
	lines := strings.Split(section, "\n")
	for i := 0; i < len(lines); {
		line := strings.TrimSpace(lines[i])
		i++
		if line == "" || strings.Contains(line, "FastIron") || strings.Contains(line, "Part Number") || strings.Contains(line, "Page") {
			continue
		}
		if utf8.RuneCountInString(line) >= maxFeatureLine || strings.HasPrefix(line, "•") {
			continue
		}

		if parts := columnSepRe.Split(line, 2); len(parts) == 2 {
			features = append(features, strings.TrimSpace(parts[0])+": "+strings.TrimSpace(parts[1]))
			continue
		}

		var desc []string
		for i < len(lines) {
			next := strings.TrimSpace(lines[i])
			if next == "" {
				break
			}
			if r, _ := utf8.DecodeRuneInString(next); unicode.IsUpper(r) {
				break
			}
			desc = append(desc, next)
			i++
		}
		if len(desc) > 0 {
			features = append(features, line+": "+strings.Join(desc, " "))
		} else {
			features = append(features, line)
		}
	}
	return features
}

func cliCommands(text string) fidata.CLICommands {
	var cli fidata.CLICommands
	for _, s := range commandSections {
		*s.dst(&cli) = commands(text, s)
	}
	return cli
}

// commands reads the command lines under a CLI section heading. Sections
// that state there are no changes yield no commands.
func commands(text string, s commandSection) []string {
	loc := s.heading.FindStringIndex(text)
	if loc == nil {
		loc = s.loose.FindStringIndex(text)
	}
	if loc == nil {
		return []string{}
	}

	rest := text[loc[1]:]
	section := rest[:firstMarker(rest, commandEndRes, 1)]
	if noCommandsRe.MatchString(section) {
		return []string{}
	}

	cmds := []string{}
	for line := range strings.SplitSeq(section, "\n") {
		line = bulletRe.ReplaceAllString(strings.TrimSpace(line), "")
		if line == "" || strings.Contains(line, "FastIron") || strings.Contains(line, "Part Number") {
			continue
		}
		if utf8.RuneCountInString(line) >= maxCommandLen || strings.HasSuffix(line, ".") {
			continue
		}
		cmds = append(cmds, line)
	}
	return cmds
}

func rfcsAndMIBs(text string) (rfcs, mibs []string) {
	rfcs, mibs = []string{}, []string{}

	if m := rfcSectionRe.FindStringSubmatch(text); m != nil && !noNewRe.MatchString(m[1]) {
		for _, n := range rfcRe.FindAllStringSubmatch(m[1], -1) {
			rfcs = append(rfcs, "RFC "+n[1])
		}
		rfcs = uniqueOrdered(rfcs)
	}

	if m := mibSectionRe.FindStringSubmatch(text); m != nil && !noNewRe.MatchString(m[1]) {
		mibs = uniqueSorted(mibNameRe.FindAllString(m[1], -1))
	}
	return rfcs, mibs
}
