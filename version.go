package fidata

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// NotSupported is the platform cell value for features a platform lacks.
const NotSupported = "No"

var (
	strictVersionRe   = regexp.MustCompile(`(?i)^(\d{1,2})\.0\.(\d{2})([a-z]{0,2}(?:_cd\d{1,2})?)$`)
	versionJunkRe     = regexp.MustCompile(`[^\da-zA-Z._]`)
	matrixFileRe      = regexp.MustCompile(`fastiron-(\d+)-`)
	releaseFileRe     = regexp.MustCompile(`fastiron-([^-]+)-releasenotes`)
	baseFileVersionRe = regexp.MustCompile(`fastiron-(\d{5})`)
	versionPartsRe    = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)*)([a-z][a-z0-9]*?)?(?:_cd(\d+))?$`)
	leadingZeroRe     = regexp.MustCompile(`^0+(\d)`)
)

// CleanVersion normalizes a feature matrix cell into a FastIron version.
// Cells that are empty, "No", or not strictly of the X.0.YY[suffix] form
// return NotSupported.
func CleanVersion(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "no") || s == "None" {
		return NotSupported
	}

	s = versionJunkRe.ReplaceAllString(s, "")
	if s == "" {
		return NotSupported
	}

	m := strictVersionRe.FindStringSubmatch(s)
	if m == nil {
		return NotSupported
	}

	major, _ := strconv.Atoi(m[1])
	return strconv.Itoa(major) + ".0." + m[2] + strings.ToLower(m[3])
}

// NormalizeVersion lowercases a version found in document text and drops
// the leading zero of its major release, so "08.0.95B" becomes "8.0.95b".
func NormalizeVersion(s string) string {
	return leadingZeroRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "$1")
}

// formatBaseVersion converts a five digit code such as 08090 into 8.0.90.
func formatBaseVersion(code string) string {
	major, _ := strconv.Atoi(code[:2])
	return strconv.Itoa(major) + "." + code[2:3] + "." + code[3:5]
}

// MatrixVersionFromFilename extracts the release version from a feature
// support matrix filename like "fastiron-08090-featuresupportmatrix.pdf".
func MatrixVersionFromFilename(name string) (string, bool) {
	m := matrixFileRe.FindStringSubmatch(name)
	if m == nil || len(m[1]) != 5 {
		return "", false
	}
	return formatBaseVersion(m[1]), true
}

// ReleaseVersionFromFilename extracts the release version from a release
// notes filename like "fastiron-10020b_cd3-releasenotes-1.0.pdf". Letter
// suffixes ("mc", "pb1") and CD suffixes are preserved.
func ReleaseVersionFromFilename(name string) (string, bool) {
	m := releaseFileRe.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}

	code, cd := m[1], ""
	if i := strings.Index(code, "_cd"); i >= 0 {
		code, cd = code[:i], code[i:]
	}

	digits := 0
	for digits < len(code) && code[digits] >= '0' && code[digits] <= '9' {
		digits++
	}
	base, letters := code[:digits], code[digits:]
	if len(base) < 5 {
		return "", false
	}

	return formatBaseVersion(base) + letters + cd, true
}

// BaseVersionFromFilename returns the X.Y.ZZ version encoded by the first
// five digits after "fastiron-", ignoring any suffixes.
func BaseVersionFromFilename(name string) (string, bool) {
	m := baseFileVersionRe.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return formatBaseVersion(m[1]), true
}

// Version is a parsed FastIron version.
type Version struct {
	base   *goversion.Version
	suffix string
	cd     int
	raw    string
}

// ParseVersion parses versions such as "8.0.90", "10.0.20a" and
// "10.0.10g_cd1".
func ParseVersion(s string) (*Version, error) {
	m := versionPartsRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return nil, Errorf(EINVALID, "invalid version %q", s)
	}

	base, err := goversion.NewVersion(m[1])
	if err != nil {
		return nil, Errorf(EINVALID, "invalid version %q", s)
	}

	v := &Version{base: base, suffix: strings.ToLower(m[2]), raw: s}
	if m[3] != "" {
		v.cd, _ = strconv.Atoi(m[3])
	}
	return v, nil
}

// String returns the version as it was parsed.
func (v *Version) String() string {
	return v.raw
}

// Base returns the numeric X.Y.ZZ part without suffixes.
func (v *Version) Base() string {
	return v.base.Original()
}

// Compare returns -1, 0 or 1 when v is older, equal or newer than o.
// Letter suffixes order after the plain release (10.0.20 < 10.0.20a) and
// CD builds order after their parent (10.0.20a < 10.0.20a_cd1).
func (v *Version) Compare(o *Version) int {
	if c := v.base.Compare(o.base); c != 0 {
		return c
	}
	if c := cmp.Compare(len(v.suffix), len(o.suffix)); c != 0 {
		return c
	}
	if c := strings.Compare(v.suffix, o.suffix); c != 0 {
		return c
	}
	return cmp.Compare(v.cd, o.cd)
}

// CompareVersions orders two version strings. Unparsable versions order
// after parsable ones and are compared lexically among themselves.
func CompareVersions(a, b string) int {
	va, errA := ParseVersion(a)
	vb, errB := ParseVersion(b)
	switch {
	case errA == nil && errB == nil:
		return va.Compare(vb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// SortVersions sorts versions in place from oldest to newest.
func SortVersions(versions []string) {
	slices.SortStableFunc(versions, CompareVersions)
}

// UniqueVersions returns the distinct versions sorted oldest to newest.
func UniqueVersions(versions []string) []string {
	seen := make(map[string]struct{}, len(versions))
	out := make([]string, 0, len(versions))
	for _, v := range versions {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	SortVersions(out)
	return out
}
