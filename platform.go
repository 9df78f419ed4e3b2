package fidata

import (
	"regexp"
	"strings"
)

var platformModelRe = regexp.MustCompile(`ICX(\d{4}(?:ES)?)`)

// platformCorrections maps known mis-extracted header cells to platforms.
// Table headers such as "ICX 7550-48" occasionally run into the port count.
var platformCorrections = map[string]string{
	"ICX77507":  "ICX7550",
	"ICX77509":  "ICX7550",
	"ICX775013": "ICX7550",
	"ICX7750":   "ICX7550",
	"ICX820034": "ICX8200",
	"ICX820042": "ICX8200",
}

// NormalizePlatform converts a table header cell such as "ICX 7150" or
// "icx-8200" into a canonical platform name. It reports false when the
// cell does not name an ICX platform.
func NormalizePlatform(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "", "-", "", "\n", "", "\r", "").Replace(s)
	if s == "" {
		return "", false
	}

	if p, ok := platformCorrections[s]; ok {
		return p, true
	}

	m := platformModelRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return "ICX" + m[1], true
}
