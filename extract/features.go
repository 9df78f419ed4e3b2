package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/fidata"
	"github.com/fwojciec/fidata/bloom"
)

const (
	// maxFeatureName bounds plausible feature names; longer first cells are
	// paragraphs that leaked into a table.
	maxFeatureName = 150

	// featureCapacity sizes the per-document dedupe filter.
	featureCapacity = 8192
	// dedupeFPRate keeps the chance of dropping a distinct feature negligible.
	dedupeFPRate = 1e-9
)

// skipMarkers mark first cells of header, caption and footer rows.
var skipMarkers = []string{"ICX 7", "ICX 8", "ICX7", "ICX8", "Feature", "Table", "Chapter", "Page", "RUCKUS", "FastIron"}

// Features extracts the feature rows of a feature support matrix.
//
// A table row whose first cell is "Feature" and that mentions ICX starts a
// feature table and names its platforms. Rows with a name but no platform
// cells set the category for the rows that follow. A feature is kept only if
// at least one platform cell holds a valid version, and only its first
// occurrence in the document is kept since tables repeat across page breaks.
func Features(pages []*fidata.Page, version string) []*fidata.Feature {
	var features []*fidata.Feature
	seen := bloom.NewKeySet(featureCapacity, dedupeFPRate)
	category := ""

	for _, page := range pages {
		for _, table := range page.Tables {
			var platforms []string
			for _, row := range table {
				if isHeaderRow(row) {
					platforms = headerPlatforms(row)
					continue
				}
				if len(platforms) == 0 || !isFeatureRow(row) {
					continue
				}

				name := cleanText(row[0])
				if name == "" || utf8.RuneCountInString(name) > maxFeatureName {
					continue
				}

				if isCategoryRow(row, len(platforms)) {
					category = name
					continue
				}

				support := make(map[string]string, len(platforms))
				valid := false
				for i, p := range platforms {
					v := fidata.NotSupported
					if i+1 < len(row) {
						v = fidata.CleanVersion(row[i+1])
					}
					// A platform listed twice in one header keeps its first valid cell.
					if prev, ok := support[p]; ok && prev != fidata.NotSupported {
						continue
					}
					support[p] = v
					if v != fidata.NotSupported {
						valid = true
					}
				}
				if !valid {
					continue
				}

				if seen.Seen(name) {
					continue
				}

				c := category
				if c == "" {
					c = fidata.DefaultCategory
				}
				features = append(features, &fidata.Feature{
					Name:      name,
					Category:  c,
					Version:   version,
					Platforms: support,
				})
			}
		}
	}
	return features
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 || !strings.EqualFold(strings.TrimSpace(row[0]), "feature") {
		return false
	}
	return strings.Contains(strings.Join(row, " "), "ICX")
}

func headerPlatforms(row []string) []string {
	var platforms []string
	for _, cell := range row[1:] {
		if p, ok := fidata.NormalizePlatform(cell); ok {
			platforms = append(platforms, p)
		}
	}
	return platforms
}

func isFeatureRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.TrimSpace(row[0])
	if first == "" {
		return false
	}
	for _, m := range skipMarkers {
		if strings.Contains(first, m) {
			return false
		}
	}
	return true
}

// isCategoryRow reports whether every platform cell of row is empty.
func isCategoryRow(row []string, platforms int) bool {
	for i := 1; i < len(row) && i <= platforms; i++ {
		if strings.TrimSpace(row[i]) != "" {
			return false
		}
	}
	return true
}
