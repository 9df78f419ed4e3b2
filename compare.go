package fidata

import (
	"slices"
	"strings"
)

// FeatureChange describes one feature in a comparison.
type FeatureChange struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// VersionDiff lists how feature support for a platform differs between two
// feature matrix versions.
type VersionDiff struct {
	Platform string           `json:"platform"`
	From     string           `json:"from"`
	To       string           `json:"to"`
	Added    []*FeatureChange `json:"added"`
	Removed  []*FeatureChange `json:"removed"`
	Changed  []*FeatureChange `json:"changed"`
}

// DiffVersions compares the features platform supports in matrix from
// against matrix to. Features are matched by name. Changed holds features
// supported in both matrices whose introducing version differs.
func DiffVersions(features []*Feature, platform, from, to string) (*VersionDiff, error) {
	if platform == "" {
		return nil, Errorf(EINVALID, "platform required")
	}
	if from == "" || to == "" {
		return nil, Errorf(EINVALID, "two versions required")
	}

	before := supportedByName(features, platform, from)
	after := supportedByName(features, platform, to)
	if len(before) == 0 && len(after) == 0 {
		return nil, Errorf(ENOTFOUND, "no features for %s in %s or %s", platform, from, to)
	}

	diff := &VersionDiff{Platform: platform, From: from, To: to}
	for name, f := range after {
		old, ok := before[name]
		if !ok {
			diff.Added = append(diff.Added, &FeatureChange{
				Name:     name,
				Category: f.Category,
				From:     NotSupported,
				To:       f.IntroducedIn(platform),
			})
			continue
		}
		if old.IntroducedIn(platform) != f.IntroducedIn(platform) {
			diff.Changed = append(diff.Changed, &FeatureChange{
				Name:     name,
				Category: f.Category,
				From:     old.IntroducedIn(platform),
				To:       f.IntroducedIn(platform),
			})
		}
	}
	for name, f := range before {
		if _, ok := after[name]; !ok {
			diff.Removed = append(diff.Removed, &FeatureChange{
				Name:     name,
				Category: f.Category,
				From:     f.IntroducedIn(platform),
				To:       NotSupported,
			})
		}
	}

	sortChanges(diff.Added)
	sortChanges(diff.Removed)
	sortChanges(diff.Changed)
	return diff, nil
}

// PlatformDiff lists features of one matrix version supported by only one
// of two platforms.
type PlatformDiff struct {
	Version string           `json:"version"`
	A       string           `json:"a"`
	B       string           `json:"b"`
	OnlyA   []*FeatureChange `json:"only_a"`
	OnlyB   []*FeatureChange `json:"only_b"`
	Both    int              `json:"both"`
}

// DiffPlatforms compares platforms a and b within matrix version.
// From holds a's introducing version and To holds b's.
func DiffPlatforms(features []*Feature, version, a, b string) (*PlatformDiff, error) {
	if a == "" || b == "" {
		return nil, Errorf(EINVALID, "two platforms required")
	}
	if version == "" {
		return nil, Errorf(EINVALID, "version required")
	}

	diff := &PlatformDiff{Version: version, A: a, B: b}
	found := false
	for _, f := range features {
		if f.Version != version {
			continue
		}
		found = true
		inA, inB := f.Supported(a), f.Supported(b)
		change := &FeatureChange{
			Name:     f.Name,
			Category: f.Category,
			From:     f.IntroducedIn(a),
			To:       f.IntroducedIn(b),
		}
		switch {
		case inA && inB:
			diff.Both++
		case inA:
			diff.OnlyA = append(diff.OnlyA, change)
		case inB:
			diff.OnlyB = append(diff.OnlyB, change)
		}
	}
	if !found {
		return nil, Errorf(ENOTFOUND, "no features for version %s", version)
	}

	sortChanges(diff.OnlyA)
	sortChanges(diff.OnlyB)
	return diff, nil
}

func supportedByName(features []*Feature, platform, version string) map[string]*Feature {
	m := make(map[string]*Feature)
	for _, f := range features {
		if f.Version == version && f.Supported(platform) {
			m[f.Name] = f
		}
	}
	return m
}

func sortChanges(changes []*FeatureChange) {
	slices.SortFunc(changes, func(a, b *FeatureChange) int {
		if c := strings.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}
