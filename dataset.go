package fidata

import (
	"context"
	"slices"
)

// DatasetKind names one of the JSON datasets.
type DatasetKind string

// Dataset kinds.
const (
	DatasetFeatures DatasetKind = "features"
	DatasetIssues   DatasetKind = "issues"
	DatasetReleases DatasetKind = "releases"
	DatasetDefects  DatasetKind = "defects"
)

// DatasetKinds lists every dataset in publication order.
var DatasetKinds = []DatasetKind{DatasetFeatures, DatasetIssues, DatasetReleases, DatasetDefects}

// Filename returns the JSON file the dataset is stored in.
func (k DatasetKind) Filename() string {
	switch k {
	case DatasetFeatures:
		return "features_data.json"
	case DatasetIssues:
		return "issues_data.json"
	case DatasetReleases:
		return "release_features_data.json"
	case DatasetDefects:
		return "defects_data.json"
	}
	return ""
}

// Dataset holds every record collection loaded at once.
type Dataset struct {
	Features []*Feature
	Issues   []*Issue
	Releases []*Release
	Defects  []*Defect
}

// FeatureVersions returns the distinct feature matrix versions, oldest first.
func (d *Dataset) FeatureVersions() []string {
	versions := make([]string, 0, len(d.Features))
	for _, f := range d.Features {
		versions = append(versions, f.Version)
	}
	return UniqueVersions(versions)
}

// IssueVersions returns the distinct release notes versions with issues,
// oldest first.
func (d *Dataset) IssueVersions() []string {
	versions := make([]string, 0, len(d.Issues))
	for _, i := range d.Issues {
		versions = append(versions, i.ReportedVersion)
		if i.FixedIn != nil {
			versions = append(versions, *i.FixedIn)
		}
	}
	for _, def := range d.Defects {
		for v := range def.VersionHistory {
			versions = append(versions, v)
		}
	}
	return UniqueVersions(versions)
}

// Platforms returns the sorted platforms of a matrix version, or of every
// matrix when version is empty.
func (d *Dataset) Platforms(version string) []string {
	seen := make(map[string]struct{})
	for _, f := range d.Features {
		if version != "" && f.Version != version {
			continue
		}
		for p := range f.Platforms {
			seen[p] = struct{}{}
		}
	}
	platforms := make([]string, 0, len(seen))
	for p := range seen {
		platforms = append(platforms, p)
	}
	slices.Sort(platforms)
	return platforms
}

// DatasetStore loads and saves datasets.
type DatasetStore interface {
	// Load reads every dataset. Missing datasets load as empty.
	Load(ctx context.Context) (*Dataset, error)

	// Save writes the given kinds of d. Each file is replaced atomically.
	Save(ctx context.Context, d *Dataset, kinds ...DatasetKind) error

	// ReadRaw returns the stored bytes of one dataset.
	ReadRaw(kind DatasetKind) ([]byte, error)
}

// Publisher copies a serialized dataset to a static hosting location.
type Publisher interface {
	Publish(ctx context.Context, name string, data []byte) error
}
