package fidata

import (
	"context"
	"slices"
	"strings"
)

// DefaultCategory is used for features that precede any category row.
const DefaultCategory = "Uncategorized"

// Feature is a row of a feature support matrix: a feature and the release in
// which each platform introduced it.
type Feature struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	// Version is the release of the matrix the row was extracted from.
	Version   string            `json:"version"`
	Platforms map[string]string `json:"platforms"`
}

// Validate returns an error if the feature contains invalid fields.
func (f *Feature) Validate() error {
	if f.Name == "" {
		return Errorf(EINVALID, "feature name required")
	}
	if f.Version == "" {
		return Errorf(EINVALID, "feature version required")
	}
	return nil
}

// IntroducedIn returns the version in which platform gained the feature,
// or NotSupported.
func (f *Feature) IntroducedIn(platform string) string {
	v, ok := f.Platforms[platform]
	if !ok || v == "" {
		return NotSupported
	}
	return v
}

// Supported reports whether platform supports the feature.
func (f *Feature) Supported(platform string) bool {
	return f.IntroducedIn(platform) != NotSupported
}

// SupportedPlatforms returns the sorted platforms that support the feature.
func (f *Feature) SupportedPlatforms() []string {
	platforms := make([]string, 0, len(f.Platforms))
	for p, v := range f.Platforms {
		if v != "" && v != NotSupported {
			platforms = append(platforms, p)
		}
	}
	slices.Sort(platforms)
	return platforms
}

// GetFieldType implements generic filtering. Fields named "platform.<NAME>"
// expose the introducing version for a single platform.
func (f *Feature) GetFieldType(field string) ColumnType {
	switch field {
	case "name", "category", "version":
		return ColumnTypeString
	case "platform_count":
		return ColumnTypeNumerical
	case "platforms":
		return ColumnTypeArray
	}
	if strings.HasPrefix(field, "platform.") {
		return ColumnTypeString
	}
	return ColumnTypeUnknown
}

func (f *Feature) GetStringValue(field string) (string, error) {
	switch field {
	case "name":
		return f.Name, nil
	case "category":
		return f.Category, nil
	case "version":
		return f.Version, nil
	}
	if p, ok := strings.CutPrefix(field, "platform."); ok {
		return f.IntroducedIn(strings.ToUpper(p)), nil
	}
	return "", Errorf(EINVALID, "unknown feature string field %q", field)
}

func (f *Feature) GetNumericalValue(field string) (float64, error) {
	if field == "platform_count" {
		return float64(len(f.SupportedPlatforms())), nil
	}
	return 0, Errorf(EINVALID, "unknown feature numerical field %q", field)
}

func (f *Feature) GetArrayValue(field string) ([]string, error) {
	if field == "platforms" {
		return f.SupportedPlatforms(), nil
	}
	return nil, Errorf(EINVALID, "unknown feature array field %q", field)
}

// FeatureService represents a service for looking up features.
type FeatureService interface {
	// FindFeatures retrieves features matching the filter.
	FindFeatures(ctx context.Context, filter FeatureFilter) ([]*Feature, error)

	// FindFeatureVersions returns the feature matrix versions, oldest first.
	FindFeatureVersions(ctx context.Context) ([]string, error)

	// FindPlatforms returns the platforms present in a matrix version.
	// An empty version returns platforms across all matrices.
	FindPlatforms(ctx context.Context, version string) ([]string, error)
}

// FeatureFilter represents a filter for FindFeatures.
type FeatureFilter struct {
	Version  *string `json:"version"`
	Platform *string `json:"platform"` // only features the platform supports
	Category *string `json:"category"`
	Query    *string `json:"query"` // case-insensitive name substring

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Match reports whether the feature passes the filter.
func (ff FeatureFilter) Match(f *Feature) bool {
	if ff.Version != nil && f.Version != *ff.Version {
		return false
	}
	if ff.Platform != nil && !f.Supported(*ff.Platform) {
		return false
	}
	if ff.Category != nil && !strings.EqualFold(f.Category, *ff.Category) {
		return false
	}
	if ff.Query != nil && !strings.Contains(strings.ToLower(f.Name), strings.ToLower(*ff.Query)) {
		return false
	}
	return true
}
