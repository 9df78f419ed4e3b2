package inmem

import (
	"context"

	"github.com/fwojciec/fidata"
)

// FeatureService looks up features in a loaded dataset.
type FeatureService struct {
	data *fidata.Dataset
}

// NewFeatureService creates a new FeatureService.
func NewFeatureService(data *fidata.Dataset) *FeatureService {
	return &FeatureService{data: data}
}

func (s *FeatureService) FindFeatures(ctx context.Context, f fidata.FeatureFilter) ([]*fidata.Feature, error) {
	features := matchAll(s.data.Features, f.Match)
	return page(features, f.Offset, f.Limit), nil
}

func (s *FeatureService) FindFeatureVersions(ctx context.Context) ([]string, error) {
	return s.data.FeatureVersions(), nil
}

func (s *FeatureService) FindPlatforms(ctx context.Context, version string) ([]string, error) {
	return s.data.Platforms(version), nil
}
