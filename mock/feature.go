package mock

import (
	"context"

	"github.com/fwojciec/fidata"
)

var _ fidata.FeatureService = (*FeatureService)(nil)

// FeatureService is a mock implementation of fidata.FeatureService.
type FeatureService struct {
	FindFeaturesFn        func(ctx context.Context, filter fidata.FeatureFilter) ([]*fidata.Feature, error)
	FindFeatureVersionsFn func(ctx context.Context) ([]string, error)
	FindPlatformsFn       func(ctx context.Context, version string) ([]string, error)
}

func (s *FeatureService) FindFeatures(ctx context.Context, filter fidata.FeatureFilter) ([]*fidata.Feature, error) {
	return s.FindFeaturesFn(ctx, filter)
}

func (s *FeatureService) FindFeatureVersions(ctx context.Context) ([]string, error) {
	return s.FindFeatureVersionsFn(ctx)
}

func (s *FeatureService) FindPlatforms(ctx context.Context, version string) ([]string, error) {
	return s.FindPlatformsFn(ctx, version)
}
