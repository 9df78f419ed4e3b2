package sqlite

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/fwojciec/fidata"
)

// Ensure FeatureService implements fidata.FeatureService.
var _ fidata.FeatureService = (*FeatureService)(nil)

// FeatureService implements fidata.FeatureService using SQLite.
type FeatureService struct {
	db *DB
}

// NewFeatureService creates a new FeatureService.
func NewFeatureService(db *DB) *FeatureService {
	return &FeatureService{db: db}
}

// FindFeatures retrieves features matching the filter in import order.
func (s *FeatureService) FindFeatures(ctx context.Context, filter fidata.FeatureFilter) ([]*fidata.Feature, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT name, category, version, platforms FROM features WHERE 1=1")

	if filter.Version != nil {
		query.WriteString(" AND version = ?")
		args = append(args, *filter.Version)
	}
	if filter.Platform != nil {
		query.WriteString(` AND EXISTS (
			SELECT 1 FROM feature_platforms fp
			WHERE fp.feature_id = features.id AND fp.platform = ? AND fp.introduced NOT IN ('', ?)
		)`)
		args = append(args, *filter.Platform, fidata.NotSupported)
	}
	if filter.Category != nil {
		query.WriteString(" AND category = ? COLLATE NOCASE")
		args = append(args, *filter.Category)
	}
	if filter.Query != nil {
		// LIKE is case-insensitive for ASCII.
		query.WriteString(` AND name LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(*filter.Query))
	}

	query.WriteString(" ORDER BY id")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	features := make([]*fidata.Feature, 0)
	for rows.Next() {
		var f fidata.Feature
		var platforms string
		if err := rows.Scan(&f.Name, &f.Category, &f.Version, &platforms); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(platforms), &f.Platforms); err != nil {
			return nil, fidata.Errorf(fidata.EINTERNAL, "corrupt platforms for feature %q: %v", f.Name, err)
		}
		features = append(features, &f)
	}
	return features, rows.Err()
}

// FindFeatureVersions returns the indexed matrix versions, oldest first.
func (s *FeatureService) FindFeatureVersions(ctx context.Context) ([]string, error) {
	versions, err := queryStrings(ctx, s.db, "SELECT DISTINCT version FROM features")
	if err != nil {
		return nil, err
	}
	return fidata.UniqueVersions(versions), nil
}

// FindPlatforms returns the sorted platforms listed in a matrix version, or
// in every matrix when version is empty.
func (s *FeatureService) FindPlatforms(ctx context.Context, version string) ([]string, error) {
	query := "SELECT DISTINCT fp.platform FROM feature_platforms fp"
	var args []any
	if version != "" {
		query += " JOIN features f ON f.id = fp.feature_id WHERE f.version = ?"
		args = append(args, version)
	}
	query += " ORDER BY fp.platform"
	return queryStrings(ctx, s.db, query, args...)
}
