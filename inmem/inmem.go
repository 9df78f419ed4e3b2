// Package inmem implements the lookup services over a dataset held in
// memory. The dataset is treated as immutable, so services are safe for
// concurrent use.
package inmem

import (
	"strings"

	"github.com/fwojciec/fidata"
	"github.com/fwojciec/fidata/filter"
)

// Compile-time interface verification.
var (
	_ fidata.FeatureService = (*FeatureService)(nil)
	_ fidata.IssueService   = (*IssueService)(nil)
	_ fidata.ReleaseService = (*ReleaseService)(nil)
	_ fidata.SearchService  = (*SearchService)(nil)
)

// matchAll keeps the items for which match returns true.
func matchAll[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0)
	for _, item := range items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out
}

// page applies offset and limit to items.
func page[T any](items []T, offset, limit int) []T {
	return filter.Page(items, offset, limit)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
