package mock

import (
	"context"

	"github.com/fwojciec/fidata"
)

var _ fidata.PageReader = (*PageReader)(nil)

// PageReader is a mock implementation of fidata.PageReader.
type PageReader struct {
	ReadPagesFn func(ctx context.Context, path string) ([]*fidata.Page, error)
}

func (r *PageReader) ReadPages(ctx context.Context, path string) ([]*fidata.Page, error) {
	return r.ReadPagesFn(ctx, path)
}
