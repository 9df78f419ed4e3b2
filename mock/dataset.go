package mock

import (
	"context"

	"github.com/fwojciec/fidata"
)

// Compile-time interface verification.
var (
	_ fidata.DatasetStore = (*DatasetStore)(nil)
	_ fidata.Publisher    = (*Publisher)(nil)
)

// DatasetStore is a mock implementation of fidata.DatasetStore.
type DatasetStore struct {
	LoadFn    func(ctx context.Context) (*fidata.Dataset, error)
	SaveFn    func(ctx context.Context, d *fidata.Dataset, kinds ...fidata.DatasetKind) error
	ReadRawFn func(kind fidata.DatasetKind) ([]byte, error)
}

func (s *DatasetStore) Load(ctx context.Context) (*fidata.Dataset, error) {
	return s.LoadFn(ctx)
}

func (s *DatasetStore) Save(ctx context.Context, d *fidata.Dataset, kinds ...fidata.DatasetKind) error {
	return s.SaveFn(ctx, d, kinds...)
}

func (s *DatasetStore) ReadRaw(kind fidata.DatasetKind) ([]byte, error) {
	return s.ReadRawFn(kind)
}

// Publisher is a mock implementation of fidata.Publisher.
type Publisher struct {
	PublishFn func(ctx context.Context, name string, data []byte) error
}

func (p *Publisher) Publish(ctx context.Context, name string, data []byte) error {
	return p.PublishFn(ctx, name, data)
}
