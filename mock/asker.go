package mock

import (
	"context"

	"github.com/fwojciec/fidata"
)

var _ fidata.Asker = (*Asker)(nil)

// Asker is a mock implementation of fidata.Asker.
type Asker struct {
	AskFn func(ctx context.Context, version, question string) (string, error)
}

func (a *Asker) Ask(ctx context.Context, version, question string) (string, error) {
	return a.AskFn(ctx, version, question)
}
