// Package slog decorates fidata services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/fidata"
)

// Ensure LoggingPageReader implements fidata.PageReader.
var _ fidata.PageReader = (*LoggingPageReader)(nil)

// LoggingPageReader wraps a PageReader with debug logging.
type LoggingPageReader struct {
	next   fidata.PageReader
	logger *slog.Logger
}

// NewLoggingPageReader creates a new LoggingPageReader.
func NewLoggingPageReader(next fidata.PageReader, logger *slog.Logger) *LoggingPageReader {
	return &LoggingPageReader{next: next, logger: logger}
}

// ReadPages delegates to the wrapped reader and logs the operation.
func (r *LoggingPageReader) ReadPages(ctx context.Context, path string) (pages []*fidata.Page, err error) {
	defer func(begin time.Time) {
		tables := 0
		for _, p := range pages {
			tables += len(p.Tables)
		}
		r.logger.Debug("read pages",
			"path", path,
			"pages", len(pages),
			"tables", tables,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.ReadPages(ctx, path)
}
