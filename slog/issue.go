package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/fidata"
)

// Ensure LoggingIssueService implements fidata.IssueService.
var _ fidata.IssueService = (*LoggingIssueService)(nil)

// LoggingIssueService wraps an IssueService with debug logging.
type LoggingIssueService struct {
	next   fidata.IssueService
	logger *slog.Logger
}

// NewLoggingIssueService creates a new LoggingIssueService.
func NewLoggingIssueService(next fidata.IssueService, logger *slog.Logger) *LoggingIssueService {
	return &LoggingIssueService{next: next, logger: logger}
}

func (s *LoggingIssueService) FindIssues(ctx context.Context, filter fidata.IssueFilter) (issues []*fidata.Issue, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find issues",
			issueFilterAttr(filter),
			"count", len(issues),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindIssues(ctx, filter)
}

func (s *LoggingIssueService) FindIssueVersions(ctx context.Context) (versions []string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find issue versions",
			"count", len(versions),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindIssueVersions(ctx)
}

func (s *LoggingIssueService) FindDefectByID(ctx context.Context, id string) (d *fidata.Defect, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find defect",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDefectByID(ctx, id)
}

// issueFilterAttr groups the filter fields that are set.
func issueFilterAttr(f fidata.IssueFilter) slog.Attr {
	var attrs []any
	add := func(key string, v *string) {
		if v != nil {
			attrs = append(attrs, slog.String(key, *v))
		}
	}
	add("id", f.ID)
	if f.Status != nil {
		attrs = append(attrs, slog.String("status", string(*f.Status)))
	}
	add("technology", f.Technology)
	add("version", f.Version)
	add("query", f.Query)
	return slog.Group("filter", attrs...)
}
