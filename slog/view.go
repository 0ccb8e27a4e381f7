package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/prepcat"
)

// Ensure LoggingViewService implements prepcat.ViewService.
var _ prepcat.ViewService = (*LoggingViewService)(nil)

// LoggingViewService wraps a ViewService with logging. Recording is logged
// at info level, reads at debug level.
type LoggingViewService struct {
	next   prepcat.ViewService
	logger *slog.Logger
}

// NewLoggingViewService creates a new LoggingViewService.
func NewLoggingViewService(next prepcat.ViewService, logger *slog.Logger) *LoggingViewService {
	return &LoggingViewService{next: next, logger: logger}
}

// RecordView delegates to the wrapped service and logs the new count.
func (s *LoggingViewService) RecordView(ctx context.Context, id string) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Info("record view",
			"id", id,
			"views", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.RecordView(ctx, id)
}

// ViewCount delegates to the wrapped service.
func (s *LoggingViewService) ViewCount(ctx context.Context, id string) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("view count",
			"id", id,
			"views", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ViewCount(ctx, id)
}
