package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/prepcat"
)

// Ensure LoggingCatalogSource implements prepcat.CatalogSource.
var _ prepcat.CatalogSource = (*LoggingCatalogSource)(nil)

// LoggingCatalogSource wraps a CatalogSource with logging.
type LoggingCatalogSource struct {
	next   prepcat.CatalogSource
	logger *slog.Logger
}

// NewLoggingCatalogSource creates a new LoggingCatalogSource.
func NewLoggingCatalogSource(next prepcat.CatalogSource, logger *slog.Logger) *LoggingCatalogSource {
	return &LoggingCatalogSource{next: next, logger: logger}
}

// LoadCatalog delegates to the wrapped source and logs collection sizes.
func (s *LoggingCatalogSource) LoadCatalog(ctx context.Context) (subjects []*prepcat.Subject, years []*prepcat.ExamYear, err error) {
	defer func(begin time.Time) {
		topics, papers := 0, 0
		for _, subj := range subjects {
			topics += len(subj.Topics)
		}
		for _, y := range years {
			papers += len(y.Papers)
		}
		s.logger.Info("load catalog",
			"subjects", len(subjects),
			"topics", topics,
			"years", len(years),
			"papers", papers,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LoadCatalog(ctx)
}
