package prometheus

import (
	"context"

	"github.com/fwojciec/prepcat"
)

// Ensure ViewService implements prepcat.ViewService.
var _ prepcat.ViewService = (*ViewService)(nil)

// ViewService wraps a ViewService with metrics.
type ViewService struct {
	next      prepcat.ViewService
	collector *Collector
}

// NewViewService creates a new ViewService.
func NewViewService(next prepcat.ViewService, collector *Collector) *ViewService {
	return &ViewService{next: next, collector: collector}
}

// RecordView delegates to the wrapped service and counts recorded views.
func (s *ViewService) RecordView(ctx context.Context, id string) (int, error) {
	n, err := s.next.RecordView(ctx, id)
	if err != nil {
		s.collector.ViewErrors.WithLabelValues("record").Inc()
		return 0, err
	}
	s.collector.ViewsRecorded.Inc()
	return n, nil
}

// ViewCount delegates to the wrapped service.
func (s *ViewService) ViewCount(ctx context.Context, id string) (int, error) {
	n, err := s.next.ViewCount(ctx, id)
	if err != nil {
		s.collector.ViewErrors.WithLabelValues("count").Inc()
		return 0, err
	}
	return n, nil
}
