package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/prepcat"
)

// Ensure SearchService implements prepcat.SearchService.
var _ prepcat.SearchService = (*SearchService)(nil)

// SearchService wraps a SearchService with metrics.
type SearchService struct {
	next      prepcat.SearchService
	collector *Collector
}

// NewSearchService creates a new SearchService.
func NewSearchService(next prepcat.SearchService, collector *Collector) *SearchService {
	return &SearchService{next: next, collector: collector}
}

// Search delegates to the wrapped service and records the outcome.
func (s *SearchService) Search(ctx context.Context, query string) ([]*prepcat.SearchResult, error) {
	begin := time.Now()
	results, err := s.next.Search(ctx, query)
	s.collector.SearchDuration.Observe(time.Since(begin).Seconds())

	switch {
	case err != nil:
		s.collector.Searches.WithLabelValues(OutcomeError).Inc()
		return nil, err
	case len(results) == 0:
		s.collector.Searches.WithLabelValues(OutcomeEmpty).Inc()
	default:
		s.collector.Searches.WithLabelValues(OutcomeMatched).Inc()
	}
	s.collector.SearchResults.Observe(float64(len(results)))
	return results, nil
}
