// Package memory provides in-process implementations of prepcat services.
package memory

import (
	"context"
	"sync"

	"github.com/fwojciec/prepcat"
)

// Compile-time interface verification.
var _ prepcat.ViewService = (*ViewService)(nil)

// ViewService keeps view counts in a map for the life of the process.
// It is safe for concurrent use by multiple goroutines.
type ViewService struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewViewService creates an empty ViewService.
func NewViewService() *ViewService {
	return &ViewService{counts: make(map[string]int)}
}

// RecordView increments the count for id and returns the new count.
func (s *ViewService) RecordView(ctx context.Context, id string) (int, error) {
	if id == "" {
		return 0, prepcat.Errorf(prepcat.EINVALID, "item id required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[id]++
	return s.counts[id], nil
}

// ViewCount returns the count for id, zero if never recorded.
func (s *ViewService) ViewCount(ctx context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[id], nil
}
