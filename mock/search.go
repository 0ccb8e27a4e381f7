package mock

import (
	"context"

	"github.com/fwojciec/prepcat"
)

var _ prepcat.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of prepcat.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, query string) ([]*prepcat.SearchResult, error)
}

func (s *SearchService) Search(ctx context.Context, query string) ([]*prepcat.SearchResult, error) {
	return s.SearchFn(ctx, query)
}
