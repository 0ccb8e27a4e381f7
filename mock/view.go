package mock

import (
	"context"

	"github.com/fwojciec/prepcat"
)

var _ prepcat.ViewService = (*ViewService)(nil)

// ViewService is a mock implementation of prepcat.ViewService.
type ViewService struct {
	RecordViewFn func(ctx context.Context, id string) (int, error)
	ViewCountFn  func(ctx context.Context, id string) (int, error)
}

func (s *ViewService) RecordView(ctx context.Context, id string) (int, error) {
	return s.RecordViewFn(ctx, id)
}

func (s *ViewService) ViewCount(ctx context.Context, id string) (int, error) {
	return s.ViewCountFn(ctx, id)
}
