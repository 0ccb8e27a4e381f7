package mock

import (
	"context"

	"github.com/fwojciec/prepcat"
)

var _ prepcat.CatalogService = (*CatalogService)(nil)

// CatalogService is a mock implementation of prepcat.CatalogService.
type CatalogService struct {
	FindSubjectsFn      func(ctx context.Context) ([]*prepcat.Subject, error)
	FindSubjectBySlugFn func(ctx context.Context, slug string) (*prepcat.Subject, error)
	FindExamYearsFn     func(ctx context.Context) ([]*prepcat.ExamYear, error)
	FindExamYearFn      func(ctx context.Context, year int) (*prepcat.ExamYear, error)
}

func (s *CatalogService) FindSubjects(ctx context.Context) ([]*prepcat.Subject, error) {
	return s.FindSubjectsFn(ctx)
}

func (s *CatalogService) FindSubjectBySlug(ctx context.Context, slug string) (*prepcat.Subject, error) {
	return s.FindSubjectBySlugFn(ctx, slug)
}

func (s *CatalogService) FindExamYears(ctx context.Context) ([]*prepcat.ExamYear, error) {
	return s.FindExamYearsFn(ctx)
}

func (s *CatalogService) FindExamYear(ctx context.Context, year int) (*prepcat.ExamYear, error) {
	return s.FindExamYearFn(ctx, year)
}

var _ prepcat.CatalogSource = (*CatalogSource)(nil)

// CatalogSource is a mock implementation of prepcat.CatalogSource.
type CatalogSource struct {
	LoadCatalogFn func(ctx context.Context) ([]*prepcat.Subject, []*prepcat.ExamYear, error)
}

func (s *CatalogSource) LoadCatalog(ctx context.Context) ([]*prepcat.Subject, []*prepcat.ExamYear, error) {
	return s.LoadCatalogFn(ctx)
}
