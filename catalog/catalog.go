// Package catalog provides the in-memory catalog store and the substring
// search index built on top of it.
package catalog

import (
	"context"
	"fmt"

	"github.com/fwojciec/prepcat"
)

// Compile-time interface verification.
var _ prepcat.CatalogService = (*Catalog)(nil)

// Catalog holds the subjects and exam years loaded at startup.
// It is immutable after construction and safe for concurrent use.
// Reads return deep copies so callers cannot mutate the catalog.
type Catalog struct {
	subjects []*prepcat.Subject
	years    []*prepcat.ExamYear

	bySlug map[string]*prepcat.Subject
	byYear map[int]*prepcat.ExamYear
}

// New builds a Catalog from fully loaded collections.
// Returns EINVALID if an item fails validation, a topic or paper id is used
// more than once, or a subject slug or exam year is repeated.
func New(subjects []*prepcat.Subject, years []*prepcat.ExamYear) (*Catalog, error) {
	c := &Catalog{
		subjects: make([]*prepcat.Subject, 0, len(subjects)),
		years:    make([]*prepcat.ExamYear, 0, len(years)),
		bySlug:   make(map[string]*prepcat.Subject, len(subjects)),
		byYear:   make(map[int]*prepcat.ExamYear, len(years)),
	}

	// Topic and paper ids share one namespace.
	ids := make(map[string]struct{}, countItems(subjects, years))

	for _, s := range subjects {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.bySlug[s.Slug]; ok {
			return nil, prepcat.Errorf(prepcat.EINVALID, "duplicate subject slug %q", s.Slug)
		}
		s = s.Clone()
		for _, t := range s.Topics {
			if err := claim(ids, t.ID); err != nil {
				return nil, err
			}
			// Validate already accepted the label.
			t.Difficulty, _ = prepcat.ParseDifficulty(string(t.Difficulty))
		}
		c.subjects = append(c.subjects, s)
		c.bySlug[s.Slug] = s
	}

	for _, y := range years {
		if err := y.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.byYear[y.Year]; ok {
			return nil, prepcat.Errorf(prepcat.EINVALID, "duplicate exam year %d", y.Year)
		}
		y = y.Clone()
		for _, p := range y.Papers {
			if err := claim(ids, p.ID); err != nil {
				return nil, err
			}
		}
		c.years = append(c.years, y)
		c.byYear[y.Year] = y
	}

	return c, nil
}

// Load reads both collections from src and builds a Catalog.
func Load(ctx context.Context, src prepcat.CatalogSource) (*Catalog, error) {
	subjects, years, err := src.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return New(subjects, years)
}

// FindSubjects returns all subjects in catalog order.
func (c *Catalog) FindSubjects(ctx context.Context) ([]*prepcat.Subject, error) {
	out := make([]*prepcat.Subject, len(c.subjects))
	for i, s := range c.subjects {
		out[i] = s.Clone()
	}
	return out, nil
}

// FindSubjectBySlug retrieves a subject by slug.
func (c *Catalog) FindSubjectBySlug(ctx context.Context, slug string) (*prepcat.Subject, error) {
	s, ok := c.bySlug[slug]
	if !ok {
		return nil, prepcat.Errorf(prepcat.ENOTFOUND, "Subject not found")
	}
	return s.Clone(), nil
}

// FindExamYears returns all exam years in catalog order.
func (c *Catalog) FindExamYears(ctx context.Context) ([]*prepcat.ExamYear, error) {
	out := make([]*prepcat.ExamYear, len(c.years))
	for i, y := range c.years {
		out[i] = y.Clone()
	}
	return out, nil
}

// FindExamYear retrieves a single exam year.
func (c *Catalog) FindExamYear(ctx context.Context, year int) (*prepcat.ExamYear, error) {
	y, ok := c.byYear[year]
	if !ok {
		return nil, prepcat.Errorf(prepcat.ENOTFOUND, "Year not found")
	}
	return y.Clone(), nil
}

// claim records id as used, failing if it already is.
func claim(ids map[string]struct{}, id string) error {
	if _, ok := ids[id]; ok {
		return prepcat.Errorf(prepcat.EINVALID, "duplicate item id %q", id)
	}
	ids[id] = struct{}{}
	return nil
}

func countItems(subjects []*prepcat.Subject, years []*prepcat.ExamYear) int {
	n := 0
	for _, s := range subjects {
		n += len(s.Topics)
	}
	for _, y := range years {
		n += len(y.Papers)
	}
	return n
}
