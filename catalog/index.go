package catalog

import (
	"context"
	"strings"

	"github.com/fwojciec/prepcat"
)

// Compile-time interface verification.
var _ prepcat.SearchService = (*Index)(nil)

// Index answers substring queries over a Catalog.
//
// Entries are kept in scan order: subjects then their topics, followed by
// exam years then their papers. Results are the first MaxSearchResults
// matches in that order; there is no scoring.
type Index struct {
	entries []entry
}

// entry is one searchable item with its match fields pre-lowered.
type entry struct {
	result prepcat.SearchResult
	title  string
	tags   []string
}

// NewIndex builds an Index over c.
func NewIndex(c *Catalog) *Index {
	idx := &Index{}

	for _, s := range c.subjects {
		for _, t := range s.Topics {
			e := entry{
				result: prepcat.SearchResult{
					ID:          t.ID,
					Title:       t.Title,
					File:        t.File,
					Type:        prepcat.KindTopic,
					SubjectName: s.Name,
					SubjectSlug: s.Slug,
					Difficulty:  t.Difficulty,
					Tags:        t.Tags,
				},
				title: strings.ToLower(t.Title),
				tags:  make([]string, len(t.Tags)),
			}
			for i, tag := range t.Tags {
				e.tags[i] = strings.ToLower(tag)
			}
			idx.entries = append(idx.entries, e)
		}
	}

	// Paper categories are displayed but never matched.
	for _, y := range c.years {
		for _, p := range y.Papers {
			idx.entries = append(idx.entries, entry{
				result: prepcat.SearchResult{
					ID:       p.ID,
					Title:    p.Title,
					File:     p.File,
					Type:     prepcat.KindPreviousYear,
					Year:     y.Year,
					Category: p.Category,
				},
				title: strings.ToLower(p.Title),
			})
		}
	}

	return idx
}

// Search implements prepcat.SearchService.
func (idx *Index) Search(ctx context.Context, query string) ([]*prepcat.SearchResult, error) {
	return idx.Query(query), nil
}

// Query returns the matches for text. Short or blank queries return an empty
// slice without scanning.
func (idx *Index) Query(text string) []*prepcat.SearchResult {
	q, ok := prepcat.NormalizeQuery(text)
	if !ok {
		return []*prepcat.SearchResult{}
	}

	results := []*prepcat.SearchResult{}
	for i := range idx.entries {
		e := &idx.entries[i]
		if !e.matches(q) {
			continue
		}
		r := e.result
		r.Tags = append([]string(nil), e.result.Tags...)
		results = append(results, &r)
		if len(results) == prepcat.MaxSearchResults {
			break
		}
	}
	return results
}

// Len returns the number of searchable items.
func (idx *Index) Len() int {
	return len(idx.entries)
}

func (e *entry) matches(q string) bool {
	if strings.Contains(e.title, q) {
		return true
	}
	for _, tag := range e.tags {
		if strings.Contains(tag, q) {
			return true
		}
	}
	return false
}
