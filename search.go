package prepcat

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Search limits.
const (
	// MinQueryLength is the shortest trimmed query that triggers a search.
	MinQueryLength = 2

	// MaxSearchResults caps the number of results returned for a query.
	MaxSearchResults = 20
)

// ResultKind discriminates the catalog collection a result came from.
type ResultKind string

// Result kinds.
const (
	KindTopic        ResultKind = "topic"
	KindPreviousYear ResultKind = "previous-year"
)

// SearchResult is a topic or paper projected with its context.
// Topics carry their subject; papers carry their year.
type SearchResult struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	File  string     `json:"file"`
	Type  ResultKind `json:"type"`

	SubjectName string     `json:"subjectName,omitempty"`
	SubjectSlug string     `json:"subjectSlug,omitempty"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`
	Tags        []string   `json:"tags,omitempty"`

	Year     int    `json:"year,omitempty"`
	Category string `json:"category,omitempty"`
}

// Item returns the viewer projection of the result.
func (r *SearchResult) Item() Item {
	return Item{ID: r.ID, Title: r.Title, File: r.File}
}

// Meta returns the secondary line shown under a result title.
func (r *SearchResult) Meta() string {
	if r.SubjectName != "" {
		return r.SubjectName
	}
	if r.Type == KindPreviousYear {
		return "Previous Year - " + strconv.Itoa(r.Year)
	}
	return ""
}

// NormalizeQuery trims and lower-cases a query. The bool result is false when
// the normalized query is too short to search.
func NormalizeQuery(text string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(text))
	return q, utf8.RuneCountInString(q) >= MinQueryLength
}

// SearchService provides substring search over the catalog.
type SearchService interface {
	// Search returns matches in catalog scan order, capped at MaxSearchResults.
	// Queries shorter than MinQueryLength return no results and no error.
	Search(ctx context.Context, query string) ([]*SearchResult, error)
}
