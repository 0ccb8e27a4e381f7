package prepcat

import (
	"context"
	"strings"
)

// Difficulty represents how demanding a topic is.
type Difficulty string

// Difficulty levels. Topics without an explicit level are DifficultyMedium.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty converts a case-insensitive label into a Difficulty.
// An empty label yields DifficultyMedium.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DifficultyMedium, nil
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	default:
		return "", Errorf(EINVALID, "unknown difficulty %q", s)
	}
}

// MaxDisplayTags is the number of tags shown on a topic card.
const MaxDisplayTags = 3

// Subject is a top-level study area holding an ordered list of topics.
type Subject struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Color       string   `json:"color"`
	Icon        string   `json:"icon"`
	Topics      []*Topic `json:"topics"`
}

// Validate returns an error if the subject contains invalid fields.
func (s *Subject) Validate() error {
	if s.Slug == "" {
		return Errorf(EINVALID, "subject slug required")
	}
	if s.Name == "" {
		return Errorf(EINVALID, "subject %q name required", s.Slug)
	}
	for _, t := range s.Topics {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of the subject.
func (s *Subject) Clone() *Subject {
	other := *s
	other.Topics = make([]*Topic, len(s.Topics))
	for i, t := range s.Topics {
		other.Topics[i] = t.Clone()
	}
	return &other
}

// Topic is a single piece of study content within a subject.
type Topic struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	File       string     `json:"file"`
	Difficulty Difficulty `json:"difficulty"`
	Tags       []string   `json:"tags"`
}

// Validate returns an error if the topic contains invalid fields.
func (t *Topic) Validate() error {
	if t.ID == "" {
		return Errorf(EINVALID, "topic id required")
	}
	if t.Title == "" {
		return Errorf(EINVALID, "topic %q title required", t.ID)
	}
	if _, err := ParseDifficulty(string(t.Difficulty)); err != nil {
		return err
	}
	return nil
}

// Clone returns a deep copy of the topic.
func (t *Topic) Clone() *Topic {
	other := *t
	other.Tags = append([]string(nil), t.Tags...)
	return &other
}

// DisplayTags returns the tags shown on the topic's card.
func (t *Topic) DisplayTags() []string {
	if len(t.Tags) > MaxDisplayTags {
		return t.Tags[:MaxDisplayTags]
	}
	return t.Tags
}

// Item returns the viewer projection of the topic.
func (t *Topic) Item() Item {
	return Item{ID: t.ID, Title: t.Title, File: t.File}
}

// ExamYear groups the question papers of one examination year.
type ExamYear struct {
	Year   int      `json:"year"`
	Papers []*Paper `json:"papers"`
}

// Validate returns an error if the year contains invalid fields.
func (y *ExamYear) Validate() error {
	if y.Year <= 0 {
		return Errorf(EINVALID, "exam year required")
	}
	for _, p := range y.Papers {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of the exam year.
func (y *ExamYear) Clone() *ExamYear {
	other := *y
	other.Papers = make([]*Paper, len(y.Papers))
	for i, p := range y.Papers {
		cp := *p
		other.Papers[i] = &cp
	}
	return &other
}

// Paper is a previous-year question paper.
type Paper struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	File     string `json:"file"`
	Category string `json:"category"`
}

// Validate returns an error if the paper contains invalid fields.
func (p *Paper) Validate() error {
	if p.ID == "" {
		return Errorf(EINVALID, "paper id required")
	}
	if p.Title == "" {
		return Errorf(EINVALID, "paper %q title required", p.ID)
	}
	return nil
}

// Item returns the viewer projection of the paper.
func (p *Paper) Item() Item {
	return Item{ID: p.ID, Title: p.Title, File: p.File}
}

// Item is the content shown by the viewer: any topic or paper.
type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	File  string `json:"file"`
}

// CatalogService provides read-only access to a loaded catalog.
type CatalogService interface {
	// FindSubjects returns all subjects in catalog order.
	FindSubjects(ctx context.Context) ([]*Subject, error)

	// FindSubjectBySlug retrieves a subject by slug.
	// Returns ENOTFOUND if the subject does not exist.
	FindSubjectBySlug(ctx context.Context, slug string) (*Subject, error)

	// FindExamYears returns all exam years in catalog order.
	FindExamYears(ctx context.Context) ([]*ExamYear, error)

	// FindExamYear retrieves the papers of a single year.
	// Returns ENOTFOUND if the year does not exist.
	FindExamYear(ctx context.Context, year int) (*ExamYear, error)
}

// CatalogSource loads the raw catalog collections once at startup.
type CatalogSource interface {
	LoadCatalog(ctx context.Context) (subjects []*Subject, years []*ExamYear, err error)
}
