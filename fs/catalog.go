// Package fs provides a file-based catalog source.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/prepcat"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Catalog file base names. Each may be stored as .json, .yaml, .yml or
// .toml. TOML files hold the records in an array of tables named after the
// base name, e.g. [[subjects]].
const (
	SubjectsFile      = "subjects"
	PreviousYearsFile = "previous-years"
)

// extensions are tried in order when locating a catalog file.
var extensions = []string{".json", ".yaml", ".yml", ".toml"}

// Ensure CatalogSource implements prepcat.CatalogSource at compile time.
var _ prepcat.CatalogSource = (*CatalogSource)(nil)

// CatalogSource loads the catalog from files in a directory.
type CatalogSource struct {
	dir      string
	validate *validator.Validate
}

// NewCatalogSource creates a CatalogSource reading from dir.
func NewCatalogSource(dir string) *CatalogSource {
	return &CatalogSource{
		dir:      dir,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Dir returns the directory the catalog is read from.
func (s *CatalogSource) Dir() string {
	return s.dir
}

// LoadCatalog reads the subjects and previous-years files concurrently.
// Returns ENOTFOUND if either file is missing and EINVALID if a file does
// not decode or fails validation.
func (s *CatalogSource) LoadCatalog(ctx context.Context) ([]*prepcat.Subject, []*prepcat.ExamYear, error) {
	var subjects []subjectRecord
	var years []yearRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		subjects, err = load[subjectRecord](gctx, s, SubjectsFile)
		return err
	})
	g.Go(func() (err error) {
		years, err = load[yearRecord](gctx, s, PreviousYearsFile)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	out := make([]*prepcat.Subject, len(subjects))
	for i := range subjects {
		out[i] = subjects[i].toSubject()
	}
	outYears := make([]*prepcat.ExamYear, len(years))
	for i := range years {
		outYears[i] = years[i].toExamYear()
	}
	return out, outYears, nil
}

// load locates, decodes and validates the catalog file with base name.
func load[T any](ctx context.Context, s *CatalogSource, name string) ([]T, error) {
	path, err := s.find(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var records []T
	switch filepath.Ext(path) {
	case ".json":
		err = json.Unmarshal(data, &records)
	case ".toml":
		var doc map[string][]T
		err = toml.Unmarshal(data, &doc)
		records = doc[name]
	default:
		err = yaml.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, prepcat.Errorf(prepcat.EINVALID, "%s: %v", filepath.Base(path), err)
	}

	if err := s.validate.Var(records, "dive"); err != nil {
		return nil, validationError(filepath.Base(path), err)
	}
	return records, nil
}

// find returns the path of the first existing file for name.
func (s *CatalogSource) find(name string) (string, error) {
	for _, ext := range extensions {
		path := filepath.Join(s.dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", prepcat.Errorf(prepcat.ENOTFOUND, "catalog file %q not found in %s", name, s.dir)
}

// validationError converts the first validator failure into an EINVALID error.
func validationError(file string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return prepcat.Errorf(prepcat.EINVALID, "%s: %v", file, err)
	}
	fe := verrs[0]
	return prepcat.Errorf(prepcat.EINVALID, "%s: %s failed %q validation", file, fe.Namespace(), fe.Tag())
}

// subjectRecord is the on-disk form of a subject.
type subjectRecord struct {
	Slug        string        `json:"slug" yaml:"slug" toml:"slug" validate:"required"`
	Name        string        `json:"name" yaml:"name" toml:"name" validate:"required"`
	Description string        `json:"description" yaml:"description" toml:"description"`
	Color       string        `json:"color" yaml:"color" toml:"color" validate:"omitempty,iscolor"`
	Icon        string        `json:"icon" yaml:"icon" toml:"icon"`
	Topics      []topicRecord `json:"topics" yaml:"topics" toml:"topics" validate:"dive"`
}

func (r *subjectRecord) toSubject() *prepcat.Subject {
	s := &prepcat.Subject{
		Slug:        r.Slug,
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		Icon:        r.Icon,
		Topics:      make([]*prepcat.Topic, len(r.Topics)),
	}
	for i, t := range r.Topics {
		s.Topics[i] = &prepcat.Topic{
			ID:         t.ID,
			Title:      t.Title,
			File:       t.File,
			Difficulty: prepcat.Difficulty(t.Difficulty),
			Tags:       t.Tags,
		}
	}
	return s
}

// topicRecord is the on-disk form of a topic.
type topicRecord struct {
	ID         string   `json:"id" yaml:"id" toml:"id" validate:"required"`
	Title      string   `json:"title" yaml:"title" toml:"title" validate:"required"`
	File       string   `json:"file" yaml:"file" toml:"file"`
	Difficulty string   `json:"difficulty" yaml:"difficulty" toml:"difficulty"`
	Tags       []string `json:"tags" yaml:"tags" toml:"tags" validate:"dive,required"`
}

// yearRecord is the on-disk form of an exam year.
type yearRecord struct {
	Year   int           `json:"year" yaml:"year" toml:"year" validate:"required,gt=0"`
	Papers []paperRecord `json:"papers" yaml:"papers" toml:"papers" validate:"dive"`
}

func (r *yearRecord) toExamYear() *prepcat.ExamYear {
	y := &prepcat.ExamYear{
		Year:   r.Year,
		Papers: make([]*prepcat.Paper, len(r.Papers)),
	}
	for i, p := range r.Papers {
		y.Papers[i] = &prepcat.Paper{
			ID:       p.ID,
			Title:    p.Title,
			File:     p.File,
			Category: p.Category,
		}
	}
	return y
}

// paperRecord is the on-disk form of a paper.
type paperRecord struct {
	ID       string `json:"id" yaml:"id" toml:"id" validate:"required"`
	Title    string `json:"title" yaml:"title" toml:"title" validate:"required"`
	File     string `json:"file" yaml:"file" toml:"file"`
	Category string `json:"category" yaml:"category" toml:"category"`
}
