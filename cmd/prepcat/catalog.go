package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/prepcat"
)

// Run executes the subjects command.
func (c *SubjectsCmd) Run(deps *Dependencies) error {
	subjects, err := deps.Catalog.FindSubjects(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prepcat.ErrorMessage(err))
		return err
	}

	if len(subjects) == 0 {
		fmt.Fprintln(deps.Stdout, "No subjects found.")
		return nil
	}

	for _, s := range subjects {
		fmt.Fprintf(deps.Stdout, "%s  %s  (%d topics)\n", s.Slug, s.Name, len(s.Topics))
	}
	return nil
}

// Run executes the topics command.
func (c *TopicsCmd) Run(deps *Dependencies) error {
	subject, err := deps.Catalog.FindSubjectBySlug(deps.Ctx, c.Slug)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prepcat.ErrorMessage(err))
		if prepcat.ErrorCode(err) == prepcat.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "Use 'prepcat subjects' to see available subjects.")
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s (%d topics):\n\n", subject.Name, len(subject.Topics))
	for _, t := range subject.Topics {
		fmt.Fprintf(deps.Stdout, "  %s  %s  [%s]", t.ID, t.Title, t.Difficulty)
		if tags := t.DisplayTags(); len(tags) > 0 {
			fmt.Fprintf(deps.Stdout, "  %s", strings.Join(tags, ", "))
		}
		fmt.Fprintln(deps.Stdout)
	}
	return nil
}

// Run executes the years command.
func (c *YearsCmd) Run(deps *Dependencies) error {
	years, err := deps.Catalog.FindExamYears(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prepcat.ErrorMessage(err))
		return err
	}

	if len(years) == 0 {
		fmt.Fprintln(deps.Stdout, "No exam years found.")
		return nil
	}

	for _, y := range years {
		fmt.Fprintf(deps.Stdout, "%d  (%d papers)\n", y.Year, len(y.Papers))
	}
	return nil
}

// Run executes the papers command.
func (c *PapersCmd) Run(deps *Dependencies) error {
	year, err := deps.Catalog.FindExamYear(deps.Ctx, c.Year)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prepcat.ErrorMessage(err))
		if prepcat.ErrorCode(err) == prepcat.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "Use 'prepcat years' to see available years.")
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "%d (%d papers):\n\n", year.Year, len(year.Papers))
	for _, p := range year.Papers {
		fmt.Fprintf(deps.Stdout, "  %s  %s  %s\n", p.ID, p.Title, p.Category)
	}
	return nil
}
