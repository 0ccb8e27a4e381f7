package main_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/prepcat"
	"github.com/fwojciec/prepcat/catalog"
	main "github.com/fwojciec/prepcat/cmd/prepcat"
	"github.com/fwojciec/prepcat/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func browseDeps(t *testing.T, input string) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	c, err := catalog.New(
		[]*prepcat.Subject{{
			Slug: "history",
			Name: "History",
			Topics: []*prepcat.Topic{
				{ID: "t1", Title: "Mughal Empire", File: "history/mughal.pdf", Tags: []string{"medieval", "india"}},
			},
		}},
		[]*prepcat.ExamYear{
			{Year: 2023, Papers: []*prepcat.Paper{{ID: "p5", Title: "GS Paper 1", File: "papers/2023-gs1.pdf", Category: "GS"}}},
		},
	)
	require.NoError(t, err)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:     context.Background(),
		Stdin:   strings.NewReader(input),
		Stdout:  stdout,
		Stderr:  stderr,
		Catalog: c,
		Search:  catalog.NewIndex(c),
		Views:   memory.NewViewService(),
	}, stdout, stderr
}

func TestBrowseCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("opens a topic and returns to its subject", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := browseDeps(t, "subject history\ntopic t1\nback\nquit\n")

		err := (&main.BrowseCmd{}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "[home]  menu: home")
		assert.Contains(t, out, "[subject-detail]  menu: subject-detail, subjects")
		assert.Contains(t, out, "t1  Mughal Empire  [medium]  medieval, india")
		assert.Contains(t, out, "[viewer]  menu: viewer, subjects, previous-years")
		assert.Contains(t, out, "Viewing t1  Mughal Empire\n  history/mughal.pdf")
		assert.Contains(t, out, "back -> subject-detail")
		assert.Equal(t, 2, strings.Count(out, "[subject-detail]"))
	})

	t.Run("opens a search result from the current section", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := browseDeps(t, "years\nsearch gs paper\npick 1\nviews p5\nback\n")

		err := (&main.BrowseCmd{}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "  1. p5  GS Paper 1  (Previous Year - 2023)")
		assert.Contains(t, out, "Viewing p5  GS Paper 1")
		assert.Contains(t, out, "back -> previous-years")
		assert.Contains(t, out, "p5: 1 views")
		assert.Equal(t, 2, strings.Count(out, "[previous-years]"))
	})

	t.Run("distinguishes short queries from empty results", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := browseDeps(t, "search m\nsearch zz\npick 1\n")

		err := (&main.BrowseCmd{}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "Type at least 2 characters to search.")
		assert.Contains(t, out, "No results found.")
		assert.Contains(t, out, "No results to pick from.")
	})

	t.Run("treats unknown slugs and years as no-ops", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := browseDeps(t, "subject geography\nyear 1999\nyear abc\ntopic t1\nfrobnicate\n")

		err := (&main.BrowseCmd{}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "Subject not found: geography")
		assert.Contains(t, out, "Year not found: 1999")
		assert.Contains(t, out, "Year not found: abc")
		assert.Contains(t, out, `No topic "t1" here.`)
		assert.Contains(t, out, `Unknown command "frobnicate"`)
		assert.NotContains(t, out, "[subject-detail]")
		assert.NotContains(t, out, "[viewer]")
	})

	t.Run("back outside the viewer stays put", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := browseDeps(t, "years\nback\n")

		err := (&main.BrowseCmd{}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "Not in the viewer.")
		assert.Equal(t, 1, strings.Count(out, "[previous-years]"))
		assert.NotContains(t, out, "[subjects]")
	})
}
