package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/prepcat"
	main "github.com/fwojciec/prepcat/cmd/prepcat"
	"github.com/fwojciec/prepcat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCmd_Run(t *testing.T) {
	t.Parallel()

	setup := func(fn func(ctx context.Context, query string) ([]*prepcat.SearchResult, error)) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		return &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Search: &mock.SearchService{SearchFn: fn},
		}, stdout, stderr
	}

	t.Run("prints numbered results with their meta line", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := setup(func(_ context.Context, query string) ([]*prepcat.SearchResult, error) {
			assert.Equal(t, "mughal empire", query)
			return []*prepcat.SearchResult{
				{ID: "t1", Title: "Mughal Empire", Type: prepcat.KindTopic, SubjectName: "History"},
				{ID: "p5", Title: "GS Paper 1", Type: prepcat.KindPreviousYear, Year: 2023},
			}, nil
		})

		err := (&main.SearchCmd{Query: []string{"mughal", "empire"}}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "  1. t1  Mughal Empire  (History)\n  2. p5  GS Paper 1  (Previous Year - 2023)\n", stdout.String())
	})

	t.Run("reports no results", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := setup(func(_ context.Context, _ string) ([]*prepcat.SearchResult, error) {
			return []*prepcat.SearchResult{}, nil
		})

		require.NoError(t, (&main.SearchCmd{Query: []string{"zz"}}).Run(deps))
		assert.Equal(t, "No results found.\n", stdout.String())
	})

	t.Run("rejects short queries without searching", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := setup(func(_ context.Context, _ string) ([]*prepcat.SearchResult, error) {
			t.Fatal("search should not be called")
			return nil, nil
		})

		err := (&main.SearchCmd{Query: []string{" m "}}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, prepcat.EINVALID, prepcat.ErrorCode(err))
		assert.Contains(t, stderr.String(), "at least 2 characters")
	})
}
