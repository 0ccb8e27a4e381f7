package http_test

import (
	"testing"

	"github.com/fwojciec/prepcat"
	"github.com/fwojciec/prepcat/catalog"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		[]*prepcat.Subject{
			{
				Slug: "history",
				Name: "History",
				Topics: []*prepcat.Topic{
					{ID: "t1", Title: "Mughal Empire", File: "history/mughal.pdf", Tags: []string{"medieval", "india"}},
					{ID: "t2", Title: "Indus Valley", Difficulty: "hard"},
				},
			},
			{Slug: "ethics", Name: "Ethics"},
		},
		[]*prepcat.ExamYear{
			{Year: 2023, Papers: []*prepcat.Paper{{ID: "p5", Title: "GS Paper 1", Category: "GS"}}},
		},
	)
	require.NoError(t, err)
	return c
}
