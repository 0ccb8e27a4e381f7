package browse_test

import (
	"testing"

	"github.com/fwojciec/prepcat"
	"github.com/fwojciec/prepcat/browse"
	"github.com/fwojciec/prepcat/catalog"
	"github.com/fwojciec/prepcat/memory"
	"github.com/stretchr/testify/require"
)

func setupCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		[]*prepcat.Subject{
			{
				Slug: "history",
				Name: "History",
				Topics: []*prepcat.Topic{
					{ID: "t1", Title: "Mughal Empire", File: "/sims/mughal.html", Tags: []string{"medieval", "india"}},
					{ID: "t2", Title: "Indus Valley", File: "/sims/indus.html"},
				},
			},
		},
		[]*prepcat.ExamYear{
			{Year: 2023, Papers: []*prepcat.Paper{{ID: "p5", Title: "GS Paper 1", File: "/papers/2023-gs1.pdf", Category: "GS"}}},
		},
	)
	require.NoError(t, err)
	return c
}

func setupNavigator(t *testing.T) (*browse.Navigator, *memory.ViewService) {
	t.Helper()
	views := memory.NewViewService()
	return browse.NewNavigator(setupCatalog(t), views), views
}

func memoryViews(t *testing.T) *memory.ViewService {
	t.Helper()
	return memory.NewViewService()
}
