package browse_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/prepcat"
	"github.com/fwojciec/prepcat/browse"
	"github.com/fwojciec/prepcat/catalog"
	"github.com/fwojciec/prepcat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects results panel notifications.
type recorder struct {
	mu   sync.Mutex
	seen []browse.Results
}

func (r *recorder) record(res browse.Results) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, res)
}

func (r *recorder) all() []browse.Results {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]browse.Results(nil), r.seen...)
}

func setupController(t *testing.T) (*browse.SearchController, *mock.Scheduler, *browse.Navigator, *recorder) {
	t.Helper()
	nav, _ := setupNavigator(t)
	sched := &mock.Scheduler{}
	idx := catalog.NewIndex(setupCatalog(t))
	c := browse.NewSearchController(idx, nav, sched)
	rec := &recorder{}
	c.Subscribe(rec.record)
	return c, sched, nav, rec
}

func TestSearchController_SetInput(t *testing.T) {
	t.Parallel()

	t.Run("short input hides results without dispatching", func(t *testing.T) {
		t.Parallel()

		c, sched, _, rec := setupController(t)

		c.SetInput(context.Background(), " m ")

		assert.Equal(t, 0, sched.Pending())
		assert.Equal(t, browse.ResultsHidden, c.Results().State)
		require.Len(t, rec.all(), 1)
		assert.Equal(t, browse.ResultsHidden, rec.all()[0].State)
	})

	t.Run("debounces rapid input into one dispatch of the latest value", func(t *testing.T) {
		t.Parallel()

		nav, _ := setupNavigator(t)
		sched := &mock.Scheduler{}
		var queries []string
		search := &mock.SearchService{
			SearchFn: func(ctx context.Context, query string) ([]*prepcat.SearchResult, error) {
				queries = append(queries, query)
				return nil, nil
			},
		}
		c := browse.NewSearchController(search, nav, sched)
		ctx := context.Background()

		c.SetInput(ctx, "mu")
		c.SetInput(ctx, "mug")
		c.SetInput(ctx, " mugh ")

		assert.Equal(t, 1, sched.Pending())
		assert.Equal(t, browse.DefaultDebounce, sched.LastDelay())
		assert.Equal(t, 1, sched.Fire())
		assert.Equal(t, []string{"mugh"}, queries)
	})

	t.Run("short input cancels a waiting dispatch", func(t *testing.T) {
		t.Parallel()

		c, sched, _, _ := setupController(t)
		ctx := context.Background()

		c.SetInput(ctx, "mughal")
		c.SetInput(ctx, "m")

		assert.Equal(t, 0, sched.Pending())
		assert.Equal(t, 0, sched.Fire())
		assert.Equal(t, browse.ResultsHidden, c.Results().State)
	})

	t.Run("shows matches in the order returned", func(t *testing.T) {
		t.Parallel()

		c, sched, _, rec := setupController(t)

		c.SetInput(context.Background(), "mughal")
		sched.Fire()

		res := c.Results()
		assert.Equal(t, browse.ResultsShown, res.State)
		assert.Equal(t, "mughal", res.Query)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "t1", res.Items[0].ID)
		assert.Equal(t, "History", res.Items[0].SubjectName)
		assert.Len(t, rec.all(), 1)
	})

	t.Run("reports no results distinctly from no query", func(t *testing.T) {
		t.Parallel()

		c, sched, _, _ := setupController(t)

		c.SetInput(context.Background(), "zz")
		sched.Fire()

		res := c.Results()
		assert.Equal(t, browse.ResultsEmpty, res.State)
		assert.Empty(t, res.Items)
	})

	t.Run("hides results when the search fails", func(t *testing.T) {
		t.Parallel()

		nav, _ := setupNavigator(t)
		sched := &mock.Scheduler{}
		search := &mock.SearchService{
			SearchFn: func(ctx context.Context, query string) ([]*prepcat.SearchResult, error) {
				return nil, errors.New("connection refused")
			},
		}
		c := browse.NewSearchController(search, nav, sched)

		c.SetInput(context.Background(), "mughal")
		sched.Fire()

		res := c.Results()
		assert.Equal(t, browse.ResultsHidden, res.State)
		assert.EqualError(t, res.Err, "connection refused")
	})

	t.Run("drops responses that arrive after newer input", func(t *testing.T) {
		t.Parallel()

		nav, _ := setupNavigator(t)
		sched := &mock.Scheduler{}
		started := make(chan struct{})
		release := make(chan struct{})
		search := &mock.SearchService{
			SearchFn: func(ctx context.Context, query string) ([]*prepcat.SearchResult, error) {
				if query == "mughal" {
					close(started)
					<-release
					return []*prepcat.SearchResult{{ID: "t1"}}, nil
				}
				return []*prepcat.SearchResult{{ID: "t2"}}, nil
			},
		}
		c := browse.NewSearchController(search, nav, sched)
		rec := &recorder{}
		c.Subscribe(rec.record)
		ctx := context.Background()

		c.SetInput(ctx, "mughal")
		done := make(chan struct{})
		go func() {
			defer close(done)
			sched.Fire()
		}()
		<-started

		c.SetInput(ctx, "indus")
		sched.Fire()

		close(release)
		<-done

		res := c.Results()
		assert.Equal(t, "indus", res.Query)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "t2", res.Items[0].ID)
		for _, r := range rec.all() {
			assert.NotEqual(t, "mughal", r.Query)
		}
	})

	t.Run("dispatches after the quiet period with the timer scheduler", func(t *testing.T) {
		t.Parallel()

		nav, _ := setupNavigator(t)
		idx := catalog.NewIndex(setupCatalog(t))
		c := browse.NewSearchController(idx, nav, nil)
		c.Delay = 10 * time.Millisecond

		c.SetInput(context.Background(), "indus")

		require.Eventually(t, func() bool {
			return c.Results().State == browse.ResultsShown
		}, time.Second, 5*time.Millisecond)
		assert.Equal(t, "t2", c.Results().Items[0].ID)
	})
}

func TestSearchController_Select(t *testing.T) {
	t.Parallel()

	t.Run("opens the viewer from the current section", func(t *testing.T) {
		t.Parallel()

		views := memoryViews(t)
		nav := browse.NewNavigator(setupCatalog(t), views)
		sched := &mock.Scheduler{}
		c := browse.NewSearchController(catalog.NewIndex(setupCatalog(t)), nav, sched)
		ctx := context.Background()

		require.NoError(t, nav.GoTo(prepcat.SectionPreviousYears))
		c.SetInput(ctx, "gs paper")
		sched.Fire()
		res := c.Results()
		require.Len(t, res.Items, 1)

		require.NoError(t, c.Select(ctx, res.Items[0]))

		assert.Empty(t, c.Input())
		assert.Equal(t, browse.ResultsHidden, c.Results().State)
		assert.Equal(t, prepcat.SectionViewer, nav.CurrentSection())
		assert.Equal(t, prepcat.SectionPreviousYears, nav.ReturnTarget())
		assert.Equal(t, "p5", nav.State().Viewing.ID)

		n, err := views.ViewCount(ctx, "p5")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		nav.Back()
		assert.Equal(t, prepcat.SectionPreviousYears, nav.CurrentSection())
	})

	t.Run("cancels a waiting dispatch", func(t *testing.T) {
		t.Parallel()

		c, sched, _, _ := setupController(t)
		ctx := context.Background()

		c.SetInput(ctx, "indus")
		require.NoError(t, c.Select(ctx, &prepcat.SearchResult{ID: "t1", Title: "Mughal Empire"}))

		assert.Equal(t, 0, sched.Fire())
		assert.Equal(t, browse.ResultsHidden, c.Results().State)
	})
}

func TestSearchController_Dismiss(t *testing.T) {
	t.Parallel()

	c, sched, _, _ := setupController(t)
	ctx := context.Background()

	c.SetInput(ctx, "mughal")
	sched.Fire()
	require.Equal(t, browse.ResultsShown, c.Results().State)

	c.Dismiss()

	assert.Equal(t, browse.ResultsHidden, c.Results().State)
	assert.Equal(t, "mughal", c.Input())
}
