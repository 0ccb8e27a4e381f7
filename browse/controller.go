package browse

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/prepcat"
)

// DefaultDebounce is the quiet period after the last keystroke before a
// query is dispatched.
const DefaultDebounce = 300 * time.Millisecond

// ResultsState describes what the results panel shows.
type ResultsState int

const (
	// ResultsHidden means no query has been dispatched for the current input.
	ResultsHidden ResultsState = iota
	// ResultsEmpty means a dispatched query matched nothing.
	ResultsEmpty
	// ResultsShown means a dispatched query returned matches.
	ResultsShown
)

// Results is a snapshot of the results panel.
type Results struct {
	State ResultsState
	Query string
	Items []*prepcat.SearchResult

	// Err is set when the dispatched search failed; the panel stays hidden.
	Err error

	// Generation identifies the input change that produced this snapshot.
	// Later input changes have higher generations.
	Generation uint64
}

// SearchController turns raw input changes into debounced searches.
//
// Inputs shorter than prepcat.MinQueryLength hide the panel immediately and
// dispatch nothing. Longer inputs are dispatched after the debounce delay,
// cancelling any dispatch still waiting. A response is applied only if no
// input change happened since its dispatch was scheduled; stale responses
// are dropped.
type SearchController struct {
	search    prepcat.SearchService
	navigator *Navigator
	scheduler Scheduler

	// Delay is the debounce quiet period. Defaults to DefaultDebounce.
	Delay time.Duration

	mu          sync.Mutex
	input       string
	generation  uint64
	cancel      func()
	results     Results
	subscribers map[int]func(Results)
	nextSubID   int
}

// NewSearchController returns a SearchController dispatching to search and
// opening selections through navigator.
func NewSearchController(search prepcat.SearchService, navigator *Navigator, scheduler Scheduler) *SearchController {
	if scheduler == nil {
		scheduler = TimerScheduler{}
	}
	return &SearchController{
		search:      search,
		navigator:   navigator,
		scheduler:   scheduler,
		Delay:       DefaultDebounce,
		subscribers: make(map[int]func(Results)),
	}
}

// Input returns the current raw input.
func (c *SearchController) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Results returns the current results panel.
func (c *SearchController) Results() Results {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results
}

// Subscribe registers fn to receive the results panel after every change.
// The returned function removes the subscription.
func (c *SearchController) Subscribe(fn func(Results)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// SetInput handles a change of the search input.
func (c *SearchController) SetInput(ctx context.Context, text string) {
	c.mu.Lock()
	c.input = text
	gen := c.invalidate()

	q := strings.TrimSpace(text)
	if _, ok := prepcat.NormalizeQuery(q); !ok {
		c.results = Results{State: ResultsHidden, Generation: gen}
		c.unlockAndNotify(gen)
		return
	}

	c.cancel = c.scheduler.Schedule(c.Delay, func() {
		c.dispatch(ctx, gen, q)
	})
	c.mu.Unlock()
}

// Dismiss hides the results panel without touching the input.
func (c *SearchController) Dismiss() {
	c.mu.Lock()
	c.results.State = ResultsHidden
	c.results.Items = nil
	c.unlockAndNotify(c.results.Generation)
}

// Select opens result in the viewer. The input and results are cleared and
// the section shown before the selection becomes the return target.
func (c *SearchController) Select(ctx context.Context, result *prepcat.SearchResult) error {
	c.mu.Lock()
	c.input = ""
	gen := c.invalidate()
	c.results = Results{State: ResultsHidden, Generation: gen}
	c.unlockAndNotify(gen)

	return c.navigator.OpenItem(ctx, result.Item(), c.navigator.CurrentSection())
}

// dispatch runs the search scheduled for generation gen.
func (c *SearchController) dispatch(ctx context.Context, gen uint64, q string) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.cancel = nil
	c.mu.Unlock()

	items, err := c.search.Search(ctx, q)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	switch {
	case err != nil:
		c.results = Results{State: ResultsHidden, Query: q, Err: err, Generation: gen}
	case len(items) == 0:
		c.results = Results{State: ResultsEmpty, Query: q, Generation: gen}
	default:
		c.results = Results{State: ResultsShown, Query: q, Items: items, Generation: gen}
	}
	c.unlockAndNotify(gen)
}

// invalidate cancels any waiting dispatch and starts a new generation.
// Must be called with c.mu held.
func (c *SearchController) invalidate() uint64 {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.generation++
	return c.generation
}

// unlockAndNotify releases c.mu and passes the results to subscribers unless
// a newer input change has already superseded gen.
func (c *SearchController) unlockAndNotify(gen uint64) {
	results := c.results
	subs := make([]func(Results), 0, len(c.subscribers))
	for _, sub := range c.subscribers {
		subs = append(subs, sub)
	}
	stale := gen != c.generation
	c.mu.Unlock()

	if stale {
		return
	}
	for _, sub := range subs {
		sub(results)
	}
}
