package mock

import (
	"sync"
	"time"

	"github.com/fwojciec/prepcat/browse"
)

var _ browse.Scheduler = (*Scheduler)(nil)

// Scheduler is a manually driven browse.Scheduler.
// Scheduled tasks run only when Fire is called.
type Scheduler struct {
	mu    sync.Mutex
	tasks []*task
}

type task struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

func (s *Scheduler) Schedule(delay time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &task{delay: delay, fn: fn}
	s.tasks = append(s.tasks, t)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		t.cancelled = true
	}
}

// Pending returns the number of scheduled tasks not yet run or cancelled.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// LastDelay returns the delay of the most recently scheduled task.
func (s *Scheduler) LastDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tasks) == 0 {
		return 0
	}
	return s.tasks[len(s.tasks)-1].delay
}

// Fire runs every pending task in scheduling order, as if their delays had
// elapsed. Returns the number of tasks run.
func (s *Scheduler) Fire() int {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	n := 0
	for _, t := range tasks {
		s.mu.Lock()
		cancelled := t.cancelled
		s.mu.Unlock()
		if cancelled {
			continue
		}
		t.fn()
		n++
	}
	return n
}
