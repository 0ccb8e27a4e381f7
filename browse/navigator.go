package browse

import (
	"context"
	"sync"

	"github.com/fwojciec/prepcat"
)

// State is a snapshot of the navigation state.
type State struct {
	Section      prepcat.Section
	ReturnTarget prepcat.Section

	// Presentation context for the detail and viewer sections.
	Subject *prepcat.Subject
	Year    *prepcat.ExamYear
	Viewing *prepcat.Item
}

// Navigator tracks the visible section and where the viewer returns to.
//
// The return target is a single slot: every open of the viewer overwrites it
// and Back goes to whatever it holds. There is no history stack.
type Navigator struct {
	catalog prepcat.CatalogService
	views   prepcat.ViewService

	mu          sync.Mutex
	state       State
	subscribers map[int]func(State)
	nextSubID   int
}

// NewNavigator returns a Navigator on the home section. Until the viewer is
// first opened, Back from the viewer leads to the subjects listing.
func NewNavigator(catalog prepcat.CatalogService, views prepcat.ViewService) *Navigator {
	return &Navigator{
		catalog: catalog,
		views:   views,
		state: State{
			Section:      prepcat.SectionHome,
			ReturnTarget: prepcat.SectionSubjects,
		},
		subscribers: make(map[int]func(State)),
	}
}

// State returns a snapshot of the current state.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// CurrentSection returns the visible section.
func (n *Navigator) CurrentSection() prepcat.Section {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.Section
}

// ReturnTarget returns the section Back leads to from the viewer.
func (n *Navigator) ReturnTarget() prepcat.Section {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.ReturnTarget
}

// Subscribe registers fn to receive the state after every transition.
// Subscribers are called outside the lock and may query the Navigator.
// The returned function removes the subscription.
func (n *Navigator) Subscribe(fn func(State)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextSubID
	n.nextSubID++
	n.subscribers[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subscribers, id)
	}
}

// GoTo shows section. Any section may follow any other.
// Returns EINVALID for an unknown section and leaves the state unchanged.
func (n *Navigator) GoTo(section prepcat.Section) error {
	if !section.Valid() {
		return prepcat.Errorf(prepcat.EINVALID, "unknown section %q", section)
	}
	n.update(func(s *State) bool {
		s.Section = section
		return true
	})
	return nil
}

// SetReturnTarget sets where Back from the viewer leads.
func (n *Navigator) SetReturnTarget(section prepcat.Section) error {
	if !section.Valid() {
		return prepcat.Errorf(prepcat.EINVALID, "unknown section %q", section)
	}
	n.mu.Lock()
	n.state.ReturnTarget = section
	n.mu.Unlock()
	return nil
}

// Back leaves the viewer for the current return target. Outside the viewer
// it does nothing and reports false.
func (n *Navigator) Back() bool {
	return n.update(func(s *State) bool {
		if s.Section != prepcat.SectionViewer {
			return false
		}
		s.Section = s.ReturnTarget
		return true
	})
}

// OpenSubject shows the topics of the subject identified by slug.
// An unknown slug is a no-op and reports false.
func (n *Navigator) OpenSubject(ctx context.Context, slug string) (bool, error) {
	subject, err := n.catalog.FindSubjectBySlug(ctx, slug)
	if prepcat.ErrorCode(err) == prepcat.ENOTFOUND {
		return false, nil
	} else if err != nil {
		return false, err
	}

	n.update(func(s *State) bool {
		s.Subject = subject
		s.Section = prepcat.SectionSubjectDetail
		return true
	})
	return true, nil
}

// OpenYear shows the papers of an exam year.
// An unknown year is a no-op and reports false.
func (n *Navigator) OpenYear(ctx context.Context, year int) (bool, error) {
	y, err := n.catalog.FindExamYear(ctx, year)
	if prepcat.ErrorCode(err) == prepcat.ENOTFOUND {
		return false, nil
	} else if err != nil {
		return false, err
	}

	n.update(func(s *State) bool {
		s.Year = y
		s.Section = prepcat.SectionYearDetail
		return true
	})
	return true, nil
}

// OpenTopic opens a topic of the subject shown by OpenSubject.
// Back returns to the subject. An id outside the subject is a no-op.
func (n *Navigator) OpenTopic(ctx context.Context, id string) (bool, error) {
	subject := n.State().Subject
	if subject == nil {
		return false, nil
	}
	for _, t := range subject.Topics {
		if t.ID == id {
			return true, n.OpenItem(ctx, t.Item(), prepcat.SectionSubjectDetail)
		}
	}
	return false, nil
}

// OpenPaper opens a paper of the year shown by OpenYear.
// Back returns to the year. An id outside the year is a no-op.
func (n *Navigator) OpenPaper(ctx context.Context, id string) (bool, error) {
	year := n.State().Year
	if year == nil {
		return false, nil
	}
	for _, p := range year.Papers {
		if p.ID == id {
			return true, n.OpenItem(ctx, p.Item(), prepcat.SectionYearDetail)
		}
	}
	return false, nil
}

// OpenItem shows item in the viewer, remembering from as the return target,
// and records a view of the item.
//
// Opening from the viewer itself keeps the existing return target so that
// Back still leaves the viewer.
//
// The transition happens even if recording the view fails; the recording
// error is returned for the caller to report.
func (n *Navigator) OpenItem(ctx context.Context, item prepcat.Item, from prepcat.Section) error {
	if !from.Valid() {
		return prepcat.Errorf(prepcat.EINVALID, "unknown section %q", from)
	}

	n.update(func(s *State) bool {
		if from != prepcat.SectionViewer {
			s.ReturnTarget = from
		}
		s.Viewing = &item
		s.Section = prepcat.SectionViewer
		return true
	})

	if item.ID == "" || n.views == nil {
		return nil
	}
	_, err := n.views.RecordView(ctx, item.ID)
	return err
}

// update applies fn under the state lock, then notifies subscribers if fn
// reports a change.
func (n *Navigator) update(fn func(*State) bool) bool {
	n.mu.Lock()
	if !fn(&n.state) {
		n.mu.Unlock()
		return false
	}
	snapshot := n.state
	subs := make([]func(State), 0, len(n.subscribers))
	for _, sub := range n.subscribers {
		subs = append(subs, sub)
	}
	n.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
	return true
}
