package tracker

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/borrowlab/lifetime"
)

// GroupStat is a point-in-time view of one share group.
type GroupStat struct {
	ID         uuid.UUID
	Label      string
	Members    int
	Owner      uint64 // handle seq; 0 when the owner slot is empty
	Mutator    uint64 // handle seq; 0 when no mutable borrow is held
	Events     int
	Violations int
	Released   bool
}

// Live reports whether the group still has members.
func (s GroupStat) Live() bool {
	return !s.Released
}

// Tracker aggregates handle lifecycle events into per-group statistics.
//
// It implements lifetime.Observer; attach it to a group with
// lifetime.WithObserver(tr). A tracker only sees the groups it was attached
// to — there is no process-wide registry.
type Tracker struct {
	groups     map[uuid.UUID]*GroupStat
	violations []lifetime.Event
	mu         sync.RWMutex
	closed     bool

	observers []lifetime.Observer
	obsMu     sync.RWMutex
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{
		groups: make(map[uuid.UUID]*GroupStat),
	}
}

// OnHandleEvent records a lifecycle event and fans it out to subscribers.
func (t *Tracker) OnHandleEvent(e lifetime.Event) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	s := t.groups[e.Group]
	if s == nil {
		s = &GroupStat{ID: e.Group, Label: e.Label}
		t.groups[e.Group] = s
	}
	s.Events++
	switch e.Type {
	case lifetime.EventCreated:
		s.Members = 1
		s.Owner = e.Handle
	case lifetime.EventBorrowed:
		s.Members++
	case lifetime.EventMutatorAcquired:
		s.Mutator = e.Handle
	case lifetime.EventMutatorReleased:
		s.Mutator = 0
	case lifetime.EventOwnerMoved:
		s.Owner = e.Handle
	case lifetime.EventHandleClosed:
		if s.Members > 0 {
			s.Members--
		}
	case lifetime.EventDropViolation:
		s.Owner = 0
		s.Violations++
		t.violations = append(t.violations, e)
	case lifetime.EventTeardown:
		s.Released = true
	}
	t.mu.Unlock()

	t.notify(e)
}

// Group returns the statistics for a single group.
func (t *Tracker) Group(id uuid.UUID) (GroupStat, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.groups[id]
	if !ok {
		return GroupStat{}, false
	}
	return *s, true
}

// Len returns the number of live (not yet released) groups.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	count := 0
	for _, s := range t.groups {
		if !s.Released {
			count++
		}
	}
	return count
}

// Each iterates over all observed groups, released ones included.
func (t *Tracker) Each(fn func(GroupStat) bool) {
	for _, s := range t.Snapshot() {
		if !fn(s) {
			break
		}
	}
}

// Snapshot returns a copy of all group statistics, ordered by label then id.
func (t *Tracker) Snapshot() []GroupStat {
	t.mu.RLock()
	out := make([]GroupStat, 0, len(t.groups))
	for _, s := range t.groups {
		out = append(out, *s)
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Violations returns the drop-violation events recorded so far. This is the
// deferred reporting channel for owner-dropped errors that were not handled
// at the Close call site.
func (t *Tracker) Violations() []lifetime.Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]lifetime.Event, len(t.violations))
	copy(out, t.violations)
	return out
}

// Subscribe adds a downstream observer for raw lifecycle events.
func (t *Tracker) Subscribe(o lifetime.Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes a downstream observer.
func (t *Tracker) Unsubscribe(o lifetime.Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Close stops recording and reports anything left outstanding: groups that
// were never released and violations that were recorded. The combined error
// is assembled with multierr; a clean tracker closes with nil.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	live := make([]*GroupStat, 0, len(t.groups))
	for _, s := range t.groups {
		if !s.Released {
			live = append(live, s)
		}
	}
	sort.Slice(live, func(i, j int) bool { return live[i].ID.String() < live[j].ID.String() })

	var err error
	for _, s := range live {
		err = multierr.Append(err, fmt.Errorf("group %s (%q) still live with %d member(s)", s.ID, s.Label, s.Members))
	}
	for _, e := range t.violations {
		err = multierr.Append(err, fmt.Errorf("group %s (%q): owner handle %d closed with live borrows", e.Group, e.Label, e.Handle))
	}
	return err
}

func (t *Tracker) notify(e lifetime.Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnHandleEvent(e)
	}
}
