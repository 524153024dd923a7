package lifetime

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// group is the shared bookkeeping record behind a share group. Every member
// handle points at the same group; the group never outlives its last member.
//
// A single lock guards both the value and the bookkeeping. Members reference
// the group, never each other.
type group[T any] struct {
	mu      sync.RWMutex
	value   T
	owner   *Handle[T] // nil only after an owner-dropped violation
	mutator *Handle[T] // nil when no mutable borrow is held
	members map[*Handle[T]]struct{}
	nextSeq uint64

	// fixed at group creation
	id        uuid.UUID
	label     string
	observers []Observer
	cloneFn   func(T) T
}

func newGroup[T any](v T) *group[T] {
	return &group[T]{
		value:   v,
		members: make(map[*Handle[T]]struct{}),
		id:      uuid.New(),
	}
}

// joinLocked creates a new member handle. Callers hold g.mu, except during
// group construction when no other handle can observe the group yet.
func (g *group[T]) joinLocked() *Handle[T] {
	g.nextSeq++
	h := &Handle[T]{g: g, seq: g.nextSeq}
	g.members[h] = struct{}{}
	return h
}

// emit delivers an event to the group's observers. Called after g.mu is
// released so observers may call back into the group.
func (g *group[T]) emit(t EventType, seq uint64) {
	if len(g.observers) == 0 {
		return
	}
	e := Event{
		Group:  g.id,
		Label:  g.label,
		Handle: seq,
		Type:   t,
	}
	for _, o := range g.observers {
		o.OnHandleEvent(e)
	}
}

// release runs value cleanup once the member set is empty.
func (g *group[T]) release() {
	if d, ok := any(g.value).(Dropper); ok {
		d.Drop()
	}
	Logger().Debug("group released",
		zap.String("group", g.id.String()),
		zap.String("label", g.label),
	)
}
