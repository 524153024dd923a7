package lifetime

import "github.com/google/uuid"

// EventType identifies a handle lifecycle event.
type EventType uint8

const (
	// EventCreated fires when a new group is created by From or Clone.
	EventCreated EventType = iota
	// EventBorrowed fires when a new member joins an existing group.
	EventBorrowed
	// EventMutatorAcquired fires when a handle takes the mutable-borrow slot.
	EventMutatorAcquired
	// EventMutatorReleased fires when the mutable-borrow slot is freed.
	EventMutatorReleased
	// EventOwnerMoved fires when ownership transfers to another member.
	EventOwnerMoved
	// EventHandleClosed fires when a member leaves the group.
	EventHandleClosed
	// EventTeardown fires when the last member leaves and the group is released.
	EventTeardown
	// EventDropViolation fires when the owner closes while members remain.
	EventDropViolation
)

var eventNames = [...]string{
	"created",
	"borrowed",
	"mutator_acquired",
	"mutator_released",
	"owner_moved",
	"handle_closed",
	"teardown",
	"drop_violation",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event describes a lifecycle transition in a share group.
//
// Handle carries the sequence number of the handle the event is about: the
// new member for EventBorrowed, the new owner for EventOwnerMoved, the
// closing handle for EventHandleClosed and EventDropViolation.
type Event struct {
	Label  string
	Group  uuid.UUID
	Handle uint64
	Type   EventType
}

// Observer receives notifications about handle lifecycle events.
//
// Observers are invoked after the group lock is released, so they may call
// back into the group. They must be safe for concurrent use when handles of
// the observed group are shared across goroutines.
type Observer interface {
	OnHandleEvent(Event)
}

// Dropper is optionally implemented by values that need cleanup when the
// last handle of their group is closed.
type Dropper interface {
	Drop()
}
