package lifetime

import (
	"sync"
	"testing"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) OnHandleEvent(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func sameTypes(got, want []EventType) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestEvents_BorrowLifecycle(t *testing.T) {
	rec := &eventRecorder{}
	a := From(1, WithObserver[int](rec))

	b, _ := a.Borrow()
	m, _ := a.BorrowMutable()
	m.Close()
	b.Close()
	a.Close()

	want := []EventType{
		EventCreated,
		EventBorrowed,
		EventBorrowed,
		EventMutatorAcquired,
		EventMutatorReleased,
		EventHandleClosed, // m
		EventHandleClosed, // b
		EventHandleClosed, // a
		EventTeardown,
	}
	if got := rec.types(); !sameTypes(got, want) {
		t.Fatalf("event sequence = %v, want %v", got, want)
	}
}

func TestEvents_MoveLifecycle(t *testing.T) {
	rec := &eventRecorder{}
	a := From(1, WithObserver[int](rec))

	b, _ := a.MoveOut()
	if err := a.Close(); err != nil {
		t.Fatalf("non-owner Close failed: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("last-member Close failed: %v", err)
	}

	want := []EventType{
		EventCreated,
		EventBorrowed,   // MoveOut joins a new member
		EventOwnerMoved, // then rotates ownership
		EventHandleClosed,
		EventHandleClosed,
		EventTeardown,
	}
	if got := rec.types(); !sameTypes(got, want) {
		t.Fatalf("event sequence = %v, want %v", got, want)
	}
}

func TestEvents_DropViolation(t *testing.T) {
	rec := &eventRecorder{}
	a := From(1, WithObserver[int](rec))
	b, _ := a.Borrow()

	if err := a.Close(); err == nil {
		t.Fatal("expected owner-dropped error")
	}
	b.Close()

	want := []EventType{
		EventCreated,
		EventBorrowed,
		EventDropViolation,
		EventHandleClosed,
		EventHandleClosed,
		EventTeardown,
	}
	if got := rec.types(); !sameTypes(got, want) {
		t.Fatalf("event sequence = %v, want %v", got, want)
	}

	// The violation event points at the closing owner.
	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, e := range rec.events {
		if e.Type == EventDropViolation && e.Handle != a.Seq() {
			t.Fatalf("violation handle = %d, want %d", e.Handle, a.Seq())
		}
	}
}

func TestEvents_CloneInheritsObserver(t *testing.T) {
	rec := &eventRecorder{}
	a := From(1, WithObserver[int](rec), WithLabel[int]("src"))
	defer a.Close()

	c, _ := a.Clone()
	defer c.Close()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 2 {
		t.Fatalf("events = %d, want 2", len(rec.events))
	}
	created := rec.events[1]
	if created.Type != EventCreated {
		t.Fatalf("second event = %v, want created", created.Type)
	}
	if created.Group == a.GroupID() {
		t.Fatal("clone's created event must carry the new group id")
	}
	if created.Label != "src" {
		t.Fatalf("clone label = %q, want %q", created.Label, "src")
	}
}

func TestEventType_String(t *testing.T) {
	if EventCreated.String() != "created" {
		t.Fatalf("EventCreated = %q", EventCreated.String())
	}
	if EventDropViolation.String() != "drop_violation" {
		t.Fatalf("EventDropViolation = %q", EventDropViolation.String())
	}
	if EventType(200).String() != "unknown" {
		t.Fatal("out-of-range event type must stringify as unknown")
	}
}
