package lifetime

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/borrowlab/lifetime/errors"
)

// Handle is a membership token into exactly one share group. New handles are
// obtained only through From, Borrow, BorrowMutable, MoveOut, and Clone;
// handles must not be copied by assignment.
//
// Handle identity is pointer identity. All methods are safe for concurrent
// use by handles of the same group.
type Handle[T any] struct {
	g      *group[T]
	seq    uint64
	closed bool // guarded by g.mu
}

// From creates a fresh handle owning a new share group around v.
func From[T any](v T, opts ...Option[T]) *Handle[T] {
	g := newGroup(v)
	for _, opt := range opts {
		opt(g)
	}
	h := g.joinLocked()
	g.owner = h

	g.emit(EventCreated, h.seq)
	Logger().Debug("group created",
		zap.String("group", g.id.String()),
		zap.String("label", g.label),
	)
	return h
}

// Read returns the current value. Any member may read; readers observe the
// last committed write.
func (h *Handle[T]) Read() (T, error) {
	h.g.mu.RLock()
	defer h.g.mu.RUnlock()

	if h.closed {
		var zero T
		return zero, errors.HandleClosed(errors.OpRead, h.g.id.String(), h.seq)
	}
	return h.g.value, nil
}

// Write replaces the value. The caller must be the group's owner or its
// current mutator.
func (h *Handle[T]) Write(v T) error {
	g := h.g
	g.mu.Lock()
	defer g.mu.Unlock()

	if h.closed {
		return errors.HandleClosed(errors.OpWrite, g.id.String(), h.seq)
	}
	if g.owner != h && g.mutator != h {
		return errors.NotWritable(errors.OpWrite, g.id.String(), h.seq)
	}
	g.value = v
	return nil
}

// Mutate runs fn with exclusive access to the value. The group lock is held
// for the duration of the callback, so fn must not operate on handles of the
// same group. Writability rules are the same as for Write.
func (h *Handle[T]) Mutate(fn func(*T)) error {
	g := h.g
	g.mu.Lock()
	defer g.mu.Unlock()

	if h.closed {
		return errors.HandleClosed(errors.OpMutate, g.id.String(), h.seq)
	}
	if g.owner != h && g.mutator != h {
		return errors.NotWritable(errors.OpMutate, g.id.String(), h.seq)
	}
	fn(&g.value)
	return nil
}

// Borrow creates a new shared (non-mutable) handle in the same group.
func (h *Handle[T]) Borrow() (*Handle[T], error) {
	g := h.g
	g.mu.Lock()
	if h.closed {
		g.mu.Unlock()
		return nil, errors.HandleClosed(errors.OpBorrow, g.id.String(), h.seq)
	}
	nh := g.joinLocked()
	g.mu.Unlock()

	g.emit(EventBorrowed, nh.seq)
	return nh, nil
}

// BorrowMutable creates a new handle in the same group holding the group's
// single mutable-borrow slot. It fails while another mutator is alive.
func (h *Handle[T]) BorrowMutable() (*Handle[T], error) {
	g := h.g
	g.mu.Lock()
	if h.closed {
		g.mu.Unlock()
		return nil, errors.HandleClosed(errors.OpBorrowMutable, g.id.String(), h.seq)
	}
	if g.mutator != nil {
		held := g.mutator.seq
		g.mu.Unlock()
		return nil, errors.MutatorHeld(g.id.String(), h.seq, held)
	}
	nh := g.joinLocked()
	g.mutator = nh
	g.mu.Unlock()

	g.emit(EventBorrowed, nh.seq)
	g.emit(EventMutatorAcquired, nh.seq)
	return nh, nil
}

// MoveOut transfers ownership to a new handle in the same group. The caller
// remains a member but loses write rights; a mutable-borrow slot held by the
// caller is released.
func (h *Handle[T]) MoveOut() (*Handle[T], error) {
	g := h.g
	g.mu.Lock()
	if h.closed {
		g.mu.Unlock()
		return nil, errors.HandleClosed(errors.OpMoveOut, g.id.String(), h.seq)
	}
	if g.owner != h {
		g.mu.Unlock()
		return nil, errors.NotOwner(errors.OpMoveOut, g.id.String(), h.seq)
	}
	nh := g.joinLocked()
	g.owner = nh
	released := false
	if g.mutator == h {
		g.mutator = nil
		released = true
	}
	g.mu.Unlock()

	g.emit(EventBorrowed, nh.seq)
	if released {
		g.emit(EventMutatorReleased, h.seq)
	}
	g.emit(EventOwnerMoved, nh.seq)
	return nh, nil
}

// MoveTo transfers ownership to other, which must already be a member of the
// caller's group. The caller remains a member but loses write rights; a
// mutable-borrow slot held by the caller is released.
func (h *Handle[T]) MoveTo(other *Handle[T]) error {
	g := h.g
	g.mu.Lock()
	if h.closed {
		g.mu.Unlock()
		return errors.HandleClosed(errors.OpMoveTo, g.id.String(), h.seq)
	}
	if g.owner != h {
		g.mu.Unlock()
		return errors.NotOwner(errors.OpMoveTo, g.id.String(), h.seq)
	}
	if other == h {
		g.mu.Unlock()
		return errors.SameHandle(g.id.String(), h.seq)
	}
	if _, ok := g.members[other]; !ok {
		g.mu.Unlock()
		return errors.ForeignGroup(g.id.String(), h.seq)
	}
	g.owner = other
	released := false
	if g.mutator == h {
		g.mutator = nil
		released = true
	}
	g.mu.Unlock()

	if released {
		g.emit(EventMutatorReleased, h.seq)
	}
	g.emit(EventOwnerMoved, other.seq)
	return nil
}

// Clone copies the value into a new, independent share group and returns its
// owner. Writes on either side stay invisible to the other. The label,
// observers, and clone function carry over to the new group.
func (h *Handle[T]) Clone() (*Handle[T], error) {
	g := h.g
	g.mu.RLock()
	if h.closed {
		g.mu.RUnlock()
		return nil, errors.HandleClosed(errors.OpClone, g.id.String(), h.seq)
	}
	v := g.value
	if g.cloneFn != nil {
		v = g.cloneFn(v)
	}
	label, observers, cloneFn := g.label, g.observers, g.cloneFn
	g.mu.RUnlock()

	ng := newGroup(v)
	ng.label = label
	ng.observers = observers
	ng.cloneFn = cloneFn
	nh := ng.joinLocked()
	ng.owner = nh

	ng.emit(EventCreated, nh.seq)
	Logger().Debug("group cloned",
		zap.String("from", g.id.String()),
		zap.String("group", ng.id.String()),
		zap.String("label", label),
	)
	return nh, nil
}

// Close destroys the handle and removes it from its group. Closing the last
// member releases the group and its value. Closing the owner while other
// members remain returns an owner-dropped error; the exiting handle is still
// removed and the survivors keep a consistent, read-only group. Close is
// idempotent.
func (h *Handle[T]) Close() error {
	g := h.g
	g.mu.Lock()
	if h.closed {
		g.mu.Unlock()
		return nil
	}
	h.closed = true
	delete(g.members, h)

	releasedMutator := false
	if g.mutator == h {
		g.mutator = nil
		releasedMutator = true
	}

	var err error
	violation := false
	if g.owner == h {
		g.owner = nil
		if len(g.members) > 0 {
			violation = true
			err = errors.OwnerDropped(g.id.String(), h.seq, len(g.members))
		}
	}
	teardown := len(g.members) == 0
	g.mu.Unlock()

	if releasedMutator {
		g.emit(EventMutatorReleased, h.seq)
	}
	if violation {
		g.emit(EventDropViolation, h.seq)
		Logger().Warn("owner closed with live borrows",
			zap.String("group", g.id.String()),
			zap.String("label", g.label),
			zap.Uint64("handle", h.seq),
		)
	}
	g.emit(EventHandleClosed, h.seq)
	if teardown {
		g.release()
		g.emit(EventTeardown, h.seq)
	}
	return err
}

// IsOwner reports whether the handle currently owns the group's value.
func (h *Handle[T]) IsOwner() bool {
	h.g.mu.RLock()
	defer h.g.mu.RUnlock()
	return !h.closed && h.g.owner == h
}

// IsMutator reports whether the handle holds the group's mutable-borrow slot.
func (h *Handle[T]) IsMutator() bool {
	h.g.mu.RLock()
	defer h.g.mu.RUnlock()
	return !h.closed && h.g.mutator == h
}

// GroupID returns the identifier of the handle's share group.
func (h *Handle[T]) GroupID() uuid.UUID {
	return h.g.id
}

// Seq returns the handle's sequence number within its group. Sequence
// numbers start at 1 and are never reused.
func (h *Handle[T]) Seq() uint64 {
	return h.seq
}

// Label returns the group's label, if any.
func (h *Handle[T]) Label() string {
	return h.g.label
}

// Peers returns the number of live handles in the group, including this one.
// A closed handle reports zero.
func (h *Handle[T]) Peers() int {
	h.g.mu.RLock()
	defer h.g.mu.RUnlock()
	if h.closed {
		return 0
	}
	return len(h.g.members)
}
