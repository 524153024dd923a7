package errors

import (
	"fmt"
	"strings"
)

// Op names the handle operation that failed
type Op string

const (
	OpRead          Op = "read"
	OpWrite         Op = "write"
	OpMutate        Op = "mutate"
	OpBorrow        Op = "borrow"
	OpBorrowMutable Op = "borrow_mutable"
	OpMoveOut       Op = "move_out"
	OpMoveTo        Op = "move_to"
	OpClone         Op = "clone"
	OpClose         Op = "close"
)

// Kind categorizes the ownership violation
type Kind string

const (
	KindNotWritable  Kind = "not_writable"
	KindMutatorHeld  Kind = "already_mutable_borrowed"
	KindNotOwner     Kind = "not_owner"
	KindSameHandle   Kind = "same_handle"
	KindForeignGroup Kind = "foreign_group"
	KindOwnerDropped Kind = "owner_dropped_with_live_borrows"
	KindHandleClosed Kind = "handle_closed"
)

// Sentinels for errors.Is checks. A sentinel carries only a Kind, so it
// matches any error of that kind regardless of the operation.
var (
	ErrNotWritable  = &Error{Kind: KindNotWritable}
	ErrMutatorHeld  = &Error{Kind: KindMutatorHeld}
	ErrNotOwner     = &Error{Kind: KindNotOwner}
	ErrSameHandle   = &Error{Kind: KindSameHandle}
	ErrForeignGroup = &Error{Kind: KindForeignGroup}
	ErrOwnerDropped = &Error{Kind: KindOwnerDropped}
	ErrHandleClosed = &Error{Kind: KindHandleClosed}
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Op     Op
	Kind   Kind
	Group  string
	Handle uint64
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Op != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Op))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Group != "" {
		b.WriteString(" (group ")
		b.WriteString(e.Group)
		if e.Handle != 0 {
			fmt.Fprintf(&b, ", handle %d", e.Handle)
		}
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Kinds must agree; the
// operation is compared only when the target specifies one.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Op != "" && e.Op != t.Op {
			return false
		}
		return e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(op Op, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Op:   op,
			Kind: kind,
		},
	}
}

// Group sets the share-group identifier
func (b *Builder) Group(id string) *Builder {
	b.err.Group = id
	return b
}

// Handle sets the handle sequence number within its group
func (b *Builder) Handle(seq uint64) *Builder {
	b.err.Handle = seq
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the violation kinds

// NotWritable reports a write through a handle that is neither owner nor mutator.
func NotWritable(op Op, group string, handle uint64) *Error {
	return &Error{
		Op:     op,
		Kind:   KindNotWritable,
		Group:  group,
		Handle: handle,
		Detail: "handle is neither owner nor mutator",
	}
}

// MutatorHeld reports a mutable borrow while the group already has a mutator.
func MutatorHeld(group string, handle, mutator uint64) *Error {
	return &Error{
		Op:     OpBorrowMutable,
		Kind:   KindMutatorHeld,
		Group:  group,
		Handle: handle,
		Detail: fmt.Sprintf("mutable access already held by handle %d", mutator),
	}
}

// NotOwner reports an ownership transfer attempted by a non-owner.
func NotOwner(op Op, group string, handle uint64) *Error {
	return &Error{
		Op:     op,
		Kind:   KindNotOwner,
		Group:  group,
		Handle: handle,
		Detail: "handle does not own the value",
	}
}

// SameHandle reports an ownership transfer to the transferring handle itself.
func SameHandle(group string, handle uint64) *Error {
	return &Error{
		Op:     OpMoveTo,
		Kind:   KindSameHandle,
		Group:  group,
		Handle: handle,
		Detail: "cannot transfer ownership to the same handle",
	}
}

// ForeignGroup reports an ownership transfer to a handle outside the group.
func ForeignGroup(group string, handle uint64) *Error {
	return &Error{
		Op:     OpMoveTo,
		Kind:   KindForeignGroup,
		Group:  group,
		Handle: handle,
		Detail: "target handle is not a member of this group",
	}
}

// OwnerDropped reports an owner closed while other members remain.
func OwnerDropped(group string, handle uint64, remaining int) *Error {
	return &Error{
		Op:     OpClose,
		Kind:   KindOwnerDropped,
		Group:  group,
		Handle: handle,
		Detail: fmt.Sprintf("owner closed with %d live member(s)", remaining),
	}
}

// HandleClosed reports an operation on a handle that was already closed.
func HandleClosed(op Op, group string, handle uint64) *Error {
	return &Error{
		Op:     op,
		Kind:   KindHandleClosed,
		Group:  group,
		Handle: handle,
		Detail: "handle is closed",
	}
}
