// Package lifetime provides runtime-checked ownership and borrowing for a
// single heap-allocated value.
//
// A Handle wraps a value together with bookkeeping that tracks, at runtime,
// which handle owns the value, which handle (if any) holds exclusive mutable
// access, and the set of all live handles sharing the value. Violations of
// the ownership discipline are detected when they happen and reported as
// structured errors rather than enforced at compile time.
//
// # Architecture Overview
//
// The library is organized into a small set of packages:
//
//	lifetime/            Root package with Handle, group bookkeeping, and lifecycle events
//	├── errors/          Structured error types for ownership violations
//	├── tracker/         Optional diagnostics registry built on lifecycle events
//	├── cmd/demo/        Scenario runner and interactive TUI inspector
//	└── examples/        Small runnable programs
//
// # Share Groups
//
// Every handle belongs to exactly one share group: the set of handles that
// refer to the same value and the same bookkeeping record. A group is created
// by From and grows through Borrow, BorrowMutable, and MoveOut. Clone is the
// exception: it copies the value into a brand-new, independent group.
//
//	a := lifetime.From(15)      // new group, a is the owner
//	b, _ := a.Borrow()          // same group, shared access
//	m, _ := a.BorrowMutable()   // same group, exclusive mutable access
//	c, _ := a.Clone()           // new group with a copy of the value
//
// # Ownership and Mutability
//
// A handle may write the value iff it is the group's owner or its current
// mutator. There is at most one mutator at a time; a second BorrowMutable
// fails until the first mutator handle is closed. Ownership moves between
// members of the same group with MoveOut and MoveTo; the previous owner
// loses write rights.
//
// # Destruction
//
// Handles are destroyed explicitly with Close. Closing the last member of a
// group releases the group and its value (calling Drop if the value
// implements Dropper). Closing the owner while other members are still alive
// is a violation: Close returns an owner-dropped error, emits a
// drop-violation event, and leaves the surviving members in a consistent
// group.
//
// # Observability
//
// Lifecycle events (creation, borrows, moves, closes, teardown, violations)
// can be observed per group via the WithObserver option; the tracker package
// turns them into queryable per-group statistics. Logging uses zap with a
// no-op default; see SetLogger.
package lifetime
