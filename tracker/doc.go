// Package tracker provides an opt-in diagnostics registry for share groups.
//
// A Tracker consumes handle lifecycle events and maintains per-group
// statistics: member count, the current owner and mutator, and any recorded
// ownership violations. Attach it at group creation:
//
//	tr := tracker.New()
//	a := lifetime.From(15, lifetime.WithObserver[int](tr), lifetime.WithLabel[int]("config"))
//
//	b, _ := a.Borrow()
//	stat, _ := tr.Group(a.GroupID())
//	fmt.Println(stat.Members) // 2
//
// # Deferred Violation Reporting
//
// Owner-dropped violations are returned from Handle.Close, but Close sites
// inside cleanup paths often discard errors. The tracker keeps every
// violation it observes; Violations() and Close() surface them later, so the
// condition is reported even when the original error was dropped.
//
// # Leak Detection
//
// Tracker.Close reports groups that were never released, which makes a
// tracker usable as a test harness fixture:
//
//	tr := tracker.New()
//	defer func() {
//	    if err := tr.Close(); err != nil {
//	        t.Errorf("leaked groups: %v", err)
//	    }
//	}()
//
// There is no process-wide registry: a tracker observes only the groups it
// was explicitly attached to.
package tracker
