package main

import (
	"errors"
	"fmt"

	"github.com/borrowlab/lifetime"
	lterrors "github.com/borrowlab/lifetime/errors"
	"github.com/borrowlab/lifetime/tracker"
)

// scenario is a self-contained demonstration of one ownership rule.
type scenario struct {
	name string
	desc string
	run  func(tr *tracker.Tracker, report func(format string, args ...any)) error
}

var scenarios = []scenario{
	{
		name: "mutate",
		desc: "the owner writes and reads back",
		run:  runMutate,
	},
	{
		name: "clone",
		desc: "a clone is an independent copy",
		run:  runClone,
	},
	{
		name: "mutable-borrow",
		desc: "a mutable borrow grants writes to a non-owner",
		run:  runMutableBorrow,
	},
	{
		name: "double-mutable-borrow",
		desc: "a second mutable borrow is rejected",
		run:  runDoubleMutableBorrow,
	},
	{
		name: "move",
		desc: "moving ownership strips the previous owner",
		run:  runMove,
	},
	{
		name: "owner-drop",
		desc: "closing the owner with live borrows is reported",
		run:  runOwnerDrop,
	},
}

func findScenario(name string) (scenario, bool) {
	for _, s := range scenarios {
		if s.name == name {
			return s, true
		}
	}
	return scenario{}, false
}

func runMutate(tr *tracker.Tracker, report func(string, ...any)) error {
	a := lifetime.From(15, lifetime.WithObserver[int](tr), lifetime.WithLabel[int]("mutate"))
	defer a.Close()
	report("created group %s with value 15", a.GroupID())

	if err := a.Write(20); err != nil {
		return err
	}
	v, err := a.Read()
	if err != nil {
		return err
	}
	report("owner wrote 20, read back %d, is_owner=%t", v, a.IsOwner())
	return nil
}

func runClone(tr *tracker.Tracker, report func(string, ...any)) error {
	a := lifetime.From(15, lifetime.WithObserver[int](tr), lifetime.WithLabel[int]("clone-src"))
	defer a.Close()

	b, err := a.Clone()
	if err != nil {
		return err
	}
	defer b.Close()
	report("cloned %s into new group %s", a.GroupID(), b.GroupID())

	if err := a.Write(99); err != nil {
		return err
	}
	av, _ := a.Read()
	bv, _ := b.Read()
	report("after writing 99 through the source: source=%d clone=%d", av, bv)
	return nil
}

func runMutableBorrow(tr *tracker.Tracker, report func(string, ...any)) error {
	a := lifetime.From(1, lifetime.WithObserver[int](tr), lifetime.WithLabel[int]("mut-borrow"))
	defer a.Close()

	m, err := a.BorrowMutable()
	if err != nil {
		return err
	}
	report("mutable borrow %d acquired the slot (owner keeps its role)", m.Seq())

	if err := m.Write(7); err != nil {
		return err
	}
	v, _ := a.Read()
	report("mutator wrote 7, owner reads %d; owner is_mutator=%t, borrow is_mutator=%t",
		v, a.IsMutator(), m.IsMutator())

	if err := m.Close(); err != nil {
		return err
	}
	report("mutator closed, slot released")
	return nil
}

func runDoubleMutableBorrow(tr *tracker.Tracker, report func(string, ...any)) error {
	a := lifetime.From(1, lifetime.WithObserver[int](tr), lifetime.WithLabel[int]("double-mut"))
	defer a.Close()

	m, err := a.BorrowMutable()
	if err != nil {
		return err
	}
	defer m.Close()
	report("first mutable borrow %d succeeded", m.Seq())

	_, err = a.BorrowMutable()
	if !errors.Is(err, lterrors.ErrMutatorHeld) {
		return fmt.Errorf("expected already_mutable_borrowed, got %v", err)
	}
	report("second mutable borrow rejected: %v", err)
	return nil
}

func runMove(tr *tracker.Tracker, report func(string, ...any)) error {
	a := lifetime.From(1, lifetime.WithObserver[int](tr), lifetime.WithLabel[int]("move"))

	b, err := a.MoveOut()
	if err != nil {
		return err
	}
	report("ownership moved from handle %d to handle %d", a.Seq(), b.Seq())
	report("a.is_owner=%t b.is_owner=%t", a.IsOwner(), b.IsOwner())

	if err := a.Write(2); !errors.Is(err, lterrors.ErrNotWritable) {
		return fmt.Errorf("expected not_writable for the prior owner, got %v", err)
	}
	report("write through the prior owner rejected: not_writable")

	if err := b.Write(2); err != nil {
		return err
	}
	report("write through the new owner succeeded")

	a.Close()
	return b.Close()
}

func runOwnerDrop(tr *tracker.Tracker, report func(string, ...any)) error {
	a := lifetime.From(1, lifetime.WithObserver[int](tr), lifetime.WithLabel[int]("owner-drop"))
	b, err := a.Borrow()
	if err != nil {
		return err
	}
	report("borrow %d is alive in group %s", b.Seq(), b.GroupID())

	err = a.Close()
	if !errors.Is(err, lterrors.ErrOwnerDropped) {
		return fmt.Errorf("expected owner_dropped_with_live_borrows, got %v", err)
	}
	report("closing the owner reported: %v", err)

	v, _ := b.Read()
	report("survivor still reads %d; closing it releases the group", v)
	return b.Close()
}
