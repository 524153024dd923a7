package lifetime

import (
	"errors"
	"testing"

	lterrors "github.com/borrowlab/lifetime/errors"
)

func TestFrom_OwnerCanWrite(t *testing.T) {
	a := From(15)
	defer a.Close()

	if !a.IsOwner() {
		t.Fatal("fresh handle must own its group")
	}
	if a.IsMutator() {
		t.Fatal("fresh handle must not hold the mutable-borrow slot")
	}

	if err := a.Write(20); err != nil {
		t.Fatalf("owner Write failed: %v", err)
	}
	v, err := a.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if v != 20 {
		t.Fatalf("Read = %d, want 20", v)
	}
}

func TestBorrow_SharedRead(t *testing.T) {
	a := From("hello")
	defer a.Close()

	b, err := a.Borrow()
	if err != nil {
		t.Fatalf("Borrow failed: %v", err)
	}
	defer b.Close()

	av, _ := a.Read()
	bv, _ := b.Read()
	if av != bv {
		t.Fatalf("borrow read %q, owner read %q", bv, av)
	}

	if err := a.Write("world"); err != nil {
		t.Fatalf("owner Write failed: %v", err)
	}
	bv, _ = b.Read()
	if bv != "world" {
		t.Fatalf("borrow read %q after owner write, want %q", bv, "world")
	}

	// Shared borrows have no write rights.
	if err := b.Write("nope"); !errors.Is(err, lterrors.ErrNotWritable) {
		t.Fatalf("borrow Write = %v, want not_writable", err)
	}
	if a.GroupID() != b.GroupID() {
		t.Fatal("borrow must stay in the owner's group")
	}
}

func TestClone_Independence(t *testing.T) {
	a := From(15)
	defer a.Close()

	b, err := a.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	defer b.Close()

	if !b.IsOwner() {
		t.Fatal("clone must own its new group")
	}
	if a.GroupID() == b.GroupID() {
		t.Fatal("clone must live in an independent group")
	}

	if err := a.Write(99); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	bv, _ := b.Read()
	if bv != 15 {
		t.Fatalf("clone read %d after source write, want 15", bv)
	}
	av, _ := a.Read()
	if av != 99 {
		t.Fatalf("source read %d, want 99", av)
	}

	if err := b.Write(7); err != nil {
		t.Fatalf("clone Write failed: %v", err)
	}
	av, _ = a.Read()
	if av != 99 {
		t.Fatal("clone write leaked into the source group")
	}
}

func TestClone_DeepCopy(t *testing.T) {
	a := From([]int{1, 2, 3}, WithCloneFunc(func(v []int) []int {
		out := make([]int, len(v))
		copy(out, v)
		return out
	}))
	defer a.Close()

	c, err := a.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	defer c.Close()

	if err := a.Mutate(func(v *[]int) { (*v)[0] = 42 }); err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	cv, _ := c.Read()
	if cv[0] != 1 {
		t.Fatalf("clone observed source mutation: %v", cv)
	}
}

func TestBorrowMutable_GrantsWrites(t *testing.T) {
	a := From(1)
	defer a.Close()

	m, err := a.BorrowMutable()
	if err != nil {
		t.Fatalf("BorrowMutable failed: %v", err)
	}

	if !m.IsMutator() {
		t.Fatal("mutable borrow must hold the slot")
	}
	if a.IsMutator() {
		t.Fatal("owner must not hold the slot")
	}
	if m.IsOwner() {
		t.Fatal("mutable borrow must not own the value")
	}

	if err := m.Write(7); err != nil {
		t.Fatalf("mutator Write failed: %v", err)
	}
	av, _ := a.Read()
	if av != 7 {
		t.Fatalf("owner read %d after mutator write, want 7", av)
	}

	// The owner stays writable alongside the mutator.
	if err := a.Write(8); err != nil {
		t.Fatalf("owner Write failed while mutator alive: %v", err)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("mutator Close failed: %v", err)
	}
}

func TestBorrowMutable_SecondRejected(t *testing.T) {
	a := From(1)
	defer a.Close()

	m, err := a.BorrowMutable()
	if err != nil {
		t.Fatalf("first BorrowMutable failed: %v", err)
	}

	if _, err := a.BorrowMutable(); !errors.Is(err, lterrors.ErrMutatorHeld) {
		t.Fatalf("second BorrowMutable = %v, want already_mutable_borrowed", err)
	}
	// Requesting through the mutator itself is rejected the same way.
	if _, err := m.BorrowMutable(); !errors.Is(err, lterrors.ErrMutatorHeld) {
		t.Fatalf("BorrowMutable via mutator = %v, want already_mutable_borrowed", err)
	}

	// Releasing the slot makes a new mutable borrow possible.
	if err := m.Close(); err != nil {
		t.Fatalf("mutator Close failed: %v", err)
	}
	m2, err := a.BorrowMutable()
	if err != nil {
		t.Fatalf("BorrowMutable after release failed: %v", err)
	}
	m2.Close()
}

func TestMoveOut_StripsPriorOwner(t *testing.T) {
	a := From(1)

	b, err := a.MoveOut()
	if err != nil {
		t.Fatalf("MoveOut failed: %v", err)
	}

	if !b.IsOwner() {
		t.Fatal("moved-out handle must be the owner")
	}
	if a.IsOwner() {
		t.Fatal("prior owner must lose ownership")
	}
	if a.GroupID() != b.GroupID() {
		t.Fatal("MoveOut must stay within the group")
	}

	if err := a.Write(2); !errors.Is(err, lterrors.ErrNotWritable) {
		t.Fatalf("prior owner Write = %v, want not_writable", err)
	}
	if err := b.Write(2); err != nil {
		t.Fatalf("new owner Write failed: %v", err)
	}

	// Prior owner is still a member and may read.
	av, err := a.Read()
	if err != nil {
		t.Fatalf("prior owner Read failed: %v", err)
	}
	if av != 2 {
		t.Fatalf("prior owner read %d, want 2", av)
	}

	if _, err := a.MoveOut(); !errors.Is(err, lterrors.ErrNotOwner) {
		t.Fatalf("MoveOut by non-owner = %v, want not_owner", err)
	}

	a.Close()
	b.Close()
}

func TestMoveTo(t *testing.T) {
	t.Run("transfers within the group", func(t *testing.T) {
		a := From(1)
		b, _ := a.Borrow()

		if err := a.MoveTo(b); err != nil {
			t.Fatalf("MoveTo failed: %v", err)
		}
		if !b.IsOwner() || a.IsOwner() {
			t.Fatal("ownership did not transfer")
		}
		if err := b.Write(5); err != nil {
			t.Fatalf("new owner Write failed: %v", err)
		}
		a.Close()
		b.Close()
	})

	t.Run("rejects non-owner", func(t *testing.T) {
		a := From(1)
		b, _ := a.Borrow()
		defer a.Close()

		if err := b.MoveTo(a); !errors.Is(err, lterrors.ErrNotOwner) {
			t.Fatalf("MoveTo = %v, want not_owner", err)
		}
		b.Close()
	})

	t.Run("rejects self", func(t *testing.T) {
		a := From(1)
		defer a.Close()

		if err := a.MoveTo(a); !errors.Is(err, lterrors.ErrSameHandle) {
			t.Fatalf("MoveTo(self) = %v, want same_handle", err)
		}
	})

	t.Run("rejects foreign group", func(t *testing.T) {
		a := From(1)
		x := From(2)
		defer a.Close()
		defer x.Close()

		if err := a.MoveTo(x); !errors.Is(err, lterrors.ErrForeignGroup) {
			t.Fatalf("MoveTo(foreign) = %v, want foreign_group", err)
		}
	})

	t.Run("rejects closed member", func(t *testing.T) {
		a := From(1)
		defer a.Close()
		b, _ := a.Borrow()
		b.Close()

		if err := a.MoveTo(b); !errors.Is(err, lterrors.ErrForeignGroup) {
			t.Fatalf("MoveTo(closed) = %v, want foreign_group", err)
		}
	})

	t.Run("clears mutator slot held by the mover", func(t *testing.T) {
		a := From(1)
		m, _ := a.BorrowMutable()

		// Make the mutator the owner, then move ownership away from it.
		if err := a.MoveTo(m); err != nil {
			t.Fatalf("MoveTo failed: %v", err)
		}
		if !m.IsOwner() || !m.IsMutator() {
			t.Fatal("expected m to hold both roles")
		}
		if err := m.MoveTo(a); err != nil {
			t.Fatalf("MoveTo failed: %v", err)
		}
		if m.IsMutator() {
			t.Fatal("mutator slot must be cleared when its holder moves ownership away")
		}

		// The slot is free again.
		m2, err := a.BorrowMutable()
		if err != nil {
			t.Fatalf("BorrowMutable after slot clear failed: %v", err)
		}
		m2.Close()
		m.Close()
		a.Close()
	})
}

func TestClose_OwnerWithLiveBorrow(t *testing.T) {
	t.Run("owner first is a violation", func(t *testing.T) {
		a := From(1)
		b, _ := a.Borrow()

		err := a.Close()
		if !errors.Is(err, lterrors.ErrOwnerDropped) {
			t.Fatalf("owner Close = %v, want owner_dropped_with_live_borrows", err)
		}

		// The survivor keeps a consistent, readable group.
		v, err := b.Read()
		if err != nil {
			t.Fatalf("survivor Read failed: %v", err)
		}
		if v != 1 {
			t.Fatalf("survivor read %d, want 1", v)
		}
		if err := b.Write(2); !errors.Is(err, lterrors.ErrNotWritable) {
			t.Fatalf("survivor Write = %v, want not_writable", err)
		}
		if err := b.Close(); err != nil {
			t.Fatalf("survivor Close failed: %v", err)
		}
	})

	t.Run("borrow first then owner is clean", func(t *testing.T) {
		a := From(1)
		b, _ := a.Borrow()

		if err := b.Close(); err != nil {
			t.Fatalf("borrow Close failed: %v", err)
		}
		if err := a.Close(); err != nil {
			t.Fatalf("owner Close failed: %v", err)
		}
	})
}

func TestClosedHandle_Operations(t *testing.T) {
	a := From(1)
	b, _ := a.Borrow()
	b.Close()

	if _, err := b.Read(); !errors.Is(err, lterrors.ErrHandleClosed) {
		t.Fatalf("Read on closed = %v, want handle_closed", err)
	}
	if err := b.Write(2); !errors.Is(err, lterrors.ErrHandleClosed) {
		t.Fatalf("Write on closed = %v, want handle_closed", err)
	}
	if err := b.Mutate(func(*int) {}); !errors.Is(err, lterrors.ErrHandleClosed) {
		t.Fatalf("Mutate on closed = %v, want handle_closed", err)
	}
	if _, err := b.Borrow(); !errors.Is(err, lterrors.ErrHandleClosed) {
		t.Fatalf("Borrow on closed = %v, want handle_closed", err)
	}
	if _, err := b.BorrowMutable(); !errors.Is(err, lterrors.ErrHandleClosed) {
		t.Fatalf("BorrowMutable on closed = %v, want handle_closed", err)
	}
	if _, err := b.MoveOut(); !errors.Is(err, lterrors.ErrHandleClosed) {
		t.Fatalf("MoveOut on closed = %v, want handle_closed", err)
	}
	if err := b.MoveTo(a); !errors.Is(err, lterrors.ErrHandleClosed) {
		t.Fatalf("MoveTo on closed = %v, want handle_closed", err)
	}
	if _, err := b.Clone(); !errors.Is(err, lterrors.ErrHandleClosed) {
		t.Fatalf("Clone on closed = %v, want handle_closed", err)
	}
	if b.IsOwner() || b.IsMutator() {
		t.Fatal("closed handle must report no roles")
	}
	if b.Peers() != 0 {
		t.Fatalf("closed handle Peers = %d, want 0", b.Peers())
	}

	// Close is idempotent.
	if err := b.Close(); err != nil {
		t.Fatalf("second Close = %v, want nil", err)
	}

	a.Close()
}

func TestMutate_RequiresWriteRights(t *testing.T) {
	a := From(10)
	defer a.Close()
	b, _ := a.Borrow()
	defer b.Close()

	if err := a.Mutate(func(v *int) { *v += 5 }); err != nil {
		t.Fatalf("owner Mutate failed: %v", err)
	}
	v, _ := a.Read()
	if v != 15 {
		t.Fatalf("Read = %d after Mutate, want 15", v)
	}

	if err := b.Mutate(func(v *int) { *v = 0 }); !errors.Is(err, lterrors.ErrNotWritable) {
		t.Fatalf("borrow Mutate = %v, want not_writable", err)
	}
}

func TestPeers(t *testing.T) {
	a := From(1)
	if a.Peers() != 1 {
		t.Fatalf("Peers = %d, want 1", a.Peers())
	}
	b, _ := a.Borrow()
	m, _ := a.BorrowMutable()
	if a.Peers() != 3 {
		t.Fatalf("Peers = %d, want 3", a.Peers())
	}
	m.Close()
	b.Close()
	if a.Peers() != 1 {
		t.Fatalf("Peers = %d after closes, want 1", a.Peers())
	}
	a.Close()
}
