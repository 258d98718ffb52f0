package netio

import "testing"

func TestHandleBaseIdentity(t *testing.T) {
	a := NewHandleBase()
	b := NewHandleBase()
	if a.ID() == b.ID() {
		t.Fatal("two fresh HandleBase values share an ID")
	}
	if a.Closed() {
		t.Fatal("fresh HandleBase reports Closed()")
	}
	a.MarkClosed()
	if !a.Closed() {
		t.Fatal("MarkClosed() did not stick")
	}
}

func TestCompareHandles(t *testing.T) {
	if CompareHandles(false, 0, true, 5) >= 0 {
		t.Fatal("invalid handle should sort before valid handle")
	}
	if CompareHandles(true, 5, false, 0) <= 0 {
		t.Fatal("valid handle should sort after invalid handle")
	}
	if CompareHandles(false, 0, false, 0) != 0 {
		t.Fatal("two invalid handles should compare equal")
	}
	if CompareHandles(true, 1, true, 2) >= 0 {
		t.Fatal("lower id should sort first among valid handles")
	}
	if CompareHandles(true, 3, true, 3) != 0 {
		t.Fatal("equal ids should compare equal")
	}
}
