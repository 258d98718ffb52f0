package netio

import "go.uber.org/atomic"

var nextHandlerID atomic.Uint64

// HandleBase is embedded into every handler's control block. It gives
// the handler a process-unique identity plus the closed flag that every
// IOInterface operation consults before delegating — this is netio's
// answer to the source library's weak_ptr-over-shared_ptr pattern
// (see DESIGN.md), grounded on the teacher's own id-allocated,
// closed-guarded pipe (internal/core/pipe.go).
type HandleBase struct {
	id     uint64
	closed atomic.Bool
}

// NewHandleBase allocates a fresh, process-unique handle identity.
func NewHandleBase() HandleBase {
	return HandleBase{id: nextHandlerID.Add(1)}
}

// ID returns the process-unique identity of the underlying handler.
func (h *HandleBase) ID() uint64 {
	return h.id
}

// Closed reports whether the handler has torn down.
func (h *HandleBase) Closed() bool {
	return h.closed.Load()
}

// MarkClosed flips the handler to torn-down. Idempotent.
func (h *HandleBase) MarkClosed() {
	h.closed.Store(true)
}

// CompareHandles implements the ordering every IOInterface flavor shares:
// an invalid handle sorts strictly less than any valid one; among valid
// handles, ordering is by underlying handler identity. It returns a
// negative number, zero, or a positive number as a < b, a == b, or a > b.
func CompareHandles(aValid bool, aID uint64, bValid bool, bID uint64) int {
	if aValid != bValid {
		if !aValid {
			return -1
		}
		return 1
	}
	if !aValid {
		return 0 // both invalid
	}
	switch {
	case aID < bID:
		return -1
	case aID > bID:
		return 1
	default:
		return 0
	}
}
