package tcp

import (
	"net"

	"github.com/duplexio/netio"
	"github.com/duplexio/netio/framing"
)

// IOInterface is a lightweight, copyable handle onto a Handler. It never
// owns the handler's lifetime: once the handler terminates, every method
// keeps working but reports the closed/invalid state rather than
// blocking or panicking, matching spec.md §9's weak-handle contract.
type IOInterface struct {
	h *Handler
}

// NewIOInterface wraps h. Exported for use by acceptor and connector
// supervisors constructing handles to hand to callbacks.
func NewIOInterface(h *Handler) IOInterface {
	return IOInterface{h: h}
}

// IsValid reports whether the underlying handler still exists and has
// not been closed.
func (io IOInterface) IsValid() bool {
	return io.h != nil && !io.h.Closed()
}

// IsIOStarted reports whether StartIO has been called and the handler
// has not fully stopped. Fails with netio.ErrInvalidHandle if the
// handle is invalid.
func (io IOInterface) IsIOStarted() (bool, error) {
	if !io.IsValid() {
		return false, netio.ErrInvalidHandle
	}
	return io.h.IsIOStarted(), nil
}

// GetSocket returns the underlying net.Conn. Fails with
// netio.ErrInvalidHandle if the handle is invalid.
func (io IOInterface) GetSocket() (net.Conn, error) {
	if !io.IsValid() {
		return nil, netio.ErrInvalidHandle
	}
	return io.h.Conn(), nil
}

// Peer returns the remote endpoint, or the zero Endpoint if invalid.
func (io IOInterface) Peer() netio.Endpoint {
	if !io.IsValid() {
		return netio.Endpoint{}
	}
	return io.h.Peer()
}

// OutputQueueStats returns a snapshot of pending writes. Fails with
// netio.ErrInvalidHandle if the handle is invalid.
func (io IOInterface) OutputQueueStats() (netio.QueueStats, error) {
	if !io.IsValid() {
		return netio.QueueStats{}, netio.ErrInvalidHandle
	}
	return io.h.OutputQueueStats(), nil
}

// StartIO installs framer and msgFn and begins the read loop, per
// spec.md §2's control flow: the user calls this from inside the
// state-change-created callback to pick framing and a message handler
// per connection. Returns false if the handle is invalid or IO was
// already started.
func (io IOInterface) StartIO(framer framing.Framer, msgFn netio.MessageHandler) bool {
	if !io.IsValid() {
		return false
	}
	return io.h.StartIO(framer, msgFn)
}

// Send enqueues buf for write. Returns false if the handle is invalid or
// not started.
func (io IOInterface) Send(buf netio.ConstBuf) bool {
	if !io.IsValid() {
		return false
	}
	return io.h.Send(buf)
}

// StopIO requests a graceful close, draining queued writes first.
func (io IOInterface) StopIO() bool {
	if !io.IsValid() {
		return false
	}
	return io.h.StopIO()
}

// Equal reports whether two handles refer to the same handler.
func (io IOInterface) Equal(other IOInterface) bool {
	return netio.CompareHandles(io.IsValid(), io.id(), other.IsValid(), other.id()) == 0
}

// Less imposes a strict weak ordering with invalid handles sorting
// before all valid ones, matching io_interface::operator< in the
// original component design.
func (io IOInterface) Less(other IOInterface) bool {
	return netio.CompareHandles(io.IsValid(), io.id(), other.IsValid(), other.id()) < 0
}

// ID returns the process-unique identity backing this handle, or 0 if
// the handle wraps no handler.
func (io IOInterface) ID() uint64 {
	return io.id()
}

func (io IOInterface) id() uint64 {
	if io.h == nil {
		return 0
	}
	return io.h.ID()
}
