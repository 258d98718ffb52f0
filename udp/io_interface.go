package udp

import (
	"net"

	"github.com/duplexio/netio"
)

// IOInterface is a lightweight, copyable handle onto a Handler, safe to
// call after the handler has terminated (spec.md §9's weak-handle
// contract): every method degrades to a zero value or false instead of
// panicking.
type IOInterface struct {
	h *Handler
}

// NewIOInterface wraps h.
func NewIOInterface(h *Handler) IOInterface {
	return IOInterface{h: h}
}

// IsValid reports whether the underlying handler still exists and has
// not been closed.
func (io IOInterface) IsValid() bool {
	return io.h != nil && !io.h.Closed()
}

// IsIOStarted reports whether StartIO has been called and the handler
// has not been stopped. Fails with netio.ErrInvalidHandle if the handle
// is invalid.
func (io IOInterface) IsIOStarted() (bool, error) {
	if !io.IsValid() {
		return false, netio.ErrInvalidHandle
	}
	return io.h.IsIOStarted(), nil
}

// GetSocket returns the underlying *net.UDPConn. Fails with
// netio.ErrInvalidHandle if the handle is invalid.
func (io IOInterface) GetSocket() (*net.UDPConn, error) {
	if !io.IsValid() {
		return nil, netio.ErrInvalidHandle
	}
	return io.h.Conn(), nil
}

// OutputQueueStats returns a snapshot of pending writes. Fails with
// netio.ErrInvalidHandle if the handle is invalid.
func (io IOInterface) OutputQueueStats() (netio.QueueStats, error) {
	if !io.IsValid() {
		return netio.QueueStats{}, netio.ErrInvalidHandle
	}
	return io.h.OutputQueueStats(), nil
}

// StartIO transitions the handler to Started and, if msgFn is non-nil,
// begins delivering received datagrams to it. maxSize bounds the
// receive buffer (<= 0 uses MaxDatagram). A nil msgFn is the send-only
// variant (spec.md §4.4's `start_io()` / `start_io(default_remote)`):
// no read loop is spawned. Returns false if the handle is invalid or IO
// was already started.
func (io IOInterface) StartIO(maxSize int, msgFn netio.MessageHandler) bool {
	if !io.IsValid() {
		return false
	}
	return io.h.StartIO(maxSize, msgFn)
}

// Send enqueues buf for the handler's default destination (its bound
// remote address). Returns false if invalid, not started, or unbound.
func (io IOInterface) Send(buf netio.ConstBuf) bool {
	if !io.IsValid() {
		return false
	}
	return io.h.Send(buf)
}

// SendTo enqueues buf addressed to addr, ignoring any bound-remote
// default.
func (io IOInterface) SendTo(buf netio.ConstBuf, addr *net.UDPAddr) bool {
	if !io.IsValid() {
		return false
	}
	return io.h.SendTo(buf, addr)
}

// StopIO requests the handler stop, discarding queued writes.
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
// before all valid ones.
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
