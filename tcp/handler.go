// Package tcp implements the TCP I/O handler, acceptor, and connector.
package tcp

import (
	"bufio"
	"errors"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/duplexio/netio"
	"github.com/duplexio/netio/framing"
)

type state int32

const (
	stateCreated state = iota
	stateStarted
	stateStopping
	stateStopped
)

// Handler owns one connected TCP socket and runs the read/write state
// machine described in spec.md §4.3. Grounded on the teacher's
// connpipe.go (net.Conn-backed read/write) and internal/core/pipe.go
// (id + closed-guarded lifecycle), generalized from a fixed SP handshake
// framing to the spec's pluggable Framer.
type Handler struct {
	netio.HandleBase

	conn   net.Conn
	peer   netio.Endpoint
	queue  *netio.OutputQueue
	ctx    *netio.Context
	logger *zap.Logger

	stateMu      sync.Mutex
	st           state
	stopErr      error
	stopGraceful bool

	writeMu sync.Mutex
	writing bool

	framer framing.Framer
	msgFn  netio.MessageHandler

	finalizeOnce sync.Once
	onTerminate  func(h *Handler, err error)
}

// NewHandler wraps an already-connected net.Conn. onTerminate is invoked
// exactly once, when the handler's lifecycle ends for any reason; the
// supervisor uses it to fire its error and state-change callbacks.
func NewHandler(ctx *netio.Context, conn net.Conn, onTerminate func(h *Handler, err error), logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		HandleBase:  netio.NewHandleBase(),
		conn:        conn,
		peer:        netio.NewEndpoint(conn.RemoteAddr()),
		queue:       netio.NewOutputQueue(),
		ctx:         ctx,
		logger:      logger,
		onTerminate: onTerminate,
	}
	logger.Info("handler created", zap.Uint64("handler_id", h.ID()), zap.String("peer", h.peer.String()))
	return h
}

// Peer returns the remote endpoint, constant for the life of the handler.
func (h *Handler) Peer() netio.Endpoint {
	return h.peer
}

// Conn exposes the underlying socket, mirroring io_interface::get_socket.
func (h *Handler) Conn() net.Conn {
	return h.conn
}

// OutputQueueStats returns a snapshot of the pending-write queue.
func (h *Handler) OutputQueueStats() netio.QueueStats {
	return h.queue.Stats()
}

func (h *Handler) state() state {
	h.stateMu.Lock()
	defer h.stateMu.Unlock()
	return h.st
}

// IsIOStarted reports whether StartIO has been called and the handler
// has not yet fully stopped.
func (h *Handler) IsIOStarted() bool {
	s := h.state()
	return s == stateStarted || s == stateStopping
}

// StartIO installs the framing strategy and message handler and begins
// the read loop. Returns false on any call after the first.
func (h *Handler) StartIO(framer framing.Framer, msgFn netio.MessageHandler) bool {
	h.stateMu.Lock()
	if h.st != stateCreated {
		h.stateMu.Unlock()
		return false
	}
	h.st = stateStarted
	h.framer = framer
	h.msgFn = msgFn
	h.stateMu.Unlock()

	h.ctx.Spawn(h.readLoop)
	return true
}

func (h *Handler) readLoop() {
	br := bufio.NewReader(h.conn)
	for {
		frame, err := h.framer.ReadFrame(br)
		if err != nil {
			if errors.Is(err, netio.ErrFramingBufferOverflow) {
				h.logger.Warn("framing overflow", zap.Uint64("handler_id", h.ID()), zap.Error(err))
				h.beginStop(false, err)
				return
			}
			h.beginStop(false, netio.ClassifyIOError(err))
			return
		}
		keepGoing := true
		io := NewIOInterface(h)
		h.ctx.PostWait(func() {
			keepGoing = h.msgFn(netio.NewConstBuf(frame), io, h.peer)
		})
		if !keepGoing {
			h.beginStop(true, netio.ErrMessageHandlerTerminated)
			return
		}
	}
}

// Send enqueues buf for write and kicks the write pump if idle. Returns
// false if the handler is not started.
func (h *Handler) Send(buf netio.ConstBuf) bool {
	if h.Closed() {
		return false
	}
	if !h.IsIOStarted() {
		return false
	}
	h.queue.Enqueue(buf)
	h.kickWriter()
	return true
}

func (h *Handler) kickWriter() {
	h.writeMu.Lock()
	if h.writing {
		h.writeMu.Unlock()
		return
	}
	h.writing = true
	h.writeMu.Unlock()
	h.ctx.Spawn(h.drainWrites)
}

func (h *Handler) drainWrites() {
	for {
		buf, _, ok := h.queue.TryPop()
		if !ok {
			h.writeMu.Lock()
			h.writing = false
			h.writeMu.Unlock()
			// A concurrent Send may have enqueued after TryPop saw
			// empty but before writing flipped false; recheck once.
			if h.queue.Stats().Size > 0 {
				h.kickWriter()
			} else {
				h.maybeFinalizeAfterDrain()
			}
			return
		}
		if _, err := h.conn.Write(buf.Data()); err != nil {
			h.writeMu.Lock()
			h.writing = false
			h.writeMu.Unlock()
			h.beginStop(false, netio.ClassifyIOError(err))
			return
		}
	}
}

func (h *Handler) maybeFinalizeAfterDrain() {
	if h.state() == stateStopping {
		h.finalize()
	}
}

// StopIO idempotently transitions the handler to Stopped: cancels the
// read loop, drains pending writes, closes the socket. Returns true iff
// it effected the transition.
func (h *Handler) StopIO() bool {
	return h.beginStop(true, nil)
}

// CancelIO is StopIO's supervisor-initiated variant: it still drains
// pending writes gracefully, but reports netio.ErrIOCancelled to the
// owning supervisor's error callback rather than no error at all,
// matching spec.md §8 Scenario F.
func (h *Handler) CancelIO() bool {
	return h.beginStop(true, netio.ErrIOCancelled)
}

// beginStop moves the handler into Stopping (once) and, if nothing is
// draining, finalizes immediately. graceful selects drain-then-close
// (user stop / message handler returning false) versus discard-then-close
// (transport or framing errors).
func (h *Handler) beginStop(graceful bool, err error) bool {
	h.stateMu.Lock()
	if h.st == stateStopped || h.st == stateStopping {
		h.stateMu.Unlock()
		return false
	}
	h.st = stateStopping
	h.stopGraceful = graceful
	h.stopErr = err
	h.stateMu.Unlock()

	if !graceful {
		h.queue.Clear()
		h.finalize()
		return true
	}

	h.writeMu.Lock()
	writing := h.writing
	h.writeMu.Unlock()
	if !writing && h.queue.Stats().Size == 0 {
		h.finalize()
	}
	return true
}

func (h *Handler) finalize() {
	h.finalizeOnce.Do(func() {
		h.stateMu.Lock()
		h.st = stateStopped
		err := h.stopErr
		h.stateMu.Unlock()

		_ = h.conn.Close()
		h.MarkClosed()
		h.logger.Info("handler stopped", zap.Uint64("handler_id", h.ID()), zap.Error(err))
		if h.onTerminate != nil {
			h.onTerminate(h, err)
		}
	})
}
