// Package udp implements the datagram-oriented I/O handler and its
// NetEntity supervisor.
package udp

import (
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/duplexio/netio"
)

// MaxDatagram is the largest UDP datagram this package will read into a
// single buffer. Grounded on the teacher's udpMaxBuf constant
// (transport/udp/udp.go), sized for the theoretical IPv4/IPv6 ceiling
// rather than any particular MTU.
const MaxDatagram = 1 << 16

type state int32

const (
	stateCreated state = iota
	stateStarted
	stateStopped
)

// Handler owns one *net.UDPConn and delivers each inbound datagram as a
// single message; there is no framing strategy since a datagram already
// carries its own boundary. If boundRemote is set, both the default
// send target and the receive filter are pinned to that address (the
// spec's bound-remote variant, spec.md §4.4); otherwise every Send call
// must supply an explicit destination via SendTo and every received
// datagram, from any source, is delivered.
type Handler struct {
	netio.HandleBase

	conn        *net.UDPConn
	boundRemote *net.UDPAddr
	queue       *netio.OutputQueue
	ctx         *netio.Context
	logger      *zap.Logger

	stateMu sync.Mutex
	st      state
	maxSize int

	writeMu sync.Mutex
	writing bool

	msgFn netio.MessageHandler

	finalizeOnce sync.Once
	onTerminate  func(h *Handler, err error)
}

// NewHandler wraps conn. boundRemote may be nil for an unconnected
// entity that sends to and receives from arbitrary peers.
func NewHandler(ctx *netio.Context, conn *net.UDPConn, boundRemote *net.UDPAddr, onTerminate func(h *Handler, err error), logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		HandleBase:  netio.NewHandleBase(),
		conn:        conn,
		boundRemote: boundRemote,
		queue:       netio.NewOutputQueue(),
		ctx:         ctx,
		logger:      logger,
		onTerminate: onTerminate,
	}
	logger.Info("handler created", zap.Uint64("handler_id", h.ID()), zap.String("local", conn.LocalAddr().String()))
	return h
}

// Conn exposes the underlying socket.
func (h *Handler) Conn() *net.UDPConn {
	return h.conn
}

// BoundRemote returns the pinned remote address, or nil if unbound.
func (h *Handler) BoundRemote() *net.UDPAddr {
	return h.boundRemote
}

// OutputQueueStats returns a snapshot of pending writes.
func (h *Handler) OutputQueueStats() netio.QueueStats {
	return h.queue.Stats()
}

func (h *Handler) state() state {
	h.stateMu.Lock()
	defer h.stateMu.Unlock()
	return h.st
}

// IsIOStarted reports whether StartIO has been called and the handler
// has not been stopped.
func (h *Handler) IsIOStarted() bool {
	return h.state() == stateStarted
}

// StartIO transitions Created -> Started. maxSize <= 0 uses MaxDatagram.
// msgFn may be nil for the send-only variants (spec.md §4.4's
// `start_io()` / `start_io(default_remote)`): no read loop is spawned
// and the socket is write-only from then on. Returns false on any call
// after the first.
func (h *Handler) StartIO(maxSize int, msgFn netio.MessageHandler) bool {
	h.stateMu.Lock()
	if h.st != stateCreated {
		h.stateMu.Unlock()
		return false
	}
	if maxSize <= 0 {
		maxSize = MaxDatagram
	}
	h.st = stateStarted
	h.msgFn = msgFn
	h.maxSize = maxSize
	h.stateMu.Unlock()

	if msgFn != nil {
		h.ctx.Spawn(h.readLoop)
	}
	return true
}

func (h *Handler) readLoop() {
	buf := make([]byte, h.maxSize)
	for {
		n, from, err := h.conn.ReadFromUDP(buf)
		if err != nil {
			h.beginStop(netio.ClassifyIOError(err))
			return
		}
		if h.boundRemote != nil && !addrEqual(from, h.boundRemote) {
			continue
		}
		frame := make([]byte, n)
		copy(frame, buf[:n])

		keepGoing := true
		io := NewIOInterface(h)
		peer := netio.NewEndpoint(from)
		h.ctx.PostWait(func() {
			keepGoing = h.msgFn(netio.NewConstBuf(frame), io, peer)
		})
		if !keepGoing {
			h.beginStop(netio.ErrMessageHandlerTerminated)
			return
		}
	}
}

func addrEqual(a, b *net.UDPAddr) bool {
	return a.IP.Equal(b.IP) && a.Port == b.Port
}

// Send enqueues buf for the pinned remote address. Fails if the handler
// is unbound; use SendTo for an explicit destination.
func (h *Handler) Send(buf netio.ConstBuf) bool {
	if h.boundRemote == nil {
		return false
	}
	return h.SendTo(buf, h.boundRemote)
}

// SendTo enqueues buf addressed to addr. Returns false if the handler is
// not started.
func (h *Handler) SendTo(buf netio.ConstBuf, addr *net.UDPAddr) bool {
	if h.Closed() || h.state() != stateStarted {
		return false
	}
	h.queue.EnqueueTo(buf, addr)
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
		buf, addr, ok := h.queue.TryPop()
		if !ok {
			h.writeMu.Lock()
			h.writing = false
			h.writeMu.Unlock()
			if h.queue.Stats().Size > 0 {
				h.kickWriter()
			}
			return
		}
		var err error
		if udpAddr, ok := addr.(*net.UDPAddr); ok {
			_, err = h.conn.WriteToUDP(buf.Data(), udpAddr)
		} else {
			_, err = h.conn.Write(buf.Data())
		}
		if err != nil {
			h.writeMu.Lock()
			h.writing = false
			h.writeMu.Unlock()
			h.beginStop(netio.ClassifyIOError(err))
			return
		}
	}
}

// StopIO idempotently stops the handler, discarding any queued writes.
func (h *Handler) StopIO() bool {
	return h.beginStop(nil)
}

func (h *Handler) beginStop(err error) bool {
	h.stateMu.Lock()
	if h.st == stateStopped {
		h.stateMu.Unlock()
		return false
	}
	h.st = stateStopped
	h.stateMu.Unlock()

	h.queue.Clear()
	h.finalize(err)
	return true
}

func (h *Handler) finalize(err error) {
	h.finalizeOnce.Do(func() {
		_ = h.conn.Close()
		h.MarkClosed()
		h.logger.Info("handler stopped", zap.Uint64("handler_id", h.ID()), zap.Error(err))
		if h.onTerminate != nil {
			h.onTerminate(h, err)
		}
	})
}
