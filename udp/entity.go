package udp

import (
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/duplexio/netio"
)

// NetEntity supervises a single UDP socket. Unlike TCP's Acceptor,
// which fans out one Handler per accepted connection, a UDP socket is
// inherently one handler for its whole lifetime (spec.md §4.4); this
// type exists to give that handler the same start/stop and callback
// bookkeeping the TCP supervisors provide. Per spec.md §2's control
// flow, the NetEntity never picks a max datagram size or message
// handler itself: it only fires StateChange with a handle the callback
// uses to call StartIO.
type NetEntity struct {
	cfg    config
	ctx    *netio.Context
	logger *zap.Logger

	mu      sync.Mutex
	started bool
	h       *Handler
}

// NewNetEntity binds a UDP socket at localAddr. If remoteAddr is
// non-nil, the resulting handler is bound-remote: it defaults every
// Send to remoteAddr and drops datagrams from any other source.
func NewNetEntity(ctx *netio.Context, localAddr string, remoteAddr *net.UDPAddr, logger *zap.Logger, opts ...Option) (*NetEntity, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	laddr, err := net.ResolveUDPAddr("udp", localAddr)
	if err != nil {
		return nil, netio.NewTransportError(err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, netio.NewTransportError(err)
	}
	return &NetEntity{
		cfg:    cfg,
		ctx:    ctx,
		logger: logger,
		h:      NewHandler(ctx, conn, remoteAddr, nil, logger),
	}, nil
}

// LocalAddr returns the bound local address.
func (e *NetEntity) LocalAddr() net.Addr {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.h.Conn().LocalAddr()
}

// Handle returns a handle onto the entity's handler.
func (e *NetEntity) Handle() IOInterface {
	e.mu.Lock()
	defer e.mu.Unlock()
	return NewIOInterface(e.h)
}

// Start fires StateChange with a handle onto the entity's handler. The
// callback calls StartIO on that handle to pick a max datagram size and
// message handler (or none, for a send-only entity), per spec.md §2's
// control flow. Returns false if already started.
func (e *NetEntity) Start() bool {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return false
	}
	e.started = true
	h := e.h
	e.mu.Unlock()

	h.onTerminate = e.onTerminate
	if e.cfg.stateChange != nil {
		e.cfg.stateChange(NewIOInterface(h), 1, true)
	}
	return true
}

func (e *NetEntity) onTerminate(h *Handler, err error) {
	if err != nil && e.cfg.errorFn != nil {
		e.cfg.errorFn(NewIOInterface(h), err)
	}
	if e.cfg.stateChange != nil {
		e.cfg.stateChange(NewIOInterface(h), 0, false)
	}
}

// Stop closes the socket and cancels the read loop. Returns false if
// already stopped.
func (e *NetEntity) Stop() bool {
	e.mu.Lock()
	h := e.h
	e.mu.Unlock()
	return h.StopIO()
}
