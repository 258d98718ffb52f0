package tcp

import (
	"context"
	"net"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/duplexio/netio"
)

// Acceptor listens on a bound address and spawns one Handler per
// accepted connection. Grounded on internal/core/listener.go's
// mutex-guarded closed flag and debounced serve loop, generalized from
// a single fixed-protocol pipe to the spec's per-connection Handler and
// active-handler bookkeeping (spec.md §4.5). Per spec.md §2's control
// flow, the Acceptor never picks framing or a message handler itself:
// it only fires StateChange with a handle the callback uses to call
// StartIO.
type Acceptor struct {
	cfg    config
	ctx    *netio.Context
	logger *zap.Logger

	ln net.Listener

	mu      sync.Mutex
	started bool
	closed  bool
	active  map[uint64]*Handler
	wg      sync.WaitGroup
}

// NewAcceptor binds and listens on addr immediately, applying
// WithReuseAddr before bind when requested and supported by the
// platform.
func NewAcceptor(ctx *netio.Context, addr string, logger *zap.Logger, opts ...Option) (*Acceptor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	lc := net.ListenConfig{}
	if cfg.reuseAddr {
		lc.Control = func(network, address string, c syscall.RawConn) error {
			var setErr error
			if err := c.Control(func(fd uintptr) {
				setErr = setReuseAddr(fd)
			}); err != nil {
				return err
			}
			return setErr
		}
	}
	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return nil, netio.NewTransportError(err)
	}
	return &Acceptor{
		cfg:    cfg,
		ctx:    ctx,
		logger: logger,
		ln:     ln,
		active: make(map[uint64]*Handler),
	}, nil
}

// Addr returns the bound local address.
func (a *Acceptor) Addr() net.Addr {
	return a.ln.Addr()
}

// Start begins accepting connections in a background goroutine. Returns
// false if already started.
func (a *Acceptor) Start() bool {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return false
	}
	a.started = true
	a.mu.Unlock()

	a.wg.Add(1)
	go a.serve()
	return true
}

func (a *Acceptor) serve() {
	defer a.wg.Done()
	for {
		a.mu.Lock()
		if a.closed {
			a.mu.Unlock()
			return
		}
		a.mu.Unlock()

		conn, err := a.ln.Accept()
		if err != nil {
			a.mu.Lock()
			closed := a.closed
			a.mu.Unlock()
			if closed {
				return
			}
			a.logger.Warn("tcp accept error", zap.Error(err))
			time.Sleep(time.Second / 100)
			continue
		}
		a.spawnHandler(conn)
	}
}

func (a *Acceptor) spawnHandler(conn net.Conn) {
	h := NewHandler(a.ctx, conn, a.onTerminate, a.logger)

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		_ = conn.Close()
		return
	}
	a.active[h.ID()] = h
	n := len(a.active)
	a.mu.Unlock()

	if a.cfg.stateChange != nil {
		a.cfg.stateChange(NewIOInterface(h), n, true)
	}
}

// onTerminate is the Handler termination callback: it removes the
// handler from the active set and fires the error/state-change
// callbacks in the order spec.md §5 requires (error precedes the
// false state-change).
func (a *Acceptor) onTerminate(h *Handler, err error) {
	a.mu.Lock()
	delete(a.active, h.ID())
	n := len(a.active)
	a.mu.Unlock()

	if err != nil && a.cfg.errorFn != nil {
		a.cfg.errorFn(NewIOInterface(h), err)
	}
	if a.cfg.stateChange != nil {
		a.cfg.stateChange(NewIOInterface(h), n, false)
	}
}

// NumActive returns the number of currently connected handlers.
func (a *Acceptor) NumActive() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.active)
}

// Stop closes the listener, stops every active handler, and blocks
// until the accept loop and all handlers have finished terminating.
// Returns false if already stopped.
func (a *Acceptor) Stop() bool {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return false
	}
	a.closed = true
	handlers := make([]*Handler, 0, len(a.active))
	for _, h := range a.active {
		handlers = append(handlers, h)
	}
	a.mu.Unlock()

	_ = a.ln.Close()
	a.wg.Wait()

	for _, h := range handlers {
		h.CancelIO()
	}
	a.waitDrained()
	return true
}

func (a *Acceptor) waitDrained() {
	for {
		a.mu.Lock()
		n := len(a.active)
		a.mu.Unlock()
		if n == 0 {
			return
		}
		time.Sleep(time.Millisecond)
	}
}
