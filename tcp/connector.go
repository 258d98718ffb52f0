package tcp

import (
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/duplexio/netio"
)

// Connector repeatedly dials a remote address, running one Handler per
// live connection and redialing with doubling backoff after each
// disconnect when configured with WithReconnect. Grounded directly on
// core.go's dialer type: the closeq cancellation channel, the
// reset-on-success / double-on-failure backoff, and a select against
// both a local cancellation source (Stop()) and the current
// connection's termination. Per spec.md §2's control flow, the Connector
// never picks framing or a message handler itself: it only fires
// StateChange with a handle the callback uses to call StartIO.
type Connector struct {
	cfg    config
	ctx    *netio.Context
	addr   string
	logger *zap.Logger
	retry  bool

	mu      sync.Mutex
	dialing bool
	closed  bool
	closeq  chan struct{}
	cur     *Handler
	wg      sync.WaitGroup
}

// NewConnector prepares a connector for addr without dialing yet. With
// no WithReconnect option, the connector dials once: a failed dial or a
// dropped connection ends the dial loop rather than retrying, per
// spec.md §4.7's default of no retry. WithReconnect(min, max) enables
// doubling backoff, max defaulting to 10s if given as zero.
func NewConnector(ctx *netio.Context, addr string, logger *zap.Logger, opts ...Option) *Connector {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	retry := cfg.reconnectMin > 0
	if retry && cfg.reconnectMax <= 0 {
		cfg.reconnectMax = 10 * time.Second
	}
	return &Connector{cfg: cfg, ctx: ctx, addr: addr, logger: logger, retry: retry}
}

// Start begins dialing in the background. Returns false if already
// dialing.
func (c *Connector) Start() bool {
	c.mu.Lock()
	if c.dialing {
		c.mu.Unlock()
		return false
	}
	c.dialing = true
	c.closed = false
	c.closeq = make(chan struct{})
	c.mu.Unlock()

	c.wg.Add(1)
	go c.dial()
	return true
}

func (c *Connector) dial() {
	defer c.wg.Done()
	rtime := c.cfg.reconnectMin
	for {
		c.mu.Lock()
		closeq := c.closeq
		c.mu.Unlock()

		conn, err := net.Dial("tcp", c.addr)
		if err == nil {
			rtime = c.cfg.reconnectMin
			done := make(chan struct{})
			h := NewHandler(c.ctx, conn, func(h *Handler, err error) {
				c.onTerminate(h, err)
				close(done)
			}, c.logger)

			c.mu.Lock()
			if c.closed {
				c.mu.Unlock()
				h.StopIO()
				return
			}
			c.cur = h
			c.mu.Unlock()

			if c.cfg.stateChange != nil {
				c.cfg.stateChange(NewIOInterface(h), 1, true)
			}

			select {
			case <-done:
			case <-closeq:
				h.CancelIO()
				<-done
				return
			}
		} else if c.cfg.errorFn != nil {
			c.cfg.errorFn(NewIOInterface(nil), netio.NewTransportError(err))
		}

		if !c.retry {
			return
		}

		c.logger.Info("connector retry", zap.String("addr", c.addr), zap.Duration("after", rtime))
		select {
		case <-closeq:
			return
		case <-time.After(rtime):
			rtime *= 2
			if rtime > c.cfg.reconnectMax {
				rtime = c.cfg.reconnectMax
			}
		}
	}
}

func (c *Connector) onTerminate(h *Handler, err error) {
	c.mu.Lock()
	if c.cur == h {
		c.cur = nil
	}
	c.mu.Unlock()

	if err != nil && c.cfg.errorFn != nil {
		c.cfg.errorFn(NewIOInterface(h), err)
	}
	if c.cfg.stateChange != nil {
		c.cfg.stateChange(NewIOInterface(h), 0, false)
	}
}

// Stop cancels any pending redial and closes the current connection, if
// any, then waits for the dial loop to exit. Returns false if not
// started.
func (c *Connector) Stop() bool {
	c.mu.Lock()
	if !c.dialing || c.closed {
		c.mu.Unlock()
		return false
	}
	c.closed = true
	c.dialing = false
	close(c.closeq)
	c.mu.Unlock()

	c.wg.Wait()
	return true
}
