package tcp

import "time"

// config collects the options NewAcceptor and NewConnector accept.
// Fields irrelevant to one or the other (ReuseAddr for a Connector,
// reconnect backoff for an Acceptor) are simply left at their zero
// value.
type config struct {
	stateChange StateChangeHandler
	errorFn     ErrorHandler
	reuseAddr   bool

	reconnectMin time.Duration
	reconnectMax time.Duration
}

func defaultConfig() config {
	return config{}
}

// Option configures an Acceptor or Connector.
type Option func(*config)

// WithStateChange installs the callback fired whenever a handler is
// created or removed.
func WithStateChange(fn StateChangeHandler) Option {
	return func(c *config) {
		c.stateChange = fn
	}
}

// WithErrorHandler installs the callback fired when a handler
// terminates abnormally.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(c *config) {
		c.errorFn = fn
	}
}

// WithReuseAddr sets SO_REUSEADDR on the listening socket before bind.
// Only meaningful for an Acceptor.
func WithReuseAddr(reuse bool) Option {
	return func(c *config) {
		c.reuseAddr = reuse
	}
}

// WithReconnect enables a Connector's redial loop: after a dial failure
// or a dropped connection, it waits min, doubling up to max, before
// trying again. Without this option a Connector dials exactly once,
// per spec.md §4.7's default of no retry. Only meaningful for a
// Connector.
func WithReconnect(min, max time.Duration) Option {
	return func(c *config) {
		c.reconnectMin = min
		c.reconnectMax = max
	}
}
