package tcp

// StateChangeHandler is fired by Acceptor/Connector when a handler is
// created (started == true) or removed (started == false). The handle
// passed on creation is the concrete tcp.IOInterface, which exposes
// StartIO, so the callback can install framing and a message handler
// per connection, per spec.md §2's control flow.
type StateChangeHandler func(io IOInterface, numHandlers int, started bool)

// ErrorHandler is fired when a handler terminates, with the classifying
// error.
type ErrorHandler func(io IOInterface, err error)
