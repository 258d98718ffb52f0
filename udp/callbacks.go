package udp

// StateChangeHandler is fired by NetEntity when its handler is created
// (started == true) or removed (started == false). The handle passed on
// creation is the concrete udp.IOInterface, which exposes StartIO, so
// the callback can pick a max datagram size and message handler, per
// spec.md §2's control flow.
type StateChangeHandler func(io IOInterface, numHandlers int, started bool)

// ErrorHandler is fired when a handler terminates, with the classifying
// error.
type ErrorHandler func(io IOInterface, err error)
