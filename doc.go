// Package netio provides the shared runtime for message-oriented TCP and
// UDP I/O: buffers, endpoints, the output queue, the io handle facade,
// and the worker/context that host handler callbacks.
//
// Concrete transports live in the tcp and udp subpackages; framing
// strategies live in the framing subpackage; a "send to all" broadcast
// helper lives in the aggregator subpackage.
package netio
