package netio

// IOInterface is the minimal handle surface common to every transport's
// concrete handle type (tcp.IOInterface, udp.IOInterface). It mirrors
// the non-owning, always-safe-to-call facade described in spec.md §9:
// every method degrades gracefully once the underlying handler has
// terminated rather than panicking or blocking. Transport packages add
// their own StartIO (and, for UDP, SendTo) on top since those differ by
// wire shape (stream vs. datagram) and are not part of this shared
// surface.
type IOInterface interface {
	IsValid() bool
	IsIOStarted() (bool, error)
	StopIO() bool
	OutputQueueStats() (QueueStats, error)
	Send(buf ConstBuf) bool
}

// MessageHandler is invoked once per framed message delivered on a
// handler. Returning false tells the handler to close the connection
// after draining pending writes. Transport packages declare their own
// StateChangeHandler/ErrorHandler types alongside their concrete
// IOInterface, since those callbacks need to hand the caller a handle
// with a callable StartIO (spec.md §2), which differs by transport.
type MessageHandler func(msg ConstBuf, io IOInterface, peer Endpoint) bool

// HeaderDecoder decodes a fixed-size header buffer into the length of
// the body that follows.
type HeaderDecoder func(hdr []byte) int
