package framing

import "bufio"

// Framer reads exactly one complete framed message from r, blocking
// until a full frame is available or a read error/EOF occurs. Both
// built-in framers are stateless save for their configuration — any
// bytes read past a frame boundary remain buffered in r for the next
// call, so a single Framer value is safely reused across the lifetime
// of a connection's read loop.
type Framer interface {
	ReadFrame(r *bufio.Reader) ([]byte, error)
}
