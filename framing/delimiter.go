package framing

import (
	"bufio"
	"bytes"

	"github.com/duplexio/netio"
)

// DefaultMaxBufferedSize bounds the delimiter framer's accumulation
// buffer. Grounded on the UDP transport's own datagram size ceiling
// (transport/udp/udp.go's udpMaxBuf), per SPEC_FULL.md §11.
const DefaultMaxBufferedSize = 64 * 1024

// DelimiterFramer accumulates bytes until the configured delimiter is
// found, then delivers everything up to and including the delimiter.
// The accumulation buffer is bounded by MaxBufferedSize; exceeding it
// fails with netio.ErrFramingBufferOverflow.
type DelimiterFramer struct {
	Delim           []byte
	MaxBufferedSize int
}

// NewDelimiterFramer returns a DelimiterFramer for a non-empty delimiter
// (e.g. []byte("\r\n") or []byte("\n")).
func NewDelimiterFramer(delim []byte) *DelimiterFramer {
	d := make([]byte, len(delim))
	copy(d, delim)
	return &DelimiterFramer{Delim: d, MaxBufferedSize: DefaultMaxBufferedSize}
}

// ReadFrame reads bytes from r until Delim is found, returning the frame
// including the trailing delimiter.
func (f *DelimiterFramer) ReadFrame(r *bufio.Reader) ([]byte, error) {
	max := f.MaxBufferedSize
	if max <= 0 {
		max = DefaultMaxBufferedSize
	}
	var acc []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		acc = append(acc, b)
		if len(acc) > max {
			return nil, netio.ErrFramingBufferOverflow
		}
		if bytes.HasSuffix(acc, f.Delim) {
			return acc, nil
		}
	}
}
