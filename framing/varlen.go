package framing

import (
	"bufio"
	"io"

	"github.com/duplexio/netio"
)

// DefaultHeaderSize is the header width used when a VariableLengthFramer
// is constructed via NewVariableLengthFramer without an explicit size.
const DefaultHeaderSize = 2

// VariableLengthFramer implements the two-phase read state machine from
// spec.md §4.1: read a fixed-size header, decode it into a body length,
// then read exactly that many body bytes. A body length of zero is a
// legal frame, used by convention as an end-of-flow sentinel. Header
// size is parameterized per spec.md §9's Open Question resolution
// (SPEC_FULL.md §11).
type VariableLengthFramer struct {
	HeaderSize int
	Decoder    netio.HeaderDecoder
}

// NewVariableLengthFramer returns a VariableLengthFramer using a
// big-endian unsigned header of hdrSize bytes (1-8). hdrSize <= 0 uses
// DefaultHeaderSize.
func NewVariableLengthFramer(hdrSize int) *VariableLengthFramer {
	if hdrSize <= 0 {
		hdrSize = DefaultHeaderSize
	}
	return &VariableLengthFramer{
		HeaderSize: hdrSize,
		Decoder:    BigEndianDecoder(hdrSize),
	}
}

// BigEndianDecoder returns a HeaderDecoder reading an n-byte big-endian
// unsigned integer, n in 1-8.
func BigEndianDecoder(n int) netio.HeaderDecoder {
	return func(hdr []byte) int {
		var v uint64
		for i := 0; i < n && i < len(hdr); i++ {
			v = v<<8 | uint64(hdr[i])
		}
		return int(v)
	}
}

// Encode builds the wire form of a message: the big-endian header
// followed by body. It is the inverse of the framer's decode step and
// satisfies spec.md §8 property 3 (round trip).
func (f *VariableLengthFramer) Encode(body []byte) []byte {
	hdr := make([]byte, f.HeaderSize)
	n := uint64(len(body))
	for i := f.HeaderSize - 1; i >= 0; i-- {
		hdr[i] = byte(n)
		n >>= 8
	}
	out := make([]byte, 0, f.HeaderSize+len(body))
	out = append(out, hdr...)
	out = append(out, body...)
	return out
}

// ReadFrame reads exactly one header-prefixed frame from r and returns
// header bytes concatenated with body bytes.
func (f *VariableLengthFramer) ReadFrame(r *bufio.Reader) ([]byte, error) {
	hdr := make([]byte, f.HeaderSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, err
	}
	// A decoder that panics or yields a negative length is reported as a
	// framing error rather than crashing the read loop.
	n := -1
	func() {
		defer func() { _ = recover() }()
		n = f.Decoder(hdr)
	}()
	if n < 0 {
		return nil, netio.ErrFramingBufferOverflow
	}
	frame := make([]byte, f.HeaderSize+n)
	copy(frame, hdr)
	if n > 0 {
		if _, err := io.ReadFull(r, frame[f.HeaderSize:]); err != nil {
			return nil, err
		}
	}
	return frame, nil
}
