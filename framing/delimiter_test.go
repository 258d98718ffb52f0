package framing

import (
	"bufio"
	"bytes"
	"errors"
	"testing"

	"github.com/duplexio/netio"
)

func TestDelimiterFramerReadsUpToDelimiter(t *testing.T) {
	f := NewDelimiterFramer([]byte("\r\n"))
	r := bufio.NewReader(bytes.NewReader([]byte("hello\r\nworld\r\n")))

	frame, err := f.ReadFrame(r)
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if string(frame) != "hello\r\n" {
		t.Fatalf("ReadFrame() = %q", frame)
	}

	frame, err = f.ReadFrame(r)
	if err != nil {
		t.Fatalf("second ReadFrame() error = %v", err)
	}
	if string(frame) != "world\r\n" {
		t.Fatalf("second ReadFrame() = %q", frame)
	}
}

func TestDelimiterFramerOverflow(t *testing.T) {
	f := NewDelimiterFramer([]byte("\n"))
	f.MaxBufferedSize = 4
	r := bufio.NewReader(bytes.NewReader([]byte("toolong\n")))

	_, err := f.ReadFrame(r)
	if !errors.Is(err, netio.ErrFramingBufferOverflow) {
		t.Fatalf("ReadFrame() error = %v, want ErrFramingBufferOverflow", err)
	}
}

func TestDelimiterFramerPropagatesReadError(t *testing.T) {
	f := NewDelimiterFramer([]byte("\n"))
	r := bufio.NewReader(bytes.NewReader(nil))

	_, err := f.ReadFrame(r)
	if err == nil {
		t.Fatal("ReadFrame() on empty reader returned nil error")
	}
}
