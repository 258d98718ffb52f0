package udp

import (
	"errors"
	"testing"

	"github.com/duplexio/netio"
)

func TestZeroIOInterfaceDegradesGracefully(t *testing.T) {
	var io IOInterface // default-constructed, wraps no handler

	if io.IsValid() {
		t.Fatal("zero IOInterface reports IsValid()")
	}
	if started, err := io.IsIOStarted(); started || !errors.Is(err, netio.ErrInvalidHandle) {
		t.Fatalf("zero IOInterface IsIOStarted() = %v, %v", started, err)
	}
	if io.Send(netio.NewConstBuf([]byte("x"))) {
		t.Fatal("zero IOInterface Send() returned true")
	}
	msgFn := func(msg netio.ConstBuf, io netio.IOInterface, peer netio.Endpoint) bool { return true }
	if io.StartIO(0, msgFn) {
		t.Fatal("zero IOInterface StartIO() returned true")
	}
	if io.StopIO() {
		t.Fatal("zero IOInterface StopIO() returned true")
	}
	if _, err := io.GetSocket(); !errors.Is(err, netio.ErrInvalidHandle) {
		t.Fatalf("zero IOInterface GetSocket() err = %v", err)
	}
	if stats, err := io.OutputQueueStats(); stats != (netio.QueueStats{}) || !errors.Is(err, netio.ErrInvalidHandle) {
		t.Fatalf("zero IOInterface OutputQueueStats() = %+v, %v", stats, err)
	}
}

func TestIOInterfaceOrderingInvalidBeforeValid(t *testing.T) {
	h := &Handler{HandleBase: netio.NewHandleBase()}
	valid := NewIOInterface(h)
	var invalid IOInterface

	if !invalid.Less(valid) {
		t.Fatal("invalid handle should sort before valid handle")
	}
	if valid.Less(invalid) {
		t.Fatal("valid handle should not sort before invalid handle")
	}
	if !invalid.Equal(IOInterface{}) {
		t.Fatal("two invalid handles should be Equal")
	}
}
