package udp

import (
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/duplexio/netio"
)

func TestUDPBoundRemoteEcho(t *testing.T) {
	Convey("Given an unbound UDP server entity and a client entity bound to it", t, func() {
		w := netio.NewWorker()
		w.Start(1)
		ctx := w.Context()

		var mu sync.Mutex
		var serverReceived []string

		serverMsgFn := func(msg netio.ConstBuf, io netio.IOInterface, peer netio.Endpoint) bool {
			mu.Lock()
			serverReceived = append(serverReceived, string(msg.Data()))
			mu.Unlock()
			// The server has no bound remote, so it replies with SendTo.
			to, err := net.ResolveUDPAddr("udp", strings.TrimPrefix(peer.String(), "udp://"))
			if err == nil {
				io.(IOInterface).SendTo(netio.NewConstBuf(append([]byte(nil), msg.Data()...)), to)
			}
			return true
		}

		server, err := NewNetEntity(ctx, "127.0.0.1:0", nil, nil, WithStateChange(func(io IOInterface, n int, started bool) {
			if started {
				io.StartIO(0, serverMsgFn)
			}
		}))
		So(err, ShouldBeNil)
		So(server.Start(), ShouldBeTrue)

		serverAddr := server.LocalAddr().(*net.UDPAddr)

		clientDone := make(chan string, 1)
		clientMsgFn := func(msg netio.ConstBuf, io netio.IOInterface, peer netio.Endpoint) bool {
			clientDone <- string(msg.Data())
			return true
		}
		client, err := NewNetEntity(ctx, "127.0.0.1:0", serverAddr, nil, WithStateChange(func(io IOInterface, n int, started bool) {
			if started {
				io.StartIO(0, clientMsgFn)
			}
		}))
		So(err, ShouldBeNil)
		So(client.Start(), ShouldBeTrue)

		Convey("A datagram sent by the client is echoed back", func() {
			So(client.Handle().Send(netio.NewConstBuf([]byte("ping"))), ShouldBeTrue)

			select {
			case got := <-clientDone:
				So(got, ShouldEqual, "ping")
			case <-time.After(2 * time.Second):
				t.Fatal("timed out waiting for echo")
			}

			mu.Lock()
			So(serverReceived, ShouldContain, "ping")
			mu.Unlock()

			client.Stop()
			server.Stop()
		})
	})
}

func TestUDPBoundRemoteFiltersOtherSenders(t *testing.T) {
	Convey("Given a bound-remote UDP entity", t, func() {
		w := netio.NewWorker()
		w.Start(1)
		ctx := w.Context()

		delivered := make(chan struct{}, 1)
		server, err := NewNetEntity(ctx, "127.0.0.1:0", nil, nil)
		So(err, ShouldBeNil)

		serverAddr := server.LocalAddr().(*net.UDPAddr)

		pinnedMsgFn := func(msg netio.ConstBuf, io netio.IOInterface, peer netio.Endpoint) bool {
			delivered <- struct{}{}
			return true
		}
		pinned, err := NewNetEntity(ctx, "127.0.0.1:0", serverAddr, nil, WithStateChange(func(io IOInterface, n int, started bool) {
			if started {
				io.StartIO(0, pinnedMsgFn)
			}
		}))
		So(err, ShouldBeNil)
		So(pinned.Start(), ShouldBeTrue)

		Convey("A datagram from an unrelated socket is silently dropped", func() {
			stray, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
			So(err, ShouldBeNil)
			defer stray.Close()

			pinnedAddr := pinned.LocalAddr().(*net.UDPAddr)
			_, err = stray.WriteToUDP([]byte("unwanted"), pinnedAddr)
			So(err, ShouldBeNil)

			select {
			case <-delivered:
				t.Fatal("message from unrelated sender was delivered")
			case <-time.After(200 * time.Millisecond):
			}

			pinned.Stop()
		})
	})
}

func TestUDPSendOnlyEntityInstallsNoReadLoop(t *testing.T) {
	Convey("Given a send-only UDP entity with no message handler", t, func() {
		w := netio.NewWorker()
		w.Start(1)
		ctx := w.Context()

		serverDone := make(chan struct{}, 1)
		server, err := NewNetEntity(ctx, "127.0.0.1:0", nil, nil, WithStateChange(func(io IOInterface, n int, started bool) {
			if started {
				io.StartIO(0, func(msg netio.ConstBuf, io netio.IOInterface, peer netio.Endpoint) bool {
					serverDone <- struct{}{}
					return true
				})
			}
		}))
		So(err, ShouldBeNil)
		So(server.Start(), ShouldBeTrue)
		serverAddr := server.LocalAddr().(*net.UDPAddr)

		sender, err := NewNetEntity(ctx, "127.0.0.1:0", serverAddr, nil, WithStateChange(func(io IOInterface, n int, started bool) {
			if started {
				So(io.StartIO(0, nil), ShouldBeTrue)
			}
		}))
		So(err, ShouldBeNil)
		So(sender.Start(), ShouldBeTrue)

		Convey("It can still send, and a nil handler never panics on receipt", func() {
			So(sender.Handle().Send(netio.NewConstBuf([]byte("hello"))), ShouldBeTrue)

			select {
			case <-serverDone:
			case <-time.After(2 * time.Second):
				t.Fatal("timed out waiting for server to receive the send-only entity's datagram")
			}

			sender.Stop()
			server.Stop()
		})
	})
}
