package netio

import (
	"net"
	"sync"

	"github.com/eapache/queue"
)

// QueueStats is a snapshot of an OutputQueue's size and outstanding
// bytes, taken atomically with respect to concurrent Enqueue/TryPop.
type QueueStats struct {
	Size         int
	BytesInQueue int64
}

type queueEntry struct {
	buf  ConstBuf
	addr net.Addr // nil for TCP entries
}

// OutputQueue is an ordered, thread-safe queue of pending write buffers
// with cumulative byte accounting. Backed by github.com/eapache/queue's
// ring buffer rather than a hand-rolled slice, avoiding the
// shift-on-pop cost of a plain slice queue. Size and byte count are
// both guarded by mu so Stats never observes a pair that doesn't
// correspond to any single real queue state.
type OutputQueue struct {
	mu    sync.Mutex
	q     *queue.Queue
	bytes int64
}

// NewOutputQueue returns an empty OutputQueue.
func NewOutputQueue() *OutputQueue {
	return &OutputQueue{q: queue.New()}
}

func (o *OutputQueue) enqueue(e queueEntry) {
	o.mu.Lock()
	o.q.Add(e)
	o.bytes += int64(e.buf.Size())
	o.mu.Unlock()
}

// Enqueue adds a TCP entry (no destination address) to the tail of the
// queue.
func (o *OutputQueue) Enqueue(buf ConstBuf) {
	o.enqueue(queueEntry{buf: buf})
}

// EnqueueTo adds a UDP entry with an explicit destination to the tail of
// the queue.
func (o *OutputQueue) EnqueueTo(buf ConstBuf, addr net.Addr) {
	o.enqueue(queueEntry{buf: buf, addr: addr})
}

// TryPop removes and returns the head entry, or ok == false if empty.
func (o *OutputQueue) TryPop() (buf ConstBuf, addr net.Addr, ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.q.Length() == 0 {
		return ConstBuf{}, nil, false
	}
	e := o.q.Remove().(queueEntry)
	o.bytes -= int64(e.buf.Size())
	return e.buf, e.addr, true
}

// Stats returns a snapshot of size and bytes-in-queue, consistent with
// each other.
func (o *OutputQueue) Stats() QueueStats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return QueueStats{Size: o.q.Length(), BytesInQueue: o.bytes}
}

// Clear discards every pending entry. Used on terminal, non-graceful
// shutdown; callers never observe cleared entries.
func (o *OutputQueue) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.q = queue.New()
	o.bytes = 0
}
