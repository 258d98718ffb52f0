// Package aggregator implements a thread-safe "send to all" broadcast
// collection over a set of io handles, grounded on the original
// send_to_all component (net_ip/component/send_to_all.hpp): a
// mutex-guarded slice of handles, add/remove by value equality, and a
// send that fans a buffer out to every member, skipping any that have
// gone invalid rather than failing the whole broadcast.
package aggregator

import (
	"sync"

	"github.com/duplexio/netio"
)

// Handle is the subset of a transport's IOInterface that SendToAll
// needs. Both tcp.IOInterface and udp.IOInterface satisfy it.
type Handle interface {
	IsValid() bool
	ID() uint64
	Send(buf netio.ConstBuf) bool
	OutputQueueStats() (netio.QueueStats, error)
}

// SendToAll manages a collection of handles and broadcasts buffers to
// all of them. Safe for concurrent use.
type SendToAll struct {
	mu    sync.Mutex
	items []Handle
}

// New returns an empty SendToAll.
func New() *SendToAll {
	return &SendToAll{}
}

// Add appends io to the collection.
func (s *SendToAll) Add(io Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, io)
}

// Remove deletes the first handle with the same identity as io, if any.
func (s *SendToAll) Remove(io Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, h := range s.items {
		if h.ID() == io.ID() {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Send broadcasts buf to every member. Handles that have gone invalid
// since being added are skipped silently rather than failing the whole
// broadcast, matching spec.md §6's degrade-gracefully requirement.
func (s *SendToAll) Send(buf netio.ConstBuf) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.items {
		if h.IsValid() {
			h.Send(buf)
		}
	}
}

// SendBytes is a convenience wrapper building a ConstBuf from a raw
// slice before broadcasting.
func (s *SendToAll) SendBytes(buf []byte) {
	s.Send(netio.NewConstBuf(buf))
}

// SendBuilder broadcasts the frozen contents of a MutBuf.
func (s *SendToAll) SendBuilder(mb *netio.MutBuf) {
	s.Send(mb.Freeze())
}

// Size returns the number of handles currently in the collection,
// including any that have gone invalid but have not yet been removed.
func (s *SendToAll) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// TotalOutputQueueStats sums OutputQueueStats across every valid member,
// skipping any that have gone invalid since being added.
func (s *SendToAll) TotalOutputQueueStats() netio.QueueStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tot netio.QueueStats
	for _, h := range s.items {
		qs, err := h.OutputQueueStats()
		if err != nil {
			continue
		}
		tot.Size += qs.Size
		tot.BytesInQueue += qs.BytesInQueue
	}
	return tot
}
