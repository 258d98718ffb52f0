package aggregator

import (
	"testing"

	"github.com/duplexio/netio"
)

type fakeHandle struct {
	id     uint64
	valid  bool
	sent   *int
	qstats netio.QueueStats
}

func (f *fakeHandle) IsValid() bool { return f.valid }
func (f *fakeHandle) ID() uint64    { return f.id }
func (f *fakeHandle) Send(buf netio.ConstBuf) bool {
	if !f.valid {
		return false
	}
	*f.sent++
	return true
}
func (f *fakeHandle) OutputQueueStats() (netio.QueueStats, error) {
	if !f.valid {
		return netio.QueueStats{}, netio.ErrInvalidHandle
	}
	return f.qstats, nil
}

func TestSendToAllBroadcastsOnlyToValidHandles(t *testing.T) {
	s := New()

	sentCounts := make([]int, 5)
	for i := 0; i < 5; i++ {
		valid := i < 3
		h := &fakeHandle{
			id:     uint64(i + 1),
			valid:  valid,
			sent:   &sentCounts[i],
			qstats: netio.QueueStats{Size: i, BytesInQueue: int64(i * 10)},
		}
		s.Add(h)
	}

	if s.Size() != 5 {
		t.Fatalf("Size() = %d, want 5", s.Size())
	}

	s.Send(netio.NewConstBuf([]byte("broadcast")))

	delivered := 0
	for _, c := range sentCounts {
		delivered += c
	}
	if delivered != 3 {
		t.Fatalf("delivered to %d handles, want 3", delivered)
	}

	tot := s.TotalOutputQueueStats()
	// Only the three valid handles (i < 3) contribute to the totals.
	wantSize, wantBytes := 0, int64(0)
	for i := 0; i < 3; i++ {
		wantSize += i
		wantBytes += int64(i * 10)
	}
	if tot.Size != wantSize || tot.BytesInQueue != wantBytes {
		t.Fatalf("TotalOutputQueueStats() = %+v, want size=%d bytes=%d", tot, wantSize, wantBytes)
	}
}

func TestSendToAllRemove(t *testing.T) {
	s := New()
	var sent int
	h := &fakeHandle{id: 1, valid: true, sent: &sent}
	s.Add(h)
	if s.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", s.Size())
	}
	s.Remove(h)
	if s.Size() != 0 {
		t.Fatalf("Size() after Remove = %d, want 0", s.Size())
	}
}
