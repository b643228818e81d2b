package sim

import (
	"container/heap"

	"github.com/hdlgo/hdlgo/pkg/signal"
)

// event is anything the scheduler's future-events heap can apply once its
// time arrives.
type event interface {
	apply(s *Scheduler)
}

// delayWakeEvent re-arms a waiter (or a Join/Any sub-trigger's subWaiter)
// that is parked on Delay(t).
type delayWakeEvent struct {
	waiter signal.Waiter
}

func (e *delayWakeEvent) apply(s *Scheduler) {
	e.waiter.Notify()
}

// signalApplyEvent performs a delayed signal's staged write, discarding
// itself if a later write has superseded it (inertial cancellation: the
// last scheduled write to a signal wins).
type signalApplyEvent struct {
	id    signal.ID
	value signal.Value
	gen   int64
}

func (e *signalApplyEvent) apply(s *Scheduler) {
	sig := s.bank.Get(e.id)
	if sig.Generation() != e.gen {
		return // superseded by a later write; this one is stale
	}
	if err := sig.StageNext(e.value); err == nil {
		s.enqueueSiglist(e.id)
	}
}

// futureEntry is one (time, sequence, event) tuple in the min-heap. The
// sequence number is a tiebreaker: container/heap does not guarantee FIFO
// among equal-time entries, and insertion order must still be honoured
// for same-timestamp events, the same as it is for siglist/waiters.
type futureEntry struct {
	time  int64
	seq   int64
	event event
}

type futureHeap []*futureEntry

func (h futureHeap) Len() int { return len(h) }
func (h futureHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].seq < h[j].seq
}
func (h futureHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *futureHeap) Push(x interface{}) {
	*h = append(*h, x.(*futureEntry))
}

func (h *futureHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

var _ heap.Interface = &futureHeap{}
