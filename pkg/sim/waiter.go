package sim

import "github.com/hdlgo/hdlgo/pkg/signal"

// procWaiter is the scheduler's record of a process parked on a trigger.
// It implements signal.Waiter so it can be registered directly on a
// Signal's waiter lists.
//
// A fresh procWaiter is created every time a process is (re-)armed; the
// previous one, if any, is purged from whatever lists it was still
// registered on first. This is a lazy-cancellation scheme: a process
// marked as having run during the current delta cycle is purged from
// any stale waiter list entries at next scheduling.
type procWaiter struct {
	sched *Scheduler
	proc  Process

	hasRun bool
	regs   []registration

	// joinRemaining > 0 means this waiter is parked on a Join or Any
	// trigger: it was split into one subWaiter per sub-trigger, and
	// completes when joinRemaining reaches zero (N for Join, 1 for Any).
	joinRemaining int
}

// Notify is called directly by a Signal when this waiter is registered as
// a plain (non-Join/Any) leaf waiter — Delay, Event, Posedge, Negedge.
func (w *procWaiter) Notify() {
	if w.hasRun {
		return
	}
	w.hasRun = true
	w.sched.enqueueReady(w)
}

// subFired is called by a subWaiter belonging to a Join/Any trigger. It
// decrements the remaining count and completes the parent once every
// required sub-trigger (Join: all of them; Any: the first one) has fired.
func (w *procWaiter) subFired() {
	if w.hasRun {
		return
	}
	w.joinRemaining--
	if w.joinRemaining > 0 {
		return
	}
	w.hasRun = true
	w.sched.enqueueReady(w)
}

// registration records one (list, waiter) pair so purge can later remove
// exactly that entry, whether the waiter is the procWaiter itself (a leaf
// trigger) or a subWaiter belonging to it (a Join/Any sub-trigger).
type registration struct {
	list   *signal.WaiterList
	waiter signal.Waiter
}

func (w *procWaiter) purge() {
	for _, r := range w.regs {
		r.list.Remove(r.waiter)
	}
	w.regs = nil
}

// register arms w itself directly on l (used for leaf triggers).
func (w *procWaiter) register(l *signal.WaiterList) {
	l.Add(w)
	w.regs = append(w.regs, registration{list: l, waiter: w})
}

// registerSub arms sw (a subWaiter belonging to w) on l.
func (w *procWaiter) registerSub(l *signal.WaiterList, sw *subWaiter) {
	l.Add(sw)
	w.regs = append(w.regs, registration{list: l, waiter: sw})
}

// subWaiter represents one sub-trigger of a Join/Any trigger. It may be
// registered on several signal waiter lists at once (its own sub-trigger
// can itself be an Event over more than one signal), but only ever counts
// toward its parent's completion once.
type subWaiter struct {
	parent *procWaiter
	fired  bool
}

func (w *subWaiter) Notify() {
	if w.fired {
		return
	}
	w.fired = true
	w.parent.subFired()
}
