package sim

import (
	"container/heap"
	"fmt"

	"github.com/hdlgo/hdlgo/pkg/signal"
)

// StopSimulation is the sentinel a process raises (returns as an error
// from Step, or panics with from an instance body) to end the run
// cooperatively.
var StopSimulation = fmt.Errorf("sim: stop simulation")

// Hook is invoked after a signal's value changes, so a VCD sink (or any
// other observer) can record it. It is set once on the Scheduler and
// wired through to every signal registered via NewSignal/NewDelayedSignal.
type Hook func(id signal.ID, old, next signal.Value)

// Scheduler owns all mutable simulation state: the current time, the
// future-events heap, the pending-update (delta cycle) queue, and the
// ready queue of waiters to execute. There is no package-level global
// state — tests may construct and run any number of independent
// Schedulers.
type Scheduler struct {
	now    int64
	bank   *signal.Bank
	future futureHeap
	seq    int64

	siglist   []signal.ID
	inSiglist map[signal.ID]bool

	ready []*procWaiter

	active map[Process]*procWaiter // current arming record, for purge-on-rearm

	hook Hook
	quit bool
}

// NewScheduler constructs a scheduler over bank, starting at time 0.
func NewScheduler(bank *signal.Bank) *Scheduler {
	s := &Scheduler{
		bank:      bank,
		inSiglist: make(map[signal.ID]bool),
		active:    make(map[Process]*procWaiter),
	}
	heap.Init(&s.future)
	return s
}

// Now returns the current simulated time.
func (s *Scheduler) Now() int64 { return s.now }

// Bank returns the signal bank this scheduler was built over, so external
// tooling (VCD recording, an interactive monitor) can resolve names and
// register trace hooks without the scheduler needing to know about them.
func (s *Scheduler) Bank() *signal.Bank { return s.bank }

// SetHook installs the VCD/trace hook; must be called before any signal
// updates that should be observed, typically right after elaboration.
func (s *Scheduler) SetHook(h Hook) {
	s.hook = h
	for _, sig := range s.bank.All() {
		sig.SetTraceHook(signal.TraceHook(h))
	}
}

// Quit requests that Run stop at the next iteration boundary.
func (s *Scheduler) Quit() { s.quit = true }

// Assign stages a value onto a signal, exactly as `sig.next = value`:
// for an ordinary signal this queues it into the per-cycle update list;
// for a delayed signal it instead schedules a SignalApply event at
// now+delay, stamped with a generation that lets a later write discard
// this one (inertial cancellation).
func (s *Scheduler) Assign(id signal.ID, v signal.Value) error {
	sig := s.bank.Get(id)
	if sig.Delay() > 0 {
		gen := sig.BumpGeneration()
		s.scheduleAt(s.now+sig.Delay(), &signalApplyEvent{id: id, value: v, gen: gen})
		return nil
	}
	if err := sig.StageNext(v); err != nil {
		return err
	}
	s.enqueueSiglist(id)
	return nil
}

func (s *Scheduler) enqueueSiglist(id signal.ID) {
	if s.inSiglist[id] {
		return
	}
	s.inSiglist[id] = true
	s.siglist = append(s.siglist, id)
}

func (s *Scheduler) enqueueReady(w *procWaiter) {
	s.ready = append(s.ready, w)
}

func (s *Scheduler) scheduleAt(t int64, e event) {
	s.seq++
	heap.Push(&s.future, &futureEntry{time: t, seq: s.seq, event: e})
}

// Spawn registers a process with the scheduler and arms its first
// trigger by stepping it once. Call this during elaboration, after all
// signals are registered and before Run.
func (s *Scheduler) Spawn(p Process) error {
	return s.stepAndArm(p)
}

// arm interprets a yielded trigger and registers the process's waiter(s)
// accordingly.
func (s *Scheduler) arm(p Process, t Trigger) {
	w := &procWaiter{sched: s, proc: p}
	s.active[p] = w

	switch t.Kind {
	case KindDelay:
		s.scheduleAt(s.now+t.Delay, &delayWakeEvent{waiter: w})
	case KindEvent:
		for _, id := range t.Signals {
			w.register(s.bank.EventFor(s.bank.Get(id)))
		}
	case KindPosedge:
		for _, id := range t.Signals {
			w.register(s.bank.PosedgeFor(s.bank.Get(id)))
		}
	case KindNegedge:
		for _, id := range t.Signals {
			w.register(s.bank.NegedgeFor(s.bank.Get(id)))
		}
	case KindJoin:
		w.joinRemaining = len(t.Sub)
		for _, sub := range t.Sub {
			s.armSub(w, sub)
		}
	case KindAny:
		w.joinRemaining = 1
		for _, sub := range t.Sub {
			s.armSub(w, sub)
		}
	}
}

// armSub registers one sub-trigger of a Join/Any trigger via a subWaiter,
// so each sub counts toward parent completion exactly once regardless of
// how many underlying signal lists it touches.
func (s *Scheduler) armSub(parent *procWaiter, t Trigger) {
	sw := &subWaiter{parent: parent}
	switch t.Kind {
	case KindDelay:
		s.scheduleAt(s.now+t.Delay, &delayWakeEvent{waiter: sw})
	case KindEvent:
		for _, id := range t.Signals {
			parent.registerSub(s.bank.EventFor(s.bank.Get(id)), sw)
		}
	case KindPosedge:
		for _, id := range t.Signals {
			parent.registerSub(s.bank.PosedgeFor(s.bank.Get(id)), sw)
		}
	case KindNegedge:
		for _, id := range t.Signals {
			parent.registerSub(s.bank.NegedgeFor(s.bank.Get(id)), sw)
		}
	default:
		// Nested Join/Any-of-Join isn't supported; treat as immediately
		// satisfied rather than deadlocking the outer trigger.
		sw.Notify()
	}
}

// stepAndArm advances process p once and arms whatever it yields next,
// purging its previous waiter registrations first.
func (s *Scheduler) stepAndArm(p Process) error {
	if prev, ok := s.active[p]; ok {
		prev.purge()
		delete(s.active, p)
	}
	res, err := p.Step(s)
	if err != nil {
		return err
	}
	if res.Done {
		return nil
	}
	s.arm(p, res.Trigger)
	return nil
}

// Run drives the scheduler for up to duration simulated-time units,
// interleaving the ready-waiter queue with delta-cycle settling and
// future-event dispatch.
func (s *Scheduler) Run(duration int64) error {
	deadline := s.now + duration
	for {
		if s.quit {
			return nil
		}
		if len(s.ready) > 0 {
			w := s.ready[0]
			s.ready = s.ready[1:]
			if err := s.stepAndArm(w.proc); err != nil {
				if err == StopSimulation {
					return nil
				}
				return err
			}
			continue
		}
		if len(s.siglist) > 0 {
			pending := s.siglist
			s.siglist = nil
			for _, id := range pending {
				delete(s.inSiglist, id)
				sig := s.bank.Get(id)
				for _, w := range sig.Commit() {
					w.Notify()
				}
			}
			continue
		}
		if s.future.Len() == 0 {
			s.now = deadline
			return nil
		}
		next := s.future[0]
		if next.time > deadline {
			s.now = deadline
			return nil
		}
		s.now = next.time
		for s.future.Len() > 0 && s.future[0].time == s.now {
			entry := heap.Pop(&s.future).(*futureEntry)
			entry.event.apply(s)
		}
	}
}
