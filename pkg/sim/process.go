package sim

import (
	"github.com/hdlgo/hdlgo/pkg/signal"
	"golang.org/x/exp/slices"
)

// StepResult is what Process.Step returns: either a Trigger to re-arm on,
// or Done (the process has terminated and will never run again).
type StepResult struct {
	Trigger Trigger
	Done    bool
}

// Process is a resumable state machine driven entirely by the scheduler
// calling Step. Concrete kinds (instance, always, always_comb,
// always_seq) implement it differently; GenProcess backs "instance" with
// a goroutine so user code can still be written as a linear function
// that calls Yield, without the scheduler ever dealing in goroutines
// directly.
type Process interface {
	Name() string
	Step(s *Scheduler) (StepResult, error)
}

// RunCtx is the facade a process body uses to read and write signals. It
// exists so always_comb can transparently record which signals a body
// reads (for sensitivity inference) without the body knowing it is being
// traced, and so every write goes through the scheduler's Assign (which
// knows about delayed signals and siglist bookkeeping) rather than the
// signal directly.
type RunCtx struct {
	sched    *Scheduler
	tracking map[signal.ID]bool // non-nil while inferring always_comb sensitivity
}

// Read returns a signal's current value (parent-resolved for shadows).
func (c *RunCtx) Read(id signal.ID) signal.Value {
	if c.tracking != nil {
		c.tracking[id] = true
	}
	sig := c.sched.bank.Get(id)
	return c.sched.bank.ShadowValue(sig)
}

// Write stages a value for assignment, equivalent to setting a signal's
// next value for the following delta cycle.
func (c *RunCtx) Write(id signal.ID, v signal.Value) error {
	return c.sched.Assign(id, v)
}

// Now returns the scheduler's current simulated time.
func (c *RunCtx) Now() int64 { return c.sched.Now() }

func (c *RunCtx) startTracking() { c.tracking = make(map[signal.ID]bool) }

func (c *RunCtx) stopTracking() []signal.ID {
	ids := make([]signal.ID, 0, len(c.tracking))
	for id := range c.tracking {
		ids = append(ids, id)
	}
	c.tracking = nil
	// Sensitivity-list order never affects firing order (each signal's own
	// WaiterList governs that), but sorting keeps the armed trigger's
	// signal list stable across runs instead of depending on map
	// iteration order.
	slices.Sort(ids)
	return ids
}
