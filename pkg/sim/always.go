package sim

import "github.com/hdlgo/hdlgo/pkg/signal"

// AlwaysProcess backs the `always(trigger)` process kind: a body re-run
// every time its fixed, explicitly declared trigger fires. The body does
// not run until the trigger has fired at least once — the first Step
// only arms it.
type AlwaysProcess struct {
	name    string
	trigger Trigger
	body    func(ctx *RunCtx) error

	ctx     *RunCtx
	started bool
}

// NewAlways constructs an always process with an explicit sensitivity
// trigger (built with OnEvent/OnPosedge/OnNegedge/Join/Any).
func NewAlways(name string, trigger Trigger, body func(ctx *RunCtx) error) *AlwaysProcess {
	return &AlwaysProcess{name: name, trigger: trigger, body: body}
}

func (p *AlwaysProcess) Name() string { return p.name }

func (p *AlwaysProcess) Step(s *Scheduler) (StepResult, error) {
	if p.ctx == nil {
		p.ctx = &RunCtx{sched: s}
	}
	if p.started {
		if err := p.body(p.ctx); err != nil {
			return StepResult{}, err
		}
	}
	p.started = true
	return StepResult{Trigger: p.trigger}, nil
}

// AlwaysCombProcess backs `always_comb`: its sensitivity list is never
// declared, only inferred from whatever signals the body reads. Unlike
// AlwaysProcess it runs its body immediately on first Step, since a
// combinational block must drive its outputs once at elaboration before
// anything has changed.
type AlwaysCombProcess struct {
	name string
	body func(ctx *RunCtx) error

	ctx *RunCtx
}

// NewAlwaysComb constructs a combinational process whose sensitivity is
// recomputed from the read set every time body runs.
func NewAlwaysComb(name string, body func(ctx *RunCtx) error) *AlwaysCombProcess {
	return &AlwaysCombProcess{name: name, body: body}
}

func (p *AlwaysCombProcess) Name() string { return p.name }

func (p *AlwaysCombProcess) Step(s *Scheduler) (StepResult, error) {
	if p.ctx == nil {
		p.ctx = &RunCtx{sched: s}
	}
	p.ctx.startTracking()
	err := p.body(p.ctx)
	ids := p.ctx.stopTracking()
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{Trigger: OnEvent(ids...)}, nil
}

// AlwaysSeqProcess backs `always_seq`: a body clocked on an edge, with an
// optional reset that, while asserted, drives every target signal back to
// its initial value instead of running the body. A nil reset trigger
// means the reset (if any) is synchronous:
// it is only sampled on the clock edge, so it does not itself appear in
// the sensitivity list. A non-nil reset trigger makes it asynchronous: the
// process additionally wakes on the reset's own edge.
type AlwaysSeqProcess struct {
	name string

	clock Trigger
	reset *Trigger

	resetActive  func(ctx *RunCtx) bool
	resetTargets []signal.ID

	body func(ctx *RunCtx) error

	ctx     *RunCtx
	started bool
}

// NewAlwaysSeq constructs a clocked process. resetActive and resetTargets
// may be left nil/empty for a block with no reset.
func NewAlwaysSeq(name string, clock Trigger, reset *Trigger, resetActive func(ctx *RunCtx) bool, resetTargets []signal.ID, body func(ctx *RunCtx) error) *AlwaysSeqProcess {
	return &AlwaysSeqProcess{
		name:         name,
		clock:        clock,
		reset:        reset,
		resetActive:  resetActive,
		resetTargets: resetTargets,
		body:         body,
	}
}

func (p *AlwaysSeqProcess) Name() string { return p.name }

func (p *AlwaysSeqProcess) Step(s *Scheduler) (StepResult, error) {
	if p.ctx == nil {
		p.ctx = &RunCtx{sched: s}
	}
	if p.started {
		if p.resetActive != nil && p.resetActive(p.ctx) {
			for _, id := range p.resetTargets {
				sig := s.bank.Get(id)
				for _, w := range sig.ResetToInitial() {
					w.Notify()
				}
			}
		} else if err := p.body(p.ctx); err != nil {
			return StepResult{}, err
		}
	}
	p.started = true
	if p.reset != nil {
		return StepResult{Trigger: Any(p.clock, *p.reset)}, nil
	}
	return StepResult{Trigger: p.clock}, nil
}
