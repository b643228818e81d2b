package sim

import "fmt"

// Yielder is what an instance body uses to suspend itself and tell the
// scheduler what should resume it.
type Yielder interface {
	Yield(t Trigger) error
}

// InstanceFunc is a free-running process body: it runs as a goroutine so
// it can be written as ordinary linear Go code that calls Yield, without
// the scheduler itself ever touching a goroutine or channel (Step is
// still the only thing Scheduler calls).
type InstanceFunc func(ctx *RunCtx, y Yielder) error

// GenProcess backs the `instance` process kind. Internally it runs fn on
// a dedicated goroutine and exchanges triggers over unbuffered channels,
// so Step blocks exactly until the goroutine either yields again or
// returns.
type GenProcess struct {
	name string
	fn   InstanceFunc

	started  bool
	triggers chan Trigger
	resume   chan struct{}
	done     chan error
	ctx      *RunCtx
}

// NewInstance constructs a GenProcess. The returned process must be
// registered with a Scheduler via Spawn.
func NewInstance(name string, fn InstanceFunc) *GenProcess {
	return &GenProcess{
		name:     name,
		fn:       fn,
		triggers: make(chan Trigger),
		resume:   make(chan struct{}),
		done:     make(chan error, 1),
	}
}

func (p *GenProcess) Name() string { return p.name }

// Yield implements Yielder: send the trigger to the scheduler and block
// until it resumes us.
func (p *GenProcess) Yield(t Trigger) error {
	p.triggers <- t
	_, ok := <-p.resume
	if !ok {
		return StopSimulation
	}
	return nil
}

func (p *GenProcess) Step(s *Scheduler) (StepResult, error) {
	if !p.started {
		p.started = true
		p.ctx = &RunCtx{sched: s}
		go p.run()
	} else {
		p.resume <- struct{}{}
	}
	select {
	case t := <-p.triggers:
		return StepResult{Trigger: t}, nil
	case err := <-p.done:
		return StepResult{Done: true}, err
	}
}

func (p *GenProcess) run() {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				p.done <- err
				return
			}
			p.done <- fmt.Errorf("sim: instance %q panicked: %v", p.name, r)
		}
	}()
	err := p.fn(p.ctx, p)
	p.done <- err
}
