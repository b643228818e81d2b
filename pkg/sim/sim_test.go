package sim

import (
	"testing"

	"github.com/hdlgo/hdlgo/pkg/bitvec"
	"github.com/hdlgo/hdlgo/pkg/signal"
)

func newBitSignal(bank *signal.Bank, name string, init bool) signal.ID {
	return bank.Register(signal.NewSignal(name, signal.BitValue(init)))
}

// TestDFlipFlop reproduces the D flip-flop walkthrough: q should pick up
// d's value only on the rising edge of clk, never in between.
func TestDFlipFlop(t *testing.T) {
	bank := signal.NewBank()
	clk := newBitSignal(bank, "clk", false)
	d := newBitSignal(bank, "d", false)
	q := newBitSignal(bank, "q", false)

	dff := NewAlwaysSeq("dff", OnPosedge(clk), nil, nil, nil, func(ctx *RunCtx) error {
		return ctx.Write(q, ctx.Read(d))
	})

	stim := NewInstance("stim", func(ctx *RunCtx, y Yielder) error {
		if err := ctx.Write(d, signal.BitValue(true)); err != nil {
			return err
		}
		if err := y.Yield(Delay(5)); err != nil {
			return err
		}
		if ctx.Read(q).Bool() {
			t.Fatalf("q changed before the clock edge")
		}
		if err := ctx.Write(clk, signal.BitValue(true)); err != nil {
			return err
		}
		if err := y.Yield(Delay(1)); err != nil {
			return err
		}
		return StopSimulation
	})

	sched := NewScheduler(bank)
	if err := sched.Spawn(dff); err != nil {
		t.Fatalf("spawn dff: %v", err)
	}
	if err := sched.Spawn(stim); err != nil {
		t.Fatalf("spawn stim: %v", err)
	}
	if err := sched.Run(20); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !bank.Get(q).Val().Bool() {
		t.Fatalf("q did not latch d on the clock edge")
	}
}

// TestCounterWrap drives a 2-bit modular counter through a full cycle and
// checks it wraps 3 -> 0 instead of failing, matching modbv semantics.
func TestCounterWrap(t *testing.T) {
	bank := signal.NewBank()
	clk := newBitSignal(bank, "clk", false)

	initVec, err := bitvec.NewModular(0, 0, 4)
	if err != nil {
		t.Fatalf("new modular: %v", err)
	}
	count := bank.Register(signal.NewSignal("count", signal.VecValue(initVec)))

	var seen []int64
	counter := NewAlwaysSeq("counter", OnPosedge(clk), nil, nil, nil, func(ctx *RunCtx) error {
		cur := ctx.Read(count).Vec()
		next, err := bitvec.NewModular(cur.Value()+1, cur.Min(), cur.Max())
		if err != nil {
			return err
		}
		seen = append(seen, next.Value())
		return ctx.Write(count, signal.VecValue(next))
	})

	edges := 0
	stim := NewInstance("stim", func(ctx *RunCtx, y Yielder) error {
		for edges < 5 {
			if err := y.Yield(Delay(1)); err != nil {
				return err
			}
			cur := ctx.Read(clk).Bool()
			if err := ctx.Write(clk, signal.BitValue(!cur)); err != nil {
				return err
			}
			if !cur {
				edges++
			}
		}
		if err := y.Yield(Delay(1)); err != nil {
			return err
		}
		return StopSimulation
	})

	sched := NewScheduler(bank)
	if err := sched.Spawn(counter); err != nil {
		t.Fatalf("spawn counter: %v", err)
	}
	if err := sched.Spawn(stim); err != nil {
		t.Fatalf("spawn stim: %v", err)
	}
	if err := sched.Run(50); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []int64{1, 2, 3, 0, 1}
	if len(seen) != len(want) {
		t.Fatalf("got %d edges, want %d: %v", len(seen), len(want), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("edge %d: got %d, want %d (full sequence %v)", i, seen[i], want[i], seen)
		}
	}
}

// TestDelayCoalescing reproduces the inertial-cancellation scenario: a
// second write to a delayed signal, made before the first write's delay
// has elapsed, must discard the first write's scheduled apply entirely
// rather than letting both take effect.
func TestDelayCoalescing(t *testing.T) {
	bank := signal.NewBank()
	out := bank.Register(signal.NewDelayedSignal("out", signal.BitValue(false), 10))

	var atTen, atThirteen bool
	stim := NewInstance("stim", func(ctx *RunCtx, y Yielder) error {
		if err := ctx.Write(out, signal.BitValue(true)); err != nil { // apply scheduled for t=10
			return err
		}
		if err := y.Yield(Delay(3)); err != nil {
			return err
		}
		if err := ctx.Write(out, signal.BitValue(false)); err != nil { // supersedes it; apply at t=13
			return err
		}
		if err := y.Yield(Delay(7)); err != nil { // now at t=10
			return err
		}
		atTen = ctx.Read(out).Bool()
		if err := y.Yield(Delay(3)); err != nil { // now at t=13
			return err
		}
		atThirteen = ctx.Read(out).Bool()
		return StopSimulation
	})

	sched := NewScheduler(bank)
	if err := sched.Spawn(stim); err != nil {
		t.Fatalf("spawn stim: %v", err)
	}
	if err := sched.Run(20); err != nil {
		t.Fatalf("run: %v", err)
	}

	if atTen {
		t.Fatalf("stale write at t=10 was not discarded")
	}
	if atThirteen {
		t.Fatalf("final write at t=13 was not applied")
	}
}

// TestAlwaysCombTracksInferredSensitivity checks that an always_comb body
// re-runs when any signal it read last time changes, without it ever being
// declared explicitly.
func TestAlwaysCombTracksInferredSensitivity(t *testing.T) {
	bank := signal.NewBank()
	a := newBitSignal(bank, "a", false)
	b := newBitSignal(bank, "b", false)
	y := newBitSignal(bank, "y", false)

	runs := 0
	comb := NewAlwaysComb("comb", func(ctx *RunCtx) error {
		runs++
		av := ctx.Read(a).Bool()
		bv := ctx.Read(b).Bool()
		return ctx.Write(y, signal.BitValue(av || bv))
	})

	stim := NewInstance("stim", func(ctx *RunCtx, yl Yielder) error {
		if err := yl.Yield(Delay(1)); err != nil {
			return err
		}
		if err := ctx.Write(a, signal.BitValue(true)); err != nil {
			return err
		}
		if err := yl.Yield(Delay(1)); err != nil {
			return err
		}
		if err := ctx.Write(b, signal.BitValue(true)); err != nil {
			return err
		}
		if err := yl.Yield(Delay(1)); err != nil {
			return err
		}
		return StopSimulation
	})

	sched := NewScheduler(bank)
	if err := sched.Spawn(comb); err != nil {
		t.Fatalf("spawn comb: %v", err)
	}
	if err := sched.Spawn(stim); err != nil {
		t.Fatalf("spawn stim: %v", err)
	}
	if err := sched.Run(10); err != nil {
		t.Fatalf("run: %v", err)
	}

	if !bank.Get(y).Val().Bool() {
		t.Fatalf("y was never driven high")
	}
	if runs < 3 {
		t.Fatalf("comb body ran %d times, want at least 3 (initial + 2 reactions)", runs)
	}
}
