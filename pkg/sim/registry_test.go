package sim

import (
	"testing"

	"github.com/hdlgo/hdlgo/pkg/signal"
)

func TestRegistryBuildsARegisteredSimulation(t *testing.T) {
	Register("registry-test-counter", func() *Scheduler {
		bank := signal.NewBank()
		clk := newBitSignal(bank, "clk", false)
		sched := NewScheduler(bank)
		if err := sched.Spawn(NewAlways("tick", Delay(1), func(ctx *RunCtx) error {
			return ctx.Write(clk, signal.BitValue(!ctx.Read(clk).Bool()))
		})); err != nil {
			t.Fatalf("Spawn: %v", err)
		}
		return sched
	})

	sched, err := Build("registry-test-counter")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if sched.Bank() == nil {
		t.Fatalf("expected the built scheduler to expose its bank")
	}

	names := RegisteredNames()
	found := false
	for _, n := range names {
		if n == "registry-test-counter" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected registry-test-counter in %v", names)
	}
}

func TestBuildRejectsUnknownName(t *testing.T) {
	if _, err := Build("no-such-simulation"); err == nil {
		t.Fatalf("expected an error for an unregistered name")
	}
}
