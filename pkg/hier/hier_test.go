package hier

import (
	"testing"

	"github.com/hdlgo/hdlgo/pkg/signal"
)

func TestAbsNamesPathQualifiesAcrossInstances(t *testing.T) {
	bank := signal.NewBank()
	ctx := NewCtx(bank, "top")

	clk := ctx.Signal("clk", signal.BitValue(false))
	var counter signal.ID
	ctx.Instantiate("cnt0", func(c *Ctx) {
		counter = c.Signal("count", signal.BitValue(false))
	})

	names := AbsNames(ctx.Root())
	if got, want := names[clk], "top.clk"; got != want {
		t.Fatalf("clk name = %q, want %q", got, want)
	}
	if got, want := names[counter], "top.cnt0.count"; got != want {
		t.Fatalf("counter name = %q, want %q", got, want)
	}
}

func TestInstantiateRejectsDuplicateNames(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate instance name")
		}
	}()
	bank := signal.NewBank()
	ctx := NewCtx(bank, "top")
	ctx.Instantiate("dup", func(c *Ctx) {})
	ctx.Instantiate("dup", func(c *Ctx) {})
}

func TestMemoryDeclaresNSignalsOfWidth(t *testing.T) {
	bank := signal.NewBank()
	ctx := NewCtx(bank, "top")
	ids, err := ctx.Memory("mem", 4, 8)
	if err != nil {
		t.Fatalf("Memory: %v", err)
	}
	if len(ids) != 4 {
		t.Fatalf("got %d signals, want 4", len(ids))
	}
	mems := ctx.Root().Memories()
	if len(mems) != 1 || mems[0].Name != "mem" {
		t.Fatalf("memory not recorded: %+v", mems)
	}
}

func TestStructSignalNamedByOwnerDotField(t *testing.T) {
	bank := signal.NewBank()
	ctx := NewCtx(bank, "top")
	id := ctx.StructSignal("bus", "ready", signal.BitValue(false))
	names := AbsNames(ctx.Root())
	if got, want := names[id], "top.bus.ready"; got != want {
		t.Fatalf("name = %q, want %q", got, want)
	}
}

func TestFindResolvesDottedInstancePath(t *testing.T) {
	bank := signal.NewBank()
	ctx := NewCtx(bank, "top")
	ctx.Instantiate("a", func(c *Ctx) {
		c.Instantiate("b", func(c2 *Ctx) {})
	})
	if Find(ctx.Root(), "top.a.b") == nil {
		t.Fatalf("expected to find top.a.b")
	}
	if Find(ctx.Root(), "top.a.missing") != nil {
		t.Fatalf("expected nil for unknown path")
	}
}
