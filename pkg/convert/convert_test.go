package convert

import (
	"strings"
	"testing"

	"github.com/hdlgo/hdlgo/pkg/config"
	"github.com/hdlgo/hdlgo/pkg/hdlir"
	"github.com/hdlgo/hdlgo/pkg/hier"
	"github.com/hdlgo/hdlgo/pkg/signal"
)

func TestConvertEmitsVerilogForCleanDesign(t *testing.T) {
	bank := signal.NewBank()
	ctx := hier.NewCtx(bank, "dff")
	clk := ctx.Signal("clk", signal.BitValue(false))
	d := ctx.Signal("d", signal.BitValue(false))
	q := ctx.Signal("q", signal.BitValue(false))

	proc := hdlir.ProcBody{
		Name:        "seq",
		Kind:        hier.KindAlwaysSeq,
		Sensitivity: []signal.ID{clk},
		Stmts: []hdlir.Stmt{
			&hdlir.Assign{Target: q, Value: hdlir.Sig(d, "d")},
		},
	}
	ctx.Process(hier.ProcessDecl{Name: "seq", Kind: hier.KindAlwaysSeq, Reads: []signal.ID{clk, d}, Writes: []signal.ID{q}, Sensitivity: []signal.ID{clk}})
	// A monitor process stands in for the external testbench that would
	// normally read the output port; without it, q would look unread.
	ctx.Process(hier.ProcessDecl{Name: "monitor", Kind: hier.KindInstance, Reads: []signal.ID{q}})

	design := Design{Bank: bank, Root: ctx.Root(), Procs: []hdlir.ProcBody{proc}}
	result, err := Convert(design, "verilog", config.DefaultOptions())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	src, ok := result.Files["dff.v"]
	if !ok {
		t.Fatalf("expected dff.v in output, got %v", keysOf(result.Files))
	}
	if !strings.Contains(src, "module dff") {
		t.Fatalf("expected module header, got:\n%s", src)
	}
}

func TestConvertFailsOnUnusedInternalSignal(t *testing.T) {
	bank := signal.NewBank()
	ctx := hier.NewCtx(bank, "top")
	ctx.Instantiate("sub", func(c *hier.Ctx) {
		c.Signal("orphan", signal.BitValue(false))
	})

	design := Design{Bank: bank, Root: ctx.Root()}
	if _, err := Convert(design, "verilog", config.DefaultOptions()); err == nil {
		t.Fatalf("expected a validation error for the unused internal signal")
	}
}

func TestConvertGeneratesTestbenchWhenRequested(t *testing.T) {
	bank := signal.NewBank()
	ctx := hier.NewCtx(bank, "buf")
	a := ctx.Signal("a", signal.BitValue(false))
	y := ctx.Signal("y", signal.BitValue(false))
	proc := hdlir.ProcBody{
		Name:        "comb",
		Kind:        hier.KindAlwaysComb,
		Sensitivity: []signal.ID{a},
		Stmts: []hdlir.Stmt{
			&hdlir.Assign{Target: y, Value: hdlir.Sig(a, "a")},
		},
	}
	ctx.Process(hier.ProcessDecl{Name: "comb", Kind: hier.KindAlwaysComb, Reads: []signal.ID{a}, Writes: []signal.ID{y}, Sensitivity: []signal.ID{a}})
	ctx.Process(hier.ProcessDecl{Name: "monitor", Kind: hier.KindInstance, Reads: []signal.ID{y}})

	opts := config.DefaultOptions()
	opts.Testbench = true
	design := Design{Bank: bank, Root: ctx.Root(), Procs: []hdlir.ProcBody{proc}}
	result, err := Convert(design, "verilog", opts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	tb, ok := result.Files["buf_tb.v"]
	if !ok {
		t.Fatalf("expected buf_tb.v in output, got %v", keysOf(result.Files))
	}
	if !strings.Contains(tb, "dut") {
		t.Fatalf("expected the testbench to instantiate dut, got:\n%s", tb)
	}
}

func keysOf(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
