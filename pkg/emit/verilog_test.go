package emit

import (
	"strings"
	"testing"

	"github.com/hdlgo/hdlgo/pkg/bitvec"
	"github.com/hdlgo/hdlgo/pkg/config"
	"github.com/hdlgo/hdlgo/pkg/hdlir"
	"github.com/hdlgo/hdlgo/pkg/hier"
	"github.com/hdlgo/hdlgo/pkg/signal"
)

// TestConvertROMScenario reproduces the ROM-conversion scenario: 8 constants
// indexed by a 3-bit selector become a case statement with one branch per
// entry plus a default; given sel=5 the synthesized hardware reads 60.
func TestConvertROMScenario(t *testing.T) {
	bank := signal.NewBank()
	ctx := hier.NewCtx(bank, "rom_lookup")

	selVec, err := bitvec.NewWidth(5, 3)
	if err != nil {
		t.Fatalf("NewWidth: %v", err)
	}
	sel := ctx.Signal("sel", signal.VecValue(selVec))

	outVec, err := bitvec.NewWidth(0, 8)
	if err != nil {
		t.Fatalf("NewWidth: %v", err)
	}
	out := ctx.Signal("out", signal.VecValue(outVec))

	values := []int64{10, 20, 30, 40, 50, 60, 70, 80}
	rom := hdlir.ROM{Name: "out", Selector: sel, Values: values}

	proc := hdlir.ProcBody{
		Name:        "lookup",
		Kind:        hier.KindAlwaysComb,
		Sensitivity: []signal.ID{sel},
	}

	m := hdlir.BuildModule("rom_lookup", bank, ctx.Root(), hier.AbsNames(ctx.Root()), []hdlir.ProcBody{proc}, []hdlir.ROM{rom})
	m.Names[out] = "out"

	backend, err := Get("verilog")
	if err != nil {
		t.Fatalf("Get(verilog): %v", err)
	}
	src, err := backend.Generate(m, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !strings.Contains(src, "case (sel)") {
		t.Fatalf("expected a case statement keyed on sel, got:\n%s", src)
	}
	if strings.Count(src, ": r_out =") != len(values)+1 {
		t.Fatalf("expected %d labelled branches plus a default, got:\n%s", len(values), src)
	}
	if !strings.Contains(src, "5: r_out = 60;") {
		t.Fatalf("expected branch for index 5 with value 60, got:\n%s", src)
	}
	if !strings.Contains(src, "default: r_out = 80;") {
		t.Fatalf("expected default branch falling back to the last entry, got:\n%s", src)
	}
}

func TestVerilogEmitsPortDirectionsAndWidths(t *testing.T) {
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
	m := hdlir.BuildModule("dff", bank, ctx.Root(), hier.AbsNames(ctx.Root()), []hdlir.ProcBody{proc}, nil)

	backend, err := Get("verilog")
	if err != nil {
		t.Fatalf("Get(verilog): %v", err)
	}
	src, err := backend.Generate(m, &config.ConvertOptions{Timescale: "1ns/1ps"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !strings.Contains(src, "`timescale 1ns/1ps") {
		t.Fatalf("expected custom timescale, got:\n%s", src)
	}
	if !strings.Contains(src, "input clk;") {
		t.Fatalf("expected clk declared as a 1-bit input, got:\n%s", src)
	}
	if !strings.Contains(src, "output reg q;") {
		t.Fatalf("expected q declared as a driven reg output, got:\n%s", src)
	}
	if !strings.Contains(src, "always @(posedge clk) begin") {
		t.Fatalf("expected a posedge-clk always block, got:\n%s", src)
	}
	if !strings.Contains(src, "q = d;") {
		t.Fatalf("expected the body assignment, got:\n%s", src)
	}
}

func TestVerilogRejectsInstanceProcessesFromSynthesizableOutput(t *testing.T) {
	bank := signal.NewBank()
	ctx := hier.NewCtx(bank, "top")
	a := ctx.Signal("a", signal.BitValue(false))

	instanceProc := hdlir.ProcBody{Name: "stim", Kind: hier.KindInstance, Stmts: []hdlir.Stmt{
		&hdlir.Assign{Target: a, Value: hdlir.ConstVal(mustBit(t, 1))},
	}}
	m := hdlir.BuildModule("top", bank, ctx.Root(), hier.AbsNames(ctx.Root()), []hdlir.ProcBody{instanceProc}, nil)

	backend, _ := Get("verilog")
	src, err := backend.Generate(m, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Contains(src, "stim") {
		t.Fatalf("instance process body leaked into synthesizable output:\n%s", src)
	}
}

func mustBit(t *testing.T, v int64) *bitvec.BitVec {
	t.Helper()
	bv, err := bitvec.NewWidth(v, 1)
	if err != nil {
		t.Fatalf("NewWidth: %v", err)
	}
	return bv
}
