package emit

import (
	"fmt"
	"strings"

	"github.com/hdlgo/hdlgo/pkg/config"
	"github.com/hdlgo/hdlgo/pkg/hdlir"
	"github.com/hdlgo/hdlgo/pkg/hier"
)

func init() {
	RegisterBackend(&systemVerilogBackend{})
}

// systemVerilogBackend reuses the Verilog backend's statement/expression
// walkers (same grammar, same hdlir shapes) and only changes the always
// block keywords to SystemVerilog's kind-specific forms.
type systemVerilogBackend struct{}

func (*systemVerilogBackend) Name() string          { return "systemverilog" }
func (*systemVerilogBackend) FileExtension() string { return ".sv" }

func (b *systemVerilogBackend) Generate(m *hdlir.Module, opts *config.ConvertOptions) (string, error) {
	name := m.Name
	timescale := "1ns/10ps"
	if opts != nil {
		if opts.Name != "" {
			name = opts.Name
		}
		if opts.Timescale != "" {
			timescale = opts.Timescale
		}
	}

	var w strings.Builder
	fmt.Fprintf(&w, "`timescale %s\n\n", timescale)
	fmt.Fprintf(&w, "module %s (\n", sanitize(name))
	writePortList(&w, m)
	w.WriteString(");\n\n")

	writePortDecls(&w, m)
	writeInternalDecls(&w, m)
	w.WriteString("\n")

	for _, rom := range m.ROMs {
		if err := writeROM(&w, m, rom); err != nil {
			return "", err
		}
	}

	for _, p := range m.Procs {
		if p.Kind == hier.KindInstance {
			continue
		}
		if err := writeSVProc(&w, m, p); err != nil {
			return "", err
		}
	}

	w.WriteString("endmodule\n")
	return w.String(), nil
}

// writeSVProc differs from the Verilog backend only in its always-block
// header: always_comb/always_ff are unambiguous about intent, so SystemVerilog
// output uses them in place of plain always.
func writeSVProc(w *strings.Builder, m *hdlir.Module, p hdlir.ProcBody) error {
	switch p.Kind {
	case hier.KindAlwaysComb:
		w.WriteString("always_comb begin\n")
	case hier.KindAlwaysSeq:
		if len(p.Sensitivity) == 0 {
			return &UnsupportedConstruct{Kind: "always_seq", Process: p.Name, Detail: "missing clock signal"}
		}
		clk := sanitize(m.Names[p.Sensitivity[0]])
		if p.Reset != nil {
			fmt.Fprintf(w, "always_ff @(posedge %s or posedge %s) begin\n", clk, sanitize(m.Names[*p.Reset]))
		} else {
			fmt.Fprintf(w, "always_ff @(posedge %s) begin\n", clk)
		}
	case hier.KindAlways:
		names := make([]string, 0, len(p.Sensitivity))
		for _, id := range p.Sensitivity {
			names = append(names, sanitize(m.Names[id]))
		}
		fmt.Fprintf(w, "always @(%s) begin\n", strings.Join(names, " or "))
	default:
		return &UnsupportedConstruct{Kind: p.Kind.String(), Process: p.Name, Detail: "not synthesizable"}
	}

	for _, s := range p.Stmts {
		if err := writeStmt(w, m, p.Name, s, 1); err != nil {
			return err
		}
	}
	w.WriteString("end\n\n")
	return nil
}
