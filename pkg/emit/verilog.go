// The Verilog backend is the primary target: it walks an annotated
// hdlir.Module and renders a synthesizable module body.
package emit

import (
	"fmt"
	"strings"

	"github.com/hdlgo/hdlgo/pkg/config"
	"github.com/hdlgo/hdlgo/pkg/hdlir"
	"github.com/hdlgo/hdlgo/pkg/hier"
)

func init() {
	RegisterBackend(&verilogBackend{})
}

type verilogBackend struct{}

func (*verilogBackend) Name() string          { return "verilog" }
func (*verilogBackend) FileExtension() string { return ".v" }

// Generate renders m as a single Verilog module. KindInstance processes
// (stimulus/driver generators) are skipped: they aren't synthesizable and
// belong in a testbench instead. The testbench pkg/convert writes when
// config.ConvertOptions.Testbench is set is a reset-and-idle skeleton that
// does not include them either.
func (b *verilogBackend) Generate(m *hdlir.Module, opts *config.ConvertOptions) (string, error) {
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
		if err := writeProc(&w, m, p); err != nil {
			return "", err
		}
	}

	w.WriteString("endmodule\n")
	return w.String(), nil
}

// sanitize turns a hierarchical dotted name ("top.sub.counter") into a
// valid Verilog identifier; Verilog identifiers cannot contain dots.
func sanitize(name string) string {
	return strings.ReplaceAll(name, ".", "_")
}

func widthBracket(width int) string {
	if width <= 1 {
		return ""
	}
	return fmt.Sprintf("[%d:0] ", width-1)
}

func writePortList(w *strings.Builder, m *hdlir.Module) {
	for i, p := range m.Ports {
		sep := ","
		if i == len(m.Ports)-1 {
			sep = ""
		}
		fmt.Fprintf(w, "    %s%s\n", sanitize(p.Name), sep)
	}
}

func writePortDecls(w *strings.Builder, m *hdlir.Module) {
	for _, p := range m.Ports {
		reg := ""
		if p.Dir == hdlir.DirOut {
			// An inout port can't generally be declared reg (it would need
			// tristate logic this IR doesn't model), so only plain outputs
			// get the reg keyword.
			reg = "reg "
		}
		fmt.Fprintf(w, "%s %s%s%s;\n", p.Dir, reg, widthBracket(p.Width), sanitize(p.Name))
	}
}

func writeInternalDecls(w *strings.Builder, m *hdlir.Module) {
	for _, r := range m.Internal {
		fmt.Fprintf(w, "reg %s%s;\n", widthBracket(r.Width), sanitize(r.Name))
	}
}

func romWidth(values []int64) int {
	var max int64
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	width := 1
	for (int64(1) << uint(width)) <= max {
		width++
	}
	return width
}

// writeROM renders a constant table indexed by a signal as a combinational
// case statement.
func writeROM(w *strings.Builder, m *hdlir.Module, rom hdlir.ROM) error {
	selName, ok := m.Names[rom.Selector]
	if !ok || selName == "" {
		return &UnsupportedConstruct{Kind: "rom", Process: rom.Name, Detail: "selector signal has no resolvable name"}
	}
	fmt.Fprintf(w, "reg %sr_%s;\n", widthBracket(romWidth(rom.Values)), sanitize(rom.Name))
	fmt.Fprintf(w, "always @(*) begin\n")
	fmt.Fprintf(w, "    case (%s)\n", sanitize(selName))
	for i, v := range rom.Values {
		fmt.Fprintf(w, "        %d: r_%s = %d;\n", i, sanitize(rom.Name), v)
	}
	fmt.Fprintf(w, "        default: r_%s = %d;\n", sanitize(rom.Name), rom.Values[len(rom.Values)-1])
	w.WriteString("    endcase\n")
	w.WriteString("end\n\n")
	return nil
}

// writeProc renders one process as an always block. The header's
// sensitivity/edge form follows the process kind; the body is whatever
// statement tree the convertor attached, including any reset-handling `if`
// the caller already built into an AlwaysSeq's Stmts.
func writeProc(w *strings.Builder, m *hdlir.Module, p hdlir.ProcBody) error {
	switch p.Kind {
	case hier.KindAlwaysComb:
		w.WriteString("always @(*) begin\n")
	case hier.KindAlwaysSeq:
		if len(p.Sensitivity) == 0 {
			return &UnsupportedConstruct{Kind: "always_seq", Process: p.Name, Detail: "missing clock signal"}
		}
		clk := sanitize(m.Names[p.Sensitivity[0]])
		if p.Reset != nil {
			fmt.Fprintf(w, "always @(posedge %s or posedge %s) begin\n", clk, sanitize(m.Names[*p.Reset]))
		} else {
			fmt.Fprintf(w, "always @(posedge %s) begin\n", clk)
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

func writeStmt(w *strings.Builder, m *hdlir.Module, proc string, s hdlir.Stmt, indent int) error {
	ind := strings.Repeat("    ", indent)
	switch st := s.(type) {
	case *hdlir.Assign:
		target, ok := m.Names[st.Target]
		if !ok {
			return &UnsupportedConstruct{Kind: "assign", Process: proc, Detail: "target has no resolvable name"}
		}
		val, err := writeExpr(m, proc, st.Value)
		if err != nil {
			return err
		}
		if st.TargetHi != 0 || st.TargetLo != 0 {
			fmt.Fprintf(w, "%s%s[%d:%d] = %s;\n", ind, sanitize(target), st.TargetHi-1, st.TargetLo, val)
		} else {
			fmt.Fprintf(w, "%s%s = %s;\n", ind, sanitize(target), val)
		}
	case *hdlir.If:
		cond, err := writeExpr(m, proc, st.Cond)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%sif (%s) begin\n", ind, cond)
		for _, s2 := range st.Then {
			if err := writeStmt(w, m, proc, s2, indent+1); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%send", ind)
		if len(st.Else) > 0 {
			fmt.Fprintf(w, " else begin\n")
			for _, s2 := range st.Else {
				if err := writeStmt(w, m, proc, s2, indent+1); err != nil {
					return err
				}
			}
			fmt.Fprintf(w, "%send\n", ind)
		} else {
			w.WriteString("\n")
		}
	case *hdlir.Case:
		sel, err := writeExpr(m, proc, st.Selector)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%scase (%s)\n", ind, sel)
		for _, arm := range st.Arms {
			fmt.Fprintf(w, "%s    %d: begin\n", ind, arm.Value.Value.Value())
			for _, s2 := range arm.Body {
				if err := writeStmt(w, m, proc, s2, indent+2); err != nil {
					return err
				}
			}
			fmt.Fprintf(w, "%s    end\n", ind)
		}
		if len(st.Default) > 0 {
			fmt.Fprintf(w, "%s    default: begin\n", ind)
			for _, s2 := range st.Default {
				if err := writeStmt(w, m, proc, s2, indent+2); err != nil {
					return err
				}
			}
			fmt.Fprintf(w, "%s    end\n", ind)
		}
		fmt.Fprintf(w, "%sendcase\n", ind)
	default:
		return &UnsupportedConstruct{Kind: fmt.Sprintf("%T", s), Process: proc, Detail: "unhandled statement node"}
	}
	return nil
}

func writeExpr(m *hdlir.Module, proc string, e hdlir.Expr) (string, error) {
	switch x := e.(type) {
	case *hdlir.SigRef:
		name := m.Names[x.ID]
		if name == "" {
			name = x.Name
		}
		return sanitize(name), nil
	case *hdlir.Const:
		w := x.Value.NrBits()
		if w <= 0 {
			w = 1
		}
		return fmt.Sprintf("%d'd%d", w, x.Value.Unsigned()), nil
	case *hdlir.BinExpr:
		l, err := writeExpr(m, proc, x.L)
		if err != nil {
			return "", err
		}
		r, err := writeExpr(m, proc, x.R)
		if err != nil {
			return "", err
		}
		if x.PromoteUnsigned {
			if !x.L.Ann().Signed {
				l = fmt.Sprintf("{1'b0, %s}", l)
			} else {
				r = fmt.Sprintf("{1'b0, %s}", r)
			}
		}
		return fmt.Sprintf("(%s %s %s)", l, x.Op, r), nil
	case *hdlir.SliceExpr:
		xs, err := writeExpr(m, proc, x.X)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%d:%d]", xs, x.Hi-1, x.Lo), nil
	case *hdlir.NotExpr:
		xs, err := writeExpr(m, proc, x.X)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(~%s)", xs), nil
	case *hdlir.IndexExpr:
		return "", &UnsupportedConstruct{Kind: "index", Process: proc, Detail: "ROM reads must be registered via Module.ROMs, not inlined in an expression"}
	default:
		return "", &UnsupportedConstruct{Kind: fmt.Sprintf("%T", e), Process: proc, Detail: "unhandled expression node"}
	}
}
