package emit

import (
	"fmt"
	"strings"

	"github.com/hdlgo/hdlgo/pkg/config"
	"github.com/hdlgo/hdlgo/pkg/hdlir"
	"github.com/hdlgo/hdlgo/pkg/hier"
)

func init() {
	RegisterBackend(&vhdlBackend{})
}

type vhdlBackend struct{}

func (*vhdlBackend) Name() string          { return "vhdl" }
func (*vhdlBackend) FileExtension() string { return ".vhd" }

// Generate renders m as a VHDL entity/architecture pair. It covers the same
// construct set as the Verilog backend but is deliberately less exhaustive
// on styling — VHDL is this convertor's secondary target.
func (b *vhdlBackend) Generate(m *hdlir.Module, opts *config.ConvertOptions) (string, error) {
	name := m.Name
	if opts != nil && opts.Name != "" {
		name = opts.Name
	}
	name = sanitize(name)

	var w strings.Builder
	w.WriteString("library ieee;\n")
	w.WriteString("use ieee.std_logic_1164.all;\n")
	w.WriteString("use ieee.numeric_std.all;\n\n")

	fmt.Fprintf(&w, "entity %s is\n", name)
	w.WriteString("    port (\n")
	for i, p := range m.Ports {
		sep := ";"
		if i == len(m.Ports)-1 {
			sep = ""
		}
		fmt.Fprintf(&w, "        %s : %s %s%s\n", sanitize(p.Name), vhdlDir(p.Dir), vhdlType(p.Width), sep)
	}
	w.WriteString("    );\n")
	fmt.Fprintf(&w, "end entity %s;\n\n", name)

	fmt.Fprintf(&w, "architecture rtl of %s is\n", name)
	for _, r := range m.Internal {
		fmt.Fprintf(&w, "    signal %s : %s;\n", sanitize(r.Name), vhdlType(r.Width))
	}
	w.WriteString("begin\n\n")

	for _, rom := range m.ROMs {
		if err := writeVHDLROM(&w, m, rom); err != nil {
			return "", err
		}
	}

	for _, p := range m.Procs {
		if p.Kind == hier.KindInstance {
			continue
		}
		if err := writeVHDLProc(&w, m, p); err != nil {
			return "", err
		}
	}

	fmt.Fprintf(&w, "end architecture rtl;\n")
	return w.String(), nil
}

func vhdlDir(d hdlir.Direction) string {
	switch d {
	case hdlir.DirOut:
		return "out"
	case hdlir.DirInOut:
		return "inout"
	default:
		return "in"
	}
}

func vhdlType(width int) string {
	if width <= 1 {
		return "std_logic"
	}
	return fmt.Sprintf("std_logic_vector(%d downto 0)", width-1)
}

func writeVHDLROM(w *strings.Builder, m *hdlir.Module, rom hdlir.ROM) error {
	selName, ok := m.Names[rom.Selector]
	if !ok || selName == "" {
		return &UnsupportedConstruct{Kind: "rom", Process: rom.Name, Detail: "selector signal has no resolvable name"}
	}
	fmt.Fprintf(w, "    process(%s)\n", sanitize(selName))
	w.WriteString("    begin\n")
	fmt.Fprintf(w, "        case to_integer(unsigned(%s)) is\n", sanitize(selName))
	for i, v := range rom.Values {
		fmt.Fprintf(w, "            when %d => %s <= to_unsigned(%d, %d);\n", i, sanitize(rom.Name), v, romWidth(rom.Values))
	}
	fmt.Fprintf(w, "            when others => %s <= to_unsigned(%d, %d);\n", sanitize(rom.Name), rom.Values[len(rom.Values)-1], romWidth(rom.Values))
	w.WriteString("        end case;\n")
	w.WriteString("    end process;\n\n")
	return nil
}

func writeVHDLProc(w *strings.Builder, m *hdlir.Module, p hdlir.ProcBody) error {
	switch p.Kind {
	case hier.KindAlwaysComb:
		names := make([]string, 0, len(p.Sensitivity))
		for _, id := range p.Sensitivity {
			names = append(names, sanitize(m.Names[id]))
		}
		fmt.Fprintf(w, "    process(%s)\n", strings.Join(names, ", "))
	case hier.KindAlwaysSeq:
		if len(p.Sensitivity) == 0 {
			return &UnsupportedConstruct{Kind: "always_seq", Process: p.Name, Detail: "missing clock signal"}
		}
		clk := sanitize(m.Names[p.Sensitivity[0]])
		if p.Reset != nil {
			fmt.Fprintf(w, "    process(%s, %s)\n", clk, sanitize(m.Names[*p.Reset]))
		} else {
			fmt.Fprintf(w, "    process(%s)\n", clk)
		}
	case hier.KindAlways:
		names := make([]string, 0, len(p.Sensitivity))
		for _, id := range p.Sensitivity {
			names = append(names, sanitize(m.Names[id]))
		}
		fmt.Fprintf(w, "    process(%s)\n", strings.Join(names, ", "))
	default:
		return &UnsupportedConstruct{Kind: p.Kind.String(), Process: p.Name, Detail: "not synthesizable"}
	}

	w.WriteString("    begin\n")
	for _, s := range p.Stmts {
		if err := writeVHDLStmt(w, m, p.Name, s, 2); err != nil {
			return err
		}
	}
	w.WriteString("    end process;\n\n")
	return nil
}

func writeVHDLStmt(w *strings.Builder, m *hdlir.Module, proc string, s hdlir.Stmt, indent int) error {
	ind := strings.Repeat("    ", indent)
	switch st := s.(type) {
	case *hdlir.Assign:
		target, ok := m.Names[st.Target]
		if !ok {
			return &UnsupportedConstruct{Kind: "assign", Process: proc, Detail: "target has no resolvable name"}
		}
		val, err := writeVHDLExpr(m, proc, st.Value)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s%s <= %s;\n", ind, sanitize(target), val)
	case *hdlir.If:
		cond, err := writeVHDLExpr(m, proc, st.Cond)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%sif %s then\n", ind, cond)
		for _, s2 := range st.Then {
			if err := writeVHDLStmt(w, m, proc, s2, indent+1); err != nil {
				return err
			}
		}
		if len(st.Else) > 0 {
			fmt.Fprintf(w, "%selse\n", ind)
			for _, s2 := range st.Else {
				if err := writeVHDLStmt(w, m, proc, s2, indent+1); err != nil {
					return err
				}
			}
		}
		fmt.Fprintf(w, "%send if;\n", ind)
	case *hdlir.Case:
		sel, err := writeVHDLExpr(m, proc, st.Selector)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%scase %s is\n", ind, sel)
		for _, arm := range st.Arms {
			fmt.Fprintf(w, "%s    when %d =>\n", ind, arm.Value.Value.Value())
			for _, s2 := range arm.Body {
				if err := writeVHDLStmt(w, m, proc, s2, indent+2); err != nil {
					return err
				}
			}
		}
		if len(st.Default) > 0 {
			fmt.Fprintf(w, "%s    when others =>\n", ind)
			for _, s2 := range st.Default {
				if err := writeVHDLStmt(w, m, proc, s2, indent+2); err != nil {
					return err
				}
			}
		}
		fmt.Fprintf(w, "%send case;\n", ind)
	default:
		return &UnsupportedConstruct{Kind: fmt.Sprintf("%T", s), Process: proc, Detail: "unhandled statement node"}
	}
	return nil
}

func writeVHDLExpr(m *hdlir.Module, proc string, e hdlir.Expr) (string, error) {
	switch x := e.(type) {
	case *hdlir.SigRef:
		name := m.Names[x.ID]
		if name == "" {
			name = x.Name
		}
		return sanitize(name), nil
	case *hdlir.Const:
		return fmt.Sprintf("to_unsigned(%d, %d)", x.Value.Unsigned(), maxInt1(x.Value.NrBits(), 1)), nil
	case *hdlir.BinExpr:
		l, err := writeVHDLExpr(m, proc, x.L)
		if err != nil {
			return "", err
		}
		r, err := writeVHDLExpr(m, proc, x.R)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", l, vhdlOp(x.Op), r), nil
	case *hdlir.SliceExpr:
		xs, err := writeVHDLExpr(m, proc, x.X)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%d downto %d)", xs, x.Hi-1, x.Lo), nil
	case *hdlir.NotExpr:
		xs, err := writeVHDLExpr(m, proc, x.X)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(not %s)", xs), nil
	default:
		return "", &UnsupportedConstruct{Kind: fmt.Sprintf("%T", e), Process: proc, Detail: "unhandled expression node"}
	}
}

func vhdlOp(op hdlir.Op) string {
	switch op.String() {
	case "+":
		return "+"
	case "-":
		return "-"
	case "*":
		return "*"
	case "/":
		return "/"
	case "%":
		return "mod"
	case "&":
		return "and"
	case "|":
		return "or"
	case "^":
		return "xor"
	case "==":
		return "="
	case "!=":
		return "/="
	default:
		return op.String()
	}
}

func maxInt1(a, b int) int {
	if a > b {
		return a
	}
	return b
}
