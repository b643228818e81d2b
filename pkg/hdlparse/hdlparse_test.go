package hdlparse

import "testing"

func TestParseModuleHeaderAndDecls(t *testing.T) {
	src := "`timescale 1ns/10ps\n\n" +
		"module dff (\n" +
		"    clk,\n" +
		"    d,\n" +
		"    q\n" +
		");\n\n" +
		"input clk;\n" +
		"input d;\n" +
		"output reg q;\n" +
		"reg [3:0] counter;\n\n" +
		"always @(posedge clk) begin\n" +
		"    q = d;\n" +
		"end\n\n" +
		"endmodule\n"

	m, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Name != "dff" {
		t.Fatalf("Name = %q, want dff", m.Name)
	}
	if len(m.Ports) != 3 {
		t.Fatalf("len(Ports) = %d, want 3", len(m.Ports))
	}
	if m.Ports[2].Name != "q" || m.Ports[2].Dir != DirOut {
		t.Fatalf("q port = %+v, want DirOut", m.Ports[2])
	}
	if len(m.Regs) != 1 || m.Regs[0].Name != "counter" || m.Regs[0].Width != 4 {
		t.Fatalf("Regs = %+v, want one 4-bit counter", m.Regs)
	}
}

func TestParseRejectsMalformedWidth(t *testing.T) {
	src := "module bad (\n    a\n);\n\ninput [x:0] a;\nendmodule\n"
	if _, err := Parse(src); err == nil {
		t.Fatalf("expected an UnexpectedToken error for a non-numeric width")
	}
}
