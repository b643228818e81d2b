// Package hdlparse reads back the subset of Verilog pkg/emit's verilog
// backend produces — module header, port declarations, register
// declarations — just enough to support a round-trip idempotency check:
// Convert(top) then re-extract the same ports and widths. It is a small
// hand-written recursive-descent reader: tokenize a line at a time, then
// walk the token stream. No general parser-generator dependency is
// pulled in, since this module never parses a general-purpose source
// language, only the narrow, machine-generated dialect its own emitter
// writes.
package hdlparse

import (
	"fmt"
	"strconv"
	"strings"
)

// Direction mirrors hdlir.Direction without importing it, keeping this
// package a leaf the emitter's output can be checked against without a
// dependency cycle.
type Direction int

const (
	DirIn Direction = iota
	DirOut
	DirInOut
)

// Port is one parsed module port.
type Port struct {
	Name  string
	Dir   Direction
	Width int
}

// Reg is one parsed internal register declaration.
type Reg struct {
	Name  string
	Width int
}

// Module is the minimal structural read-back of an emitted module.
type Module struct {
	Name  string
	Ports []Port
	Regs  []Reg
}

// UnexpectedToken reports a token the reader didn't recognize at a point
// where the grammar subset requires one of a known few.
type UnexpectedToken struct {
	Want string
	Got  string
	Line int
}

func (e *UnexpectedToken) Error() string {
	return fmt.Sprintf("hdlparse: line %d: expected %s, got %q", e.Line, e.Want, e.Got)
}

type token struct {
	text string
	line int
}

// tokenize splits src into words and single-character punctuation tokens,
// line at a time; there is no string/char-literal handling since this
// grammar never needs it.
func tokenize(src string) []token {
	var toks []token
	for lineNo, line := range strings.Split(src, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		i := 0
		for i < len(line) {
			c := line[i]
			switch {
			case c == ' ' || c == '\t' || c == '\r':
				i++
			case strings.ContainsRune("(),;[]:@*", rune(c)):
				toks = append(toks, token{text: string(c), line: lineNo + 1})
				i++
			default:
				j := i
				for j < len(line) && !strings.ContainsRune(" \t\r(),;[]:@*", rune(line[j])) {
					j++
				}
				toks = append(toks, token{text: line[i:j], line: lineNo + 1})
				i = j
			}
		}
	}
	return toks
}

// Parser walks a tokenized module.
type Parser struct {
	toks []token
	pos  int
}

// Parse reads a module declaration's header, port declarations, and reg
// declarations out of src up to endmodule. Tokens it cannot interpret as a
// declaration (always/case bodies and other statements) are skipped, so
// declarations after them are still collected; the statement grammar is
// out of scope for the round-trip check.
func Parse(src string) (*Module, error) {
	p := &Parser{toks: tokenize(src)}
	return p.parseModule()
}

func (p *Parser) peek() token {
	if p.pos >= len(p.toks) {
		return token{text: ""}
	}
	return p.toks[p.pos]
}

func (p *Parser) next() token {
	t := p.peek()
	p.pos++
	return t
}

func (p *Parser) expect(text string) error {
	t := p.next()
	if t.text != text {
		return &UnexpectedToken{Want: text, Got: t.text, Line: t.line}
	}
	return nil
}

func (p *Parser) parseModule() (*Module, error) {
	if p.peek().text == "`timescale" {
		p.next() // the directive keyword
		p.next() // its value, e.g. "1ns/10ps" — the emitter never terminates this line with ";"
	}
	if err := p.expect("module"); err != nil {
		return nil, err
	}
	name := p.next().text
	if err := p.expect("("); err != nil {
		return nil, err
	}
	// Port name list: identifiers separated by commas, terminated by ")".
	for p.peek().text != ")" && p.peek().text != "" {
		p.next()
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	if err := p.expect(";"); err != nil {
		return nil, err
	}

	m := &Module{Name: name}
	known := map[string]bool{}

	for {
		t := p.peek()
		switch t.text {
		case "input", "output", "inout":
			port, err := p.parsePortDecl()
			if err != nil {
				return nil, err
			}
			m.Ports = append(m.Ports, port)
			known[port.Name] = true
		case "reg":
			reg, err := p.parseRegDecl()
			if err != nil {
				return nil, err
			}
			if !known[reg.Name] {
				m.Regs = append(m.Regs, reg)
			}
		case "endmodule", "":
			return m, nil
		default:
			// Process bodies (always/case/assign) aren't modeled; skip one
			// statement/block opener at a time until the next declaration
			// or endmodule.
			p.next()
		}
	}
}

func (p *Parser) parsePortDecl() (Port, error) {
	dirTok := p.next().text
	var dir Direction
	switch dirTok {
	case "input":
		dir = DirIn
	case "output":
		dir = DirOut
	case "inout":
		dir = DirInOut
	}
	if p.peek().text == "reg" {
		p.next()
	}
	width, err := p.maybeBracketWidth()
	if err != nil {
		return Port{}, err
	}
	name := p.next().text
	if err := p.expect(";"); err != nil {
		return Port{}, err
	}
	return Port{Name: name, Dir: dir, Width: width}, nil
}

func (p *Parser) parseRegDecl() (Reg, error) {
	if err := p.expect("reg"); err != nil {
		return Reg{}, err
	}
	width, err := p.maybeBracketWidth()
	if err != nil {
		return Reg{}, err
	}
	name := p.next().text
	if err := p.expect(";"); err != nil {
		return Reg{}, err
	}
	return Reg{Name: name, Width: width}, nil
}

// maybeBracketWidth consumes an optional "[hi:0]" and returns hi+1, or 1
// if no bracket is present (a scalar declaration).
func (p *Parser) maybeBracketWidth() (int, error) {
	if p.peek().text != "[" {
		return 1, nil
	}
	p.next()
	hiTok := p.next()
	hi, err := strconv.Atoi(hiTok.text)
	if err != nil {
		return 0, &UnexpectedToken{Want: "integer", Got: hiTok.text, Line: hiTok.line}
	}
	if err := p.expect(":"); err != nil {
		return 0, err
	}
	p.next() // the low index, always 0 for this emitter's output
	if err := p.expect("]"); err != nil {
		return 0, err
	}
	return hi + 1, nil
}
