// Package hdlir is the canonical intermediate representation the
// convertor's type annotator decorates and the emitter walks. A process's
// convertible behaviour is built explicitly with the constructors in this
// package, the same explicit-builder style pkg/hier uses for hierarchy
// discovery, applied here to expression trees. One canonical IR serves
// every target.
package hdlir

import (
	"fmt"

	"github.com/hdlgo/hdlgo/pkg/bitvec"
	"github.com/hdlgo/hdlgo/pkg/signal"
)

// Op is an expression operator, spanning both bitvec's arithmetic set and
// the comparison operators the type annotator adds width/sign rules for.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
	Mod
	Shl
	Shr
	And
	Or
	Xor
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
)

func (o Op) String() string {
	return [...]string{"+", "-", "*", "/", "%", "<<", ">>", "&", "|", "^", "==", "!=", "<", "<=", ">", ">="}[o]
}

func (o Op) isCompare() bool { return o >= Eq }

// Annotation is what the type annotator (Annotate) computes for every
// node: width and signedness.
type Annotation struct {
	Width  int
	Signed bool
}

// Size reports the annotation's bit width, kept as a method for symmetry
// with String() even though callers mostly read .Width directly.
func (a Annotation) Size() int { return a.Width }

func (a Annotation) String() string {
	sign := "unsigned"
	if a.Signed {
		sign = "signed"
	}
	return fmt.Sprintf("%s[%d]", sign, a.Width)
}

// Expr is any node the annotator and emitter can visit. Ann is valid only
// after Annotate has run.
type Expr interface {
	Ann() Annotation
	setAnn(Annotation)
	String() string
}

type base struct{ ann Annotation }

func (b *base) Ann() Annotation      { return b.ann }
func (b *base) setAnn(a Annotation)  { b.ann = a }

// SigRef reads a signal's current value.
type SigRef struct {
	base
	ID   signal.ID
	Name string
}

func Sig(id signal.ID, name string) *SigRef { return &SigRef{ID: id, Name: name} }

func (s *SigRef) String() string { return s.Name }

// Const is a literal bit-vector value.
type Const struct {
	base
	Value *bitvec.BitVec
}

func ConstVal(v *bitvec.BitVec) *Const { return &Const{Value: v} }

func (c *Const) String() string { return fmt.Sprintf("%d", c.Value.Value()) }

// BinExpr is a binary operator node. PromoteUnsigned is set by Annotate
// for a Compare op when one side is unsigned and the other signed,
// marking that the unsigned side is widened by one zero bit before
// comparing; the Verilog and SystemVerilog emitters prepend 1'b0, the VHDL
// emitter does not consult the flag.
type BinExpr struct {
	base
	Op              Op
	L, R            Expr
	PromoteUnsigned bool
}

func Bin(op Op, l, r Expr) *BinExpr { return &BinExpr{Op: op, L: l, R: r} }

func (b *BinExpr) String() string { return fmt.Sprintf("(%s %s %s)", b.L, b.Op, b.R) }

// SliceExpr is v[hi:lo], a right-open high index.
type SliceExpr struct {
	base
	X      Expr
	Hi, Lo int
}

func Slice(x Expr, hi, lo int) *SliceExpr { return &SliceExpr{X: x, Hi: hi, Lo: lo} }

func (s *SliceExpr) String() string { return fmt.Sprintf("%s[%d:%d]", s.X, s.Hi, s.Lo) }

// NotExpr is bitwise/logical negation; its width and signedness are the
// operand's, unchanged.
type NotExpr struct {
	base
	X Expr
}

func Not(x Expr) *NotExpr { return &NotExpr{X: x} }

func (n *NotExpr) String() string { return fmt.Sprintf("~%s", n.X) }

// IndexExpr is a constant list of values indexed by a signal — a ROM read.
// A subscript of a list-of-constants indexed by a signal lowers to a case
// table keyed on the selector.
type IndexExpr struct {
	base
	Values []int64
	Sel    Expr
}

func Index(values []int64, sel Expr) *IndexExpr { return &IndexExpr{Values: values, Sel: sel} }

func (i *IndexExpr) String() string { return fmt.Sprintf("rom[%s]", i.Sel) }
