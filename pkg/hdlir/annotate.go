package hdlir

import (
	"fmt"

	"github.com/hdlgo/hdlgo/pkg/signal"
)

// ShiftAmountNotConstant reports a left-shift whose amount is not a
// compile-time constant; only a shift by a known constant k can widen
// the result at annotation time.
type ShiftAmountNotConstant struct{ Expr string }

func (e *ShiftAmountNotConstant) Error() string {
	return fmt.Sprintf("hdlir: shift amount in %s is not a constant", e.Expr)
}

// Annotate walks every process's statement tree and computes each
// expression's Width/Signed by propagating from its operands.
func Annotate(bank *signal.Bank, m *Module) error {
	for i := range m.Procs {
		if err := AnnotateProc(bank, &m.Procs[i]); err != nil {
			return err
		}
	}
	return nil
}

// AnnotateProc runs the same walk as Annotate over a single process body.
// Exported so pkg/convert can fan annotation out across processes: each
// ProcBody's tree is disjoint, so running these concurrently over a shared
// read-only bank is safe.
func AnnotateProc(bank *signal.Bank, p *ProcBody) error {
	for _, s := range p.Stmts {
		if err := annotateStmt(bank, s); err != nil {
			return err
		}
	}
	return nil
}

func annotateStmt(bank *signal.Bank, s Stmt) error {
	switch st := s.(type) {
	case *Assign:
		return annotateExpr(bank, st.Value)
	case *If:
		if err := annotateExpr(bank, st.Cond); err != nil {
			return err
		}
		for _, s2 := range st.Then {
			if err := annotateStmt(bank, s2); err != nil {
				return err
			}
		}
		for _, s2 := range st.Else {
			if err := annotateStmt(bank, s2); err != nil {
				return err
			}
		}
		return nil
	case *Case:
		if err := annotateExpr(bank, st.Selector); err != nil {
			return err
		}
		for _, arm := range st.Arms {
			for _, s2 := range arm.Body {
				if err := annotateStmt(bank, s2); err != nil {
					return err
				}
			}
		}
		for _, s2 := range st.Default {
			if err := annotateStmt(bank, s2); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("hdlir: unknown statement type %T", s)
	}
}

func annotateExpr(bank *signal.Bank, e Expr) error {
	switch x := e.(type) {
	case *SigRef:
		sig := bank.Get(x.ID)
		w, signed := widthOf(sig)
		x.setAnn(Annotation{Width: w, Signed: signed})
		return nil
	case *Const:
		x.setAnn(Annotation{Width: x.Value.NrBits(), Signed: x.Value.IsSigned()})
		return nil
	case *SliceExpr:
		if err := annotateExpr(bank, x.X); err != nil {
			return err
		}
		x.setAnn(Annotation{Width: x.Hi - x.Lo, Signed: false})
		return nil
	case *NotExpr:
		if err := annotateExpr(bank, x.X); err != nil {
			return err
		}
		x.setAnn(x.X.Ann())
		return nil
	case *IndexExpr:
		if err := annotateExpr(bank, x.Sel); err != nil {
			return err
		}
		x.setAnn(Annotation{Width: romWidth(x.Values), Signed: false})
		return nil
	case *BinExpr:
		return annotateBin(bank, x)
	default:
		return fmt.Errorf("hdlir: unknown expr type %T", e)
	}
}

func annotateBin(bank *signal.Bank, x *BinExpr) error {
	if err := annotateExpr(bank, x.L); err != nil {
		return err
	}
	if err := annotateExpr(bank, x.R); err != nil {
		return err
	}
	la, ra := x.L.Ann(), x.R.Ann()

	switch x.Op {
	case Add:
		x.setAnn(Annotation{Width: maxInt(la.Width, ra.Width) + 1, Signed: la.Signed || ra.Signed})
	case Sub:
		x.setAnn(Annotation{Width: maxInt(la.Width, ra.Width) + 1, Signed: true})
	case Mul:
		x.setAnn(Annotation{Width: la.Width + ra.Width, Signed: la.Signed || ra.Signed})
	case Shl:
		k, ok := constIntValue(x.R)
		if !ok {
			return &ShiftAmountNotConstant{Expr: x.String()}
		}
		x.setAnn(Annotation{Width: la.Width + int(k), Signed: la.Signed})
	case Shr:
		x.setAnn(Annotation{Width: la.Width, Signed: la.Signed})
	case Div, Mod:
		x.setAnn(Annotation{Width: la.Width, Signed: la.Signed})
	case And, Or, Xor:
		x.setAnn(Annotation{Width: maxInt(la.Width, ra.Width), Signed: la.Signed && ra.Signed})
	default: // comparisons
		if la.Signed != ra.Signed {
			x.PromoteUnsigned = true
		}
		x.setAnn(Annotation{Width: 1, Signed: false})
	}
	return nil
}

func constIntValue(e Expr) (int64, bool) {
	c, ok := e.(*Const)
	if !ok {
		return 0, false
	}
	return c.Value.Value(), true
}

func romWidth(values []int64) int {
	var max int64
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	w := 1
	for (int64(1) << uint(w)) <= max {
		w++
	}
	return w
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
