package hdlir

import (
	"github.com/hdlgo/hdlgo/pkg/hier"
	"github.com/hdlgo/hdlgo/pkg/signal"
)

// Direction is a port's data-flow direction, inferred from whether any
// process drives or reads it.
type Direction int

const (
	DirIn Direction = iota
	DirOut
	DirInOut
)

func (d Direction) String() string {
	switch d {
	case DirIn:
		return "input"
	case DirOut:
		return "output"
	default:
		return "inout"
	}
}

// Port is one top-level module signal.
type Port struct {
	ID     signal.ID
	Name   string
	Dir    Direction
	Width  int
	Signed bool
}

// Reg is a non-port signal belonging to the module (or a sub-instance,
// when flattened) — the emitter's declaration list beyond the port list.
type Reg struct {
	ID     signal.ID
	Name   string
	Width  int
	Signed bool
}

// ProcBody is one process's convertible behaviour: its declared kind and
// sensitivity (carried over from hier.ProcessDecl) plus the explicit
// statement tree describing what it does.
type ProcBody struct {
	Name        string
	Kind        hier.ProcessKind
	Sensitivity []signal.ID
	Reset       *signal.ID
	Stmts       []Stmt
}

// ROM is a constant table indexed by a signal, emitted as a case
// statement with one labelled branch per entry plus a default.
type ROM struct {
	Name     string
	Selector signal.ID
	Values   []int64
}

// Module is the annotated unit the emitter turns into target HDL text.
type Module struct {
	Name     string
	Ports    []Port
	Internal []Reg
	Memories []hier.Memory
	Procs    []ProcBody
	ROMs     []ROM

	// Names resolves any signal.ID this module touches to the identifier
	// the emitter should print, populated alongside Ports/Internal so the
	// emitter never needs direct bank access.
	Names map[signal.ID]string
}

// BuildModule assembles a Module's port/internal lists from a block tree
// and bank: root-block signals become ports (direction inferred from the
// read/write sets every ProcBody implies), every other signal becomes an
// internal register/wire. procs and roms are supplied by the caller,
// since they describe behaviour no introspection can recover.
func BuildModule(name string, bank *signal.Bank, root *hier.Block, absNames map[signal.ID]string, procs []ProcBody, roms []ROM) *Module {
	read := make(map[signal.ID]bool)
	written := make(map[signal.ID]bool)
	for _, p := range procs {
		for _, s := range p.Stmts {
			collectIO(s, read, written)
		}
	}

	m := &Module{Name: name, Procs: procs, ROMs: roms, Names: make(map[signal.ID]string)}
	for _, id := range root.Signals() {
		sig := bank.Get(id)
		w, signed := widthOf(sig)
		dir := DirIn
		switch {
		case read[id] && written[id]:
			dir = DirInOut
		case written[id]:
			dir = DirOut
		}
		m.Ports = append(m.Ports, Port{ID: id, Name: sig.Name(), Dir: dir, Width: w, Signed: signed})
		m.Names[id] = sig.Name()
	}
	collectInternal(bank, root, absNames, m)
	for _, reg := range m.Internal {
		if _, ok := m.Names[reg.ID]; !ok {
			m.Names[reg.ID] = reg.Name
		}
	}
	for _, blk := range allBlocks(root) {
		m.Memories = append(m.Memories, blk.Memories()...)
	}
	for _, p := range procs {
		for _, id := range p.Sensitivity {
			if _, ok := m.Names[id]; !ok {
				m.Names[id] = bank.Get(id).Name()
			}
		}
		if p.Reset != nil {
			if _, ok := m.Names[*p.Reset]; !ok {
				m.Names[*p.Reset] = bank.Get(*p.Reset).Name()
			}
		}
	}
	return m
}

func collectInternal(bank *signal.Bank, b *hier.Block, absNames map[signal.ID]string, m *Module) {
	for _, child := range b.Children {
		for _, id := range child.Signals() {
			sig := bank.Get(id)
			w, signed := widthOf(sig)
			name := absNames[id]
			if name == "" {
				name = sig.Name()
			}
			m.Internal = append(m.Internal, Reg{ID: id, Name: name, Width: w, Signed: signed})
		}
		collectInternal(bank, child, absNames, m)
	}
}

func allBlocks(b *hier.Block) []*hier.Block {
	out := []*hier.Block{b}
	for _, c := range b.Children {
		out = append(out, allBlocks(c)...)
	}
	return out
}

func widthOf(sig *signal.Signal) (int, bool) {
	switch sig.Kind() {
	case signal.Bit:
		return 1, false
	case signal.Vec:
		v := sig.Val().Vec()
		if v == nil {
			return 1, false
		}
		return v.NrBits(), v.IsSigned()
	default:
		return 64, true
	}
}

func collectIO(s Stmt, read, written map[signal.ID]bool) {
	switch st := s.(type) {
	case *Assign:
		written[st.Target] = true
		walkExpr(st.Value, read)
	case *If:
		walkExpr(st.Cond, read)
		for _, s2 := range st.Then {
			collectIO(s2, read, written)
		}
		for _, s2 := range st.Else {
			collectIO(s2, read, written)
		}
	case *Case:
		walkExpr(st.Selector, read)
		for _, arm := range st.Arms {
			for _, s2 := range arm.Body {
				collectIO(s2, read, written)
			}
		}
		for _, s2 := range st.Default {
			collectIO(s2, read, written)
		}
	}
}

func walkExpr(e Expr, read map[signal.ID]bool) {
	switch x := e.(type) {
	case *SigRef:
		read[x.ID] = true
	case *BinExpr:
		walkExpr(x.L, read)
		walkExpr(x.R, read)
	case *SliceExpr:
		walkExpr(x.X, read)
	case *NotExpr:
		walkExpr(x.X, read)
	case *IndexExpr:
		walkExpr(x.Sel, read)
	}
}
