package signal

import "fmt"

// Bank is the signal arena: signals live here keyed by ID instead of
// holding pointers to each other. A shadow signal stores its parent's ID
// plus a bit range; the arena resolves it on demand.
type Bank struct {
	signals []*Signal
}

// NewBank constructs an empty signal arena.
func NewBank() *Bank {
	return &Bank{}
}

// Register adds a signal to the bank and assigns it an ID.
func (b *Bank) Register(s *Signal) ID {
	id := ID(len(b.signals) + 1)
	s.id = id
	b.signals = append(b.signals, s)
	return id
}

// Get resolves an ID to its Signal. Panics on an unknown ID: an ID is only
// ever handed out by Register, so an invalid one is a programming error in
// the caller (an elaboration bug), not a user-data error.
func (b *Bank) Get(id ID) *Signal {
	if int(id) < 1 || int(id) > len(b.signals) {
		panic(fmt.Sprintf("signal: unknown ID %d", id))
	}
	return b.signals[id-1]
}

// All returns every registered signal, in registration order.
func (b *Bank) All() []*Signal {
	out := make([]*Signal, len(b.signals))
	copy(out, b.signals)
	return out
}

// NewShadow registers a read-only shadow signal tracking bits [lo, hi) of
// parent. Its Event/Posedge/Negedge waiter lists delegate to the parent
// (sensitivity on a slice is inferred on the parent signal), and its
// value is computed from the parent's current value on every read rather
// than stored independently.
func (b *Bank) NewShadow(name string, parent ID, hi, lo int) *Signal {
	p := b.Get(parent)
	s := &Signal{
		name:   name,
		kind:   Bit,
		width:  hi - lo,
		shadow: &shadowInfo{parent: parent, hi: hi, lo: lo},
	}
	if s.width != 1 {
		s.kind = Vec
	}
	s.current = b.shadowValue(s)
	_ = p
	b.Register(s)
	return s
}

// ShadowValue recomputes a shadow signal's value from its parent. Val()
// on an ordinary signal returns the cached current value directly; shadow
// signals always re-derive so they can never drift from their parent.
func (b *Bank) ShadowValue(s *Signal) Value {
	if s.shadow == nil {
		return s.Val()
	}
	return b.shadowValue(s)
}

func (b *Bank) shadowValue(s *Signal) Value {
	parent := b.Get(s.shadow.parent)
	pv := parent.current
	lo, hi := s.shadow.lo, s.shadow.hi
	switch pv.Kind {
	case Vec:
		if pv.vec == nil {
			return Value{}
		}
		slice, err := pv.vec.Slice(hi, lo)
		if err != nil {
			return Value{}
		}
		if hi-lo == 1 {
			return BitValue(slice.Value() != 0)
		}
		return VecValue(slice)
	case Bit:
		if lo == 0 && hi == 1 {
			return pv
		}
		return Value{}
	case Int:
		mask := int64(1)<<uint(hi-lo) - 1
		bits := (pv.i >> uint(lo)) & mask
		if hi-lo == 1 {
			return BitValue(bits != 0)
		}
		return IntValue(bits)
	default:
		return Value{}
	}
}

// EventFor, PosedgeFor, NegedgeFor return the waiter list a process should
// register on for a (possibly shadow) signal: the signal's own list, or
// its parent's when the signal is a shadow, per the sensitivity-on-parent
// rule.
func (b *Bank) EventFor(s *Signal) *WaiterList {
	if s.shadow != nil {
		return b.Get(s.shadow.parent).Event()
	}
	return s.Event()
}

func (b *Bank) PosedgeFor(s *Signal) *WaiterList {
	if s.shadow != nil {
		return b.Get(s.shadow.parent).Posedge()
	}
	return s.Posedge()
}

func (b *Bank) NegedgeFor(s *Signal) *WaiterList {
	if s.shadow != nil {
		return b.Get(s.shadow.parent).Negedge()
	}
	return s.Negedge()
}
