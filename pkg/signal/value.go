package signal

import (
	"fmt"

	"github.com/hdlgo/hdlgo/pkg/bitvec"
)

// Value is a small tagged union holding whatever a signal of a given Kind
// currently carries. It is a plain struct rather than an interface so
// comparisons (Equal) and edge detection (Bool) don't need type switches
// at every call site.
type Value struct {
	Kind Kind
	b    bool
	i    int64
	vec  *bitvec.BitVec
	enum string
	user interface{}
}

func BitValue(b bool) Value    { return Value{Kind: Bit, b: b} }
func IntValue(i int64) Value   { return Value{Kind: Int, i: i} }
func VecValue(v *bitvec.BitVec) Value { return Value{Kind: Vec, vec: v} }
func EnumValue(name string) Value     { return Value{Kind: Enum, enum: name} }
func UserValue(v interface{}) Value   { return Value{Kind: User, user: v} }

// Bool reports the boolean interpretation of the value, used for edge
// detection (0->1 is posedge, 1->0 is negedge). Bit signals use their
// literal bool; integer and vector signals are non-zero-tested.
func (v Value) Bool() bool {
	switch v.Kind {
	case Bit:
		return v.b
	case Int:
		return v.i != 0
	case Vec:
		return v.vec != nil && v.vec.Value() != 0
	case Enum:
		return v.enum != ""
	default:
		return v.user != nil
	}
}

func (v Value) Int() int64 {
	switch v.Kind {
	case Bit:
		if v.b {
			return 1
		}
		return 0
	case Int:
		return v.i
	case Vec:
		if v.vec == nil {
			return 0
		}
		return v.vec.Value()
	default:
		return 0
	}
}

func (v Value) Vec() *bitvec.BitVec { return v.vec }
func (v Value) Enum() string        { return v.enum }
func (v Value) User() interface{}   { return v.user }

// Equal reports whether two values of the same kind carry the same data.
// Values of differing kind are never equal (a TypeMismatch is caught
// earlier, at the setter, not here).
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case Bit:
		return v.b == o.b
	case Int:
		return v.i == o.i
	case Vec:
		if v.vec == nil || o.vec == nil {
			return v.vec == o.vec
		}
		return v.vec.Value() == o.vec.Value()
	case Enum:
		return v.enum == o.enum
	default:
		return v.user == o.user
	}
}

func (v Value) String() string {
	switch v.Kind {
	case Bit:
		if v.b {
			return "1"
		}
		return "0"
	case Int:
		return fmt.Sprintf("%d", v.i)
	case Vec:
		if v.vec == nil {
			return "<nil>"
		}
		return fmt.Sprintf("%d", v.vec.Value())
	case Enum:
		return v.enum
	default:
		return fmt.Sprintf("%v", v.user)
	}
}
