// Package signal implements the dual-valued (current/next) storage cell
// that represents a wire or register, its waiter lists, and the
// shadow/delayed variants. It deliberately knows nothing about the
// scheduler: package sim owns time, the event heap, and the delta-cycle
// queue, and drives Signal through the small surface exported here.
// Signals live in a Bank keyed by ID, with no back-pointers to a global
// simulator.
package signal

import "fmt"

// Kind is the tagged union discriminating a signal's value domain. A
// signal's setter is chosen from this enum at construction time rather
// than by a runtime type switch.
type Kind int

const (
	Bit Kind = iota
	Int
	Vec
	Enum
	User
)

func (k Kind) String() string {
	switch k {
	case Bit:
		return "bit"
	case Int:
		return "int"
	case Vec:
		return "bitvec"
	case Enum:
		return "enum"
	case User:
		return "user"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}
