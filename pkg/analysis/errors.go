// Package analysis implements the Analyser: it walks the block tree
// pkg/hier built, validates the process declarations recorded on it, and
// reports a closed set of error kinds. Each error is an exported struct
// type carrying the fields a caller needs to report it precisely, never
// a bare string.
package analysis

import "fmt"

// UndrivenPort reports a signal of a non-root block that some process
// reads but nothing ever writes.
type UndrivenPort struct{ Signal string }

func (e *UndrivenPort) Error() string { return fmt.Sprintf("port %q is never driven", e.Signal) }

// UnreadPort reports a top-level signal that is driven but whose value no
// process ever reads.
type UnreadPort struct{ Signal string }

func (e *UnreadPort) Error() string { return fmt.Sprintf("output port %q is never read", e.Signal) }

// UnusedPort reports a signal, in any block, that is neither driven nor
// read by anything.
type UnusedPort struct{ Signal string }

func (e *UnusedPort) Error() string { return fmt.Sprintf("port %q is unused", e.Signal) }

// Shadowing reports a local signal name that collides with one already
// visible from an enclosing block.
type Shadowing struct {
	Signal string
	Block  string
}

func (e *Shadowing) Error() string {
	return fmt.Sprintf("signal %q in block %q shadows an outer signal of the same name", e.Signal, e.Block)
}

// SensitivityInference reports an always_comb process whose body reads no
// signal, so no sensitivity list can be derived.
type SensitivityInference struct{ Process string }

func (e *SensitivityInference) Error() string {
	return fmt.Sprintf("process %q: always_comb body reads no signal, cannot infer sensitivity", e.Process)
}

// BitvecWidthError reports a bit-vector signal declared with no derivable
// width.
type BitvecWidthError struct{ Signal string }

func (e *BitvecWidthError) Error() string {
	return fmt.Sprintf("signal %q: bit-vector has no width", e.Signal)
}

// ModularRangeError reports a modular vector whose range is not a full
// power of two, so it cannot be synthesised as plain register rollover.
type ModularRangeError struct {
	Signal   string
	Min, Max int64
}

func (e *ModularRangeError) Error() string {
	return fmt.Sprintf("signal %q: modular range [%d, %d) is not a full power-of-two span", e.Signal, e.Min, e.Max)
}

// ListPortError reports a memory (list of signals) used directly as a
// top-level port instead of being decomposed into individual signals.
type ListPortError struct{ Memory string }

func (e *ListPortError) Error() string {
	return fmt.Sprintf("memory %q cannot be used directly as a port", e.Memory)
}

// BlockContractViolation reports a block whose constructor registered
// neither a process nor a sub-block instance through its Ctx: a block
// that declares signals but never wires them into any process or child
// instance contributes nothing observable to the design.
type BlockContractViolation struct{ Block string }

func (e *BlockContractViolation) Error() string {
	return fmt.Sprintf("block %q registered neither a process nor a sub-block instance", e.Block)
}
