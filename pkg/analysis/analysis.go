package analysis

import (
	"github.com/hdlgo/hdlgo/pkg/bitvec"
	"github.com/hdlgo/hdlgo/pkg/hier"
	"github.com/hdlgo/hdlgo/pkg/signal"
)

// Analyser walks a block tree and accumulates validation errors across a
// whole pass, reporting them together rather than failing fast.
type Analyser struct {
	bank   *signal.Bank
	errors []error
}

// New constructs an Analyser over bank, the arena the block tree's
// signals were registered in.
func New(bank *signal.Bank) *Analyser {
	return &Analyser{bank: bank}
}

// Run validates root and every descendant block, returning every error
// found. There is no parse step to abort early on, so it never stops at
// the first error.
func (a *Analyser) Run(root *hier.Block) []error {
	a.errors = nil
	procs := a.collect(root)
	a.checkPorts(root, procs)
	a.checkShadowing(root, nil)
	a.checkSensitivity(procs)
	a.checkBitvecWidths(procs)
	a.checkMemoryPorts(root)
	a.checkBlockContract(root)
	return a.errors
}

func (a *Analyser) fail(err error) { a.errors = append(a.errors, err) }

// collect gathers every process declaration in the tree, root first.
func (a *Analyser) collect(b *hier.Block) []hier.ProcessDecl {
	out := append([]hier.ProcessDecl(nil), b.Processes()...)
	for _, child := range b.Children {
		out = append(out, a.collect(child)...)
	}
	return out
}

// checkPorts validates every block's directly-declared signals against
// the Undriven/Unread/Unused rules. Root-block signals are treated as the
// module's ports: an input port is legitimately read-but-never-written
// here (the testbench or parent drives it from outside), so only
// write-without-read ("unread output port") and neither are flagged.
// Every other block's signals are purely internal: read-without-write
// there really is an undriven register.
func (a *Analyser) checkPorts(root *hier.Block, procs []hier.ProcessDecl) {
	read := make(map[signal.ID]bool)
	written := make(map[signal.ID]bool)
	writer := make(map[signal.ID]string)
	for _, p := range procs {
		for _, id := range p.Reads {
			read[id] = true
		}
		for _, id := range p.Writes {
			written[id] = true
			if first, ok := writer[id]; ok && first != p.Name {
				a.fail(&signal.DriveConflict{Signal: a.bank.Get(id).Name(), First: first, Second: p.Name})
				continue
			}
			writer[id] = p.Name
		}
	}
	a.checkBlockSignals(root, read, written, true)
	for _, child := range root.Children {
		a.checkSignalsRecursive(child, read, written)
	}
}

func (a *Analyser) checkSignalsRecursive(b *hier.Block, read, written map[signal.ID]bool) {
	a.checkBlockSignals(b, read, written, false)
	for _, child := range b.Children {
		a.checkSignalsRecursive(child, read, written)
	}
}

func (a *Analyser) checkBlockSignals(b *hier.Block, read, written map[signal.ID]bool, isPort bool) {
	for _, id := range b.Signals() {
		name := b.LocalName(id)
		isRead, isWritten := read[id], written[id]
		switch {
		case !isRead && !isWritten:
			a.fail(&UnusedPort{Signal: name})
		case isWritten && !isRead && isPort:
			a.fail(&UnreadPort{Signal: name})
		case isRead && !isWritten && !isPort:
			a.fail(&UndrivenPort{Signal: name})
		}
	}
}

// checkShadowing reports a block-local signal whose bare name collides
// with one already visible from an ancestor block.
func (a *Analyser) checkShadowing(b *hier.Block, outer map[string]bool) {
	seen := make(map[string]bool, len(outer))
	for name := range outer {
		seen[name] = true
	}
	for _, id := range b.Signals() {
		name := b.LocalName(id)
		if outer[name] {
			a.fail(&Shadowing{Signal: name, Block: b.Name})
		}
		seen[name] = true
	}
	for _, child := range b.Children {
		a.checkShadowing(child, seen)
	}
}

// checkSensitivity flags always_comb processes with an empty read set.
func (a *Analyser) checkSensitivity(procs []hier.ProcessDecl) {
	for _, p := range procs {
		if p.Kind == hier.KindAlwaysComb && len(p.Reads) == 0 {
			a.fail(&SensitivityInference{Process: p.Name})
		}
	}
}

// checkBitvecWidths flags any signal a process touches whose current
// value is a zero-width vector, and any modular vector whose range is not
// a full power-of-two span.
func (a *Analyser) checkBitvecWidths(procs []hier.ProcessDecl) {
	seen := make(map[signal.ID]bool)
	visit := func(id signal.ID) {
		if seen[id] {
			return
		}
		seen[id] = true
		sig := a.bank.Get(id)
		if sig.Kind() != signal.Vec {
			return
		}
		v := sig.Val().Vec()
		if v == nil {
			return
		}
		if v.NrBits() == 0 {
			a.fail(&BitvecWidthError{Signal: sig.Name()})
			return
		}
		if v.Kind() == bitvec.Modular {
			span := v.Max() - v.Min()
			if span <= 0 || span&(span-1) != 0 {
				a.fail(&ModularRangeError{Signal: sig.Name(), Min: v.Min(), Max: v.Max()})
			}
		}
	}
	for _, p := range procs {
		for _, id := range p.Reads {
			visit(id)
		}
		for _, id := range p.Writes {
			visit(id)
		}
	}
}

// checkMemoryPorts flags any memory the top block declares directly: a
// list of signals may not be used as a port without decomposing it first.
func (a *Analyser) checkMemoryPorts(root *hier.Block) {
	for _, m := range root.Memories() {
		a.fail(&ListPortError{Memory: m.Name})
	}
}

// checkBlockContract flags any block that registered neither a process
// nor a sub-block through its Ctx: a block constructor has no return
// value to inspect here, so the contract is checked against what it
// registered instead.
func (a *Analyser) checkBlockContract(b *hier.Block) {
	if len(b.Processes()) == 0 && len(b.Children) == 0 {
		a.fail(&BlockContractViolation{Block: b.Name})
	}
	for _, child := range b.Children {
		a.checkBlockContract(child)
	}
}
