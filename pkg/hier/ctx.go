package hier

import (
	"fmt"

	"github.com/hdlgo/hdlgo/pkg/bitvec"
	"github.com/hdlgo/hdlgo/pkg/signal"
)

// Ctx is the explicit elaboration builder passed to every block
// constructor function: names and scoping are whatever the user code
// explicitly registers, never discovered by reflection or call-frame
// introspection.
type Ctx struct {
	bank    *signal.Bank
	root    *Block
	current *Block
	errs    []error
}

// NewCtx starts elaborating a new top-level block named topName, backed by
// bank as the signal arena.
func NewCtx(bank *signal.Bank, topName string) *Ctx {
	root := &Block{Name: topName}
	return &Ctx{bank: bank, root: root, current: root}
}

// Root returns the top block. Valid to call at any point, but its tree is
// only complete once the top-level constructor has returned.
func (c *Ctx) Root() *Block { return c.root }

// Signal declares and registers a signal in the block currently being
// elaborated, returning its arena ID.
func (c *Ctx) Signal(name string, initial signal.Value) signal.ID {
	id := c.bank.Register(signal.NewSignal(name, initial))
	c.current.locals = append(c.current.locals, localSignal{name: name, id: id})
	return id
}

// StructSignal declares a signal that is logically an attribute of a
// small user-defined struct-like value (owner) rather than a bare local
// variable. It is registered through the same path as Signal — named
// "owner.field" — so the analyser and emitter discover it exactly like
// any other declared signal: such signals are attributes of a record,
// not separate locals, but nothing downstream needs to know that.
func (c *Ctx) StructSignal(owner, field string, initial signal.Value) signal.ID {
	return c.Signal(fmt.Sprintf("%s.%s", owner, field), initial)
}

// Memory declares n signals of width bits as a single named array, a
// list of signals treated as one addressable block.
func (c *Ctx) Memory(name string, n, width int) ([]signal.ID, error) {
	ids := make([]signal.ID, n)
	for i := 0; i < n; i++ {
		vec, err := bitvec.NewWidth(0, width)
		if err != nil {
			return nil, err
		}
		ids[i] = c.Signal(fmt.Sprintf("%s_%d", name, i), signal.VecValue(vec))
	}
	c.current.memories = append(c.current.memories, Memory{Name: name, IDs: ids})
	return ids, nil
}

// Instantiate creates a uniquely-named child block and elaborates it via
// sub, which receives the same Ctx rescoped to the child: calls to
// Signal/Memory/Instantiate made inside sub register into the child block,
// not its parent.
func (c *Ctx) Instantiate(name string, sub func(*Ctx)) *Block {
	for _, existing := range c.current.Children {
		if existing.Name == name {
			panic(fmt.Sprintf("hier: instance name %q already used in block %q", name, c.current.Name))
		}
	}
	child := &Block{Name: name, Parent: c.current}
	c.current.Children = append(c.current.Children, child)
	prev := c.current
	c.current = child
	sub(c)
	c.current = prev
	return child
}
