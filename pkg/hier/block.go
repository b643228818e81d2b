// Package hier builds the module/instance tree from an explicit
// elaboration pass instead of inspecting the caller's stack frames: a
// block constructor function receives a *Ctx and registers its signals,
// memories, and sub-blocks through it.
package hier

import "github.com/hdlgo/hdlgo/pkg/signal"

type localSignal struct {
	name string
	id   signal.ID
}

// Memory is a named list of signals treated as an array.
type Memory struct {
	Name string
	IDs  []signal.ID
}

// Block is one hierarchical scope: a named unit holding the signals and
// memories it declares directly, plus its child instances. Instance
// names must be unique within a parent.
type Block struct {
	Name     string
	Parent   *Block
	Children []*Block

	locals    []localSignal
	memories  []Memory
	processes []ProcessDecl
}

// Signals returns the IDs of every signal declared directly in b (not its
// children), in declaration order.
func (b *Block) Signals() []signal.ID {
	ids := make([]signal.ID, len(b.locals))
	for i, l := range b.locals {
		ids[i] = l.id
	}
	return ids
}

// Memories returns the memories declared directly in b.
func (b *Block) Memories() []Memory { return b.memories }

// LocalName returns the name a signal was declared under within b, "" if
// id was not declared directly in b.
func (b *Block) LocalName(id signal.ID) string {
	for _, l := range b.locals {
		if l.id == id {
			return l.name
		}
	}
	return ""
}
