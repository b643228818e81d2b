package hier

import (
	"fmt"
	"strings"

	"github.com/hdlgo/hdlgo/pkg/signal"
	"golang.org/x/exp/slices"
)

// AbsNames walks the block tree rooted at root and returns every declared
// signal's path-qualified name, e.g. "top.sub.counter". Children are
// visited in name-sorted order: Go map
// iteration is randomized and Instantiate calls may run in whatever order
// the user's elaboration code happens to make them, but the emitter and
// VCD writer downstream must produce the same text on every run.
func AbsNames(root *Block) map[signal.ID]string {
	out := make(map[signal.ID]string)
	walk(root, root.Name, out)
	return out
}

func walk(b *Block, prefix string, out map[signal.ID]string) {
	for _, l := range b.locals {
		out[l.id] = prefix + "." + l.name
	}
	children := append([]*Block(nil), b.Children...)
	slices.SortFunc(children, func(a, c *Block) int { return strings.Compare(a.Name, c.Name) })
	for _, child := range children {
		walk(child, fmt.Sprintf("%s.%s", prefix, child.Name), out)
	}
}

// Find locates the block at a dotted instance path under root ("" or
// root.Name both mean root itself), nil if no such child exists.
func Find(root *Block, path string) *Block {
	if path == "" || path == root.Name {
		return root
	}
	trimmed := strings.TrimPrefix(path, root.Name+".")
	cur := root
	for _, part := range strings.Split(trimmed, ".") {
		next := findChild(cur, part)
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

func findChild(b *Block, name string) *Block {
	for _, c := range b.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}
