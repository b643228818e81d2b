// Package emit implements the HDL emitter: a visitor over the annotated
// hdlir.Module that produces target-dialect text. Backends register
// themselves by name from their own init(), so a new dialect can be
// added without touching the dispatch logic here.
package emit

import (
	"fmt"

	"github.com/hdlgo/hdlgo/pkg/config"
	"github.com/hdlgo/hdlgo/pkg/hdlir"
)

// Backend generates one target dialect's text from an annotated Module.
type Backend interface {
	Name() string
	Generate(m *hdlir.Module, opts *config.ConvertOptions) (string, error)
	FileExtension() string
}

var backends = map[string]Backend{}

// RegisterBackend adds b to the registry under b.Name(); called from each
// backend's init().
func RegisterBackend(b Backend) {
	backends[b.Name()] = b
}

// Get resolves a target name ("verilog", "vhdl", "systemverilog") to its
// registered Backend.
func Get(name string) (Backend, error) {
	b, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("emit: unknown target %q", name)
	}
	return b, nil
}

// Names returns every registered backend's name.
func Names() []string {
	out := make([]string, 0, len(backends))
	for name := range backends {
		out = append(out, name)
	}
	return out
}
