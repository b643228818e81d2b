// Package convert orchestrates the convertor's pipeline — extractor output
// through validation, type annotation, and emission — behind the single
// entry point Convert(top, target, options): run each stage in order,
// surface the first hard failure, write output files.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/hdlgo/hdlgo/pkg/analysis"
	"github.com/hdlgo/hdlgo/pkg/config"
	"github.com/hdlgo/hdlgo/pkg/emit"
	"github.com/hdlgo/hdlgo/pkg/hdlir"
	"github.com/hdlgo/hdlgo/pkg/hier"
	"github.com/hdlgo/hdlgo/pkg/signal"
)

// registry lets a Go program that imports this package register a design
// by name at init() time, the way the elaboration API is meant to be
// used: there is no textual source file for cmd/hdlc to parse — designs
// are Go code — so the CLI resolves --top against whatever the linked-in
// program registered. This mirrors the backend-registration pattern used
// elsewhere, applied to whole designs instead of emitter backends.
var registry = map[string]func() Design{}

// Register records build under name, callable later via Build. Intended
// to be called from an init() in the package that elaborates a design.
func Register(name string, build func() Design) {
	registry[name] = build
}

// Build resolves a name registered via Register.
func Build(name string) (Design, error) {
	build, ok := registry[name]
	if !ok {
		return Design{}, fmt.Errorf("convert: no design registered under %q", name)
	}
	return build(), nil
}

// RegisteredNames returns every name registered via Register.
func RegisteredNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// Design is everything one Convert call needs about a behavioural
// description: the bank/block tree an elaboration produced plus the
// explicit process bodies and ROM tables the builder API recorded. There
// is no source tree to re-derive these from, so the caller supplies them
// directly.
type Design struct {
	Bank  *signal.Bank
	Root  *hier.Block
	Procs []hdlir.ProcBody
	ROMs  []hdlir.ROM
}

// Result carries the rendered output, keyed by the filename it should be
// written under.
type Result struct {
	Files map[string]string
}

// Convert validates d, annotates its processes, and emits target's
// dialect. Validation errors are returned together — the Analyser never
// fails fast — while emission stops at the first emit.UnsupportedConstruct.
func Convert(d Design, target string, opts config.ConvertOptions) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}

	if errs := analysis.New(d.Bank).Run(d.Root); len(errs) > 0 {
		return nil, joinErrors(errs)
	}

	if err := annotateConcurrently(d.Bank, d.Procs); err != nil {
		return nil, err
	}

	name := opts.Name
	if name == "" {
		name = d.Root.Name
	}
	m := hdlir.BuildModule(name, d.Bank, d.Root, hier.AbsNames(d.Root), d.Procs, d.ROMs)

	backend, err := emit.Get(target)
	if err != nil {
		return nil, err
	}
	src, err := backend.Generate(m, &opts)
	if err != nil {
		return nil, err
	}

	files := map[string]string{name + backend.FileExtension(): src}
	if opts.Testbench {
		tbName := name + "_tb"
		files[tbName+backend.FileExtension()] = testbenchStub(m, name, tbName, &opts)
	}
	return &Result{Files: files}, nil
}

// WriteFiles writes r's rendered files under opts.Directory (the current
// directory if unset).
func WriteFiles(r *Result, opts config.ConvertOptions) error {
	dir := opts.Directory
	if dir == "" {
		dir = "."
	}
	for name, src := range r.Files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			return fmt.Errorf("convert: writing %s: %w", name, err)
		}
	}
	return nil
}

// annotateConcurrently runs hdlir.AnnotateProc for each process on its own
// goroutine, bounded to GOMAXPROCS workers: processes are independent
// once extraction has run, so this is the one place the convertor
// parallelises (the simulator itself never does).
func annotateConcurrently(bank *signal.Bank, procs []hdlir.ProcBody) error {
	if len(procs) == 0 {
		return nil
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > len(procs) {
		workers = len(procs)
	}

	jobs := make(chan int, len(procs))
	for i := range procs {
		jobs <- i
	}
	close(jobs)

	errs := make([]error, len(procs))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				errs[i] = hdlir.AnnotateProc(bank, &procs[i])
			}
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("convert: annotating process %q: %w", procs[i].Name, err)
		}
	}
	return nil
}

// testbenchStub renders a minimal reset-and-idle driver for m's ports.
// Absent a recorded simulation to replay, this emits a "reset then sit
// idle" skeleton.
func testbenchStub(m *hdlir.Module, instName, tbName string, opts *config.ConvertOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "`timescale %s\n\n", coalesce(opts.Timescale, "1ns/10ps"))
	fmt.Fprintf(&b, "module %s;\n\n", tbName)
	for _, p := range m.Ports {
		kind := "wire"
		if p.Dir == hdlir.DirIn {
			kind = "reg"
		}
		fmt.Fprintf(&b, "    %s %s;\n", kind, p.Name)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "    %s dut (\n", instName)
	for i, p := range m.Ports {
		sep := ","
		if i == len(m.Ports)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "        .%s(%s)%s\n", p.Name, p.Name, sep)
	}
	b.WriteString("    );\n\n")

	if opts.Trace {
		fmt.Fprintf(&b, "    initial begin\n")
		fmt.Fprintf(&b, "        $dumpfile(\"%s.vcd\");\n", tbName)
		fmt.Fprintf(&b, "        $dumpvars(0, %s);\n", tbName)
		b.WriteString("    end\n\n")
	}

	b.WriteString("    initial begin\n")
	for _, p := range m.Ports {
		if p.Dir == hdlir.DirIn {
			fmt.Fprintf(&b, "        %s = 0;\n", p.Name)
		}
	}
	b.WriteString("        #10;\n")
	b.WriteString("        $finish;\n")
	b.WriteString("    end\n\n")
	b.WriteString("endmodule\n")
	return b.String()
}

func coalesce(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func joinErrors(errs []error) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("convert: %d validation error(s):\n%s", len(errs), strings.Join(msgs, "\n"))
}
