// Command hdlc is the convertor's CLI front end: it resolves a design
// registered (via pkg/convert.Register, from that design's own init())
// against the --top flag, then runs it through pkg/convert.Convert and
// writes the result. Flags live in a package-level var block behind a
// single cobra.Command, with a compile()-shaped function doing the real
// work.
package main

import (
	"fmt"
	"os"

	"github.com/hdlgo/hdlgo/internal/buildinfo"
	"github.com/hdlgo/hdlgo/pkg/config"
	"github.com/hdlgo/hdlgo/pkg/convert"
	"github.com/hdlgo/hdlgo/pkg/emit"
	"github.com/spf13/cobra"
)

var (
	outputDir     string
	outputName    string
	target        string
	hierarchical  int
	trace         bool
	initialValues bool
	testbench     bool
	timescale     string
	standard      int
	listTargets   bool
	listDesigns   bool
	showVersion   bool
)

var rootCmd = &cobra.Command{
	Use:   "hdlc --top <design>",
	Short: "hdlc " + buildinfo.Short() + " — behavioural-to-HDL convertor",
	Long: `hdlc - Convert a Go-elaborated hardware description to synthesizable HDL

A design is not a source file: it is Go code that builds a signal bank,
a block hierarchy, and a set of processes, then registers itself with
pkg/convert.Register from an init(). hdlc links against whatever designs
the calling binary imports and converts the one named by --top.

TARGETS:
  verilog        - IEEE 1364 Verilog (default)
  vhdl           - IEEE 1076 VHDL
  systemverilog  - IEEE 1800 SystemVerilog subset

EXAMPLES:
  hdlc --top counter                       # convert to Verilog in .
  hdlc --top counter -b vhdl -o build/      # VHDL, written under build/
  hdlc --top counter --testbench --trace   # emit a VCD-dumping stub too
  hdlc --list-designs                      # list registered designs
  hdlc --list-targets                      # list registered backends`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Println(buildinfo.Full())
			return nil
		}
		if listTargets {
			for _, name := range emit.Names() {
				fmt.Println(name)
			}
			return nil
		}
		if listDesigns {
			for _, name := range convert.RegisteredNames() {
				fmt.Println(name)
			}
			return nil
		}
		if outputName == "" {
			return fmt.Errorf("--top is required (see --list-designs)")
		}
		return run(outputName)
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "show version")
	rootCmd.Flags().StringVar(&outputName, "top", "", "registered design to convert")
	rootCmd.Flags().StringVarP(&target, "backend", "b", "verilog", "target HDL (verilog, vhdl, systemverilog)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "directory to write generated file(s) into")
	rootCmd.Flags().IntVar(&hierarchical, "hierarchical", 0, "instance depth, -1 or >= 0 (validated; output is always one flattened module)")
	rootCmd.Flags().BoolVar(&trace, "trace", false, "emit VCD dump instructions in the generated testbench")
	rootCmd.Flags().BoolVar(&initialValues, "initial-values", false, "accepted; no initial-value assignments are emitted")
	rootCmd.Flags().BoolVar(&testbench, "testbench", false, "generate a stub testbench alongside the design file")
	rootCmd.Flags().StringVar(&timescale, "timescale", "1ns/10ps", "Verilog/SystemVerilog timescale")
	rootCmd.Flags().IntVar(&standard, "standard", 2005, "Verilog standard, 1995 or 2005 (validated; port style does not change)")
	rootCmd.Flags().BoolVar(&listTargets, "list-targets", false, "list available HDL targets")
	rootCmd.Flags().BoolVar(&listDesigns, "list-designs", false, "list designs registered by the linked-in binary")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "hdlc: %v\n", err)
		os.Exit(1)
	}
}

func run(name string) error {
	design, err := convert.Build(name)
	if err != nil {
		return err
	}

	opts := config.DefaultOptions()
	opts.Directory = outputDir
	opts.Hierarchical = hierarchical
	opts.Trace = trace
	opts.InitialValues = initialValues
	opts.Testbench = testbench
	opts.Timescale = timescale
	opts.Standard = config.Standard(standard)

	result, err := convert.Convert(design, target, opts)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	if err := convert.WriteFiles(result, opts); err != nil {
		return err
	}
	for name := range result.Files {
		fmt.Println(name)
	}
	return nil
}
