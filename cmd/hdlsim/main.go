// Command hdlsim runs a registered simulation (pkg/sim.Register, called
// from the design's own init()) either to completion or, interactively,
// one step at a time with a live signal table. Interactive mode puts the
// terminal in raw mode via golang.org/x/term, restored on exit, and reads
// single keypresses off os.Stdin directly.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/hdlgo/hdlgo/internal/buildinfo"
	"github.com/hdlgo/hdlgo/pkg/sim"
	"github.com/hdlgo/hdlgo/pkg/signal"
	"github.com/hdlgo/hdlgo/pkg/vcdtrace"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	topName     string
	duration    int64
	stepSize    int64
	vcdPath     string
	interactive bool
	showVersion bool
	listDesigns bool
)

var rootCmd = &cobra.Command{
	Use:   "hdlsim --top <design>",
	Short: "hdlsim " + buildinfo.Short() + " — event-driven simulation runner",
	Long: `hdlsim - Run a registered simulation and watch its signals change

EXAMPLES:
  hdlsim --top counter --duration 200          # run 200 time units, dump a summary
  hdlsim --top counter --vcd counter.vcd        # also record a waveform
  hdlsim --top counter --interactive            # step one time unit per keypress
  hdlsim --list-designs`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Println(buildinfo.Full())
			return nil
		}
		if listDesigns {
			for _, name := range sim.RegisteredNames() {
				fmt.Println(name)
			}
			return nil
		}
		if topName == "" {
			names := sim.RegisteredNames()
			if len(names) == 0 {
				return fmt.Errorf("--top is required, and no designs are registered in this binary")
			}
			return fmt.Errorf("--top is required; registered designs: %v", names)
		}
		return run()
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "show version")
	rootCmd.Flags().StringVar(&topName, "top", "", "registered simulation to run")
	rootCmd.Flags().Int64Var(&duration, "duration", 1000, "simulated time units to run (non-interactive mode)")
	rootCmd.Flags().Int64Var(&stepSize, "step", 1, "simulated time units advanced per keypress (interactive mode)")
	rootCmd.Flags().StringVar(&vcdPath, "vcd", "", "record a VCD waveform to this path")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "step through the simulation under raw terminal control")
	rootCmd.Flags().BoolVar(&listDesigns, "list-designs", false, "list simulations registered by the linked-in binary")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "hdlsim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	sched, err := sim.Build(topName)
	if err != nil {
		return err
	}

	var vcd *vcdtrace.Writer
	if vcdPath != "" {
		f, err := os.Create(vcdPath)
		if err != nil {
			return fmt.Errorf("hdlsim: %w", err)
		}
		defer f.Close()
		vcd = vcdtrace.NewWriter(f, sched.Bank())
		for _, s := range sched.Bank().All() {
			vcd.Register(s.ID())
		}
		if err := vcd.WriteHeader(topName, "1ns/10ps"); err != nil {
			return fmt.Errorf("hdlsim: %w", err)
		}
		sched.SetHook(sim.Hook(vcd.Hook(sched.Now)))
		defer vcd.Flush()
	}

	if interactive {
		return runInteractive(sched)
	}

	if err := sched.Run(duration); err != nil {
		return fmt.Errorf("hdlsim: %w", err)
	}
	printTable(sched)
	return nil
}

// runInteractive puts stdin into raw mode, draws the current signal
// table, then waits for a single keypress: space/n to advance stepSize
// time units, q or Ctrl+C to exit. Restores the terminal on every path
// out via a defer registered right after MakeRaw succeeds.
func runInteractive(sched *sim.Scheduler) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("hdlsim: --interactive requires a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("hdlsim: %w", err)
	}
	defer term.Restore(fd, oldState)

	fmt.Print("\033[2J\033[H")
	fmt.Printf("hdlsim interactive — %s (space/n: step %d, q: quit)\r\n\r\n", topName, stepSize)
	drawTable(sched)

	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			return nil
		}
		switch buf[0] {
		case 'q', 3: // q or Ctrl+C
			return nil
		case ' ', 'n':
			if err := sched.Run(stepSize); err != nil {
				fmt.Printf("\r\nhdlsim: %v\r\n", err)
				return nil
			}
			fmt.Print("\033[2J\033[H")
			fmt.Printf("hdlsim interactive — %s @ t=%d (space/n: step %d, q: quit)\r\n\r\n", topName, sched.Now(), stepSize)
			drawTable(sched)
		}
	}
}

func drawTable(sched *sim.Scheduler) {
	for _, line := range signalLines(sched.Bank()) {
		fmt.Print(line + "\r\n")
	}
}

func printTable(sched *sim.Scheduler) {
	fmt.Printf("simulation stopped at t=%d\n", sched.Now())
	for _, line := range signalLines(sched.Bank()) {
		fmt.Println(line)
	}
}

func signalLines(bank *signal.Bank) []string {
	sigs := bank.All()
	sort.Slice(sigs, func(i, j int) bool { return sigs[i].Name() < sigs[j].Name() })
	lines := make([]string, len(sigs))
	for i, s := range sigs {
		lines[i] = fmt.Sprintf("%-20s %s", s.Name(), s.Val().String())
	}
	return lines
}
