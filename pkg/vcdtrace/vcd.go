// Package vcdtrace is the VCD trace sink: it hooks a Scheduler's signal
// commits, allocates the short per-signal identifier codes the VCD
// format uses in place of full names, and writes the timestamped
// value-change stream. Signals are registered up front, changes are
// appended as timestamped events, and the whole stream is flushed as
// text.
package vcdtrace

import (
	"bufio"
	"fmt"
	"io"

	"github.com/hdlgo/hdlgo/pkg/signal"
)

// firstCode is the lowest printable-ASCII VCD identifier code (VCD
// reserves nothing below '!'; codes are assigned in order of
// registration).
const firstCode = '!'

// Writer records signal changes in VCD text format as a scheduler runs.
type Writer struct {
	out      *bufio.Writer
	bank     *signal.Bank
	codes    map[signal.ID]string
	order    []signal.ID
	next     rune
	lastTime int64
	started  bool
}

// NewWriter wraps w for VCD output. Call Register for every signal to
// trace, then WriteHeader, then feed Scheduler commits to Hook.
func NewWriter(w io.Writer, bank *signal.Bank) *Writer {
	return &Writer{
		out:   bufio.NewWriter(w),
		bank:  bank,
		codes: make(map[signal.ID]string),
		next:  firstCode,
	}
}

// Register allocates a short identifier code for id and remembers it for
// the $var/$dumpvars sections. Call before WriteHeader.
func (w *Writer) Register(id signal.ID) {
	if _, ok := w.codes[id]; ok {
		return
	}
	code := w.allocCode()
	w.codes[id] = code
	w.order = append(w.order, id)
	w.bank.Get(id).SetVCDCode(code)
}

// allocCode derives the next code from the registration count: one rune
// from '!'..'~' for the first 94 signals, then two-rune codes, and so on.
func (w *Writer) allocCode() string {
	n := len(w.order)
	code := ""
	for {
		code = string(rune(firstCode+n%94)) + code
		n = n/94 - 1
		if n < 0 {
			return code
		}
	}
}

// WriteHeader emits the $version/$timescale/$scope/$var/$enddefinitions
// preamble plus the $dumpvars initial-value block.
func (w *Writer) WriteHeader(topName, timescale string) error {
	fmt.Fprintf(w.out, "$version hdlc VCD writer $end\n")
	fmt.Fprintf(w.out, "$timescale %s $end\n", timescale)
	fmt.Fprintf(w.out, "$scope module %s $end\n", topName)
	for _, id := range w.order {
		sig := w.bank.Get(id)
		width := sig.Width()
		if width <= 0 {
			width = 1
		}
		kind := "wire"
		fmt.Fprintf(w.out, "$var %s %d %s %s $end\n", kind, width, w.codes[id], sig.Name())
	}
	fmt.Fprintf(w.out, "$upscope $end\n")
	fmt.Fprintf(w.out, "$enddefinitions $end\n")
	fmt.Fprintf(w.out, "$dumpvars\n")
	for _, id := range w.order {
		sig := w.bank.Get(id)
		w.writeValue(sig.Val(), w.codes[id])
	}
	fmt.Fprintf(w.out, "$end\n")
	w.started = true
	return w.out.Flush()
}

// Hook returns a signal.TraceHook that records every commit to id as a
// timestamped value change. now is called once per hook invocation, so it
// should be cheap (Scheduler.Now() just reads a field).
func (w *Writer) Hook(now func() int64) signal.TraceHook {
	return func(id signal.ID, old, next signal.Value) {
		code, ok := w.codes[id]
		if !ok {
			return
		}
		t := now()
		if !w.started || t != w.lastTime {
			fmt.Fprintf(w.out, "#%d\n", t)
			w.lastTime = t
			w.started = true
		}
		w.writeValue(next, code)
	}
}

func (w *Writer) writeValue(v signal.Value, code string) {
	if v.Kind == signal.Bit {
		if v.Bool() {
			fmt.Fprintf(w.out, "1%s\n", code)
		} else {
			fmt.Fprintf(w.out, "0%s\n", code)
		}
		return
	}
	vec := v.Vec()
	if vec == nil {
		fmt.Fprintf(w.out, "bx %s\n", code)
		return
	}
	fmt.Fprintf(w.out, "b%s %s\n", binaryString(vec.Unsigned(), vec.NrBits()), code)
}

func binaryString(value int64, width int) string {
	if width <= 0 {
		width = 1
	}
	bits := make([]byte, width)
	for i := 0; i < width; i++ {
		if value&(1<<uint(width-1-i)) != 0 {
			bits[i] = '1'
		} else {
			bits[i] = '0'
		}
	}
	return string(bits)
}

// Flush writes any buffered output to the underlying writer.
func (w *Writer) Flush() error { return w.out.Flush() }
