package hier

import "github.com/hdlgo/hdlgo/pkg/signal"

// ProcessKind classifies a declared process by its triggering discipline
// (combinational, clocked, or general-sensitivity). The Ctx builder
// records the kind explicitly at the call site (`ctx.Process(...)`)
// rather than inferring it by inspecting a function body.
type ProcessKind int

const (
	KindInstance ProcessKind = iota
	KindAlways
	KindAlwaysComb
	KindAlwaysSeq
)

func (k ProcessKind) String() string {
	switch k {
	case KindInstance:
		return "instance"
	case KindAlways:
		return "always"
	case KindAlwaysComb:
		return "always_comb"
	case KindAlwaysSeq:
		return "always_seq"
	default:
		return "unknown"
	}
}

// ProcessDecl is what a block constructor records for one process, the
// input the Analyser (pkg/analysis) validates and classifies further.
type ProcessDecl struct {
	Name  string
	Kind  ProcessKind
	Block *Block

	Reads       []signal.ID
	Writes      []signal.ID
	Sensitivity []signal.ID // explicit for KindAlways; == Reads for KindAlwaysComb
	Reset       *signal.ID  // set only for KindAlwaysSeq with a reset
}

// Process registers a process declaration in the block currently being
// elaborated and marks every signal it writes as driven by it, surfacing
// a DriveConflict immediately (via Ctx.Errors) if two processes claim the
// same signal.
func (c *Ctx) Process(d ProcessDecl) {
	d.Block = c.current
	c.current.processes = append(c.current.processes, d)
	for _, id := range d.Writes {
		sig := c.bank.Get(id)
		if err := sig.MarkDriven(d.Name); err != nil {
			c.errs = append(c.errs, err)
		}
	}
}

// Errors returns the DriveConflict errors accumulated while registering
// processes. pkg/analysis performs the remaining validation once
// elaboration is complete.
func (c *Ctx) Errors() []error { return c.errs }

// Processes returns the processes declared directly in b.
func (b *Block) Processes() []ProcessDecl { return b.processes }
