// Package sim implements the event-driven discrete-time scheduler: the
// time-wheel/delta-cycle queue, waiter/trigger dispatch, and the four
// process kinds (instance, always, always_comb, always_seq). Package
// signal supplies the Signal/Bank/Waiter primitives this package drives.
package sim

import "github.com/hdlgo/hdlgo/pkg/signal"

// Kind tags what re-arms a waiter.
type Kind int

const (
	KindDelay Kind = iota
	KindEvent
	KindPosedge
	KindNegedge
	KindJoin
	KindAny
)

// Trigger is the tagged value a process yields (or returns from Step) to
// tell the scheduler what should wake it next.
type Trigger struct {
	Kind    Kind
	Delay   int64
	Signals []signal.ID // for Event/Posedge/Negedge: "any of these"
	Sub     []Trigger   // for Join/Any
}

// Delay returns a trigger that re-arms at now+t.
func Delay(t int64) Trigger { return Trigger{Kind: KindDelay, Delay: t} }

// OnEvent returns a trigger that re-arms on the first event of any of ids.
func OnEvent(ids ...signal.ID) Trigger { return Trigger{Kind: KindEvent, Signals: ids} }

// OnPosedge returns a trigger that re-arms only on a rising edge of id.
func OnPosedge(id signal.ID) Trigger { return Trigger{Kind: KindPosedge, Signals: []signal.ID{id}} }

// OnNegedge returns a trigger that re-arms only on a falling edge of id.
func OnNegedge(id signal.ID) Trigger { return Trigger{Kind: KindNegedge, Signals: []signal.ID{id}} }

// Join returns a trigger that re-arms only after every sub-trigger has
// fired at least once.
func Join(subs ...Trigger) Trigger { return Trigger{Kind: KindJoin, Sub: subs} }

// Any returns a trigger that re-arms as soon as any one sub-trigger fires.
func Any(subs ...Trigger) Trigger { return Trigger{Kind: KindAny, Sub: subs} }
