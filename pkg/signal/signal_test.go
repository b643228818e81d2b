package signal

import "testing"

type recordingWaiter struct {
	fired *[]string
	name  string
}

func (w *recordingWaiter) Notify() {
	*w.fired = append(*w.fired, w.name)
}

func TestCommitFiresWaitersInRegistrationOrder(t *testing.T) {
	s := NewSignal("clk", BitValue(false))
	var fired []string
	a := &recordingWaiter{fired: &fired, name: "a"}
	b := &recordingWaiter{fired: &fired, name: "b"}
	s.Event().Add(a)
	s.Event().Add(b)

	if err := s.StageNext(BitValue(true)); err != nil {
		t.Fatalf("StageNext: %v", err)
	}
	woken := s.Commit()
	if len(woken) != 2 {
		t.Fatalf("woken = %d waiters, want 2", len(woken))
	}
	for _, w := range woken {
		w.Notify()
	}
	if len(fired) != 2 || fired[0] != "a" || fired[1] != "b" {
		t.Fatalf("fired = %v, want [a b]", fired)
	}
	if s.Event().Len() != 0 {
		t.Fatalf("event waiter list should be empty after commit")
	}
}

func TestCommitPosedgeAndNegedge(t *testing.T) {
	s := NewSignal("clk", BitValue(false))
	var fired []string
	pos := &recordingWaiter{fired: &fired, name: "pos"}
	neg := &recordingWaiter{fired: &fired, name: "neg"}
	s.Posedge().Add(pos)
	s.Negedge().Add(neg)

	s.StageNext(BitValue(true))
	woken := s.Commit()
	if len(woken) != 1 {
		t.Fatalf("expected 1 woken waiter on posedge, got %d", len(woken))
	}
	woken[0].Notify()
	if len(fired) != 1 || fired[0] != "pos" {
		t.Fatalf("fired = %v, want [pos]", fired)
	}

	s.StageNext(BitValue(false))
	woken = s.Commit()
	if len(woken) != 1 {
		t.Fatalf("expected 1 woken waiter on negedge, got %d", len(woken))
	}
	woken[0].Notify()
	if len(fired) != 2 || fired[1] != "neg" {
		t.Fatalf("fired = %v, want [pos neg]", fired)
	}
}

func TestCommitNoOpWhenValueUnchanged(t *testing.T) {
	s := NewSignal("d", BitValue(true))
	var fired []string
	s.Event().Add(&recordingWaiter{fired: &fired, name: "a"})
	s.StageNext(BitValue(true))
	woken := s.Commit()
	if woken != nil {
		t.Fatalf("expected no woken waiters for unchanged value, got %v", woken)
	}
}

func TestTypeMismatch(t *testing.T) {
	s := NewSignal("d", BitValue(false))
	if err := s.StageNext(IntValue(1)); err == nil {
		t.Fatalf("expected TypeMismatch")
	}
}

func TestConstSignalRejectsNext(t *testing.T) {
	s := NewConstSignal("vcc", BitValue(true))
	err := s.StageNext(BitValue(false))
	if _, ok := err.(*PermissionError); !ok {
		t.Fatalf("expected PermissionError, got %v", err)
	}
}

func TestDriveConflict(t *testing.T) {
	s := NewSignal("q", BitValue(false))
	if err := s.MarkDriven("procA"); err != nil {
		t.Fatalf("first MarkDriven: %v", err)
	}
	if err := s.MarkDriven("procB"); err == nil {
		t.Fatalf("expected DriveConflict on second driver")
	}
	if err := s.MarkDriven("procA"); err != nil {
		t.Fatalf("re-marking same driver should not conflict: %v", err)
	}
}

func TestShadowSignalTracksParent(t *testing.T) {
	bank := NewBank()
	v, _ := newTestVec(0xAB, 8)
	parentID := bank.Register(NewSignal("byte", VecValue(v)))
	shadow := bank.NewShadow("byte_lo", parentID, 4, 0)

	if got := bank.ShadowValue(shadow).Int(); got != 0xB {
		t.Fatalf("shadow value = %#x, want 0xb", got)
	}

	parent := bank.Get(parentID)
	nv, _ := newTestVec(0xCD, 8)
	parent.StageNext(VecValue(nv))
	parent.Commit()

	if got := bank.ShadowValue(shadow).Int(); got != 0xD {
		t.Fatalf("shadow value after parent update = %#x, want 0xd", got)
	}
}

func TestShadowSensitivityDelegatesToParent(t *testing.T) {
	bank := NewBank()
	v, _ := newTestVec(0, 8)
	parentID := bank.Register(NewSignal("byte", VecValue(v)))
	shadow := bank.NewShadow("byte_hi", parentID, 8, 4)

	var fired []string
	w := &recordingWaiter{fired: &fired, name: "w"}
	bank.EventFor(shadow).Add(w)

	parent := bank.Get(parentID)
	nv, _ := newTestVec(1, 8)
	parent.StageNext(VecValue(nv))
	woken := parent.Commit()
	if len(woken) != 1 {
		t.Fatalf("expected the shadow's subscriber to be woken via the parent's event list")
	}
}
