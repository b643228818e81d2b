package signal

// Waiter is the minimal interface a signal's waiter lists need: something
// that can be told "you fired". Package sim's concrete waiter types (edge
// waiter, join waiter, ...) implement this by enqueueing themselves onto
// the scheduler's ready queue. Package signal never imports package sim —
// this interface is the seam between them.
type Waiter interface {
	Notify()
}

// WaiterList is an ordered, dedup-on-register list of waiters subscribed
// to one kind of event on one signal. Registration order is preserved and
// is the scheduler's only ordering guarantee: waiters fire in the order
// they were registered.
type WaiterList struct {
	items []Waiter
}

// Add appends w if it is not already present.
func (wl *WaiterList) Add(w Waiter) {
	for _, existing := range wl.items {
		if existing == w {
			return
		}
	}
	wl.items = append(wl.items, w)
}

// Remove deletes w from the list, if present. Used when a waiter is
// cancelled or re-arms on a different trigger set.
func (wl *WaiterList) Remove(w Waiter) {
	for i, existing := range wl.items {
		if existing == w {
			wl.items = append(wl.items[:i], wl.items[i+1:]...)
			return
		}
	}
}

// snapshotAndClear returns the current contents (in registration order)
// and empties the list, matching the once-per-delta-cycle update
// semantics a signal commit needs.
func (wl *WaiterList) snapshotAndClear() []Waiter {
	if len(wl.items) == 0 {
		return nil
	}
	out := wl.items
	wl.items = nil
	return out
}

func (wl *WaiterList) Len() int { return len(wl.items) }
