package core

import "sync/atomic"

// EdgeCounter counts external interrupt edges and flags them for the main loop
type EdgeCounter struct {
	count   atomic.Uint32
	pending atomic.Bool
}

// Trigger is called from the edge interrupt handler
func (e *EdgeCounter) Trigger() {
	e.count.Add(1)
	e.pending.Store(true)
}

// DrainPending returns the running count if an edge arrived since the last drain
func (e *EdgeCounter) DrainPending() (uint32, bool) {
	if !e.pending.Swap(false) {
		return 0, false
	}
	return e.count.Load(), true
}

// Count returns the number of edges since start
func (e *EdgeCounter) Count() uint32 {
	return e.count.Load()
}
