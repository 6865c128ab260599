package core

import "sync/atomic"

// OverrunEvent describes the latest character lost to a full ingest buffer
type OverrunEvent struct {
	Dropped byte   // Character evicted by the most recent overrun
	Total   uint32 // Drops since start, never reset
}

// OverrunReporter surfaces dropped characters to the main loop without
// blocking the producer. Only the latest drop is kept between drains.
type OverrunReporter struct {
	dropped atomic.Uint32
	total   atomic.Uint32
	pending atomic.Bool
}

// record is called by the producer with the evicted character
func (r *OverrunReporter) record(c byte) {
	r.dropped.Store(uint32(c))
	r.total.Add(1)
	r.pending.Store(true)
}

// DrainPending returns the latest drop since the previous drain, if any,
// and clears the pending flag.
func (r *OverrunReporter) DrainPending() (OverrunEvent, bool) {
	if !r.pending.Swap(false) {
		return OverrunEvent{}, false
	}
	return OverrunEvent{
		Dropped: byte(r.dropped.Load()),
		Total:   r.total.Load(),
	}, true
}

// Total returns the cumulative drop count
func (r *OverrunReporter) Total() uint32 {
	return r.total.Load()
}
