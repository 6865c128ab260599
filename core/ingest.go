package core

import "sync/atomic"

// Ingest buffer sizing
const (
	MinBufferSize     = 2  // One slot is always kept free
	DefaultBufferSize = 32 // Matches the serial receive ring on the AVR board
)

// IngestBuffer is a fixed-capacity character ring between the byte-received
// interrupt (producer) and the main loop (consumer).
//
// Empty when head == tail, full when (head+1)%size == tail. Pushing into a
// full ring evicts the oldest unread character and reports it through the
// OverrunReporter; Push never fails or blocks.
type IngestBuffer struct {
	buf  []byte
	size uint32

	head  atomic.Uint32 // Next write slot
	tail  atomic.Uint32 // Next read slot
	ready atomic.Bool   // Data-available signal, set after head

	overruns OverrunReporter
}

// NewIngestBuffer creates a ring with the given slot count.
// Capacities below MinBufferSize are raised to it.
func NewIngestBuffer(capacity int) *IngestBuffer {
	if capacity < MinBufferSize {
		capacity = MinBufferSize
	}
	return &IngestBuffer{
		buf:  make([]byte, capacity),
		size: uint32(capacity),
	}
}

// Push stores c, evicting the oldest character when full.
// Producer context only.
func (b *IngestBuffer) Push(c byte) {
	state := enterCritical()
	defer exitCritical(state)

	head := b.head.Load()
	tail := b.tail.Load()
	next := (head + 1) % b.size

	if next == tail {
		// Buffer full - drop the oldest character, not the new one
		b.overruns.record(b.buf[tail])
		b.tail.Store((tail + 1) % b.size)
	}

	b.buf[head] = c
	b.head.Store(next)

	// Flag last, so the consumer never sees it without the data
	b.ready.Store(true)
}

// Pop returns the oldest unread character.
// On an empty ring it returns false and leaves tail untouched.
// Consumer context only.
func (b *IngestBuffer) Pop() (byte, bool) {
	state := enterCritical()
	defer exitCritical(state)

	tail := b.tail.Load()
	if tail == b.head.Load() {
		return 0, false
	}

	c := b.buf[tail]
	b.tail.Store((tail + 1) % b.size)
	return c, true
}

// HasData reports whether an unread character exists
func (b *IngestBuffer) HasData() bool {
	return b.head.Load() != b.tail.Load()
}

// TakeReady returns and clears the data-available signal.
// The signal is a readiness hint, not a count.
func (b *IngestBuffer) TakeReady() bool {
	return b.ready.Swap(false)
}

// Available returns the number of unread characters
func (b *IngestBuffer) Available() int {
	head := b.head.Load()
	tail := b.tail.Load()
	if head >= tail {
		return int(head - tail)
	}
	return int(b.size - tail + head)
}

// Capacity returns the number of characters the ring can hold
func (b *IngestBuffer) Capacity() int {
	return int(b.size) - 1
}

// Overruns returns the reporter fed by Push
func (b *IngestBuffer) Overruns() *OverrunReporter {
	return &b.overruns
}
