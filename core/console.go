package core

// Category classifies a console line. Consumers may filter or route on it;
// the message text is informational only.
type Category uint8

const (
	CategoryAddress  Category = iota + 1 // Address field accepted
	CategoryBitPos                       // Bit position field accepted
	CategoryBitVal                       // Bit value field accepted, register written
	CategoryInvalid                      // Token failed hex validation
	CategoryOverflow                     // Token exceeded its capacity
	CategoryOverrun                      // Ingest buffer dropped a character
	CategoryEdge                         // External edge counted
	CategoryState                        // Parser recovered from an unknown state
)

func (c Category) String() string {
	switch c {
	case CategoryAddress:
		return "address"
	case CategoryBitPos:
		return "bitpos"
	case CategoryBitVal:
		return "bitval"
	case CategoryInvalid:
		return "invalid"
	case CategoryOverflow:
		return "overflow"
	case CategoryOverrun:
		return "overrun"
	case CategoryEdge:
		return "edge"
	case CategoryState:
		return "state"
	default:
		return "unknown"
	}
}

// ConsoleWriter receives human-readable status lines from the main loop.
// Platforms route it to a UART, a logger, etc.
type ConsoleWriter func(cat Category, msg string)

// discardConsole is the default writer
func discardConsole(Category, string) {}

// consoleLine is one queued AsyncConsole message
type consoleLine struct {
	cat Category
	msg string
}

// AsyncConsole decouples a slow ConsoleWriter from the main loop.
// Write never blocks; lines are dropped when the queue is full.
type AsyncConsole struct {
	out     ConsoleWriter
	lines   chan consoleLine
	done    chan struct{}
	dropped uint32
}

// NewAsyncConsole starts a worker draining into out
func NewAsyncConsole(out ConsoleWriter, depth int) *AsyncConsole {
	if depth <= 0 {
		depth = 16
	}
	c := &AsyncConsole{
		out:   out,
		lines: make(chan consoleLine, depth),
		done:  make(chan struct{}),
	}
	go c.worker()
	return c
}

func (c *AsyncConsole) worker() {
	defer close(c.done)
	for line := range c.lines {
		c.out(line.cat, line.msg)
	}
}

// Write queues a line. Must not be called after Close.
func (c *AsyncConsole) Write(cat Category, msg string) {
	select {
	case c.lines <- consoleLine{cat: cat, msg: msg}:
	default:
		// Queue full, drop message (non-blocking)
		c.dropped++
	}
}

// Dropped returns the number of lines lost to a full queue.
// Only meaningful from the writing goroutine or after Close.
func (c *AsyncConsole) Dropped() uint32 {
	return c.dropped
}

// Close flushes queued lines and stops the worker
func (c *AsyncConsole) Close() {
	close(c.lines)
	<-c.done
}
