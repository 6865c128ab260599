package core

import (
	"bitcmd/protocol"
)

// Config holds the interpreter tunables
type Config struct {
	BufferSize     int  // Ingest ring slots
	DisplayLines   int  // Text rows before the display wraps
	EchoCharacters bool // Draw every consumed character on the display
}

// DefaultConfig returns the settings used by the AVR firmware
func DefaultConfig() Config {
	return Config{
		BufferSize:   DefaultBufferSize,
		DisplayLines: DefaultDisplayLines,
	}
}

// CommandHook is called after a completed command has been written
type CommandHook func(cmd protocol.Command)

// Stats is a snapshot of interpreter counters
type Stats struct {
	State     protocol.State
	Overruns  uint32
	Edges     uint32
	Commands  uint32
	Invalid   uint32
	Overflows uint32
}

// Interpreter is the main-loop context object. It owns the ingest buffer,
// the token assembler and the protocol parser, and drives a BitPort.
//
// OnByteReceived and OnEdge are the interrupt-context entry points; every
// other method belongs to the main loop.
type Interpreter struct {
	ingest    *IngestBuffer
	edges     EdgeCounter
	assembler protocol.Assembler
	parser    protocol.Parser
	port      *BitPort

	console ConsoleWriter
	display Display
	lines   *lineWriter
	echo    bool
	hook    CommandHook

	commands  uint32
	invalid   uint32
	overflows uint32
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithConsole routes status lines to w
func WithConsole(w ConsoleWriter) Option {
	return func(in *Interpreter) {
		if w != nil {
			in.console = w
		}
	}
}

// WithDisplay echoes protocol stages on d
func WithDisplay(d Display) Option {
	return func(in *Interpreter) {
		in.display = d
	}
}

// WithCommandHook registers a callback run after each register write
func WithCommandHook(h CommandHook) Option {
	return func(in *Interpreter) {
		in.hook = h
	}
}

// NewInterpreter creates an interpreter writing through port.
// A nil port uses the bus registered with SetRegisterBus.
func NewInterpreter(cfg Config, port *BitPort, opts ...Option) *Interpreter {
	if cfg.BufferSize == 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if port == nil {
		port = NewBitPort(MustRegisterBus())
	}

	in := &Interpreter{
		ingest:  NewIngestBuffer(cfg.BufferSize),
		port:    port,
		console: discardConsole,
		echo:    cfg.EchoCharacters,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.display != nil {
		in.lines = newLineWriter(in.display, cfg.DisplayLines)
	}
	return in
}

// OnByteReceived is the byte-received interrupt entry point
func (in *Interpreter) OnByteReceived(c byte) {
	in.ingest.Push(c)
}

// OnEdge is the external-edge interrupt entry point
func (in *Interpreter) OnEdge() {
	in.edges.Trigger()
}

// Poll runs one non-blocking main-loop pass. Each of the three signals
// (data available, overrun pending, edge pending) is handled if set.
func (in *Interpreter) Poll() {
	if in.ingest.TakeReady() {
		for {
			c, ok := in.ingest.Pop()
			if !ok {
				break
			}
			in.consume(c)
		}
	}

	if ev, ok := in.ingest.Overruns().DrainPending(); ok {
		in.console(CategoryOverrun,
			"Skipped character: "+printable(ev.Dropped)+" total: "+utoa(ev.Total))
	}

	if n, ok := in.edges.DrainPending(); ok {
		count := utoa(n)
		in.writeLine("Pin0: ", count, StyleNormal)
		in.console(CategoryEdge, "Interrupt on external pin 0, count: "+count)
	}
}

// consume feeds one character to the assembler
func (in *Interpreter) consume(c byte) {
	if in.echo {
		in.writeLine("character : ", printable(c), StyleBold)
	}

	res, token := in.assembler.Accept(c)
	switch res {
	case protocol.DelimiterReached:
		in.dispatch(token)
	case protocol.Overflowed:
		in.overflows++
		in.console(CategoryOverflow, "Token buffer overflow, resetting token")
	}
}

// dispatch feeds a completed token to the parser and acts on the outcome
func (in *Interpreter) dispatch(token string) {
	out := in.parser.Feed(token)

	switch out.Kind {
	case protocol.Invalid:
		in.invalid++
		in.console(CategoryInvalid, "Invalid hex string: "+token)
		return

	case protocol.Recovered:
		in.console(CategoryState, "Unknown state, expecting address")
		in.writeLine("err", "Unknown State!", StyleNormal)
		in.writeLine("", "Angiv Addresse", StyleNormal)
		return
	}

	switch out.Stage {
	case protocol.StateAddress:
		in.console(CategoryAddress, "Addr: "+token)
		in.writeLine("Addr: ", token, StyleNormal)
	case protocol.StateBitPosition:
		in.console(CategoryBitPos, "bitpos: "+token)
		in.writeLine("bitpos: ", token, StyleNormal)
	case protocol.StateBitValue:
		in.console(CategoryBitVal, "bitval: "+token)
		in.writeLine("bitval: ", token, StyleNormal)
	}

	if out.Kind == protocol.Completed {
		cmd := out.Command
		in.port.WriteBit(RegisterAddr(cmd.Address), cmd.Bit, cmd.Value)
		in.commands++
		if in.hook != nil {
			in.hook(cmd)
		}
	}
}

func (in *Interpreter) writeLine(label, text string, style TextStyle) {
	if in.lines != nil {
		in.lines.writeLine(label, text, style)
	}
}

// State returns the protocol field expected next
func (in *Interpreter) State() protocol.State {
	return in.parser.State()
}

// Ingest exposes the ingest buffer for diagnostics
func (in *Interpreter) Ingest() *IngestBuffer {
	return in.ingest
}

// Stats returns a snapshot of the interpreter counters.
// Main loop only.
func (in *Interpreter) Stats() Stats {
	return Stats{
		State:     in.parser.State(),
		Overruns:  in.ingest.Overruns().Total(),
		Edges:     in.edges.Count(),
		Commands:  in.commands,
		Invalid:   in.invalid,
		Overflows: in.overflows,
	}
}
