package protocol

// State is the protocol field the parser expects next
type State uint8

const (
	StateAddress     State = iota // Register address (two digits)
	StateBitPosition              // Bit index within the register
	StateBitValue                 // '1' sets, anything else clears
)

func (s State) String() string {
	switch s {
	case StateAddress:
		return "address"
	case StateBitPosition:
		return "bitpos"
	case StateBitValue:
		return "bitval"
	default:
		return "unknown"
	}
}

// Command is one complete register bit write
type Command struct {
	Address uint8 // Raw data register address, not yet dereferenced
	Bit     uint8 // Bit index, not range checked
	Value   bool  // true sets the bit, false clears it
}

// OutcomeKind tags the result of feeding a token to the parser
type OutcomeKind uint8

const (
	NeedsMore OutcomeKind = iota // Field stored, protocol advanced
	Completed                    // Full cycle, Command is valid
	Invalid                      // Token rejected, protocol state unchanged
	Recovered                    // Parser held an unknown state and was reset to StateAddress
)

func (k OutcomeKind) String() string {
	switch k {
	case NeedsMore:
		return "needs_more"
	case Completed:
		return "completed"
	case Invalid:
		return "invalid"
	case Recovered:
		return "recovered"
	default:
		return "unknown"
	}
}

// Outcome describes what a token did to the parser
type Outcome struct {
	Kind    OutcomeKind
	Stage   State   // State that consumed (or rejected) the token
	Token   string  // Token as received
	Command Command // Valid only when Kind == Completed
}

// Step is the pure transition function of the protocol.
// It assumes token already passed IsHex.
func Step(state State, cmd Command, token string) (State, Command, Outcome) {
	out := Outcome{Stage: state, Token: token}

	switch state {
	case StateAddress:
		// Each character contributes its decimal value: "25" -> 0x25.
		// Hex letters are accepted by IsHex but produce other values here.
		cmd.Address = digit(token, 0)*16 + digit(token, 1)
		out.Kind = NeedsMore
		return StateBitPosition, cmd, out

	case StateBitPosition:
		cmd.Bit = digit(token, 0)
		out.Kind = NeedsMore
		return StateBitValue, cmd, out

	case StateBitValue:
		cmd.Value = charAt(token, 0) == BitSetChar
		out.Kind = Completed
		out.Command = cmd
		return StateAddress, cmd, out

	default:
		out.Kind = Recovered
		return StateAddress, cmd, out
	}
}

// Parser holds the protocol state and the partially built command
type Parser struct {
	state State
	cmd   Command
}

// NewParser creates a parser waiting for an address
func NewParser() *Parser {
	return &Parser{state: StateAddress}
}

// Feed validates token and advances the protocol.
// A non-hex token yields Invalid and leaves state and fields untouched.
func (p *Parser) Feed(token string) Outcome {
	if !IsHex(token) {
		return Outcome{Kind: Invalid, Stage: p.state, Token: token}
	}

	var out Outcome
	p.state, p.cmd, out = Step(p.state, p.cmd, token)
	return out
}

// State returns the field expected next
func (p *Parser) State() State {
	return p.state
}

// Pending returns the fields accumulated in the current cycle
func (p *Parser) Pending() Command {
	return p.cmd
}

// Reset returns the parser to StateAddress and clears pending fields
func (p *Parser) Reset() {
	p.state = StateAddress
	p.cmd = Command{}
}

// Restore reloads a saved parser position. A state outside the known set
// is recovered on the next Feed.
func (p *Parser) Restore(state State, pending Command) {
	p.state = state
	p.cmd = pending
}

// charAt returns token[i], or NUL past the end like a terminated buffer
func charAt(token string, i int) byte {
	if i < len(token) {
		return token[i]
	}
	return 0
}

// digit applies c - '0' with uint8 wrap-around
func digit(token string, i int) uint8 {
	return charAt(token, i) - '0'
}
