package protocol

// AssembleResult is the outcome of feeding one character to an Assembler
type AssembleResult uint8

const (
	Accumulated      AssembleResult = iota // Character appended to the token
	DelimiterReached                       // Token complete, returned to caller
	Overflowed                             // Token discarded, capacity exceeded
)

func (r AssembleResult) String() string {
	switch r {
	case Accumulated:
		return "accumulated"
	case DelimiterReached:
		return "delimiter"
	case Overflowed:
		return "overflowed"
	default:
		return "unknown"
	}
}

// Assembler accumulates characters into a bounded token until a delimiter.
// The storage is kept NUL-terminated after every accepted character.
type Assembler struct {
	buf [TokenCapacity]byte
	n   int
}

// Accept consumes one character.
// The token string is only meaningful for DelimiterReached.
func (a *Assembler) Accept(c byte) (AssembleResult, string) {
	if c == Delimiter {
		token := string(a.buf[:a.n])
		a.Reset()
		return DelimiterReached, token
	}

	if a.n >= TokenMax {
		// The overflowing character is dropped with the token
		a.Reset()
		return Overflowed, ""
	}

	a.buf[a.n] = c
	a.n++
	a.buf[a.n] = 0
	return Accumulated, ""
}

// Reset empties the token
func (a *Assembler) Reset() {
	a.n = 0
	a.buf[0] = 0
}

// Len returns the current token length
func (a *Assembler) Len() int {
	return a.n
}

// Token returns the characters accumulated so far
func (a *Assembler) Token() string {
	return string(a.buf[:a.n])
}
