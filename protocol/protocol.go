// Package protocol implements the colon-delimited bit command protocol
package protocol

// Version represents the bitcmd firmware version
const Version = "0.1.0"

// Protocol constants
const (
	Delimiter     = ':' // Field terminator
	TokenCapacity = 16  // Token storage including the terminator slot
	TokenMax      = TokenCapacity - 1

	// Bit value field: only this character selects "set"
	BitSetChar = '1'
)
