package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestAssemblerDelimiter(t *testing.T) {
	var a Assembler

	for _, c := range []byte("25") {
		res, _ := a.Accept(c)
		require.Equal(t, Accumulated, res)
	}
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, "25", a.Token())

	res, token := a.Accept(':')
	require.Equal(t, DelimiterReached, res)
	assert.Equal(t, "25", token)
	assert.Equal(t, 0, a.Len())
}

func TestAssemblerEmptyToken(t *testing.T) {
	var a Assembler

	res, token := a.Accept(':')
	require.Equal(t, DelimiterReached, res)
	assert.Empty(t, token)
}

func TestAssemblerOverflow(t *testing.T) {
	var a Assembler

	for i := 0; i < TokenMax; i++ {
		res, _ := a.Accept('7')
		require.Equal(t, Accumulated, res, "char %d", i)
	}
	assert.Equal(t, TokenMax, a.Len())

	res, _ := a.Accept('7')
	assert.Equal(t, Overflowed, res)
	assert.Equal(t, 0, a.Len())

	// The overflowing character is not carried into the next token
	res, token := a.Accept(':')
	require.Equal(t, DelimiterReached, res)
	assert.Empty(t, token)
}

func TestAssemblerTerminated(t *testing.T) {
	var a Assembler

	for i, c := range []byte("abc") {
		a.Accept(c)
		assert.Equal(t, byte(0), a.buf[i+1], "missing terminator after %d chars", i+1)
	}
	a.Reset()
	assert.Equal(t, byte(0), a.buf[0])
}

func TestPropertyAssemblerRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		noDelim := rapid.Byte().Filter(func(b byte) bool { return b != Delimiter })
		input := string(rapid.SliceOfN(noDelim, 0, TokenMax-1).Draw(t, "input"))

		var a Assembler
		for i := 0; i < len(input); i++ {
			if res, _ := a.Accept(input[i]); res != Accumulated {
				t.Fatalf("char %d: expected accumulated, got %v", i, res)
			}
		}
		if a.Token() != input {
			t.Fatalf("expected token %q, got %q", input, a.Token())
		}

		res, token := a.Accept(Delimiter)
		if res != DelimiterReached || token != input {
			t.Fatalf("expected delimiter with %q, got %v %q", input, res, token)
		}
	})
}

func TestPropertyAssemblerOverflowOnce(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(TokenCapacity, 2*TokenCapacity-1).Draw(t, "n")
		c := rapid.ByteRange('0', '9').Draw(t, "c")

		var a Assembler
		overflows := 0
		for i := 0; i < n; i++ {
			res, _ := a.Accept(c)
			if res == Overflowed {
				overflows++
				if a.Len() != 0 {
					t.Fatalf("expected empty token after overflow, got %d", a.Len())
				}
			}
		}
		if overflows != 1 {
			t.Fatalf("expected exactly one overflow for %d chars, got %d", n, overflows)
		}
	})
}
