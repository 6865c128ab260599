package main

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetachReaderPassesThrough(t *testing.T) {
	src := detachReader(strings.NewReader("25:3:1:"))
	defer src.Close()

	data, err := io.ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, "25:3:1:", string(data))
}

func TestDetachReaderCloseUnblocksRead(t *testing.T) {
	// A reader that blocks until written, like an idle terminal
	stdin, feed := io.Pipe()
	defer feed.Close()

	src := detachReader(stdin)

	done := make(chan error, 1)
	go func() {
		_, err := src.Read(make([]byte, 8))
		done <- err
	}()

	require.NoError(t, src.Close())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, io.ErrClosedPipe)
	case <-time.After(time.Second):
		t.Fatal("Read still blocked after Close")
	}
}
