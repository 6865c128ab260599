package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeCounter(t *testing.T) {
	var e EdgeCounter

	_, ok := e.DrainPending()
	assert.False(t, ok)

	e.Trigger()
	e.Trigger()
	n, ok := e.DrainPending()
	assert.True(t, ok)
	assert.Equal(t, uint32(2), n)

	_, ok = e.DrainPending()
	assert.False(t, ok, "count reported once per burst")

	e.Trigger()
	n, ok = e.DrainPending()
	assert.True(t, ok)
	assert.Equal(t, uint32(3), n, "count is cumulative")
}

func TestEdgeCounterConcurrent(t *testing.T) {
	var e EdgeCounter
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				e.Trigger()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint32(8000), e.Count())
}
