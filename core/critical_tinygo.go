//go:build tinygo

package core

import "runtime/interrupt"

type irqState = interrupt.State

// enterCritical masks interrupts and returns the previous mask.
// Nesting inside an interrupt handler is allowed.
func enterCritical() irqState {
	return interrupt.Disable()
}

func exitCritical(state irqState) {
	interrupt.Restore(state)
}
