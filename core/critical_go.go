//go:build !tinygo

package core

import "sync"

// irqState mirrors interrupt.State on hosted builds
type irqState uintptr

// On hosted builds the "interrupt context" is a goroutine, so the
// interrupt mask is modelled by a lock both contexts take.
var irqLock sync.Mutex

// enterCritical blocks the other context until exitCritical
func enterCritical() irqState {
	irqLock.Lock()
	return 0
}

func exitCritical(irqState) {
	irqLock.Unlock()
}
