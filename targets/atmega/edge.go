//go:build avr

package main

import (
	"device/avr"
	"machine"
	"runtime/interrupt"
)

// initEdge counts falling edges on INT0 (PD2, Arduino D2)
func initEdge() {
	machine.D2.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	interrupt.New(avr.IRQ_INT0, handleINT0)
	avr.EICRA.Set(avr.EICRA_ISC01)
	avr.EIMSK.SetBits(avr.EIMSK_INT0)
}

func handleINT0(interrupt.Interrupt) {
	interp.OnEdge()
}
