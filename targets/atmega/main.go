//go:build avr

// Firmware for the ATmega328P (Arduino Uno / Nano).
//
// The firmware owns USART0, so build with the TinyGo serial disabled:
//
//	tinygo flash -target=arduino -serial=none ./targets/atmega
package main

import (
	"bitcmd/core"
)

var interp *core.Interpreter

func main() {
	core.SetRegisterBus(ioBus{})

	opts := []core.Option{core.WithConsole(uartConsole)}

	// Run headless if the I2C bus cannot be configured. ssd1306 reports
	// nothing back, so a missing panel is not detected.
	if panel, err := newOLED(); err == nil {
		opts = append(opts, core.WithDisplay(panel))
	}

	interp = core.NewInterpreter(core.DefaultConfig(), nil, opts...)

	// Interrupts last, once interp exists
	initUART(9600)
	initEdge()

	uartConsole(core.CategoryAddress, "Angiv Addresse")

	for {
		interp.Poll()
	}
}
