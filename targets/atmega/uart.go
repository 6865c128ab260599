//go:build avr

package main

import (
	"device/avr"
	"runtime/interrupt"

	"bitcmd/core"
)

const cpuFrequency = 16000000

// initUART sets USART0 to 8N1 at baud with the receive-complete interrupt
// enabled.
func initUART(baud uint32) {
	ubrr := cpuFrequency/(16*baud) - 1
	avr.UBRR0H.Set(uint8(ubrr >> 8))
	avr.UBRR0L.Set(uint8(ubrr))

	avr.UCSR0C.Set(avr.UCSR0C_UCSZ01 | avr.UCSR0C_UCSZ00)

	interrupt.New(avr.IRQ_USART_RX, handleRX)
	avr.UCSR0B.Set(avr.UCSR0B_RXEN0 | avr.UCSR0B_TXEN0 | avr.UCSR0B_RXCIE0)
}

// handleRX is the receive-complete ISR. Reading UDR0 clears the interrupt.
func handleRX(interrupt.Interrupt) {
	interp.OnByteReceived(avr.UDR0.Get())
}

func uartWriteByte(c byte) {
	for !avr.UCSR0A.HasBits(avr.UCSR0A_UDRE0) {
	}
	avr.UDR0.Set(c)
}

// uartConsole writes one console line with polled transmit
func uartConsole(_ core.Category, msg string) {
	for i := 0; i < len(msg); i++ {
		uartWriteByte(msg[i])
	}
	uartWriteByte('\r')
	uartWriteByte('\n')
}
