//go:build avr

package main

import (
	"runtime/volatile"
	"unsafe"

	"bitcmd/core"
)

// ioBus maps RegisterAddr straight onto the AVR data space, where the I/O
// registers live at 0x20-0xFF.
type ioBus struct{}

func (ioBus) reg(addr core.RegisterAddr) *volatile.Register8 {
	return (*volatile.Register8)(unsafe.Pointer(uintptr(addr)))
}

// Load implements core.RegisterBus
func (b ioBus) Load(addr core.RegisterAddr) uint8 {
	return b.reg(addr).Get()
}

// Store implements core.RegisterBus
func (b ioBus) Store(addr core.RegisterAddr, v uint8) {
	b.reg(addr).Set(v)
}
