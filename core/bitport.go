package core

// BitPort sets or clears one bit in a data register and its direction register
type BitPort struct {
	bus RegisterBus
}

// NewBitPort creates a BitPort on the given bus
func NewBitPort(bus RegisterBus) *BitPort {
	return &BitPort{bus: bus}
}

// WriteBit sets (value=true) or clears bit in the register at addr and in
// the direction register at addr-1. Both read-modify-writes run with
// interrupts masked.
//
// A bus implementing BitSetter gets one masked write per register instead,
// outside the critical section; the interrupt context never touches such a
// bus.
//
// bit is not range checked. Indices of 8 or more give an empty mask, so the
// write leaves both registers unchanged. An invalid addr is a caller error.
func (p *BitPort) WriteBit(addr RegisterAddr, bit uint8, value bool) {
	mask := uint8(1) << bit
	dir := addr.Direction()

	if bs, ok := p.bus.(BitSetter); ok {
		bs.SetBits(addr, mask, value)
		bs.SetBits(dir, mask, value)
		return
	}

	// On hosted builds this holds irqLock across the bus transfers, so
	// OnByteReceived waits as it would with interrupts masked.
	state := enterCritical()
	defer exitCritical(state)

	if value {
		p.bus.Store(addr, p.bus.Load(addr)|mask)
		p.bus.Store(dir, p.bus.Load(dir)|mask)
	} else {
		p.bus.Store(addr, p.bus.Load(addr)&^mask)
		p.bus.Store(dir, p.bus.Load(dir)&^mask)
	}
}

// Bus returns the underlying register bus
func (p *BitPort) Bus() RegisterBus {
	return p.bus
}
