package core

import "sync/atomic"

// MemoryBus is a simulated register file covering the whole RegisterAddr
// space. Used on hosted builds and in tests.
type MemoryBus struct {
	regs [1 << 16]atomic.Uint32
}

// NewMemoryBus creates a zeroed register file
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{}
}

// Load implements RegisterBus
func (m *MemoryBus) Load(addr RegisterAddr) uint8 {
	return uint8(m.regs[addr].Load())
}

// Store implements RegisterBus
func (m *MemoryBus) Store(addr RegisterAddr, v uint8) {
	m.regs[addr].Store(uint32(v))
}
