package core

// RegisterAddr is the data-space address of an 8-bit hardware register
type RegisterAddr uint16

// Direction returns the paired direction register, one address below.
// Address 0 wraps to the top of the address space.
func (a RegisterAddr) Direction() RegisterAddr {
	return a - 1
}

// RegisterBus is the abstract register access interface that core code uses.
// Platform-specific implementations perform the actual memory access.
type RegisterBus interface {
	// Load reads the register at addr
	Load(addr RegisterAddr) uint8

	// Store writes v to the register at addr
	Store(addr RegisterAddr, v uint8)
}

// BitSetter is implemented by buses that can set or clear the masked bits
// of a register in a single transfer, leaving the other bits untouched.
// BitPort prefers it over Load followed by Store.
type BitSetter interface {
	SetBits(addr RegisterAddr, mask uint8, value bool)
}

// Global singleton used by targets that have a single register file.
var registerBus RegisterBus

// SetRegisterBus is called by target-specific code to register its bus.
func SetRegisterBus(b RegisterBus) {
	registerBus = b
}

// MustRegisterBus returns the configured bus or panics if missing.
func MustRegisterBus() RegisterBus {
	if registerBus == nil {
		panic("register bus not configured")
	}
	return registerBus
}
