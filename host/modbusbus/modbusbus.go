// Package modbusbus exposes a remote device's holding registers as a
// core.RegisterBus, so commands can drive real I/O from a workstation.
//
// Each 8-bit register maps to the low byte of the holding register with
// the same address. Bit writes use Mask Write Register (function 22), so
// the device applies them and the other bits are never read over the wire.
package modbusbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/rs/zerolog/log"

	"bitcmd/core"
)

var _ core.BitSetter = (*Bus)(nil)

// ErrStaleWrite reports a Store dropped because the preceding Load failed
var ErrStaleWrite = errors.New("previous read failed, write not sent")

type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
}

// Bus implements core.RegisterBus over Modbus TCP
type Bus struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
	lastErr error

	// addresses whose last Load failed; the next Store to them is dropped
	unread map[core.RegisterAddr]struct{}
}

// Dial connects to cfg.Endpoint
func Dial(cfg Config) (*Bus, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus bus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("modbus bus: failed to connect to %s: %w", cfg.Endpoint, err)
	}

	return &Bus{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

// New wraps an existing client. Close is a no-op for such a bus.
func New(client modbus.Client) *Bus {
	return &Bus{client: client}
}

// Load implements core.RegisterBus. A failed read returns 0 and is
// reported by Err.
func (b *Bus) Load(addr core.RegisterAddr) uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()

	res, err := b.client.ReadHoldingRegisters(uint16(addr), 1)
	if err == nil && len(res) < 2 {
		err = fmt.Errorf("short response: %d bytes", len(res))
	}
	if err != nil {
		b.fail("read", addr, err)
		if b.unread == nil {
			b.unread = make(map[core.RegisterAddr]struct{})
		}
		b.unread[addr] = struct{}{}
		return 0
	}
	delete(b.unread, addr)
	return res[1]
}

// Store implements core.RegisterBus. Failures are reported by Err.
// A Store following a failed Load of the same address is not sent, since
// v was computed from a value the device never returned.
func (b *Bus) Store(addr core.RegisterAddr, v uint8) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.unread[addr]; ok {
		delete(b.unread, addr)
		b.fail("write", addr, ErrStaleWrite)
		return
	}

	if _, err := b.client.WriteSingleRegister(uint16(addr), uint16(v)); err != nil {
		b.fail("write", addr, err)
	}
}

// SetBits implements core.BitSetter. The high byte and the unmasked low
// bits of the holding register are left as the device holds them.
func (b *Bus) SetBits(addr core.RegisterAddr, mask uint8, value bool) {
	if mask == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var orMask uint16
	if value {
		orMask = uint16(mask)
	}
	if _, err := b.client.MaskWriteRegister(uint16(addr), ^uint16(mask), orMask); err != nil {
		b.fail("mask write", addr, err)
	}
}

func (b *Bus) fail(op string, addr core.RegisterAddr, err error) {
	b.lastErr = fmt.Errorf("modbus %s 0x%04x: %w", op, uint16(addr), err)
	log.Warn().Err(err).Str("op", op).Uint16("register", uint16(addr)).Msg("modbus bus")
}

// Err returns and clears the most recent transfer error
func (b *Bus) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	err := b.lastErr
	b.lastErr = nil
	return err
}

// Close drops the TCP connection
func (b *Bus) Close() error {
	if b.handler == nil {
		return nil
	}
	return b.handler.Close()
}
