package modbusbus

import (
	"errors"
	"testing"

	"github.com/goburrow/modbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitcmd/core"
)

// fakeClient serves holding registers from a map
type fakeClient struct {
	modbus.Client

	regs    map[uint16]uint16
	err     error
	readErr error
	writes  int
}

func (f *fakeClient) ReadHoldingRegisters(address, quantity uint16) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.readErr != nil {
		return nil, f.readErr
	}
	out := make([]byte, 0, 2*quantity)
	for i := uint16(0); i < quantity; i++ {
		v := f.regs[address+i]
		out = append(out, byte(v>>8), byte(v))
	}
	return out, nil
}

func (f *fakeClient) WriteSingleRegister(address, value uint16) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.writes++
	f.regs[address] = value
	return []byte{byte(value >> 8), byte(value)}, nil
}

// MaskWriteRegister applies (current AND and) OR (or AND NOT and)
func (f *fakeClient) MaskWriteRegister(address, andMask, orMask uint16) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.writes++
	f.regs[address] = f.regs[address]&andMask | orMask&^andMask
	return []byte{byte(address >> 8), byte(address), byte(andMask >> 8), byte(andMask), byte(orMask >> 8), byte(orMask)}, nil
}

func TestBusDrivesBitPort(t *testing.T) {
	client := &fakeClient{regs: map[uint16]uint16{0x25: 0x0101}}
	bus := New(client)

	core.NewBitPort(bus).WriteBit(0x25, 3, true)

	assert.Equal(t, uint16(0x0109), client.regs[0x25])
	assert.Equal(t, uint16(0x0008), client.regs[0x24])
	assert.NoError(t, bus.Err())

	core.NewBitPort(bus).WriteBit(0x25, 0, false)
	assert.Equal(t, uint16(0x0108), client.regs[0x25])
	assert.Equal(t, uint16(0x0008), client.regs[0x24])
}

func TestBusBitWriteWithoutReads(t *testing.T) {
	client := &fakeClient{
		regs:    map[uint16]uint16{0x25: 0xF0, 0x24: 0xF0},
		readErr: errors.New("timeout"),
	}
	bus := New(client)
	port := core.NewBitPort(bus)

	port.WriteBit(0x25, 3, true)
	assert.Equal(t, uint16(0xF8), client.regs[0x25])
	assert.Equal(t, uint16(0xF8), client.regs[0x24])

	port.WriteBit(0x25, 4, false)
	assert.Equal(t, uint16(0xE8), client.regs[0x25])
	assert.Equal(t, uint16(0xE8), client.regs[0x24])
	assert.NoError(t, bus.Err())

	// Empty masks are not sent
	writes := client.writes
	port.WriteBit(0x25, 9, true)
	assert.Equal(t, writes, client.writes)
}

func TestBusDropsStoreAfterFailedLoad(t *testing.T) {
	client := &fakeClient{
		regs:    map[uint16]uint16{0x25: 0xF0},
		readErr: errors.New("timeout"),
	}
	bus := New(client)

	bus.Store(0x25, bus.Load(0x25)|0x08)
	assert.Equal(t, uint16(0xF0), client.regs[0x25])
	assert.Zero(t, client.writes)
	assert.ErrorIs(t, bus.Err(), ErrStaleWrite)

	// The next Store is sent again
	bus.Store(0x25, 0x01)
	assert.Equal(t, uint16(0x01), client.regs[0x25])

	client.readErr = nil
	bus.Load(0x24)
	bus.Store(0x24, 0x02)
	assert.Equal(t, uint16(0x02), client.regs[0x24])
	assert.NoError(t, bus.Err())
}

func TestBusReportsErrors(t *testing.T) {
	client := &fakeClient{regs: map[uint16]uint16{}, err: errors.New("timeout")}
	bus := New(client)

	assert.Zero(t, bus.Load(0x25))
	err := bus.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modbus read 0x0025")

	bus.Store(0x25, 1)
	assert.ErrorContains(t, bus.Err(), "modbus write 0x0025")

	assert.NoError(t, bus.Err(), "Err clears the error")
	assert.NoError(t, bus.Close())
}

func TestDialRequiresEndpoint(t *testing.T) {
	_, err := Dial(Config{})
	assert.Error(t, err)
}
