package serial

import (
	"errors"
	"fmt"
	"io"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (github.com/tarm/serial)
// - go.bug.st/serial, which can also enumerate ports
// - Mock serial (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Backend selects the serial library used by Open
type Backend string

const (
	BackendTarm  Backend = "tarm"
	BackendBugst Backend = "bugst"
)

var (
	ErrNilConfig      = errors.New("config cannot be nil")
	ErrUnknownBackend = errors.New("unknown serial backend")
	ErrNoDevice       = errors.New("no serial device given")
)

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate of the board UART
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int

	// Library used to open the port, BackendTarm if empty
	Backend Backend
}

// DefaultConfig returns the settings of the AVR firmware UART
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        9600,
		ReadTimeout: 100,
		Backend:     BackendTarm,
	}
}

// Open opens cfg.Device with the configured backend.
// A timed out read returns 0, nil on every backend.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Device == "" {
		return nil, ErrNoDevice
	}

	switch cfg.Backend {
	case BackendTarm, "":
		return openTarm(cfg)
	case BackendBugst:
		return openBugst(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
