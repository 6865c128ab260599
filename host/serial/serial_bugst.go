package serial

import (
	"fmt"
	"time"

	bugst "go.bug.st/serial"
)

// BugstPort wraps a go.bug.st/serial port
type BugstPort struct {
	bugst.Port
}

func openBugst(cfg *Config) (Port, error) {
	mode := &bugst.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	}

	port, err := bugst.Open(cfg.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	if cfg.ReadTimeout > 0 {
		if err := port.SetReadTimeout(time.Duration(cfg.ReadTimeout) * time.Millisecond); err != nil {
			_ = port.Close()
			return nil, fmt.Errorf("failed to set read timeout: %w", err)
		}
	}

	return &BugstPort{Port: port}, nil
}

// Flush discards unread input
func (p *BugstPort) Flush() error {
	return p.ResetInputBuffer()
}

// ListPorts returns the serial devices present on this machine
func ListPorts() ([]string, error) {
	ports, err := bugst.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}
