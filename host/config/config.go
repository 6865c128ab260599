// Package config loads the bitcmd-host configuration file (TOML or YAML).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"bitcmd/core"
	"bitcmd/host/serial"
)

// DefaultPath is used when no -config flag is given
const DefaultPath = "bitcmd.toml"

type Serial struct {
	Device        string `toml:"device" yaml:"device"`
	Baud          int    `toml:"baud" yaml:"baud" validate:"gt=0"`
	Backend       string `toml:"backend" yaml:"backend" validate:"oneof=tarm bugst"`
	ReadTimeoutMs int    `toml:"read_timeout_ms" yaml:"read_timeout_ms" validate:"gte=0"`
}

type Interpreter struct {
	BufferSize        int  `toml:"buffer_size" yaml:"buffer_size" validate:"min=2,max=256"`
	EchoCharacters    bool `toml:"echo_characters" yaml:"echo_characters"`
	PollIntervalUs    int  `toml:"poll_interval_us" yaml:"poll_interval_us" validate:"min=1"`
	IgnoreLineEndings bool `toml:"ignore_line_endings" yaml:"ignore_line_endings"`
}

type Display struct {
	Lines int `toml:"lines" yaml:"lines" validate:"min=1,max=255"`
}

type Log struct {
	Level      string `toml:"level" yaml:"level" validate:"oneof=trace debug info warn error"`
	File       string `toml:"file" yaml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups" validate:"gte=0"`
}

// RegisterSeed presets one simulated register before the first command
type RegisterSeed struct {
	Address uint16 `toml:"address" yaml:"address"`
	Value   uint8  `toml:"value" yaml:"value"`
}

// Bus selects where register writes land
type Bus struct {
	Kind      string `toml:"kind" yaml:"kind" validate:"oneof=memory modbus"`
	Endpoint  string `toml:"endpoint" yaml:"endpoint" validate:"required_if=Kind modbus"`
	UnitID    uint8  `toml:"unit_id" yaml:"unit_id"`
	TimeoutMs int    `toml:"timeout_ms" yaml:"timeout_ms" validate:"gte=0"`
}

// MQTT enables publishing of register writes when Broker is set
type MQTT struct {
	Broker   string `toml:"broker" yaml:"broker"`
	Topic    string `toml:"topic" yaml:"topic" validate:"required_with=Broker"`
	ClientID string `toml:"client_id" yaml:"client_id"`
}

type Registers struct {
	Initial []RegisterSeed `toml:"initial" yaml:"initial" validate:"dive"`
}

// Config is the full host configuration file
type Config struct {
	Serial      Serial      `toml:"serial" yaml:"serial"`
	Interpreter Interpreter `toml:"interpreter" yaml:"interpreter"`
	Display     Display     `toml:"display" yaml:"display"`
	Log         Log         `toml:"log" yaml:"log"`
	Registers   Registers   `toml:"registers" yaml:"registers"`
	Bus         Bus         `toml:"bus" yaml:"bus"`
	MQTT        MQTT        `toml:"mqtt" yaml:"mqtt"`
}

// Defaults returns the configuration used when no file is present
func Defaults() Config {
	return Config{
		Serial: Serial{
			Baud:          9600,
			Backend:       string(serial.BackendTarm),
			ReadTimeoutMs: 100,
		},
		Interpreter: Interpreter{
			BufferSize:        core.DefaultBufferSize,
			PollIntervalUs:    1000,
			IgnoreLineEndings: true,
		},
		Display: Display{
			Lines: core.DefaultDisplayLines,
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  1,
			MaxBackups: 2,
		},
		Bus: Bus{
			Kind:      "memory",
			UnitID:    1,
			TimeoutMs: 1000,
		},
		MQTT: MQTT{
			Topic:    "bitcmd/writes",
			ClientID: "bitcmd-host",
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Format is the encoding of a configuration file
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatOf picks the encoding from the file extension, TOML by default
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Parse decodes data on top of Defaults and validates the result
func Parse(data []byte, format Format) (Config, error) {
	// Start with defaults, then unmarshal file values on top
	cfg := Defaults()

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = toml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads path from fsys, as YAML for .yaml/.yml and TOML otherwise.
// A missing file yields Defaults.
func Load(fsys afero.Fs, path string) (Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data, FormatOf(path))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Core returns the interpreter settings
func (c *Config) Core() core.Config {
	return core.Config{
		BufferSize:     c.Interpreter.BufferSize,
		DisplayLines:   c.Display.Lines,
		EchoCharacters: c.Interpreter.EchoCharacters,
	}
}

// SerialConfig returns the port settings
func (c *Config) SerialConfig() *serial.Config {
	return &serial.Config{
		Device:      c.Serial.Device,
		Baud:        c.Serial.Baud,
		ReadTimeout: c.Serial.ReadTimeoutMs,
		Backend:     serial.Backend(c.Serial.Backend),
	}
}

// BusTimeout returns the Modbus request timeout
func (c *Config) BusTimeout() time.Duration {
	return time.Duration(c.Bus.TimeoutMs) * time.Millisecond
}

// PollInterval returns the main-loop period
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Interpreter.PollIntervalUs) * time.Microsecond
}
