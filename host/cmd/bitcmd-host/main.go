package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"bitcmd/core"
	"bitcmd/host/config"
	"bitcmd/host/logging"
	"bitcmd/host/modbusbus"
	"bitcmd/host/runner"
	"bitcmd/host/serial"
	"bitcmd/host/telemetry"
	"bitcmd/protocol"
)

var (
	configPath = flag.String("config", config.DefaultPath, "Configuration file (TOML, or YAML by extension)")
	device     = flag.String("device", "", "Serial device path, overrides [serial] device")
	useStdin   = flag.Bool("stdin", false, "Read commands from standard input instead of a serial port")
	useShell   = flag.Bool("shell", false, "Interactive shell instead of a byte stream")
	listPorts  = flag.Bool("list", false, "List serial ports and exit")
	verbose    = flag.Bool("verbose", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	if *listPorts {
		ports, err := serial.ListPorts()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	cfg, err := config.Load(afero.NewOsFs(), *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *device != "" {
		cfg.Serial.Device = *device
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}

	closeLog, err := logging.Init(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("bitcmd-host failed")
		_ = closeLog()
		os.Exit(1)
	}
	_ = closeLog()
}

func run(cfg config.Config) error {
	log.Info().Str("version", protocol.Version).Msg("bitcmd-host starting")

	bus, closeBus, err := openBus(cfg)
	if err != nil {
		return err
	}
	defer closeBus()
	core.SetRegisterBus(bus)

	var pub *telemetry.Publisher
	if cfg.MQTT.Broker != "" {
		client := telemetry.NewClient(cfg.MQTT.Broker, cfg.MQTT.ClientID)
		pub, err = telemetry.Start(client, cfg.MQTT.Topic, 0)
		if err != nil {
			return err
		}
		defer pub.Stop()
	}

	hook := func(cmd protocol.Command) {
		addr := core.RegisterAddr(cmd.Address)
		data, dir := bus.Load(addr), bus.Load(addr.Direction())
		log.Info().
			Str("register", fmt.Sprintf("0x%02x", cmd.Address)).
			Uint8("bit", cmd.Bit).
			Bool("value", cmd.Value).
			Str("data", fmt.Sprintf("%08b", data)).
			Str("direction", fmt.Sprintf("%08b", dir)).
			Msg("register written")
		if pub != nil {
			pub.Send(telemetry.Event{
				Time:      time.Now(),
				Address:   cmd.Address,
				Bit:       cmd.Bit,
				Value:     cmd.Value,
				Data:      data,
				Direction: dir,
			})
		}
	}

	display := newLogDisplay(log.Logger)
	defer display.flush()

	if *useShell {
		interp := core.NewInterpreter(cfg.Core(), nil,
			core.WithConsole(logging.ConsoleSink(log.Logger)),
			core.WithDisplay(display),
			core.WithCommandHook(hook),
		)
		runShell(&session{interp: interp, bus: bus})
		logTotals(interp.Stats(), 0)
		return nil
	}

	console := core.NewAsyncConsole(logging.ConsoleSink(log.Logger), 64)
	interp := core.NewInterpreter(cfg.Core(), nil,
		core.WithConsole(console.Write),
		core.WithDisplay(display),
		core.WithCommandHook(hook),
	)

	source, pacing, err := openSource(cfg)
	if err != nil {
		console.Close()
		return err
	}
	defer source.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	edges, stopEdges := edgeSignals()
	defer stopEdges()

	r := &runner.Runner{
		Interp:            interp,
		Source:            source,
		PollInterval:      cfg.PollInterval(),
		BytePacing:        pacing,
		IgnoreLineEndings: cfg.Interpreter.IgnoreLineEndings,
		Edges:             edges,
	}
	runErr := r.Run(ctx)

	console.Close()
	logTotals(interp.Stats(), console.Dropped())

	return runErr
}

func logTotals(st core.Stats, consoleDropped uint32) {
	log.Info().
		Stringer("state", st.State).
		Uint32("commands", st.Commands).
		Uint32("invalid", st.Invalid).
		Uint32("overflows", st.Overflows).
		Uint32("overruns", st.Overruns).
		Uint32("edges", st.Edges).
		Uint32("console_dropped", consoleDropped).
		Msg("totals")
}

// openBus returns the register file commands write to
func openBus(cfg config.Config) (core.RegisterBus, func(), error) {
	if cfg.Bus.Kind == "modbus" {
		mb, err := modbusbus.Dial(modbusbus.Config{
			Endpoint: cfg.Bus.Endpoint,
			UnitID:   cfg.Bus.UnitID,
			Timeout:  cfg.BusTimeout(),
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("endpoint", cfg.Bus.Endpoint).Msg("register bus: modbus")
		return mb, func() { _ = mb.Close() }, nil
	}

	mem := core.NewMemoryBus()
	for _, seed := range cfg.Registers.Initial {
		mem.Store(core.RegisterAddr(seed.Address), seed.Value)
	}
	log.Debug().Int("seeded", len(cfg.Registers.Initial)).Msg("register bus: memory")
	return mem, func() {}, nil
}

// openSource returns the byte source and the per-byte delay that mimics the
// UART line rate for piped input.
func openSource(cfg config.Config) (io.ReadCloser, time.Duration, error) {
	if *useStdin || cfg.Serial.Device == "" {
		log.Info().Msg("reading commands from stdin")
		return detachReader(os.Stdin), byteTime(cfg.Serial.Baud), nil
	}

	port, err := serial.Open(cfg.SerialConfig())
	if err != nil {
		return nil, 0, err
	}
	log.Info().
		Str("device", cfg.Serial.Device).
		Int("baud", cfg.Serial.Baud).
		Str("backend", cfg.Serial.Backend).
		Msg("serial port open")
	return port, 0, nil
}

// byteTime is one 8N1 frame (10 bits) at baud
func byteTime(baud int) time.Duration {
	if baud <= 0 {
		return 0
	}
	return 10 * time.Second / time.Duration(baud)
}
