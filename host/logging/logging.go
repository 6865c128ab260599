// Package logging sets up zerolog for the host tools and adapts it to the
// interpreter console.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"bitcmd/core"
	"bitcmd/host/config"
)

// Init replaces the global logger. Human-readable output goes to console
// (skipped when nil) and JSON lines to cfg.File when set. The returned
// function closes the log file.
func Init(cfg config.Log, console io.Writer) (func() error, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var writers []io.Writer
	closeFn := func() error { return nil }

	if console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: time.TimeOnly,
		})
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		writers = append(writers, file)
		closeFn = file.Close
	}

	log.Logger = zerolog.New(io.MultiWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()

	return closeFn, nil
}

// LevelFor maps a console category to a log level
func LevelFor(cat core.Category) zerolog.Level {
	switch cat {
	case core.CategoryInvalid, core.CategoryOverflow, core.CategoryOverrun:
		return zerolog.WarnLevel
	case core.CategoryState:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ConsoleSink routes interpreter console lines to l with the category as a
// structured field.
func ConsoleSink(l zerolog.Logger) core.ConsoleWriter {
	return func(cat core.Category, msg string) {
		l.WithLevel(LevelFor(cat)).
			Str("category", cat.String()).
			Msg(msg)
	}
}
