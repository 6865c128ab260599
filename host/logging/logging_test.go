package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitcmd/core"
	"bitcmd/host/config"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		cat  core.Category
		want zerolog.Level
	}{
		{core.CategoryAddress, zerolog.InfoLevel},
		{core.CategoryBitPos, zerolog.InfoLevel},
		{core.CategoryBitVal, zerolog.InfoLevel},
		{core.CategoryEdge, zerolog.InfoLevel},
		{core.CategoryInvalid, zerolog.WarnLevel},
		{core.CategoryOverflow, zerolog.WarnLevel},
		{core.CategoryOverrun, zerolog.WarnLevel},
		{core.CategoryState, zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.cat.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, LevelFor(tt.cat))
		})
	}
}

func TestConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	sink := ConsoleSink(zerolog.New(&buf))

	sink(core.CategoryInvalid, "Invalid hex string: zz")

	var entry map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "invalid", entry["category"])
	assert.Equal(t, "Invalid hex string: zz", entry["message"])
}

func TestConsoleSinkRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	sink := ConsoleSink(zerolog.New(&buf).Level(zerolog.WarnLevel))

	sink(core.CategoryAddress, "Addr: 25")
	assert.Zero(t, buf.Len())

	sink(core.CategoryOverrun, "Skipped character: x total: 1")
	assert.NotZero(t, buf.Len())
}

func TestInitWritesFileAndConsole(t *testing.T) {
	saved := log.Logger
	defer func() { log.Logger = saved }()

	path := filepath.Join(t.TempDir(), "logs", "bitcmd.log")
	var console bytes.Buffer

	closeLog, err := Init(config.Log{Level: "info", File: path, MaxSizeMB: 1, MaxBackups: 1}, &console)
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Str("category", "edge").Msg("Interrupt on external pin 0, count: 1")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "\n"))
	assert.Contains(t, string(data), `"category":"edge"`)
	assert.NotContains(t, string(data), "hidden")

	assert.Contains(t, console.String(), "Interrupt on external pin 0, count: 1")
}

func TestInitRejectsBadLevel(t *testing.T) {
	_, err := Init(config.Log{Level: "loud"}, nil)
	assert.Error(t, err)
}
