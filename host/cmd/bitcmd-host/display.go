package main

import (
	"strings"

	"github.com/rs/zerolog"

	"bitcmd/core"
)

// logDisplay renders display rows as debug log entries
type logDisplay struct {
	log  zerolog.Logger
	row  uint8
	line strings.Builder
}

func newLogDisplay(l zerolog.Logger) *logDisplay {
	return &logDisplay{log: l}
}

func (d *logDisplay) SetPosition(_, row uint8) {
	d.flush()
	d.row = row
}

func (d *logDisplay) DrawString(text string, style core.TextStyle) {
	if style == core.StyleBold {
		text = "*" + text + "*"
	}
	d.line.WriteString(text)
}

// flush emits the row finished by the previous SetPosition
func (d *logDisplay) flush() {
	if d.line.Len() == 0 {
		return
	}
	d.log.Debug().Uint8("row", d.row).Msg("display: " + d.line.String())
	d.line.Reset()
}
