package core

// TextStyle selects how DrawString renders text
type TextStyle uint8

const (
	StyleNormal TextStyle = iota
	StyleBold
)

// DefaultDisplayLines is the text row count of a 128x64 panel with 8px rows
const DefaultDisplayLines = 8

// Display is a character-addressed text display
type Display interface {
	// SetPosition moves the cursor to a text column and row
	SetPosition(col, row uint8)

	// DrawString renders text at the cursor and advances it
	DrawString(text string, style TextStyle)
}

// lineWriter writes one labelled line per call on a rolling row counter
type lineWriter struct {
	display Display
	row     uint8
	rows    uint8
}

func newLineWriter(d Display, rows int) *lineWriter {
	if rows <= 0 || rows > 255 {
		rows = DefaultDisplayLines
	}
	return &lineWriter{display: d, rows: uint8(rows)}
}

// writeLine draws label in the normal style followed by text in style,
// then moves to the next row, wrapping at the bottom.
func (w *lineWriter) writeLine(label, text string, style TextStyle) {
	w.display.SetPosition(0, w.row)
	w.display.DrawString(label, StyleNormal)
	w.display.DrawString(text, style)
	w.row = (w.row + 1) % w.rows
}
