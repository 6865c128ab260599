//go:build avr

package main

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"bitcmd/core"
)

const (
	oledAddress = 0x3C
	oledWidth   = 128
	oledHeight  = 64
	rowHeight   = oledHeight / core.DefaultDisplayLines
	glyphWidth  = 6
)

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

// oled is a core.Display on an SSD1306 panel. It also satisfies
// drivers.Displayer so tinyfont can draw into it.
type oled struct {
	setPixel func(x, y int16, c color.RGBA)
	flush    func() error

	x, row int16
}

func newOLED() (*oled, error) {
	bus := machine.I2C0
	if err := bus.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz}); err != nil {
		return nil, err
	}

	dev := ssd1306.NewI2C(bus)
	dev.Configure(ssd1306.Config{
		Width:    oledWidth,
		Height:   oledHeight,
		Address:  oledAddress,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	dev.ClearDisplay()

	return &oled{
		setPixel: dev.SetPixel,
		flush:    dev.Display,
	}, nil
}

// Size implements drivers.Displayer
func (d *oled) Size() (int16, int16) {
	return oledWidth, oledHeight
}

// SetPixel implements drivers.Displayer
func (d *oled) SetPixel(x, y int16, c color.RGBA) {
	d.setPixel(x, y, c)
}

// Display implements drivers.Displayer
func (d *oled) Display() error {
	return d.flush()
}

// SetPosition implements core.Display. The target row is blanked.
func (d *oled) SetPosition(col, row uint8) {
	d.x = int16(col) * glyphWidth
	d.row = int16(row)

	top := d.row * rowHeight
	for y := top; y < top+rowHeight; y++ {
		for x := int16(0); x < oledWidth; x++ {
			d.setPixel(x, y, black)
		}
	}
}

// DrawString implements core.Display. Bold is a one pixel double strike.
func (d *oled) DrawString(text string, style core.TextStyle) {
	baseline := d.row*rowHeight + rowHeight - 1
	tinyfont.WriteLine(d, &proggy.TinySZ8pt7b, d.x, baseline, text, white)
	if style == core.StyleBold {
		tinyfont.WriteLine(d, &proggy.TinySZ8pt7b, d.x+1, baseline, text, white)
	}
	d.x += int16(len(text)) * glyphWidth
	_ = d.flush()
}
