//go:build tinygo && baremetal

package hal

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ili9341"
)

// panelFramebuffer mirrors every presented frame onto an ILI9341 panel,
// centered on the 240x320 glass.
type panelFramebuffer struct {
	*MemFramebuffer
	lcd    *ili9341.Device
	x, y   int16
	pixels []uint16
}

// newPanelFramebuffer wires the panel on SPI0: GP18 SCK, GP19 SDO, GP16 SDI,
// GP17 CS, GP20 DC, GP21 RST.
func newPanelFramebuffer() (*panelFramebuffer, error) {
	if err := machine.SPI0.Configure(machine.SPIConfig{
		SCK:       machine.GP18,
		SDO:       machine.GP19,
		SDI:       machine.GP16,
		Frequency: 40_000_000,
	}); err != nil {
		return nil, err
	}

	lcd := ili9341.NewSPI(machine.SPI0, machine.GP20, machine.GP17, machine.GP21)
	lcd.Configure(ili9341.Config{})
	lcd.SetRotation(ili9341.Rotation0)
	lcd.FillScreen(color.RGBA{0, 0, 0, 255})

	w, h := lcd.Size()
	return &panelFramebuffer{
		MemFramebuffer: NewMemFramebuffer(ScreenWidth, ScreenHeight),
		lcd:            lcd,
		x:              (w - ScreenWidth) / 2,
		y:              (h - ScreenHeight) / 2,
		pixels:         make([]uint16, ScreenWidth*ScreenHeight),
	}, nil
}

func (f *panelFramebuffer) Present() error {
	if err := f.MemFramebuffer.Present(); err != nil {
		return err
	}
	buf := f.buf
	for i := range f.pixels {
		f.pixels[i] = uint16(buf[2*i]) | uint16(buf[2*i+1])<<8
	}
	return f.lcd.DrawRGBBitmap(f.x, f.y, f.pixels, ScreenWidth, ScreenHeight)
}
