package window

import (
	"image/color"

	"barface/hal"

	"tinygo.org/x/drivers"
)

var _ drivers.Displayer = (*fbDisplay)(nil)

// fbDisplay draws into an RGB565 framebuffer and drops pixels outside clip.
// Coordinates are absolute framebuffer positions.
type fbDisplay struct {
	fb   hal.Framebuffer
	clip Rect
}

func newFBDisplay(fb hal.Framebuffer, clip Rect) *fbDisplay {
	d := &fbDisplay{fb: fb}
	if fb != nil {
		d.clip = clip.Intersect(Rect{W: fb.Width(), H: fb.Height()})
	}
	return d
}

func (d *fbDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 || c.A == 0 {
		return
	}
	ix, iy := int(x), int(y)
	if !d.clip.Contains(ix, iy) {
		return
	}
	buf := d.fb.Buffer()
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	pixel := hal.RGB565(c.R, c.G, c.B)
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *fbDisplay) Display() error { return nil }

// FillRectangle fills w x h pixels at x,y, clipped.
func (d *fbDisplay) FillRectangle(x, y, w, h int16, c color.RGBA) error {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 || c.A == 0 {
		return nil
	}
	r := Rect{X: int(x), Y: int(y), W: int(w), H: int(h)}.Intersect(d.clip)
	if r.Empty() {
		return nil
	}
	buf := d.fb.Buffer()
	stride := d.fb.StrideBytes()
	pixel := hal.RGB565(c.R, c.G, c.B)
	lo, hi := byte(pixel), byte(pixel>>8)
	for yy := r.Y; yy < r.Y+r.H; yy++ {
		row := yy*stride + r.X*2
		end := row + r.W*2
		if row < 0 || end > len(buf) {
			continue
		}
		for off := row; off < end; off += 2 {
			buf[off] = lo
			buf[off+1] = hi
		}
	}
	return nil
}
