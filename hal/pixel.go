package hal

// RGB565 packs 8-bit channels into a 16bpp pixel.
func RGB565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

// RGB888 expands a 16bpp pixel back to 8-bit channels.
func RGB888(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// PixelAt reads one RGB565 pixel from fb. Out of range reads return 0.
func PixelAt(fb Framebuffer, x, y int) uint16 {
	if fb == nil || fb.Format() != PixelFormatRGB565 {
		return 0
	}
	if x < 0 || y < 0 || x >= fb.Width() || y >= fb.Height() {
		return 0
	}
	buf := fb.Buffer()
	off := y*fb.StrideBytes() + x*2
	if off < 0 || off+1 >= len(buf) {
		return 0
	}
	return uint16(buf[off]) | uint16(buf[off+1])<<8
}
