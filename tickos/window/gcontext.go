package window

import (
	"image/color"

	"tinygo.org/x/tinyfont"
)

// GContext is the drawing state handed to a layer's update proc.
// Coordinates are relative to the layer's origin; output is clipped to the layer.
type GContext struct {
	d      *fbDisplay
	origin Point

	stroke      color.RGBA
	strokeWidth int
	fill        color.RGBA
	text        color.RGBA
}

func newGContext(d *fbDisplay, origin Point) *GContext {
	return &GContext{
		d:           d,
		origin:      origin,
		stroke:      ColorBlack,
		strokeWidth: 1,
		fill:        ColorBlack,
		text:        ColorBlack,
	}
}

func (g *GContext) SetStrokeColor(c color.RGBA) { g.stroke = c }
func (g *GContext) SetFillColor(c color.RGBA)   { g.fill = c }
func (g *GContext) SetTextColor(c color.RGBA)   { g.text = c }

// SetStrokeWidth sets the line thickness. Widths below 1 are treated as 1.
func (g *GContext) SetStrokeWidth(w int) {
	if w < 1 {
		w = 1
	}
	g.strokeWidth = w
}

// FillRect fills r with the fill color.
func (g *GContext) FillRect(r Rect) {
	r = r.Offset(g.origin)
	_ = g.d.FillRectangle(int16(r.X), int16(r.Y), int16(r.W), int16(r.H), g.fill)
}

// DrawLine strokes p0..p1 inclusive with the stroke color and width.
// The stroke is centered on the line; caps are square.
func (g *GContext) DrawLine(p0, p1 Point) {
	w := g.strokeWidth
	half := w / 2
	switch {
	case p0.Y == p1.Y:
		x0, x1 := min(p0.X, p1.X), max(p0.X, p1.X)
		g.strokeRect(Rect{X: x0, Y: p0.Y - half, W: x1 - x0 + 1, H: w})
	case p0.X == p1.X:
		y0, y1 := min(p0.Y, p1.Y), max(p0.Y, p1.Y)
		g.strokeRect(Rect{X: p0.X - half, Y: y0, W: w, H: y1 - y0 + 1})
	default:
		g.drawDiagonal(p0, p1, half, w)
	}
}

func (g *GContext) strokeRect(r Rect) {
	r = r.Offset(g.origin)
	_ = g.d.FillRectangle(int16(r.X), int16(r.Y), int16(r.W), int16(r.H), g.stroke)
}

// drawDiagonal walks the line with Bresenham and stamps a w x w square per step.
func (g *GContext) drawDiagonal(p0, p1 Point, half, w int) {
	dx := abs(p1.X - p0.X)
	dy := -abs(p1.Y - p0.Y)
	sx, sy := 1, 1
	if p0.X > p1.X {
		sx = -1
	}
	if p0.Y > p1.Y {
		sy = -1
	}
	e := dx + dy
	x, y := p0.X, p0.Y
	for {
		g.strokeRect(Rect{X: x - half, Y: y - half, W: w, H: w})
		if x == p1.X && y == p1.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// DrawText writes one line with its baseline at y, in the text color.
func (g *GContext) DrawText(font tinyfont.Fonter, x, y int, s string) {
	if font == nil || s == "" {
		return
	}
	tinyfont.WriteLine(g.d, font, int16(x+g.origin.X), int16(y+g.origin.Y), s, g.text)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
