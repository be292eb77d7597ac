package window

import (
	"image/color"
	"strings"

	"tinygo.org/x/tinyfont"
)

// Alignment is the horizontal placement of text inside a text layer.
type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// TextLayer draws word-wrapped text, top aligned, over an optional background.
type TextLayer struct {
	layer *Layer

	text  string
	font  tinyfont.Fonter
	color color.RGBA
	bg    color.RGBA
	align Alignment
}

func NewTextLayer(frame Rect) *TextLayer {
	t := &TextLayer{
		layer: NewLayer(frame),
		color: ColorBlack,
		bg:    ColorWhite,
	}
	t.layer.SetUpdateProc(t.draw)
	return t
}

func (t *TextLayer) Layer() *Layer { return t.layer }
func (t *TextLayer) Text() string  { return t.text }

// SetText stores a copy of s and schedules a redraw.
func (t *TextLayer) SetText(s string) {
	if s == t.text {
		return
	}
	t.text = strings.Clone(s)
	t.layer.MarkDirty()
}

func (t *TextLayer) SetFont(f tinyfont.Fonter) {
	t.font = f
	t.layer.MarkDirty()
}

func (t *TextLayer) SetTextColor(c color.RGBA) {
	t.color = c
	t.layer.MarkDirty()
}

// SetBackgroundColor sets the fill behind the text. ColorClear draws none.
func (t *TextLayer) SetBackgroundColor(c color.RGBA) {
	t.bg = c
	t.layer.MarkDirty()
}

func (t *TextLayer) SetTextAlignment(a Alignment) {
	t.align = a
	t.layer.MarkDirty()
}

func (t *TextLayer) draw(l *Layer, g *GContext) {
	bounds := l.Bounds()
	if t.bg.A != 0 {
		g.SetFillColor(t.bg)
		g.FillRect(bounds)
	}
	if t.font == nil || t.text == "" {
		return
	}

	ascent, lineHeight := lineMetrics(t.font, t.text)
	g.SetTextColor(t.color)
	y := ascent
	for _, line := range wrapText(t.font, t.text, bounds.W) {
		if y-ascent >= bounds.H {
			break
		}
		w := textWidth(t.font, line)
		x := 0
		switch t.align {
		case AlignCenter:
			x = (bounds.W - w) / 2
		case AlignRight:
			x = bounds.W - w
		}
		g.DrawText(t.font, x, y, line)
		y += lineHeight
	}
}

// metricsSample keeps the baseline stable while the digits change.
const metricsSample = "0123456789:APM"

// lineMetrics returns the baseline offset from the top of a line and the line height.
func lineMetrics(f tinyfont.Fonter, s string) (ascent, height int) {
	for _, set := range []string{metricsSample, s} {
		for _, r := range set {
			info := f.GetGlyph(r).Info()
			if a := -int(info.YOffset); a > ascent {
				ascent = a
			}
		}
	}
	height = int(f.GetYAdvance())
	if height <= 0 {
		height = ascent + 1
	}
	return ascent, height
}

func textWidth(f tinyfont.Fonter, s string) int {
	_, outbox := tinyfont.LineWidth(f, s)
	return int(outbox)
}

// wrapText breaks s into lines no wider than maxW, splitting at spaces when it can.
func wrapText(f tinyfont.Fonter, s string, maxW int) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if textWidth(f, candidate) <= maxW {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			line = word
			for textWidth(f, line) > maxW {
				head, rest := splitToWidth(f, line, maxW)
				lines = append(lines, head)
				line = rest
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// splitToWidth cuts at the last rune that still fits, always taking at least one.
func splitToWidth(f tinyfont.Fonter, s string, maxW int) (head, rest string) {
	cut := 0
	for i, r := range s {
		next := i + len(string(r))
		if cut > 0 && textWidth(f, s[:next]) > maxW {
			break
		}
		cut = next
	}
	return s[:cut], s[cut:]
}
