package watchface

import "barface/tickos/window"

// BarWidth is the length of a full bar in pixels.
const BarWidth = 144

// Divisors are the per-bar period denominators.
//
// SourceDivisors reach full width one step before rollover (hour 11, minute
// 59, second 59). ExactDivisors are strictly proportional and never reach it.
type Divisors struct {
	Day     int
	HalfDay int
	Minute  int
	Second  int
}

var (
	SourceDivisors = Divisors{Day: 24, HalfDay: 11, Minute: 59, Second: 59}
	ExactDivisors  = Divisors{Day: 24, HalfDay: 12, Minute: 60, Second: 60}
)

// Bars holds the four bar lengths, each in [0, BarWidth].
type Bars struct {
	Day     int
	HalfDay int
	Minute  int
	Second  int
}

// ComputeBars maps a time of day onto bar lengths using SourceDivisors.
func ComputeBars(hour, minute, second int) Bars {
	return SourceDivisors.Compute(hour, minute, second)
}

// Compute maps a time of day onto bar lengths. Zero divisors fall back to
// SourceDivisors.
func (d Divisors) Compute(hour, minute, second int) Bars {
	d = d.orSource()
	return Bars{
		Day:     scale(hour, d.Day),
		HalfDay: scale(hour%12, d.HalfDay),
		Minute:  scale(minute, d.Minute),
		Second:  scale(second, d.Second),
	}
}

func (d Divisors) orSource() Divisors {
	if d.Day <= 0 {
		d.Day = SourceDivisors.Day
	}
	if d.HalfDay <= 0 {
		d.HalfDay = SourceDivisors.HalfDay
	}
	if d.Minute <= 0 {
		d.Minute = SourceDivisors.Minute
	}
	if d.Second <= 0 {
		d.Second = SourceDivisors.Second
	}
	return d
}

// scale multiplies before dividing so the last step lands on BarWidth exactly.
func scale(v, div int) int {
	px := int(float64(v*BarWidth) / float64(div))
	return min(max(px, 0), BarWidth)
}

// Bar layout on the canvas layer.
const (
	BarStroke = 8

	barDayY     = 4
	barHalfDayY = 16
	barMinuteY  = 28
	barSecondY  = 40
)

var (
	ColorOxfordBlue = window.ColorFromHex(0x000055)
	ColorOrange     = window.ColorFromHex(0xFF5500)
	ColorGreen      = window.ColorFromHex(0x00FF00)
	ColorPictonBlue = window.ColorFromHex(0x55AAFF)
	ColorSeconds    = window.ColorWhite
)

// drawBars strokes the four bars from x=0 in layer coordinates.
func drawBars(g *window.GContext, b Bars) {
	g.SetStrokeWidth(BarStroke)

	g.SetStrokeColor(ColorOrange)
	g.DrawLine(window.Point{Y: barDayY}, window.Point{X: b.Day, Y: barDayY})

	g.SetStrokeColor(ColorGreen)
	g.DrawLine(window.Point{Y: barHalfDayY}, window.Point{X: b.HalfDay, Y: barHalfDayY})

	g.SetStrokeColor(ColorPictonBlue)
	g.DrawLine(window.Point{Y: barMinuteY}, window.Point{X: b.Minute, Y: barMinuteY})

	g.SetStrokeColor(ColorSeconds)
	g.DrawLine(window.Point{Y: barSecondY}, window.Point{X: b.Second, Y: barSecondY})
}
