// Package watchface is the bar clock: the time as text over four bars showing
// progress through the day, half day, hour and minute, plus an optional status
// line synced from the companion app.
package watchface

import (
	"time"

	"barface/hal"
	syncclient "barface/tickos/client/appsync"
	logclient "barface/tickos/client/logger"
	timeclient "barface/tickos/client/time"
	"barface/tickos/dict"
	"barface/tickos/kernel"
	"barface/tickos/proto"
	"barface/tickos/window"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"
	"tinygo.org/x/tinyfont/proggy"
)

// KeyStatusLine is the sync key carrying the status text.
const KeyStatusLine uint32 = 0

// Layer frames.
var (
	timeFrame   = window.Rect{X: 0, Y: 55, W: 144, H: 50}
	canvasFrame = window.Rect{X: 0, Y: 0, W: 244, H: 48}
	statusFrame = window.Rect{X: 0, Y: 105, W: 144, H: 50}
)

// Frame is what the face showed after a redraw.
type Frame struct {
	At     time.Time
	Time   string
	Bars   Bars
	Status string
}

type Config struct {
	// Status enables the synced status line.
	Status bool
	// Divisors selects the bar scaling; the zero value means SourceDivisors.
	Divisors Divisors
	// OnFrame, if set, is called on the task goroutine after every redraw.
	OnFrame func(Frame)
}

// Services are the capabilities the face talks to.
type Services struct {
	Time kernel.Capability
	Sync kernel.Capability
	Log  kernel.Capability
}

type syncHandler func(ctx *kernel.Context, t dict.Tuple)

type Task struct {
	disp  hal.Display
	clock hal.Clock
	ep    kernel.Capability
	svc   Services
	cfg   Config

	win         *window.Window
	timeLayer   *window.TextLayer
	canvas      *window.Layer
	statusLayer *window.TextLayer

	now   time.Time
	bars  Bars
	is24h bool

	handlers map[uint32]syncHandler
}

// New creates the face. ep must carry send and receive rights: the face
// receives on it and hands it to services as its reply endpoint.
func New(disp hal.Display, clock hal.Clock, ep kernel.Capability, svc Services, cfg Config) *Task {
	t := &Task{disp: disp, clock: clock, ep: ep, svc: svc, cfg: cfg}
	t.handlers = map[uint32]syncHandler{}
	if cfg.Status {
		t.handlers[KeyStatusLine] = t.setStatus
	}
	return t
}

func (t *Task) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(t.ep)
	if !ok {
		return
	}
	if t.disp == nil || t.clock == nil {
		return
	}
	fb := t.disp.Framebuffer()
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		logclient.Errorf(ctx, t.svc.Log, "watchface: no rgb565 framebuffer")
		return
	}

	t.win = window.New(fb)
	t.win.SetBackgroundColor(ColorOxfordBlue)
	t.win.SetHandlers(window.Handlers{Load: t.load, Unload: t.unload})
	t.win.Push()

	if err := timeclient.Subscribe(ctx, t.svc.Time, t.ep, proto.SecondUnit); err != nil {
		logclient.Errorf(ctx, t.svc.Log, "watchface: %v", err)
	}

	t.update(ctx, t.clock.Now())

	if t.cfg.Status {
		initial := []dict.Tuple{dict.CString(KeyStatusLine, "")}
		if err := syncclient.Init(ctx, t.svc.Sync, t.ep, initial); err != nil {
			logclient.Errorf(ctx, t.svc.Log, "watchface: %v", err)
		}
	}

	for msg := range ch {
		switch proto.Kind(msg.Kind) {
		case proto.MsgAppShutdown:
			t.teardown(ctx)
			return

		case proto.MsgTimeTick:
			tt, ok := timeclient.DecodeTick(msg)
			if !ok {
				continue
			}
			t.update(ctx, tt.Time())

		case proto.MsgSyncChanged:
			c, ok := syncclient.DecodeChanged(msg)
			if !ok {
				continue
			}
			h := t.handlers[c.New.Key]
			if h == nil {
				logclient.Debugf(ctx, t.svc.Log, "watchface: sync key %d ignored", c.New.Key)
				continue
			}
			h(ctx, c.New)
			t.flush(ctx)

		case proto.MsgSyncError:
			if e, ok := syncclient.DecodeError(msg); ok {
				logclient.Debugf(ctx, t.svc.Log, "watchface: %v", e)
			}

		case proto.MsgError:
			code, ref, _, ok := proto.DecodeErrorPayload(msg.Payload())
			if ok {
				logclient.Debugf(ctx, t.svc.Log, "watchface: %s from %s", code, ref)
			}
		}
	}
}

func (t *Task) load(w *window.Window) {
	root := w.RootLayer()

	t.timeLayer = window.NewTextLayer(timeFrame)
	t.timeLayer.SetBackgroundColor(window.ColorClear)
	t.timeLayer.SetTextColor(window.ColorWhite)
	t.timeLayer.SetTextAlignment(window.AlignCenter)
	root.AddChild(t.timeLayer.Layer())

	t.canvas = window.NewLayer(canvasFrame)
	t.canvas.SetUpdateProc(func(_ *window.Layer, g *window.GContext) {
		drawBars(g, t.bars)
	})
	root.AddChild(t.canvas)

	if t.cfg.Status {
		t.statusLayer = window.NewTextLayer(statusFrame)
		t.statusLayer.SetBackgroundColor(window.ColorClear)
		t.statusLayer.SetTextColor(window.ColorWhite)
		t.statusLayer.SetFont(&proggy.TinySZ8pt7b)
		root.AddChild(t.statusLayer.Layer())
	}
}

func (t *Task) unload(*window.Window) {
	if t.timeLayer != nil {
		t.timeLayer.Layer().RemoveFromParent()
		t.timeLayer = nil
	}
	if t.canvas != nil {
		t.canvas.RemoveFromParent()
		t.canvas = nil
	}
	if t.statusLayer != nil {
		t.statusLayer.Layer().RemoveFromParent()
		t.statusLayer = nil
	}
}

func (t *Task) teardown(ctx *kernel.Context) {
	if t.cfg.Status {
		if err := syncclient.Deinit(ctx, t.svc.Sync, t.ep); err != nil {
			logclient.Debugf(ctx, t.svc.Log, "watchface: %v", err)
		}
	}
	if err := timeclient.Unsubscribe(ctx, t.svc.Time, t.ep); err != nil {
		logclient.Debugf(ctx, t.svc.Log, "watchface: %v", err)
	}
	if t.win != nil {
		t.win.Destroy()
	}
}

// update samples one instant for both the text and the bars.
func (t *Task) update(ctx *kernel.Context, now time.Time) {
	t.now = now
	is24h := t.clock.Is24Hour()
	if t.timeLayer != nil {
		if is24h != t.is24h || t.timeLayer.Text() == "" {
			t.timeLayer.SetFont(clockFont(is24h))
		}
		t.timeLayer.SetText(FormatClock(now.Hour(), now.Minute(), is24h))
	}
	t.is24h = is24h

	t.bars = t.cfg.Divisors.Compute(now.Hour(), now.Minute(), now.Second())
	if t.canvas != nil {
		t.canvas.MarkDirty()
	}
	t.flush(ctx)
}

func (t *Task) setStatus(ctx *kernel.Context, tuple dict.Tuple) {
	if t.statusLayer == nil {
		return
	}
	logclient.Debugf(ctx, t.svc.Log, "watchface: status update")
	t.statusLayer.SetText(tuple.Str())
}

func (t *Task) flush(ctx *kernel.Context) {
	if t.win == nil || !t.win.Dirty() || kernel.InPanicMode() {
		return
	}
	if err := t.win.Render(); err != nil {
		logclient.Errorf(ctx, t.svc.Log, "watchface: render: %v", err)
		return
	}
	if t.cfg.OnFrame != nil {
		t.cfg.OnFrame(t.frame())
	}
}

func (t *Task) frame() Frame {
	f := Frame{At: t.now, Bars: t.bars}
	if t.timeLayer != nil {
		f.Time = t.timeLayer.Text()
	}
	if t.statusLayer != nil {
		f.Status = t.statusLayer.Text()
	}
	return f
}

// clockFont picks a face that fits "HH:MM" or "hh:MM AM" across the screen.
func clockFont(is24h bool) tinyfont.Fonter {
	if is24h {
		return &freesans.Bold18pt7b
	}
	return &freesans.Bold12pt7b
}
