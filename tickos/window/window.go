// Package window is a small retained-mode UI: a window owns a tree of layers
// and redraws them into a framebuffer when one of them is marked dirty.
package window

import (
	"errors"
	"image/color"

	"barface/hal"
)

var ErrNoFramebuffer = errors.New("window: no framebuffer")

// Handlers are called when the window is pushed and when it is destroyed.
type Handlers struct {
	Load   func(w *Window)
	Unload func(w *Window)
}

// Window is a full-screen layer tree drawn over a background color.
type Window struct {
	fb         hal.Framebuffer
	background color.RGBA
	root       *Layer
	handlers   Handlers
	loaded     bool
	dirty      bool
}

func New(fb hal.Framebuffer) *Window {
	w := &Window{fb: fb, background: ColorWhite}
	width, height := hal.ScreenWidth, hal.ScreenHeight
	if fb != nil {
		width, height = fb.Width(), fb.Height()
	}
	w.root = NewLayer(Rect{W: width, H: height})
	w.root.win = w
	return w
}

func (w *Window) SetHandlers(h Handlers) { w.handlers = h }

func (w *Window) SetBackgroundColor(c color.RGBA) {
	w.background = c
	w.dirty = true
}

func (w *Window) RootLayer() *Layer { return w.root }

func (w *Window) Loaded() bool { return w.loaded }

// Dirty reports whether a layer changed since the last Render.
func (w *Window) Dirty() bool { return w.dirty }

// Push loads the window and schedules the first frame.
func (w *Window) Push() {
	if w.loaded {
		return
	}
	w.loaded = true
	w.dirty = true
	if w.handlers.Load != nil {
		w.handlers.Load(w)
	}
}

// Destroy unloads the window. Layers created by Load should be released by Unload.
func (w *Window) Destroy() {
	if !w.loaded {
		return
	}
	w.loaded = false
	if w.handlers.Unload != nil {
		w.handlers.Unload(w)
	}
}

// Render draws the full layer tree and presents the framebuffer.
func (w *Window) Render() error {
	if w.fb == nil {
		return ErrNoFramebuffer
	}
	w.fb.ClearRGB(w.background.R, w.background.G, w.background.B)
	screen := Rect{W: w.fb.Width(), H: w.fb.Height()}
	w.root.render(newFBDisplay(w.fb, screen), Point{}, screen)
	w.dirty = false
	return w.fb.Present()
}
