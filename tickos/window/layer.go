package window

// UpdateProc draws a layer. g is already translated and clipped to the layer.
type UpdateProc func(l *Layer, g *GContext)

// Layer is a rectangular drawing region with optional children.
type Layer struct {
	frame    Rect
	update   UpdateProc
	hidden   bool
	parent   *Layer
	children []*Layer
	win      *Window
}

// NewLayer creates a layer whose frame is relative to its parent.
func NewLayer(frame Rect) *Layer {
	return &Layer{frame: frame}
}

func (l *Layer) Frame() Rect { return l.frame }

// Bounds is the layer's own coordinate space.
func (l *Layer) Bounds() Rect { return Rect{W: l.frame.W, H: l.frame.H} }

func (l *Layer) SetFrame(r Rect) {
	l.frame = r
	l.MarkDirty()
}

func (l *Layer) SetUpdateProc(fn UpdateProc) {
	l.update = fn
	l.MarkDirty()
}

func (l *Layer) SetHidden(hidden bool) {
	if l.hidden == hidden {
		return
	}
	l.hidden = hidden
	l.MarkDirty()
}

// AddChild appends c above the existing children.
func (l *Layer) AddChild(c *Layer) {
	if c == nil || c == l {
		return
	}
	c.RemoveFromParent()
	c.parent = l
	c.setWindow(l.win)
	l.children = append(l.children, c)
	l.MarkDirty()
}

// RemoveFromParent detaches l and its subtree.
func (l *Layer) RemoveFromParent() {
	p := l.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == l {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	p.MarkDirty()
	l.parent = nil
	l.setWindow(nil)
}

// MarkDirty schedules a redraw of the window holding l.
func (l *Layer) MarkDirty() {
	if l.win != nil {
		l.win.dirty = true
	}
}

func (l *Layer) setWindow(w *Window) {
	l.win = w
	for _, c := range l.children {
		c.setWindow(w)
	}
}

func (l *Layer) render(d *fbDisplay, parentOrigin Point, parentClip Rect) {
	if l.hidden {
		return
	}
	abs := l.frame.Offset(parentOrigin)
	clip := abs.Intersect(parentClip)
	if clip.Empty() {
		return
	}
	origin := Point{X: abs.X, Y: abs.Y}
	if l.update != nil {
		sub := &fbDisplay{fb: d.fb, clip: clip}
		l.update(l, newGContext(sub, origin))
	}
	for _, c := range l.children {
		c.render(d, origin, clip)
	}
}
