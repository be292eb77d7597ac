package app

import (
	"fmt"
	"strings"

	"barface/hal"
	"barface/tickos/kernel"
	"barface/tickos/window"

	"tinygo.org/x/tinyfont/proggy"
)

// panicLines caps the stack dump so the message and top frames stay on screen.
const panicLines = 24

func installPanicHandler(h hal.HAL) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		lines := panicReport(info)
		if l := h.Logger(); l != nil {
			for _, line := range lines {
				l.WriteLineString(line)
			}
		}

		disp := h.Display()
		if disp == nil {
			return
		}
		fb := disp.Framebuffer()
		if fb == nil {
			return
		}
		drawPanicScreen(fb, lines)
	})
}

func panicReport(info kernel.PanicInfo) []string {
	lines := []string{
		"barface panic",
		fmt.Sprintf("task: %d", info.TaskID),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(info.Stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	lines = append(lines, "stack:")
	for _, line := range strings.Split(string(info.Stack), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// drawPanicScreen shows the report black on white. Text past the bottom edge is clipped.
func drawPanicScreen(fb hal.Framebuffer, lines []string) {
	if len(lines) > panicLines {
		lines = lines[:panicLines]
	}
	w := window.New(fb)
	w.SetBackgroundColor(window.ColorWhite)

	text := window.NewTextLayer(window.Rect{X: 2, Y: 2, W: fb.Width() - 4, H: fb.Height() - 4})
	text.SetFont(&proggy.TinySZ8pt7b)
	text.SetTextColor(window.ColorBlack)
	text.SetBackgroundColor(window.ColorClear)
	text.SetText(strings.Join(lines, "\n"))
	w.RootLayer().AddChild(text.Layer())

	_ = w.Render()
}
