package app

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"barface/hal"
	"barface/tickos/dict"
	"barface/tickos/kernel"
	"barface/tickos/tasks/watchface"
)

type captureLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *captureLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}

func (l *captureLogger) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *captureLogger) contains(sub string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, sub) {
			return true
		}
	}
	return false
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }
func (c fixedClock) Is24Hour() bool { return true }

type testDisplay struct{ fb *hal.MemFramebuffer }

func (d testDisplay) Framebuffer() hal.Framebuffer { return d.fb }

type testTime struct{ ch chan uint64 }

func (t testTime) Ticks() <-chan uint64 { return t.ch }

type testSerial struct{ r io.Reader }

func (s testSerial) Read(p []byte) (int, error)  { return s.r.Read(p) }
func (s testSerial) Write(p []byte) (int, error) { return len(p), nil }

type testHAL struct {
	log    *captureLogger
	fb     *hal.MemFramebuffer
	time   testTime
	clock  fixedClock
	serial testSerial
}

func (h *testHAL) Logger() hal.Logger   { return h.log }
func (h *testHAL) Display() hal.Display { return testDisplay{fb: h.fb} }
func (h *testHAL) Time() hal.Time       { return h.time }
func (h *testHAL) Clock() hal.Clock     { return h.clock }
func (h *testHAL) Serial() hal.Serial   { return h.serial }

func newTestHAL(now time.Time, link io.Reader) *testHAL {
	return &testHAL{
		log:    &captureLogger{},
		fb:     hal.NewMemFramebuffer(hal.ScreenWidth, hal.ScreenHeight),
		time:   testTime{ch: make(chan uint64)},
		clock:  fixedClock{now: now},
		serial: testSerial{r: link},
	}
}

func shutdown(t *testing.T, s *System) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() err = %v", err)
	}
}

func TestSystemRendersFace(t *testing.T) {
	h := newTestHAL(time.Date(2024, 5, 1, 6, 15, 45, 0, time.UTC), strings.NewReader(""))
	frames := make(chan watchface.Frame, 8)
	s := New(h, Config{OnFrame: func(f watchface.Frame) { frames <- f }})

	select {
	case f := <-frames:
		if f.Time != "06:15" {
			t.Fatalf("Time = %q, want 06:15", f.Time)
		}
		if want := watchface.ComputeBars(6, 15, 45); f.Bars != want {
			t.Fatalf("Bars = %+v, want %+v", f.Bars, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame rendered")
	}
	shutdown(t, s)
}

func TestSystemRelaysStatus(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	h := newTestHAL(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), pr)
	frames := make(chan watchface.Frame, 64)
	s := New(h, Config{Status: true, Debug: true, OnFrame: func(f watchface.Frame) { frames <- f }})

	// Frames that reach the link before the face has registered are dropped,
	// so keep sending until one lands.
	deadline := time.After(2 * time.Second)
	for got := false; !got; {
		if err := dict.WriteFrame(pw, []dict.Tuple{dict.CString(watchface.KeyStatusLine, "Hello")}); err != nil {
			t.Fatalf("WriteFrame() err = %v", err)
		}
		wait := time.After(20 * time.Millisecond)
		for waiting := true; waiting && !got; {
			select {
			case f := <-frames:
				got = f.Status == "Hello"
			case <-wait:
				waiting = false
			case <-deadline:
				t.Fatal("status never shown")
			}
		}
	}

	shutdown(t, s)
	if !h.log.contains("debug: watchface: status update") {
		t.Fatal("debug log line for the status update missing")
	}
	// The face releases its sync subscription before the sync service stops.
	if !h.log.contains("debug: appsync: subscriber released") {
		t.Fatal("sync subscription not released during shutdown")
	}
}

func TestPanicReport(t *testing.T) {
	lines := panicReport(kernel.PanicInfo{TaskID: 3, Value: "boom", Stack: []byte("main.go:1\n\n  face.go:2\n")})
	want := []string{"barface panic", "task: 3", "panic: boom", "stack:", "main.go:1", "face.go:2"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("panicReport() = %q, want %q", lines, want)
	}

	lines = panicReport(kernel.PanicInfo{Value: 1})
	if lines[len(lines)-1] != "stack: unavailable" {
		t.Fatalf("panicReport() last = %q, want stack: unavailable", lines[len(lines)-1])
	}
}

func TestDrawPanicScreen(t *testing.T) {
	fb := hal.NewMemFramebuffer(hal.ScreenWidth, hal.ScreenHeight)
	drawPanicScreen(fb, []string{"barface panic", "task: 1"})
	if fb.Presents() != 1 {
		t.Fatalf("Presents() = %d, want 1", fb.Presents())
	}
	white := hal.RGB565(0xFF, 0xFF, 0xFF)
	if hal.PixelAt(fb, 0, 0) != white {
		t.Fatalf("corner pixel = %#04x, want white", hal.PixelAt(fb, 0, 0))
	}
	black := 0
	for y := 0; y < 30; y++ {
		for x := 0; x < fb.Width(); x++ {
			if hal.PixelAt(fb, x, y) == 0 {
				black++
			}
		}
	}
	if black == 0 {
		t.Fatal("no text drawn on the panic screen")
	}
}
