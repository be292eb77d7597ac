//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// HostOptions configures the host HAL.
type HostOptions struct {
	// Log receives log lines. Defaults to stderr.
	Log io.Writer
	// Sync is the companion byte stream. Defaults to stdin.
	Sync io.Reader
	// SyncOut receives bytes written to the serial port. Defaults to io.Discard.
	SyncOut  io.Writer
	Is24Hour bool
}

// Host is the desktop HAL implementation.
type Host struct {
	logger *hostLogger
	fb     *MemFramebuffer
	t      *hostTime
	clock  *SystemClock
	serial *hostSerial
}

// NewHost returns a host HAL implementation.
func NewHost(opts HostOptions) *Host {
	if opts.Log == nil {
		opts.Log = os.Stderr
	}
	if opts.Sync == nil {
		opts.Sync = os.Stdin
	}
	if opts.SyncOut == nil {
		opts.SyncOut = io.Discard
	}
	return &Host{
		logger: &hostLogger{w: opts.Log},
		fb:     NewMemFramebuffer(ScreenWidth, ScreenHeight),
		t:      newHostTime(),
		clock:  NewSystemClock(opts.Is24Hour),
		serial: &hostSerial{r: opts.Sync, w: opts.SyncOut},
	}
}

func (h *Host) Logger() Logger   { return h.logger }
func (h *Host) Display() Display { return hostDisplay{fb: h.fb} }
func (h *Host) Time() Time       { return h.t }
func (h *Host) Clock() Clock     { return h.clock }
func (h *Host) Serial() Serial   { return h.serial }

// SystemClock exposes the clock so configuration reloads can adjust it.
func (h *Host) SystemClock() *SystemClock { return h.clock }

// Framebuffer returns the concrete host framebuffer.
func (h *Host) Framebuffer() *MemFramebuffer { return h.fb }

type hostDisplay struct {
	fb *MemFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
