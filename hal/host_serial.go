//go:build !tinygo

package hal

import (
	"io"
	"sync"
)

// hostSerial is the companion link on the desktop: frames arrive on Sync and
// anything the watch sends back goes to SyncOut.
type hostSerial struct {
	r io.Reader

	wmu sync.Mutex
	w   io.Writer
}

func (s *hostSerial) Read(p []byte) (int, error) { return s.r.Read(p) }

func (s *hostSerial) Write(p []byte) (int, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.w.Write(p)
}
