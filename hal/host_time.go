//go:build !tinygo

package hal

import "time"

// hostTime turns wall time into the 1ms tick stream the kernel runs on.
type hostTime struct {
	now   func() time.Time
	ch    chan uint64
	start time.Time
	seq   uint64
}

func newHostTime() *hostTime {
	return &hostTime{now: time.Now, ch: make(chan uint64, 64)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// step publishes the tick for the milliseconds elapsed since the first call,
// which is tick 1. Only the newest tick is sent; the kernel jumps to it.
func (t *hostTime) step() {
	now := t.now()
	if t.start.IsZero() {
		t.start = now
	}
	seq := uint64(now.Sub(t.start)/time.Millisecond) + 1
	if seq <= t.seq {
		return
	}
	t.seq = seq
	select {
	case t.ch <- seq:
	default:
	}
}
