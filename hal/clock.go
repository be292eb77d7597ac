package hal

import (
	"sync/atomic"
	"time"
)

// SystemClock reads time.Now and holds a runtime-adjustable 24h preference.
type SystemClock struct {
	now  func() time.Time
	h24  atomic.Bool
	zone atomic.Pointer[time.Location]
}

// NewSystemClock returns a clock backed by time.Now.
func NewSystemClock(is24Hour bool) *SystemClock {
	return newClockWithNow(time.Now, is24Hour)
}

func newClockWithNow(now func() time.Time, is24Hour bool) *SystemClock {
	if now == nil {
		now = time.Now
	}
	c := &SystemClock{now: now}
	c.h24.Store(is24Hour)
	return c
}

func (c *SystemClock) Now() time.Time {
	t := c.now()
	if loc := c.zone.Load(); loc != nil {
		return t.In(loc)
	}
	return t.Local()
}

func (c *SystemClock) Is24Hour() bool { return c.h24.Load() }

// Set24Hour changes the display preference reported by Is24Hour.
func (c *SystemClock) Set24Hour(v bool) { c.h24.Store(v) }

// SetLocation overrides the zone used by Now. nil restores local time.
func (c *SystemClock) SetLocation(loc *time.Location) { c.zone.Store(loc) }
