//go:build !tinygo

package hal

import (
	"context"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	// Hz is the step rate. Zero means 60.
	Hz int
	// Ticks stops the runner after that many steps. Zero runs until ctx ends.
	Ticks uint64
}

// RunHeadless drives h without opening a window until ctx is done or the tick
// budget is spent.
func RunHeadless(ctx context.Context, h *Host, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	hz := cfg.Hz
	if hz <= 0 {
		hz = 60
	}
	step := newApp(h)

	ticker := time.NewTicker(max(time.Second/time.Duration(hz), time.Microsecond))
	defer ticker.Stop()

	for n := uint64(1); ; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		h.t.step()
		if step != nil {
			if err := step(); err != nil {
				return err
			}
		}
		if n == cfg.Ticks {
			return nil
		}
	}
}
