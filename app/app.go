package app

import (
	"context"
	"fmt"

	"barface/hal"
	"barface/tickos/kernel"
	"barface/tickos/proto"
	"barface/tickos/services/appsync"
	"barface/tickos/services/logger"
	timesvc "barface/tickos/services/time"
	"barface/tickos/tasks/watchface"
)

type Config struct {
	// Status runs the status variant: the face syncs one line of text from the companion link.
	Status bool
	// Debug shows debug log lines.
	Debug bool
	// Divisors selects the bar scaling; the zero value keeps the classic 24/11/59/59.
	Divisors watchface.Divisors
	// OnFrame is called after every redraw of the face.
	OnFrame func(watchface.Frame)
}

// System is a running watch: the kernel plus its services and the face.
type System struct {
	k   *kernel.Kernel
	ctx *kernel.Context

	// Stopped one at a time, face first, so each task's goodbye messages
	// reach services that are still running.
	stopOrder []stopper
}

type stopper struct {
	ep   kernel.Capability
	done <-chan struct{}
}

// tracked closes done when the wrapped task returns.
type tracked struct {
	kernel.Task
	done chan struct{}
}

func (t tracked) Run(ctx *kernel.Context) {
	defer close(t.done)
	t.Task.Run(ctx)
}

func start(k *kernel.Kernel, t kernel.Task, ep kernel.Capability) stopper {
	done := make(chan struct{})
	k.AddTask(tracked{Task: t, done: done})
	return stopper{ep: ep.Restrict(kernel.RightSend), done: done}
}

// New starts the OS on h.
func New(h hal.HAL, cfg Config) *System {
	installPanicHandler(h)

	k := kernel.New()

	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	timeEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	faceEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	logSend := logEP.Restrict(kernel.RightSend)
	timeSend := timeEP.Restrict(kernel.RightSend)

	logStop := start(k, logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv), cfg.Debug), logEP)
	timeStop := start(k, timesvc.New(h.Clock(), timeEP.Restrict(kernel.RightRecv)), timeEP)

	svc := watchface.Services{Time: timeSend, Log: logSend}
	var syncStop *stopper
	if cfg.Status {
		syncEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
		svc.Sync = syncEP.Restrict(kernel.RightSend)
		st := start(k, appsync.New(h.Serial(), syncEP.Restrict(kernel.RightRecv), logSend), syncEP)
		syncStop = &st
	}

	faceStop := start(k, watchface.New(h.Display(), h.Clock(), faceEP, svc, watchface.Config{
		Status:   cfg.Status,
		Divisors: cfg.Divisors,
		OnFrame:  cfg.OnFrame,
	}), faceEP)

	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for seq := range ch {
					k.TickTo(seq)
				}
			}()
		}
	}

	s := &System{k: k, ctx: kernel.NewContext(k)}
	s.stopOrder = append(s.stopOrder, faceStop)
	if syncStop != nil {
		s.stopOrder = append(s.stopOrder, *syncStop)
	}
	s.stopOrder = append(s.stopOrder, timeStop, logStop)
	return s
}

// Step is the per-frame hook for host runners. Tasks run on their own
// goroutines, so there is nothing to pump.
func (s *System) Step() error { return nil }

// Shutdown stops the tasks one at a time, face first, waiting for each to
// return before stopping the next, until ctx is done.
func (s *System) Shutdown(ctx context.Context) error {
	for _, st := range s.stopOrder {
		if res := s.ctx.SendToCapResult(st.ep, uint16(proto.MsgAppShutdown), nil, kernel.Capability{}); res != kernel.SendOK {
			return fmt.Errorf("shutdown: %s", res)
		}
		select {
		case <-st.done:
		case <-ctx.Done():
			return fmt.Errorf("shutdown: %w", ctx.Err())
		}
	}

	done := make(chan struct{})
	go func() {
		s.k.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown: %w", ctx.Err())
	}
}

// Run starts the OS and blocks forever (TinyGo entrypoint).
func Run(h hal.HAL, cfg Config) {
	_ = New(h, cfg)
	select {}
}
