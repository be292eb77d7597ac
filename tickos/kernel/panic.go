package kernel

import (
	"sync"
	"sync/atomic"
)

// PanicInfo contains details about a recovered task panic.
type PanicInfo struct {
	TaskID TaskID
	Value  any
	Stack  []byte
}

var (
	panicActive atomic.Bool

	panicMu      sync.Mutex
	panicHandler func(PanicInfo)
)

// InPanicMode reports whether a task has panicked.
func InPanicMode() bool {
	return panicActive.Load()
}

// SetPanicHandler installs a process-wide panic handler.
//
// The handler runs for the first panic only. It must not panic.
func SetPanicHandler(fn func(PanicInfo)) {
	panicMu.Lock()
	panicHandler = fn
	panicMu.Unlock()
}

func triggerPanic(info PanicInfo) {
	if !panicActive.CompareAndSwap(false, true) {
		return
	}
	info.Stack = captureStack()

	panicMu.Lock()
	fn := panicHandler
	panicMu.Unlock()
	if fn != nil {
		fn(info)
	}
}
