//go:build !tinygo

package kernel

import "runtime/debug"

// captureStack runs inside the task's deferred recover, so the trace still
// includes the panicking frames.
func captureStack() []byte {
	return debug.Stack()
}
