package logger

import (
	"fmt"

	"barface/tickos/kernel"
	"barface/tickos/proto"
)

// Log sends an info line to the logger service.
//
// The call is best-effort: it may drop on queue full.
func Log(ctx *kernel.Context, logCap kernel.Capability, line string) kernel.SendResult {
	return send(ctx, logCap, proto.LogInfo, line)
}

// Logf formats and sends an info line.
func Logf(ctx *kernel.Context, logCap kernel.Capability, format string, args ...any) kernel.SendResult {
	return send(ctx, logCap, proto.LogInfo, fmt.Sprintf(format, args...))
}

// Debugf formats and sends a debug line. The service drops it unless debug output is on.
func Debugf(ctx *kernel.Context, logCap kernel.Capability, format string, args ...any) kernel.SendResult {
	return send(ctx, logCap, proto.LogDebug, fmt.Sprintf(format, args...))
}

// Errorf formats and sends an error line.
func Errorf(ctx *kernel.Context, logCap kernel.Capability, format string, args ...any) kernel.SendResult {
	return send(ctx, logCap, proto.LogError, fmt.Sprintf(format, args...))
}

func send(ctx *kernel.Context, logCap kernel.Capability, level proto.LogLevel, line string) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidFromCap
	}
	b := []byte(line)
	if len(b) > kernel.MaxMessageBytes-1 {
		b = b[:kernel.MaxMessageBytes-1]
	}
	return ctx.SendToCapResult(logCap, uint16(proto.MsgLogLine), proto.LogLinePayload(level, b), kernel.Capability{})
}
