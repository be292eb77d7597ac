package proto

// LogLevel tags a log line.
type LogLevel uint8

const (
	LogInfo LogLevel = iota
	LogDebug
	LogError
)

func (l LogLevel) String() string {
	switch l {
	case LogInfo:
		return "info"
	case LogDebug:
		return "debug"
	case LogError:
		return "error"
	default:
		return "unknown"
	}
}

// LogLinePayload encodes a MsgLogLine payload.
//
// Layout:
//   - u8: level
//   - bytes: UTF-8 text without a trailing newline
//
// Delivery is best-effort; callers may drop on overflow.
func LogLinePayload(level LogLevel, b []byte) []byte {
	cp := make([]byte, 1+len(b))
	cp[0] = uint8(level)
	copy(cp[1:], b)
	return cp
}

// DecodeLogLinePayload decodes a LogLinePayload.
func DecodeLogLinePayload(payload []byte) (LogLevel, []byte, bool) {
	if len(payload) < 1 {
		return 0, nil, false
	}
	return LogLevel(payload[0]), payload[1:], true
}
