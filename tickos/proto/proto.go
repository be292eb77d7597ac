package proto

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	MsgLogLine Kind = iota + 1
	MsgError
	MsgAppShutdown
	MsgTimeSubscribe
	MsgTimeTick
	MsgSyncInit
	MsgSyncDeinit
	MsgSyncChanged
	MsgSyncError
)

// ErrCode is a generic error category for MsgError responses.
type ErrCode uint16

const (
	ErrUnknown ErrCode = iota
	ErrBadMessage
	ErrNotFound
	ErrBusy
	ErrOverflow
	ErrTooLarge
	ErrInternal
)

func (c ErrCode) String() string {
	switch c {
	case ErrUnknown:
		return "unknown"
	case ErrBadMessage:
		return "bad_message"
	case ErrNotFound:
		return "not_found"
	case ErrBusy:
		return "busy"
	case ErrOverflow:
		return "overflow"
	case ErrTooLarge:
		return "too_large"
	case ErrInternal:
		return "internal"
	default:
		return "unknown"
	}
}

func (k Kind) String() string {
	switch k {
	case MsgLogLine:
		return "log_line"
	case MsgError:
		return "error"
	case MsgAppShutdown:
		return "app_shutdown"
	case MsgTimeSubscribe:
		return "time_subscribe"
	case MsgTimeTick:
		return "time_tick"
	case MsgSyncInit:
		return "sync_init"
	case MsgSyncDeinit:
		return "sync_deinit"
	case MsgSyncChanged:
		return "sync_changed"
	case MsgSyncError:
		return "sync_error"
	default:
		return "unknown"
	}
}
