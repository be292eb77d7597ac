package proto

import (
	"encoding/binary"

	"barface/tickos/dict"
)

// SyncValueBytes is the storage reserved per synced value, terminator included.
const SyncValueBytes = 32

// SyncResult describes a failure on the companion link.
type SyncResult uint8

const (
	SyncOK SyncResult = iota
	SyncErrMalformed
	SyncErrFrameTooLarge
	SyncErrLinkClosed
	SyncErrBusy
)

func (r SyncResult) String() string {
	switch r {
	case SyncOK:
		return "ok"
	case SyncErrMalformed:
		return "malformed"
	case SyncErrFrameTooLarge:
		return "frame_too_large"
	case SyncErrLinkClosed:
		return "link_closed"
	case SyncErrBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// DictResult describes a failure applying a tuple to the sync buffer.
type DictResult uint8

const (
	DictOK DictResult = iota
	DictNotEnoughStorage
	DictInvalidArgs
)

func (r DictResult) String() string {
	switch r {
	case DictOK:
		return "ok"
	case DictNotEnoughStorage:
		return "not_enough_storage"
	case DictInvalidArgs:
		return "invalid_args"
	default:
		return "unknown"
	}
}

// SyncInitPayload encodes a MsgSyncInit payload: the initial dictionary.
// The reply capability travels in Message.Cap.
func SyncInitPayload(initial []dict.Tuple) ([]byte, error) {
	return dict.Encode(initial)
}

// DecodeSyncInitPayload decodes a SyncInitPayload.
func DecodeSyncInitPayload(payload []byte) ([]dict.Tuple, bool) {
	tuples, err := dict.Decode(payload)
	if err != nil {
		return nil, false
	}
	return tuples, true
}

// SyncChangedPayload encodes a MsgSyncChanged notification.
//
// Layout (little-endian):
//   - u32: key
//   - u8: new type, u8: new length, new value
//   - u8: old type, u8: old length, old value
func SyncChangedPayload(newT, oldT dict.Tuple) []byte {
	newV := clampValue(newT.Value)
	oldV := clampValue(oldT.Value)
	buf := make([]byte, 0, 4+2+len(newV)+2+len(oldV))
	buf = binary.LittleEndian.AppendUint32(buf, newT.Key)
	buf = append(buf, uint8(newT.Type), uint8(len(newV)))
	buf = append(buf, newV...)
	buf = append(buf, uint8(oldT.Type), uint8(len(oldV)))
	buf = append(buf, oldV...)
	return buf
}

// DecodeSyncChangedPayload decodes a SyncChangedPayload. Values are copied.
func DecodeSyncChangedPayload(payload []byte) (newT, oldT dict.Tuple, ok bool) {
	if len(payload) < 4 {
		return dict.Tuple{}, dict.Tuple{}, false
	}
	key := binary.LittleEndian.Uint32(payload[0:4])
	rest := payload[4:]

	newT, rest, ok = decodeSide(key, rest)
	if !ok {
		return dict.Tuple{}, dict.Tuple{}, false
	}
	oldT, _, ok = decodeSide(key, rest)
	if !ok {
		return dict.Tuple{}, dict.Tuple{}, false
	}
	return newT, oldT, true
}

func decodeSide(key uint32, b []byte) (dict.Tuple, []byte, bool) {
	if len(b) < 2 {
		return dict.Tuple{}, nil, false
	}
	typ := dict.Type(b[0])
	n := int(b[1])
	b = b[2:]
	if len(b) < n {
		return dict.Tuple{}, nil, false
	}
	v := make([]byte, n)
	copy(v, b[:n])
	return dict.Tuple{Key: key, Type: typ, Value: v}, b[n:], true
}

// Each side is bounded so both fit one IPC message.
const maxChangedValue = 60

func clampValue(v []byte) []byte {
	if len(v) > maxChangedValue {
		return v[:maxChangedValue]
	}
	return v
}

// SyncErrorPayload encodes a MsgSyncError notification.
//
// Layout:
//   - u8: dict result
//   - u8: link result
func SyncErrorPayload(dr DictResult, sr SyncResult) []byte {
	return []byte{uint8(dr), uint8(sr)}
}

// DecodeSyncErrorPayload decodes a SyncErrorPayload.
func DecodeSyncErrorPayload(payload []byte) (DictResult, SyncResult, bool) {
	if len(payload) < 2 {
		return 0, 0, false
	}
	return DictResult(payload[0]), SyncResult(payload[1]), true
}
