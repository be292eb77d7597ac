package proto

import "encoding/binary"

// ErrorPayload encodes a MsgError reply: u16 code, u16 kind of the request
// that failed, then optional service detail. Little-endian.
func ErrorPayload(code ErrCode, ref Kind, detail []byte) []byte {
	b := make([]byte, 0, 4+len(detail))
	b = binary.LittleEndian.AppendUint16(b, uint16(code))
	b = binary.LittleEndian.AppendUint16(b, uint16(ref))
	return append(b, detail...)
}

// DecodeErrorPayload decodes an ErrorPayload. detail aliases payload.
func DecodeErrorPayload(payload []byte) (code ErrCode, ref Kind, detail []byte, ok bool) {
	if len(payload) < 4 {
		return ErrUnknown, 0, nil, false
	}
	return ErrCode(binary.LittleEndian.Uint16(payload)),
		Kind(binary.LittleEndian.Uint16(payload[2:])),
		payload[4:],
		true
}
