// Package dict encodes the key/value tuples exchanged with the companion app.
//
// A dictionary is laid out little-endian as
//
//	u8 count
//	count x { u32 key, u8 type, u16 length, length bytes of value }
//
// C strings carry their trailing NUL inside value.
package dict

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrMalformed        = errors.New("dict: malformed dictionary")
	ErrNotEnoughStorage = errors.New("dict: not enough storage")
	ErrTooManyTuples    = errors.New("dict: too many tuples")
)

// Type is the value encoding of a tuple.
type Type uint8

const (
	TypeByteArray Type = iota
	TypeCString
	TypeUint
	TypeInt
)

func (t Type) String() string {
	switch t {
	case TypeByteArray:
		return "bytes"
	case TypeCString:
		return "cstring"
	case TypeUint:
		return "uint"
	case TypeInt:
		return "int"
	default:
		return "unknown"
	}
}

const (
	headerLen     = 1
	tupleHeadLen  = 4 + 1 + 2
	maxTuples     = 255
	maxValueBytes = 0xFFFF
)

// Tuple is one key/value entry.
type Tuple struct {
	Key   uint32
	Type  Type
	Value []byte
}

// CString returns a C string tuple holding s plus its NUL terminator.
func CString(key uint32, s string) Tuple {
	v := make([]byte, len(s)+1)
	copy(v, s)
	return Tuple{Key: key, Type: TypeCString, Value: v}
}

// Uint32 returns an unsigned integer tuple.
func Uint32(key uint32, v uint32) Tuple {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return Tuple{Key: key, Type: TypeUint, Value: b}
}

// Str returns the value as text. C strings stop at the first NUL.
func (t Tuple) Str() string {
	if t.Type == TypeCString {
		if i := bytes.IndexByte(t.Value, 0); i >= 0 {
			return string(t.Value[:i])
		}
	}
	return string(t.Value)
}

// Uint returns an integer value widened to 64 bits. Non-integer tuples return 0.
func (t Tuple) Uint() uint64 {
	if t.Type != TypeUint && t.Type != TypeInt {
		return 0
	}
	switch len(t.Value) {
	case 1:
		return uint64(t.Value[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(t.Value))
	case 4:
		return uint64(binary.LittleEndian.Uint32(t.Value))
	case 8:
		return binary.LittleEndian.Uint64(t.Value)
	default:
		return 0
	}
}

// Clone returns a copy that does not alias t.Value.
func (t Tuple) Clone() Tuple {
	t.Value = append([]byte(nil), t.Value...)
	return t
}

// Equal reports whether both tuples carry the same key, type and bytes.
func (t Tuple) Equal(o Tuple) bool {
	return t.Key == o.Key && t.Type == o.Type && bytes.Equal(t.Value, o.Value)
}

// Size returns the encoded size of tuples as a dictionary.
func Size(tuples ...Tuple) int {
	n := headerLen
	for _, t := range tuples {
		n += tupleHeadLen + len(t.Value)
	}
	return n
}

// Encode serializes tuples into a dictionary.
func Encode(tuples []Tuple) ([]byte, error) {
	if len(tuples) > maxTuples {
		return nil, ErrTooManyTuples
	}
	buf := make([]byte, 0, Size(tuples...))
	buf = append(buf, uint8(len(tuples)))
	for _, t := range tuples {
		if len(t.Value) > maxValueBytes {
			return nil, fmt.Errorf("dict: key %d: %w", t.Key, ErrNotEnoughStorage)
		}
		buf = binary.LittleEndian.AppendUint32(buf, t.Key)
		buf = append(buf, uint8(t.Type))
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(t.Value)))
		buf = append(buf, t.Value...)
	}
	return buf, nil
}

// Decode parses a dictionary. Returned values alias b.
func Decode(b []byte) ([]Tuple, error) {
	if len(b) < headerLen {
		return nil, ErrMalformed
	}
	count := int(b[0])
	b = b[headerLen:]

	tuples := make([]Tuple, 0, count)
	for i := 0; i < count; i++ {
		if len(b) < tupleHeadLen {
			return nil, fmt.Errorf("dict: tuple %d header: %w", i, ErrMalformed)
		}
		t := Tuple{
			Key:  binary.LittleEndian.Uint32(b[0:4]),
			Type: Type(b[4]),
		}
		n := int(binary.LittleEndian.Uint16(b[5:7]))
		b = b[tupleHeadLen:]
		if t.Type > TypeInt {
			return nil, fmt.Errorf("dict: tuple %d type %d: %w", i, t.Type, ErrMalformed)
		}
		if len(b) < n {
			return nil, fmt.Errorf("dict: tuple %d value: %w", i, ErrMalformed)
		}
		t.Value = b[:n]
		b = b[n:]
		tuples = append(tuples, t)
	}
	if len(b) != 0 {
		return nil, fmt.Errorf("dict: %d trailing bytes: %w", len(b), ErrMalformed)
	}
	return tuples, nil
}
