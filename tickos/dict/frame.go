package dict

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxFrameBytes bounds one dictionary on the companion link.
const MaxFrameBytes = 256

var ErrFrameTooLarge = errors.New("dict: frame too large")

// AppendFrame appends tuples to dst as a length-prefixed frame (u16 LE length).
func AppendFrame(dst []byte, tuples []Tuple) ([]byte, error) {
	body, err := Encode(tuples)
	if err != nil {
		return dst, err
	}
	if len(body) > MaxFrameBytes {
		return dst, ErrFrameTooLarge
	}
	dst = binary.LittleEndian.AppendUint16(dst, uint16(len(body)))
	return append(dst, body...), nil
}

// WriteFrame writes tuples to w as one frame.
func WriteFrame(w io.Writer, tuples []Tuple) error {
	frame, err := AppendFrame(nil, tuples)
	if err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// FrameReader splits a byte stream into dictionaries.
type FrameReader struct {
	r   *bufio.Reader
	buf [MaxFrameBytes]byte
}

// NewFrameReader wraps r.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: bufio.NewReader(r)}
}

// Next reads one frame and decodes it.
//
// ErrFrameTooLarge and ErrMalformed leave the reader positioned at the next
// frame, so callers may keep reading. io.EOF means the stream ended cleanly.
func (fr *FrameReader) Next() ([]Tuple, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(fr.r, hdr[:]); err != nil {
		return nil, err
	}
	n := int(binary.LittleEndian.Uint16(hdr[:]))
	if n > MaxFrameBytes {
		if _, err := io.CopyN(io.Discard, fr.r, int64(n)); err != nil {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%d bytes: %w", n, ErrFrameTooLarge)
	}
	body := fr.buf[:n]
	if _, err := io.ReadFull(fr.r, body); err != nil {
		return nil, io.ErrUnexpectedEOF
	}
	tuples, err := Decode(body)
	if err != nil {
		return nil, err
	}
	out := make([]Tuple, len(tuples))
	for i, t := range tuples {
		out[i] = t.Clone()
	}
	return out, nil
}
