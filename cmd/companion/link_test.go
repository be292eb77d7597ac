package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"barface/tickos/dict"
)

func readFrames(t *testing.T, b []byte) [][]dict.Tuple {
	t.Helper()
	fr := dict.NewFrameReader(bytes.NewReader(b))
	var out [][]dict.Tuple
	for {
		tuples, err := fr.Next()
		if err != nil {
			return out
		}
		out = append(out, tuples)
	}
}

func TestWriteStatus(t *testing.T) {
	var buf bytes.Buffer
	sent, err := writeStatus(&buf, 0, "Hello", false)
	if err != nil || sent != "Hello" {
		t.Fatalf("writeStatus() = %q, %v, want Hello", sent, err)
	}
	frames := readFrames(t, buf.Bytes())
	if len(frames) != 1 || len(frames[0]) != 1 {
		t.Fatalf("frames = %v, want one tuple", frames)
	}
	if got := frames[0][0]; got.Key != 0 || got.Str() != "Hello" {
		t.Fatalf("tuple = key %d %q, want key 0 Hello", got.Key, got.Str())
	}
}

func TestWriteStatusLimit(t *testing.T) {
	var buf bytes.Buffer
	if _, err := writeStatus(&buf, 0, strings.Repeat("a", maxText), false); err != nil {
		t.Fatalf("writeStatus() at limit err = %v", err)
	}

	buf.Reset()
	_, err := writeStatus(&buf, 0, strings.Repeat("a", maxText+1), false)
	if !errors.Is(err, errTooLong) {
		t.Fatalf("writeStatus() err = %v, want errTooLong", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("wrote %d bytes for a refused value", buf.Len())
	}

	sent, err := writeStatus(&buf, 0, strings.Repeat("b", 40), true)
	if err != nil || len(sent) != maxText {
		t.Fatalf("writeStatus() truncated = %q, %v, want %d bytes", sent, err, maxText)
	}
}

func TestFitKeepsRunesWhole(t *testing.T) {
	text := strings.Repeat("a", maxText-1) + "é"
	got, err := fit(text, true)
	if err != nil {
		t.Fatalf("fit() err = %v", err)
	}
	if got != strings.Repeat("a", maxText-1) {
		t.Fatalf("fit() = %q, want the rune dropped", got)
	}
}

func TestStream(t *testing.T) {
	in := strings.NewReader("one\r\n" + strings.Repeat("x", 40) + "\nthree\n")
	var out bytes.Buffer
	var skipped []string
	n, err := stream(in, &out, 7, false, func(line string, err error) {
		skipped = append(skipped, line)
	})
	if err != nil || n != 2 {
		t.Fatalf("stream() = %d, %v, want 2 lines", n, err)
	}
	if len(skipped) != 1 {
		t.Fatalf("skipped = %q, want the long line", skipped)
	}
	frames := readFrames(t, out.Bytes())
	if len(frames) != 2 || frames[0][0].Str() != "one" || frames[1][0].Str() != "three" || frames[1][0].Key != 7 {
		t.Fatalf("frames = %v", frames)
	}
}
