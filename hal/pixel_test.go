package hal

import "testing"

func TestRGB565RoundTripPrimaries(t *testing.T) {
	tests := []struct {
		r, g, b uint8
	}{
		{0, 0, 0},
		{255, 255, 255},
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
	}
	for _, tt := range tests {
		r, g, b := RGB888(RGB565(tt.r, tt.g, tt.b))
		if r != tt.r || g != tt.g || b != tt.b {
			t.Fatalf("RGB888(RGB565(%d,%d,%d)) = %d,%d,%d", tt.r, tt.g, tt.b, r, g, b)
		}
	}
}

func TestPixelAtOutOfRange(t *testing.T) {
	fb := NewMemFramebuffer(4, 4)
	fb.ClearRGB(255, 255, 255)
	if got := PixelAt(fb, 0, 0); got != 0xFFFF {
		t.Fatalf("PixelAt(0,0) = %#x, want 0xffff", got)
	}
	if got := PixelAt(fb, 4, 0); got != 0 {
		t.Fatalf("PixelAt(4,0) = %#x, want 0", got)
	}
	if got := PixelAt(fb, 0, -1); got != 0 {
		t.Fatalf("PixelAt(0,-1) = %#x, want 0", got)
	}
}

func TestMemFramebufferSnapshotSeesOnlyPresented(t *testing.T) {
	fb := NewMemFramebuffer(2, 2)
	fb.ClearRGB(255, 255, 255)

	dst := make([]byte, len(fb.Buffer()))
	fb.Snapshot(dst)
	for i, b := range dst {
		if b != 0 {
			t.Fatalf("Snapshot()[%d] = %#x before Present, want 0", i, b)
		}
	}

	if err := fb.Present(); err != nil {
		t.Fatalf("Present() err = %v", err)
	}
	fb.Snapshot(dst)
	for i, b := range dst {
		if b != 0xFF {
			t.Fatalf("Snapshot()[%d] = %#x after Present, want 0xff", i, b)
		}
	}
	if got := fb.Presents(); got != 1 {
		t.Fatalf("Presents() = %d, want 1", got)
	}
}
