package watchface

import (
	"strings"
	"testing"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		hour, minute int
		is24h        bool
		want         string
	}{
		{0, 0, true, "00:00"},
		{0, 5, true, "00:05"},
		{13, 4, true, "13:04"},
		{23, 59, true, "23:59"},
		{0, 0, false, "12:00 AM"},
		{1, 9, false, "01:09 AM"},
		{11, 59, false, "11:59 AM"},
		{12, 0, false, "12:00 PM"},
		{13, 0, false, "01:00 PM"},
		{23, 59, false, "11:59 PM"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.hour, tt.minute, tt.is24h); got != tt.want {
			t.Fatalf("FormatClock(%d, %d, %v) = %q, want %q", tt.hour, tt.minute, tt.is24h, got, tt.want)
		}
	}
}

func TestFormatClockShape(t *testing.T) {
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			s24 := FormatClock(h, m, true)
			if len(s24) != 5 || s24[2] != ':' {
				t.Fatalf("FormatClock(%d, %d, true) = %q, want HH:MM", h, m, s24)
			}
			s12 := FormatClock(h, m, false)
			if len(s12) > MaxClockLen {
				t.Fatalf("FormatClock(%d, %d, false) = %q, longer than %d", h, m, s12, MaxClockLen)
			}
			wantSuffix := " AM"
			if h >= 12 {
				wantSuffix = " PM"
			}
			if !strings.HasSuffix(s12, wantSuffix) {
				t.Fatalf("FormatClock(%d, %d, false) = %q, want suffix %q", h, m, s12, wantSuffix)
			}
		}
	}
}

func TestFormatClockMidnightAndAfternoon(t *testing.T) {
	if got := FormatClock(0, 30, true); !strings.HasPrefix(got, "00:") {
		t.Fatalf("FormatClock(0, 30, true) = %q, want prefix 00:", got)
	}
	got := FormatClock(0, 30, false)
	if !strings.HasPrefix(got, "12:") || !strings.HasSuffix(got, "AM") {
		t.Fatalf("FormatClock(0, 30, false) = %q, want 12:..AM", got)
	}
	got = FormatClock(13, 30, false)
	if !strings.HasPrefix(got, "01:") || !strings.HasSuffix(got, "PM") {
		t.Fatalf("FormatClock(13, 30, false) = %q, want 01:..PM", got)
	}
}
