package proto

import (
	"testing"
	"time"

	"barface/tickos/dict"
)

func TestChangedUnits(t *testing.T) {
	base := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	tests := []struct {
		name string
		next time.Time
		want TimeUnits
	}{
		{"same", base, 0},
		{"second", base.Add(-time.Second), SecondUnit},
		{"minute", time.Date(2024, 12, 31, 23, 58, 0, 0, time.UTC), SecondUnit | MinuteUnit},
		{"year rollover", base.Add(time.Second), SecondUnit | MinuteUnit | HourUnit | DayUnit | MonthUnit | YearUnit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChangedUnits(base, tt.next); got != tt.want {
				t.Fatalf("ChangedUnits() = %06b, want %06b", got, tt.want)
			}
		})
	}
}

func TestTimeTickPayload(t *testing.T) {
	loc := time.FixedZone("minus5", -5*60*60)
	at := time.Date(2025, 7, 4, 13, 7, 9, 0, loc)
	in := TickTimeOf(at, SecondUnit|MinuteUnit)

	got, ok := DecodeTimeTickPayload(TimeTickPayload(in))
	if !ok {
		t.Fatal("DecodeTimeTickPayload() ok = false")
	}
	if got != in {
		t.Fatalf("DecodeTimeTickPayload() = %+v, want %+v", got, in)
	}
	if !got.Time().Equal(at) {
		t.Fatalf("Time() = %v, want %v", got.Time(), at)
	}
	if _, ok := DecodeTimeTickPayload([]byte{1, 2}); ok {
		t.Fatal("DecodeTimeTickPayload(short) ok = true")
	}
}

func TestSyncChangedPayload(t *testing.T) {
	newT := dict.CString(0, "Hello")
	oldT := dict.CString(0, "")

	gotNew, gotOld, ok := DecodeSyncChangedPayload(SyncChangedPayload(newT, oldT))
	if !ok {
		t.Fatal("DecodeSyncChangedPayload() ok = false")
	}
	if !gotNew.Equal(newT) || !gotOld.Equal(oldT) {
		t.Fatalf("decoded new=%v old=%v, want %v %v", gotNew, gotOld, newT, oldT)
	}
	if _, _, ok := DecodeSyncChangedPayload([]byte{0, 0, 0, 0, 1, 9}); ok {
		t.Fatal("DecodeSyncChangedPayload(truncated) ok = true")
	}
}

func TestSyncErrorPayload(t *testing.T) {
	dr, sr, ok := DecodeSyncErrorPayload(SyncErrorPayload(DictNotEnoughStorage, SyncOK))
	if !ok || dr != DictNotEnoughStorage || sr != SyncOK {
		t.Fatalf("DecodeSyncErrorPayload() = %s %s %v", dr, sr, ok)
	}
}

func TestKindString(t *testing.T) {
	if got := MsgSyncChanged.String(); got != "sync_changed" {
		t.Fatalf("String() = %q, want sync_changed", got)
	}
	if got := Kind(999).String(); got != "unknown" {
		t.Fatalf("String() = %q, want unknown", got)
	}
}
