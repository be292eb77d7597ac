package proto

import (
	"encoding/binary"
	"time"
)

// TimeUnits is a bitmask of calendar fields.
type TimeUnits uint8

const (
	SecondUnit TimeUnits = 1 << iota
	MinuteUnit
	HourUnit
	DayUnit
	MonthUnit
	YearUnit
)

// ChangedUnits reports which calendar fields differ between prev and now.
// Larger units imply every smaller one, so a new minute also reports a new second.
func ChangedUnits(prev, now time.Time) TimeUnits {
	var u TimeUnits
	switch {
	case prev.Year() != now.Year():
		u |= YearUnit
		fallthrough
	case prev.Month() != now.Month():
		u |= MonthUnit
		fallthrough
	case prev.Day() != now.Day():
		u |= DayUnit
		fallthrough
	case prev.Hour() != now.Hour():
		u |= HourUnit
		fallthrough
	case prev.Minute() != now.Minute():
		u |= MinuteUnit
		fallthrough
	case prev.Second() != now.Second():
		u |= SecondUnit
	}
	return u
}

// TickTime is a broken-down wall-clock instant delivered with MsgTimeTick.
type TickTime struct {
	Year    int
	Month   time.Month
	Day     int
	Hour    int
	Minute  int
	Second  int
	Weekday time.Weekday
	YearDay int
	// ZoneOffset is seconds east of UTC.
	ZoneOffset int
	Changed    TimeUnits
}

// TickTimeOf breaks t down into a TickTime.
func TickTimeOf(t time.Time, changed TimeUnits) TickTime {
	_, off := t.Zone()
	return TickTime{
		Year:       t.Year(),
		Month:      t.Month(),
		Day:        t.Day(),
		Hour:       t.Hour(),
		Minute:     t.Minute(),
		Second:     t.Second(),
		Weekday:    t.Weekday(),
		YearDay:    t.YearDay(),
		ZoneOffset: off,
		Changed:    changed,
	}
}

// Time rebuilds the instant in a fixed zone with the recorded offset.
func (t TickTime) Time() time.Time {
	loc := time.FixedZone("", t.ZoneOffset)
	return time.Date(t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second, 0, loc)
}

const tickTimeLen = 15

// TimeTickPayload encodes a MsgTimeTick payload.
//
// Layout (little-endian):
//   - u16: year
//   - u8: month, day, hour, minute, second, weekday
//   - u16: year day
//   - u8: changed units
//   - i32: zone offset seconds
func TimeTickPayload(t TickTime) []byte {
	buf := make([]byte, tickTimeLen)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(t.Year))
	buf[2] = uint8(t.Month)
	buf[3] = uint8(t.Day)
	buf[4] = uint8(t.Hour)
	buf[5] = uint8(t.Minute)
	buf[6] = uint8(t.Second)
	buf[7] = uint8(t.Weekday)
	binary.LittleEndian.PutUint16(buf[8:10], uint16(t.YearDay))
	buf[10] = uint8(t.Changed)
	binary.LittleEndian.PutUint32(buf[11:15], uint32(int32(t.ZoneOffset)))
	return buf
}

// DecodeTimeTickPayload decodes a TimeTickPayload.
func DecodeTimeTickPayload(payload []byte) (TickTime, bool) {
	if len(payload) < tickTimeLen {
		return TickTime{}, false
	}
	t := TickTime{
		Year:       int(binary.LittleEndian.Uint16(payload[0:2])),
		Month:      time.Month(payload[2]),
		Day:        int(payload[3]),
		Hour:       int(payload[4]),
		Minute:     int(payload[5]),
		Second:     int(payload[6]),
		Weekday:    time.Weekday(payload[7]),
		YearDay:    int(binary.LittleEndian.Uint16(payload[8:10])),
		Changed:    TimeUnits(payload[10]),
		ZoneOffset: int(int32(binary.LittleEndian.Uint32(payload[11:15]))),
	}
	if t.Month < time.January || t.Month > time.December || t.Hour > 23 || t.Minute > 59 || t.Second > 60 {
		return TickTime{}, false
	}
	return t, true
}

// TimeSubscribePayload encodes a MsgTimeSubscribe request payload.
//
// Layout:
//   - u8: unit mask (0 unsubscribes)
func TimeSubscribePayload(units TimeUnits) []byte {
	return []byte{uint8(units)}
}

// DecodeTimeSubscribePayload decodes a TimeSubscribePayload.
func DecodeTimeSubscribePayload(payload []byte) (TimeUnits, bool) {
	if len(payload) < 1 {
		return 0, false
	}
	return TimeUnits(payload[0]), true
}
