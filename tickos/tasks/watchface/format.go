package watchface

// MaxClockLen is the longest string FormatClock returns ("12:00 AM").
const MaxClockLen = 8

// FormatClock renders hour:minute as "HH:MM" in 24-hour mode or "hh:MM AM"
// in 12-hour mode, where hour 0 and 12 both show as 12.
func FormatClock(hour, minute int, is24h bool) string {
	var buf [MaxClockLen]byte
	b := buf[:0]

	suffix := ""
	if !is24h {
		suffix = "AM"
		if hour >= 12 {
			suffix = "PM"
		}
		hour %= 12
		if hour == 0 {
			hour = 12
		}
	}

	b = appendTwoDigits(b, hour)
	b = append(b, ':')
	b = appendTwoDigits(b, minute)
	if suffix != "" {
		b = append(b, ' ')
		b = append(b, suffix...)
	}
	return string(b)
}

func appendTwoDigits(b []byte, v int) []byte {
	if v < 0 {
		v = 0
	}
	v %= 100
	return append(b, byte('0'+v/10), byte('0'+v%10))
}
