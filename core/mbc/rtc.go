// rtc.go - MBC3's real-time clock registers: seconds,
// minutes, hours, day-low, day-high+control, captured from a reference
// timestamp on latch rather than ticked per CPU cycle.

package mbc

import "time"

type RTC struct {
	Seconds byte
	Minutes byte
	Hours   byte
	DayLow  byte
	DayHigh byte // bit 0: day counter bit 8, bit 7: halt (not modelled), bit 6: carry (not modelled)

	reference time.Time
}

func NewRTC() RTC { return RTC{reference: time.Now()} }

// Latch captures elapsed wall-clock time into the RTC registers:
// seconds/minutes/hours/days are all derived from one elapsed-seconds count.
func (r *RTC) Latch() {
	elapsed := time.Since(r.reference)
	totalSeconds := int64(elapsed / time.Second)

	r.Seconds = byte(totalSeconds % 60)
	r.Minutes = byte((totalSeconds / 60) % 60)
	r.Hours = byte((totalSeconds / 3600) % 24)
	days := totalSeconds / 86400
	r.DayLow = byte(days & 0xFF)
	r.DayHigh = byte((days >> 8) & 0x01)
}

func (r *RTC) Read(selector byte) byte {
	switch selector {
	case 0x08:
		return r.Seconds
	case 0x09:
		return r.Minutes
	case 0x0A:
		return r.Hours
	case 0x0B:
		return r.DayLow
	default:
		return r.DayHigh
	}
}

func (r *RTC) Write(selector byte, value byte) {
	switch selector {
	case 0x08:
		r.Seconds = value
	case 0x09:
		r.Minutes = value
	case 0x0A:
		r.Hours = value
	case 0x0B:
		r.DayLow = value
	default:
		r.DayHigh = value
	}
}
