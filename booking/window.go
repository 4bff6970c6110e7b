package booking

import (
	"strconv"
	"time"
)

const (
	DefaultDurationMinutes = 60
	DefaultMaxDaysAhead    = 90
)

// Slot is the half-open interval [Start, End) an appointment occupies.
type Slot struct {
	Start           time.Time
	End             time.Time
	DurationMinutes int
	BufferMinutes   int
}

// NewSlot sizes a slot from a service's duration and buffer. A missing or
// zero duration falls back to an hour; a missing buffer counts as none.
func NewSlot(start time.Time, duration, buffer *int) Slot {
	d := DefaultDurationMinutes
	if duration != nil && *duration > 0 {
		d = *duration
	}
	b := 0
	if buffer != nil && *buffer > 0 {
		b = *buffer
	}
	return Slot{
		Start:           start,
		End:             start.Add(time.Duration(d+b) * time.Minute),
		DurationMinutes: d,
		BufferMinutes:   b,
	}
}

// Overlaps reports whether two slots share any instant. Back-to-back slots
// do not overlap.
func (s Slot) Overlaps(o Slot) bool {
	return s.Start.Before(o.End) && o.Start.Before(s.End)
}

// CheckWindow rejects starts that are not strictly in the future or that are
// more than maxDays calendar days ahead of now.
func CheckWindow(start, now time.Time, maxDays int) error {
	if maxDays <= 0 {
		maxDays = DefaultMaxDaysAhead
	}
	if !start.After(now) {
		return newError(KindPolicy, StateRejected, "Appointment time must be in the future", nil)
	}
	if start.After(now.AddDate(0, 0, maxDays)) {
		return newError(KindPolicy, StateRejected, windowMessage(maxDays), nil)
	}
	return nil
}

func windowMessage(maxDays int) string {
	return "Appointments can only be booked up to " + strconv.Itoa(maxDays) + " days in advance"
}
