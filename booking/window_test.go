package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSlot(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	s := NewSlot(start, intPtr(45), intPtr(15))
	assert.Equal(t, start.Add(time.Hour), s.End)
	assert.Equal(t, 45, s.DurationMinutes)

	s = NewSlot(start, nil, nil)
	assert.Equal(t, start.Add(time.Hour), s.End)
	assert.Equal(t, 60, s.DurationMinutes)
	assert.Equal(t, 0, s.BufferMinutes)

	s = NewSlot(start, intPtr(0), intPtr(10))
	assert.Equal(t, start.Add(70*time.Minute), s.End)
}

func TestSlotOverlaps(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2025, 6, 1, h, m, 0, 0, time.UTC) }
	base := Slot{Start: at(10, 0), End: at(11, 0)}

	tests := []struct {
		name string
		o    Slot
		want bool
	}{
		{"identical", Slot{Start: at(10, 0), End: at(11, 0)}, true},
		{"inside", Slot{Start: at(10, 15), End: at(10, 45)}, true},
		{"covering", Slot{Start: at(9, 0), End: at(12, 0)}, true},
		{"tail overlap", Slot{Start: at(10, 59), End: at(11, 30)}, true},
		{"ends at start", Slot{Start: at(9, 0), End: at(10, 0)}, false},
		{"starts at end", Slot{Start: at(11, 0), End: at(12, 0)}, false},
		{"disjoint", Slot{Start: at(13, 0), End: at(14, 0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.o))
			assert.Equal(t, tt.want, tt.o.Overlaps(base))
		})
	}
}

func TestCheckWindow(t *testing.T) {
	now := fixedNow

	assert.ErrorIs(t, CheckWindow(now, now, 90), ErrPolicy)
	assert.ErrorIs(t, CheckWindow(now.Add(-time.Minute), now, 90), ErrValidation)
	assert.NoError(t, CheckWindow(now.Add(time.Second), now, 90))
	assert.NoError(t, CheckWindow(now.AddDate(0, 0, 90), now, 90))

	err := CheckWindow(now.AddDate(0, 0, 90).Add(time.Second), now, 90)
	assert.EqualError(t, err, "Appointments can only be booked up to 90 days in advance")

	err = CheckWindow(now.AddDate(0, 0, 8), now, 7)
	assert.EqualError(t, err, "Appointments can only be booked up to 7 days in advance")

	assert.NoError(t, CheckWindow(now.AddDate(0, 0, 80), now, 0))
}
