package controllers

import (
	"net/http"
	"testing"
	"time"

	"enorae-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCheckCustomerCancel(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	owner := uuid.New()

	appt := func(status string, start time.Time) *models.Appointment {
		return &models.Appointment{CustomerID: owner, Status: status, StartTime: start}
	}

	tests := []struct {
		name    string
		appt    *models.Appointment
		caller  uuid.UUID
		status  int
		message string
	}{
		{"allowed", appt(models.StatusConfirmed, now.Add(48*time.Hour)), owner, 0, ""},
		{"exactly a day ahead", appt(models.StatusPending, now.Add(24*time.Hour)), owner, 0, ""},
		{"someone else's", appt(models.StatusConfirmed, now.Add(48*time.Hour)), uuid.New(), http.StatusForbidden, "Not authorized to cancel this appointment"},
		{"already cancelled", appt(models.StatusCancelled, now.Add(48*time.Hour)), owner, http.StatusBadRequest, "Appointment is already cancelled"},
		{"too late", appt(models.StatusConfirmed, now.Add(23*time.Hour)), owner, http.StatusBadRequest,
			"Cannot cancel within 24 hours of appointment. Please contact the salon directly."},
		{"finished", appt(models.StatusCompleted, now.Add(48*time.Hour)), owner, http.StatusBadRequest, "This appointment can no longer be cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := checkCustomerCancel(tt.appt, tt.caller, now)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, msg)
		})
	}
}

func TestBookedLabel(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "Today", bookedLabel(now.Add(-time.Hour), now))
	assert.Equal(t, "Yesterday", bookedLabel(now.Add(-10*time.Hour), now))
	assert.Equal(t, "4 days ago", bookedLabel(now.AddDate(0, 0, -4), now))
}

func TestValidWorkingHours(t *testing.T) {
	assert.True(t, validWorkingHours(models.DefaultWorkingHours()))
	assert.True(t, validWorkingHours(models.JSONB{
		"sunday": map[string]interface{}{"closed": true},
	}))

	assert.False(t, validWorkingHours(models.JSONB{
		"funday": map[string]interface{}{"open": "09:00", "close": "17:00"},
	}))
	assert.False(t, validWorkingHours(models.JSONB{
		"monday": map[string]interface{}{"open": "18:00", "close": "09:00"},
	}))
	assert.False(t, validWorkingHours(models.JSONB{
		"monday": map[string]interface{}{"open": "9am", "close": "17:00"},
	}))
	assert.False(t, validWorkingHours(models.JSONB{"monday": "all day"}))
}

func TestAssignableStaffRole(t *testing.T) {
	assert.True(t, assignableStaffRole("staff"))
	assert.True(t, assignableStaffRole("salon_manager"))
	assert.False(t, assignableStaffRole("salon_owner"))
	assert.False(t, assignableStaffRole("super_admin"))
	assert.False(t, assignableStaffRole("customer"))
}
