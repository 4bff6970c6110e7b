package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Form)
		wantErr string
	}{
		{name: "valid", mutate: func(*Form) {}},
		{name: "seconds accepted", mutate: func(f *Form) { f.Time = "10:00:30" }},
		{name: "surrounding spaces trimmed", mutate: func(f *Form) { f.SalonID = "  " + f.SalonID + " " }},
		{name: "missing salon", mutate: func(f *Form) { f.SalonID = "" }, wantErr: "Salon is required"},
		{name: "malformed salon", mutate: func(f *Form) { f.SalonID = "S1" }, wantErr: "Invalid salon ID"},
		{name: "missing service", mutate: func(f *Form) { f.ServiceID = "" }, wantErr: "Service is required"},
		{name: "malformed service", mutate: func(f *Form) { f.ServiceID = "SVC1" }, wantErr: "Invalid service ID"},
		{name: "missing staff", mutate: func(f *Form) { f.StaffID = "" }, wantErr: "Staff member is required"},
		{name: "missing date", mutate: func(f *Form) { f.Date = "" }, wantErr: "Date is required"},
		{name: "wrong date layout", mutate: func(f *Form) { f.Date = "01/06/2025" }, wantErr: "Invalid date format. Use YYYY-MM-DD"},
		{name: "impossible date", mutate: func(f *Form) { f.Date = "2025-02-30" }, wantErr: "Invalid date format. Use YYYY-MM-DD"},
		{name: "missing time", mutate: func(f *Form) { f.Time = "" }, wantErr: "Time is required"},
		{name: "bad hour", mutate: func(f *Form) { f.Time = "25:00" }, wantErr: "Invalid time format. Use HH:MM"},
		{name: "am/pm time", mutate: func(f *Form) { f.Time = "10am" }, wantErr: "Invalid time format. Use HH:MM"},
		{name: "notes too long", mutate: func(f *Form) { f.Notes = strings.Repeat("x", 501) }, wantErr: "Notes must be 500 characters or less"},
		{
			name:    "first field in form order wins",
			mutate:  func(f *Form) { f.Time = ""; f.ServiceID = "" },
			wantErr: "Service is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			req, err := ParseRequest(form)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, salonID, req.SalonID)
				assert.Equal(t, serviceID, req.ServiceID)
				assert.Equal(t, staffID, req.StaffID)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestRequestStartIn(t *testing.T) {
	req := Request{Date: "2025-06-01", Time: "10:15:30"}

	start, err := req.StartIn(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 15, 30, 0, time.UTC), start)

	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	start, err = req.StartIn(ny)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 14, 15, 30, 0, time.UTC), start.UTC())
}
