package booking

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Form holds the raw fields of a booking submission.
type Form struct {
	SalonID   string `validate:"required,uuid"`
	ServiceID string `validate:"required,uuid"`
	StaffID   string `validate:"required,uuid"`
	Date      string `validate:"required,datetime=2006-01-02"`
	Time      string `validate:"required,clock"`
	Notes     string `validate:"max=500"`
}

// Request is a validated booking submission.
type Request struct {
	SalonID   uuid.UUID
	ServiceID uuid.UUID
	StaffID   uuid.UUID
	Date      string
	Time      string
	Notes     string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := parseClock(fl.Field().String())
		return err == nil
	})
	return v
}

var fieldMessages = map[string]map[string]string{
	"SalonID": {
		"required": "Salon is required",
		"uuid":     "Invalid salon ID",
	},
	"ServiceID": {
		"required": "Service is required",
		"uuid":     "Invalid service ID",
	},
	"StaffID": {
		"required": "Staff member is required",
		"uuid":     "Invalid staff ID",
	},
	"Date": {
		"required": "Date is required",
		"datetime": "Invalid date format. Use YYYY-MM-DD",
	},
	"Time": {
		"required": "Time is required",
		"clock":    "Invalid time format. Use HH:MM",
	},
	"Notes": {
		"max": "Notes must be 500 characters or less",
	},
}

// ParseRequest validates raw form fields. The first failing field, in form
// order, decides the message.
func ParseRequest(f Form) (Request, error) {
	f.SalonID = strings.TrimSpace(f.SalonID)
	f.ServiceID = strings.TrimSpace(f.ServiceID)
	f.StaffID = strings.TrimSpace(f.StaffID)
	f.Date = strings.TrimSpace(f.Date)
	f.Time = strings.TrimSpace(f.Time)
	f.Notes = strings.TrimSpace(f.Notes)

	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			msg := fieldMessages[fe.StructField()][fe.Tag()]
			if msg == "" {
				msg = "Validation failed"
			}
			return Request{}, newError(KindValidation, StateRejected, msg, err)
		}
		return Request{}, newError(KindValidation, StateRejected, "Validation failed", err)
	}

	return Request{
		SalonID:   uuid.MustParse(f.SalonID),
		ServiceID: uuid.MustParse(f.ServiceID),
		StaffID:   uuid.MustParse(f.StaffID),
		Date:      f.Date,
		Time:      f.Time,
		Notes:     f.Notes,
	}, nil
}

// parseClock accepts HH:MM and HH:MM:SS.
func parseClock(s string) (time.Time, error) {
	if len(s) == len("15:04") {
		return time.Parse("15:04", s)
	}
	return time.Parse("15:04:05", s)
}

// StartIn resolves the request's wall-clock date and time in loc.
func (r Request) StartIn(loc *time.Location) (time.Time, error) {
	clock, err := parseClock(r.Time)
	if err != nil {
		return time.Time{}, err
	}
	day, err := time.ParseInLocation("2006-01-02", r.Date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, loc), nil
}
