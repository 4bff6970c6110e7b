package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusDraft       = "draft"
	StatusPending     = "pending"
	StatusConfirmed   = "confirmed"
	StatusCheckedIn   = "checked_in"
	StatusInProgress  = "in_progress"
	StatusCompleted   = "completed"
	StatusCancelled   = "cancelled"
	StatusNoShow      = "no_show"
	StatusRescheduled = "rescheduled"
)

var statusTransitions = map[string][]string{
	StatusDraft:       {StatusPending},
	StatusPending:     {StatusConfirmed, StatusCancelled},
	StatusConfirmed:   {StatusCheckedIn, StatusInProgress, StatusCancelled},
	StatusCheckedIn:   {StatusInProgress, StatusCancelled},
	StatusInProgress:  {StatusCompleted, StatusNoShow},
	StatusCompleted:   {},
	StatusCancelled:   {},
	StatusNoShow:      {},
	StatusRescheduled: {},
}

// CanTransition reports whether an appointment may move from one status to another.
func CanTransition(from, to string) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsKnownStatus reports whether s is one of the appointment statuses.
func IsKnownStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

type Appointment struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SalonID          uuid.UUID `gorm:"type:uuid;index;not null" json:"salonId"`
	CustomerID       uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`
	StaffID          uuid.UUID `gorm:"type:uuid;not null;index:idx_appointments_staff_window,priority:1" json:"staffId"`
	StartTime        time.Time `gorm:"type:timestamptz;not null;index:idx_appointments_staff_window,priority:2" json:"startTime"`
	EndTime          time.Time `gorm:"type:timestamptz;not null" json:"endTime"`
	Status           string    `gorm:"type:varchar(20);index;not null;default:'pending'" json:"status"`
	DurationMinutes  int       `gorm:"not null" json:"durationMinutes"`
	ConfirmationCode string    `gorm:"type:varchar(8);index;not null" json:"confirmationCode"`
	TotalPrice       float64   `gorm:"type:decimal(10,2);default:0" json:"totalPrice"`
	CommissionRate   float64   `gorm:"type:decimal(5,2);default:0" json:"commissionRate"`
	Notes            string    `json:"notes,omitempty"`

	CreatedByID uuid.UUID  `gorm:"type:uuid;not null" json:"createdById"`
	UpdatedByID uuid.UUID  `gorm:"type:uuid;not null" json:"updatedById"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Services []AppointmentService `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"services,omitempty"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// AppointmentService links an appointment to the service performed in it.
type AppointmentService struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AppointmentID   uuid.UUID `gorm:"type:uuid;index;not null" json:"appointmentId"`
	ServiceID       uuid.UUID `gorm:"type:uuid;index;not null" json:"serviceId"`
	StaffID         uuid.UUID `gorm:"type:uuid;index;not null" json:"staffId"`
	StartTime       time.Time `gorm:"type:timestamptz;not null" json:"startTime"`
	EndTime         time.Time `gorm:"type:timestamptz;not null" json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`

	CreatedByID uuid.UUID `gorm:"type:uuid;not null" json:"createdById"`
	UpdatedByID uuid.UUID `gorm:"type:uuid;not null" json:"updatedById"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *AppointmentService) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
