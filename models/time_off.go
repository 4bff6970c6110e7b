package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TimeOffPending  = "pending"
	TimeOffApproved = "approved"
	TimeOffRejected = "rejected"
)

type TimeOffRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SalonID   uuid.UUID `gorm:"type:uuid;index;not null" json:"salonId"`
	StaffID   uuid.UUID `gorm:"type:uuid;index;not null" json:"staffId"`
	StartDate time.Time `gorm:"type:date;not null" json:"startDate"`
	EndDate   time.Time `gorm:"type:date;not null" json:"endDate"`
	Reason    string    `gorm:"type:text" json:"reason"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	ReviewedByID *uuid.UUID `gorm:"type:uuid" json:"reviewedById,omitempty"`
	ReviewedAt   *time.Time `json:"reviewedAt,omitempty"`
	ReviewNote   string     `json:"reviewNote,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *TimeOffRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
