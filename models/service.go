package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SalonID     uuid.UUID `gorm:"type:uuid;index;not null" json:"salonId"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Category    string    `gorm:"default:'General'" json:"category"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`

	// Nullable on purpose: booking falls back to 60 minutes and no buffer.
	DurationMinutes *int `json:"durationMinutes"`
	BufferMinutes   *int `json:"bufferMinutes"`

	IsActive  bool           `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
