package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Salon struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID      *uuid.UUID `gorm:"type:uuid;index" json:"ownerId"`
	Name         string     `gorm:"not null" json:"name"`
	Address      string     `json:"address"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	WorkingHours JSONB      `gorm:"type:jsonb;default:'{}'" json:"workingHours"`

	// IsActive doubles as the "accepting bookings" switch.
	IsActive bool `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Staff    []User    `gorm:"foreignKey:SalonID" json:"-"`
	Services []Service `gorm:"foreignKey:SalonID" json:"-"`
}

func (s *Salon) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// DefaultWorkingHours is applied when a salon is created without a schedule.
func DefaultWorkingHours() JSONB {
	return JSONB{
		"monday":    map[string]interface{}{"open": "09:00", "close": "20:00", "closed": false},
		"tuesday":   map[string]interface{}{"open": "09:00", "close": "20:00", "closed": false},
		"wednesday": map[string]interface{}{"open": "09:00", "close": "20:00", "closed": false},
		"thursday":  map[string]interface{}{"open": "09:00", "close": "20:00", "closed": false},
		"friday":    map[string]interface{}{"open": "09:00", "close": "20:00", "closed": false},
		"saturday":  map[string]interface{}{"open": "09:00", "close": "21:00", "closed": false},
		"sunday":    map[string]interface{}{"open": "10:00", "close": "19:00", "closed": true},
	}
}
