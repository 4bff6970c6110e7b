package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RateLimitViolation records a client that went over its request budget.
type RateLimitViolation struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ClientKey   string    `gorm:"type:varchar(128);index;not null" json:"clientKey"`
	Route       string    `gorm:"type:varchar(255);not null" json:"route"`
	Count       int64     `json:"count"`
	Limit       int       `json:"limit"`
	WindowStart time.Time `gorm:"index" json:"windowStart"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
}

func (v *RateLimitViolation) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}
