package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BlockBreak       = "break"
	BlockMaintenance = "maintenance"
	BlockHoliday     = "holiday"
	BlockPersonal    = "personal"
	BlockOther       = "other"
)

// BlockedTime closes a span of the calendar for one staff member, or for the
// whole salon when StaffID is nil.
type BlockedTime struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	SalonID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"salonId"`
	StaffID   *uuid.UUID `gorm:"type:uuid;index" json:"staffId,omitempty"`
	BlockType string     `gorm:"type:varchar(20);not null" json:"blockType"`
	StartTime time.Time  `gorm:"not null;index" json:"startTime"`
	EndTime   time.Time  `gorm:"not null" json:"endTime"`
	Reason    string     `json:"reason,omitempty"`

	IsRecurring       bool   `gorm:"default:false" json:"isRecurring"`
	RecurrencePattern string `json:"recurrencePattern,omitempty"`

	CreatedByID uuid.UUID `gorm:"type:uuid;not null" json:"createdById"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (b *BlockedTime) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

func IsBlockType(t string) bool {
	switch t {
	case BlockBreak, BlockMaintenance, BlockHoliday, BlockPersonal, BlockOther:
		return true
	}
	return false
}
