package models

import (
	"database/sql/driver"
	"encoding/json"
	"enorae-backend/utils"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Name     string    `gorm:"not null" json:"name"`
	Phone    string    `json:"phone"`

	Role string `gorm:"type:varchar(32);not null;default:'customer'" json:"role"`

	// SalonID is set for business and staff users only.
	SalonID *uuid.UUID `gorm:"type:uuid;index" json:"salonId,omitempty"`

	// Percentage of completed appointment revenue paid to staff.
	CommissionRate float64 `gorm:"type:decimal(5,2);default:0" json:"commissionRate"`
	Title          string  `json:"title,omitempty"`

	LastLogin *time.Time `json:"lastLogin,omitempty"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Hash the password before the row is written.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}

// Custom JSONB type for working hours
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &j)
}
