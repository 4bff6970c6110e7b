package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stock movement types. Quantity is always positive; the type gives the sign.
const (
	MovementIn         = "in"
	MovementOut        = "out"
	MovementAdjustment = "adjustment"
	MovementUsage      = "usage"
)

type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SalonID       uuid.UUID `gorm:"type:uuid;index;not null" json:"salonId"`
	Name          string    `gorm:"not null" json:"name"`
	Description   string    `json:"description,omitempty"`
	SKU           string    `gorm:"column:sku" json:"sku,omitempty"`
	UnitOfMeasure string    `gorm:"default:'unit'" json:"unitOfMeasure"`
	CostPrice     float64   `gorm:"type:decimal(10,2);default:0" json:"costPrice"`
	RetailPrice   float64   `gorm:"type:decimal(10,2);default:0" json:"retailPrice"`

	QuantityOnHand float64 `gorm:"type:decimal(12,3);default:0" json:"quantityOnHand"`
	ReorderPoint   float64 `gorm:"type:decimal(12,3);default:0" json:"reorderPoint"`

	IsActive  bool           `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// LowStock reports whether the product is at or under its reorder point.
func (p *Product) LowStock() bool {
	return p.QuantityOnHand <= p.ReorderPoint
}

// StockMovement is an append-only ledger entry for one product.
type StockMovement struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	SalonID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"salonId"`
	ProductID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"productId"`
	MovementType  string     `gorm:"type:varchar(20);not null" json:"movementType"`
	Quantity      float64    `gorm:"type:decimal(12,3);not null" json:"quantity"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index" json:"appointmentId,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	PerformedByID uuid.UUID  `gorm:"type:uuid;not null" json:"performedById"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}

// Delta is the signed change the movement makes to quantity on hand.
// Adjustments carry their sign in Quantity.
func (m *StockMovement) Delta() float64 {
	switch m.MovementType {
	case MovementOut, MovementUsage:
		return -m.Quantity
	default:
		return m.Quantity
	}
}

// ServiceProductUsage says how much of a product one performance of a
// service consumes.
type ServiceProductUsage struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SalonID            uuid.UUID `gorm:"type:uuid;index;not null" json:"salonId"`
	ServiceID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_usage_service_product,priority:1" json:"serviceId"`
	ProductID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_usage_service_product,priority:2" json:"productId"`
	QuantityPerService float64   `gorm:"type:decimal(12,3);not null" json:"quantityPerService"`
	IsRequired         bool      `gorm:"default:false" json:"isRequired"`

	CreatedByID uuid.UUID `gorm:"type:uuid" json:"createdById"`
	UpdatedByID uuid.UUID `gorm:"type:uuid" json:"updatedById"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (u *ServiceProductUsage) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
