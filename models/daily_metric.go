// models/daily_metric.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyMetric is one salon's rollup for a single calendar day.
type DailyMetric struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SalonID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_metrics_salon_day,priority:1" json:"salonId"`
	MetricDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_daily_metrics_salon_day,priority:2" json:"metricDate"`

	TotalAppointments     int     `json:"totalAppointments"`
	CompletedAppointments int     `json:"completedAppointments"`
	CancelledAppointments int     `json:"cancelledAppointments"`
	NoShowAppointments    int     `json:"noShowAppointments"`
	TotalRevenue          float64 `gorm:"type:decimal(12,2);default:0" json:"totalRevenue"`
	NewCustomers          int     `json:"newCustomers"`
	ReturningCustomers    int     `json:"returningCustomers"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *DailyMetric) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
