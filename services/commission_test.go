package services

import (
	"testing"
	"time"

	"enorae-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeCommission(t *testing.T) {
	now := time.Date(2025, 6, 15, 16, 0, 0, 0, time.UTC)
	appt := func(day, hour int, status string, price, rate float64) models.Appointment {
		return models.Appointment{
			StartTime:      time.Date(2025, 6, day, hour, 0, 0, 0, time.UTC),
			Status:         status,
			TotalPrice:     price,
			CommissionRate: rate,
		}
	}

	appts := []models.Appointment{
		appt(15, 9, models.StatusCompleted, 100, 10),
		appt(15, 11, models.StatusCompleted, 50, 20),
		appt(15, 13, models.StatusCancelled, 500, 10),
		appt(3, 10, models.StatusCompleted, 200, 15),
		{StartTime: time.Date(2025, 5, 31, 10, 0, 0, 0, time.UTC), Status: models.StatusCompleted, TotalPrice: 999, CommissionRate: 50},
	}

	s := SummarizeCommission(appts, now)
	assert.Equal(t, 150.0, s.TodayRevenue)
	assert.InDelta(t, 20.0, s.TodayCommission, 1e-9)
	assert.Equal(t, 350.0, s.MonthRevenue)
	assert.InDelta(t, 50.0, s.MonthCommission, 1e-9)
	assert.Equal(t, 3, s.MonthCompleted)
}

func TestSummarizeCommission_Empty(t *testing.T) {
	assert.Equal(t, CommissionSummary{}, SummarizeCommission(nil, time.Now()))
}
