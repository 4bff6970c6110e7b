// services/commission.go
package services

import (
	"context"
	"time"

	"enorae-backend/models"
	"enorae-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommissionSummary struct {
	TodayRevenue    float64 `json:"todayRevenue"`
	TodayCommission float64 `json:"todayCommission"`
	MonthRevenue    float64 `json:"monthRevenue"`
	MonthCommission float64 `json:"monthCommission"`
	MonthCompleted  int     `json:"monthCompleted"`
}

// SummarizeCommission totals completed appointments for the day and the
// month that contain now. Commission is total_price * commission_rate / 100.
func SummarizeCommission(appts []models.Appointment, now time.Time) CommissionSummary {
	dayStart := utils.BeginningOfDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1)
	monthStart := utils.BeginningOfMonth(now)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var s CommissionSummary
	for _, a := range appts {
		if a.Status != models.StatusCompleted {
			continue
		}
		commission := a.TotalPrice * a.CommissionRate / 100
		if !a.StartTime.Before(monthStart) && a.StartTime.Before(monthEnd) {
			s.MonthRevenue += a.TotalPrice
			s.MonthCommission += commission
			s.MonthCompleted++
		}
		if !a.StartTime.Before(dayStart) && a.StartTime.Before(dayEnd) {
			s.TodayRevenue += a.TotalPrice
			s.TodayCommission += commission
		}
	}
	return s
}

// CommissionService loads a staff member's completed work.
type CommissionService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewCommissionService(db *gorm.DB, loc *time.Location) *CommissionService {
	if loc == nil {
		loc = time.UTC
	}
	return &CommissionService{db: db, loc: loc, now: time.Now}
}

func (s *CommissionService) Summary(ctx context.Context, staffID uuid.UUID) (CommissionSummary, error) {
	now := s.now().In(s.loc)
	monthStart := utils.BeginningOfMonth(now)

	var appts []models.Appointment
	err := s.db.WithContext(ctx).
		Select("id", "status", "start_time", "total_price", "commission_rate").
		Where("staff_id = ? AND status = ? AND start_time >= ? AND start_time < ?",
			staffID, models.StatusCompleted, monthStart, monthStart.AddDate(0, 1, 0)).
		Find(&appts).Error
	if err != nil {
		return CommissionSummary{}, err
	}
	return SummarizeCommission(appts, now), nil
}
