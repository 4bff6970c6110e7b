// services/metrics_rollup.go
package services

import (
	"context"
	"log/slog"
	"time"

	"enorae-backend/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MetricsRollup writes one daily_metrics row per salon for each finished day.
type MetricsRollup struct {
	db     *gorm.DB
	logger *slog.Logger
	loc    *time.Location
	cron   *cron.Cron
	now    func() time.Time
}

func NewMetricsRollup(db *gorm.DB, logger *slog.Logger, loc *time.Location) *MetricsRollup {
	if loc == nil {
		loc = time.UTC
	}
	return &MetricsRollup{
		db:     db,
		logger: logger,
		loc:    loc,
		cron:   cron.New(cron.WithLocation(loc)),
		now:    time.Now,
	}
}

// StartScheduler runs the rollup for the previous day on the given cron schedule.
func (s *MetricsRollup) StartScheduler(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		day := s.now().In(s.loc).AddDate(0, 0, -1)
		if _, err := s.RunFor(context.Background(), day); err != nil {
			s.logger.Error("daily metrics rollup failed", "day", day.Format("2006-01-02"), "error", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("metrics scheduler started", "schedule", schedule)
	return nil
}

// Stop halts the scheduler and waits for a running rollup.
func (s *MetricsRollup) Stop() {
	<-s.cron.Stop().Done()
}

type dailyAggregate struct {
	SalonID               uuid.UUID
	TotalAppointments     int
	CompletedAppointments int
	CancelledAppointments int
	NoShowAppointments    int
	TotalRevenue          float64
	NewCustomers          int
	ReturningCustomers    int
}

// Customers are new on the day of their first appointment at a salon and
// returning on any later day. Cancelled appointments do not count as visits.
const dailyAggregateSQL = `
SELECT a.salon_id,
	COUNT(*) AS total_appointments,
	COUNT(*) FILTER (WHERE a.status = 'completed') AS completed_appointments,
	COUNT(*) FILTER (WHERE a.status = 'cancelled') AS cancelled_appointments,
	COUNT(*) FILTER (WHERE a.status = 'no_show') AS no_show_appointments,
	COALESCE(SUM(a.total_price) FILTER (WHERE a.status = 'completed'), 0) AS total_revenue,
	COUNT(DISTINCT a.customer_id) FILTER (WHERE a.status <> 'cancelled' AND NOT EXISTS (
		SELECT 1 FROM appointments p
		WHERE p.salon_id = a.salon_id AND p.customer_id = a.customer_id
			AND p.status <> 'cancelled' AND p.start_time < @start)) AS new_customers,
	COUNT(DISTINCT a.customer_id) FILTER (WHERE a.status <> 'cancelled' AND EXISTS (
		SELECT 1 FROM appointments p
		WHERE p.salon_id = a.salon_id AND p.customer_id = a.customer_id
			AND p.status <> 'cancelled' AND p.start_time < @start)) AS returning_customers
FROM appointments a
WHERE a.start_time >= @start AND a.start_time < @end
GROUP BY a.salon_id`

// RunFor aggregates the calendar day containing day and upserts the rows.
func (s *MetricsRollup) RunFor(ctx context.Context, day time.Time) (int, error) {
	start, end := DayRange(day, s.loc)

	var aggs []dailyAggregate
	err := s.db.WithContext(ctx).
		Raw(dailyAggregateSQL, map[string]interface{}{"start": start, "end": end}).
		Scan(&aggs).Error
	if err != nil {
		return 0, err
	}
	if len(aggs) == 0 {
		s.logger.Info("daily metrics rollup: no appointments", "day", start.Format("2006-01-02"))
		return 0, nil
	}

	rows := make([]models.DailyMetric, 0, len(aggs))
	for _, a := range aggs {
		rows = append(rows, models.DailyMetric{
			SalonID:               a.SalonID,
			MetricDate:            start,
			TotalAppointments:     a.TotalAppointments,
			CompletedAppointments: a.CompletedAppointments,
			CancelledAppointments: a.CancelledAppointments,
			NoShowAppointments:    a.NoShowAppointments,
			TotalRevenue:          a.TotalRevenue,
			NewCustomers:          a.NewCustomers,
			ReturningCustomers:    a.ReturningCustomers,
		})
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "salon_id"}, {Name: "metric_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_appointments", "completed_appointments", "cancelled_appointments",
			"no_show_appointments", "total_revenue", "new_customers", "returning_customers",
			"updated_at",
		}),
	}).Create(&rows).Error
	if err != nil {
		return 0, err
	}

	s.logger.Info("daily metrics rollup completed", "day", start.Format("2006-01-02"), "salons", len(rows))
	return len(rows), nil
}
