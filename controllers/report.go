// controllers/report.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"enorae-backend/config"
	"enorae-backend/models"
	"enorae-backend/services"
	"enorae-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultReportDays = 30
	maxReportDays     = 365
	forecastHorizon   = 7
)

// ReportController handles all reporting functions
type ReportController struct {
	Loc *time.Location
}

// AnalyticsSummary represents the Analytics data
type AnalyticsSummary struct {
	CurrentMonthRevenue   float64          `json:"currentMonthRevenue"`
	MonthGrowth           float64          `json:"monthGrowth"`
	CurrentQuarterRevenue float64          `json:"currentQuarterRevenue"`
	QuarterGrowth         float64          `json:"quarterGrowth"`
	CurrentYearRevenue    float64          `json:"currentYearRevenue"`
	YearGrowth            float64          `json:"yearGrowth"`
	TopServices           []ServiceSummary `json:"topServices"`
	TopStaff              []StaffSummary   `json:"topStaff"`
	QuickStats            QuickStatistics  `json:"quickStats"`
}

type ServiceSummary struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type StaffSummary struct {
	Name         string  `json:"name"`
	Appointments int     `json:"appointments"`
	Revenue      float64 `json:"revenue"`
}

type QuickStatistics struct {
	TotalCustomers    int     `json:"totalCustomers"`
	TotalAppointments int     `json:"totalAppointments"`
	AvgMonthlyVisits  float64 `json:"avgMonthlyVisits"`
	AvgOrderValue     float64 `json:"avgOrderValue"`
}

// revenuePeriod is a half-open [Start, End) range with the one before it.
type revenuePeriod struct {
	Start, End         time.Time
	PrevStart, PrevEnd time.Time
}

func monthPeriod(now time.Time) revenuePeriod {
	start := utils.BeginningOfMonth(now)
	return revenuePeriod{start, start.AddDate(0, 1, 0), start.AddDate(0, -1, 0), start}
}

func quarterPeriod(now time.Time) revenuePeriod {
	start := utils.BeginningOfQuarter(now)
	return revenuePeriod{start, start.AddDate(0, 3, 0), start.AddDate(0, -3, 0), start}
}

func yearPeriod(now time.Time) revenuePeriod {
	start := utils.BeginningOfYear(now)
	return revenuePeriod{start, start.AddDate(1, 0, 0), start.AddDate(-1, 0, 0), start}
}

func (rc *ReportController) location() *time.Location {
	if rc.Loc == nil {
		return time.UTC
	}
	return rc.Loc
}

// GetReportAnalytics returns revenue by period with growth, top services, top staff and quick stats.
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	now := time.Now().In(rc.location())
	var summary AnalyticsSummary

	periods := []struct {
		period  revenuePeriod
		current *float64
		growth  *float64
	}{
		{monthPeriod(now), &summary.CurrentMonthRevenue, &summary.MonthGrowth},
		{quarterPeriod(now), &summary.CurrentQuarterRevenue, &summary.QuarterGrowth},
		{yearPeriod(now), &summary.CurrentYearRevenue, &summary.YearGrowth},
	}
	for _, p := range periods {
		current, err := rc.getRevenue(salonID, p.period.Start, p.period.End)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get revenue")
			return
		}
		previous, err := rc.getRevenue(salonID, p.period.PrevStart, p.period.PrevEnd)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get revenue")
			return
		}
		*p.current = current
		*p.growth = services.GrowthPercentage(current, previous)
	}

	month := monthPeriod(now)
	var err error
	if summary.TopServices, err = rc.getTopServices(salonID, month.Start, month.End, 4); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top services")
		return
	}
	if summary.TopStaff, err = rc.getTopStaff(salonID, month.Start, month.End, 4); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top staff")
		return
	}
	if summary.QuickStats, err = rc.getQuickStatistics(salonID); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quick statistics")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// reportDays reads ?days=, defaulting to 30 and capped at a year.
func reportDays(c *gin.Context) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return defaultReportDays, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 2 || days > maxReportDays {
		utils.RespondWithError(c, http.StatusBadRequest, "days must be between 2 and 365")
		return 0, false
	}
	return days, true
}

// GetDailyMetrics returns the rolled-up daily rows for the last N days, a
// comparison of the two halves of that window and a short revenue forecast.
func (rc *ReportController) GetDailyMetrics(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	days, ok := reportDays(c)
	if !ok {
		return
	}

	today := utils.BeginningOfDay(time.Now().In(rc.location()))
	since := today.AddDate(0, 0, -days)

	var rows []models.DailyMetric
	if err := config.DB.Where("salon_id = ? AND metric_date >= ? AND metric_date < ?", salonID, since, today).
		Order("metric_date").Find(&rows).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get daily metrics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"days":       days,
		"metrics":    rows,
		"comparison": services.ComparePeriods(rows, since, today),
		"forecast":   services.ForecastRevenue(rows, forecastHorizon),
	})
}

// Helper functions for reports

func (rc *ReportController) getRevenue(salonID uuid.UUID, start, end time.Time) (float64, error) {
	var total float64
	err := config.DB.Model(&models.Appointment{}).
		Where("salon_id = ? AND status = ? AND start_time >= ? AND start_time < ?",
			salonID, models.StatusCompleted, start, end).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	return total, err
}

func (rc *ReportController) getTopServices(salonID uuid.UUID, start, end time.Time, limit int) ([]ServiceSummary, error) {
	summaries := []ServiceSummary{}
	err := config.DB.Table("appointment_services").
		Select("services.name, COUNT(*) as count, COALESCE(SUM(services.price), 0) as revenue").
		Joins("JOIN appointments ON appointments.id = appointment_services.appointment_id").
		Joins("JOIN services ON services.id = appointment_services.service_id").
		Where("appointments.salon_id = ? AND appointments.status = ? AND appointments.start_time >= ? AND appointments.start_time < ?",
			salonID, models.StatusCompleted, start, end).
		Group("services.name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&summaries).Error
	return summaries, err
}

func (rc *ReportController) getTopStaff(salonID uuid.UUID, start, end time.Time, limit int) ([]StaffSummary, error) {
	staff := []StaffSummary{}
	err := config.DB.Table("appointments").
		Select("users.name, COUNT(appointments.id) as appointments, COALESCE(SUM(appointments.total_price), 0) as revenue").
		Joins("JOIN users ON users.id = appointments.staff_id").
		Where("appointments.salon_id = ? AND appointments.status = ? AND appointments.start_time >= ? AND appointments.start_time < ?",
			salonID, models.StatusCompleted, start, end).
		Group("users.name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&staff).Error
	return staff, err
}

func (rc *ReportController) getQuickStatistics(salonID uuid.UUID) (QuickStatistics, error) {
	var stats QuickStatistics

	var totalCustomers int64
	if err := config.DB.Model(&models.Appointment{}).
		Where("salon_id = ?", salonID).
		Distinct("customer_id").
		Count(&totalCustomers).Error; err != nil {
		return stats, err
	}
	stats.TotalCustomers = int(totalCustomers)

	var completed struct {
		Count   int64
		Revenue float64
	}
	if err := config.DB.Model(&models.Appointment{}).
		Select("COUNT(*) as count, COALESCE(SUM(total_price), 0) as revenue").
		Where("salon_id = ? AND status = ?", salonID, models.StatusCompleted).
		Scan(&completed).Error; err != nil {
		return stats, err
	}
	stats.TotalAppointments = int(completed.Count)

	var avgVisits *float64
	err := config.DB.Raw(`
		SELECT AVG(visits) FROM (
			SELECT COUNT(*) as visits
			FROM appointments
			WHERE salon_id = ? AND status = ?
			GROUP BY DATE_TRUNC('month', start_time)
		) monthly_visits
	`, salonID, models.StatusCompleted).Scan(&avgVisits).Error
	if err != nil {
		return stats, err
	}
	if avgVisits != nil {
		stats.AvgMonthlyVisits = *avgVisits
	}

	if completed.Count > 0 {
		stats.AvgOrderValue = completed.Revenue / float64(completed.Count)
	}
	return stats, nil
}
