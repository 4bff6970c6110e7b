// services/analytics.go
package services

import (
	"math"
	"sort"
	"time"

	"enorae-backend/models"
	"enorae-backend/utils"
)

// DefaultComparisonDays is the length of each side of a period comparison.
const DefaultComparisonDays = 7

// GrowthPercentage is the change from previous to current in percent. Growth
// from zero counts as 100%.
func GrowthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return ((current - previous) / previous) * 100
}

type ComparisonMetric struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Change   float64 `json:"change"`
}

func compare(current, previous float64) ComparisonMetric {
	return ComparisonMetric{Current: current, Previous: previous, Change: GrowthPercentage(current, previous)}
}

type PeriodComparison struct {
	Revenue       ComparisonMetric `json:"revenue"`
	Appointments  ComparisonMetric `json:"appointments"`
	NewCustomers  ComparisonMetric `json:"newCustomers"`
	RetentionRate ComparisonMetric `json:"retentionRate"`
}

type periodStats struct {
	revenue, appointments, newCustomers, returning float64
}

func sumStats(rows []models.DailyMetric) periodStats {
	var s periodStats
	for _, r := range rows {
		s.revenue += r.TotalRevenue
		s.appointments += float64(r.TotalAppointments)
		s.newCustomers += float64(r.NewCustomers)
		s.returning += float64(r.ReturningCustomers)
	}
	return s
}

func (s periodStats) retention() float64 {
	total := s.newCustomers + s.returning
	if total == 0 {
		return 0
	}
	return s.returning / total * 100
}

func sortedByDate(rows []models.DailyMetric) []models.DailyMetric {
	out := make([]models.DailyMetric, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MetricDate.Before(out[j].MetricDate) })
	return out
}

// ComparePeriods splits [since, until) into two halves by calendar date and
// compares the later half against the earlier one. Days without a row count
// as empty. Rows outside the window are ignored.
func ComparePeriods(rows []models.DailyMetric, since, until time.Time) PeriodComparison {
	days := utils.DaysBetween(since, until)
	if days <= 0 || len(rows) == 0 {
		return PeriodComparison{}
	}
	mid := days / 2

	var prevRows, curRows []models.DailyMetric
	for _, r := range rows {
		switch offset := utils.DaysBetween(since, r.MetricDate); {
		case offset < 0 || offset >= days:
		case offset < mid:
			prevRows = append(prevRows, r)
		default:
			curRows = append(curRows, r)
		}
	}

	cur := sumStats(curRows)
	prev := sumStats(prevRows)

	return PeriodComparison{
		Revenue:       compare(cur.revenue, prev.revenue),
		Appointments:  compare(cur.appointments, prev.appointments),
		NewCustomers:  compare(cur.newCustomers, prev.newCustomers),
		RetentionRate: compare(cur.retention(), prev.retention()),
	}
}

type ForecastPoint struct {
	Date     string   `json:"date"`
	Actual   *float64 `json:"actual,omitempty"`
	Forecast float64  `json:"forecast"`
	Baseline float64  `json:"baseline"`
}

type RevenueForecast struct {
	Points          []ForecastPoint `json:"points"`
	AverageRevenue  float64         `json:"averageRevenue"`
	ProjectedGrowth float64         `json:"projectedGrowth"`
}

// ForecastRevenue fits a least-squares line through daily revenue, with x
// the number of days since the first row, and projects it horizon days past
// the last row. Projections never go below 0. The baseline is the mean of the
// rows in the last week of history.
func ForecastRevenue(rows []models.DailyMetric, horizon int) RevenueForecast {
	if len(rows) == 0 {
		return RevenueForecast{Points: []ForecastPoint{}}
	}
	if horizon <= 0 {
		horizon = DefaultComparisonDays
	}
	sorted := sortedByDate(rows)
	first := sorted[0].MetricDate
	last := sorted[len(sorted)-1].MetricDate
	lastX := float64(utils.DaysBetween(first, last))

	n := float64(len(sorted))
	var sumX, sumY, sumX2, sumXY, baseSum, baseCount float64
	for _, r := range sorted {
		x := float64(utils.DaysBetween(first, r.MetricDate))
		sumX += x
		sumY += r.TotalRevenue
		sumX2 += x * x
		sumXY += x * r.TotalRevenue
		if lastX-x < DefaultComparisonDays {
			baseSum += r.TotalRevenue
			baseCount++
		}
	}
	average := sumY / n
	baseline := baseSum / baseCount

	slope := 0.0
	if d := n*sumX2 - sumX*sumX; d != 0 {
		slope = (n*sumXY - sumX*sumY) / d
	}
	intercept := (sumY - slope*sumX) / n

	points := make([]ForecastPoint, 0, len(sorted)+horizon)
	for _, r := range sorted {
		actual := r.TotalRevenue
		points = append(points, ForecastPoint{
			Date:     r.MetricDate.Format("2006-01-02"),
			Actual:   &actual,
			Forecast: actual,
			Baseline: baseline,
		})
	}

	var projected float64
	for i := 1; i <= horizon; i++ {
		predicted := math.Max(intercept+slope*(lastX+float64(i)), 0)
		projected += predicted
		points = append(points, ForecastPoint{
			Date:     last.AddDate(0, 0, i).Format("2006-01-02"),
			Forecast: predicted,
			Baseline: baseline,
		})
	}

	growth := 0.0
	if average != 0 {
		growth = (projected/float64(horizon) - average) / average * 100
	}
	return RevenueForecast{Points: points, AverageRevenue: average, ProjectedGrowth: growth}
}

// DayRange returns [start of day, start of next day) for t in loc.
func DayRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start := utils.BeginningOfDay(t.In(loc))
	return start, start.AddDate(0, 0, 1)
}
