package controllers

import (
	"fmt"
	"net/http"
	"time"

	"enorae-backend/config"
	"enorae-backend/models"
	"enorae-backend/services"
	"enorae-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardOverview struct {
	TodayAppointments []DashboardAppointment `json:"todayAppointments"`
	UpcomingCount     int64                  `json:"upcomingCount"`
	PendingCount      int64                  `json:"pendingCount"`
	MonthlyRevenue    float64                `json:"monthlyRevenue"`
	RecentBookings    []RecentBooking        `json:"recentBookings"`
}

type DashboardAppointment struct {
	ID               string    `json:"id"`
	CustomerName     string    `json:"customerName"`
	StaffName        string    `json:"staffName"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	Status           string    `json:"status"`
	ConfirmationCode string    `json:"confirmationCode"`
}

type RecentBooking struct {
	CustomerName string `json:"customerName"`
	Service      string `json:"service"`
	BookedAt     string `json:"bookedAt"` // e.g. "Today", "Yesterday"
}

// bookedLabel renders how long ago a booking was made.
func bookedLabel(created, now time.Time) string {
	switch days := utils.DaysBetween(created, now); days {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// DashboardController serves the salon's landing page numbers.
type DashboardController struct {
	Loc *time.Location
}

func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	loc := dc.Loc
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)
	dayStart, dayEnd := services.DayRange(now, loc)

	overview := DashboardOverview{
		TodayAppointments: []DashboardAppointment{},
		RecentBookings:    []RecentBooking{},
	}

	err := config.DB.Table("appointments").
		Select("appointments.id, customers.name as customer_name, staff.name as staff_name, appointments.start_time, appointments.end_time, appointments.status, appointments.confirmation_code").
		Joins("JOIN users customers ON customers.id = appointments.customer_id").
		Joins("JOIN users staff ON staff.id = appointments.staff_id").
		Where("appointments.salon_id = ? AND appointments.start_time >= ? AND appointments.start_time < ?", salonID, dayStart, dayEnd).
		Order("appointments.start_time").
		Scan(&overview.TodayAppointments).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load today's appointments")
		return
	}

	if err := config.DB.Model(&models.Appointment{}).
		Where("salon_id = ? AND start_time >= ? AND status IN ?", salonID, now,
			[]string{models.StatusPending, models.StatusConfirmed}).
		Count(&overview.UpcomingCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if err := config.DB.Model(&models.Appointment{}).
		Where("salon_id = ? AND status = ?", salonID, models.StatusPending).
		Count(&overview.PendingCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if err := config.DB.Model(&models.Appointment{}).
		Where("salon_id = ? AND status = ? AND start_time >= ?", salonID, models.StatusCompleted, utils.BeginningOfMonth(now)).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&overview.MonthlyRevenue).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	type bookingRow struct {
		CustomerName string
		ServiceName  string
		CreatedAt    time.Time
	}
	var recent []bookingRow
	err = config.DB.Table("appointments").
		Select("customers.name as customer_name, services.name as service_name, appointments.created_at").
		Joins("JOIN users customers ON customers.id = appointments.customer_id").
		Joins("LEFT JOIN appointment_services ON appointment_services.appointment_id = appointments.id").
		Joins("LEFT JOIN services ON services.id = appointment_services.service_id").
		Where("appointments.salon_id = ?", salonID).
		Order("appointments.created_at DESC").
		Limit(5).
		Scan(&recent).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load recent bookings")
		return
	}
	for _, r := range recent {
		overview.RecentBookings = append(overview.RecentBookings, RecentBooking{
			CustomerName: r.CustomerName,
			Service:      r.ServiceName,
			BookedAt:     bookedLabel(r.CreatedAt.In(loc), now),
		})
	}

	c.JSON(http.StatusOK, overview)
}
