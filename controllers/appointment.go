package controllers

import (
	"errors"
	"net/http"
	"time"

	"enorae-backend/booking"
	"enorae-backend/config"
	"enorae-backend/models"
	"enorae-backend/services"
	"enorae-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CancellationNotice is how close to the start a customer may still cancel.
const CancellationNotice = 24 * time.Hour

// AppointmentController serves the customer and back-office appointment views.
type AppointmentController struct {
	Events *services.EventPublisher
	Loc    *time.Location
	Now    func() time.Time
}

func (ac *AppointmentController) now() time.Time {
	if ac.Now != nil {
		return ac.Now()
	}
	return time.Now()
}

// errStatusChanged means the row left the status the caller read before the
// update reached it.
var errStatusChanged = errors.New("appointment status changed concurrently")

const statusChangedMessage = "Appointment status was changed by someone else. Please reload and try again"

// transitionStatus applies updates only while the appointment is still in
// status from.
func transitionStatus(tx *gorm.DB, id uuid.UUID, from string, updates map[string]interface{}) error {
	res := tx.Model(&models.Appointment{}).Where("id = ? AND status = ?", id, from).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errStatusChanged
	}
	return nil
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// checkCustomerCancel decides whether a customer may cancel a. It returns the
// HTTP status and message of the rejection, or 0 when cancelling is allowed.
func checkCustomerCancel(a *models.Appointment, customerID uuid.UUID, now time.Time) (int, string) {
	if a.CustomerID != customerID {
		return http.StatusForbidden, "Not authorized to cancel this appointment"
	}
	if a.Status == models.StatusCancelled {
		return http.StatusBadRequest, "Appointment is already cancelled"
	}
	if a.StartTime.Sub(now) < CancellationNotice {
		return http.StatusBadRequest, "Cannot cancel within 24 hours of appointment. Please contact the salon directly."
	}
	if !models.CanTransition(a.Status, models.StatusCancelled) {
		return http.StatusBadRequest, "This appointment can no longer be cancelled"
	}
	return 0, ""
}

// GetCustomerAppointments lists the caller's own appointments, newest first.
func (ac *AppointmentController) GetCustomerAppointments(c *gin.Context) {
	userID, ok := userFromContext(c)
	if !ok {
		return
	}

	q := config.DB.Preload("Services").Where("customer_id = ?", userID)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var appts []models.Appointment
	if err := q.Order("start_time DESC").Find(&appts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}
	c.JSON(http.StatusOK, appts)
}

// CancelCustomerAppointment lets a customer cancel their own booking.
func (ac *AppointmentController) CancelCustomerAppointment(c *gin.Context) {
	userID, ok := userFromContext(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "appointment")
	if !ok {
		return
	}

	var appt models.Appointment
	if err := config.DB.First(&appt, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Appointment not found")
		return
	}

	now := ac.now()
	if status, msg := checkCustomerCancel(&appt, userID, now); status != 0 {
		utils.RespondWithError(c, status, msg)
		return
	}

	previous := appt.Status
	err := transitionStatus(config.DB, appt.ID, previous, map[string]interface{}{
		"status":        models.StatusCancelled,
		"cancelled_at":  now,
		"updated_by_id": userID,
	})
	if errors.Is(err, errStatusChanged) {
		utils.RespondWithError(c, http.StatusConflict, statusChangedMessage)
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel appointment")
		return
	}
	appt.Status = models.StatusCancelled
	appt.CancelledAt = &now
	ac.Events.StatusChanged(c.Request.Context(), &appt, previous)

	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled"})
}

func parseDateQuery(c *gin.Context, name string, loc *time.Location) (time.Time, bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, false, true
	}
	t, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" date. Use YYYY-MM-DD")
		return time.Time{}, false, false
	}
	return t, true, true
}

// GetAppointments lists the salon's appointments, optionally filtered by
// status, staffId and a from/to date range (to is inclusive).
func (ac *AppointmentController) GetAppointments(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	loc := ac.Loc
	if loc == nil {
		loc = time.UTC
	}

	q := config.DB.Preload("Services").Where("salon_id = ?", salonID)

	if status := c.Query("status"); status != "" {
		if !models.IsKnownStatus(status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status")
			return
		}
		q = q.Where("status = ?", status)
	}
	if raw := c.Query("staffId"); raw != "" {
		staffID, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid staff ID format")
			return
		}
		q = q.Where("staff_id = ?", staffID)
	}

	from, hasFrom, ok := parseDateQuery(c, "from", loc)
	if !ok {
		return
	}
	to, hasTo, ok := parseDateQuery(c, "to", loc)
	if !ok {
		return
	}
	if hasFrom {
		q = q.Where("start_time >= ?", from)
	}
	if hasTo {
		q = q.Where("start_time < ?", to.AddDate(0, 0, 1))
	}

	var appts []models.Appointment
	if err := q.Order("start_time").Find(&appts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}
	c.JSON(http.StatusOK, appts)
}

// UpdateAppointmentStatus moves an appointment along its lifecycle.
func (ac *AppointmentController) UpdateAppointmentStatus(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	userID, ok := userFromContext(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "appointment")
	if !ok {
		return
	}

	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !models.IsKnownStatus(input.Status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid status")
		return
	}

	var appt models.Appointment
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, id).First(&appt).Error; err != nil {
		respondLookupError(c, err, "Appointment not found")
		return
	}

	previous := appt.Status
	if !models.CanTransition(previous, input.Status) {
		utils.RespondWithError(c, http.StatusUnprocessableEntity,
			"Cannot change status from "+previous+" to "+input.Status)
		return
	}

	now := ac.now()
	updates := map[string]interface{}{
		"status":        input.Status,
		"updated_by_id": userID,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		switch input.Status {
		case models.StatusCompleted:
			var staff models.User
			if err := tx.Select("id", "commission_rate").First(&staff, "id = ?", appt.StaffID).Error; err != nil {
				return err
			}
			updates["commission_rate"] = staff.CommissionRate
			appt.CommissionRate = staff.CommissionRate
		case models.StatusCancelled:
			updates["cancelled_at"] = now
			appt.CancelledAt = &now
		}
		if err := transitionStatus(tx, appt.ID, previous, updates); err != nil {
			return err
		}
		if input.Status == models.StatusCompleted {
			_, err := services.ConsumeForAppointment(tx, &appt, userID)
			return err
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, errStatusChanged):
			utils.RespondWithError(c, http.StatusConflict, statusChangedMessage)
		case booking.IsExclusionViolation(err):
			utils.RespondWithError(c, http.StatusConflict, "This staff member is not available at the selected time")
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Staff member not found")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment status")
		}
		return
	}

	appt.Status = input.Status
	ac.Events.StatusChanged(c.Request.Context(), &appt, previous)

	c.JSON(http.StatusOK, appt)
}
