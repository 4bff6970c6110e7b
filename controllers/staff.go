package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"enorae-backend/config"
	"enorae-backend/models"
	"enorae-backend/services"
	"enorae-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateStaffInput struct {
	Email          string  `json:"email" binding:"required,email"`
	Name           string  `json:"name" binding:"required"`
	Phone          string  `json:"phone"`
	Password       string  `json:"password" binding:"required,min=8"`
	Role           string  `json:"role"`
	Title          string  `json:"title"`
	CommissionRate float64 `json:"commissionRate" binding:"min=0,max=100"`
}

type UpdateStaffInput struct {
	Name           *string  `json:"name"`
	Phone          *string  `json:"phone"`
	Role           *string  `json:"role"`
	Title          *string  `json:"title"`
	CommissionRate *float64 `json:"commissionRate" binding:"omitempty,min=0,max=100"`
	IsActive       *bool    `json:"isActive"`
}

type TimeOffInput struct {
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" binding:"max=500"`
}

type ReviewTimeOffInput struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
	Note   string `json:"note" binding:"max=500"`
}

// assignableStaffRole reports whether a manager may give role to a staff
// member. Ownership is never handed out here.
func assignableStaffRole(role string) bool {
	switch role {
	case utils.RoleSalonManager, utils.RoleSeniorStaff, utils.RoleStaff, utils.RoleJuniorStaff:
		return true
	}
	return false
}

func staffPayload(u *models.User) gin.H {
	return gin.H{
		"id":             u.ID,
		"email":          u.Email,
		"name":           u.Name,
		"phone":          u.Phone,
		"role":           u.Role,
		"title":          u.Title,
		"commissionRate": u.CommissionRate,
		"isActive":       u.IsActive,
		"lastLogin":      u.LastLogin,
	}
}

// StaffController manages the salon's team and the staff portal.
type StaffController struct {
	Commission *services.CommissionService
}

func (sc *StaffController) ListStaff(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var staff []models.User
	if err := config.DB.Where("salon_id = ? AND role IN ?", salonID, utils.BookableRoles()).
		Order("name").Find(&staff).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve staff")
		return
	}

	out := make([]gin.H, 0, len(staff))
	for i := range staff {
		out = append(out, staffPayload(&staff[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (sc *StaffController) CreateStaff(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var input CreateStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Role == "" {
		input.Role = utils.RoleStaff
	}
	if !assignableStaffRole(input.Role) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid staff role")
		return
	}
	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	email := utils.NormalizeEmail(input.Email)
	var existing models.User
	err := config.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	member := models.User{
		Email:          email,
		Name:           strings.TrimSpace(input.Name),
		Phone:          input.Phone,
		Password:       input.Password,
		Role:           input.Role,
		Title:          input.Title,
		CommissionRate: input.CommissionRate,
		SalonID:        &salonID,
		IsActive:       true,
	}
	if err := config.DB.Create(&member).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create staff member")
		return
	}

	c.JSON(http.StatusCreated, staffPayload(&member))
}

func (sc *StaffController) UpdateStaff(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	staffID, ok := paramUUID(c, "id", "staff")
	if !ok {
		return
	}

	var input UpdateStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var member models.User
	if err := config.DB.Where("salon_id = ? AND id = ? AND role IN ?", salonID, staffID, utils.BookableRoles()).
		First(&member).Error; err != nil {
		respondLookupError(c, err, "Staff member not found")
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		if *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
			return
		}
		updates["phone"] = *input.Phone
	}
	if input.Role != nil && *input.Role != member.Role {
		if member.Role == utils.RoleSalonOwner || member.Role == utils.RoleTenantOwner || !assignableStaffRole(*input.Role) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid staff role")
			return
		}
		updates["role"] = *input.Role
	}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.CommissionRate != nil {
		updates["commission_rate"] = *input.CommissionRate
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, staffPayload(&member))
		return
	}

	if err := config.DB.Model(&member).Updates(updates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update staff member")
		return
	}
	if err := config.DB.First(&member, "id = ?", member.ID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	c.JSON(http.StatusOK, staffPayload(&member))
}

// DeactivateStaff disables a staff account. The row stays so past
// appointments keep their staff member.
func (sc *StaffController) DeactivateStaff(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	staffID, ok := paramUUID(c, "id", "staff")
	if !ok {
		return
	}

	result := config.DB.Model(&models.User{}).
		Where("salon_id = ? AND id = ? AND role IN ?", salonID, staffID,
			[]string{utils.RoleSalonManager, utils.RoleSeniorStaff, utils.RoleStaff, utils.RoleJuniorStaff}).
		Update("is_active", false)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to deactivate staff member")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Staff member not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff member deactivated"})
}

// GetCommission returns the caller's own earnings for today and this month.
func (sc *StaffController) GetCommission(c *gin.Context) {
	userID, ok := userFromContext(c)
	if !ok {
		return
	}

	summary, err := sc.Commission.Summary(c.Request.Context(), userID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to calculate commission")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetMySchedule lists the caller's appointments from today onwards.
func (sc *StaffController) GetMySchedule(c *gin.Context) {
	userID, ok := userFromContext(c)
	if !ok {
		return
	}

	var appts []models.Appointment
	if err := config.DB.Preload("Services").
		Where("staff_id = ? AND start_time >= ? AND status NOT IN ?", userID,
			utils.BeginningOfDay(time.Now()), []string{models.StatusCancelled, models.StatusNoShow}).
		Order("start_time").Limit(100).Find(&appts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve schedule")
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (sc *StaffController) CreateTimeOff(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	userID, ok := userFromContext(c)
	if !ok {
		return
	}

	var input TimeOffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	start, _ := time.Parse("2006-01-02", input.StartDate)
	end, _ := time.Parse("2006-01-02", input.EndDate)
	if end.Before(start) {
		utils.RespondWithError(c, http.StatusBadRequest, "End date must be on or after start date")
		return
	}

	req := models.TimeOffRequest{
		SalonID:   salonID,
		StaffID:   userID,
		StartDate: start,
		EndDate:   end,
		Reason:    strings.TrimSpace(input.Reason),
		Status:    models.TimeOffPending,
	}
	if err := config.DB.Create(&req).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create time-off request")
		return
	}
	c.JSON(http.StatusCreated, req)
}

// ListTimeOff shows staff their own requests; managers see the whole salon.
func (sc *StaffController) ListTimeOff(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	userID, ok := userFromContext(c)
	if !ok {
		return
	}

	q := config.DB.Where("salon_id = ?", salonID)
	if !utils.Can(utils.CurrentRole(c), utils.CapManageSalon) {
		q = q.Where("staff_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var reqs []models.TimeOffRequest
	if err := q.Order("start_date DESC").Find(&reqs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve time-off requests")
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (sc *StaffController) ReviewTimeOff(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	reviewerID, ok := userFromContext(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "time-off request")
	if !ok {
		return
	}

	var input ReviewTimeOffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var req models.TimeOffRequest
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, id).First(&req).Error; err != nil {
		respondLookupError(c, err, "Time-off request not found")
		return
	}
	if req.Status != models.TimeOffPending {
		utils.RespondWithError(c, http.StatusConflict, "Time-off request has already been reviewed")
		return
	}

	now := time.Now()
	req.Status = input.Status
	req.ReviewedByID = &reviewerID
	req.ReviewedAt = &now
	req.ReviewNote = input.Note
	if err := config.DB.Save(&req).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to review time-off request")
		return
	}
	c.JSON(http.StatusOK, req)
}
