package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"enorae-backend/config"
	"enorae-backend/models"
	"enorae-backend/utils"

	"github.com/gin-gonic/gin"
)

type ModerationInput struct {
	IsActive *bool  `json:"isActive" binding:"required"`
	Reason   string `json:"reason" binding:"max=500"`
}

// pageParams reads ?limit= and ?offset=, clamping limit to [1, 200].
func pageParams(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListSalons lists every salon on the platform.
func ListSalons(c *gin.Context) {
	limit, offset := pageParams(c)

	q := config.DB.Model(&models.Salon{})
	if active := c.Query("active"); active != "" {
		q = q.Where("is_active = ?", active == "true")
	}
	if search := c.Query("q"); search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var salons []models.Salon
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&salons).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve salons")
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total, "salons": salons})
}

// ModerateSalon activates or suspends a salon. Suspended salons stop
// accepting bookings.
func ModerateSalon(c *gin.Context) {
	salonID, ok := paramUUID(c, "id", "salon")
	if !ok {
		return
	}

	var input ModerationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result := config.DB.Model(&models.Salon{}).Where("id = ?", salonID).Update("is_active", *input.IsActive)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update salon")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Salon not found")
		return
	}

	adminID, _ := utils.CurrentUserID(c)
	slog.InfoContext(c.Request.Context(), "salon moderated",
		"salonId", salonID, "isActive", *input.IsActive, "adminId", adminID, "reason", input.Reason)

	c.JSON(http.StatusOK, gin.H{"id": salonID, "isActive": *input.IsActive})
}

// ListRateLimitViolations shows recorded rate-limit hits, newest first.
func ListRateLimitViolations(c *gin.Context) {
	limit, offset := pageParams(c)

	q := config.DB.Model(&models.RateLimitViolation{})
	if route := c.Query("route"); route != "" {
		q = q.Where("route = ?", route)
	}

	var violations []models.RateLimitViolation
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&violations).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve rate limit violations")
		return
	}
	c.JSON(http.StatusOK, violations)
}
