package controllers

import (
	"net/http"
	"strings"
	"time"

	"enorae-backend/config"
	"enorae-backend/models"
	"enorae-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BlockedTimeInput struct {
	StaffID           *uuid.UUID `json:"staffId"`
	BlockType         string     `json:"blockType" binding:"required"`
	StartTime         time.Time  `json:"startTime" binding:"required"`
	EndTime           time.Time  `json:"endTime" binding:"required"`
	Reason            string     `json:"reason" binding:"max=500"`
	IsRecurring       bool       `json:"isRecurring"`
	RecurrencePattern string     `json:"recurrencePattern"`
}

type UpdateBlockedTimeInput struct {
	BlockType         *string    `json:"blockType"`
	StartTime         *time.Time `json:"startTime"`
	EndTime           *time.Time `json:"endTime"`
	Reason            *string    `json:"reason" binding:"omitempty,max=500"`
	IsRecurring       *bool      `json:"isRecurring"`
	RecurrencePattern *string    `json:"recurrencePattern"`
}

var recurrencePatterns = map[string]bool{"daily": true, "weekly": true, "monthly": true}

// checkBlockedTime returns the user-facing problem with b, or "".
func checkBlockedTime(b *models.BlockedTime) string {
	if !models.IsBlockType(b.BlockType) {
		return "Invalid block type"
	}
	if b.StartTime.IsZero() {
		return "Start time is required"
	}
	if !b.EndTime.After(b.StartTime) {
		return "End time must be after start time"
	}
	if b.IsRecurring && !recurrencePatterns[b.RecurrencePattern] {
		return "Recurring blocks need a daily, weekly or monthly pattern"
	}
	if !b.IsRecurring {
		b.RecurrencePattern = ""
	}
	return ""
}

// staffInSalon answers 404 and returns false unless staffID works at the salon.
func staffInSalon(c *gin.Context, salonID, staffID uuid.UUID) bool {
	var count int64
	if err := config.DB.Model(&models.User{}).
		Where("salon_id = ? AND id = ? AND role IN ?", salonID, staffID, utils.BookableRoles()).
		Count(&count).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return false
	}
	if count == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Staff member not found")
		return false
	}
	return true
}

// ListBlockedTimes lists the salon's blocks, optionally for one staff member
// and overlapping a from/to date range.
func ListBlockedTimes(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	q := config.DB.Where("salon_id = ?", salonID)
	if raw := c.Query("staffId"); raw != "" {
		staffID, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid staff ID format")
			return
		}
		q = q.Where("(staff_id = ? OR staff_id IS NULL)", staffID)
	}

	from, hasFrom, ok := parseDateQuery(c, "from", time.UTC)
	if !ok {
		return
	}
	to, hasTo, ok := parseDateQuery(c, "to", time.UTC)
	if !ok {
		return
	}
	if hasFrom {
		q = q.Where("end_time > ?", from)
	}
	if hasTo {
		q = q.Where("start_time < ?", to.AddDate(0, 0, 1))
	}

	var blocks []models.BlockedTime
	if err := q.Order("start_time").Find(&blocks).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve blocked times")
		return
	}
	c.JSON(http.StatusOK, blocks)
}

func CreateBlockedTime(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	userID, ok := userFromContext(c)
	if !ok {
		return
	}

	var input BlockedTimeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	block := models.BlockedTime{
		SalonID:           salonID,
		StaffID:           input.StaffID,
		BlockType:         input.BlockType,
		StartTime:         input.StartTime,
		EndTime:           input.EndTime,
		Reason:            strings.TrimSpace(input.Reason),
		IsRecurring:       input.IsRecurring,
		RecurrencePattern: input.RecurrencePattern,
		CreatedByID:       userID,
	}
	if msg := checkBlockedTime(&block); msg != "" {
		utils.RespondWithError(c, http.StatusBadRequest, msg)
		return
	}
	if block.StaffID != nil && !staffInSalon(c, salonID, *block.StaffID) {
		return
	}

	if err := config.DB.Create(&block).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create blocked time")
		return
	}
	c.JSON(http.StatusCreated, block)
}

func UpdateBlockedTime(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "blocked time")
	if !ok {
		return
	}

	var input UpdateBlockedTimeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var block models.BlockedTime
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, id).First(&block).Error; err != nil {
		respondLookupError(c, err, "Blocked time not found")
		return
	}

	if input.BlockType != nil {
		block.BlockType = *input.BlockType
	}
	if input.StartTime != nil {
		block.StartTime = *input.StartTime
	}
	if input.EndTime != nil {
		block.EndTime = *input.EndTime
	}
	if input.Reason != nil {
		block.Reason = strings.TrimSpace(*input.Reason)
	}
	if input.IsRecurring != nil {
		block.IsRecurring = *input.IsRecurring
	}
	if input.RecurrencePattern != nil {
		block.RecurrencePattern = *input.RecurrencePattern
	}
	if msg := checkBlockedTime(&block); msg != "" {
		utils.RespondWithError(c, http.StatusBadRequest, msg)
		return
	}

	if err := config.DB.Save(&block).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update blocked time")
		return
	}
	c.JSON(http.StatusOK, block)
}

func DeleteBlockedTime(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "blocked time")
	if !ok {
		return
	}

	result := config.DB.Where("salon_id = ? AND id = ?", salonID, id).Delete(&models.BlockedTime{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete blocked time")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Blocked time not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blocked time deleted"})
}

// GetMyBlockedTimes lists upcoming blocks that apply to the caller: their own
// and the salon-wide ones.
func GetMyBlockedTimes(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	userID, ok := userFromContext(c)
	if !ok {
		return
	}

	var blocks []models.BlockedTime
	if err := config.DB.
		Where("salon_id = ? AND (staff_id = ? OR staff_id IS NULL) AND (end_time > ? OR is_recurring)",
			salonID, userID, time.Now()).
		Order("start_time").Limit(100).Find(&blocks).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve blocked times")
		return
	}
	c.JSON(http.StatusOK, blocks)
}
