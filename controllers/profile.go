package controllers

import (
	"net/http"
	"regexp"

	"enorae-backend/config"
	"enorae-backend/models"
	"enorae-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateProfileInput struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
}

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// validWorkingHours accepts {"monday": {"open": "09:00", "close": "18:00", "closed": false}, ...}.
// Open days must close after they open.
func validWorkingHours(hours models.JSONB) bool {
	for day, raw := range hours {
		known := false
		for _, d := range weekdays {
			if d == day {
				known = true
				break
			}
		}
		if !known {
			return false
		}
		entry, ok := raw.(map[string]interface{})
		if !ok {
			return false
		}
		if closed, _ := entry["closed"].(bool); closed {
			continue
		}
		open, _ := entry["open"].(string)
		close, _ := entry["close"].(string)
		if !clockPattern.MatchString(open) || !clockPattern.MatchString(close) || close <= open {
			return false
		}
	}
	return true
}

func loadSalon(c *gin.Context) (*models.Salon, bool) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return nil, false
	}
	var salon models.Salon
	if err := config.DB.First(&salon, "id = ?", salonID).Error; err != nil {
		respondLookupError(c, err, "Salon not found")
		return nil, false
	}
	return &salon, true
}

func GetProfile(c *gin.Context) {
	salon, ok := loadSalon(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                  salon.ID,
		"name":                salon.Name,
		"address":             salon.Address,
		"phone":               salon.Phone,
		"email":               salon.Email,
		"workingHours":        salon.WorkingHours,
		"isAcceptingBookings": salon.IsActive,
	})
}

func UpdateProfile(c *gin.Context) {
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	salon, ok := loadSalon(c)
	if !ok {
		return
	}

	if input.Name != nil {
		if *input.Name == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Salon name is required")
			return
		}
		salon.Name = *input.Name
	}
	if input.Address != nil {
		salon.Address = *input.Address
	}
	if input.Phone != nil {
		if *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
			return
		}
		salon.Phone = *input.Phone
	}
	if input.Email != nil {
		salon.Email = utils.NormalizeEmail(*input.Email)
	}

	if err := config.DB.Save(salon).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

func UpdateWorkingHours(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var input struct {
		WorkingHours models.JSONB `json:"workingHours" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}
	if !validWorkingHours(input.WorkingHours) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid working hours")
		return
	}

	if err := config.DB.Model(&models.Salon{}).Where("id = ?", salonID).
		Update("working_hours", input.WorkingHours).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update working hours")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Working hours updated"})
}

// UpdateBookingAvailability flips whether the salon takes new bookings.
func UpdateBookingAvailability(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var input struct {
		IsAcceptingBookings *bool `json:"isAcceptingBookings" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := config.DB.Model(&models.Salon{}).Where("id = ?", salonID).
		Update("is_active", *input.IsAcceptingBookings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update booking availability")
		return
	}

	c.JSON(http.StatusOK, gin.H{"isAcceptingBookings": *input.IsAcceptingBookings})
}
