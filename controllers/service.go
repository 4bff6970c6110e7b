// controllers/service.go
package controllers

import (
	"net/http"

	"enorae-backend/config"
	"enorae-backend/models"
	"enorae-backend/utils"

	"github.com/gin-gonic/gin"
)

// CreateServiceInput defines the expected JSON structure for creating a service
type CreateServiceInput struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" binding:"min=0"`
	DurationMinutes *int    `json:"durationMinutes" binding:"omitempty,min=5,max=720"`
	BufferMinutes   *int    `json:"bufferMinutes" binding:"omitempty,min=0,max=240"`
	Category        string  `json:"category"`
}

// UpdateServiceInput defines the expected JSON structure for updating a service
type UpdateServiceInput struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	Price           *float64 `json:"price" binding:"omitempty,min=0"`
	DurationMinutes *int     `json:"durationMinutes" binding:"omitempty,min=5,max=720"`
	BufferMinutes   *int     `json:"bufferMinutes" binding:"omitempty,min=0,max=240"`
	Category        *string  `json:"category"`
	IsActive        *bool    `json:"isActive"`
}

// CreateService creates a new service for the salon
func CreateService(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	service := models.Service{
		SalonID:         salonID,
		Name:            input.Name,
		Description:     input.Description,
		Price:           input.Price,
		DurationMinutes: input.DurationMinutes,
		BufferMinutes:   input.BufferMinutes,
		Category:        input.Category,
		IsActive:        true,
	}
	if service.Category == "" {
		service.Category = "General"
	}

	if err := config.DB.Create(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	c.JSON(http.StatusCreated, service)
}

// GetServices retrieves all services for the salon
func GetServices(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	q := config.DB.Where("salon_id = ?", salonID)
	if c.Query("active") == "true" {
		q = q.Where("is_active = ?", true)
	}

	var services []models.Service
	if err := q.Order("category, name").Find(&services).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, services)
}

// GetSalonCatalog lists a bookable salon's active services and staff for the booking form.
func GetSalonCatalog(c *gin.Context) {
	salonID, ok := paramUUID(c, "id", "salon")
	if !ok {
		return
	}

	var salon models.Salon
	if err := config.DB.Where("id = ? AND is_active = ?", salonID, true).First(&salon).Error; err != nil {
		respondLookupError(c, err, "Salon not found")
		return
	}

	var services []models.Service
	if err := config.DB.Where("salon_id = ? AND is_active = ?", salonID, true).
		Order("category, name").Find(&services).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	var staff []models.User
	if err := config.DB.Select("id", "name", "title", "role").
		Where("salon_id = ? AND is_active = ? AND role IN ?", salonID, true, utils.BookableRoles()).
		Order("name").Find(&staff).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve staff")
		return
	}

	staffOut := make([]gin.H, 0, len(staff))
	for _, s := range staff {
		staffOut = append(staffOut, gin.H{"id": s.ID, "name": s.Name, "title": s.Title})
	}

	c.JSON(http.StatusOK, gin.H{
		"salon":    gin.H{"id": salon.ID, "name": salon.Name, "address": salon.Address, "workingHours": salon.WorkingHours},
		"services": services,
		"staff":    staffOut,
	})
}

// GetService retrieves a specific service by ID
func GetService(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	serviceID, ok := paramUUID(c, "id", "service")
	if !ok {
		return
	}

	var service models.Service
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, serviceID).First(&service).Error; err != nil {
		respondLookupError(c, err, "Service not found")
		return
	}

	c.JSON(http.StatusOK, service)
}

// UpdateService updates an existing service
func UpdateService(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	serviceID, ok := paramUUID(c, "id", "service")
	if !ok {
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.Service
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, serviceID).First(&service).Error; err != nil {
		respondLookupError(c, err, "Service not found")
		return
	}

	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.Price != nil {
		service.Price = *input.Price
	}
	if input.DurationMinutes != nil {
		service.DurationMinutes = input.DurationMinutes
	}
	if input.BufferMinutes != nil {
		service.BufferMinutes = input.BufferMinutes
	}
	if input.Category != nil {
		service.Category = *input.Category
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}

	c.JSON(http.StatusOK, service)
}

// DeleteService soft deletes a service
func DeleteService(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	serviceID, ok := paramUUID(c, "id", "service")
	if !ok {
		return
	}

	result := config.DB.Where("salon_id = ? AND id = ?", salonID, serviceID).Delete(&models.Service{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete service")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
