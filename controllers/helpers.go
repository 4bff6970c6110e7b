package controllers

import (
	"errors"
	"net/http"

	"enorae-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// salonFromContext responds with 401 and returns false when the caller has no salon.
func salonFromContext(c *gin.Context) (uuid.UUID, bool) {
	salonID, ok := utils.CurrentSalonID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Salon ID not found in context")
		return uuid.Nil, false
	}
	return salonID, true
}

func userFromContext(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	return userID, true
}

func paramUUID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+label+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// respondLookupError answers 404 for a missing row and 500 otherwise.
func respondLookupError(c *gin.Context, err error, notFound string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, notFound)
		return
	}
	utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
}
