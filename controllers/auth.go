package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"enorae-backend/config"
	"enorae-backend/models"
	"enorae-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`

	// A salon name turns the registration into a business account.
	SalonName    string       `json:"salonName"`
	SalonAddress string       `json:"salonAddress"`
	WorkingHours models.JSONB `json:"workingHours"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // Can be email or phone
	Password   string `json:"password" binding:"required"`
}

func userPayload(u *models.User) gin.H {
	return gin.H{
		"id":      u.ID,
		"email":   u.Email,
		"name":    u.Name,
		"phone":   u.Phone,
		"role":    u.Role,
		"salonId": u.SalonID,
	}
}

func salonIDString(u *models.User) string {
	if u.SalonID == nil {
		return ""
	}
	return u.SalonID.String()
}

func setTokenCookie(c *gin.Context, token string) {
	c.SetCookie(utils.TokenCookie, token, int(utils.TokenTTL().Seconds()), "/", "", true, true)
}

// controllers/auth.go
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	input.Email = utils.NormalizeEmail(input.Email)
	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	var existing models.User
	q := config.DB.Where("email = ?", input.Email)
	if input.Phone != "" {
		q = q.Or("phone = ?", input.Phone)
	}
	err := q.First(&existing).Error
	if err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email or phone already registered")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	newUser := models.User{
		Email:    input.Email,
		Phone:    input.Phone,
		Name:     strings.TrimSpace(input.Name),
		Password: input.Password, // Will be hashed in BeforeCreate hook
		Role:     utils.RoleCustomer,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if input.SalonName == "" {
			return tx.Create(&newUser).Error
		}

		salon := models.Salon{
			Name:         strings.TrimSpace(input.SalonName),
			Address:      input.SalonAddress,
			Phone:        input.Phone,
			Email:        input.Email,
			WorkingHours: input.WorkingHours,
			IsActive:     true,
		}
		if salon.WorkingHours == nil {
			salon.WorkingHours = models.DefaultWorkingHours()
		}
		if err := tx.Create(&salon).Error; err != nil {
			return err
		}

		newUser.Role = utils.RoleSalonOwner
		newUser.SalonID = &salon.ID
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		return tx.Model(&salon).Update("owner_id", newUser.ID).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := utils.GenerateToken(newUser.ID.String(), salonIDString(&newUser), newUser.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	setTokenCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user":    userPayload(&newUser),
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	identifier := strings.TrimSpace(input.Identifier)
	if strings.Contains(identifier, "@") {
		identifier = utils.NormalizeEmail(identifier)
	}

	var user models.User
	err := config.DB.Where("email = ? OR phone = ?", identifier, identifier).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.IsActive {
		utils.RespondWithError(c, http.StatusForbidden, "Account is disabled")
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), salonIDString(&user), user.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	now := time.Now()
	config.DB.Model(&user).Update("last_login", &now)

	setTokenCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userPayload(&user),
	})
}

func Logout(c *gin.Context) {
	c.SetCookie(utils.TokenCookie, "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func Me(c *gin.Context) {
	userID, ok := userFromContext(c)
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	payload := userPayload(&user)
	if user.SalonID != nil {
		var salon models.Salon
		if err := config.DB.Select("id", "name", "is_active").First(&salon, "id = ?", *user.SalonID).Error; err == nil {
			payload["salonName"] = salon.Name
			payload["salonActive"] = salon.IsActive
		}
	}
	c.JSON(http.StatusOK, gin.H{"user": payload})
}
