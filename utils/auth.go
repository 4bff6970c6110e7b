// utils/auth.go
package utils

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for new hashes.
var PasswordCost = 12

const TokenCookie = "token"

// Claims is the payload of an access token.
type Claims struct {
	SalonID string `json:"salonId,omitempty"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// TokenTTL reads JWT_EXPIRY_HOURS, defaulting to a day.
func TokenTTL() time.Duration {
	expiryHours := 24
	if env := os.Getenv("JWT_EXPIRY_HOURS"); env != "" {
		if h, err := strconv.Atoi(env); err == nil && h > 0 {
			expiryHours = h
		}
	}
	return time.Duration(expiryHours) * time.Hour
}

func jwtSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET not set")
	}
	return []byte(secret), nil
}

// Generate JWT token. salonID is empty for customers.
func GenerateToken(userID, salonID, role string) (string, error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", err
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SalonID: salonID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL())),
		},
	})
	return token.SignedString(secret)
}

// ParseToken verifies an HS256 token and returns its claims.
func ParseToken(tokenString string) (*Claims, error) {
	secret, err := jwtSecret()
	if err != nil {
		return nil, err
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Auth middleware. Accepts a bearer header or the token cookie.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
			tokenString = tokenString[7:]
		}
		if tokenString == "" {
			if cookie, err := c.Cookie(TokenCookie); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		claims, err := ParseToken(tokenString)
		if err != nil {
			RespondWithError(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set("userId", claims.Subject)
		c.Set("salonId", claims.SalonID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	return contextUUID(c, "userId")
}

// CurrentSalonID returns the salon the authenticated user works for.
func CurrentSalonID(c *gin.Context) (uuid.UUID, bool) {
	return contextUUID(c, "salonId")
}

func CurrentRole(c *gin.Context) string {
	return c.GetString("role")
}

func contextUUID(c *gin.Context, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(key))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
