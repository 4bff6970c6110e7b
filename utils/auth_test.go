package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/whoami", func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"userId": id.String(), "role": CurrentRole(c)})
	})
	r.GET("/manage", RequireCapability(CapManageSalon), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestPasswordHash(t *testing.T) {
	PasswordCost = bcrypt.MinCost

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestGenerateAndParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	userID := uuid.NewString()
	salonID := uuid.NewString()

	token, err := GenerateToken(userID, salonID, RoleSalonOwner)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, salonID, claims.SalonID)
	assert.Equal(t, RoleSalonOwner, claims.Role)

	t.Setenv("JWT_SECRET", "other-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestGenerateToken_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := GenerateToken(uuid.NewString(), "", RoleCustomer)
	assert.Error(t, err)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": uuid.NewString()})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(signed)
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := setupAuthRouter()
	userID := uuid.NewString()
	token, err := GenerateToken(userID, "", RoleCustomer)
	require.NoError(t, err)

	tests := []struct {
		name       string
		prepare    func(*http.Request)
		wantStatus int
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: token}) }, http.StatusOK},
		{"missing", func(*http.Request) {}, http.StatusUnauthorized},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tt.prepare(req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), userID)
				assert.Contains(t, w.Body.String(), RoleCustomer)
			}
		})
	}
}

func TestRequireCapability(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := setupAuthRouter()

	tests := []struct {
		role       string
		wantStatus int
	}{
		{RoleSalonOwner, http.StatusNoContent},
		{RoleSalonManager, http.StatusNoContent},
		{RoleTenantOwner, http.StatusNoContent},
		{RoleStaff, http.StatusForbidden},
		{RoleCustomer, http.StatusForbidden},
		{RoleGuest, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			token, err := GenerateToken(uuid.NewString(), uuid.NewString(), tt.role)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/manage", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestCapabilityMatrix(t *testing.T) {
	assert.True(t, Can(RoleCustomer, CapBook))
	assert.True(t, Can(RoleVIPCustomer, CapCustomerPortal))
	assert.False(t, Can(RoleCustomer, CapStaffPortal))
	assert.True(t, Can(RoleJuniorStaff, CapStaffPortal))
	assert.False(t, Can(RoleJuniorStaff, CapViewAnalytics))
	assert.True(t, Can(RoleSeniorStaff, CapViewAnalytics))
	assert.True(t, Can(RoleSalonOwner, CapStaffPortal))
	assert.False(t, Can(RoleSalonOwner, CapPlatformAdmin))
	assert.True(t, Can(RoleSuperAdmin, CapPlatformAdmin))
	assert.False(t, Can(RoleGuest, CapBook))
	assert.False(t, Can("hacker", CapBook))

	assert.True(t, IsStaffRole(RoleSalonManager))
	assert.False(t, IsStaffRole(RoleCustomer))
	assert.True(t, IsKnownRole(RoleGuest))
	assert.False(t, IsKnownRole("hacker"))
}
