package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	RoleSuperAdmin    = "super_admin"
	RolePlatformAdmin = "platform_admin"
	RoleTenantOwner   = "tenant_owner"
	RoleSalonOwner    = "salon_owner"
	RoleSalonManager  = "salon_manager"
	RoleSeniorStaff   = "senior_staff"
	RoleStaff         = "staff"
	RoleJuniorStaff   = "junior_staff"
	RoleVIPCustomer   = "vip_customer"
	RoleCustomer      = "customer"
	RoleGuest         = "guest"
)

type Capability string

const (
	CapBook           Capability = "book"
	CapCustomerPortal Capability = "customer_portal"
	CapManageSalon    Capability = "manage_salon"
	CapStaffPortal    Capability = "staff_portal"
	CapViewAnalytics  Capability = "view_analytics"
	CapPlatformAdmin  Capability = "platform_admin"
)

var (
	adminRoles    = []string{RoleSuperAdmin, RolePlatformAdmin}
	businessRoles = []string{RoleTenantOwner, RoleSalonOwner, RoleSalonManager}
	staffRoles    = []string{RoleSeniorStaff, RoleStaff, RoleJuniorStaff}
	customerRoles = []string{RoleVIPCustomer, RoleCustomer}
)

var roleCapabilities = buildCapabilities()

func buildCapabilities() map[string]map[Capability]bool {
	m := map[string]map[Capability]bool{}
	grant := func(roles []string, caps ...Capability) {
		for _, r := range roles {
			if m[r] == nil {
				m[r] = map[Capability]bool{}
			}
			for _, c := range caps {
				m[r][c] = true
			}
		}
	}

	grant(customerRoles, CapBook, CapCustomerPortal)
	grant(staffRoles, CapStaffPortal)
	grant(businessRoles, CapManageSalon, CapStaffPortal, CapViewAnalytics)
	grant([]string{RoleSeniorStaff}, CapViewAnalytics)
	grant(adminRoles, CapPlatformAdmin, CapViewAnalytics)
	return m
}

// Can reports whether role grants capability.
func Can(role string, capability Capability) bool {
	return roleCapabilities[role][capability]
}

// IsStaffRole reports whether role belongs to someone working in a salon.
func IsStaffRole(role string) bool {
	for _, group := range [][]string{staffRoles, businessRoles} {
		for _, r := range group {
			if r == role {
				return true
			}
		}
	}
	return false
}

// BookableRoles lists the roles whose holders can be booked for appointments.
func BookableRoles() []string {
	roles := make([]string, 0, len(staffRoles)+len(businessRoles))
	roles = append(roles, staffRoles...)
	return append(roles, businessRoles...)
}

// IsKnownRole reports whether role is one of the defined roles.
func IsKnownRole(role string) bool {
	if role == RoleGuest {
		return true
	}
	_, ok := roleCapabilities[role]
	return ok
}

// RequireCapability rejects callers whose role lacks capability. It must run
// after AuthMiddleware.
func RequireCapability(capability Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Can(CurrentRole(c), capability) {
			RespondWithError(c, http.StatusForbidden, "You do not have permission to perform this action")
			return
		}
		c.Next()
	}
}
