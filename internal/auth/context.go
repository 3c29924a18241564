package auth

import (
	"github.com/OpenVertical/vertical/internal/tenant"
)

// AuthContext represents the authentication context available in a request.
// This is a transient context injected into the request by the auth
// middleware. It carries the tenant resolved from the request credentials.
type AuthContext struct {
	Tenant *tenant.Tenant
}

// TenantID returns the authenticated tenant's ID as a string, or "" when no
// tenant is attached.
func (ac *AuthContext) TenantID() string {
	if ac == nil || ac.Tenant == nil {
		return ""
	}
	return ac.Tenant.ID.String()
}
