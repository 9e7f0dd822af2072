package models

// Role is the actor's role within a school account.
type Role string

const (
	RoleAdmin        Role = "admin"
	RolePrincipal    Role = "principal"
	RoleLabAssistant Role = "lab_assistant"
	RoleInstructor   Role = "instructor"
)

// TenantContext identifies the authenticated actor and the school account
// every library operation is scoped to. It is threaded explicitly through
// service calls so cross-tenant isolation is visible in the contract rather
// than hidden behind a request-scoped filter.
type TenantContext struct {
	UserID   string
	SchoolID string
	Role     Role
}

// HasRole reports whether the actor holds one of the given roles.
func (t TenantContext) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if t.Role == r {
			return true
		}
	}
	return false
}
