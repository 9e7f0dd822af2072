package handler

import (
	"net/http"

	"labvault/internal/domain/models"
	"labvault/internal/httputil"
)

// tenantFromRequest extracts the authenticated tenant context, writing a 401
// if the auth middleware did not run.
func tenantFromRequest(w http.ResponseWriter, r *http.Request) (models.TenantContext, bool) {
	tenant, ok := httputil.GetTenant(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return models.TenantContext{}, false
	}
	return tenant, true
}

// requireRole writes a 403 unless the actor holds one of the given roles
func requireRole(w http.ResponseWriter, tenant models.TenantContext, roles ...models.Role) bool {
	if !tenant.HasRole(roles...) {
		httputil.RespondError(w, http.StatusForbidden, "insufficient role for this operation")
		return false
	}
	return true
}
