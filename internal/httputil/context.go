package httputil

import (
	"context"
	"net/http"

	"labvault/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	tenantKey    contextKey = "tenant"
	requestIDKey contextKey = "requestID"
)

// WithTenant adds the authenticated tenant context to the request context
func WithTenant(r *http.Request, tenant models.TenantContext) *http.Request {
	ctx := context.WithValue(r.Context(), tenantKey, tenant)
	return r.WithContext(ctx)
}

// GetTenant retrieves the tenant context; ok is false for unauthenticated requests
func GetTenant(r *http.Request) (models.TenantContext, bool) {
	tenant, ok := r.Context().Value(tenantKey).(models.TenantContext)
	return tenant, ok
}

// WithRequestID adds a request ID to the request context
func WithRequestID(r *http.Request, id string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDKey, id)
	return r.WithContext(ctx)
}

// GetRequestID retrieves the request ID from context, empty if not set
func GetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}
