package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims represents the JWT claims issued by the platform's identity
// provider. Every token carries the school the user belongs to and their
// role within it.
type AccessClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email"`
	SchoolID             string `json:"school_id"`
	Role                 string `json:"role"`
	SessionID            string `json:"session_id"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *AccessClaims) GetUserID() string {
	return c.Subject
}

// Tenant builds the TenantContext carried by authenticated requests.
func (c *AccessClaims) Tenant() TenantContext {
	return TenantContext{
		UserID:   c.Subject,
		SchoolID: c.SchoolID,
		Role:     Role(c.Role),
	}
}
