package middleware

import (
	"net/http"
	"strings"

	"labvault/internal/auth"
	"labvault/internal/httputil"
)

// Auth validates the bearer token on every request and attaches the
// resulting TenantContext. Tokens without a school binding are rejected;
// /health stays open for probes.
func Auth(verifier auth.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			tenant := claims.Tenant()
			if tenant.SchoolID == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "token is not bound to a school")
				return
			}

			next.ServeHTTP(w, httputil.WithTenant(r, tenant))
		})
	}
}
