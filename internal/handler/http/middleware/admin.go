package middleware

import (
	"net/http"

	"github.com/arthurobs542/clock-timer/internal/handler/http/response"
)

// AdminRequired gates the admin surface. It must run after AuthRequired.
func AdminRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := RoleFromContext(r.Context())
		if !ok || !role.IsAdmin() {
			response.Forbidden(w, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
