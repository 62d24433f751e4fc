package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/jwtauth/v5"

	"github.com/arthurobs542/clock-timer/internal/domain/user"
	"github.com/arthurobs542/clock-timer/internal/handler/http/response"
)

type employeeIDKey struct{}
type roleKey struct{}

// WithIdentity returns a context carrying the authenticated identity.
func WithIdentity(ctx context.Context, employeeID string, role user.Role) context.Context {
	ctx = context.WithValue(ctx, employeeIDKey{}, employeeID)
	return context.WithValue(ctx, roleKey{}, role)
}

// EmployeeIDFromContext returns the authenticated employee ID.
func EmployeeIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(employeeIDKey{}).(string)
	return id, ok
}

// RoleFromContext returns the authenticated role.
func RoleFromContext(ctx context.Context) (user.Role, bool) {
	role, ok := ctx.Value(roleKey{}).(user.Role)
	return role, ok
}

// AuthRequired verifies the access token already decoded by the
// jwtauth verifier and stores the identity claims in the context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Missing or invalid token")
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.Unauthorized(w, "Missing or invalid token")
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "access" {
				response.Unauthorized(w, "Missing or invalid token")
				return
			}

			employeeID, ok := claims["employee_id"].(string)
			if !ok || employeeID == "" {
				response.Unauthorized(w, "Missing or invalid token")
				return
			}

			role := user.RoleEmployee
			if claimed, ok := claims["role"].(string); ok {
				role = user.Role(strings.ToUpper(claimed))
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), employeeID, role)))
		}
		return http.HandlerFunc(hfn)
	}
}
