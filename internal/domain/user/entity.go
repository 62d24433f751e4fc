package user

import (
	"strings"
	"time"
)

// Role controls access to the admin surface.
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole normalizes a role string from external input.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleEmployee:
		return RoleEmployee, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrInvalidRole
	}
}

// IsAdmin reports whether the role may access the admin surface.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User is an account known to the identity provider; clock records
// reference it by ID.
type User struct {
	ID        string
	Email     string
	Name      string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
