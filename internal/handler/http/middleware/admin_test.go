package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthurobs542/clock-timer/internal/domain/user"
)

func callAdminGate(t *testing.T, role *user.Role) *httptest.ResponseRecorder {
	t.Helper()

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/clock/records", nil)
	if role != nil {
		r = r.WithContext(WithIdentity(r.Context(), "emp-1", *role))
	}

	w := httptest.NewRecorder()
	AdminRequired(next).ServeHTTP(w, r)

	if w.Code == http.StatusOK {
		assert.True(t, called)
	} else {
		assert.False(t, called)
	}
	return w
}

func TestAdminRequiredAllowsAdmin(t *testing.T) {
	role := user.RoleAdmin
	w := callAdminGate(t, &role)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRequiredForbidsEmployee(t *testing.T) {
	role := user.RoleEmployee
	w := callAdminGate(t, &role)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRequiredForbidsMissingIdentity(t *testing.T) {
	w := callAdminGate(t, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
