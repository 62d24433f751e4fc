package response

import (
	"errors"
	"net/http"

	"github.com/arthurobs542/clock-timer/internal/domain/clock"
	"github.com/arthurobs542/clock-timer/internal/domain/notification"
	"github.com/arthurobs542/clock-timer/internal/domain/user"
	"github.com/arthurobs542/clock-timer/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Clock domain errors
	case errors.Is(err, clock.ErrAlreadyClockedIn):
		Conflict(w, "Already clocked in today")
	case errors.Is(err, clock.ErrBreakAlreadyActive):
		Conflict(w, "A break is already in progress")
	case errors.Is(err, clock.ErrNoActiveSession):
		BadRequest(w, "No active work session found for today", nil)
	case errors.Is(err, clock.ErrNoActiveBreak):
		BadRequest(w, "No active break found", nil)
	case errors.Is(err, clock.ErrRecordNotFound):
		NotFound(w, "Clock record not found")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailTaken):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrInvalidRole):
		BadRequest(w, "Role must be one of: EMPLOYEE, ADMIN", nil)

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrInvalidType):
		BadRequest(w, "Unknown notification type", nil)
	case errors.Is(err, notification.ErrQueueFull):
		ServiceUnavailable(w, "Notification delivery is overloaded, try again shortly")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
