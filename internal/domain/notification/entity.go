package notification

import (
	"time"
)

// NotificationType represents the kind of notification
type NotificationType string

const (
	TypeClockIn       NotificationType = "CLOCK_IN"
	TypeClockOut      NotificationType = "CLOCK_OUT"
	TypeClockReminder NotificationType = "CLOCK_REMINDER"
	TypeSystemUpdate  NotificationType = "SYSTEM_UPDATE"
	TypeSecurityAlert NotificationType = "SECURITY_ALERT"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeClockIn,
		TypeClockOut,
		TypeClockReminder,
		TypeSystemUpdate,
		TypeSecurityAlert,
	}
}

// Priority represents notification urgency
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Notification represents a notification entity
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	Priority    Priority
	ActionURL   *string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}

// NotificationPreference represents an employee's preference for a
// notification type
type NotificationPreference struct {
	ID               string
	EmployeeID       string
	NotificationType NotificationType
	EmailEnabled     bool
	PushEnabled      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
