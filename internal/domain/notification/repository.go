package notification

import (
	"context"
)

// Repository defines the notification repository interface
type Repository interface {
	// Notifications CRUD
	Create(ctx context.Context, notification *Notification) error
	CreateBatch(ctx context.Context, notifications []*Notification) error
	GetByEmployeeID(ctx context.Context, employeeID string, page, pageSize int, unreadOnly bool) ([]*Notification, int, error)
	GetUnreadCount(ctx context.Context, employeeID string) (int, error)
	MarkAsRead(ctx context.Context, ids []string, employeeID string) error
	MarkAllAsRead(ctx context.Context, employeeID string) error
	Delete(ctx context.Context, id string, employeeID string) error

	// Preferences
	GetPreferences(ctx context.Context, employeeID string) ([]*NotificationPreference, error)
	UpsertPreference(ctx context.Context, pref *NotificationPreference) error
	IsNotificationEnabled(ctx context.Context, employeeID string, notifType NotificationType) (bool, error)
}
