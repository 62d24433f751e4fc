package notification

import (
	"context"
)

// Service defines the notification service interface
type Service interface {
	// Queue notification (async processing via background workers)
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error

	// Broadcast stores a SYSTEM_UPDATE for every listed recipient and
	// pushes it to their open streams, returning the recipient count
	// after preference filtering
	Broadcast(ctx context.Context, req BroadcastRequest) (int, error)

	// Direct operations
	GetNotifications(ctx context.Context, employeeID string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, employeeID string) (int, error)
	MarkAsRead(ctx context.Context, employeeID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, employeeID string) error
	Delete(ctx context.Context, employeeID string, notificationID string) error

	// Preferences
	GetPreferences(ctx context.Context, employeeID string) ([]PreferenceResponse, error)
	UpdatePreference(ctx context.Context, employeeID string, req UpdatePreferenceRequest) error

	// SSE subscription
	Subscribe(ctx context.Context, employeeID string) (<-chan SSEEvent, func())

	// Lifecycle
	Stop()
}
