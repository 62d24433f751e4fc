package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arthurobs542/clock-timer/internal/domain/clock"
	"github.com/arthurobs542/clock-timer/internal/domain/notification"
)

// ClockNotifier adapts the notification service to the clock engine's
// side-effect hook. Queue failures are logged and swallowed so a broken
// notification path never fails a clock transition.
type ClockNotifier struct {
	svc notification.Service
}

func NewClockNotifier(svc notification.Service) clock.Notifier {
	return &ClockNotifier{svc: svc}
}

// ClockInRecorded implements clock.Notifier.
func (n *ClockNotifier) ClockInRecorded(ctx context.Context, employeeID string, at time.Time) {
	// The transition already committed; delivery must outlive the
	// request context.
	ctx = context.WithoutCancel(ctx)

	err := n.svc.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: employeeID,
		Type:        notification.TypeClockIn,
		Title:       "Clocked in",
		Message:     fmt.Sprintf("You clocked in at %s", at.Format("15:04")),
		Priority:    notification.PriorityLow,
		Data: map[string]interface{}{
			"clocked_in_at": at.Format(time.RFC3339),
		},
	})
	if err != nil {
		slog.Error("failed to queue clock-in notification", "employee_id", employeeID, "error", err)
	}
}

// ClockOutRecorded implements clock.Notifier.
func (n *ClockNotifier) ClockOutRecorded(ctx context.Context, employeeID string, at time.Time, totalHours float64) {
	ctx = context.WithoutCancel(ctx)

	err := n.svc.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: employeeID,
		Type:        notification.TypeClockOut,
		Title:       "Clocked out",
		Message:     fmt.Sprintf("You clocked out at %s after %.2f hours", at.Format("15:04"), totalHours),
		Priority:    notification.PriorityLow,
		Data: map[string]interface{}{
			"clocked_out_at": at.Format(time.RFC3339),
			"total_hours":    totalHours,
		},
	})
	if err != nil {
		slog.Error("failed to queue clock-out notification", "employee_id", employeeID, "error", err)
	}
}
