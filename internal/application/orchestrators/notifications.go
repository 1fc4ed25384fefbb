package orchestrators

import (
	"context"
	"log/slog"

	"connect/internal/domain/notification"
)

// NotificationStoreForRead defines the store interface needed by MarkNotificationRead.
type NotificationStoreForRead interface {
	GetByID(ctx context.Context, id string) (notification.Notification, error)
	Save(ctx context.Context, n notification.Notification) error
}

// MarkNotificationReadDeps holds dependencies for MarkNotificationRead.
type MarkNotificationReadDeps struct {
	NotificationStore NotificationStoreForRead
}

// ExecuteMarkNotificationRead marks one of the user's notifications as read.
// PRE: the notification belongs to userID
// POST: Read is true; marking twice is a no-op
func ExecuteMarkNotificationRead(ctx context.Context, userID, notificationID string, deps MarkNotificationReadDeps) (notification.Notification, error) {
	n, err := deps.NotificationStore.GetByID(ctx, notificationID)
	if err != nil {
		return notification.Notification{}, err
	}
	if n.UserID != userID {
		return notification.Notification{}, ErrForbidden
	}
	if n.Read {
		return n, nil
	}
	n.MarkRead()
	if err := deps.NotificationStore.Save(ctx, n); err != nil {
		return notification.Notification{}, err
	}
	slog.Debug("notification_event", "event", "notification_read", "notification_id", n.ID, "user_id", userID)
	return n, nil
}
