package projections

import (
	"context"

	"connect/internal/domain/notification"
)

// NotificationsResult carries the output of the notifications projection.
type NotificationsResult struct {
	Notifications []notification.Notification
	Unread        int
}

// QueryNotifications lists a user's notifications newest first.
func QueryNotifications(ctx context.Context, userID string, limit int, store NotificationLister) (NotificationsResult, error) {
	ns, err := store.ListByUser(ctx, userID, limit)
	if err != nil {
		return NotificationsResult{}, err
	}
	return NotificationsResult{Notifications: ns, Unread: notification.CountUnread(ns)}, nil
}
