package orchestrators

import (
	"context"
	"log/slog"

	"connect/internal/adapters/ws"
	"connect/internal/domain/notification"
)

// NotificationWriter defines the store interface needed to fan out notifications.
type NotificationWriter interface {
	SaveBatch(ctx context.Context, ns []notification.Notification) error
}

// notify persists ns and pushes each one to its recipient's live connections.
// A nil publisher only persists.
func notify(ctx context.Context, store NotificationWriter, pub ws.Publisher, ns []notification.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	if err := store.SaveBatch(ctx, ns); err != nil {
		return err
	}
	for _, n := range ns {
		publish(pub, n.UserID, ws.OpNotification, map[string]any{
			"id":      n.ID,
			"type":    n.Type,
			"message": n.Message,
			"link_id": n.LinkID,
			"view":    n.View,
		})
	}
	slog.Info("notification_event", "event", "notifications_created", "type", ns[0].Type, "count", len(ns))
	return nil
}

// publish sends a realtime event if a publisher is wired.
func publish(pub ws.Publisher, userID, op string, data any) {
	if pub == nil || userID == "" {
		return
	}
	pub.PublishToUser(userID, ws.Event{Op: op, Data: data})
}

// fanOut builds one notification per recipient, skipping exclude.
func fanOut(recipients []string, exclude string, newID func() string, tmpl notification.Notification) []notification.Notification {
	out := make([]notification.Notification, 0, len(recipients))
	for _, uid := range recipients {
		if uid == exclude {
			continue
		}
		n := tmpl
		n.ID = newID()
		n.UserID = uid
		out = append(out, n)
	}
	return out
}
