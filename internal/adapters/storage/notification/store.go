package notification

import (
	"context"

	domain "connect/internal/domain/notification"
)

// Store persists notifications.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Notification, error)
	Save(ctx context.Context, value domain.Notification) error
	SaveBatch(ctx context.Context, values []domain.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
}
