package post

import (
	"context"

	domain "connect/internal/domain/post"
)

// Store persists club posts. Posts are append-only.
type Store interface {
	Save(ctx context.Context, value domain.Post) error
	ListByClub(ctx context.Context, clubID string, limit int) ([]domain.Post, error)
}
