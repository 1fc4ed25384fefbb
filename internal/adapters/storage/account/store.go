package account

import (
	"context"

	domain "connect/internal/domain/account"
)

// Store persists Account state and password reset tokens.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	SaveResetToken(ctx context.Context, token domain.ResetToken) error
	GetResetTokenByHash(ctx context.Context, tokenHash string) (domain.ResetToken, error)
	InvalidateResetTokens(ctx context.Context, accountID string) error
}
