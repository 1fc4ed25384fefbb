package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	emailAdapter "connect/internal/adapters/email"
	"connect/internal/adapters/storage"
	"connect/internal/domain/account"
)

// AccountStoreForReset defines the store interface needed by the reset orchestrators.
type AccountStoreForReset interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	SaveResetToken(ctx context.Context, t account.ResetToken) error
	GetResetTokenByHash(ctx context.Context, tokenHash string) (account.ResetToken, error)
	InvalidateResetTokens(ctx context.Context, accountID string) error
}

// --- Request Reset ---

// RequestPasswordResetDeps holds dependencies for RequestPasswordReset.
type RequestPasswordResetDeps struct {
	AccountStore AccountStoreForReset
	ProfileStore ProfileReader
	Sender       emailAdapter.Sender
	// ResetLink turns a plaintext token into the URL mailed to the user.
	ResetLink  func(token string) string
	NewToken   func() (string, error)
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteRequestPasswordReset mails a single-use reset link.
// Unknown addresses succeed silently so the endpoint cannot be used to probe for accounts.
// PRE: email is non-empty
// POST: earlier tokens for the account are invalidated; one new token hash is stored
func ExecuteRequestPasswordReset(ctx context.Context, email string, deps RequestPasswordResetDeps) error {
	email = account.NormalizeEmail(email)
	if email == "" {
		return account.ErrEmptyEmail
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slog.Info("auth_event", "event", "reset_requested", "email", email, "result", "unknown_email")
			return nil
		}
		return err
	}

	plaintext, err := deps.NewToken()
	if err != nil {
		return err
	}
	now := deps.Now()
	token := account.ResetToken{
		ID:        deps.GenerateID(),
		AccountID: acct.ID,
		TokenHash: account.HashToken(plaintext),
		ExpiresAt: now.Add(account.ResetTokenTTL),
		CreatedAt: now,
	}

	if err := deps.AccountStore.InvalidateResetTokens(ctx, acct.ID); err != nil {
		return err
	}
	if err := deps.AccountStore.SaveResetToken(ctx, token); err != nil {
		return err
	}

	name := ""
	if p, err := deps.ProfileStore.GetByID(ctx, acct.ID); err == nil {
		name = p.Name
	}
	req, err := emailAdapter.PasswordReset(acct.Email, name, deps.ResetLink(plaintext), "1 hour")
	if err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}
	if _, err := deps.Sender.Send(ctx, req); err != nil {
		slog.Error("auth_event", "event", "reset_email_failed", "account_id", acct.ID, "error", err)
		return fmt.Errorf("send reset email: %w", err)
	}

	slog.Info("auth_event", "event", "reset_requested", "account_id", acct.ID)
	return nil
}

// --- Confirm Reset ---

// ConfirmPasswordResetInput carries input for the confirm orchestrator.
type ConfirmPasswordResetInput struct {
	Token       string
	NewPassword string
}

// ConfirmPasswordResetDeps holds dependencies for ConfirmPasswordReset.
type ConfirmPasswordResetDeps struct {
	AccountStore AccountStoreForReset
	Now          func() time.Time
}

// ExecuteConfirmPasswordReset redeems a reset token and sets a new password.
// PRE: token was issued by ExecuteRequestPasswordReset
// POST: password replaced; token used; lockout cleared
// INVARIANT: a token is redeemable at most once
func ExecuteConfirmPasswordReset(ctx context.Context, input ConfirmPasswordResetInput, deps ConfirmPasswordResetDeps) error {
	plaintext := strings.TrimSpace(input.Token)
	if plaintext == "" {
		return account.ErrTokenInvalid
	}

	token, err := deps.AccountStore.GetResetTokenByHash(ctx, account.HashToken(plaintext))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return account.ErrTokenInvalid
		}
		return err
	}
	if err := token.Redeemable(deps.Now()); err != nil {
		return err
	}

	acct, err := deps.AccountStore.GetByID(ctx, token.AccountID)
	if err != nil {
		return err
	}
	if err := acct.SetPassword(input.NewPassword); err != nil {
		return err
	}
	acct.ResetFailedLogins()

	token.Invalidate()
	if err := deps.AccountStore.SaveResetToken(ctx, token); err != nil {
		return err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "password_reset", "account_id", acct.ID)
	return nil
}
