package orchestrators

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connect/internal/adapters/storage"
	"connect/internal/adapters/ws"
	"connect/internal/domain/account"
	"connect/internal/domain/profile"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
	ErrEmailAlreadyExists = errors.New("an account with this email already exists")
	ErrForbidden          = errors.New("you cannot change another user's data")
)

// --- Sign Up ---

// AccountStoreForAuth defines the account store interface needed by sign up and sign in.
type AccountStoreForAuth interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// ProfileStoreForSignUp defines the profile store interface needed by SignUp.
type ProfileStoreForSignUp interface {
	Save(ctx context.Context, p profile.Profile) error
}

// SignUpInput carries input for the sign up orchestrator.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
}

// SignUpDeps holds dependencies for SignUp.
type SignUpDeps struct {
	AccountStore AccountStoreForAuth
	ProfileStore ProfileStoreForSignUp
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSignUp creates an account and its profile row.
// The profile starts without a city, so the new user is sent to onboarding.
// PRE: email is unique; password >= 6 characters; name non-empty
// POST: account and profile share one ID; profile.NeedsOnboarding() is true
func ExecuteSignUp(ctx context.Context, input SignUpInput, deps SignUpDeps) (profile.Profile, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return profile.Profile{}, profile.ErrEmptyName
	}

	email := account.NormalizeEmail(input.Email)
	_, err := deps.AccountStore.GetByEmail(ctx, email)
	if err == nil {
		return profile.Profile{}, ErrEmailAlreadyExists
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return profile.Profile{}, err
	}

	now := deps.Now()
	acct := account.Account{
		ID:        deps.GenerateID(),
		Email:     email,
		CreatedAt: now,
	}
	if err := acct.Validate(); err != nil {
		return profile.Profile{}, err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return profile.Profile{}, err
	}

	p := profile.Profile{
		ID:        acct.ID,
		Name:      name,
		Email:     email,
		Avatar:    profile.AvatarURL(acct.ID),
		CreatedAt: now,
	}
	if err := p.Validate(); err != nil {
		return profile.Profile{}, err
	}

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return profile.Profile{}, err
	}
	if err := deps.ProfileStore.Save(ctx, p); err != nil {
		return profile.Profile{}, fmt.Errorf("save profile for %s: %w", acct.ID, err)
	}

	slog.Info("auth_event", "event", "account_created", "account_id", acct.ID)
	return p, nil
}

// --- Sign In ---

// ProfileReader defines the profile lookup used across orchestrators.
type ProfileReader interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
}

// SignInInput carries input for the sign in orchestrator.
type SignInInput struct {
	Email    string
	Password string
}

// SignInDeps holds dependencies for SignIn.
type SignInDeps struct {
	AccountStore AccountStoreForAuth
	ProfileStore ProfileReader
	Publisher    ws.Publisher
	Now          func() time.Time
}

// ExecuteSignIn validates credentials and returns the user's profile.
// PRE: email and password are non-empty
// POST: failed attempts are counted; success clears the counter and publishes signed_in
// INVARIANT: a locked account never signs in, even with the right password
func ExecuteSignIn(ctx context.Context, input SignInInput, deps SignInDeps) (profile.Profile, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return profile.Profile{}, ErrInvalidCredentials
	}

	email := account.NormalizeEmail(input.Email)
	acct, err := deps.AccountStore.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return profile.Profile{}, err
		}
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_found")
		return profile.Profile{}, ErrInvalidCredentials
	}

	now := deps.Now()
	if acct.IsLocked(now) {
		slog.Info("auth_event", "event", "login_blocked", "email", email, "reason", "locked")
		return profile.Profile{}, ErrAccountLocked
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		acct.RecordFailedLogin(now)
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			slog.Error("auth_event", "event", "login_failed_save", "email", email, "error", err)
		}
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "wrong_password", "failed_logins", acct.FailedLogins)
		return profile.Profile{}, ErrInvalidCredentials
	}

	if acct.FailedLogins > 0 {
		acct.ResetFailedLogins()
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			return profile.Profile{}, err
		}
	}

	p, err := deps.ProfileStore.GetByID(ctx, acct.ID)
	if err != nil {
		return profile.Profile{}, err
	}

	publish(deps.Publisher, acct.ID, ws.OpSignedIn, map[string]string{"user_id": acct.ID})
	slog.Info("auth_event", "event", "login_success", "account_id", acct.ID)
	return p, nil
}

// --- Sign Out ---

// SignOutDeps holds dependencies for SignOut.
type SignOutDeps struct {
	Publisher ws.Publisher
}

// ExecuteSignOut tells the user's other connections the session ended.
// Token revocation belongs to the caller, which owns the session.
func ExecuteSignOut(_ context.Context, userID string, deps SignOutDeps) error {
	if userID == "" {
		return ErrInvalidCredentials
	}
	publish(deps.Publisher, userID, ws.OpSignedOut, map[string]string{"user_id": userID})
	slog.Info("auth_event", "event", "logout", "account_id", userID)
	return nil
}

// --- Password Reset ---

// ResetTokenBytes is the entropy of a password reset token.
const ResetTokenBytes = 32

// GenerateResetToken returns a random hex token with ResetTokenBytes of entropy.
func GenerateResetToken() (string, error) {
	b := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
