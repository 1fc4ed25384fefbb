package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"connect/internal/adapters/storage"
	domain "connect/internal/domain/account"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const accountColumns = "id, email, password_hash, created_at, failed_logins, locked_until"

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE id = ?", id)
	entity, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("account %s: %w", id, storage.ErrNotFound)
	}
	return entity, err
}

// GetByEmail retrieves an Account by normalized email.
// PRE: email is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE email = ?", domain.NormalizeEmail(email))
	entity, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("account: %w", storage.ErrNotFound)
	}
	return entity, err
}

// Save persists an Account to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   email=excluded.email,
		   password_hash=excluded.password_hash,
		   failed_logins=excluded.failed_logins,
		   locked_until=excluded.locked_until`,
		entity.ID,
		domain.NormalizeEmail(entity.Email),
		entity.PasswordHash,
		storage.FormatTime(entity.CreatedAt),
		entity.FailedLogins,
		storage.FormatTime(entity.LockedUntil),
	)
	return err
}

// Delete removes an Account and, by cascade, its reset tokens.
// PRE: id is non-empty
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM account WHERE id = ?", id)
	return err
}

// Count returns the total number of accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&count)
	return count, err
}

// SaveResetToken inserts or updates a reset token.
// PRE: token.TokenHash is the sha256 of the plaintext token
func (s *SQLiteStore) SaveResetToken(ctx context.Context, token domain.ResetToken) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reset_token (id, account_id, token_hash, expires_at, used, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET used=excluded.used`,
		token.ID,
		token.AccountID,
		token.TokenHash,
		storage.FormatTime(token.ExpiresAt),
		boolToInt(token.Used),
		storage.FormatTime(token.CreatedAt),
	)
	return err
}

// GetResetTokenByHash retrieves a reset token by the hash of its plaintext.
// POST: Returns the token or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetResetTokenByHash(ctx context.Context, tokenHash string) (domain.ResetToken, error) {
	var t domain.ResetToken
	var expiresAt, createdAt string
	var used int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, account_id, token_hash, expires_at, used, created_at FROM reset_token WHERE token_hash = ?`,
		tokenHash,
	).Scan(&t.ID, &t.AccountID, &t.TokenHash, &expiresAt, &used, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ResetToken{}, fmt.Errorf("reset token: %w", storage.ErrNotFound)
	}
	if err != nil {
		return domain.ResetToken{}, err
	}
	t.Used = used != 0
	t.ExpiresAt, _ = storage.ParseTime(expiresAt)
	t.CreatedAt, _ = storage.ParseTime(createdAt)
	return t, nil
}

// InvalidateResetTokens marks every outstanding token for accountID as used.
func (s *SQLiteStore) InvalidateResetTokens(ctx context.Context, accountID string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE reset_token SET used = 1 WHERE account_id = ? AND used = 0", accountID)
	return err
}

// scanAccount extracts an Account from a row scanner function.
func scanAccount(scan func(dest ...interface{}) error) (domain.Account, error) {
	var entity domain.Account
	var createdAt string
	var lockedUntil sql.NullString
	err := scan(
		&entity.ID,
		&entity.Email,
		&entity.PasswordHash,
		&createdAt,
		&entity.FailedLogins,
		&lockedUntil,
	)
	if err != nil {
		return domain.Account{}, err
	}
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	entity.LockedUntil = storage.ParseNullTime(lockedUntil)
	return entity, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
