package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"connect/internal/adapters/storage"
	domain "connect/internal/domain/notification"
)

// DefaultLimit caps ListByUser when no limit is given.
const DefaultLimit = 50

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new notification SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const notificationColumns = `id, user_id, type, message, read, link_id, view, created_at`

const upsert = `INSERT INTO notification (` + notificationColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET read=excluded.read`

// GetByID retrieves a notification by ID.
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Notification, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notification WHERE id = ?`, id)
	n, err := scanNotification(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Notification{}, fmt.Errorf("notification %s: %w", id, storage.ErrNotFound)
	}
	return n, err
}

// Save inserts a notification or updates its read flag.
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, n domain.Notification) error {
	_, err := s.db.ExecContext(ctx, upsert, args(n)...)
	return err
}

// SaveBatch writes several notifications in one transaction.
func (s *SQLiteStore) SaveBatch(ctx context.Context, ns []domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, n := range ns {
		if _, err := tx.ExecContext(ctx, upsert, args(n)...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListByUser returns a user's notifications, newest first.
func (s *SQLiteStore) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM notification WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ns := []domain.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows.Scan)
		if err != nil {
			return nil, err
		}
		ns = append(ns, n)
	}
	return ns, rows.Err()
}

func args(n domain.Notification) []any {
	read := 0
	if n.Read {
		read = 1
	}
	return []any{n.ID, n.UserID, n.Type, n.Message, read, n.LinkID, n.View, storage.FormatTime(n.CreatedAt)}
}

// scanNotification extracts a Notification from a row scanner function.
func scanNotification(scan func(dest ...interface{}) error) (domain.Notification, error) {
	var n domain.Notification
	var read int
	var createdAt string
	if err := scan(&n.ID, &n.UserID, &n.Type, &n.Message, &read, &n.LinkID, &n.View, &createdAt); err != nil {
		return domain.Notification{}, err
	}
	n.Read = read != 0
	n.CreatedAt, _ = storage.ParseTime(createdAt)
	return n, nil
}
