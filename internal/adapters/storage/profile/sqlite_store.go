package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"connect/internal/adapters/storage"
	domain "connect/internal/domain/profile"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new profile SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Profile with its joined clubs.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	var p domain.Profile
	var interests, createdAt string
	var updatedAt sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, avatar, city, interests, created_at, updated_at FROM profile WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Email, &p.Avatar, &p.City, &interests, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, fmt.Errorf("profile %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return domain.Profile{}, err
	}
	if err := json.Unmarshal([]byte(interests), &p.Interests); err != nil {
		return domain.Profile{}, fmt.Errorf("profile %s: decode interests: %w", id, err)
	}
	p.CreatedAt, _ = storage.ParseTime(createdAt)
	p.UpdatedAt = storage.ParseNullTime(updatedAt)

	p.JoinedClubs, err = s.joinedClubs(ctx, id)
	if err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

func (s *SQLiteStore) joinedClubs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT club_id FROM club_member WHERE user_id = ? ORDER BY joined_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Save inserts or updates a Profile.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, p domain.Profile) error {
	interests := p.Interests
	if interests == nil {
		interests = []string{}
	}
	raw, err := json.Marshal(interests)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profile (id, name, email, avatar, city, interests, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, email=excluded.email, avatar=excluded.avatar,
		   city=excluded.city, interests=excluded.interests, updated_at=excluded.updated_at`,
		p.ID, p.Name, p.Email, p.Avatar, p.City, string(raw),
		storage.FormatTime(p.CreatedAt), storage.FormatTime(p.UpdatedAt),
	)
	return err
}

// Delete removes a Profile.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM profile WHERE id = ?`, id)
	return err
}
