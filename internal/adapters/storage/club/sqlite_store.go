package club

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"connect/internal/adapters/storage"
	domain "connect/internal/domain/club"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new club SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const clubColumns = `c.id, c.name, c.description, c.category, c.member_count, c.image, c.cover_image,
	c.tags, c.visibility, c.location, c.owner_id, c.founder_name, c.founder_bio, c.created_at`

// GetByID retrieves a club by ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Club, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+clubColumns+` FROM club c WHERE c.id = ?`, id)
	c, err := scanClub(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Club{}, fmt.Errorf("club %s: %w", id, storage.ErrNotFound)
	}
	return c, err
}

// List returns every club, newest first. Filtering and sorting happen in domain.Filter.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Club, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+clubColumns+` FROM club c ORDER BY c.created_at DESC, c.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClubs(rows)
}

// ListByMember returns the clubs userID has joined, in join order.
func (s *SQLiteStore) ListByMember(ctx context.Context, userID string) ([]domain.Club, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+clubColumns+` FROM club c
		 JOIN club_member m ON m.club_id = c.id
		 WHERE m.user_id = ?
		 ORDER BY m.joined_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClubs(rows)
}

// Save inserts or updates a club. member_count is only written on insert;
// afterwards it moves through AddMember and RemoveMember.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, c domain.Club) error {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO club (id, name, description, category, member_count, image, cover_image,
		   tags, visibility, location, owner_id, founder_name, founder_bio, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, description=excluded.description, category=excluded.category,
		   image=excluded.image, cover_image=excluded.cover_image, tags=excluded.tags,
		   visibility=excluded.visibility, location=excluded.location,
		   founder_name=excluded.founder_name, founder_bio=excluded.founder_bio`,
		c.ID, c.Name, c.Description, c.Category, c.MemberCount, c.Image, c.CoverImage,
		string(raw), c.Visibility, c.Location, c.OwnerID, c.FounderName, c.FounderBio,
		storage.FormatTime(c.CreatedAt),
	)
	return err
}

// Delete removes a club together with its membership, events, RSVPs and posts.
// The dependents are deleted explicitly so the result does not hinge on the
// connection having foreign_keys enabled.
// POST: returns an error wrapping storage.ErrNotFound if no club matched
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM event_rsvp WHERE event_id IN (SELECT id FROM event WHERE club_id = ?)`,
		`DELETE FROM event WHERE club_id = ?`,
		`DELETE FROM post WHERE club_id = ?`,
		`DELETE FROM club_member WHERE club_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM club WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("club %s: %w", id, storage.ErrNotFound)
	}
	return tx.Commit()
}

// AddMember records userID as a member and increments member_count.
// A repeated join is a no-op.
// POST: returns true only when a new membership row was written
func (s *SQLiteStore) AddMember(ctx context.Context, clubID, userID string, at time.Time) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM club WHERE id = ?`, clubID).Scan(&exists); err != nil {
		return false, err
	}
	if exists == 0 {
		return false, fmt.Errorf("club %s: %w", clubID, storage.ErrNotFound)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO club_member (club_id, user_id, joined_at) VALUES (?, ?, ?)
		 ON CONFLICT(club_id, user_id) DO NOTHING`,
		clubID, userID, storage.FormatTime(at))
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, tx.Commit()
	}
	if _, err := tx.ExecContext(ctx, `UPDATE club SET member_count = member_count + 1 WHERE id = ?`, clubID); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// RemoveMember deletes userID's membership and decrements member_count, never below zero.
// POST: returns true only when a membership row was removed
func (s *SQLiteStore) RemoveMember(ctx context.Context, clubID, userID string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM club_member WHERE club_id = ? AND user_id = ?`, clubID, userID)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, tx.Commit()
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE club SET member_count = MAX(member_count - 1, 0) WHERE id = ?`, clubID); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// IsMember reports whether userID belongs to clubID.
func (s *SQLiteStore) IsMember(ctx context.Context, clubID, userID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM club_member WHERE club_id = ? AND user_id = ?`, clubID, userID).Scan(&n)
	return n > 0, err
}

// ListMemberIDs returns the user IDs of every member of clubID.
func (s *SQLiteStore) ListMemberIDs(ctx context.Context, clubID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id FROM club_member WHERE club_id = ? ORDER BY joined_at`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanClubs(rows *sql.Rows) ([]domain.Club, error) {
	clubs := []domain.Club{}
	for rows.Next() {
		c, err := scanClub(rows.Scan)
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, c)
	}
	return clubs, rows.Err()
}

// scanClub extracts a Club from a row scanner function.
func scanClub(scan func(dest ...interface{}) error) (domain.Club, error) {
	var c domain.Club
	var tags, createdAt string
	err := scan(&c.ID, &c.Name, &c.Description, &c.Category, &c.MemberCount, &c.Image, &c.CoverImage,
		&tags, &c.Visibility, &c.Location, &c.OwnerID, &c.FounderName, &c.FounderBio, &createdAt)
	if err != nil {
		return domain.Club{}, err
	}
	if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
		return domain.Club{}, fmt.Errorf("club %s: decode tags: %w", c.ID, err)
	}
	c.CreatedAt, _ = storage.ParseTime(createdAt)
	return c, nil
}
