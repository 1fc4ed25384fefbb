package post

import (
	"context"

	"connect/internal/adapters/storage"
	domain "connect/internal/domain/post"
)

// DefaultLimit caps ListByClub when no limit is given.
const DefaultLimit = 50

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new post SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save inserts a post.
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, p domain.Post) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO post (id, club_id, author_id, author_name, author_avatar, content, likes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ClubID, p.Author.ID, p.Author.Name, p.Author.Avatar, p.Content, p.Likes,
		storage.FormatTime(p.CreatedAt))
	return err
}

// ListByClub returns a club's posts, newest first.
func (s *SQLiteStore) ListByClub(ctx context.Context, clubID string, limit int) ([]domain.Post, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, club_id, author_id, author_name, author_avatar, content, likes, created_at
		 FROM post WHERE club_id = ? ORDER BY created_at DESC LIMIT ?`, clubID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		var p domain.Post
		var createdAt string
		if err := rows.Scan(&p.ID, &p.ClubID, &p.Author.ID, &p.Author.Name, &p.Author.Avatar,
			&p.Content, &p.Likes, &createdAt); err != nil {
			return nil, err
		}
		p.CreatedAt, _ = storage.ParseTime(createdAt)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
