package post

import (
	"errors"
	"strings"
	"time"
)

// MaxContentLength bounds a single post body.
const MaxContentLength = 5000

// Domain errors
var (
	ErrEmptyContent   = errors.New("post content cannot be empty")
	ErrContentTooLong = errors.New("post content cannot exceed 5000 characters")
	ErrEmptyClub      = errors.New("post must belong to a club")
	ErrEmptyAuthor    = errors.New("post must have an author")
)

// Author is a snapshot of the poster taken when the post is written.
type Author struct {
	ID     string
	Name   string
	Avatar string
}

// Post is an append-only message on a club's board.
// Content is Markdown.
type Post struct {
	ID        string
	ClubID    string
	Author    Author
	Content   string
	Likes     int
	CreatedAt time.Time
}

// Validate checks if the Post has valid data.
// PRE: Post struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Post) Validate() error {
	if strings.TrimSpace(p.Content) == "" {
		return ErrEmptyContent
	}
	if len(p.Content) > MaxContentLength {
		return ErrContentTooLong
	}
	if p.ClubID == "" {
		return ErrEmptyClub
	}
	if p.Author.ID == "" {
		return ErrEmptyAuthor
	}
	return nil
}

// Excerpt returns the first n runes of the content followed by "..." when truncated.
func (p *Post) Excerpt(n int) string {
	r := []rune(strings.TrimSpace(p.Content))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
}
