package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"connect/internal/adapters/storage"
	domain "connect/internal/domain/event"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new event SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const eventColumns = `e.id, e.club_id, e.title, e.description, e.date, e.location, e.image,
	e.banner_image, e.capacity, e.created_at`

// GetByID retrieves an event with its RSVP map.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM event e WHERE e.id = ?`, id)
	e, err := scanEvent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Event{}, fmt.Errorf("event %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return domain.Event{}, err
	}
	if err := s.loadRSVPs(ctx, []*domain.Event{&e}); err != nil {
		return domain.Event{}, err
	}
	return e, nil
}

// ListByClub returns a club's events ordered by date.
func (s *SQLiteStore) ListByClub(ctx context.Context, clubID string) ([]domain.Event, error) {
	return s.list(ctx, `SELECT `+eventColumns+` FROM event e WHERE e.club_id = ? ORDER BY e.date`, clubID)
}

// ListUpcomingForMember returns the next events across userID's clubs.
func (s *SQLiteStore) ListUpcomingForMember(ctx context.Context, userID string, from time.Time, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.list(ctx,
		`SELECT `+eventColumns+` FROM event e
		 JOIN club_member m ON m.club_id = e.club_id
		 WHERE m.user_id = ? AND e.date >= ?
		 ORDER BY e.date LIMIT ?`,
		userID, storage.FormatTime(from), limit)
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	events := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			rows.Close()
			return nil, err
		}
		events = append(events, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ptrs := make([]*domain.Event, len(events))
	for i := range events {
		ptrs[i] = &events[i]
	}
	if err := s.loadRSVPs(ctx, ptrs); err != nil {
		return nil, err
	}
	return events, nil
}

// loadRSVPs fills RSVPs and Attendees for each event.
func (s *SQLiteStore) loadRSVPs(ctx context.Context, events []*domain.Event) error {
	for _, e := range events {
		rows, err := s.db.QueryContext(ctx, `SELECT user_id, status FROM event_rsvp WHERE event_id = ?`, e.ID)
		if err != nil {
			return err
		}
		e.RSVPs = make(map[string]string)
		for rows.Next() {
			var userID, status string
			if err := rows.Scan(&userID, &status); err != nil {
				rows.Close()
				return err
			}
			e.RSVPs[userID] = status
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		e.Recount()
	}
	return nil
}

// Save inserts or updates an event's own columns. RSVPs go through SaveRSVP.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, e domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO event (id, club_id, title, description, date, location, image, banner_image, capacity, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, description=excluded.description, date=excluded.date,
		   location=excluded.location, image=excluded.image, banner_image=excluded.banner_image,
		   capacity=excluded.capacity`,
		e.ID, e.ClubID, e.Title, e.Description, storage.FormatTime(e.Date), e.Location,
		e.Image, e.BannerImage, e.Capacity, storage.FormatTime(e.CreatedAt),
	)
	return err
}

// SaveRSVP upserts a single user's RSVP. A new "going" is written only while
// the going count is below a non-zero capacity; the count and the write are
// one statement, so concurrent callers cannot overbook.
// INVARIANT: at most one row per (event, user)
// POST: returns domain.ErrEventFull when the going RSVP was refused
func (s *SQLiteStore) SaveRSVP(ctx context.Context, eventID, userID, status string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO event_rsvp (event_id, user_id, status, updated_at)
		 SELECT ?, ?, ?, ?
		 WHERE ? <> 'going'
		    OR EXISTS (SELECT 1 FROM event_rsvp WHERE event_id = ? AND user_id = ? AND status = 'going')
		    OR (SELECT capacity FROM event WHERE id = ?) = 0
		    OR (SELECT COUNT(*) FROM event_rsvp WHERE event_id = ? AND status = 'going')
		       < (SELECT capacity FROM event WHERE id = ?)
		 ON CONFLICT(event_id, user_id) DO UPDATE SET status=excluded.status, updated_at=excluded.updated_at`,
		eventID, userID, status, storage.FormatTime(at),
		status,
		eventID, userID,
		eventID,
		eventID,
		eventID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("event %s: %w", eventID, domain.ErrEventFull)
	}
	return nil
}

// scanEvent extracts an Event from a row scanner function.
func scanEvent(scan func(dest ...interface{}) error) (domain.Event, error) {
	var e domain.Event
	var date, createdAt string
	err := scan(&e.ID, &e.ClubID, &e.Title, &e.Description, &date, &e.Location, &e.Image,
		&e.BannerImage, &e.Capacity, &createdAt)
	if err != nil {
		return domain.Event{}, err
	}
	e.Date, _ = storage.ParseTime(date)
	e.CreatedAt, _ = storage.ParseTime(createdAt)
	return e, nil
}
