package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrNotFound is wrapped by every store when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// TimeLayout is the text format used for every timestamp column. The fixed
// width fraction keeps lexical order equal to chronological order for UTC values.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders t for storage. Zero times are stored as NULL.
func FormatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a stored timestamp, accepting the legacy layouts SQLite
// defaults produce.
func ParseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}

// ParseNullTime parses an optional stored timestamp.
func ParseNullTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, _ := ParseTime(s.String)
	return t
}

// migration is one forward-only schema step.
type migration struct {
	version int
	name    string
	stmts   string
}

var migrations = []migration{
	{1, "baseline", `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS reset_token (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		token_hash TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		used INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		FOREIGN KEY (account_id) REFERENCES account(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS profile (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		avatar TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		interests TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE TABLE IF NOT EXISTS club (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		member_count INTEGER NOT NULL DEFAULT 0 CHECK (member_count >= 0),
		image TEXT NOT NULL DEFAULT '',
		cover_image TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		visibility TEXT NOT NULL DEFAULT 'public',
		location TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		founder_name TEXT NOT NULL DEFAULT '',
		founder_bio TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS club_member (
		club_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		joined_at TEXT NOT NULL,
		PRIMARY KEY (club_id, user_id),
		FOREIGN KEY (club_id) REFERENCES club(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS event (
		id TEXT PRIMARY KEY,
		club_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		location TEXT NOT NULL,
		image TEXT NOT NULL DEFAULT '',
		banner_image TEXT NOT NULL DEFAULT '',
		capacity INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		FOREIGN KEY (club_id) REFERENCES club(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS event_rsvp (
		event_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		status TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (event_id, user_id),
		FOREIGN KEY (event_id) REFERENCES event(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS post (
		id TEXT PRIMARY KEY,
		club_id TEXT NOT NULL,
		author_id TEXT NOT NULL,
		author_name TEXT NOT NULL,
		author_avatar TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		likes INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		FOREIGN KEY (club_id) REFERENCES club(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS notification (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		message TEXT NOT NULL,
		read INTEGER NOT NULL DEFAULT 0,
		link_id TEXT NOT NULL DEFAULT '',
		view TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	`},
	{2, "lookup_indexes", `
	CREATE INDEX IF NOT EXISTS idx_reset_token_account ON reset_token(account_id);
	CREATE INDEX IF NOT EXISTS idx_club_member_user ON club_member(user_id);
	CREATE INDEX IF NOT EXISTS idx_event_club_date ON event(club_id, date);
	CREATE INDEX IF NOT EXISTS idx_post_club_created ON post(club_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_notification_user_created ON notification(user_id, created_at);
	`},
}

// LatestSchemaVersion returns the version the migration chain ends at.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the applied schema version, or 0 for an untracked database.
// PRE: db is a valid database connection
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'`).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect schema_version: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var v sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema_version: %w", err)
	}
	return int(v.Int64), nil
}

// MigrateDB brings the schema up to LatestSchemaVersion.
// File-backed databases that already hold data are snapshotted to
// "<path>.bak-v<version>" before the first pending migration runs.
// PRE: db is a valid database connection
// POST: WAL mode and foreign keys enabled; every pending migration applied in its own transaction
func MigrateDB(db *sql.DB, path string) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	if current >= LatestSchemaVersion() {
		return nil
	}

	if current > 0 && isFileDB(path) {
		backup := fmt.Sprintf("%s.bak-v%d", path, current)
		if _, err := db.Exec("VACUUM INTO ?", backup); err != nil {
			return fmt.Errorf("failed to back up database before migration: %w", err)
		}
		slog.Info("schema_backup", "path", backup, "version", current)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := apply(db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		slog.Info("schema_migrated", "version", m.version, "name", m.name)
	}
	return nil
}

func apply(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.stmts); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO schema_version (version, name, applied_at) VALUES (?, ?, ?)`,
		m.version, m.name, time.Now().UTC().Format(TimeLayout)); err != nil {
		return err
	}
	return tx.Commit()
}

func isFileDB(path string) bool {
	return path != "" && path != ":memory:" && !strings.HasPrefix(path, "file::memory:")
}
