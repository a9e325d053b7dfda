// Package sqlitestore implements adapter.Adapter on a SQLite database using
// the pure-Go modernc.org/sqlite driver.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/goGuard/adapter"
	"github.com/MrEthical07/goGuard/identity"
	_ "modernc.org/sqlite"
)

// ErrCorruptRecord is returned when a stored payload cannot be decoded.
var ErrCorruptRecord = errors.New("sqlite record corrupt")

const schema = `
CREATE TABLE IF NOT EXISTS goguard_users (
	id TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	expires_at INTEGER NOT NULL DEFAULT 0,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_goguard_users_expires ON goguard_users(expires_at);

CREATE TABLE IF NOT EXISTS goguard_session_bindings (
	user_id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

var (
	_ adapter.Adapter       = (*Store)(nil)
	_ adapter.SessionBinder = (*Store)(nil)
)

// Config configures [Open].
type Config struct {
	// DSN is a file path or any modernc.org/sqlite data source name.
	DSN string
	// TTL bounds record lifetime after the last Set or ResetExpiration.
	// Zero keeps records until removed.
	TTL time.Duration
	// Now overrides the clock; nil uses time.Now.
	Now func() time.Time
}

// Store persists users as JSON rows. Expiry is evaluated on read; expired rows
// are deleted lazily or by [Store.DeleteExpired].
type Store struct {
	db    *sql.DB
	ttl   time.Duration
	now   func() time.Time
	owned bool
}

// Open opens (or creates) the database at cfg.DSN and applies the schema.
func Open(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, errors.New("sqlitestore: dsn is required")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlitestore: set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlitestore: set busy timeout: %w", err)
	}

	s, err := New(db, cfg.TTL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = true
	if cfg.Now != nil {
		s.now = cfg.Now
	}
	return s, nil
}

// New wraps an existing connection. The caller keeps ownership of db.
func New(db *sql.DB, ttl time.Duration) (*Store, error) {
	if db == nil {
		return nil, errors.New("sqlitestore: db is nil")
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("sqlitestore: create schema: %w", err)
	}
	return &Store{db: db, ttl: ttl, now: time.Now}, nil
}

// Close closes the database if it was opened by [Open].
func (s *Store) Close() error {
	if s == nil || s.db == nil || !s.owned {
		return nil
	}
	return s.db.Close()
}

func (s *Store) deadline(now time.Time) int64 {
	if s.ttl <= 0 {
		return 0
	}
	return now.Add(s.ttl).UnixNano()
}

func live(expiresAt int64, now time.Time) bool {
	return expiresAt == 0 || expiresAt > now.UnixNano()
}

// Get returns the stored user or (nil, nil).
func (s *Store) Get(ctx context.Context, id identity.UserID) (*identity.User, error) {
	if id == "" {
		return nil, adapter.ErrEmptyUserID
	}

	var (
		data      []byte
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT data, expires_at
FROM goguard_users
WHERE id = ?`, string(id)).Scan(&data, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlitestore: get %s: %w", id, err)
	}

	if !live(expiresAt, s.now()) {
		if err := s.Remove(ctx, id); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return decode(id, data)
}

// GetAll returns every live user ordered by id.
func (s *Store) GetAll(ctx context.Context) ([]*identity.User, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, data
FROM goguard_users
WHERE expires_at = 0 OR expires_at > ?
ORDER BY id ASC`, s.now().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: list users: %w", err)
	}
	defer rows.Close()

	users := []*identity.User{}
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("sqlitestore: scan user: %w", err)
		}
		u, err := decode(identity.UserID(id), data)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitestore: iterate users: %w", err)
	}
	return users, nil
}

// Has reports whether a live row exists for id.
func (s *Store) Has(ctx context.Context, id identity.UserID) (bool, error) {
	if id == "" {
		return false, adapter.ErrEmptyUserID
	}
	var n int
	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(1)
FROM goguard_users
WHERE id = ? AND (expires_at = 0 OR expires_at > ?)`, string(id), s.now().UnixNano()).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlitestore: has %s: %w", id, err)
	}
	return n > 0, nil
}

// Set upserts the row for id, replacing any previous payload.
func (s *Store) Set(ctx context.Context, id identity.UserID, user *identity.User) (*identity.User, error) {
	stored, err := adapter.PrepareUser(id, user)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: encode user %s: %w", id, err)
	}

	now := s.now()
	_, err = s.db.ExecContext(ctx, `
INSERT INTO goguard_users (id, data, expires_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	data = excluded.data,
	expires_at = excluded.expires_at,
	updated_at = excluded.updated_at`,
		string(id),
		data,
		s.deadline(now),
		now.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: set %s: %w", id, err)
	}
	return stored, nil
}

// Remove deletes the row and binding for id in one transaction.
func (s *Store) Remove(ctx context.Context, id identity.UserID) error {
	if id == "" {
		return adapter.ErrEmptyUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitestore: begin remove: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM goguard_users WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("sqlitestore: remove %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM goguard_session_bindings WHERE user_id = ?`, string(id)); err != nil {
		return fmt.Errorf("sqlitestore: remove binding %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlitestore: commit remove: %w", err)
	}
	return nil
}

// ResetExpiration moves the deadline of a live row. It reports false when no
// live row exists, and true without touching the database when no TTL is set.
func (s *Store) ResetExpiration(ctx context.Context, id identity.UserID) (bool, error) {
	if s.ttl <= 0 {
		return true, nil
	}

	now := s.now()
	res, err := s.db.ExecContext(ctx, `
UPDATE goguard_users
SET expires_at = ?
WHERE id = ? AND (expires_at = 0 OR expires_at > ?)`,
		s.deadline(now), string(id), now.UnixNano())
	if err != nil {
		return false, fmt.Errorf("sqlitestore: reset expiration %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlitestore: reset expiration %s: %w", id, err)
	}
	return n > 0, nil
}

// BindSession records sessionID as the current session for id.
func (s *Store) BindSession(ctx context.Context, id identity.UserID, sessionID string) error {
	if id == "" {
		return adapter.ErrEmptyUserID
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO goguard_session_bindings (user_id, session_id, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
	session_id = excluded.session_id,
	updated_at = excluded.updated_at`,
		string(id), sessionID, s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sqlitestore: bind session %s: %w", id, err)
	}
	return nil
}

// SessionBinding returns the session bound to id.
func (s *Store) SessionBinding(ctx context.Context, id identity.UserID) (string, bool, error) {
	var sid string
	err := s.db.QueryRowContext(ctx, `
SELECT session_id
FROM goguard_session_bindings
WHERE user_id = ?`, string(id)).Scan(&sid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("sqlitestore: session binding %s: %w", id, err)
	}
	return sid, true, nil
}

// DeleteExpired removes expired rows and their bindings and returns the
// number of user rows deleted.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	cutoff := s.now().UnixNano()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlitestore: begin purge: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
DELETE FROM goguard_session_bindings
WHERE user_id IN (
	SELECT id FROM goguard_users WHERE expires_at != 0 AND expires_at <= ?
)`, cutoff); err != nil {
		return 0, fmt.Errorf("sqlitestore: purge bindings: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
DELETE FROM goguard_users
WHERE expires_at != 0 AND expires_at <= ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sqlitestore: purge users: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlitestore: purge users: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlitestore: commit purge: %w", err)
	}
	return n, nil
}

func decode(id identity.UserID, data []byte) (*identity.User, error) {
	var u identity.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, id, err)
	}
	u.ID = id
	return &u, nil
}
