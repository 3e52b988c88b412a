package webclient

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
)

// Session is the client-held record of the authenticated user. It lives
// under one fixed key in local storage until logout; there is no TTL.
type Session struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

const sessionKey = "session"

// SessionStore persists the single current session.
type SessionStore interface {
	Load(ctx context.Context) (Session, bool, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// SQLiteSessionStore keeps the session in a local sqlite key/value
// table, the client's stand-in for browser localStorage.
type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(db *sql.DB) *SQLiteSessionStore {
	return &SQLiteSessionStore{db: db}
}

// Init creates the metadata table if it does not exist.
func (s *SQLiteSessionStore) Init(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS metadata (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *SQLiteSessionStore) Load(ctx context.Context) (Session, bool, error) {
	const query = `SELECT value FROM metadata WHERE key = ?`
	var raw []byte
	err := s.db.QueryRowContext(ctx, query, sessionKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, false, nil
		}
		return Session{}, false, err
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return Session{}, false, err
	}
	return session, true, nil
}

func (s *SQLiteSessionStore) Save(ctx context.Context, session Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	_, err = s.db.ExecContext(ctx, query, sessionKey, raw)
	return err
}

func (s *SQLiteSessionStore) Clear(ctx context.Context) error {
	const query = `DELETE FROM metadata WHERE key = ?`
	_, err := s.db.ExecContext(ctx, query, sessionKey)
	return err
}

// MemorySessionStore holds the session in memory, for tests and
// ephemeral runs.
type MemorySessionStore struct {
	mu      sync.Mutex
	session Session
	present bool
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) Load(ctx context.Context) (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, s.present, nil
}

func (s *MemorySessionStore) Save(ctx context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.present = true
	return nil
}

func (s *MemorySessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = Session{}
	s.present = false
	return nil
}
