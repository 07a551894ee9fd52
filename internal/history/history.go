// Package history persists conversation turns in SQLite so sessions can
// be reviewed and resumed.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// SQLite driver (required for database/sql registration).
	_ "github.com/mattn/go-sqlite3"
)

// Turn is one stored conversation message.
type Turn struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

// Session is one stored conversation.
type Session struct {
	ID        string `json:"id"`
	Model     string `json:"model"`
	StartedAt int64  `json:"started_at"`
	TurnCount int    `json:"turn_count"`
}

// Store manages the history database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the history database at the given path, creating it and its
// schema if needed.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT PRIMARY KEY,
		model       TEXT NOT NULL,
		started_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE TABLE IF NOT EXISTS turns (
		id          TEXT PRIMARY KEY,
		session_id  TEXT NOT NULL REFERENCES sessions(id),
		role        TEXT NOT NULL,
		content     TEXT NOT NULL,
		created_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSession records a new session.
func (s *Store) CreateSession(id, model string) error {
	_, err := s.db.Exec(`INSERT INTO sessions (id, model) VALUES (?, ?)`, id, model)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// SaveTurn appends one turn to a session.
func (s *Store) SaveTurn(turnID, sessionID, role, content string) error {
	_, err := s.db.Exec(
		`INSERT INTO turns (id, session_id, role, content) VALUES (?, ?, ?, ?)`,
		turnID, sessionID, role, content)
	if err != nil {
		return fmt.Errorf("save turn: %w", err)
	}
	return nil
}

// RecentTurns returns the last limit turns of a session, oldest first.
func (s *Store) RecentTurns(sessionID string, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, session_id, role, content, created_at
		FROM (
			SELECT rowid AS rid, id, session_id, role, content, created_at
			FROM turns WHERE session_id = ?
			ORDER BY rowid DESC LIMIT ?
		) ORDER BY rid ASC`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// Sessions returns recent sessions, newest first.
func (s *Store) Sessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT s.id, s.model, s.started_at, COUNT(t.id)
		FROM sessions s LEFT JOIN turns t ON t.session_id = s.id
		GROUP BY s.id ORDER BY s.started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Model, &sess.StartedAt, &sess.TurnCount); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Size returns the database file size in bytes.
func (s *Store) Size() int64 {
	info, err := os.Stat(s.path)
	if err != nil {
		return 0
	}
	return info.Size()
}
