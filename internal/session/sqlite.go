package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/proferick/planeador/internal/domain"
	_ "modernc.org/sqlite"
)

// saveRetries bounds how many times a conflicting write is retried.
const saveRetries = 3

// SQLiteStore implements Store using SQLite. Sessions persist across
// restarts; the body is stored as a JSON column keyed by user id.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex // serializes session writes to avoid SQLITE_BUSY
}

// NewSQLite creates a SQLite-backed session store.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sessions (
		user_id INTEGER PRIMARY KEY,
		body_json TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetOrCreate retrieves the session for a user, creating one if absent.
func (s *SQLiteStore) GetOrCreate(ctx context.Context, userID int64) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT body_json FROM sessions WHERE user_id = ?`, userID)

	var body string
	err := row.Scan(&body)
	if err == sql.ErrNoRows {
		sess := domain.NewSession(userID)
		if err := s.save(ctx, sess); err != nil {
			return nil, err
		}
		return sess, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(body), &sess); err != nil {
		return nil, fmt.Errorf("decode session body: %w", err)
	}
	return &sess, nil
}

// Save persists the session state.
func (s *SQLiteStore) Save(ctx context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, sess)
}

func (s *SQLiteStore) save(ctx context.Context, sess *domain.Session) error {
	body, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session body: %w", err)
	}

	query := `
	INSERT INTO sessions (user_id, body_json, created_at, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		body_json = excluded.body_json,
		updated_at = excluded.updated_at`

	for attempt := 0; ; attempt++ {
		_, err = s.db.ExecContext(ctx, query,
			sess.UserID, string(body), sess.CreatedAt.Unix(), time.Now().Unix())
		if err == nil {
			return nil
		}
		if !isSQLiteConflictError(err) || attempt >= saveRetries {
			return fmt.Errorf("upsert session: %w", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
		}
	}
}

// Reset replaces the user's session with a fresh default one.
func (s *SQLiteStore) Reset(ctx context.Context, userID int64) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := domain.NewSession(userID)
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// CleanupStale removes sessions not updated within the TTL.
func (s *SQLiteStore) CleanupStale(ctx context.Context, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	threshold := time.Now().Add(-ttl).Unix()
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE updated_at < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("cleanup stale sessions: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return rows, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
