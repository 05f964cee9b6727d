package roster

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var (
	// ErrNotFound is returned when a target is not in the store.
	ErrNotFound = errors.New("target not found")
	// ErrStoreClosed is returned when operating on a closed store.
	ErrStoreClosed = errors.New("store closed")
)

// SQLiteStore caches target documents in SQLite.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// OpenSQLite opens or creates a target cache.
// The path should be a file path (e.g., "./targets.db") or ":memory:" for testing.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS targets (
			id TEXT PRIMARY KEY,
			updated TEXT NOT NULL,
			data BLOB NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save inserts or replaces a target.
func (s *SQLiteStore) Save(t Target) error {
	if t.ID == "" {
		return fmt.Errorf("save target: empty id")
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode target %s: %w", t.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err = s.db.Exec(`
		INSERT INTO targets (id, updated, data) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			updated = excluded.updated,
			data = excluded.data
	`, t.ID, time.Now().UTC().Format(time.RFC3339Nano), data)
	if err != nil {
		return fmt.Errorf("save target %s: %w", t.ID, err)
	}
	return nil
}

// Load returns a single target.
func (s *SQLiteStore) Load(id string) (Target, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Target{}, ErrStoreClosed
	}

	var data []byte
	err := s.db.QueryRow(`SELECT data FROM targets WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return Target{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Target{}, fmt.Errorf("load target %s: %w", id, err)
	}
	return decodeTarget(id, data)
}

// List returns every target ordered by ID.
func (s *SQLiteStore) List() ([]Target, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`SELECT id, data FROM targets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var targets []Target
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		t, err := decodeTarget(id, data)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	return targets, nil
}

// Delete removes a target. Deleting a missing target is not an error.
func (s *SQLiteStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM targets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete target %s: %w", id, err)
	}
	return nil
}

// Close releases the database. It is safe to call more than once.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func decodeTarget(id string, data []byte) (Target, error) {
	var t Target
	if err := json.Unmarshal(data, &t); err != nil {
		return Target{}, fmt.Errorf("decode target %s: %w", id, err)
	}
	t.ID = id
	return t, nil
}

func loadSQLite(path string) (*Roster, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	store, err := OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	defer store.Close()

	targets, err := store.List()
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return &Roster{Targets: targets}, nil
}
