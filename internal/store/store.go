// Package store provides SQLite persistence for pokedeck.
//
// The only table is a registry of entries the user has opened. It is a
// history, not a cache: pages and details are always fetched fresh.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/abelbrown/pokedeck/internal/catalog"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Sighting is one entry the user has opened at least once.
type Sighting struct {
	ID        int
	Name      string
	Types     []string
	FirstSeen time.Time
	LastSeen  time.Time
	Views     int
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for file-based databases.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db, now: time.Now}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sightings (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		types TEXT NOT NULL DEFAULT '',
		first_seen DATETIME NOT NULL,
		last_seen DATETIME NOT NULL,
		views INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_sightings_last_seen ON sightings(last_seen DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Record notes that d was opened. The first call inserts a row; later calls
// bump last_seen and the view count and refresh name and types.
// Thread-safe: acquires write lock.
func (s *Store) Record(d *catalog.Detail) error {
	if d == nil || d.ID <= 0 {
		return fmt.Errorf("record sighting: missing id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	_, err := s.db.Exec(`
		INSERT INTO sightings (id, name, types, first_seen, last_seen, views)
		VALUES (?, ?, ?, ?, ?, 1)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			types = excluded.types,
			last_seen = excluded.last_seen,
			views = views + 1
	`, d.ID, d.Name, strings.Join(d.TypeNames(), ","), now, now)
	if err != nil {
		return fmt.Errorf("record sighting %d: %w", d.ID, err)
	}
	return nil
}

// Recent returns up to limit sightings, most recently seen first.
// Thread-safe: acquires read lock.
func (s *Store) Recent(limit int) ([]Sighting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, types, first_seen, last_seen, views
		FROM sightings
		ORDER BY last_seen DESC, id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sighting
	for rows.Next() {
		sg, err := scanSighting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the sighting for id. ok is false when it was never recorded.
// Thread-safe: acquires read lock.
func (s *Store) Get(id int) (sg Sighting, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, name, types, first_seen, last_seen, views
		FROM sightings WHERE id = ?
	`, id)
	sg, err = scanSighting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Sighting{}, false, nil
	}
	if err != nil {
		return Sighting{}, false, err
	}
	return sg, true, nil
}

// Seen reports whether id was ever recorded.
func (s *Store) Seen(id int) (bool, error) {
	_, ok, err := s.Get(id)
	return ok, err
}

// Count returns the number of distinct entries recorded.
// Thread-safe: acquires read lock.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM sightings").Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSighting(sc scanner) (Sighting, error) {
	var sg Sighting
	var types string
	if err := sc.Scan(&sg.ID, &sg.Name, &types, &sg.FirstSeen, &sg.LastSeen, &sg.Views); err != nil {
		return Sighting{}, err
	}
	if types != "" {
		sg.Types = strings.Split(types, ",")
	}
	return sg, nil
}
