// Package prefs keeps visitor preferences and progress: mute flag, user id,
// visited pages and unlocked achievements.
//
// Values live in memory and are written through to SQLite. Any database
// failure is logged and the store keeps working from memory.
package prefs

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Keys and set names.
const (
	KeyMuted    = "babaru-muted"
	KeyUserID   = "babaru-user-id"
	KeyVisited  = "babaru-visited"
	SetPages    = "babaru-visited-pages"
	SetUnlocked = "babaru-easter-eggs"
)

const opTimeout = 2 * time.Second

const (
	schemaValues = `CREATE TABLE IF NOT EXISTS prefs (key TEXT PRIMARY KEY, value TEXT NOT NULL)`
	schemaSets   = `CREATE TABLE IF NOT EXISTS pref_sets (name TEXT NOT NULL, member TEXT NOT NULL, PRIMARY KEY (name, member))`
)

const upsertValue = `INSERT INTO prefs (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`

// Store is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	db       *sql.DB
	logger   *slog.Logger
	values   map[string]string
	sets     map[string]map[string]bool
	degraded bool
}

// Memory returns a store without persistence.
func Memory() *Store {
	return &Store{
		logger: slog.New(slog.DiscardHandler),
		values: make(map[string]string),
		sets:   make(map[string]map[string]bool),
	}
}

// Open opens or creates the database at path. It never fails: when the
// database cannot be used the returned store is memory-only and Degraded
// reports true.
func Open(path string, logger *slog.Logger) *Store {
	s := Memory()
	if logger != nil {
		s.logger = logger
	}
	if strings.TrimSpace(path) == "" {
		s.degrade("open", fmt.Errorf("storage path is required"))
		return s
	}

	db, err := openDB(path)
	if err != nil {
		s.degrade("open", err)
		return s
	}
	s.db = db
	if err := s.load(); err != nil {
		db.Close()
		s.db = nil
		s.values = make(map[string]string)
		s.sets = make(map[string]map[string]bool)
		s.degrade("load", err)
	}
	return s
}

func openDB(path string) (*sql.DB, error) {
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	dsn := "file:" + cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	for _, stmt := range []string{schemaValues, schemaSets} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return db, nil
}

func (s *Store) load() error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM prefs`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			rows.Close()
			return err
		}
		s.values[k] = v
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT name, member FROM pref_sets`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var name, member string
		if err := rows.Scan(&name, &member); err != nil {
			return err
		}
		s.set(name)[member] = true
	}
	return rows.Err()
}

// Close releases the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Degraded reports whether persistence failed at some point.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

func (s *Store) degrade(op string, err error) {
	s.degraded = true
	s.logger.Warn("preference store degraded to memory", slog.String("op", op), slog.Any("error", err))
}

func (s *Store) set(name string) map[string]bool {
	m, ok := s.sets[name]
	if !ok {
		m = make(map[string]bool)
		s.sets[name] = m
	}
	return m
}

func (s *Store) exec(op, query string, args ...any) {
	if s.db == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.degrade(op, err)
	}
}

// Get returns a stored value.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.exec("set "+key, upsertValue, key, value)
}

// Members returns the sorted members of a set.
func (s *Store) Members(name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sets[name]))
	for m := range s.sets[name] {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

// Has reports set membership.
func (s *Store) Has(name, member string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets[name][member]
}

// Add inserts member and reports whether it was new.
func (s *Store) Add(name, member string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.set(name)
	if set[member] {
		return false
	}
	set[member] = true
	s.exec("add "+name, `INSERT OR IGNORE INTO pref_sets (name, member) VALUES (?, ?)`, name, member)
	return true
}
