package detectstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hazyhaar/csspeek/dbopen"
)

// Store persists the flag value.
type Store interface {
	Load(ctx context.Context) (bool, error)
	Save(ctx context.Context, v bool) error
}

// Watcher is a Store that can report changes made by other writers.
type Watcher interface {
	Watch(ctx context.Context, interval time.Duration, fn func(bool)) error
}

// MemoryStore keeps the value in process memory.
type MemoryStore struct {
	mu sync.Mutex
	v  bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.v, nil
}

func (m *MemoryStore) Save(_ context.Context, v bool) error {
	m.mu.Lock()
	m.v = v
	m.mu.Unlock()
	return nil
}

// Schema is the DDL of the SQLite store.
const Schema = `CREATE TABLE IF NOT EXISTS detect_state (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	detecting  INTEGER NOT NULL DEFAULT 0,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore persists the flag in a single-row table.
type SQLiteStore struct {
	db     *sql.DB
	owned  bool
	logger *slog.Logger
}

// OpenSQLite opens (or creates) a state database at path.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(Schema))
	if err != nil {
		return nil, fmt.Errorf("detectstate: %w", err)
	}
	s := NewSQLiteStore(db, logger)
	s.owned = true
	return s, nil
}

// NewSQLiteStore uses an already opened database that carries Schema.
func NewSQLiteStore(db *sql.DB, logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteStore{db: db, logger: logger}
}

func (s *SQLiteStore) Load(ctx context.Context) (bool, error) {
	var v bool
	err := s.db.QueryRowContext(ctx, `SELECT detecting FROM detect_state WHERE id = 1`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("detectstate: load: %w", err)
	}
	return v, nil
}

func (s *SQLiteStore) Save(ctx context.Context, v bool) error {
	_, err := dbopen.Exec(ctx, s.db, `
		INSERT INTO detect_state (id, detecting, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET detecting = excluded.detecting, updated_at = excluded.updated_at`,
		v, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("detectstate: save: %w", err)
	}
	return nil
}

// Watch polls PRAGMA data_version, which moves when another connection
// commits, and calls fn with the reloaded value after each change. It
// blocks until ctx is done.
func (s *SQLiteStore) Watch(ctx context.Context, interval time.Duration, fn func(bool)) error {
	if interval <= 0 {
		interval = time.Second
	}
	// data_version is per connection; pin one for the whole watch.
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("detectstate: watch: %w", err)
	}
	defer conn.Close()

	version := func() (int64, error) {
		var v int64
		err := conn.QueryRowContext(ctx, "PRAGMA data_version").Scan(&v)
		return v, err
	}
	last, err := version()
	if err != nil {
		return fmt.Errorf("detectstate: watch: %w", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	s.logger.Debug("detectstate: watch started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		cur, err := version()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Warn("detectstate: version check failed", "error", err)
			continue
		}
		if cur == last {
			continue
		}
		var v bool
		err = conn.QueryRowContext(ctx, `SELECT detecting FROM detect_state WHERE id = 1`).Scan(&v)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("detectstate: reload failed", "error", err)
			continue
		}
		last = cur
		fn(v)
	}
}

// Close closes the database when the store opened it.
func (s *SQLiteStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
