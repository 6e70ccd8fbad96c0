package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "earnings-bot/internal/errors"
	"earnings-bot/internal/models"
)

// SQLiteStore implements ProcessedStore on SQLite. Keys are mirrored in
// memory at open so IsProcessed never touches the database on the hot
// path of a polling pass.
type SQLiteStore struct {
	db   *sql.DB
	path string
	now  func() time.Time

	mu     sync.RWMutex
	index  map[models.EventKey]struct{}
	closed bool
}

var _ ProcessedStore = (*SQLiteStore)(nil)

// OpenSQLiteStore opens (creating if needed) the database at dbPath.
func OpenSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, apperrors.NewStoreError("open", dbPath, fmt.Errorf("failed to open database: %w", err))
	}

	s := &SQLiteStore{
		db:    db,
		path:  dbPath,
		now:   time.Now,
		index: make(map[models.EventKey]struct{}),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, apperrors.NewStoreError("open", dbPath, err)
	}
	if err := s.loadKeys(); err != nil {
		db.Close()
		return nil, apperrors.NewStoreError("open", dbPath, err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS processed_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker TEXT NOT NULL,
		period TEXT NOT NULL,
		fiscal_year INTEGER NOT NULL,
		link TEXT,
		processed_at DATETIME NOT NULL,
		UNIQUE(ticker, period, fiscal_year)
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) loadKeys() error {
	rows, err := s.db.Query(`SELECT ticker, period, fiscal_year FROM processed_events`)
	if err != nil {
		return fmt.Errorf("failed to load keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key models.EventKey
		if err := rows.Scan(&key.Ticker, &key.Period, &key.FiscalYear); err != nil {
			return fmt.Errorf("failed to scan key: %w", err)
		}
		s.index[key] = struct{}{}
	}
	return rows.Err()
}

// IsProcessed reports whether a record exists for the key.
func (s *SQLiteStore) IsProcessed(key models.EventKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[key]
	return ok
}

// MarkProcessed inserts a record for the key.
func (s *SQLiteStore) MarkProcessed(ctx context.Context, key models.EventKey, link string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.NewStoreError("mark", s.path, apperrors.ErrStoreClosed)
	}
	if _, ok := s.index[key]; ok {
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO processed_events (ticker, period, fiscal_year, link, processed_at)
		VALUES (?, ?, ?, ?, ?)`,
		key.Ticker, string(key.Period), key.FiscalYear, link, s.now().UTC())
	if err != nil {
		return apperrors.NewStoreError("mark", s.path, err)
	}
	s.index[key] = struct{}{}
	return nil
}

// Records returns all records in insertion order.
func (s *SQLiteStore) Records() []models.ProcessedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT ticker, period, fiscal_year, link, processed_at
		FROM processed_events ORDER BY id`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var records []models.ProcessedRecord
	for rows.Next() {
		var r models.ProcessedRecord
		var period string
		if err := rows.Scan(&r.Ticker, &period, &r.FiscalYear, &r.Link, &r.ProcessedAt); err != nil {
			return records
		}
		r.Period = models.Quarter(period)
		records = append(records, r)
	}
	return records
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
