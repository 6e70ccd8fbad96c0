package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	apperrors "earnings-bot/internal/errors"
	"earnings-bot/internal/models"
)

// FileStore keeps processed records as a JSON array in a single file.
// The full array is rewritten on every append, via a temp file and
// rename so a crash mid-write never corrupts the existing records.
type FileStore struct {
	path string
	now  func() time.Time

	mu      sync.RWMutex
	records []models.ProcessedRecord
	index   map[models.EventKey]struct{}
	closed  bool
}

var _ ProcessedStore = (*FileStore)(nil)

// OpenFileStore loads the record file at path. A missing file is an
// empty store; the file is created on the first mark.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:  path,
		now:   time.Now,
		index: make(map[models.EventKey]struct{}),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreError("open", path, err)
	}

	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, apperrors.NewStoreError("open", path, fmt.Errorf("failed to parse records: %w", err))
	}
	for _, r := range s.records {
		s.index[r.Key()] = struct{}{}
	}
	return s, nil
}

// IsProcessed reports whether a record exists for the key.
func (s *FileStore) IsProcessed(key models.EventKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[key]
	return ok
}

// MarkProcessed appends a record for the key and rewrites the file.
func (s *FileStore) MarkProcessed(ctx context.Context, key models.EventKey, link string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewStoreError("mark", s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.NewStoreError("mark", s.path, apperrors.ErrStoreClosed)
	}
	if _, ok := s.index[key]; ok {
		return nil
	}

	record := models.ProcessedRecord{
		Ticker:      key.Ticker,
		Period:      key.Period,
		FiscalYear:  key.FiscalYear,
		Link:        link,
		ProcessedAt: s.now().UTC(),
	}
	s.records = append(s.records, record)

	if err := s.persist(); err != nil {
		// Roll back the in-memory append so the event stays eligible.
		s.records = s.records[:len(s.records)-1]
		return apperrors.NewStoreError("mark", s.path, err)
	}
	s.index[key] = struct{}{}
	return nil
}

// persist writes the full record array atomically. Caller holds the lock.
func (s *FileStore) persist() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".processed-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write records: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace record file: %w", err)
	}
	return nil
}

// Records returns a copy of all records in insertion order.
func (s *FileStore) Records() []models.ProcessedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ProcessedRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Close marks the store closed. Further marks fail.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
