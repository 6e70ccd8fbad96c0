package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "earnings-bot/internal/errors"
	"earnings-bot/internal/models"
)

func key(ticker string, q models.Quarter, year int) models.EventKey {
	return models.EventKey{Ticker: ticker, Period: q, FiscalYear: year}
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.json")

	s, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	defer s.Close()

	if s.IsProcessed(key("ACME", models.Q2, 2024)) {
		t.Error("empty store reported a processed key")
	}
	if got := s.Records(); len(got) != 0 {
		t.Errorf("got %d records, want 0", len(got))
	}
}

func TestFileStoreMarkSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.json")

	s, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	k := key("ACME", models.Q2, 2024)
	if err := s.MarkProcessed(context.Background(), k, "https://example.com/ACME"); err != nil {
		t.Fatalf("MarkProcessed: %v", err)
	}
	s.Close()

	reopened, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if !reopened.IsProcessed(k) {
		t.Error("record lost across reopen")
	}
	records := reopened.Records()
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Ticker != "ACME" || records[0].Link != "https://example.com/ACME" {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestFileStoreMarkIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.json")

	s, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	defer s.Close()

	k := key("ACME", models.Q2, 2024)
	for i := 0; i < 3; i++ {
		if err := s.MarkProcessed(context.Background(), k, "link"); err != nil {
			t.Fatalf("MarkProcessed: %v", err)
		}
	}
	if got := s.Records(); len(got) != 1 {
		t.Errorf("got %d records, want 1", len(got))
	}
}

func TestFileStorePreservesInsertionOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.json")

	s, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	defer s.Close()

	keys := []models.EventKey{
		key("AAA", models.Q1, 2024),
		key("BBB", models.Q2, 2024),
		key("AAA", models.Q2, 2024),
	}
	for _, k := range keys {
		if err := s.MarkProcessed(context.Background(), k, ""); err != nil {
			t.Fatalf("MarkProcessed: %v", err)
		}
	}

	records := s.Records()
	if len(records) != len(keys) {
		t.Fatalf("got %d records, want %d", len(records), len(keys))
	}
	for i, r := range records {
		if r.Key() != keys[i] {
			t.Errorf("record %d key = %v, want %v", i, r.Key(), keys[i])
		}
	}
}

func TestFileStoreRecordShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.json")

	s, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	fixed := time.Date(2024, time.August, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	if err := s.MarkProcessed(context.Background(), key("ACME", models.Q2, 2024), "https://example.com"); err != nil {
		t.Fatalf("MarkProcessed: %v", err)
	}
	s.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("file is not a JSON array: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("got %d entries, want 1", len(raw))
	}
	for _, field := range []string{"ticker", "quarter", "year", "link", "timestamp"} {
		if _, ok := raw[0][field]; !ok {
			t.Errorf("record missing field %q", field)
		}
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := OpenFileStore(path)
	var storeErr *apperrors.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
}

func TestFileStoreClosedMarkFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.json")

	s, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	s.Close()

	err = s.MarkProcessed(context.Background(), key("ACME", models.Q2, 2024), "")
	if !errors.Is(err, apperrors.ErrStoreClosed) {
		t.Errorf("expected ErrStoreClosed, got %v", err)
	}
}
