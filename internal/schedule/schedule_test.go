package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	apperrors "earnings-bot/internal/errors"
)

func TestScheduleInvalidSpec(t *testing.T) {
	s := NewScheduler(zerolog.Nop())
	if err := s.Schedule(context.Background(), "not a spec", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestScheduleFiresPass(t *testing.T) {
	s := NewScheduler(zerolog.Nop())

	var calls atomic.Int32
	err := s.Schedule(context.Background(), "* * * * *", func(context.Context) error {
		calls.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	// Drive the registered job directly rather than waiting a minute.
	entries := s.cron.Entries()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	entries[0].Job.Run()
	if calls.Load() != 1 {
		t.Errorf("pass ran %d times, want 1", calls.Load())
	}
}

func TestScheduleSkipsOverlappingRuns(t *testing.T) {
	s := NewScheduler(zerolog.Nop())

	block := make(chan struct{})
	var calls atomic.Int32
	err := s.Schedule(context.Background(), "* * * * *", func(context.Context) error {
		calls.Add(1)
		<-block
		return nil
	})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	job := s.cron.Entries()[0].Job
	go job.Run()

	// Let the first run park inside the pass, then fire a second tick.
	time.Sleep(50 * time.Millisecond)
	job.Run()

	if calls.Load() != 1 {
		t.Errorf("pass ran %d times, want 1 (overlap must be skipped)", calls.Load())
	}
	close(block)
}

func TestScheduleHaltsOnStoreError(t *testing.T) {
	s := NewScheduler(zerolog.Nop())

	var calls atomic.Int32
	err := s.Schedule(context.Background(), "* * * * *", func(context.Context) error {
		calls.Add(1)
		return apperrors.NewStoreError("mark", "processed.json", errors.New("disk full"))
	})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	job := s.cron.Entries()[0].Job
	job.Run()

	select {
	case ferr := <-s.Fatal():
		var storeErr *apperrors.StoreError
		if !errors.As(ferr, &storeErr) {
			t.Fatalf("expected StoreError, got %v", ferr)
		}
	default:
		t.Fatal("store error was not surfaced")
	}

	// Later ticks must not re-run the pass; re-detecting the same
	// event after a failed mark would post a duplicate thread.
	job.Run()
	if calls.Load() != 1 {
		t.Errorf("pass ran %d times after a store failure, want 1", calls.Load())
	}
}

func TestScheduleKeepsFiringAfterOrdinaryError(t *testing.T) {
	s := NewScheduler(zerolog.Nop())

	var calls atomic.Int32
	err := s.Schedule(context.Background(), "* * * * *", func(context.Context) error {
		calls.Add(1)
		return errors.New("transient api failure")
	})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	job := s.cron.Entries()[0].Job
	job.Run()
	job.Run()

	if calls.Load() != 2 {
		t.Errorf("pass ran %d times, want 2", calls.Load())
	}
	select {
	case ferr := <-s.Fatal():
		t.Errorf("ordinary error surfaced as fatal: %v", ferr)
	default:
	}
}

func TestStartStopIdempotent(t *testing.T) {
	s := NewScheduler(zerolog.Nop())
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}
