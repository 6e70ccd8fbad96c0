// Package schedule runs polling passes on a cron expression instead of
// a fixed interval.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	apperrors "earnings-bot/internal/errors"
)

// Scheduler triggers a pass function on a cron spec. Overlapping runs
// are skipped: if a pass is still in flight when the next tick fires,
// the tick is dropped. A pass failing with a store persistence error
// halts the schedule; swallowing it would risk duplicate posting on
// later ticks.
type Scheduler struct {
	cron    *cron.Cron
	logger  zerolog.Logger
	fatal   chan error
	mu      sync.Mutex
	running bool
	halted  bool
	started bool
}

// NewScheduler creates an idle scheduler.
func NewScheduler(logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
		fatal:  make(chan error, 1),
	}
}

// Schedule registers the pass function under the cron spec (standard
// five-field syntax).
func (s *Scheduler) Schedule(ctx context.Context, spec string, pass func(context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.mu.Lock()
		if s.halted {
			s.mu.Unlock()
			return
		}
		if s.running {
			s.mu.Unlock()
			s.logger.Warn().Str("spec", spec).Msg("previous pass still running, skipping tick")
			return
		}
		s.running = true
		s.mu.Unlock()

		defer func() {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
		}()

		if err := pass(ctx); err != nil {
			var storeErr *apperrors.StoreError
			if errors.As(err, &storeErr) {
				s.halt(err)
				return
			}
			s.logger.Error().Err(err).Msg("scheduled pass failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return nil
}

// halt marks the schedule dead and hands the error to Fatal.
func (s *Scheduler) halt(err error) {
	s.mu.Lock()
	alreadyHalted := s.halted
	s.halted = true
	s.mu.Unlock()
	if alreadyHalted {
		return
	}

	s.logger.Error().Err(err).Msg("store failure, halting schedule")
	s.fatal <- err
}

// Fatal delivers the error that halted the schedule. Subsequent ticks
// after a halt do not run the pass.
func (s *Scheduler) Fatal() <-chan error {
	return s.fatal
}

// Start begins firing scheduled passes.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		s.cron.Start()
		s.started = true
	}
}

// Stop halts the scheduler and waits for an in-flight pass to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	started := s.started
	s.started = false
	s.mu.Unlock()

	if started {
		<-s.cron.Stop().Done()
	}
}
