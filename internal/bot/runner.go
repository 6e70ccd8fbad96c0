// Package bot drives the poll, summarize, publish, record cycle.
package bot

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	apperrors "earnings-bot/internal/errors"
	"earnings-bot/internal/logging"
	"earnings-bot/internal/models"
	"earnings-bot/internal/store"
	"earnings-bot/internal/universe"
)

// DefaultPollInterval is the pause between polling passes in
// continuous mode.
const DefaultPollInterval = 60 * time.Minute

// DefaultTickerDelay is the pause between consecutive tickers within a
// pass, keeping the market data source's rate limits comfortable.
const DefaultTickerDelay = 1 * time.Second

// Detector finds the latest earnings event for a ticker, or nil when
// none is scheduled.
type Detector interface {
	Detect(ctx context.Context, ticker, companyName string) (*models.EarningsEvent, error)
}

// Generator builds a summary thread for an event.
type Generator interface {
	Generate(ctx context.Context, event models.EarningsEvent) (*models.SummaryThread, error)
}

// Publisher posts a thread as a reply chain.
type Publisher interface {
	Publish(ctx context.Context, thread *models.SummaryThread) error
}

// Runner walks the ticker universe once per pass, handling each new
// earnings event end to end before moving to the next ticker.
type Runner struct {
	universe    *universe.Universe
	detector    Detector
	generator   Generator
	publisher   Publisher
	store       store.ProcessedStore
	logger      zerolog.Logger
	tickerDelay time.Duration
	sleep       func(time.Duration)
}

// NewRunner wires the pipeline stages together. A negative tickerDelay
// falls back to the default.
func NewRunner(
	u *universe.Universe,
	detector Detector,
	generator Generator,
	publisher Publisher,
	s store.ProcessedStore,
	tickerDelay time.Duration,
	logger zerolog.Logger,
) *Runner {
	if tickerDelay < 0 {
		tickerDelay = DefaultTickerDelay
	}
	return &Runner{
		universe:    u,
		detector:    detector,
		generator:   generator,
		publisher:   publisher,
		store:       s,
		logger:      logger,
		tickerDelay: tickerDelay,
		sleep:       time.Sleep,
	}
}

// RunPass processes every company in the universe once. Per-ticker
// failures are logged and the pass continues; store failures and
// context cancellation abort the pass, since continuing past a store
// failure risks posting duplicates later.
func (r *Runner) RunPass(ctx context.Context) error {
	start := time.Now()
	processed := 0

	for i, company := range r.universe.Companies() {
		if i > 0 && r.tickerDelay > 0 {
			r.sleep(r.tickerDelay)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		posted, err := r.processTicker(ctx, company)
		if err != nil {
			var storeErr *apperrors.StoreError
			if apperrors.As(err, &storeErr) {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Error().Err(err).Str("ticker", company.Ticker).Msg("ticker failed, continuing pass")
			continue
		}
		if posted {
			processed++
		}
	}

	r.logger.Info().
		Int("tickers", r.universe.Len()).
		Int("events_posted", processed).
		Dur("elapsed", time.Since(start)).
		Msg("pass complete")
	return nil
}

// processTicker handles one company: detect, dedup, summarize, publish,
// record. It reports whether a new thread was posted.
func (r *Runner) processTicker(ctx context.Context, company universe.Company) (bool, error) {
	logger := logging.WithTicker(r.logger, company.Ticker)

	event, err := r.detector.Detect(ctx, company.Ticker, company.Name)
	if err != nil {
		return false, err
	}
	if event == nil {
		logger.Debug().Msg("no earnings event")
		return false, nil
	}

	key := event.Key()
	if r.store.IsProcessed(key) {
		logger.Debug().Stringer("key", key).Msg("already processed")
		return false, nil
	}

	logger.Info().Stringer("key", key).Time("disclosure", event.DisclosureDate).Msg("new earnings event")

	thread, err := r.generator.Generate(ctx, *event)
	if err != nil {
		return false, err
	}

	if err := r.publisher.Publish(ctx, thread); err != nil {
		// The event stays unmarked so the next pass retries it.
		return false, err
	}

	// Marking is the last step: a crash before this point means a
	// repost risk, a crash after it means at most a skipped event.
	if err := r.store.MarkProcessed(ctx, key, event.SourceLink); err != nil {
		return false, err
	}

	logger.Info().Stringer("key", key).Int("posts", len(thread.Posts)).Msg("thread published")
	return true, nil
}

// Run polls forever at the given interval. Cancellation stops the loop
// cleanly; store failures propagate. All other pass errors are logged
// and the loop continues.
func (r *Runner) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("stopping")
			return nil
		case <-timer.C:
		}

		if err := r.RunPass(ctx); err != nil {
			if ctx.Err() != nil {
				r.logger.Info().Msg("stopping")
				return nil
			}
			var storeErr *apperrors.StoreError
			if apperrors.As(err, &storeErr) {
				return err
			}
			r.logger.Error().Err(err).Msg("pass failed")
		}

		timer.Reset(interval)
	}
}
