package publish

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	apperrors "earnings-bot/internal/errors"
	"earnings-bot/internal/models"
)

// DefaultPostDelay is the pause between consecutive posts of a thread,
// keeping the chain ordered and gentle on API rate limits.
const DefaultPostDelay = 1 * time.Second

// ThreadPublisher posts the entries of a summary thread as a linear
// reply chain: the first entry is a standalone post, every later entry
// replies to the one before it.
type ThreadPublisher struct {
	poster Poster
	delay  time.Duration
	sleep  func(time.Duration)
	logger zerolog.Logger
}

// NewThreadPublisher creates a ThreadPublisher. A negative delay falls
// back to the default.
func NewThreadPublisher(poster Poster, delay time.Duration, logger zerolog.Logger) *ThreadPublisher {
	if delay < 0 {
		delay = DefaultPostDelay
	}
	return &ThreadPublisher{
		poster: poster,
		delay:  delay,
		sleep:  time.Sleep,
		logger: logger,
	}
}

// Publish posts the thread in order. On a mid-chain failure the posts
// already made are left up unretracted and a PublishError reports how
// far the chain got; the caller must not mark the event processed.
func (p *ThreadPublisher) Publish(ctx context.Context, thread *models.SummaryThread) error {
	if thread == nil || len(thread.Posts) == 0 {
		return apperrors.ErrEmptyThread
	}

	ticker := thread.Event.Ticker
	parentID := ""
	for i, body := range thread.Posts {
		if i > 0 && p.delay > 0 {
			p.sleep(p.delay)
		}
		if err := ctx.Err(); err != nil {
			return apperrors.NewPublishError(ticker, i, len(thread.Posts), err)
		}

		id, err := p.poster.Post(ctx, body, parentID)
		if err != nil {
			return apperrors.NewPublishError(ticker, i, len(thread.Posts), err)
		}
		p.logger.Debug().
			Str("ticker", ticker).
			Int("position", i+1).
			Int("total", len(thread.Posts)).
			Str("post_id", id).
			Msg("posted thread entry")
		parentID = id
	}

	return nil
}
