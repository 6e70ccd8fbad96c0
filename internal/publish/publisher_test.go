package publish

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	apperrors "earnings-bot/internal/errors"
	"earnings-bot/internal/models"
)

type fakePoster struct {
	calls   []postCall
	failAt  int // 1-based call number that fails; 0 means never
	nextID  int
}

type postCall struct {
	text      string
	inReplyTo string
}

func (f *fakePoster) Post(ctx context.Context, text, inReplyTo string) (string, error) {
	f.calls = append(f.calls, postCall{text: text, inReplyTo: inReplyTo})
	if f.failAt > 0 && len(f.calls) == f.failAt {
		return "", errors.New("api unavailable")
	}
	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID), nil
}

func testThread(posts ...string) *models.SummaryThread {
	return &models.SummaryThread{
		Event: models.EarningsEvent{Ticker: "ACME", Period: models.Q2, FiscalYear: 2024},
		Posts: posts,
	}
}

func newTestPublisher(poster Poster) *ThreadPublisher {
	p := NewThreadPublisher(poster, 0, zerolog.Nop())
	p.sleep = func(time.Duration) {}
	return p
}

func TestPublishReplyChain(t *testing.T) {
	poster := &fakePoster{}
	p := newTestPublisher(poster)

	err := p.Publish(context.Background(), testThread("one", "two", "three"))
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(poster.calls) != 3 {
		t.Fatalf("got %d posts, want 3", len(poster.calls))
	}
	if poster.calls[0].inReplyTo != "" {
		t.Errorf("first post should not be a reply, got parent %q", poster.calls[0].inReplyTo)
	}
	if poster.calls[1].inReplyTo != "id-1" {
		t.Errorf("second post parent = %q, want id-1", poster.calls[1].inReplyTo)
	}
	if poster.calls[2].inReplyTo != "id-2" {
		t.Errorf("third post parent = %q, want id-2", poster.calls[2].inReplyTo)
	}
}

func TestPublishMidChainFailure(t *testing.T) {
	poster := &fakePoster{failAt: 2}
	p := newTestPublisher(poster)

	err := p.Publish(context.Background(), testThread("one", "two", "three"))
	if err == nil {
		t.Fatal("expected error")
	}
	var pubErr *apperrors.PublishError
	if !errors.As(err, &pubErr) {
		t.Fatalf("expected PublishError, got %T", err)
	}
	if pubErr.Posted != 1 || pubErr.Total != 3 {
		t.Errorf("Posted/Total = %d/%d, want 1/3", pubErr.Posted, pubErr.Total)
	}
	// The chain is truncated, never retracted.
	if len(poster.calls) != 2 {
		t.Errorf("got %d post attempts, want 2", len(poster.calls))
	}
}

func TestPublishEmptyThread(t *testing.T) {
	p := newTestPublisher(&fakePoster{})

	if err := p.Publish(context.Background(), testThread()); !errors.Is(err, apperrors.ErrEmptyThread) {
		t.Errorf("expected ErrEmptyThread, got %v", err)
	}
	if err := p.Publish(context.Background(), nil); !errors.Is(err, apperrors.ErrEmptyThread) {
		t.Errorf("expected ErrEmptyThread for nil thread, got %v", err)
	}
}

func TestPublishSleepsBetweenPosts(t *testing.T) {
	poster := &fakePoster{}
	p := NewThreadPublisher(poster, 250*time.Millisecond, zerolog.Nop())

	var slept []time.Duration
	p.sleep = func(d time.Duration) { slept = append(slept, d) }

	if err := p.Publish(context.Background(), testThread("one", "two", "three")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	// No sleep before the first post, one before each reply.
	if len(slept) != 2 {
		t.Fatalf("got %d sleeps, want 2", len(slept))
	}
	for _, d := range slept {
		if d != 250*time.Millisecond {
			t.Errorf("slept %v, want 250ms", d)
		}
	}
}

func TestPublishCancelledContext(t *testing.T) {
	poster := &fakePoster{}
	p := newTestPublisher(poster)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, testThread("one"))
	var pubErr *apperrors.PublishError
	if !errors.As(err, &pubErr) {
		t.Fatalf("expected PublishError, got %v", err)
	}
	if len(poster.calls) != 0 {
		t.Errorf("got %d post attempts, want 0", len(poster.calls))
	}
}
