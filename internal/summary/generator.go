package summary

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	apperrors "earnings-bot/internal/errors"
	"earnings-bot/internal/models"
)

const (
	// DefaultThreadLength is the target number of posts per thread.
	DefaultThreadLength = 5
	// DefaultCharBudget is the fallback splitter's per-post budget,
	// kept under the 280-char platform limit to leave headroom for
	// appended metadata.
	DefaultCharBudget = 260
	// platformLimit is the posting platform's hard message length.
	platformLimit = 280
)

// Generator turns earnings events into summary threads.
type Generator struct {
	llm    LLMClient
	count  int
	budget int
	logger zerolog.Logger
}

// NewGenerator creates a Generator. Non-positive count or budget fall
// back to the defaults.
func NewGenerator(llm LLMClient, count, budget int, logger zerolog.Logger) *Generator {
	if count <= 0 {
		count = DefaultThreadLength
	}
	if budget <= 0 || budget > platformLimit {
		budget = DefaultCharBudget
	}
	return &Generator{llm: llm, count: count, budget: budget, logger: logger}
}

// Generate builds the prompt for an event, invokes the LLM, and parses
// the response into an ordered thread. The structured JSON payload is
// preferred; unparseable responses go through the sentence splitter.
// Failures yield a GenerationError: the caller skips the event for this
// cycle and it stays eligible for the next pass.
func (g *Generator) Generate(ctx context.Context, event models.EarningsEvent) (*models.SummaryThread, error) {
	prompt := buildPrompt(event, g.count, platformLimit)

	raw, err := g.llm.CompleteWithSystem(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, apperrors.NewGenerationError(event.Ticker, err)
	}

	posts := parseTweetPayload(raw)
	if posts == nil {
		g.logger.Debug().Str("ticker", event.Ticker).Msg("no structured payload, using fallback splitter")
		posts = splitPosts(raw, g.count, g.budget)
	}
	if len(posts) > g.count {
		posts = posts[:g.count]
	}
	if len(posts) == 0 {
		return nil, apperrors.NewGenerationError(event.Ticker, apperrors.ErrNoSummary)
	}

	return &models.SummaryThread{Event: event, Posts: posts}, nil
}

// parseTweetPayload scans raw text for a brace-delimited JSON payload
// (first opening brace through last closing brace) and extracts the
// ordered tweet bodies. Returns nil on any parse failure so the caller
// can fall back to the splitter.
func parseTweetPayload(raw string) []string {
	start := strings.Index(raw, "{")
	if start < 0 {
		return nil
	}
	end := strings.LastIndex(raw, "}")
	if end <= start {
		return nil
	}

	var payload struct {
		Tweets []struct {
			Tweet string `json:"tweet"`
		} `json:"tweets"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return nil
	}
	if len(payload.Tweets) == 0 {
		return nil
	}

	posts := make([]string, 0, len(payload.Tweets))
	for _, t := range payload.Tweets {
		body := strings.TrimSpace(t.Tweet)
		if body == "" {
			return nil
		}
		posts = append(posts, body)
	}
	return posts
}

// splitPosts breaks raw text into sentence-like units and greedily packs
// them into at most count entries of at most budget characters each.
// Fewer than count entries are returned as-is, never padded.
func splitPosts(raw string, count, budget int) []string {
	units := strings.Split(raw, ". ")

	var posts []string
	var buf strings.Builder

	flush := func() {
		entry := strings.TrimSpace(buf.String())
		buf.Reset()
		if entry != "" && len(posts) < count {
			posts = append(posts, entry)
		}
	}

	for _, unit := range units {
		unit = strings.TrimSpace(unit)
		if unit == "" {
			continue
		}
		// A single oversize sentence is clipped to the budget rather
		// than producing an overlong post. The cut backs up to a rune
		// boundary so a multibyte character is never split.
		if max := budget - 2; max > 0 && len(unit) > max {
			cut := max
			for cut > 0 && !utf8.RuneStart(unit[cut]) {
				cut--
			}
			unit = unit[:cut]
			if unit == "" {
				continue
			}
		}
		if buf.Len()+len(unit)+2 > budget {
			flush()
			if len(posts) == count {
				return posts
			}
		}
		buf.WriteString(unit)
		buf.WriteString(". ")
	}
	flush()

	return posts
}
